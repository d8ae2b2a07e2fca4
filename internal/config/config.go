package config

import (
	"log"
	"os"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort string

	// carpeta con los CSV del dataset Book-Crossing
	DataDir     string
	BooksFile   string
	RatingsFile string
	UsersFile   string

	// umbrales por defecto para la limpieza del dataset
	MinUserRatings int
	MinBookRatings int

	// rating predicho mínimo para recomendar (escala 1-10)
	MinPredictedRating float64

	// workers para el cálculo de la matriz de similitud
	SimWorkers int

	LogLevel string
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		DataDir:            getEnv("DATA_DIR", "data"),
		BooksFile:          getEnv("BOOKS_FILE", "Books.csv"),
		RatingsFile:        getEnv("RATINGS_FILE", "Book-Ratings.csv"),
		UsersFile:          getEnv("USERS_FILE", "Users.csv"),
		MinUserRatings:     getEnvInt("MIN_USER_RATINGS", 3),
		MinBookRatings:     getEnvInt("MIN_BOOK_RATINGS", 2),
		MinPredictedRating: getEnvFloat("MIN_PREDICTED_RATING", 5.0),
		SimWorkers:         getEnvInt("SIM_WORKERS", runtime.NumCPU()),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Printf("[config] %s no está seteado, usando valor por defecto\n", key)
		return def
	}
	return v
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[config] %s=%q no es un entero, usando %d\n", key, v, def)
		return def
	}
	return n
}

func getEnvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("[config] %s=%q no es un número, usando %g\n", key, v, def)
		return def
	}
	return f
}
