package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/alumnx-ai-labs/bookyard/internal/models"
)

// Los CSV del dump de Book-Crossing vienen separados por ';' y en Latin-1.
const csvDelimiter = ';'

// Columnas requeridas por fuente. El orden en el archivo no importa,
// se resuelven por nombre de header.
const (
	colISBN      = "ISBN"
	colTitle     = "Title"
	colAuthor    = "Author"
	colPublisher = "Publisher"
	colYear      = "Year"
	colUserID    = "User-ID"
	colRating    = "Book-Rating"
	colLocation  = "Location"
	colAge       = "Age"
)

// Source agrupa las rutas de los tres CSV de un snapshot.
type Source struct {
	BooksPath   string
	RatingsPath string
	UsersPath   string
}

// Load lee las tres fuentes. rowLimit <= 0 significa sin límite;
// si es > 0 se leen como máximo rowLimit filas de datos por fuente.
func (s Source) Load(rowLimit int) ([]models.RawBook, []models.RawRating, []models.RawUser, error) {
	books, err := loadFile(s.BooksPath, rowLimit, LoadBooks)
	if err != nil {
		return nil, nil, nil, err
	}
	ratings, err := loadFile(s.RatingsPath, rowLimit, LoadRatings)
	if err != nil {
		return nil, nil, nil, err
	}
	users, err := loadFile(s.UsersPath, rowLimit, LoadUsers)
	if err != nil {
		return nil, nil, nil, err
	}
	return books, ratings, users, nil
}

func loadFile[T any](path string, rowLimit int, load func(io.Reader, string, int) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("no se pudo abrir la fuente: %w", err)
	}
	defer f.Close()

	return load(f, sourceName(path), rowLimit)
}

func sourceName(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}

// table es un CSV ya parseado con lookup de columnas por header.
type table struct {
	source string
	cols   map[string]int
	rows   [][]string
}

func readTable(r io.Reader, source string, rowLimit int) (*table, error) {
	cr := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(r))
	cr.Comma = csvDelimiter
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("no se pudo leer el header de %s: %w", source, err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		// el dump original trae headers con comillas y espacios
		h = strings.TrimSpace(strings.ReplaceAll(h, `"`, ""))
		cols[h] = i
	}

	t := &table{source: source, cols: cols}
	for {
		if rowLimit > 0 && len(t.rows) >= rowLimit {
			break
		}
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// fila malformada: se salta, no aborta la carga completa
			continue
		}
		t.rows = append(t.rows, rec)
	}
	return t, nil
}

// require devuelve el índice de una columna o DataFormatError si no existe.
func (t *table) require(name string) (int, error) {
	idx, ok := t.cols[name]
	if !ok {
		return 0, &DataFormatError{Source: t.source, Column: name}
	}
	return idx, nil
}

func (t *table) field(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// LoadBooks parsea la fuente de libros. Year inválido degrada a nil.
func LoadBooks(r io.Reader, source string, rowLimit int) ([]models.RawBook, error) {
	t, err := readTable(r, source, rowLimit)
	if err != nil {
		return nil, err
	}

	var idx struct{ isbn, title, author, publisher, year int }
	if idx.isbn, err = t.require(colISBN); err != nil {
		return nil, err
	}
	if idx.title, err = t.require(colTitle); err != nil {
		return nil, err
	}
	if idx.author, err = t.require(colAuthor); err != nil {
		return nil, err
	}
	if idx.publisher, err = t.require(colPublisher); err != nil {
		return nil, err
	}
	if idx.year, err = t.require(colYear); err != nil {
		return nil, err
	}

	books := make([]models.RawBook, 0, len(t.rows))
	for _, row := range t.rows {
		isbn := t.field(row, idx.isbn)
		if isbn == "" {
			continue
		}
		books = append(books, models.RawBook{
			ISBN:      isbn,
			Title:     t.field(row, idx.title),
			Author:    t.field(row, idx.author),
			Publisher: t.field(row, idx.publisher),
			Year:      parseYear(t.field(row, idx.year)),
		})
	}
	return books, nil
}

// LoadRatings parsea la fuente de ratings. Filas con User-ID o Book-Rating
// no numéricos se descartan (no hay valor nulo razonable para ellas).
func LoadRatings(r io.Reader, source string, rowLimit int) ([]models.RawRating, error) {
	t, err := readTable(r, source, rowLimit)
	if err != nil {
		return nil, err
	}

	userIdx, err := t.require(colUserID)
	if err != nil {
		return nil, err
	}
	isbnIdx, err := t.require(colISBN)
	if err != nil {
		return nil, err
	}
	ratingIdx, err := t.require(colRating)
	if err != nil {
		return nil, err
	}

	ratings := make([]models.RawRating, 0, len(t.rows))
	for _, row := range t.rows {
		userID, err := strconv.Atoi(t.field(row, userIdx))
		if err != nil {
			continue
		}
		rating, err := strconv.Atoi(t.field(row, ratingIdx))
		if err != nil || rating < 0 || rating > 10 {
			continue
		}
		isbn := t.field(row, isbnIdx)
		if isbn == "" {
			continue
		}
		ratings = append(ratings, models.RawRating{
			UserID: userID,
			ISBN:   isbn,
			Rating: rating,
		})
	}
	return ratings, nil
}

// LoadUsers parsea la fuente de usuarios. Age inválido degrada a nil.
func LoadUsers(r io.Reader, source string, rowLimit int) ([]models.RawUser, error) {
	t, err := readTable(r, source, rowLimit)
	if err != nil {
		return nil, err
	}

	userIdx, err := t.require(colUserID)
	if err != nil {
		return nil, err
	}
	locIdx, err := t.require(colLocation)
	if err != nil {
		return nil, err
	}
	ageIdx, err := t.require(colAge)
	if err != nil {
		return nil, err
	}

	users := make([]models.RawUser, 0, len(t.rows))
	for _, row := range t.rows {
		userID, err := strconv.Atoi(t.field(row, userIdx))
		if err != nil {
			continue
		}
		u := models.RawUser{UserID: userID}
		if loc := t.field(row, locIdx); loc != "" {
			u.Location = &loc
		}
		u.Age = parseAge(t.field(row, ageIdx))
		users = append(users, u)
	}
	return users, nil
}

// parseYear acepta solo años plausibles, igual que la validación original.
func parseYear(s string) *int {
	y, err := strconv.Atoi(s)
	if err != nil || y < 1000 || y > 2100 {
		return nil
	}
	return &y
}

func parseAge(s string) *int {
	if s == "" || strings.EqualFold(s, "NULL") {
		return nil
	}
	a, err := strconv.Atoi(s)
	if err != nil || a < 0 {
		return nil
	}
	return &a
}
