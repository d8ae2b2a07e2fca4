package dataset

import "fmt"

// DataFormatError indica que una fuente no tiene el formato esperado
// (típicamente, una columna requerida ausente). La carga se aborta completa.
type DataFormatError struct {
	Source string
	Column string
}

func (e *DataFormatError) Error() string {
	return fmt.Sprintf("formato inválido en %s: falta la columna requerida %q", e.Source, e.Column)
}
