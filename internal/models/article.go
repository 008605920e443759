package models

// Article — научная статья в доменном представлении клиента.
//
// Authors и Keywords здесь — уже разобранные списки строк; упаковку в
// сетевые форматы (массивы в запросах, JSON-строки в ответах) выполняют
// конвертеры в convert.go.
type Article struct {
	ID              int64
	Title           string
	Authors         []string
	PublicationDate string // YYYY-MM-DD
	Keywords        []string
	Abstract        string
	Journal         string
	DOI             string
	Pages           *int64 // может отсутствовать
	UserID          int64
}
