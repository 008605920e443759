// search — клиентский поиск/фильтрация по уже загруженным статьям.
// Сервер об этом ничего не знает: список принадлежит пользователю
// и фильтруется локально.
package search

import (
	"strings"

	"github.com/pribylovaa/sciarticles/internal/models"
)

// Field — поле, по которому идёт поиск.
type Field string

const (
	// FieldAny — пустой фильтр: поиск по всем поддерживаемым полям.
	FieldAny      Field = ""
	FieldTitle    Field = "title"
	FieldDOI      Field = "doi"
	FieldKeywords Field = "keywords"
)

// Filter отбирает статьи по подстроке query (без учёта регистра).
//
// Контракт:
//  1. пустой query — все статьи без изменений;
//  2. field задаёт единственное поле поиска; нераспознанный field
//     не совпадает ни с чем;
//  3. FieldAny — совпадение по title, doi или любому из keywords.
func Filter(articles []models.Article, query string, field Field) []models.Article {
	if query == "" {
		return articles
	}

	q := strings.ToLower(query)

	out := make([]models.Article, 0, len(articles))
	for _, a := range articles {
		if matches(a, q, field) {
			out = append(out, a)
		}
	}

	return out
}

func matches(a models.Article, q string, field Field) bool {
	switch field {
	case FieldTitle:
		return strings.Contains(strings.ToLower(a.Title), q)
	case FieldDOI:
		return strings.Contains(strings.ToLower(a.DOI), q)
	case FieldKeywords:
		return keywordMatch(a.Keywords, q)
	case FieldAny:
		return strings.Contains(strings.ToLower(a.Title), q) ||
			strings.Contains(strings.ToLower(a.DOI), q) ||
			keywordMatch(a.Keywords, q)
	default:
		return false
	}
}

func keywordMatch(keywords []string, q string) bool {
	for _, kw := range keywords {
		if strings.Contains(strings.ToLower(kw), q) {
			return true
		}
	}

	return false
}
