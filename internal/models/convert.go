// Конвертация между доменными моделями и сетевыми представлениями.
//
// Сервер несимметричен по полям authors/keywords:
//   - в запросах create/update он принимает массивы строк;
//   - в ответах отдаёт их JSON-строками (содержимое текстовой колонки),
//     которые клиент обязан разобрать заново.
//
// StringList принимает оба варианта; значение, нечитаемое как JSON,
// трактуем как список через запятую (записи до перехода на JSON-массивы).
package models

import (
	"encoding/json"
	"strings"
)

// StringList — список строк, декодируемый и из JSON-массива,
// и из JSON-строки с закодированным массивом.
type StringList []string

func (l *StringList) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}

		*l = ParseStringList(s)
		return nil
	}

	var arr []string
	if err := json.Unmarshal(b, &arr); err != nil {
		return err
	}

	for i := range arr {
		arr[i] = strings.TrimSpace(arr[i])
	}

	*l = arr
	return nil
}

// ArticlePayload — тело запроса create/update статьи.
type ArticlePayload struct {
	Title           string   `json:"title"`
	Authors         []string `json:"authors"`
	PublicationDate string   `json:"publication_date"`
	Keywords        []string `json:"keywords"`
	Abstract        string   `json:"abstract"`
	Journal         string   `json:"journal"`
	DOI             string   `json:"doi"`
	Pages           *int64   `json:"pages"`
	UserID          int64    `json:"user_id,omitempty"`
}

// ArticleRecord — статья в ответах сервера.
type ArticleRecord struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Authors         StringList `json:"authors"`
	PublicationDate string     `json:"publication_date"`
	Keywords        StringList `json:"keywords"`
	Abstract        string     `json:"abstract"`
	Journal         string     `json:"journal"`
	DOI             string     `json:"doi"`
	Pages           *int64     `json:"pages"`
	UserID          int64      `json:"user_id"`
}

// ToPayload собирает тело запроса из доменной модели.
func (a Article) ToPayload() ArticlePayload {
	return ArticlePayload{
		Title:           a.Title,
		Authors:         a.Authors,
		PublicationDate: a.PublicationDate,
		Keywords:        a.Keywords,
		Abstract:        a.Abstract,
		Journal:         a.Journal,
		DOI:             a.DOI,
		Pages:           a.Pages,
		UserID:          a.UserID,
	}
}

// ArticleFromRecord разбирает сетевую запись в доменную модель.
func ArticleFromRecord(r ArticleRecord) Article {
	return Article{
		ID:              r.ID,
		Title:           r.Title,
		Authors:         []string(r.Authors),
		PublicationDate: r.PublicationDate,
		Keywords:        []string(r.Keywords),
		Abstract:        r.Abstract,
		Journal:         r.Journal,
		DOI:             r.DOI,
		Pages:           r.Pages,
		UserID:          r.UserID,
	}
}

// ArticlesFromRecords — ArticleFromRecord для среза.
func ArticlesFromRecords(rs []ArticleRecord) []Article {
	if len(rs) == 0 {
		return nil
	}

	out := make([]Article, 0, len(rs))
	for _, r := range rs {
		out = append(out, ArticleFromRecord(r))
	}

	return out
}

// SplitList режет пользовательский ввод "a, b, c" на список обрезанных
// строк. Пустые элементы сохраняются — их отлавливает валидация.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}

	return out
}

// ParseStringList разбирает значение поля authors/keywords из ответа:
// сперва как JSON-массив строк, при неудаче — как список через запятую.
func ParseStringList(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	var arr []string
	if err := json.Unmarshal([]byte(s), &arr); err == nil {
		for i := range arr {
			arr[i] = strings.TrimSpace(arr[i])
		}

		return arr
	}

	return SplitList(s)
}
