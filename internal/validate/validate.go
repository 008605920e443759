// validate — чистые проверки пользовательского ввода форм.
// Выполняются до любого сетевого вызова; тексты ошибок показываются
// пользователю как есть.
package validate

import (
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode"
)

const (
	minPasswordLen = 6
	maxTitleLen    = 255
	maxJournalLen  = 255
	maxAbstractLen = 5000
)

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Email — username должен быть адресом электронной почты.
func Email(email string) error {
	if _, err := mail.ParseAddress(strings.TrimSpace(email)); err != nil {
		return errors.New("invalid email format")
	}

	return nil
}

// Password — минимальная длина пароля.
func Password(password string) error {
	if len(password) < minPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", minPasswordLen)
	}

	return nil
}

// FirstName — непустое имя без цифр и символов.
func FirstName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("first name is required")
	}

	if !lettersOnly(name) {
		return errors.New("first name cannot contain numbers or symbols")
	}

	return nil
}

// LastName — непустая фамилия без цифр и символов.
func LastName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("last name is required")
	}

	if !lettersOnly(name) {
		return errors.New("last name cannot contain numbers or symbols")
	}

	return nil
}

// lettersOnly: только буквы (включая диакритику) и пробелы.
func lettersOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsSpace(r) {
			return false
		}
	}

	return true
}

// Title — заголовок статьи.
func Title(title string) error {
	if strings.TrimSpace(title) == "" {
		return errors.New("title is required")
	}

	if len(title) > maxTitleLen {
		return fmt.Errorf("title cannot exceed %d characters", maxTitleLen)
	}

	return nil
}

// Authors — список авторов через запятую: непустой, без пустых элементов.
func Authors(authors []string) error {
	if len(authors) == 0 {
		return errors.New("at least one author is required")
	}

	for _, a := range authors {
		if a == "" {
			return errors.New("authors cannot be empty strings")
		}
	}

	return nil
}

// Keywords — список ключевых слов: непустой, без пустых элементов.
func Keywords(keywords []string) error {
	if len(keywords) == 0 {
		return errors.New("at least one keyword is required")
	}

	for _, k := range keywords {
		if k == "" {
			return errors.New("keywords cannot be empty strings")
		}
	}

	return nil
}

// PublicationDate — дата в формате YYYY-MM-DD.
func PublicationDate(date string) error {
	if strings.TrimSpace(date) == "" {
		return errors.New("publication date is required")
	}

	if !dateRe.MatchString(date) {
		return errors.New("publication date must be in YYYY-MM-DD format")
	}

	return nil
}

// Journal — название журнала.
func Journal(journal string) error {
	if strings.TrimSpace(journal) == "" {
		return errors.New("journal name is required")
	}

	if len(journal) > maxJournalLen {
		return fmt.Errorf("journal name cannot exceed %d characters", maxJournalLen)
	}

	return nil
}

// DOI — непустой идентификатор.
func DOI(doi string) error {
	if strings.TrimSpace(doi) == "" {
		return errors.New("doi is required")
	}

	return nil
}

// Abstract — аннотация.
func Abstract(abstract string) error {
	if strings.TrimSpace(abstract) == "" {
		return errors.New("abstract is required")
	}

	if len(abstract) > maxAbstractLen {
		return fmt.Errorf("abstract cannot exceed %d characters", maxAbstractLen)
	}

	return nil
}

// OldPassword — старый пароль при смене.
func OldPassword(password string) error {
	if len(password) < minPasswordLen {
		return fmt.Errorf("the old password must be at least %d characters long", minPasswordLen)
	}

	return nil
}

// NewPassword — новый пароль при смене: длина и отличие от старого.
func NewPassword(newPassword, oldPassword string) error {
	if len(newPassword) < minPasswordLen {
		return fmt.Errorf("the new password must be at least %d characters long", minPasswordLen)
	}

	if newPassword == oldPassword {
		return errors.New("the new password cannot be the same as the old password")
	}

	return nil
}

// ConfirmPassword — подтверждение совпадает с новым паролем.
func ConfirmPassword(newPassword, confirm string) error {
	if confirm != newPassword {
		return errors.New("the passwords do not match")
	}

	return nil
}
