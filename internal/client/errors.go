// Таксономия ошибок клиента.
//
// На вход — HTTP-статус и конверт ошибки {message}; на выход — ошибка
// с двумя слоями: сентинел класса (для errors.Is на вызывающей стороне)
// и *APIError с деталями (для errors.As). Describe даёт готовую фразу
// для пользователя.
//
// 404 маппится в отдельный ErrNotFound, но в остальном это обычная
// проброшенная ошибка: ни refresh, ни logout она не вызывает.
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrSessionExpired — 401 вне login-сценариев: сессия истекла и не
	// восстановилась (refresh не удался или повтор снова получил 401).
	ErrSessionExpired = errors.New("session expired")
	// ErrInvalidCredentials — 401 на login или неверный старый пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrConflict — 409: username/email уже занят.
	ErrConflict = errors.New("already in use")
	// ErrNotFound — 404.
	ErrNotFound = errors.New("not found")
	// ErrServer — 5xx.
	ErrServer = errors.New("server error")
	// ErrNetwork — ответ не получен (DNS, соединение, таймаут).
	ErrNetwork = errors.New("network error")
	// ErrUnexpected — всё остальное.
	ErrUnexpected = errors.New("unexpected error")
)

// OldPasswordMessage — точный текст серверной ошибки смены пароля.
// Такой 401 — ошибка ввода, а не истёкшая сессия: он не должен вызывать
// ни refresh, ни logout.
const OldPasswordMessage = "401 Unauthorized: Old password is incorrect"

// APIError — детали ошибочного HTTP-ответа.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}

	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

// apiErrorFrom классифицирует ошибочный ответ сервера.
func apiErrorFrom(req *Request, resp *Response) error {
	msg := envelopeMessage(resp.Body)

	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    msg,
		RequestID:  resp.Header.Get("X-Request-Id"),
	}

	var class error
	switch {
	case resp.StatusCode == http.StatusUnauthorized && req.Path == loginPath:
		class = ErrInvalidCredentials
	case resp.StatusCode == http.StatusUnauthorized && msg == OldPasswordMessage:
		class = ErrInvalidCredentials
	case resp.StatusCode == http.StatusUnauthorized:
		class = ErrSessionExpired
	case resp.StatusCode == http.StatusNotFound:
		class = ErrNotFound
	case resp.StatusCode == http.StatusConflict:
		class = ErrConflict
	case resp.StatusCode >= 500:
		class = ErrServer
	default:
		class = ErrUnexpected
	}

	return fmt.Errorf("%w: %w", class, apiErr)
}

// envelopeMessage достаёт message из конверта ошибки; мусор в теле — "".
func envelopeMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var env struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}

	return env.Message
}

// Describe возвращает фразу для показа пользователю.
// Презентация ошибок — ответственность вызывающего слоя; клиент лишь
// даёт канонический текст для каждого класса.
func Describe(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message == OldPasswordMessage {
		return "The old password is incorrect. Please try again."
	}

	switch {
	case errors.Is(err, ErrSessionExpired):
		return "Your session has expired. Please log in again."
	case errors.Is(err, ErrInvalidCredentials):
		return "The user does not exist or the password is incorrect."
	case errors.Is(err, ErrConflict):
		return "The username is already taken. Please choose a different one."
	case errors.Is(err, ErrNotFound):
		return "The requested resource was not found."
	case errors.Is(err, ErrServer):
		return "An unexpected error occurred. Please try again later."
	case errors.Is(err, ErrNetwork):
		return "Please check your internet connection."
	default:
		return "An unexpected error occurred."
	}
}
