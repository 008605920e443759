// client — аутентифицированный HTTP-клиент сервиса научных статей.
//
// Прозрачно подставляет bearer-токены в исходящие запросы, на 401
// (кроме login и неверного старого пароля) один раз обновляет пару
// токенов и повторяет исходный запрос; при невосстановимой ошибке
// refresh очищает сессию. См. doer.go (конвейер) и refresh.go
// (критическая секция обновления).
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pribylovaa/sciarticles/internal/models"
	"github.com/pribylovaa/sciarticles/internal/session"
)

// Client — типизированный API поверх конвейера исходящих запросов.
type Client struct {
	store session.Store
	do    Doer
}

// Options — параметры сборки клиента.
type Options struct {
	// BaseURL — адрес бэкенда (например, https://api.example.com).
	BaseURL string
	// UserAgent — значение User-Agent исходящих запросов.
	UserAgent string
	// Timeout — таймаут одного HTTP-вызова; <=0 — без таймаута.
	Timeout time.Duration
	// HTTPClient — транспорт; nil — собственный *http.Client с Timeout.
	HTTPClient *http.Client
	// Logger — базовый логгер; nil — slog.Default().
	Logger *slog.Logger
}

// New собирает клиент с конвейером этапов:
// logging -> request-id -> bearer -> refresh-and-retry -> http.
// Refresh-вызов идёт по укороченному конвейеру без этапа
// refresh-and-retry (перевыпуск токена не может зациклить сам себя).
func New(store session.Store, opts Options) (*Client, error) {
	const op = "client.New"

	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("%s: empty base url", op)
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
		if opts.Timeout > 0 {
			hc.Timeout = opts.Timeout
		}
	}

	httpDoer := newHTTPDoer(hc, base, opts.UserAgent)

	rf := &refresher{
		store: store,
		do: Compose(httpDoer,
			withLogging(opts.Logger),
			withRequestID(),
		),
	}

	pipeline := Compose(httpDoer,
		withLogging(opts.Logger),
		withRequestID(),
		withBearer(store),
		withRefreshRetry(rf),
	)

	return &Client{store: store, do: pipeline}, nil
}

// Session возвращает текущую сессию клиента.
func (c *Client) Session() (*models.Session, bool) {
	return c.store.Get()
}

// Logout уничтожает сессию. Видимо всем последующим запросам немедленно.
func (c *Client) Logout() {
	c.store.Clear()
}

// envelope — конверт успешного ответа {data, status}.
type envelope struct {
	Data   json.RawMessage `json:"data"`
	Status string          `json:"status"`
}

// call выполняет запрос через конвейер и возвращает поле data конверта.
// Ошибочные статусы классифицируются в таксономию (errors.go).
func (c *Client) call(ctx context.Context, method, path string, payload any) (json.RawMessage, error) {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
	}

	req := &Request{
		Method: method,
		Path:   path,
		Header: http.Header{},
		Body:   body,
	}

	resp, err := c.do(ctx, req)
	if err != nil {
		// Сетевые ошибки и провал refresh уже классифицированы этапами.
		return nil, err
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if len(resp.Body) == 0 {
			return nil, nil
		}

		var env envelope
		if err := json.Unmarshal(resp.Body, &env); err != nil {
			return nil, fmt.Errorf("%w: decode response: %v", ErrUnexpected, err)
		}

		return env.Data, nil
	}

	return nil, apiErrorFrom(req, resp)
}
