// Конвейер исходящих запросов.
//
// Вместо колбэков на общем инстансе (как это делают axios-клиенты) —
// явная композиция этапов над описанием запроса: чистая функция
// (запрос) -> (ответ), собираемая из этапа подстановки учётных данных
// и этапа refresh-and-retry. Поток управления прослеживается без живой
// сети: любой этап тестируется подменой нижележащего Doer.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/sciarticles/internal/session"
	logctx "github.com/pribylovaa/sciarticles/pkg/log"
)

// Request — описание исходящего запроса: всё, что нужно, чтобы выполнить
// его (или повторить после обновления токена) с нуля.
type Request struct {
	Method string
	Path   string // путь относительно базового URL
	Header http.Header
	Body   []byte
}

// Clone — глубокая копия для повторной отправки; тело разделяется
// (байты запроса не мутируются).
func (r *Request) Clone() *Request {
	cp := &Request{
		Method: r.Method,
		Path:   r.Path,
		Header: make(http.Header, len(r.Header)),
		Body:   r.Body,
	}

	for k, vs := range r.Header {
		cp.Header[k] = append([]string(nil), vs...)
	}

	return cp
}

// Response — прочитанный целиком ответ сервера.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Doer выполняет запрос. Сетевая ошибка (ответ не получен) приходит
// как error с ErrNetwork в цепочке; HTTP-ошибки возвращаются ответом.
type Doer func(ctx context.Context, req *Request) (*Response, error)

// Stage — этап конвейера поверх Doer.
type Stage func(Doer) Doer

// Compose применяет этапы к базовому Doer в порядке их перечисления
// (первый — внешний).
func Compose(d Doer, stages ...Stage) Doer {
	for i := len(stages) - 1; i >= 0; i-- {
		d = stages[i](d)
	}

	return d
}

// newHTTPDoer — базовый Doer поверх net/http.
func newHTTPDoer(hc *http.Client, baseURL, userAgent string) Doer {
	return func(ctx context.Context, req *Request) (*Response, error) {
		const op = "client.httpDoer"

		var body io.Reader
		if req.Body != nil {
			body = bytes.NewReader(req.Body)
		}

		httpReq, err := http.NewRequestWithContext(ctx, req.Method, baseURL+req.Path, body)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		for k, vs := range req.Header {
			httpReq.Header[k] = append([]string(nil), vs...)
		}

		if req.Body != nil && httpReq.Header.Get("Content-Type") == "" {
			httpReq.Header.Set("Content-Type", "application/json")
		}

		if userAgent != "" && httpReq.Header.Get("User-Agent") == "" {
			httpReq.Header.Set("User-Agent", userAgent)
		}

		resp, err := hc.Do(httpReq)
		if err != nil {
			// Ответ не получен вовсе — класс "network error".
			return nil, fmt.Errorf("%s: %w: %v", op, ErrNetwork, err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %v", op, ErrNetwork, err)
		}

		return &Response{
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			Body:       data,
		}, nil
	}
}

// withRequestID проставляет X-Request-Id, если его ещё нет.
func withRequestID() Stage {
	return func(next Doer) Doer {
		return func(ctx context.Context, req *Request) (*Response, error) {
			if req.Header.Get("X-Request-Id") == "" {
				req.Header.Set("X-Request-Id", uuid.NewString())
			}

			return next(ctx, req)
		}
	}
}

// withBearer подставляет Authorization: Bearer <access_token> из текущей
// сессии. Без сессии запрос уходит без заголовка (login/register/refresh);
// уже заданный заголовок не перезаписывается.
func withBearer(store session.Store) Stage {
	return func(next Doer) Doer {
		return func(ctx context.Context, req *Request) (*Response, error) {
			if req.Header.Get("Authorization") == "" {
				if s, ok := store.Get(); ok {
					req.Header.Set("Authorization", "Bearer "+s.Tokens.AccessToken)
				}
			}

			return next(ctx, req)
		}
	}
}

// withLogging — одна финальная запись уровня Info на исходящий запрос:
// msg="http", method/path/status/dur/request_id. Токены и payload
// в лог не попадают. Обогащённый логгер прокладывается в контекст.
func withLogging(base *slog.Logger) Stage {
	if base == nil {
		base = slog.Default()
	}

	return func(next Doer) Doer {
		return func(ctx context.Context, req *Request) (*Response, error) {
			start := time.Now()

			l := base.With(
				slog.String("method", req.Method),
				slog.String("path", req.Path),
			)
			if rid := req.Header.Get("X-Request-Id"); rid != "" {
				l = l.With(slog.String("request_id", rid))
			}
			ctx = logctx.Into(ctx, l)

			resp, err := next(ctx, req)

			status := 0
			if resp != nil {
				status = resp.StatusCode
			}

			if err != nil {
				l.Info("http",
					slog.Int("status", status),
					slog.Duration("dur", time.Since(start)),
					slog.String("err", err.Error()),
				)
			} else {
				l.Info("http",
					slog.Int("status", status),
					slog.Duration("dur", time.Since(start)),
				)
			}

			return resp, err
		}
	}
}

// withRefreshRetry — этап refresh-and-retry (входящая сторона конвейера).
//
// Контракт:
//  1. успех и любые не-401 ошибки проходят без изменений;
//  2. 401 на login-эндпойнте и 401 с сообщением о неверном старом пароле
//     не трогаем: это ошибки ввода, а не истёкшая сессия;
//  3. прочие 401 — одно обновление токенов (refresher гарантирует
//     единственный refresh на все конкурентные отказы) и один повтор
//     исходного запроса с новым access-токеном;
//  4. ошибка refresh терминальна: сессия уже очищена, вызывающий получает
//     ErrSessionExpired с причиной внутри;
//  5. повторный 401 после повтора не обрабатывается — уходит наверх как
//     обычная ошибка (защита от бесконечного цикла).
func withRefreshRetry(rf *refresher) Stage {
	return func(next Doer) Doer {
		return func(ctx context.Context, req *Request) (*Response, error) {
			resp, err := next(ctx, req)
			if err != nil || !refreshEligible(req, resp) {
				return resp, err
			}

			tokens, rerr := rf.Refresh(ctx)
			if rerr != nil {
				return nil, fmt.Errorf("%w: %v", ErrSessionExpired, rerr)
			}

			retry := req.Clone()
			retry.Header.Set("Authorization", "Bearer "+tokens.AccessToken)

			return next(ctx, retry)
		}
	}
}

// refreshEligible: 401 не с login-эндпойнта и не про старый пароль.
func refreshEligible(req *Request, resp *Response) bool {
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		return false
	}

	if req.Path == loginPath {
		return false
	}

	return envelopeMessage(resp.Body) != OldPasswordMessage
}
