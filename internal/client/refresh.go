package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/sync/singleflight"

	"github.com/pribylovaa/sciarticles/internal/models"
	"github.com/pribylovaa/sciarticles/internal/session"
)

// refresher выполняет обновление пары токенов.
//
// Критическая секция (singleflight): на любое число конкурентных 401
// выполняется ровно один вызов refresh-эндпойнта; опоздавшие ждут его
// исход вместо запуска собственного. Слот освобождается по завершении —
// следующий отказ после завершения запускает новый refresh.
//
// Refresh-токен читается из хранилища в момент выполнения, а не в момент
// отказа: конкурентный refresh мог уже заменить пару.
type refresher struct {
	store session.Store
	do    Doer // подконвейер без этапа refresh-and-retry
	group singleflight.Group
}

// refreshPayload — полезная нагрузка ответа refresh-эндпойнта.
type refreshPayload struct {
	Tokens models.Tokens `json:"tokens"`
}

// Refresh возвращает новую пару токенов, уже записанную в сессию.
// Ошибка терминальна для сессии: хранилище очищено, повторных попыток нет.
func (r *refresher) Refresh(ctx context.Context) (models.Tokens, error) {
	const op = "client.refresher.Refresh"

	v, err, _ := r.group.Do("refresh", func() (any, error) {
		cur, ok := r.store.Get()
		if !ok {
			return nil, fmt.Errorf("%s: no active session", op)
		}

		body, err := json.Marshal(map[string]string{
			"refresh_token": cur.Tokens.RefreshToken,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		req := &Request{
			Method: http.MethodPost,
			Path:   tokenPath,
			Header: http.Header{},
			Body:   body,
		}
		// Bearer-учётные данные для refresh — refresh-токен, не истёкший access.
		req.Header.Set("Authorization", "Bearer "+cur.Tokens.RefreshToken)

		// Отмена исходного вызова не должна обрывать refresh, результата
		// которого ждут остальные участники критической секции.
		resp, err := r.do(context.WithoutCancel(ctx), req)
		if err != nil {
			r.store.Clear()
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			r.store.Clear()
			return nil, fmt.Errorf("%s: %w", op, apiErrorFrom(req, resp))
		}

		var env struct {
			Data refreshPayload `json:"data"`
		}
		if err := json.Unmarshal(resp.Body, &env); err != nil {
			r.store.Clear()
			return nil, fmt.Errorf("%s: decode refresh response: %w", op, err)
		}

		tokens := env.Data.Tokens
		if tokens.AccessToken == "" {
			r.store.Clear()
			return nil, fmt.Errorf("%s: refresh response without access token", op)
		}

		// Сервер может вернуть только новый access-токен — refresh-токен
		// тогда остаётся прежним.
		if tokens.RefreshToken == "" {
			tokens.RefreshToken = cur.Tokens.RefreshToken
		}

		next := *cur
		next.Tokens = tokens
		r.store.Set(&next)

		return tokens, nil
	})
	if err != nil {
		return models.Tokens{}, err
	}

	return v.(models.Tokens), nil
}
