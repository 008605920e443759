// log — хелпер для прокладки request-scoped логгера через context.
//
// Паттерн: внешний слой кладёт обогащённый *slog.Logger в контекст (Into),
// вложенные слои достают его обратно (From) и пишут записи с уже
// проставленными полями (request_id и т.п.), не зная о том, кто их добавил.
package log

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// Into кладёт логгер в контекст. Nil-логгер игнорируется.
func Into(ctx context.Context, l *slog.Logger) context.Context {
	if l == nil {
		return ctx
	}

	return context.WithValue(ctx, ctxKey{}, l)
}

// From достаёт логгер из контекста; если его там нет — slog.Default().
func From(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && l != nil {
		return l
	}

	return slog.Default()
}
