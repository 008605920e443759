// cli — командный интерфейс поверх клиента сервиса статей.
// Каждая подкоманда — аналог экрана мобильного приложения: валидация
// ввода до сетевого вызова, ошибки — готовой фразой из client.Describe.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/pribylovaa/sciarticles/internal/client"
)

// ErrUsage — неверный вызов команды; main печатает usage и завершает
// процесс с ненулевым кодом.
var ErrUsage = errors.New("usage error")

// App агрегирует зависимости подкоманд.
type App struct {
	client *client.Client
	out    io.Writer
}

func New(c *client.Client, out io.Writer) *App {
	return &App{client: c, out: out}
}

// Run разбирает подкоманду и выполняет её.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: no command", ErrUsage)
	}

	cmd, rest := args[0], args[1:]

	switch cmd {
	case "login":
		return a.login(ctx, rest)
	case "register":
		return a.register(ctx, rest)
	case "logout":
		return a.logout(rest)
	case "whoami":
		return a.whoami(rest)
	case "profile":
		return a.profile(ctx, rest)
	case "articles":
		return a.articles(ctx, rest)
	default:
		return fmt.Errorf("%w: unknown command %q", ErrUsage, cmd)
	}
}

// Usage — справка по командам.
func Usage(w io.Writer) {
	fmt.Fprintln(w, `Usage: sciarticles <command> [flags]

Commands:
  login       --username --password
  register    --first-name --last-name --username --password
  logout
  whoami
  profile     update|password|delete
  articles    create|list|get|update|delete`)
}

// Render выбирает текст ошибки для пользователя: ошибки клиентской
// таксономии — канонической фразой, остальные (валидация ввода) — как есть.
func Render(err error) string {
	classes := []error{
		client.ErrSessionExpired,
		client.ErrInvalidCredentials,
		client.ErrConflict,
		client.ErrNotFound,
		client.ErrServer,
		client.ErrNetwork,
		client.ErrUnexpected,
	}
	for _, class := range classes {
		if errors.Is(err, class) {
			return client.Describe(err)
		}
	}

	return err.Error()
}

// requireSession возвращает активную сессию или ErrSessionExpired.
func (a *App) requireSession() (int64, error) {
	s, ok := a.client.Session()
	if !ok {
		return 0, fmt.Errorf("cli: %w", client.ErrSessionExpired)
	}

	return s.User.ID, nil
}
