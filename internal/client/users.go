package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pribylovaa/sciarticles/internal/models"
)

// authPayload — полезная нагрузка ответов login/register.
type authPayload struct {
	Tokens models.Tokens `json:"tokens"`
	User   models.User   `json:"user"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

type updateUserRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
}

type updatePasswordRequest struct {
	NewPassword string `json:"new_password"`
	OldPassword string `json:"old_password"`
}

// Login обменивает username+password на сессию и сохраняет её.
// 401 здесь — неверные учётные данные (ErrInvalidCredentials), refresh
// не запускается, существующая сессия не трогается.
func (c *Client) Login(ctx context.Context, username, password string) (*models.Session, error) {
	const op = "client.Login"

	data, err := c.call(ctx, http.MethodPost, loginPath, loginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return c.storeAuth(op, data)
}

// Register создаёт аккаунт; успешная регистрация сразу логинит.
func (c *Client) Register(ctx context.Context, firstName, lastName, username, password string) (*models.Session, error) {
	const op = "client.Register"

	data, err := c.call(ctx, http.MethodPost, registerPath, registerRequest{
		FirstName: firstName,
		LastName:  lastName,
		Username:  username,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return c.storeAuth(op, data)
}

func (c *Client) storeAuth(op string, data json.RawMessage) (*models.Session, error) {
	var p authPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%s: decode auth payload: %w", op, err)
	}

	s := &models.Session{Tokens: p.Tokens, User: p.User}
	c.store.Set(s)

	return s, nil
}

// UpdateUser меняет профиль; при успехе поля пользователя в сессии
// обновляются (токены остаются прежними).
func (c *Client) UpdateUser(ctx context.Context, id int64, firstName, lastName, username string) error {
	const op = "client.UpdateUser"

	_, err := c.call(ctx, http.MethodPut, userPath(id), updateUserRequest{
		FirstName: firstName,
		LastName:  lastName,
		Username:  username,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if s, ok := c.store.Get(); ok && s.User.ID == id {
		s.User.FirstName = firstName
		s.User.LastName = lastName
		s.User.Username = username
		c.store.Set(s)
	}

	return nil
}

// UpdatePassword меняет пароль. 401 с сообщением о неверном старом пароле
// не трогает ни сессию, ни refresh — это ошибка ввода.
func (c *Client) UpdatePassword(ctx context.Context, id int64, oldPassword, newPassword string) error {
	const op = "client.UpdatePassword"

	_, err := c.call(ctx, http.MethodPut, userPasswordPath(id), updatePasswordRequest{
		NewPassword: newPassword,
		OldPassword: oldPassword,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// DeleteUser удаляет аккаунт; при успехе сессия уничтожается.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	const op = "client.DeleteUser"

	_, err := c.call(ctx, http.MethodDelete, userPath(id), nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	c.store.Clear()
	return nil
}
