package client

import "fmt"

// Каталог путей REST API (относительно базового URL).
const (
	loginPath    = "/api/users/login"
	registerPath = "/api/users/register"
	tokenPath    = "/api/users/token"
	articlesPath = "/api/articles"
)

func userPath(id int64) string {
	return fmt.Sprintf("/api/users/%d", id)
}

func userPasswordPath(id int64) string {
	return fmt.Sprintf("/api/users/%d/password", id)
}

func articlesByUserPath(userID int64) string {
	return fmt.Sprintf("/api/articles/user/%d", userID)
}

func articlePath(id int64) string {
	return fmt.Sprintf("/api/articles/%d", id)
}
