package models

// Tokens — пара bearer-учётных данных, выдаваемая сервером.
//
// Описание:
//   - AccessToken — короткоживущий токен для авторизации запросов к API;
//   - RefreshToken — долгоживущий токен, обмениваемый на новую пару при
//     истечении access-токена.
//
// Клиент трактует оба значения как непрозрачные строки: срок жизни
// обнаруживается только по ответу 401, без локального разбора.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Session — текущее состояние аутентификации клиента: токены и профиль
// пользователя. Живёт в session.Store; создаётся при login/register,
// токены заменяются при refresh, уничтожается при logout, удалении
// аккаунта или невосстановимой ошибке refresh.
type Session struct {
	Tokens Tokens `json:"tokens"`
	User   User   `json:"user"`
}
