package model

import "time"

// User — клиент, мастер или администратор салона.
// Мастера и админы не удаляются физически: при удалении из ростера
// сбрасываются только флаги ролей, т.к. на telegram_id ссылаются записи.
type User struct {
	ID         int64     `json:"id"`
	TelegramID int64     `json:"telegram_id"`
	Username   string    `json:"username"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	IsMaster   bool      `json:"is_master"`
	IsAdmin    bool      `json:"is_admin"`
	CreatedAt  time.Time `json:"created_at"`
}

// IsStaff проверяет, есть ли у пользователя какая-либо роль персонала
func (u *User) IsStaff() bool {
	return u.IsMaster || u.IsAdmin
}

// DisplayName возвращает имя для показа в списках
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if u.Username != "" {
		return "@" + u.Username
	}
	return "Мастер"
}
