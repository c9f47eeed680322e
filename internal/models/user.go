// Package models содержит доменные модели мессенджера: пользователей,
// сообщения и элементы списка чатов.
package models

import "time"

// User представляет учётную запись.
//
// Зарезервированные тестерские UID создаются миграцией без имени и пароля;
// DisplayName и PasswordHash заполняются один раз при регистрации.
type User struct {
	UID          string    // 3-значный зарезервированный или 5-значный сгенерированный
	DisplayName  *string   // nil до завершения регистрации
	PasswordHash *string   // nil до установки пароля
	IsTester     bool      // UID из зарезервированного набора
	CreatedAt    time.Time // Время создания записи
}

// Registered сообщает, привязано ли к UID отображаемое имя.
func (u *User) Registered() bool {
	return u.DisplayName != nil
}

// Name возвращает отображаемое имя, а для незарегистрированных сам UID.
func (u *User) Name() string {
	if u.DisplayName != nil {
		return *u.DisplayName
	}
	return u.UID
}

// Summary возвращает публичную карточку пользователя.
func (u *User) Summary() UserSummary {
	return UserSummary{UID: u.UID, DisplayName: u.Name()}
}

// UserSummary: публичная карточка пользователя для поиска и страниц.
type UserSummary struct {
	UID         string `json:"uid"`
	DisplayName string `json:"display_name"`
}
