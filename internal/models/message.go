package models

import "time"

const (
	// GroupReceiver: получатель сообщений общего чата.
	GroupReceiver = "group"
	// FavoritesPeer: адрес «Избранного», переписки пользователя с самим собой.
	FavoritesPeer = "formyself"
	// FavoritesTitle: отображаемое имя «Избранного».
	FavoritesTitle = "Favorites"
)

// Message: сохранённое сообщение. Сообщения только добавляются и не меняются.
type Message struct {
	ID                int64     `json:"id"`
	SenderUID         string    `json:"sender_uid"`
	ReceiverUID       string    `json:"receiver_uid"`
	Text              string    `json:"text"`
	Timestamp         time.Time `json:"timestamp"`
	IsGroup           bool      `json:"is_group"`
	SenderDisplayName string    `json:"sender_display_name"`
}

// IsFavorite сообщает, адресовано ли сообщение самому отправителю.
func (m Message) IsFavorite() bool {
	return !m.IsGroup && m.SenderUID == m.ReceiverUID
}

// Scope возвращает область доставки: group, favorites или private.
func (m Message) Scope() string {
	switch {
	case m.IsGroup:
		return "group"
	case m.IsFavorite():
		return "favorites"
	default:
		return "private"
	}
}

// Chat: элемент списка чатов пользователя.
type Chat struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	IsFavorite  bool   `json:"is_favorite,omitempty"`
}

// FavoritesChat возвращает элемент «Избранного», всегда первый в списке.
func FavoritesChat() Chat {
	return Chat{
		Username:    FavoritesPeer,
		DisplayName: FavoritesTitle,
		IsFavorite:  true,
	}
}
