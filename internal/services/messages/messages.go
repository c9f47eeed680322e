// Package messages содержит бизнес-логику отправки и выборки сообщений
// и построения списка чатов.
package messages

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/magabrotheeeer/messenger/internal/lib/sl"
	"github.com/magabrotheeeer/messenger/internal/models"
	"github.com/magabrotheeeer/messenger/internal/storage"
)

var (
	// ErrEmptyText: текст сообщения пуст после обрезки пробелов.
	ErrEmptyText = errors.New("message text is empty")
	// ErrReceiverNotFound: получатель личного сообщения не существует.
	ErrReceiverNotFound = errors.New("receiver not found")
	// ErrPeerNotFound: собеседник переписки не существует.
	ErrPeerNotFound = errors.New("peer not found")
)

// Repository определяет методы хранилища, нужные сервису.
type Repository interface {
	GetUser(ctx context.Context, uid string) (*models.User, error)
	AddMessage(ctx context.Context, msg models.Message) (*models.Message, error)
	RecentGroupMessages(ctx context.Context, limit int) ([]models.Message, error)
	PrivateMessages(ctx context.Context, a, b string) ([]models.Message, error)
	HasConversation(ctx context.Context, a, b string) (bool, error)
	ListRegisteredUsers(ctx context.Context) ([]models.UserSummary, error)
}

// EventPublisher публикует события о сохранённых сообщениях.
type EventPublisher interface {
	PublishMessage(ctx context.Context, msg models.Message) error
}

// Recorder учитывает отправленные сообщения.
type Recorder interface {
	MessageSent(scope string)
}

// SendRequest: входные данные отправки.
type SendRequest struct {
	Text     string
	Receiver string
	IsGroup  bool
}

// Service реализует отправку и чтение сообщений.
type Service struct {
	repo       Repository
	events     EventPublisher
	rec        Recorder
	log        *slog.Logger
	groupLimit int
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, events EventPublisher, rec Recorder, log *slog.Logger, groupLimit int) *Service {
	return &Service{
		repo:       repo,
		events:     events,
		rec:        rec,
		log:        log,
		groupLimit: groupLimit,
	}
}

// Send сохраняет ровно одно сообщение от sender и публикует событие о нём.
//
// Получатель определяется так: IsGroup адресует общий чат, FavoritesPeer
// адресует самого отправителя, иначе Receiver должен быть существующим UID.
func (s *Service) Send(ctx context.Context, sender string, req SendRequest) (*models.Message, error) {
	const op = "services.messages.Send"

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrEmptyText
	}

	msg := models.Message{SenderUID: sender, Text: text}
	switch {
	case req.IsGroup:
		msg.ReceiverUID = models.GroupReceiver
		msg.IsGroup = true
	case req.Receiver == models.FavoritesPeer:
		msg.ReceiverUID = sender
	default:
		if req.Receiver == "" {
			return nil, ErrReceiverNotFound
		}
		if _, err := s.repo.GetUser(ctx, req.Receiver); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, ErrReceiverNotFound
			}
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		msg.ReceiverUID = req.Receiver
	}

	stored, err := s.repo.AddMessage(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.rec.MessageSent(stored.Scope())

	if err := s.events.PublishMessage(ctx, *stored); err != nil {
		s.log.Warn("failed to publish message event",
			slog.Int64("message_id", stored.ID),
			sl.Err(err),
		)
	}
	return stored, nil
}

// Group возвращает последние сообщения общего чата от старых к новым.
func (s *Service) Group(ctx context.Context) ([]models.Message, error) {
	const op = "services.messages.Group"

	msgs, err := s.repo.RecentGroupMessages(ctx, s.groupLimit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	slices.Reverse(msgs)

	if err := s.annotate(ctx, msgs); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return msgs, nil
}

// Private возвращает всю переписку self и peer от старых к новым.
// peer, равный FavoritesPeer, означает самого self.
func (s *Service) Private(ctx context.Context, self, peer string) ([]models.Message, error) {
	const op = "services.messages.Private"

	other, err := s.peerUID(ctx, self, peer)
	if err != nil {
		return nil, err
	}

	msgs, err := s.repo.PrivateMessages(ctx, self, other)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.annotate(ctx, msgs); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return msgs, nil
}

// ResolvePeer возвращает карточку собеседника для страницы переписки.
// Для FavoritesPeer это псевдособеседник «Избранное».
func (s *Service) ResolvePeer(ctx context.Context, peer string) (models.UserSummary, error) {
	const op = "services.messages.ResolvePeer"

	if peer == models.FavoritesPeer {
		return models.UserSummary{UID: models.FavoritesPeer, DisplayName: models.FavoritesTitle}, nil
	}
	user, err := s.repo.GetUser(ctx, peer)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.UserSummary{}, ErrPeerNotFound
		}
		return models.UserSummary{}, fmt.Errorf("%s: %w", op, err)
	}
	return user.Summary(), nil
}

// ChatList возвращает «Избранное» и всех зарегистрированных пользователей,
// с которыми у self есть хотя бы одно личное сообщение.
func (s *Service) ChatList(ctx context.Context, self string) ([]models.Chat, error) {
	const op = "services.messages.ChatList"

	chats := []models.Chat{models.FavoritesChat()}

	users, err := s.repo.ListRegisteredUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, u := range users {
		if u.UID == self {
			continue
		}
		ok, err := s.repo.HasConversation(ctx, self, u.UID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if ok {
			chats = append(chats, models.Chat{Username: u.UID, DisplayName: u.DisplayName})
		}
	}
	return chats, nil
}

func (s *Service) peerUID(ctx context.Context, self, peer string) (string, error) {
	const op = "services.messages.peerUID"

	if peer == models.FavoritesPeer || peer == self {
		return self, nil
	}
	if _, err := s.repo.GetUser(ctx, peer); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", ErrPeerNotFound
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return peer, nil
}

// annotate проставляет текущее имя отправителя. Имена запрашиваются
// один раз на UID; отсутствующий отправитель подписывается своим UID.
func (s *Service) annotate(ctx context.Context, msgs []models.Message) error {
	names := make(map[string]string)
	for i := range msgs {
		uid := msgs[i].SenderUID
		name, ok := names[uid]
		if !ok {
			user, err := s.repo.GetUser(ctx, uid)
			switch {
			case err == nil:
				name = user.Name()
			case errors.Is(err, storage.ErrNotFound):
				name = uid
			default:
				return err
			}
			names[uid] = name
		}
		msgs[i].SenderDisplayName = name
	}
	return nil
}
