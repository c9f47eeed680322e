package storage

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/messenger/internal/models"
)

// AddMessage сохраняет сообщение и возвращает его с присвоенными ID и временем.
func (s *Storage) AddMessage(ctx context.Context, msg models.Message) (*models.Message, error) {
	const op = "storage.AddMessage"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO messages (sender_uid, receiver_uid, text, is_group)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id, created_at`
	stored := msg
	err := s.DB.QueryRowContext(ctx, query, msg.SenderUID, msg.ReceiverUID, msg.Text, msg.IsGroup).
		Scan(&stored.ID, &stored.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &stored, nil
}

// RecentGroupMessages возвращает до limit последних сообщений общего чата,
// от новых к старым.
func (s *Storage) RecentGroupMessages(ctx context.Context, limit int) ([]models.Message, error) {
	const op = "storage.RecentGroupMessages"
	query := `SELECT id, sender_uid, receiver_uid, text, created_at, is_group
			  FROM messages
			  WHERE is_group
			  ORDER BY created_at DESC, id DESC
			  LIMIT $1`
	return s.queryMessages(ctx, op, query, limit)
}

// PrivateMessages возвращает всю переписку двух пользователей в обе стороны,
// от старых к новым. Для a == b это «Избранное».
func (s *Storage) PrivateMessages(ctx context.Context, a, b string) ([]models.Message, error) {
	const op = "storage.PrivateMessages"
	query := `SELECT id, sender_uid, receiver_uid, text, created_at, is_group
			  FROM messages
			  WHERE NOT is_group
			    AND ((sender_uid = $1 AND receiver_uid = $2)
			     OR (sender_uid = $2 AND receiver_uid = $1))
			  ORDER BY created_at ASC, id ASC`
	return s.queryMessages(ctx, op, query, a, b)
}

// HasConversation сообщает, есть ли хотя бы одно личное сообщение между a и b.
func (s *Storage) HasConversation(ctx context.Context, a, b string) (bool, error) {
	const op = "storage.HasConversation"
	query := `SELECT EXISTS (
			      SELECT 1 FROM messages
			      WHERE NOT is_group
			        AND ((sender_uid = $1 AND receiver_uid = $2)
			         OR (sender_uid = $2 AND receiver_uid = $1))
			  )`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, a, b).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

func (s *Storage) queryMessages(ctx context.Context, op, query string, args ...any) ([]models.Message, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.Message, 0)
	for rows.Next() {
		var m models.Message
		if err = rows.Scan(&m.ID, &m.SenderUID, &m.ReceiverUID, &m.Text, &m.Timestamp, &m.IsGroup); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
