package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/messenger/internal/lib/jwt"
)

// ErrInvalid токен не прошёл проверку или сессия отозвана.
var ErrInvalid = errors.New("invalid session")

// Store описывает хранилище серверных сессий.
type Store interface {
	Create(ctx context.Context, id, uid string, ttl time.Duration) error
	Get(ctx context.Context, id string) (string, error)
	Touch(ctx context.Context, id string, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// Manager связывает подписанный токен в cookie с серверной записью сессии.
type Manager struct {
	store   Store
	tokens  jwt.Maker
	idleTTL time.Duration
}

// NewManager создаёт Manager. idleTTL задаёт время жизни сессии без активности.
func NewManager(store Store, tokens jwt.Maker, idleTTL time.Duration) *Manager {
	return &Manager{
		store:   store,
		tokens:  tokens,
		idleTTL: idleTTL,
	}
}

// Start открывает сессию для uid и возвращает токен для cookie.
func (m *Manager) Start(ctx context.Context, uid string) (string, error) {
	const op = "session.Start"
	id := uuid.NewString()
	if err := m.store.Create(ctx, id, uid, m.idleTTL); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	token, err := m.tokens.GenerateToken(uid, id)
	if err != nil {
		_ = m.store.Delete(ctx, id)
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

// Resolve проверяет токен и возвращает UID и id сессии.
//
// Ошибки проверки и отсутствие сессии возвращаются как ErrInvalid,
// сбои хранилища оборачиваются как есть.
func (m *Manager) Resolve(ctx context.Context, token string) (uid, sessionID string, err error) {
	const op = "session.Resolve"
	claims, err := m.tokens.ParseToken(token)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w: %w", op, ErrInvalid, err)
	}
	owner, err := m.store.Get(ctx, claims.SessionID)
	if errors.Is(err, ErrNotFound) {
		return "", "", fmt.Errorf("%s: %w", op, ErrInvalid)
	}
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	if owner != claims.UID {
		return "", "", fmt.Errorf("%s: %w: owner mismatch", op, ErrInvalid)
	}
	return claims.UID, claims.SessionID, nil
}

// Touch продлевает сессию на idleTTL.
func (m *Manager) Touch(ctx context.Context, sessionID string) error {
	const op = "session.Touch"
	if err := m.store.Touch(ctx, sessionID, m.idleTTL); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// End завершает сессию.
func (m *Manager) End(ctx context.Context, sessionID string) error {
	const op = "session.End"
	if err := m.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
