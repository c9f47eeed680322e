// Package users содержит поиск пользователей и выдачу их публичных карточек.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/magabrotheeeer/messenger/internal/models"
	"github.com/magabrotheeeer/messenger/internal/storage"
)

// MinQueryLength: минимальная длина поискового запроса в символах.
const MinQueryLength = 2

// ErrUserNotFound: пользователь с таким UID не существует.
var ErrUserNotFound = errors.New("user not found")

// Repository определяет методы хранилища для поиска.
type Repository interface {
	GetUser(ctx context.Context, uid string) (*models.User, error)
	SearchByUID(ctx context.Context, q string, limit int) ([]models.UserSummary, error)
	SearchByDisplayName(ctx context.Context, q string, limit int) ([]models.UserSummary, error)
}

// Service ищет зарегистрированных пользователей.
type Service struct {
	repo  Repository
	limit int
}

// NewService создает новый экземпляр Service. limit ограничивает выдачу
// каждого вида поиска.
func NewService(repo Repository, limit int) *Service {
	return &Service{repo: repo, limit: limit}
}

// Search ищет сначала по UID, затем по имени. Повторы по UID отбрасываются
// с сохранением порядка первого появления. Запрос короче MinQueryLength
// даёт пустой список.
func (s *Service) Search(ctx context.Context, q string) ([]models.UserSummary, error) {
	const op = "services.users.Search"

	q = strings.TrimSpace(q)
	if utf8.RuneCountInString(q) < MinQueryLength {
		return []models.UserSummary{}, nil
	}

	byUID, err := s.repo.SearchByUID(ctx, q, s.limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	byName, err := s.repo.SearchByDisplayName(ctx, q, s.limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	seen := make(map[string]struct{}, len(byUID)+len(byName))
	result := make([]models.UserSummary, 0, len(byUID)+len(byName))
	for _, batch := range [][]models.UserSummary{byUID, byName} {
		for _, u := range batch {
			if _, dup := seen[u.UID]; dup {
				continue
			}
			seen[u.UID] = struct{}{}
			result = append(result, u)
		}
	}
	return result, nil
}

// Profile возвращает карточку пользователя по UID.
func (s *Service) Profile(ctx context.Context, uid string) (models.UserSummary, error) {
	const op = "services.users.Profile"

	user, err := s.repo.GetUser(ctx, uid)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.UserSummary{}, ErrUserNotFound
		}
		return models.UserSummary{}, fmt.Errorf("%s: %w", op, err)
	}
	return user.Summary(), nil
}
