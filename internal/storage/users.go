package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/messenger/internal/models"
)

// GetUser возвращает пользователя по UID.
func (s *Storage) GetUser(ctx context.Context, uid string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, display_name, password_hash, is_tester, created_at
			  FROM users
			  WHERE uid = $1`
	var (
		u            models.User
		displayName  sql.NullString
		passwordHash sql.NullString
	)
	err := s.DB.QueryRowContext(ctx, query, uid).
		Scan(&u.UID, &displayName, &passwordHash, &u.IsTester, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if displayName.Valid {
		u.DisplayName = &displayName.String
	}
	if passwordHash.Valid {
		u.PasswordHash = &passwordHash.String
	}
	return &u, nil
}

// UserExists проверяет, занят ли UID.
func (s *Storage) UserExists(ctx context.Context, uid string) (bool, error) {
	const op = "storage.UserExists"
	var exists bool
	err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE uid = $1)`, uid).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// CreateUser добавляет пользователя. Занятый UID возвращается как ErrAlreadyExists.
func (s *Storage) CreateUser(ctx context.Context, user models.User) error {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (uid, display_name, password_hash, is_tester)
			  VALUES ($1, $2, $3, $4)`
	_, err := s.DB.ExecContext(ctx, query, user.UID, user.DisplayName, user.PasswordHash, user.IsTester)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, ErrAlreadyExists)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// BindCredentials однократно привязывает имя и хеш пароля к тестерскому UID.
//
// Обновление выполняется только для тестерской записи без имени, поэтому
// повторная или конкурентная привязка возвращает false.
func (s *Storage) BindCredentials(ctx context.Context, uid, displayName, passwordHash string) (bool, error) {
	const op = "storage.BindCredentials"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET display_name = $2, password_hash = $3
			  WHERE uid = $1 AND is_tester AND display_name IS NULL`
	res, err := s.DB.ExecContext(ctx, query, uid, displayName, passwordHash)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return affected == 1, nil
}

// ListRegisteredUsers возвращает всех пользователей с отображаемым именем.
func (s *Storage) ListRegisteredUsers(ctx context.Context) ([]models.UserSummary, error) {
	const op = "storage.ListRegisteredUsers"
	query := `SELECT uid, display_name
			  FROM users
			  WHERE display_name IS NOT NULL
			  ORDER BY uid`
	return s.querySummaries(ctx, op, query)
}

// SearchByUID ищет зарегистрированных пользователей по подстроке UID.
func (s *Storage) SearchByUID(ctx context.Context, q string, limit int) ([]models.UserSummary, error) {
	const op = "storage.SearchByUID"
	query := `SELECT uid, display_name
			  FROM users
			  WHERE uid LIKE $1 ESCAPE '\' AND display_name IS NOT NULL
			  ORDER BY uid
			  LIMIT $2`
	return s.querySummaries(ctx, op, query, containsPattern(q), limit)
}

// SearchByDisplayName ищет зарегистрированных пользователей по подстроке имени без учёта регистра.
func (s *Storage) SearchByDisplayName(ctx context.Context, q string, limit int) ([]models.UserSummary, error) {
	const op = "storage.SearchByDisplayName"
	query := `SELECT uid, display_name
			  FROM users
			  WHERE display_name ILIKE $1 ESCAPE '\' AND display_name IS NOT NULL
			  ORDER BY display_name, uid
			  LIMIT $2`
	return s.querySummaries(ctx, op, query, containsPattern(q), limit)
}

func (s *Storage) querySummaries(ctx context.Context, op, query string, args ...any) ([]models.UserSummary, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.UserSummary, 0)
	for rows.Next() {
		var u models.UserSummary
		if err = rows.Scan(&u.UID, &u.DisplayName); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
