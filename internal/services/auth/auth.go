// Package auth содержит бизнес-логику регистрации и входа пользователей.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"

	"github.com/magabrotheeeer/messenger/internal/lib/password"
	"github.com/magabrotheeeer/messenger/internal/lib/sl"
	"github.com/magabrotheeeer/messenger/internal/models"
	"github.com/magabrotheeeer/messenger/internal/storage"
)

var (
	// ErrUnknownIdentifier: UID отсутствует в базе.
	ErrUnknownIdentifier = errors.New("unknown identifier")
	// ErrNotTester: UID не входит в зарезервированный набор.
	ErrNotTester = errors.New("identifier is not reserved for testers")
	// ErrAlreadyRegistered: к UID уже привязано имя.
	ErrAlreadyRegistered = errors.New("identifier already registered")
	// ErrIdentifierExhausted: не удалось подобрать свободный UID за отведённые попытки.
	ErrIdentifierExhausted = errors.New("could not allocate identifier, try again")
	// ErrInvalidCredentials: неверный UID или пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Виды регистрации для метрик.
const (
	KindOpen   = "open"
	KindTester = "tester"
)

const (
	uidMin   = 10000
	uidRange = 90000
)

// UserRepository описывает контракт хранилища пользователей.
type UserRepository interface {
	// GetUser возвращает пользователя или storage.ErrNotFound.
	GetUser(ctx context.Context, uid string) (*models.User, error)
	// UserExists проверяет, занят ли UID.
	UserExists(ctx context.Context, uid string) (bool, error)
	// CreateUser сохраняет пользователя; занятый UID даёт storage.ErrAlreadyExists.
	CreateUser(ctx context.Context, user models.User) error
	// BindCredentials однократно привязывает имя и хеш к тестерскому UID.
	BindCredentials(ctx context.Context, uid, displayName, passwordHash string) (bool, error)
}

// Recorder учитывает регистрации и попытки входа.
type Recorder interface {
	RegistrationCompleted(kind string)
	LoginAttempt(success bool)
}

// Option настраивает AuthService.
type Option func(*AuthService)

// WithIntN подменяет источник случайных чисел для генерации UID.
func WithIntN(intN func(n int) int) Option {
	return func(s *AuthService) {
		s.intN = intN
	}
}

// AuthService отвечает за регистрацию и проверку учётных данных.
type AuthService struct {
	users       UserRepository
	rec         Recorder
	log         *slog.Logger
	maxAttempts int
	intN        func(n int) int
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, rec Recorder, log *slog.Logger, maxAttempts int, opts ...Option) *AuthService {
	if rec == nil {
		rec = nopRecorder{}
	}
	s := &AuthService{
		users:       users,
		rec:         rec,
		log:         log,
		maxAttempts: maxAttempts,
		intN:        rand.IntN,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterTester привязывает имя и пароль к зарезервированному UID.
func (s *AuthService) RegisterTester(ctx context.Context, uid, displayName, rawPassword string) error {
	const op = "services.auth.RegisterTester"

	user, err := s.users.GetUser(ctx, uid)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrUnknownIdentifier
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if !user.IsTester {
		return ErrNotTester
	}
	if user.Registered() {
		return ErrAlreadyRegistered
	}

	hashed, err := password.Hash(rawPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	bound, err := s.users.BindCredentials(ctx, uid, displayName, hashed)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	// запись уже привязана параллельным запросом
	if !bound {
		return ErrAlreadyRegistered
	}

	s.rec.RegistrationCompleted(KindTester)
	s.log.Info("tester identifier registered", sl.UID(uid))
	return nil
}

// Register создаёт пользователя со случайным пятизначным UID и возвращает его.
//
// Занятый UID, обнаруженный до или во время вставки, считается неудачной
// попыткой. После maxAttempts неудач возвращается ErrIdentifierExhausted.
func (s *AuthService) Register(ctx context.Context, displayName, rawPassword string) (string, error) {
	const op = "services.auth.Register"

	hashed, err := password.Hash(rawPassword)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		uid := strconv.Itoa(uidMin + s.intN(uidRange))

		exists, err := s.users.UserExists(ctx, uid)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		if exists {
			s.log.Debug("generated identifier is taken", sl.UID(uid), slog.Int("attempt", attempt))
			continue
		}

		err = s.users.CreateUser(ctx, models.User{
			UID:          uid,
			DisplayName:  &displayName,
			PasswordHash: &hashed,
		})
		if errors.Is(err, storage.ErrAlreadyExists) {
			s.log.Debug("identifier collision on insert", sl.UID(uid), slog.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}

		s.rec.RegistrationCompleted(KindOpen)
		s.log.Info("user registered", sl.UID(uid))
		return uid, nil
	}

	s.log.Warn("identifier allocation exhausted", slog.Int("attempts", s.maxAttempts))
	return "", ErrIdentifierExhausted
}

// Login проверяет пароль пользователя.
//
// Неизвестный UID, отсутствие пароля и неверный пароль неотличимы для
// вызывающего: все дают ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, uid, rawPassword string) error {
	const op = "services.auth.Login"

	user, err := s.users.GetUser(ctx, uid)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.rec.LoginAttempt(false)
			return ErrInvalidCredentials
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if user.PasswordHash == nil {
		s.rec.LoginAttempt(false)
		return ErrInvalidCredentials
	}
	if err := password.Compare(*user.PasswordHash, rawPassword); err != nil {
		if !errors.Is(err, password.ErrMismatch) {
			s.log.Error("stored password hash is unusable", sl.UID(uid), sl.Err(err))
		}
		s.rec.LoginAttempt(false)
		return ErrInvalidCredentials
	}

	s.rec.LoginAttempt(true)
	return nil
}

type nopRecorder struct{}

func (nopRecorder) RegistrationCompleted(string) {}
func (nopRecorder) LoginAttempt(bool)            {}
