package users_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/messenger/internal/models"
	"github.com/magabrotheeeer/messenger/internal/services/users"
	"github.com/magabrotheeeer/messenger/internal/storage"
)

type RepoMock struct {
	mock.Mock
}

func (m *RepoMock) GetUser(ctx context.Context, uid string) (*models.User, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) SearchByUID(ctx context.Context, q string, limit int) ([]models.UserSummary, error) {
	args := m.Called(ctx, q, limit)
	res, _ := args.Get(0).([]models.UserSummary)
	return res, args.Error(1)
}

func (m *RepoMock) SearchByDisplayName(ctx context.Context, q string, limit int) ([]models.UserSummary, error) {
	args := m.Called(ctx, q, limit)
	res, _ := args.Get(0).([]models.UserSummary)
	return res, args.Error(1)
}

func TestService_Search(t *testing.T) {
	alice := models.UserSummary{UID: "007", DisplayName: "Alice"}
	bob := models.UserSummary{UID: "10070", DisplayName: "Bob"}
	agent := models.UserSummary{UID: "48213", DisplayName: "Agent 007"}

	tests := []struct {
		name       string
		query      string
		setupMocks func(r *RepoMock)
		want       []models.UserSummary
		wantErr    bool
	}{
		{
			name:  "identifier then name, duplicates dropped",
			query: "007",
			setupMocks: func(r *RepoMock) {
				r.On("SearchByUID", mock.Anything, "007", 20).Return([]models.UserSummary{alice}, nil).Once()
				r.On("SearchByDisplayName", mock.Anything, "007", 20).Return([]models.UserSummary{agent, alice}, nil).Once()
			},
			want: []models.UserSummary{alice, agent},
		},
		{
			name:  "two digit prefix finds reserved identifier",
			query: "00",
			setupMocks: func(r *RepoMock) {
				r.On("SearchByUID", mock.Anything, "00", 20).Return([]models.UserSummary{alice, bob}, nil).Once()
				r.On("SearchByDisplayName", mock.Anything, "00", 20).Return([]models.UserSummary{agent}, nil).Once()
			},
			want: []models.UserSummary{alice, bob, agent},
		},
		{
			name:  "query is trimmed",
			query: "  al ",
			setupMocks: func(r *RepoMock) {
				r.On("SearchByUID", mock.Anything, "al", 20).Return([]models.UserSummary{}, nil).Once()
				r.On("SearchByDisplayName", mock.Anything, "al", 20).Return([]models.UserSummary{alice}, nil).Once()
			},
			want: []models.UserSummary{alice},
		},
		{
			name:       "single character",
			query:      "a",
			setupMocks: func(*RepoMock) {},
			want:       []models.UserSummary{},
		},
		{
			name:       "single multibyte character",
			query:      "я",
			setupMocks: func(*RepoMock) {},
			want:       []models.UserSummary{},
		},
		{
			name:       "empty",
			query:      "",
			setupMocks: func(*RepoMock) {},
			want:       []models.UserSummary{},
		},
		{
			name:  "storage failure",
			query: "bob",
			setupMocks: func(r *RepoMock) {
				r.On("SearchByUID", mock.Anything, "bob", 20).Return(nil, errors.New("db down")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			tt.setupMocks(repo)

			got, err := users.NewService(repo, 20).Search(context.Background(), tt.query)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			repo.AssertExpectations(t)
		})
	}
}

func TestService_Profile(t *testing.T) {
	name := "Alice"
	repo := new(RepoMock)
	repo.On("GetUser", mock.Anything, "007").Return(&models.User{UID: "007", DisplayName: &name}, nil).Once()
	repo.On("GetUser", mock.Anything, "55555").Return(nil, fmt.Errorf("storage.GetUser: %w", storage.ErrNotFound)).Once()
	svc := users.NewService(repo, 20)

	got, err := svc.Profile(context.Background(), "007")
	require.NoError(t, err)
	assert.Equal(t, models.UserSummary{UID: "007", DisplayName: "Alice"}, got)

	_, err = svc.Profile(context.Background(), "55555")
	assert.ErrorIs(t, err, users.ErrUserNotFound)
}
