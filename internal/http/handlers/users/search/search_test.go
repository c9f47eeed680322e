package search

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/messenger/internal/models"
)

type SearchServiceMock struct {
	mock.Mock
}

func (m *SearchServiceMock) Search(ctx context.Context, q string) ([]models.UserSummary, error) {
	args := m.Called(ctx, q)
	res, _ := args.Get(0).([]models.UserSummary)
	return res, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestSearchHandler(t *testing.T) {
	t.Run("results as json array", func(t *testing.T) {
		svc := new(SearchServiceMock)
		svc.On("Search", mock.Anything, "00").Return([]models.UserSummary{{UID: "007", DisplayName: "Alice"}}, nil).Once()
		rec := httptest.NewRecorder()

		New(newNoopLogger(), svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users/search?q=00", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		var got []map[string]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, []map[string]string{{"uid": "007", "display_name": "Alice"}}, got)
	})

	t.Run("short query gives empty array", func(t *testing.T) {
		svc := new(SearchServiceMock)
		svc.On("Search", mock.Anything, "a").Return([]models.UserSummary{}, nil).Once()
		rec := httptest.NewRecorder()

		New(newNoopLogger(), svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users/search?q=a", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("service failure", func(t *testing.T) {
		svc := new(SearchServiceMock)
		svc.On("Search", mock.Anything, "bob").Return(nil, errors.New("db down")).Once()
		rec := httptest.NewRecorder()

		New(newNoopLogger(), svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users/search?q=bob", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"status":"error","error":"internal error"}`, rec.Body.String())
	})
}
