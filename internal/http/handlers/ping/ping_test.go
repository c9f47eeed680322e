package ping

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

	"github.com/magabrotheeeer/messenger/internal/http/middlewarectx"
)

type SessionsMock struct {
	mock.Mock
}

func (m *SessionsMock) Touch(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestPingHandler(t *testing.T) {
	tests := []struct {
		name       string
		sessionID  string
		touchErr   error
		wantStatus int
		wantBody   map[string]string
	}{
		{
			name:       "refreshes session",
			sessionID:  "sid-1",
			wantStatus: http.StatusOK,
			wantBody:   map[string]string{"status": "ok"},
		},
		{
			name:       "store failure",
			sessionID:  "sid-1",
			touchErr:   errors.New("redis down"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   map[string]string{"status": "error", "error": "internal error"},
		},
		{
			name:       "no session in context",
			wantStatus: http.StatusUnauthorized,
			wantBody:   map[string]string{"status": "error", "error": "unauthorized"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := new(SessionsMock)
			req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
			if tt.sessionID != "" {
				sessions.On("Touch", mock.Anything, tt.sessionID).Return(tt.touchErr).Once()
				req = req.WithContext(middlewarectx.WithUser(req.Context(), "007", tt.sessionID))
			}
			rec := httptest.NewRecorder()

			New(newNoopLogger(), sessions).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var got map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantBody, got)
			sessions.AssertExpectations(t)
		})
	}
}
