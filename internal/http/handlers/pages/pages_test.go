package pages

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/messenger/internal/http/middlewarectx"
	"github.com/magabrotheeeer/messenger/internal/http/views"
	"github.com/magabrotheeeer/messenger/internal/models"
	"github.com/magabrotheeeer/messenger/internal/services/messages"
)

type ProfilesMock struct {
	mock.Mock
}

func (m *ProfilesMock) Profile(ctx context.Context, uid string) (models.UserSummary, error) {
	args := m.Called(ctx, uid)
	return args.Get(0).(models.UserSummary), args.Error(1)
}

type PeersMock struct {
	mock.Mock
}

func (m *PeersMock) ResolvePeer(ctx context.Context, peer string) (models.UserSummary, error) {
	args := m.Called(ctx, peer)
	return args.Get(0).(models.UserSummary), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

var alice = models.UserSummary{UID: "007", DisplayName: "Alice"}

func newHandler(t *testing.T) (*Handler, *ProfilesMock, *PeersMock) {
	t.Helper()
	renderer, err := views.New()
	require.NoError(t, err)
	profiles, peers := new(ProfilesMock), new(PeersMock)
	return New(newNoopLogger(), profiles, peers, renderer), profiles, peers
}

func authed(req *http.Request, uid string) *http.Request {
	return req.WithContext(middlewarectx.WithUser(req.Context(), uid, "sid"))
}

func withPeer(req *http.Request, peer string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("peer", peer)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestPages_Index(t *testing.T) {
	h, _, _ := newHandler(t)
	rec := httptest.NewRecorder()

	h.Index(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/register"`)
}

func TestPages_Chat(t *testing.T) {
	t.Run("renders current user", func(t *testing.T) {
		h, profiles, _ := newHandler(t)
		profiles.On("Profile", mock.Anything, "007").Return(alice, nil).Once()
		rec := httptest.NewRecorder()

		h.Chat(rec, authed(httptest.NewRequest(http.MethodGet, "/chat", nil), "007"))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Alice (007)")
		assert.Contains(t, rec.Body.String(), `"/api/messages/group"`)
	})

	t.Run("without identity redirects", func(t *testing.T) {
		h, _, _ := newHandler(t)
		rec := httptest.NewRecorder()

		h.Chat(rec, httptest.NewRequest(http.MethodGet, "/chat", nil))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("profile failure", func(t *testing.T) {
		h, profiles, _ := newHandler(t)
		profiles.On("Profile", mock.Anything, "007").Return(models.UserSummary{}, errors.New("db down")).Once()
		rec := httptest.NewRecorder()

		h.Chat(rec, authed(httptest.NewRequest(http.MethodGet, "/chat", nil), "007"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestPages_PM(t *testing.T) {
	tests := []struct {
		name       string
		peer       string
		resolved   models.UserSummary
		resolveErr error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "known peer",
			peer:       "48213",
			resolved:   models.UserSummary{UID: "48213", DisplayName: "Bob"},
			wantStatus: http.StatusOK,
			wantBody:   "<h2>Bob (48213)</h2>",
		},
		{
			name:       "favorites",
			peer:       models.FavoritesPeer,
			resolved:   models.UserSummary{UID: models.FavoritesPeer, DisplayName: models.FavoritesTitle},
			wantStatus: http.StatusOK,
			wantBody:   "<h2>Favorites</h2>",
		},
		{
			name:       "unknown peer",
			peer:       "55555",
			resolveErr: messages.ErrPeerNotFound,
			wantStatus: http.StatusNotFound,
			wantBody:   "user not found",
		},
		{
			name:       "lookup failure",
			peer:       "48213",
			resolveErr: errors.New("db down"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, profiles, peers := newHandler(t)
			profiles.On("Profile", mock.Anything, "007").Return(alice, nil).Once()
			peers.On("ResolvePeer", mock.Anything, tt.peer).Return(tt.resolved, tt.resolveErr).Once()
			rec := httptest.NewRecorder()

			req := withPeer(authed(httptest.NewRequest(http.MethodGet, "/pm/"+tt.peer, nil), "007"), tt.peer)
			h.PM(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
			peers.AssertExpectations(t)
		})
	}
}
