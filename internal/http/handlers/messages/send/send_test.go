package send

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/messenger/internal/http/middlewarectx"
	"github.com/magabrotheeeer/messenger/internal/models"
	"github.com/magabrotheeeer/messenger/internal/services/messages"
)

type SendServiceMock struct {
	mock.Mock
}

func (m *SendServiceMock) Send(ctx context.Context, sender string, req messages.SendRequest) (*models.Message, error) {
	args := m.Called(ctx, sender, req)
	msg, _ := args.Get(0).(*models.Message)
	return msg, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestSendHandler(t *testing.T) {
	stored := &models.Message{ID: 1, SenderUID: "007", ReceiverUID: "007", Text: "note"}

	tests := []struct {
		name       string
		body       string
		wantReq    *messages.SendRequest
		svcMsg     *models.Message
		svcErr     error
		wantStatus int
		wantBody   map[string]string
	}{
		{
			name:       "favorites send",
			body:       `{"text":"note","receiver":"formyself","is_group":false}`,
			wantReq:    &messages.SendRequest{Text: "note", Receiver: "formyself"},
			svcMsg:     stored,
			wantStatus: http.StatusOK,
			wantBody:   map[string]string{"status": "ok"},
		},
		{
			name:       "group send",
			body:       `{"text":"hi all","is_group":true}`,
			wantReq:    &messages.SendRequest{Text: "hi all", IsGroup: true},
			svcMsg:     &models.Message{ID: 2, SenderUID: "007", ReceiverUID: "group", IsGroup: true},
			wantStatus: http.StatusOK,
			wantBody:   map[string]string{"status": "ok"},
		},
		{
			name:       "blank text",
			body:       `{"text":"   ","is_group":true}`,
			wantReq:    &messages.SendRequest{Text: "   ", IsGroup: true},
			svcErr:     messages.ErrEmptyText,
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]string{"status": "error", "error": messages.ErrEmptyText.Error()},
		},
		{
			name:       "missing text",
			body:       `{"receiver":"48213"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]string{"status": "error", "error": "field Text is a required field"},
		},
		{
			name:       "malformed body",
			body:       `{"text":`,
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]string{"status": "error", "error": "invalid request body"},
		},
		{
			name:       "unknown receiver",
			body:       `{"text":"hello?","receiver":"55555"}`,
			wantReq:    &messages.SendRequest{Text: "hello?", Receiver: "55555"},
			svcErr:     messages.ErrReceiverNotFound,
			wantStatus: http.StatusNotFound,
			wantBody:   map[string]string{"status": "error", "error": messages.ErrReceiverNotFound.Error()},
		},
		{
			name:       "internal failure hides detail",
			body:       `{"text":"hi","receiver":"48213"}`,
			wantReq:    &messages.SendRequest{Text: "hi", Receiver: "48213"},
			svcErr:     errors.New("pq: relation messages does not exist"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   map[string]string{"status": "error", "error": "internal error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(SendServiceMock)
			if tt.wantReq != nil {
				svc.On("Send", mock.Anything, "007", *tt.wantReq).Return(tt.svcMsg, tt.svcErr).Once()
			}

			req := httptest.NewRequest(http.MethodPost, "/api/messages/send", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
			req = req.WithContext(middlewarectx.WithUser(ctx, "007", "sid"))
			rec := httptest.NewRecorder()

			New(newNoopLogger(), svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var got map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantBody, got)
			svc.AssertExpectations(t)
		})
	}
}

func TestSendHandler_NoIdentity(t *testing.T) {
	svc := new(SendServiceMock)
	req := httptest.NewRequest(http.MethodPost, "/api/messages/send", strings.NewReader(`{"text":"hi"}`))
	rec := httptest.NewRecorder()

	New(newNoopLogger(), svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	svc.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}
