package start

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Danielsio/SIONYX-sub000/internal/http/middlewarectx"
	"github.com/Danielsio/SIONYX-sub000/internal/models"
	session "github.com/Danielsio/SIONYX-sub000/internal/services/session"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Start(ctx context.Context, orgID, userUID, computerName string) (*models.Session, error) {
	args := m.Called(ctx, orgID, userUID, computerName)
	resp, _ := args.Get(0).(*models.Session)
	return resp, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func authedRequest(body []byte) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/sessions/start", bytes.NewReader(body))
	ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
	ctx = context.WithValue(ctx, middlewarectx.User, "u1")
	ctx = context.WithValue(ctx, middlewarectx.Org, "org1")
	return req.WithContext(ctx)
}

func TestStartHandler_ServeHTTP(t *testing.T) {
	sess := &models.Session{ID: 7, OrgID: "org1", UserUID: "u1", ComputerName: "pc-01",
		StartedAt: time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC),
		RemainingSeconds: 3600, IsActive: true}

	tests := []struct {
		name           string
		requestBody    interface{}
		mockResp       *models.Session
		mockErr        error
		wantStatusCode int
		wantSuccess    bool
		wantError      string
	}{
		{
			name:           "session starts",
			requestBody:    Request{ComputerName: "pc-01"},
			mockResp:       sess,
			wantStatusCode: http.StatusOK,
			wantSuccess:    true,
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
		},
		{
			name:           "validation error - missing computer",
			requestBody:    Request{},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field ComputerName is a required field",
		},
		{
			name:           "outside operating hours",
			requestBody:    Request{ComputerName: "pc-01"},
			mockErr:        session.ErrOutsideOperatingHours,
			wantStatusCode: http.StatusForbidden,
			wantError:      "outside operating hours",
		},
		{
			name:           "no time balance",
			requestBody:    Request{ComputerName: "pc-01"},
			mockErr:        session.ErrNoTimeBalance,
			wantStatusCode: http.StatusForbidden,
			wantError:      "no time balance",
		},
		{
			name:           "session already active",
			requestBody:    Request{ComputerName: "pc-01"},
			mockErr:        session.ErrSessionConflict,
			wantStatusCode: http.StatusConflict,
			wantError:      "session already active",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ServiceMock)
			if tt.mockResp != nil || tt.mockErr != nil {
				serviceMock.On("Start", mock.Anything, "org1", "u1", "pc-01").
					Return(tt.mockResp, tt.mockErr).Once()
			}
			handler := New(newNoopLogger(), serviceMock)

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, authedRequest(bodyBytes))

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantSuccess, got["success"])

			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, got["error"])
			} else {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				view, ok := data["session"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, "pc-01", view["computer_name"])
				assert.Equal(t, float64(3600), view["remaining_seconds"])
			}
			serviceMock.AssertExpectations(t)
		})
	}
}

func TestStartHandler_NoIdentity(t *testing.T) {
	handler := New(newNoopLogger(), new(ServiceMock))

	body, _ := json.Marshal(Request{ComputerName: "pc-01"})
	req := httptest.NewRequest(http.MethodPost, "/sessions/start", bytes.NewReader(body))
	req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
