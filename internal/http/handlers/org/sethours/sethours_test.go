package sethours

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Danielsio/SIONYX-sub000/internal/http/middlewarectx"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) SetHours(ctx context.Context, orgID, schedule string) error {
	return m.Called(ctx, orgID, schedule).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newRequest(body []byte) *http.Request {
	req := httptest.NewRequest(http.MethodPut, "/org/hours", bytes.NewReader(body))
	ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
	ctx = context.WithValue(ctx, middlewarectx.Org, "org1")
	return req.WithContext(ctx)
}

func TestSetHoursHandler_ServeHTTP(t *testing.T) {
	schedule := "08:00-22:00,08:00-22:00,08:00-22:00,08:00-22:00,08:00-14:00,-,20:00-23:00"

	t.Run("stores a valid schedule", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		serviceMock.On("SetHours", mock.Anything, "org1", schedule).Return(nil).Once()
		handler := New(newNoopLogger(), serviceMock)

		body, _ := json.Marshal(Request{Schedule: schedule})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newRequest(body))

		assert.Equal(t, http.StatusOK, rec.Code)

		var got map[string]any
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, true, got["success"])
		serviceMock.AssertExpectations(t)
	})

	t.Run("missing schedule field", func(t *testing.T) {
		handler := New(newNoopLogger(), new(ServiceMock))

		body, _ := json.Marshal(Request{})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newRequest(body))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var got map[string]any
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "field Schedule is a required field", got["error"])
	})

	t.Run("rejected schedule format", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		serviceMock.On("SetHours", mock.Anything, "org1", "9am-5pm").
			Return(errors.New("expected 7 day windows")).Once()
		handler := New(newNoopLogger(), serviceMock)

		body, _ := json.Marshal(Request{Schedule: "9am-5pm"})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newRequest(body))

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var got map[string]any
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "bad schedule format", got["error"])
	})
}
