package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordcommerce/vipps-gateway/internal/models"
)

type fakeIdempotencyRepo struct {
	keys map[string]*models.IdempotencyKey
	mu   sync.Mutex
}

func newFakeIdempotencyRepo() *fakeIdempotencyRepo {
	return &fakeIdempotencyRepo{keys: make(map[string]*models.IdempotencyKey)}
}

func (r *fakeIdempotencyRepo) Get(_ context.Context, key, requestPath string) (*models.IdempotencyKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.keys[key+"|"+requestPath], nil
}

func (r *fakeIdempotencyRepo) Store(_ context.Context, idemKey *models.IdempotencyKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys[idemKey.Key+"|"+idemKey.RequestPath] = idemKey
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func countingHandler(calls *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.WriteHeader(http.StatusOK)
		//nolint:errcheck
		w.Write([]byte(`{"state":"completed"}`))
	})
}

func TestIdempotency_ReplaysCachedResponse(t *testing.T) {
	repo := newFakeIdempotencyRepo()
	var calls int
	handler := Idempotency(repo, testLogger())(countingHandler(&calls))

	path := "/payments/6f1f64a2-0e64-4bfe-b4f9-2b1c0a1df31f/capture"

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader("{}"))
		req.Header.Set("Idempotency-Key", "key-1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"state":"completed"}`, rec.Body.String())
		if i == 1 {
			assert.Equal(t, "true", rec.Header().Get("X-Idempotent-Replayed"))
		}
	}

	assert.Equal(t, 1, calls, "second request must be served from cache")
}

func TestIdempotency_MissingKeyPassesThrough(t *testing.T) {
	repo := newFakeIdempotencyRepo()
	var calls int
	handler := Idempotency(repo, testLogger())(countingHandler(&calls))

	path := "/payments/6f1f64a2-0e64-4bfe-b4f9-2b1c0a1df31f/refund"
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
	}

	assert.Equal(t, 2, calls)
}

func TestIdempotency_CallbackRoutesExcluded(t *testing.T) {
	repo := newFakeIdempotencyRepo()
	var calls int
	handler := Idempotency(repo, testLogger())(countingHandler(&calls))

	req := httptest.NewRequest(http.MethodPost, "/payment/notify/vipps/abc/web-1", nil)
	req.Header.Set("Idempotency-Key", "key-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, 1, calls)
	assert.Empty(t, repo.keys)
}

func TestIdempotency_ErrorResponsesNotCached(t *testing.T) {
	repo := newFakeIdempotencyRepo()
	handler := Idempotency(repo, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))

	req := httptest.NewRequest(http.MethodPost, "/payments/6f1f64a2-0e64-4bfe-b4f9-2b1c0a1df31f/void", nil)
	req.Header.Set("Idempotency-Key", "key-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Empty(t, repo.keys)
}
