package console

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packarma/admin-api/pkg/pagination"
)

func TestListRetriesTransientNetworkFailures(t *testing.T) {
	var mu sync.Mutex
	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		attempts++
		n := attempts
		mu.Unlock()
		if n < 3 {
			hj, ok := w.(http.Hijacker)
			require.True(t, ok)
			conn, _, err := hj.Hijack()
			require.NoError(t, err)
			_ = conn.Close()
			return
		}
		writeList(w, []category{{ID: "c1", Name: "Boxes"}}, pagination.NewInfo(1, 10, 1))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL, MaxRetries: 4})
	raw, info, err := client.List(context.Background(), "categories", pagination.ListQuery{Page: 1, Limit: 10})

	require.NoError(t, err)
	assert.Equal(t, 1, info.TotalItems)
	var items []category
	require.NoError(t, json.Unmarshal(raw, &items))
	require.Len(t, items, 1)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 3, attempts)
}

func TestListGivesUpAfterRetryBudget(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hj := w.(http.Hijacker)
		conn, _, err := hj.Hijack()
		require.NoError(t, err)
		_ = conn.Close()
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL, MaxRetries: 1})
	_, _, err := client.List(context.Background(), "categories", pagination.ListQuery{Page: 1, Limit: 10})

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
}

func TestTimeoutSurfacesAsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, _, err := client.List(context.Background(), "categories", pagination.ListQuery{Page: 1, Limit: 10})

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
}

func TestUnauthorizedFiresCallbackWithoutRetry(t *testing.T) {
	var mu sync.Mutex
	var attempts, callbacks int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		attempts++
		mu.Unlock()
		writeAPIError(w, http.StatusUnauthorized, "token expired")
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		BaseURL:    srv.URL,
		MaxRetries: 3,
		OnUnauthorized: func() {
			mu.Lock()
			callbacks++
			mu.Unlock()
		},
	})
	_, _, err := client.List(context.Background(), "categories", pagination.ListQuery{Page: 1, Limit: 10})

	var srvErr *ServerError
	require.ErrorAs(t, err, &srvErr)
	assert.Equal(t, http.StatusUnauthorized, srvErr.Status)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 1, callbacks)
}

func TestBadRequestMapsToValidationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusBadRequest, "name is required")
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL})
	_, err := client.Create(context.Background(), "categories", map[string]string{})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "name is required", vErr.Message)
}

func TestServerErrorCarriesCodeAndMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusConflict, "email already exists")
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL})
	_, err := client.Create(context.Background(), "admins", map[string]string{"email": "dup@example.com"})

	var srvErr *ServerError
	require.ErrorAs(t, err, &srvErr)
	assert.Equal(t, http.StatusConflict, srvErr.Status)
	assert.Equal(t, "email already exists", srvErr.Error())
}

func TestDeleteTreatsNoContentAsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/categories/c1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL})
	require.NoError(t, client.Delete(context.Background(), "categories", "c1"))
}
