package httprequest

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/commerceops/flowline/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execContext(data map[string]any) *models.ExecutionContext {
	return &models.ExecutionContext{Data: data, Logger: slog.New(slog.DiscardHandler)}
}

func TestNewHandler_RequiresURL(t *testing.T) {
	_, err := NewHandler(map[string]any{}, nil)
	require.Error(t, err)
}

func TestHandler_Execute_InterpolatesURLHeadersAndBody(t *testing.T) {
	var (
		gotPath   string
		gotHeader string
		gotBody   []byte
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotHeader = r.Header.Get("X-Order")
		gotBody, _ = io.ReadAll(r.Body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"received": true}`))
	}))
	defer server.Close()

	handler, err := NewHandler(map[string]any{
		"url":    server.URL + "/orders/{{order.id}}",
		"method": "post",
		"headers": map[string]any{
			"X-Order": "{{order.id}}",
		},
		"body": `{"total": {{order.total}}}`,
	}, nil)
	require.NoError(t, err)

	output, err := handler.Execute(context.Background(), execContext(map[string]any{
		"order": map[string]any{"id": "ord-7", "total": 99.5},
	}))
	require.NoError(t, err)

	assert.Equal(t, "/orders/ord-7", gotPath)
	assert.Equal(t, "ord-7", gotHeader)
	assert.JSONEq(t, `{"total": 99.5}`, string(gotBody))

	assert.Equal(t, http.StatusOK, output["status"])
	assert.Equal(t, "OK", output["statusText"])
	assert.Equal(t, map[string]any{"received": true}, output["body"])
}

// A non-2xx response is still a completed call; the status rides in the output.
func TestHandler_Execute_Non2xxIsSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream broke"))
	}))
	defer server.Close()

	handler, err := NewHandler(map[string]any{"url": server.URL}, nil)
	require.NoError(t, err)

	output, err := handler.Execute(context.Background(), execContext(map[string]any{}))
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadGateway, output["status"])
	assert.Equal(t, "upstream broke", output["body"])
}

func TestHandler_Execute_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	handler, err := NewHandler(map[string]any{
		"url":        server.URL,
		"timeout_ms": float64(20),
	}, nil)
	require.NoError(t, err)

	_, err = handler.Execute(context.Background(), execContext(map[string]any{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}

func TestHandler_Execute_AllowList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	handler, err := NewHandler(map[string]any{"url": server.URL}, []string{"api.example.com"})
	require.NoError(t, err)

	_, err = handler.Execute(context.Background(), execContext(map[string]any{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "allow-list")

	// 127.0.0.1 allow-listed lets the call through.
	handler, err = NewHandler(map[string]any{"url": server.URL}, []string{"127.0.0.1"})
	require.NoError(t, err)

	output, err := handler.Execute(context.Background(), execContext(map[string]any{}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, output["status"])
}
