package cloudflare

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(apiBase string) *StreamClient {
	return &StreamClient{
		AccountID: "acc123",
		APIToken:  "token123",
		APIBase:   apiBase,
		HTTP:      &http.Client{Timeout: 5 * time.Second},
	}
}

func TestCreateUploadTarget(t *testing.T) {
	ctx := context.Background()

	t.Run("returns upload URL and UID", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/accounts/acc123/stream", r.URL.Path)
			assert.Equal(t, "Bearer token123", r.Header.Get("Authorization"))

			var body createTargetRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "clip.mp4", body.File)
			assert.False(t, body.RequireSignedURLs)

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"result":{"uploadURL":"https://up.example/abc","uid":"vid123"},"success":true}`))
		}))
		defer srv.Close()

		target, err := testClient(srv.URL).CreateUploadTarget(ctx, "clip.mp4")
		require.NoError(t, err)

		assert.Equal(t, "https://up.example/abc", target.UploadURL)
		assert.Equal(t, "vid123", target.UID)
	})

	t.Run("falls back to result.id", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"result":{"uploadURL":"https://up.example/abc","id":"vid456"}}`))
		}))
		defer srv.Close()

		target, err := testClient(srv.URL).CreateUploadTarget(ctx, "clip.mp4")
		require.NoError(t, err)

		assert.Equal(t, "vid456", target.UID)
	})

	t.Run("missing config", func(t *testing.T) {
		c := testClient("http://unused.invalid")
		c.APIToken = ""

		_, err := c.CreateUploadTarget(ctx, "clip.mp4")

		var confErr *ConfigError
		require.ErrorAs(t, err, &confErr)
	})

	t.Run("upstream rejection carries status and body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"errors":[{"code":10000}]}`))
		}))
		defer srv.Close()

		_, err := testClient(srv.URL).CreateUploadTarget(ctx, "clip.mp4")

		var upErr *UpstreamError
		require.ErrorAs(t, err, &upErr)
		assert.Equal(t, http.StatusTooManyRequests, upErr.Status)
		assert.Contains(t, upErr.Body, "10000")
	})

	t.Run("unexpected response shape", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"result":{}}`))
		}))
		defer srv.Close()

		_, err := testClient(srv.URL).CreateUploadTarget(ctx, "clip.mp4")

		var protoErr *ProtocolError
		assert.ErrorAs(t, err, &protoErr)
	})
}

func TestGetVideo(t *testing.T) {
	ctx := context.Background()

	t.Run("unwraps result", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/accounts/acc123/stream/vid123", r.URL.Path)
			w.Write([]byte(`{"result":{"uid":"vid123","readyToStream":true}}`))
		}))
		defer srv.Close()

		meta, err := testClient(srv.URL).GetVideo(ctx, "vid123")
		require.NoError(t, err)

		assert.JSONEq(t, `{"uid":"vid123","readyToStream":true}`, string(meta))
	})

	t.Run("surfaces upstream status verbatim", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"success":false}`))
		}))
		defer srv.Close()

		_, err := testClient(srv.URL).GetVideo(ctx, "missing")

		var upErr *UpstreamError
		require.ErrorAs(t, err, &upErr)
		assert.Equal(t, http.StatusNotFound, upErr.Status)
	})
}
