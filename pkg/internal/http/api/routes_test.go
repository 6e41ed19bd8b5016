package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := call(t, app, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, status)
	health := object(t, body)
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, "development", health["environment"])
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z$`, health["timestamp"])
}

func TestStreamToken(t *testing.T) {
	app, _ := newTestApp(t)

	t.Run("missing header", func(t *testing.T) {
		status, body := call(t, app, http.MethodPost, "/api/stream/token", nil, "")
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "Missing or invalid authorization header", object(t, body)["error"])
	})

	t.Run("invalid token", func(t *testing.T) {
		status, body := call(t, app, http.MethodPost, "/api/stream/token", nil, "Bearer nope")
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Contains(t, object(t, body)["error"], "Authentication failed")
	})

	t.Run("issued", func(t *testing.T) {
		status, body := call(t, app, http.MethodPost, "/api/stream/token", nil, bearer(t, guest))
		require.Equal(t, http.StatusOK, status)
		assert.NotEmpty(t, object(t, body)["token"])
	})

	t.Run("unknown call", func(t *testing.T) {
		status, _ := call(t, app, http.MethodPost, "/api/stream/token?call=missing", nil, bearer(t, guest))
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestStreamToken_ProviderFailure(t *testing.T) {
	app, _ := newTestApp(t)
	viper.Set("calling.api_secret", "")
	t.Cleanup(func() { viper.Set("calling.api_secret", "livekit-secret") })

	status, body := call(t, app, http.MethodPost, "/api/stream/token", nil, bearer(t, guest))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Contains(t, object(t, body)["error"], "Failed to generate token")
}

func newGithubUpstream(t *testing.T) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/hello", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"full_name":"octo/hello"}`))
	})
	mux.HandleFunc("/repos/octo/hello/contents", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"name":".env","type":"file","path":".env"},{"name":"go.mod","type":"file","path":"go.mod"}]`))
	})
	mux.HandleFunc("/repos/octo/hello/contents/docs/guide.md", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name":"guide.md","path":"docs/guide.md"}`))
	})
	mux.HandleFunc("/repos/octo/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
	})
	mux.HandleFunc("/repos/octo/missing/contents", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	viper.Set("github.api_base", server.URL)
}

func TestGithubRoutes(t *testing.T) {
	app, _ := newTestApp(t)
	newGithubUpstream(t)
	auth := bearer(t, guest)

	status, _ := call(t, app, http.MethodGet, "/api/github/repo/octo/hello", nil, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := call(t, app, http.MethodGet, "/api/github/repo/octo/hello", nil, auth)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "octo/hello", object(t, body)["full_name"])

	status, body = call(t, app, http.MethodGet, "/api/github/repo/octo/hello/contents", nil, auth)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body, 2, "the raw listing is passed through unfiltered")

	status, body = call(t, app, http.MethodGet, "/api/github/repo/octo/hello/contents/docs/guide.md", nil, auth)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "docs/guide.md", object(t, body)["path"])

	status, body = call(t, app, http.MethodGet, "/api/github/repo/octo/missing", nil, auth)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Failed to fetch repository information", object(t, body)["error"])
	assert.Equal(t, "Not Found", object(t, body)["details"])

	status, body = call(t, app, http.MethodGet, "/api/github/repo/octo/missing/contents", nil, auth)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Failed to fetch repository root contents", object(t, body)["error"])
}

func TestChatbotRoute(t *testing.T) {
	app, _ := newTestApp(t)

	reply := `{"choices":[{"message":{"role":"assistant","content":"Use the raise hand button."}}]}`
	statusCode := http.StatusOK
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(server.Close)
	viper.Set("chatbot.endpoint", server.URL)
	viper.Set("chatbot.api_key", "groq-key")

	status, body := call(t, app, http.MethodPost, "/api/chatbot", map[string]any{
		"message":             "How do I ask a question?",
		"conversationHistory": []map[string]string{{"role": "user", "content": "hi"}},
	}, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Use the raise hand button.", object(t, body)["response"])

	status, _ = call(t, app, http.MethodPost, "/api/chatbot", map[string]any{}, "")
	assert.Equal(t, http.StatusBadRequest, status)

	statusCode = http.StatusInternalServerError
	reply = `{"error":{"message":"model overloaded"}}`
	status, body = call(t, app, http.MethodPost, "/api/chatbot", map[string]any{"message": "hi"}, "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Failed to process message", object(t, body)["error"])
	assert.Contains(t, object(t, body)["details"], "model overloaded")
}
