package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"git.solsynth.dev/hypernet/meeting/pkg/internal/directory"
	"git.solsynth.dev/hypernet/meeting/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/meeting/pkg/internal/models"
	"git.solsynth.dev/hypernet/meeting/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

var (
	host  = models.Account{ID: "user_host", Username: "ada"}
	guest = models.Account{ID: "user_guest", Name: "Grace Hopper"}
)

// flakyDirectory is the in-memory directory with a video platform that can be
// switched off.
type flakyDirectory struct {
	*directory.Memory
	down bool
}

var errPlatformDown = errors.New("video platform unavailable")

func (v *flakyDirectory) QueryCalls(ctx context.Context, query directory.Query) ([]models.Call, error) {
	if v.down {
		return nil, errPlatformDown
	}
	return v.Memory.QueryCalls(ctx, query)
}

func (v *flakyDirectory) GetOrCreateCall(ctx context.Context, call models.Call) (models.Call, error) {
	if v.down {
		return models.Call{}, errPlatformDown
	}
	return v.Memory.GetOrCreateCall(ctx, call)
}

func newTestApp(t *testing.T) (*fiber.App, *flakyDirectory) {
	t.Helper()

	calls := &flakyDirectory{Memory: directory.NewMemory()}
	previous := services.Directory
	services.Directory = calls
	t.Cleanup(func() { services.Directory = previous })

	viper.Set("environment", "development")
	viper.Set("frontend", "https://meet.example.com")
	viper.Set("security.session_secret", "test-secret")
	viper.Set("security.session_public_key", "")
	viper.Set("calling.api_key", "livekit-key")
	viper.Set("calling.api_secret", "livekit-secret")
	viper.Set("calling.token_duration", 3600)
	viper.Set("collab.chat_history_limit", 100)
	viper.Set("github.user_agent", "CollabClass-App")
	viper.Set("chatbot.history_window", 5)

	app := fiber.New(fiber.Config{ErrorHandler: exts.ErrorHandler})
	MapAPIs(app, "/api")
	return app, calls
}

func bearer(t *testing.T, user models.Account) string {
	t.Helper()
	tk, err := jwt.NewWithClaims(jwt.SigningMethodHS256, services.SessionClaims{
		Name:     user.Name,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return "Bearer " + tk
}

// call performs one request and decodes the JSON answer into a generic value.
func call(t *testing.T, app *fiber.App, method, path string, body any, authorization string) (int, any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := jsoniter.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if len(authorization) > 0 {
		req.Header.Set(fiber.HeaderAuthorization, authorization)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out any
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, jsoniter.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func object(t *testing.T, value any) map[string]any {
	t.Helper()
	out, ok := value.(map[string]any)
	require.True(t, ok, "expected a JSON object, got %T", value)
	return out
}
