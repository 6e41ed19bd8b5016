package services

import (
	"testing"
	"time"

	localCache "git.solsynth.dev/hypernet/meeting/pkg/internal/cache"
	"git.solsynth.dev/hypernet/meeting/pkg/internal/directory"
	"git.solsynth.dev/hypernet/meeting/pkg/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

var (
	host  = models.Account{ID: "user_host", Name: "Ada Lovelace", Username: "ada"}
	guest = models.Account{ID: "user_guest", Name: "Grace Hopper"}
)

// useMemoryDirectory points the package at a fresh in-memory directory and
// sensible settings for the duration of a test.
func useMemoryDirectory(t *testing.T) *directory.Memory {
	t.Helper()

	previous := Directory
	memory := directory.NewMemory()
	Directory = memory
	localCache.S = nil

	viper.Set("frontend", "https://meet.example.com")
	viper.Set("collab.chat_history_limit", 100)
	viper.Set("github.user_agent", "CollabClass-App")
	viper.Set("github.cache_ttl", 5*time.Minute)
	viper.Set("chatbot.history_window", 5)
	viper.Set("chatbot.model", "openai/gpt-oss-120b")
	viper.Set("chatbot.max_tokens", 500)
	viper.Set("chatbot.temperature", 0.7)

	t.Cleanup(func() { Directory = previous })
	return memory
}

func signHMAC(t *testing.T, secret string, claims jwt.Claims) string {
	t.Helper()
	tk, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tk
}
