package services

import (
	"testing"

	"git.solsynth.dev/hypernet/meeting/pkg/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeVideoToken(t *testing.T, tk string) jwt.MapClaims {
	t.Helper()
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tk, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("livekit-secret"), nil
	})
	require.NoError(t, err)
	return claims
}

func TestEncodeCallToken(t *testing.T) {
	viper.Set("calling.api_key", "livekit-key")
	viper.Set("calling.api_secret", "livekit-secret")
	viper.Set("calling.token_duration", 3600)

	t.Run("any room", func(t *testing.T) {
		tk, err := EncodeCallToken(guest, nil)
		require.NoError(t, err)

		claims := decodeVideoToken(t, tk)
		assert.Equal(t, "livekit-key", claims["iss"])
		assert.Equal(t, guest.ID, claims["sub"])
		video := claims["video"].(map[string]any)
		assert.Equal(t, true, video["roomJoin"])
		assert.Nil(t, video["room"])
	})

	t.Run("creator is room admin", func(t *testing.T) {
		call := &models.Call{Reference: "call-1", CreatedBy: host.ID}

		tk, err := EncodeCallToken(host, call)
		require.NoError(t, err)
		video := decodeVideoToken(t, tk)["video"].(map[string]any)
		assert.Equal(t, "call-1", video["room"])
		assert.Equal(t, true, video["roomAdmin"])

		tk, err = EncodeCallToken(guest, call)
		require.NoError(t, err)
		video = decodeVideoToken(t, tk)["video"].(map[string]any)
		assert.Nil(t, video["roomAdmin"])
	})
}

func TestSetupLiveKit_MissingCredentials(t *testing.T) {
	viper.Set("calling.api_key", "")
	viper.Set("calling.api_secret", "")
	assert.Error(t, SetupLiveKit())
}

func TestCheckLiveKitCredentials(t *testing.T) {
	t.Cleanup(func() {
		viper.Set("calling.api_key", "livekit-key")
		viper.Set("calling.api_secret", "livekit-secret")
	})

	viper.Set("calling.api_key", "livekit-key")
	viper.Set("calling.api_secret", "")
	assert.Error(t, CheckLiveKitCredentials())
	assert.Error(t, SetupLiveKit())

	viper.Set("calling.api_secret", "livekit-secret")
	assert.NoError(t, CheckLiveKitCredentials())
}
