package services

import (
	"errors"
	"fmt"

	"git.solsynth.dev/hypernet/meeting/pkg/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
)

var ErrMissingSubject = errors.New("invalid token: missing user ID")

// SessionClaims are the claims of an identity-provider session token.
type SessionClaims struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Avatar   string `json:"image_url"`
	jwt.RegisteredClaims
}

func sessionKey(token *jwt.Token) (interface{}, error) {
	switch token.Method.(type) {
	case *jwt.SigningMethodRSA:
		pem := viper.GetString("security.session_public_key")
		if len(pem) == 0 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Method.Alg())
		}
		return jwt.ParseRSAPublicKeyFromPEM([]byte(pem))
	case *jwt.SigningMethodHMAC:
		secret := viper.GetString("security.session_secret")
		if len(secret) == 0 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Method.Alg())
		}
		return []byte(secret), nil
	default:
		return nil, fmt.Errorf("unexpected signing method: %v", token.Method.Alg())
	}
}

func ParseSessionToken(tk string) (models.Account, error) {
	var claims SessionClaims
	token, err := jwt.ParseWithClaims(tk, &claims, sessionKey)
	if err != nil {
		return models.Account{}, err
	}
	if !token.Valid {
		return models.Account{}, fmt.Errorf("invalid token")
	}
	if len(claims.Subject) == 0 {
		return models.Account{}, ErrMissingSubject
	}

	return models.Account{
		ID:       claims.Subject,
		Name:     claims.Name,
		Username: claims.Username,
		Avatar:   claims.Avatar,
	}, nil
}
