package exts

import (
	"errors"
	"strings"

	"git.solsynth.dev/hypernet/meeting/pkg/internal/models"
	"git.solsynth.dev/hypernet/meeting/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// AuthMiddleware verifies the bearer session token and stores the caller in
// c.Locals("user"). Websocket clients cannot set headers and pass the token
// as the tk query parameter instead.
func AuthMiddleware(c *fiber.Ctx) error {
	var tk string
	if header := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(header, "Bearer ") {
		tk = strings.TrimSpace(header[len("Bearer "):])
		if len(tk) == 0 {
			return fiber.NewError(fiber.StatusUnauthorized, "Token is missing")
		}
	} else if query := c.Query("tk"); len(query) > 0 {
		tk = query
	} else {
		return fiber.NewError(fiber.StatusUnauthorized, "Missing or invalid authorization header")
	}

	user, err := services.ParseSessionToken(tk)
	if errors.Is(err, services.ErrMissingSubject) {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid token: missing user ID")
	} else if err != nil {
		log.Debug().Err(err).Msg("Auth verification failed...")
		return fiber.NewError(fiber.StatusUnauthorized, "Authentication failed: "+err.Error())
	}

	c.Locals("user", user)
	return c.Next()
}

func CurrentUser(c *fiber.Ctx) models.Account {
	return c.Locals("user").(models.Account)
}
