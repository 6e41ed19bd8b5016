package api

import (
	"errors"

	"git.solsynth.dev/hypernet/meeting/pkg/internal/directory"
	"git.solsynth.dev/hypernet/meeting/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/meeting/pkg/internal/models"
	"git.solsynth.dev/hypernet/meeting/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// exchangeStreamToken issues a video token. The optional call query parameter
// scopes the token to one room.
func exchangeStreamToken(c *fiber.Ctx) error {
	user := exts.CurrentUser(c)

	var call *models.Call
	if reference := c.Query("call"); len(reference) > 0 {
		found, err := services.Directory.GetCall(c.UserContext(), reference)
		if errors.Is(err, directory.ErrCallNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		} else if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, err.Error())
		}
		call = &found
	}

	tk, err := services.EncodeCallToken(user, call)
	if err != nil {
		log.Error().Err(err).Str("user", user.ID).Msg("Error generating token...")
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to generate token: "+err.Error())
	}

	return c.JSON(fiber.Map{
		"token":    tk,
		"endpoint": viper.GetString("calling.endpoint"),
	})
}
