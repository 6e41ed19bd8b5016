package api

import (
	"context"
	"errors"

	"git.solsynth.dev/hypernet/meeting/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/meeting/pkg/internal/models"
	"git.solsynth.dev/hypernet/meeting/pkg/internal/services"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func collabStatus(err error) int {
	var upstream *services.UpstreamError
	if errors.As(err, &upstream) {
		return fiber.StatusBadGateway
	}
	return meetingStatus(err)
}

func sendChatMessage(c *fiber.Ctx) error {
	var data struct {
		Text string `json:"text" validate:"required,max=4096"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	message, err := services.AppendChatMessage(c.UserContext(), c.Params("id"), exts.CurrentUser(c), data.Text)
	if err != nil {
		return fiber.NewError(collabStatus(err), err.Error())
	}
	return c.JSON(message)
}

func clearChatMessages(c *fiber.Ctx) error {
	if err := services.ClearChatMessages(c.UserContext(), c.Params("id")); err != nil {
		return fiber.NewError(collabStatus(err), err.Error())
	}
	return c.SendStatus(fiber.StatusOK)
}

func saveWhiteboard(c *fiber.Ctx) error {
	var data struct {
		Data string `json:"data" validate:"required"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	call, err := services.SaveWhiteboard(c.UserContext(), c.Params("id"), exts.CurrentUser(c), data.Data)
	if err != nil {
		return fiber.NewError(collabStatus(err), err.Error())
	}
	return c.JSON(call)
}

func importRepository(c *fiber.Ctx) error {
	var data struct {
		URL string `json:"url" validate:"required"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	owner, repo, ok := services.ParseGithubURL(data.URL)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "Please enter a valid GitHub repository URL")
	}

	imported, err := services.ImportRepository(c.UserContext(), c.Params("id"), exts.CurrentUser(c), owner, repo)
	if err != nil {
		return fiber.NewError(collabStatus(err), err.Error())
	}
	return c.JSON(imported)
}

func watchMiddleware(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	// Params point into the request buffer, the watch outlives the request.
	c.Locals("call", utils.CopyString(c.Params("id")))
	return c.Next()
}

// watchMeeting streams the call every time its custom data changes until the
// client goes away.
func watchMeeting(c *websocket.Conn) {
	user := c.Locals("user").(models.Account)
	reference := c.Locals("call").(string)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Reading is the only way to notice the peer closed the connection.
	go func() {
		defer cancel()
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	services.M.MetadataWatchers.Inc()
	defer services.M.MetadataWatchers.Dec()

	err := services.WatchCustom(ctx, reference, viper.GetDuration("collab.poll_interval"), func(call models.Call) error {
		return c.WriteJSON(fiber.Map{
			"call":     call,
			"envelope": models.EnvelopeOf(call),
		})
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Warn().Err(err).Str("call", reference).Str("user", user.ID).Msg("Metadata watch stopped...")
		_ = c.WriteJSON(fiber.Map{"error": err.Error()})
	}
}
