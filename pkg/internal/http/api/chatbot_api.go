package api

import (
	"git.solsynth.dev/hypernet/meeting/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/meeting/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

func askChatbot(c *fiber.Ctx) error {
	var data struct {
		Message             string              `json:"message" validate:"required"`
		ConversationHistory []services.ChatTurn `json:"conversationHistory"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	reply, err := services.AskChatbot(data.Message, data.ConversationHistory)
	if err != nil {
		services.M.ChatbotRequests.WithLabelValues("error").Inc()
		log.Error().Err(err).Msg("Chatbot error...")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to process message",
			"details": err.Error(),
		})
	}

	services.M.ChatbotRequests.WithLabelValues("ok").Inc()
	return c.JSON(fiber.Map{"response": reply})
}
