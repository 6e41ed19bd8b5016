package api

import (
	"errors"

	"git.solsynth.dev/hypernet/meeting/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

func upstreamFailure(c *fiber.Ctx, message string, err error) error {
	if errors.Is(err, services.ErrInvalidRepoPath) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	log.Error().Err(err).Str("path", c.Path()).Msg(message)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   message,
		"details": err.Error(),
	})
}

func getRepoInfo(c *fiber.Ctx) error {
	body, err := services.GetRepoInfo(c.Params("owner"), c.Params("repo"))
	if err != nil {
		return upstreamFailure(c, "Failed to fetch repository information", err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Send(body)
}

func getRepoContents(c *fiber.Ctx) error {
	path := c.Params("*")

	body, err := services.GetRepoContents(c.Params("owner"), c.Params("repo"), path)
	if err != nil {
		if len(path) == 0 {
			return upstreamFailure(c, "Failed to fetch repository root contents", err)
		}
		return upstreamFailure(c, "Failed to fetch repository contents", err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Send(body)
}
