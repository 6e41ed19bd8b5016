package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
)

func getHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":      "ok",
		"timestamp":   time.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
		"environment": viper.GetString("environment"),
	})
}
