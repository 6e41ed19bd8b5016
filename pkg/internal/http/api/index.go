package api

import (
	"git.solsynth.dev/hypernet/meeting/pkg/internal/http/exts"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func MapAPIs(app *fiber.App, baseURL string) {
	app.Get("/health", getHealth)

	api := app.Group(baseURL).Name("API")
	{
		api.Post("/stream/token", exts.AuthMiddleware, exchangeStreamToken)

		github := api.Group("/github").Use(exts.AuthMiddleware).Name("GitHub API")
		{
			github.Get("/repo/:owner/:repo/contents/*", getRepoContents)
			github.Get("/repo/:owner/:repo/contents", getRepoContents)
			github.Get("/repo/:owner/:repo", getRepoInfo)
		}

		api.Post("/chatbot", askChatbot)

		meetings := api.Group("/meetings").Use(exts.AuthMiddleware).Name("Meetings API")
		{
			meetings.Get("/", listMeetings)
			meetings.Post("/", createMeeting)
			meetings.Post("/join", joinMeeting)
			meetings.Get("/personal", getPersonalRoom)
			meetings.Post("/personal", startPersonalRoom)
			meetings.Get("/code/:code", resolveMeetingCode)

			meetings.Get("/:id", getMeeting)
			meetings.Delete("/:id", endMeeting)
			meetings.Post("/:id/chat", sendChatMessage)
			meetings.Delete("/:id/chat", clearChatMessages)
			meetings.Put("/:id/whiteboard", saveWhiteboard)
			meetings.Post("/:id/repo", importRepository)
			meetings.Get("/:id/watch", watchMiddleware, websocket.New(watchMeeting))
		}
	}
}
