package services

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

const ChatbotFallbackReply = "I'm here to help with your meeting! What would you like to know?"

const chatbotSystemPrompt = `You are a helpful AI assistant for video meetings. You help users with:
- Meeting management and scheduling
- Technical troubleshooting
- Meeting etiquette and best practices
- Note-taking and action items
- General meeting assistance

Be concise, friendly, and helpful. Keep responses under 150 words when possible.`

type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string     `json:"model"`
	Messages    []ChatTurn `json:"messages"`
	MaxTokens   int        `json:"max_tokens"`
	Temperature float64    `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Message ChatTurn `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// BuildChatbotMessages assembles the completion prompt from the system prompt,
// the tail of the conversation and the new message.
func BuildChatbotMessages(message string, history []ChatTurn) []ChatTurn {
	if window := max(viper.GetInt("chatbot.history_window"), 0); len(history) > window {
		history = history[len(history)-window:]
	}

	messages := make([]ChatTurn, 0, len(history)+2)
	messages = append(messages, ChatTurn{Role: "system", Content: chatbotSystemPrompt})
	messages = append(messages, lo.Map(history, func(item ChatTurn, _ int) ChatTurn {
		return ChatTurn{Role: item.Role, Content: item.Content}
	})...)
	messages = append(messages, ChatTurn{Role: "user", Content: message})
	return messages
}

func AskChatbot(message string, history []ChatTurn) (string, error) {
	agent := fiber.Post(viper.GetString("chatbot.endpoint"))
	agent.Set(fiber.HeaderAuthorization, "Bearer "+viper.GetString("chatbot.api_key"))
	agent.JSON(completionRequest{
		Model:       viper.GetString("chatbot.model"),
		Messages:    BuildChatbotMessages(message, history),
		MaxTokens:   viper.GetInt("chatbot.max_tokens"),
		Temperature: viper.GetFloat64("chatbot.temperature"),
	})
	agent.Timeout(60 * time.Second)

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return "", errs[0]
	}

	var resp completionResponse
	if err := jsoniter.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unable to decode completion response: %v", err)
	}
	if status != fiber.StatusOK {
		if resp.Error != nil && len(resp.Error.Message) > 0 {
			return "", fmt.Errorf("%d %s", status, resp.Error.Message)
		}
		return "", fmt.Errorf("completion request failed with status code %d", status)
	}

	if len(resp.Choices) == 0 || len(resp.Choices[0].Message.Content) == 0 {
		return ChatbotFallbackReply, nil
	}
	return resp.Choices[0].Message.Content, nil
}
