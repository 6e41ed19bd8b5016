package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"git.solsynth.dev/hypernet/meeting/pkg/internal/models"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

var ErrNotHost = errors.New("only the meeting host can do this")

// Chat, whiteboard and imported repository all live in the call custom bag.
// Every write reads the latest snapshot and replaces the whole bag, two
// participants writing at once race and the last write wins.

func ChatMessagesOf(call models.Call) []models.ChatMessage {
	var messages []models.ChatMessage
	raw, ok := call.Custom[models.CustomKeyChatMessages]
	if !ok || raw == nil {
		return messages
	}
	if err := models.FitStruct(raw, &messages); err != nil {
		log.Warn().Err(err).Str("call", call.Reference).Msg("Unable to read chat messages from call custom data...")
		return nil
	}
	return messages
}

func AppendChatMessage(ctx context.Context, reference string, user models.Account, text string) (models.ChatMessage, error) {
	call, err := Directory.GetCall(ctx, reference)
	if err != nil {
		return models.ChatMessage{}, err
	}

	message := models.ChatMessage{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		UserName:  user.DisplayName(),
		UserImage: user.Avatar,
		Text:      strings.TrimSpace(text),
		Timestamp: time.Now(),
	}

	messages := append(ChatMessagesOf(call), message)
	if limit := viper.GetInt("collab.chat_history_limit"); limit > 0 && len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}

	custom := models.CloneCustom(call.Custom)
	custom[models.CustomKeyChatMessages] = messages
	if _, err := Directory.ReplaceCustom(ctx, reference, custom); err != nil {
		return message, err
	}
	return message, nil
}

func ClearChatMessages(ctx context.Context, reference string) error {
	call, err := Directory.GetCall(ctx, reference)
	if err != nil {
		return err
	}

	custom := models.CloneCustom(call.Custom)
	custom[models.CustomKeyChatMessages] = []models.ChatMessage{}
	_, err = Directory.ReplaceCustom(ctx, reference, custom)
	return err
}

// SaveWhiteboard stores the serialized scene. Only the host draws, everyone
// else renders read-only.
func SaveWhiteboard(ctx context.Context, reference string, user models.Account, scene string) (models.Call, error) {
	call, err := Directory.GetCall(ctx, reference)
	if err != nil {
		return call, err
	} else if call.CreatedBy != user.ID {
		return call, ErrNotHost
	}

	custom := models.CloneCustom(call.Custom)
	custom[models.CustomKeyWhiteboardData] = scene
	return Directory.ReplaceCustom(ctx, reference, custom)
}

// ImportRepository fetches repository info and root listing and shares them
// with every participant. Hidden entries are left out of the file tree.
func ImportRepository(ctx context.Context, reference string, user models.Account, owner, repo string) (models.ImportedRepo, error) {
	call, err := Directory.GetCall(ctx, reference)
	if err != nil {
		return models.ImportedRepo{}, err
	} else if call.CreatedBy != user.ID {
		return models.ImportedRepo{}, ErrNotHost
	}

	rawInfo, err := GetRepoInfo(owner, repo)
	if err != nil {
		return models.ImportedRepo{}, err
	}
	rawContents, err := GetRepoContents(owner, repo, "")
	if err != nil {
		return models.ImportedRepo{}, err
	}

	var info map[string]any
	if err := jsoniter.Unmarshal(rawInfo, &info); err != nil {
		return models.ImportedRepo{}, err
	}
	// A file path answers with an object instead of a listing.
	var entries []models.RepoEntry
	if jsoniter.Get(rawContents).ValueType() != jsoniter.ObjectValue {
		if err := jsoniter.Unmarshal(rawContents, &entries); err != nil {
			return models.ImportedRepo{}, fmt.Errorf("unexpected repository listing: %v", err)
		}
	}

	imported := models.ImportedRepo{
		Info: info,
		FileTree: lo.Filter(entries, func(item models.RepoEntry, _ int) bool {
			return !strings.HasPrefix(item.Name, ".")
		}),
		ImportedBy: user.ID,
		ImportedAt: time.Now(),
	}
	if imported.FileTree == nil {
		imported.FileTree = []models.RepoEntry{}
	}

	custom := models.CloneCustom(call.Custom)
	custom[models.CustomKeyImportedRepo] = imported
	if _, err := Directory.ReplaceCustom(ctx, reference, custom); err != nil {
		return imported, err
	}
	return imported, nil
}
