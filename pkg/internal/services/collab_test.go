package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"git.solsynth.dev/hypernet/meeting/pkg/internal/directory"
	"git.solsynth.dev/hypernet/meeting/pkg/internal/models"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCall(t *testing.T, memory *directory.Memory, reference string) models.Call {
	t.Helper()
	call, err := memory.GetOrCreateCall(context.Background(), models.Call{
		Reference: reference,
		Type:      models.CallTypeInstant,
		CreatedBy: host.ID,
		Custom: map[string]any{
			models.CustomKeyHeading:     "Standup",
			models.CustomKeyMeetingCode: "ABCD1234",
		},
	})
	require.NoError(t, err)
	return call
}

func TestAppendChatMessage_KeepsEnvelopeAndCaps(t *testing.T) {
	memory := useMemoryDirectory(t)
	viper.Set("collab.chat_history_limit", 3)
	seedCall(t, memory, "call-1")
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := AppendChatMessage(ctx, "call-1", guest, fmt.Sprintf(" hello %d ", i))
		require.NoError(t, err)
	}

	call, err := memory.GetCall(ctx, "call-1")
	require.NoError(t, err)
	assert.Equal(t, "Standup", call.Custom[models.CustomKeyHeading])

	messages := ChatMessagesOf(call)
	require.Len(t, messages, 3)
	assert.Equal(t, "hello 2", messages[0].Text)
	assert.Equal(t, "hello 4", messages[2].Text)
	assert.Equal(t, guest.ID, messages[2].UserID)
	assert.Equal(t, "Grace Hopper", messages[2].UserName)
	assert.NotEmpty(t, messages[2].ID)
}

func TestClearChatMessages(t *testing.T) {
	memory := useMemoryDirectory(t)
	seedCall(t, memory, "call-1")
	ctx := context.Background()

	_, err := AppendChatMessage(ctx, "call-1", guest, "hello")
	require.NoError(t, err)
	require.NoError(t, ClearChatMessages(ctx, "call-1"))

	call, err := memory.GetCall(ctx, "call-1")
	require.NoError(t, err)
	assert.Empty(t, ChatMessagesOf(call))
	assert.Contains(t, call.Custom, models.CustomKeyChatMessages)

	assert.ErrorIs(t, ClearChatMessages(ctx, "missing"), directory.ErrCallNotFound)
}

func TestSaveWhiteboard_HostOnly(t *testing.T) {
	memory := useMemoryDirectory(t)
	seedCall(t, memory, "call-1")
	ctx := context.Background()

	_, err := SaveWhiteboard(ctx, "call-1", guest, `{"elements":[]}`)
	assert.ErrorIs(t, err, ErrNotHost)

	call, err := SaveWhiteboard(ctx, "call-1", host, `{"elements":[1]}`)
	require.NoError(t, err)
	assert.Equal(t, `{"elements":[1]}`, call.Custom[models.CustomKeyWhiteboardData])
	assert.Equal(t, "ABCD1234", call.Custom[models.CustomKeyMeetingCode])
}

func TestImportRepository(t *testing.T) {
	memory := useMemoryDirectory(t)
	newGithubUpstream(t)
	seedCall(t, memory, "call-1")
	ctx := context.Background()

	_, err := ImportRepository(ctx, "call-1", guest, "octo", "hello")
	assert.ErrorIs(t, err, ErrNotHost)

	imported, err := ImportRepository(ctx, "call-1", host, "octo", "hello")
	require.NoError(t, err)
	assert.Equal(t, "octo/hello", imported.Info["full_name"])
	require.Len(t, imported.FileTree, 2)
	assert.Equal(t, "README.md", imported.FileTree[0].Name)
	assert.Equal(t, "https://raw/readme", *imported.FileTree[0].DownloadURL)
	assert.Nil(t, imported.FileTree[1].DownloadURL)
	assert.Equal(t, host.ID, imported.ImportedBy)

	call, err := memory.GetCall(ctx, "call-1")
	require.NoError(t, err)
	var stored models.ImportedRepo
	require.NoError(t, models.FitStruct(call.Custom[models.CustomKeyImportedRepo], &stored))
	assert.Len(t, stored.FileTree, 2)

	_, err = ImportRepository(ctx, "call-1", host, "octo", "missing")
	var upstream *UpstreamError
	assert.ErrorAs(t, err, &upstream)
}

func TestImportRepository_ContentsShapes(t *testing.T) {
	memory := useMemoryDirectory(t)
	seedCall(t, memory, "call-1")

	contents := map[string]string{
		"single":  `{"name":"README.md","type":"file","path":"README.md"}`,
		"garbled": `"rate limited"`,
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		for repo, body := range contents {
			switch r.URL.Path {
			case "/repos/octo/" + repo:
				_, _ = w.Write([]byte(`{"full_name":"octo/` + repo + `"}`))
				return
			case "/repos/octo/" + repo + "/contents":
				_, _ = w.Write([]byte(body))
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)
	viper.Set("github.api_base", server.URL)

	imported, err := ImportRepository(context.Background(), "call-1", host, "octo", "single")
	require.NoError(t, err)
	assert.Empty(t, imported.FileTree)
	assert.NotNil(t, imported.FileTree)

	_, err = ImportRepository(context.Background(), "call-1", host, "octo", "garbled")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected repository listing")
}
