package meeting

import (
	"context"
	"errors"

	"git.solsynth.dev/hypernet/meeting/pkg/internal/directory"
	"git.solsynth.dev/hypernet/meeting/pkg/internal/models"
)

var errPlatformDown = errors.New("video platform unavailable")

// countingDirectory wraps the in-memory directory, counts calls and can be
// told to fail.
type countingDirectory struct {
	*directory.Memory

	queries   int
	creates   int
	queryErr  error
	createErr error
}

func newCountingDirectory() *countingDirectory {
	return &countingDirectory{Memory: directory.NewMemory()}
}

func (m *countingDirectory) QueryCalls(ctx context.Context, query directory.Query) ([]models.Call, error) {
	m.queries++
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return m.Memory.QueryCalls(ctx, query)
}

func (m *countingDirectory) GetOrCreateCall(ctx context.Context, call models.Call) (models.Call, error) {
	m.creates++
	if m.createErr != nil {
		return models.Call{}, m.createErr
	}
	return m.Memory.GetOrCreateCall(ctx, call)
}

func (m *countingDirectory) seed(reference, code string) models.Call {
	call, _ := m.Memory.GetOrCreateCall(context.Background(), models.Call{
		Reference: reference,
		Type:      models.CallTypeInstant,
		Custom:    map[string]any{models.CustomKeyMeetingCode: code},
	})
	return call
}

type recordingNavigator struct {
	targets []string
}

func (n *recordingNavigator) Navigate(target string) {
	n.targets = append(n.targets, target)
}
