package directory

import (
	"context"
	"errors"
	"time"

	"git.solsynth.dev/hypernet/meeting/pkg/internal/models"
)

var ErrCallNotFound = errors.New("call not found")

// Query filters the call search. Zero fields do not filter. Results are ordered
// newest first.
type Query struct {
	MeetingCode  string
	CreatedBy    string
	OnlyOngoing  bool
	StartsBefore *time.Time
	ExcludeTypes []models.CallType
	Limit        int
}

// Directory is the call store of the external video platform. Reads are
// point-in-time snapshots and custom data is always replaced as a whole, so
// concurrent writers race with last-write-wins semantics.
type Directory interface {
	GetOrCreateCall(ctx context.Context, call models.Call) (models.Call, error)
	GetCall(ctx context.Context, reference string) (models.Call, error)
	QueryCalls(ctx context.Context, query Query) ([]models.Call, error)
	ReplaceCustom(ctx context.Context, reference string, custom map[string]any) (models.Call, error)
	EndCall(ctx context.Context, reference string) (models.Call, error)
}
