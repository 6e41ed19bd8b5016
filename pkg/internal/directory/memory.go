package directory

import (
	"context"
	"sort"
	"sync"
	"time"

	"git.solsynth.dev/hypernet/meeting/pkg/internal/models"
	"github.com/samber/lo"
)

// Memory keeps calls in process. It backs development runs without a LiveKit
// deployment and the tests of everything built on Directory.
type Memory struct {
	lock  sync.RWMutex
	calls map[string]models.Call
	seq   uint

	Now func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		calls: make(map[string]models.Call),
		Now:   time.Now,
	}
}

func snapshot(call models.Call) models.Call {
	call.Custom = models.CloneCustom(call.Custom)
	return call
}

func (v *Memory) GetOrCreateCall(_ context.Context, call models.Call) (models.Call, error) {
	v.lock.Lock()
	defer v.lock.Unlock()

	if existing, ok := v.calls[call.Reference]; ok {
		return snapshot(existing), nil
	}

	v.seq++
	now := v.Now()
	call.ID = v.seq
	call.CreatedAt = now
	call.UpdatedAt = now
	call = snapshot(call)
	v.calls[call.Reference] = call

	return snapshot(call), nil
}

func (v *Memory) GetCall(_ context.Context, reference string) (models.Call, error) {
	v.lock.RLock()
	defer v.lock.RUnlock()

	if call, ok := v.calls[reference]; ok {
		return snapshot(call), nil
	}
	return models.Call{}, ErrCallNotFound
}

func (v *Memory) QueryCalls(_ context.Context, query Query) ([]models.Call, error) {
	v.lock.RLock()
	defer v.lock.RUnlock()

	calls := lo.Filter(lo.Values(v.calls), func(item models.Call, _ int) bool {
		if len(query.MeetingCode) > 0 {
			if code, _ := item.Custom[models.CustomKeyMeetingCode].(string); code != query.MeetingCode {
				return false
			}
		}
		if len(query.CreatedBy) > 0 && item.CreatedBy != query.CreatedBy {
			return false
		}
		if query.OnlyOngoing && item.IsEnded() {
			return false
		}
		if query.StartsBefore != nil && !item.StartsAt.Before(*query.StartsBefore) {
			return false
		}
		if lo.Contains(query.ExcludeTypes, item.Type) {
			return false
		}
		return true
	})

	sort.Slice(calls, func(i, j int) bool {
		return calls[i].ID > calls[j].ID
	})
	if query.Limit > 0 && len(calls) > query.Limit {
		calls = calls[:query.Limit]
	}

	return lo.Map(calls, func(item models.Call, _ int) models.Call {
		return snapshot(item)
	}), nil
}

func (v *Memory) ReplaceCustom(_ context.Context, reference string, custom map[string]any) (models.Call, error) {
	v.lock.Lock()
	defer v.lock.Unlock()

	call, ok := v.calls[reference]
	if !ok {
		return models.Call{}, ErrCallNotFound
	}
	call.Custom = models.CloneCustom(custom)
	call.UpdatedAt = v.Now()
	v.calls[call.Reference] = call

	return snapshot(call), nil
}

func (v *Memory) EndCall(_ context.Context, reference string) (models.Call, error) {
	v.lock.Lock()
	defer v.lock.Unlock()

	call, ok := v.calls[reference]
	if !ok {
		return models.Call{}, ErrCallNotFound
	}
	if call.EndedAt == nil {
		call.EndedAt = lo.ToPtr(v.Now())
		call.UpdatedAt = *call.EndedAt
		v.calls[call.Reference] = call
	}

	return snapshot(call), nil
}
