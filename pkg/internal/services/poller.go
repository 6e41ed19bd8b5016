package services

import (
	"bytes"
	"context"
	"time"

	"git.solsynth.dev/hypernet/meeting/pkg/internal/models"
	jsoniter "github.com/json-iterator/go"
)

// WatchCustom polls a call at a fixed interval and hands every changed
// snapshot to emit, the first snapshot included. It returns when ctx is done,
// the call cannot be read or emit fails.
func WatchCustom(ctx context.Context, reference string, interval time.Duration, emit func(call models.Call) error) error {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last []byte
	for {
		call, err := Directory.GetCall(ctx, reference)
		if err != nil {
			return err
		}

		snapshot, _ := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(struct {
			Custom  map[string]any `json:"custom"`
			EndedAt *time.Time     `json:"ended_at"`
		}{call.Custom, call.EndedAt})
		if !bytes.Equal(snapshot, last) {
			last = snapshot
			if err := emit(call); err != nil {
				return err
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
