package directory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"git.solsynth.dev/hypernet/meeting/pkg/internal/models"
	jsoniter "github.com/json-iterator/go"
	"github.com/livekit/protocol/livekit"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LiveKit stores calls as LiveKit rooms. LiveKit cannot search rooms by their
// metadata and forgets rooms once they close, so every call is also indexed in
// the database, and the custom bag is mirrored into the room metadata.
type LiveKit struct {
	db    *gorm.DB
	rooms RoomService
}

// RoomService is the part of the LiveKit room API the directory uses.
// *lksdk.RoomServiceClient satisfies it.
type RoomService interface {
	CreateRoom(ctx context.Context, req *livekit.CreateRoomRequest) (*livekit.Room, error)
	ListRooms(ctx context.Context, req *livekit.ListRoomsRequest) (*livekit.ListRoomsResponse, error)
	DeleteRoom(ctx context.Context, req *livekit.DeleteRoomRequest) (*livekit.DeleteRoomResponse, error)
	ListParticipants(ctx context.Context, req *livekit.ListParticipantsRequest) (*livekit.ListParticipantsResponse, error)
	UpdateRoomMetadata(ctx context.Context, req *livekit.UpdateRoomMetadataRequest) (*livekit.Room, error)
}

func NewLiveKit(db *gorm.DB, rooms RoomService) *LiveKit {
	return &LiveKit{db: db, rooms: rooms}
}

func (v *LiveKit) GetOrCreateCall(ctx context.Context, call models.Call) (models.Call, error) {
	if existing, err := v.GetCall(ctx, call.Reference); err == nil {
		return existing, nil
	} else if !errors.Is(err, ErrCallNotFound) {
		return call, err
	}

	// Scheduled calls get their room when the first participant joins, an idle
	// room would be closed by the empty timeout long before the meeting starts.
	if !call.StartsAt.After(time.Now()) {
		if err := v.openRoom(ctx, call); err != nil {
			return call, err
		}
	}

	if err := v.db.WithContext(ctx).Create(&call).Error; err != nil {
		return call, err
	}

	return call, nil
}

func (v *LiveKit) openRoom(ctx context.Context, call models.Call) error {
	metadata, _ := jsoniter.MarshalToString(call.Custom)
	_, err := v.rooms.CreateRoom(ctx, &livekit.CreateRoomRequest{
		Name:            call.Reference,
		EmptyTimeout:    viper.GetUint32("calling.empty_timeout_duration"),
		MaxParticipants: viper.GetUint32("calling.max_participants"),
		Metadata:        metadata,
	})
	if err != nil {
		return fmt.Errorf("remote livekit error: %v", err)
	}
	return nil
}

func (v *LiveKit) GetCall(ctx context.Context, reference string) (models.Call, error) {
	var call models.Call
	if err := v.db.WithContext(ctx).
		Where(models.Call{Reference: reference}).
		First(&call).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return call, ErrCallNotFound
		}
		return call, err
	}
	return call, nil
}

func (v *LiveKit) QueryCalls(ctx context.Context, query Query) ([]models.Call, error) {
	tx := v.db.WithContext(ctx).Model(&models.Call{})
	if len(query.MeetingCode) > 0 {
		tx = tx.Where(datatypes.JSONQuery("custom").Equals(query.MeetingCode, models.CustomKeyMeetingCode))
	}
	if len(query.CreatedBy) > 0 {
		tx = tx.Where("created_by = ?", query.CreatedBy)
	}
	if query.OnlyOngoing {
		tx = tx.Where("ended_at IS NULL")
	}
	if query.StartsBefore != nil {
		tx = tx.Where("starts_at < ?", *query.StartsBefore)
	}
	if len(query.ExcludeTypes) > 0 {
		tx = tx.Where("type NOT IN ?", query.ExcludeTypes)
	}
	if query.Limit > 0 {
		tx = tx.Limit(query.Limit)
	}

	var calls []models.Call
	if err := tx.Order("created_at DESC").Find(&calls).Error; err != nil {
		return calls, err
	}
	return calls, nil
}

func (v *LiveKit) ReplaceCustom(ctx context.Context, reference string, custom map[string]any) (models.Call, error) {
	call, err := v.GetCall(ctx, reference)
	if err != nil {
		return call, err
	}

	call.Custom = custom
	if err := v.db.WithContext(ctx).Save(&call).Error; err != nil {
		return call, err
	}

	metadata, _ := jsoniter.MarshalToString(custom)
	if _, err := v.rooms.UpdateRoomMetadata(ctx, &livekit.UpdateRoomMetadataRequest{
		Room:     call.Reference,
		Metadata: metadata,
	}); err != nil {
		log.Warn().Err(err).Str("call", call.Reference).Msg("Unable to mirror custom data into livekit room metadata...")
	}

	return call, nil
}

func (v *LiveKit) EndCall(ctx context.Context, reference string) (models.Call, error) {
	call, err := v.GetCall(ctx, reference)
	if err != nil || call.IsEnded() {
		return call, err
	}

	call.EndedAt = lo.ToPtr(time.Now())
	if err := v.db.WithContext(ctx).Save(&call).Error; err != nil {
		return call, err
	}

	if _, err := v.rooms.DeleteRoom(ctx, &livekit.DeleteRoomRequest{
		Room: call.Reference,
	}); err != nil {
		log.Error().Err(err).Msg("Unable to delete room at livekit side")
	}

	return call, nil
}

func (v *LiveKit) ListParticipants(ctx context.Context, reference string) ([]*livekit.ParticipantInfo, error) {
	res, err := v.rooms.ListParticipants(ctx, &livekit.ListParticipantsRequest{
		Room: reference,
	})
	if err != nil {
		return nil, err
	}
	return res.Participants, nil
}

// EndStaleCalls ends every indexed call that started before deadline and has no
// live room anymore. Personal rooms are permanent and never end here. It
// returns how many calls were ended.
func (v *LiveKit) EndStaleCalls(ctx context.Context, deadline time.Time) (int, error) {
	calls, err := v.QueryCalls(ctx, Query{
		OnlyOngoing:  true,
		StartsBefore: &deadline,
		ExcludeTypes: []models.CallType{models.CallTypePersonal},
	})
	if err != nil || len(calls) == 0 {
		return 0, err
	}

	res, err := v.rooms.ListRooms(ctx, &livekit.ListRoomsRequest{
		Names: lo.Map(calls, func(item models.Call, _ int) string {
			return item.Reference
		}),
	})
	if err != nil {
		return 0, err
	}
	live := lo.SliceToMap(res.Rooms, func(item *livekit.Room) (string, bool) {
		return item.Name, true
	})

	var count int
	for _, call := range calls {
		if live[call.Reference] {
			continue
		}
		call.EndedAt = lo.ToPtr(time.Now())
		if err := v.db.WithContext(ctx).Save(&call).Error; err != nil {
			log.Error().Err(err).Str("call", call.Reference).Msg("An error occurred when ending stale call...")
			continue
		}
		count++
	}

	return count, nil
}

// ArchiveEndedCalls soft-deletes indexed calls that ended before deadline.
func (v *LiveKit) ArchiveEndedCalls(ctx context.Context, deadline time.Time) (int64, error) {
	tx := v.db.WithContext(ctx).Where("ended_at < ?", deadline).Delete(&models.Call{})
	return tx.RowsAffected, tx.Error
}
