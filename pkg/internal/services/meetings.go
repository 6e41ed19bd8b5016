package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"git.solsynth.dev/hypernet/meeting/pkg/internal/directory"
	"git.solsynth.dev/hypernet/meeting/pkg/internal/meeting"
	"git.solsynth.dev/hypernet/meeting/pkg/internal/models"
	"github.com/livekit/protocol/livekit"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

var ErrPersonalRoom = errors.New("personal rooms cannot be ended for everyone")

const (
	FilterUpcoming = "upcoming"
	FilterPrevious = "previous"
)

// PersonalRoom is the permanent room of one user. Its reference is the user
// id, so the invite link never changes.
type PersonalRoom struct {
	Topic      string `json:"topic"`
	MeetingID  string `json:"meeting_id"`
	InviteLink string `json:"invite_link"`
}

func PersonalRoomOf(user models.Account) PersonalRoom {
	return PersonalRoom{
		Topic:      fmt.Sprintf("%s's Meeting Room", user.DisplayName()),
		MeetingID:  user.ID,
		InviteLink: meeting.Link(viper.GetString("frontend"), user.ID, true),
	}
}

// EnsurePersonalRoom returns the personal room call, creating it with a fresh
// meeting code the first time.
func EnsurePersonalRoom(ctx context.Context, user models.Account) (models.Call, error) {
	room := PersonalRoomOf(user)
	now := time.Now()
	envelope := meeting.NewEnvelope(models.CallTypePersonal, meeting.Form{
		Heading: room.Topic,
	}, meeting.Generate(), now)

	call, err := Directory.GetOrCreateCall(ctx, models.Call{
		Reference: room.MeetingID,
		Type:      models.CallTypePersonal,
		CreatedBy: user.ID,
		StartsAt:  now,
		Custom:    envelope.Custom(),
	})
	if err != nil {
		return call, &meeting.TransportError{Op: meeting.OperationCreate, Err: err}
	}
	return call, nil
}

// ListMeetings lists calls created by user. Upcoming calls have not ended and
// start after now, previous calls have ended or started before now.
func ListMeetings(ctx context.Context, user models.Account, filter string, now time.Time) ([]models.Call, error) {
	calls, err := Directory.QueryCalls(ctx, directory.Query{CreatedBy: user.ID})
	if err != nil {
		return nil, err
	}

	switch filter {
	case FilterUpcoming:
		calls = lo.Filter(calls, func(item models.Call, _ int) bool {
			return !item.IsEnded() && item.StartsAt.After(now)
		})
	case FilterPrevious:
		calls = lo.Filter(calls, func(item models.Call, _ int) bool {
			return item.IsEnded() || item.StartsAt.Before(now)
		})
	case "":
	default:
		return nil, fmt.Errorf("unknown meeting filter %q", filter)
	}
	return calls, nil
}

// EndMeeting ends a call for everyone. Only the creator may, and personal
// rooms are never ended.
func EndMeeting(ctx context.Context, reference string, user models.Account) (models.Call, error) {
	call, err := Directory.GetCall(ctx, reference)
	if err != nil {
		return call, err
	} else if call.CreatedBy != user.ID {
		return call, ErrNotHost
	} else if call.IsPersonal() {
		return call, ErrPersonalRoom
	}
	return Directory.EndCall(ctx, reference)
}

// CallParticipants lists who is in the call right now. Only the LiveKit
// directory knows about participants.
func CallParticipants(ctx context.Context, reference string) ([]*livekit.ParticipantInfo, error) {
	lk, ok := Directory.(*directory.LiveKit)
	if !ok {
		return nil, nil
	}
	return lk.ListParticipants(ctx, reference)
}
