package models

import (
	"time"

	"github.com/livekit/protocol/livekit"
	"gorm.io/datatypes"
)

type CallType = string

const (
	CallTypeInstant   = CallType("instant")
	CallTypeScheduled = CallType("scheduled")
	CallTypePersonal  = CallType("personal")
)

// Call is the video platform's record of a meeting. Reference is the opaque id
// used in meeting links, Custom is the shared key/value bag every participant
// reads and replaces as a whole.
type Call struct {
	BaseModel

	Reference string            `json:"reference" gorm:"uniqueIndex;size:128"`
	Type      CallType          `json:"type"`
	CreatedBy string            `json:"created_by" gorm:"index"`
	StartsAt  time.Time         `json:"starts_at"`
	EndedAt   *time.Time        `json:"ended_at"`
	Custom    datatypes.JSONMap `json:"custom"`

	Participants []*livekit.ParticipantInfo `json:"participants,omitempty" gorm:"-"`
}

func (v Call) IsEnded() bool {
	return v.EndedAt != nil
}

func (v Call) IsPersonal() bool {
	return v.Type == CallTypePersonal
}
