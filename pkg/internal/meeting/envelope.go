package meeting

import (
	"time"

	"git.solsynth.dev/hypernet/meeting/pkg/internal/models"
)

// Form is what the user typed when creating a meeting.
type Form struct {
	Heading     string
	Subheading  string
	Description string
	StartsAt    time.Time
}

func DefaultHeading(kind models.CallType) string {
	switch kind {
	case models.CallTypeScheduled:
		return "Scheduled Meeting"
	case models.CallTypePersonal:
		return "Personal Meeting Room"
	default:
		return "Instant Meeting"
	}
}

// NewEnvelope applies the fallback rule: a blank heading or description takes
// the type-derived default, a blank subheading stays empty.
func NewEnvelope(kind models.CallType, form Form, code Code, startsAt time.Time) models.MeetingEnvelope {
	envelope := models.MeetingEnvelope{
		Heading:     form.Heading,
		Subheading:  form.Subheading,
		Description: form.Description,
		MeetingCode: code.String(),
		StartsAt:    startsAt,
	}
	if len(envelope.Heading) == 0 {
		envelope.Heading = DefaultHeading(kind)
	}
	if len(envelope.Description) == 0 {
		envelope.Description = DefaultHeading(kind)
	}
	return envelope
}
