package models

import "time"

// Keys of the call custom bag. The envelope keys are written once at creation,
// the collaboration keys are replaced by participants while the call runs.
const (
	CustomKeyHeading        = "heading"
	CustomKeySubheading     = "subheading"
	CustomKeyDescription    = "description"
	CustomKeyMeetingCode    = "meetingCode"
	CustomKeyChatMessages   = "chatMessages"
	CustomKeyWhiteboardData = "whiteboardData"
	CustomKeyImportedRepo   = "importedRepo"
)

type MeetingEnvelope struct {
	Heading     string    `json:"heading"`
	Subheading  string    `json:"subheading"`
	Description string    `json:"description"`
	MeetingCode string    `json:"meetingCode"`
	StartsAt    time.Time `json:"startsAt"`
}

// Custom returns the envelope fields stored in the call custom bag. Every key
// is always present, blank optional fields are stored as empty strings.
func (v MeetingEnvelope) Custom() map[string]any {
	return map[string]any{
		CustomKeyHeading:     v.Heading,
		CustomKeySubheading:  v.Subheading,
		CustomKeyDescription: v.Description,
		CustomKeyMeetingCode: v.MeetingCode,
	}
}

func EnvelopeOf(call Call) MeetingEnvelope {
	str := func(key string) string {
		val, _ := call.Custom[key].(string)
		return val
	}

	return MeetingEnvelope{
		Heading:     str(CustomKeyHeading),
		Subheading:  str(CustomKeySubheading),
		Description: str(CustomKeyDescription),
		MeetingCode: str(CustomKeyMeetingCode),
		StartsAt:    call.StartsAt,
	}
}
