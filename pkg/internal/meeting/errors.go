package meeting

import (
	"errors"
)

var (
	ErrInvalidLength   = errors.New("meeting code must be 8 characters")
	ErrMissingDateTime = errors.New("please select a date and time")
	ErrEmptyIntent     = errors.New("please enter a meeting code or link")
	ErrNotFound        = errors.New("no meeting found with this code")
	ErrEnded           = errors.New("this meeting has already ended")
)

type Operation string

const (
	OperationCreate = Operation("create")
	OperationJoin   = Operation("join")
)

// TransportError is a failure of the video platform or the network. The
// upstream message is kept for display, nothing retries it.
type TransportError struct {
	Op  Operation
	Err error
}

func (v *TransportError) Error() string {
	if v.Err == nil {
		return "an error occurred"
	}
	return v.Err.Error()
}

func (v *TransportError) Unwrap() error {
	return v.Err
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidLength) ||
		errors.Is(err, ErrMissingDateTime) ||
		errors.Is(err, ErrEmptyIntent)
}

func IsTransport(err error) bool {
	var target *TransportError
	return errors.As(err, &target)
}

// Notice is the user-facing rendering of a workflow failure.
type Notice struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

func Describe(err error) Notice {
	var transport *TransportError
	switch {
	case err == nil:
		return Notice{}
	case errors.Is(err, ErrInvalidLength):
		return Notice{Title: "Invalid meeting code", Description: "Meeting code must be 8 characters"}
	case errors.Is(err, ErrMissingDateTime):
		return Notice{Title: "Please select a date and time"}
	case errors.Is(err, ErrEmptyIntent):
		return Notice{Title: "Please enter a meeting code or link"}
	case errors.Is(err, ErrNotFound):
		return Notice{Title: "Meeting not found", Description: "No meeting found with this code"}
	case errors.Is(err, ErrEnded):
		return Notice{Title: "Meeting has ended", Description: "This meeting has already ended"}
	case errors.As(err, &transport):
		title := "Failed to join meeting"
		if transport.Op == OperationCreate {
			title = "Failed to create Meeting"
		}
		return Notice{Title: title, Description: transport.Error()}
	default:
		return Notice{Title: "Something went wrong", Description: err.Error()}
	}
}
