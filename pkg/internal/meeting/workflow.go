package meeting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"git.solsynth.dev/hypernet/meeting/pkg/internal/directory"
	"git.solsynth.dev/hypernet/meeting/pkg/internal/models"
	"github.com/google/uuid"
)

type State int

const (
	StateIdle State = iota
	StateActionChosen
	StateValidating
	StateCreating
	StateResolving
	StateReady
	StateNavigated
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActionChosen:
		return "action_chosen"
	case StateValidating:
		return "validating"
	case StateCreating:
		return "creating"
	case StateResolving:
		return "resolving"
	case StateReady:
		return "ready"
	case StateNavigated:
		return "navigated"
	case StateErrored:
		return "errored"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type Action int

const (
	ActionNone Action = iota
	ActionInstant
	ActionScheduled
	ActionJoinByCode
	ActionJoinByLink
)

func ParseAction(raw string) (Action, error) {
	switch raw {
	case "instant":
		return ActionInstant, nil
	case "scheduled":
		return ActionScheduled, nil
	case "code":
		return ActionJoinByCode, nil
	case "link":
		return ActionJoinByLink, nil
	default:
		return ActionNone, fmt.Errorf("unknown meeting action %q", raw)
	}
}

var ErrUnexpectedState = errors.New("action is not allowed in the current state")

// JoinIntent holds what the user entered to join. A non-empty code always wins
// over the link.
type JoinIntent struct {
	Code string
	Link string
}

// Outcome is what a finished create or join exposes to the user.
type Outcome struct {
	Call          models.Call
	Envelope      models.MeetingEnvelope
	Code          Code
	FormattedCode string
	Link          string
	Target        string
}

type Navigator interface {
	Navigate(target string)
}

type NavigatorFunc func(target string)

func (f NavigatorFunc) Navigate(target string) {
	f(target)
}

// Controller drives one user from choosing an action to being inside a call.
// It is not safe for concurrent use, every step completes before the next one
// starts and navigation only happens after the directory answered.
type Controller struct {
	calls    directory.Directory
	resolver *Resolver
	nav      Navigator
	baseURL  string
	user     string

	now          func() time.Time
	newReference func() string
	generate     func() Code

	state       State
	action      Action
	outcome     *Outcome
	err         error
	transitions []State
}

type Option func(*Controller)

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func WithReferenceSource(next func() string) Option {
	return func(c *Controller) { c.newReference = next }
}

func WithCodeSource(next func() Code) Option {
	return func(c *Controller) { c.generate = next }
}

func NewController(calls directory.Directory, nav Navigator, baseURL, user string, opts ...Option) *Controller {
	c := &Controller{
		calls:        calls,
		resolver:     NewResolver(calls),
		nav:          nav,
		baseURL:      baseURL,
		user:         user,
		now:          time.Now,
		newReference: uuid.NewString,
		generate:     Generate,
		state:        StateIdle,
		transitions:  []State{StateIdle},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) State() State         { return c.state }
func (c *Controller) Action() Action       { return c.action }
func (c *Controller) Err() error           { return c.err }
func (c *Controller) Outcome() *Outcome    { return c.outcome }
func (c *Controller) Transitions() []State { return append([]State(nil), c.transitions...) }

func (c *Controller) moveTo(state State) {
	c.state = state
	c.transitions = append(c.transitions, state)
}

func (c *Controller) fail(err error) error {
	c.err = err
	c.moveTo(StateErrored)
	return err
}

// Choose picks what the user wants to do. Switching between actions is allowed
// until a submission starts.
func (c *Controller) Choose(action Action) error {
	if c.state != StateIdle && c.state != StateActionChosen {
		return fmt.Errorf("%w: choose while %s", ErrUnexpectedState, c.state)
	}
	if action == ActionNone {
		return fmt.Errorf("%w: no action", ErrUnexpectedState)
	}
	c.action = action
	c.err = nil
	c.moveTo(StateActionChosen)
	return nil
}

// Create runs the instant or scheduled flow. Instant meetings navigate right
// away, scheduled meetings stay Ready with their code and link until dismissed.
func (c *Controller) Create(ctx context.Context, form Form) (*Outcome, error) {
	if c.state != StateActionChosen || (c.action != ActionInstant && c.action != ActionScheduled) {
		return nil, fmt.Errorf("%w: create while %s", ErrUnexpectedState, c.state)
	}

	c.moveTo(StateValidating)
	kind := models.CallTypeInstant
	startsAt := c.now()
	if c.action == ActionScheduled {
		kind = models.CallTypeScheduled
		if form.StartsAt.IsZero() {
			return nil, c.fail(ErrMissingDateTime)
		}
		startsAt = form.StartsAt
	}

	code := c.generate()
	envelope := NewEnvelope(kind, form, code, startsAt)

	c.moveTo(StateCreating)
	call, err := c.calls.GetOrCreateCall(ctx, models.Call{
		Reference: c.newReference(),
		Type:      kind,
		CreatedBy: c.user,
		StartsAt:  startsAt,
		Custom:    envelope.Custom(),
	})
	if err != nil {
		return nil, c.fail(&TransportError{Op: OperationCreate, Err: err})
	}

	c.outcome = &Outcome{
		Call:          call,
		Envelope:      models.EnvelopeOf(call),
		Code:          code,
		FormattedCode: code.Format(),
		Link:          Link(c.baseURL, call.Reference, false),
		Target:        Path(call.Reference),
	}

	if kind == models.CallTypeInstant {
		c.navigate(c.outcome.Target)
	} else {
		c.moveTo(StateReady)
	}
	return c.outcome, nil
}

// Join resolves a JoinIntent. A code is normalized and looked up; not found and
// ended go back to ActionChosen with the error kept for display. A link is
// followed as is without checking the call behind it.
func (c *Controller) Join(ctx context.Context, intent JoinIntent) (*Outcome, error) {
	if c.state != StateActionChosen || (c.action != ActionJoinByCode && c.action != ActionJoinByLink) {
		return nil, fmt.Errorf("%w: join while %s", ErrUnexpectedState, c.state)
	}

	c.moveTo(StateValidating)
	rawCode := strings.TrimSpace(intent.Code)
	rawLink := strings.TrimSpace(intent.Link)

	switch {
	case len(rawCode) > 0:
		code, err := Normalize(rawCode)
		if err != nil {
			return nil, c.fail(err)
		}

		c.moveTo(StateResolving)
		call, err := c.resolver.ResolveByCode(ctx, code)
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrEnded) {
			c.err = err
			c.moveTo(StateActionChosen)
			return nil, err
		} else if err != nil {
			return nil, c.fail(err)
		}

		c.moveTo(StateReady)
		c.outcome = &Outcome{
			Call:          call,
			Envelope:      models.EnvelopeOf(call),
			Code:          code,
			FormattedCode: code.Format(),
			Link:          Link(c.baseURL, call.Reference, call.IsPersonal()),
			Target:        Path(call.Reference),
		}
	case len(rawLink) > 0:
		c.moveTo(StateReady)
		c.outcome = &Outcome{Link: rawLink, Target: rawLink}
		if reference, _, ok := ParseLink(rawLink); ok {
			c.outcome.Call = models.Call{Reference: reference}
		}
	default:
		return nil, c.fail(ErrEmptyIntent)
	}

	c.navigate(c.outcome.Target)
	return c.outcome, nil
}

func (c *Controller) navigate(target string) {
	c.err = nil
	c.moveTo(StateNavigated)
	if c.nav != nil {
		c.nav.Navigate(target)
	}
}

// Dismiss closes whatever the user is looking at: an error goes back to the
// chosen action, a Ready scheduled meeting or an open form goes back to Idle.
func (c *Controller) Dismiss() {
	switch c.state {
	case StateErrored:
		c.err = nil
		c.moveTo(StateActionChosen)
	case StateReady, StateActionChosen:
		c.err = nil
		c.outcome = nil
		c.action = ActionNone
		c.moveTo(StateIdle)
	}
}
