package api

import (
	"errors"
	"time"

	"git.solsynth.dev/hypernet/meeting/pkg/internal/directory"
	"git.solsynth.dev/hypernet/meeting/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/meeting/pkg/internal/meeting"
	"git.solsynth.dev/hypernet/meeting/pkg/internal/models"
	"git.solsynth.dev/hypernet/meeting/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

type outcomeResponse struct {
	State         string                 `json:"state"`
	Call          models.Call            `json:"call"`
	Envelope      models.MeetingEnvelope `json:"envelope"`
	Code          string                 `json:"code,omitempty"`
	FormattedCode string                 `json:"formatted_code,omitempty"`
	Link          string                 `json:"link"`
	Target        string                 `json:"target"`
	Transitions   []string               `json:"transitions"`
}

func newController(c *fiber.Ctx) *meeting.Controller {
	return meeting.NewController(
		services.Directory,
		nil,
		viper.GetString("frontend"),
		exts.CurrentUser(c).ID,
	)
}

func renderOutcome(c *fiber.Ctx, ctrl *meeting.Controller, outcome *meeting.Outcome) error {
	return c.JSON(outcomeResponse{
		State:         ctrl.State().String(),
		Call:          outcome.Call,
		Envelope:      outcome.Envelope,
		Code:          outcome.Code.String(),
		FormattedCode: outcome.FormattedCode,
		Link:          outcome.Link,
		Target:        outcome.Target,
		Transitions: lo.Map(ctrl.Transitions(), func(item meeting.State, _ int) string {
			return item.String()
		}),
	})
}

func meetingStatus(err error) int {
	switch {
	case meeting.IsValidation(err):
		return fiber.StatusBadRequest
	case errors.Is(err, meeting.ErrNotFound), errors.Is(err, directory.ErrCallNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, meeting.ErrEnded):
		return fiber.StatusGone
	case meeting.IsTransport(err):
		return fiber.StatusBadGateway
	case errors.Is(err, services.ErrNotHost):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrPersonalRoom):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// meetingFailure answers with the user-facing notice of a workflow error.
func meetingFailure(c *fiber.Ctx, err error, state ...meeting.State) error {
	notice := meeting.Describe(err)
	body := fiber.Map{
		"error":       notice.Title,
		"description": notice.Description,
	}
	if len(state) > 0 {
		body["state"] = state[0].String()
	}
	return c.Status(meetingStatus(err)).JSON(body)
}

func createMeeting(c *fiber.Ctx) error {
	var data struct {
		Type        string     `json:"type" validate:"required,oneof=instant scheduled"`
		Heading     string     `json:"heading" validate:"max=256"`
		Subheading  string     `json:"subheading" validate:"max=256"`
		Description string     `json:"description" validate:"max=4096"`
		StartsAt    *time.Time `json:"starts_at"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	action, err := meeting.ParseAction(data.Type)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	ctrl := newController(c)
	if err := ctrl.Choose(action); err != nil {
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}
	outcome, err := ctrl.Create(c.UserContext(), meeting.Form{
		Heading:     data.Heading,
		Subheading:  data.Subheading,
		Description: data.Description,
		StartsAt:    lo.FromPtr(data.StartsAt),
	})
	if err != nil {
		if meeting.IsTransport(err) {
			log.Error().Err(err).Msg("An error occurred when creating meeting...")
		}
		return meetingFailure(c, err, ctrl.State())
	}

	services.M.MeetingsCreated.WithLabelValues(outcome.Call.Type).Inc()
	return renderOutcome(c, ctrl, outcome)
}

func joinMeeting(c *fiber.Ctx) error {
	var data struct {
		Code string `json:"code"`
		Link string `json:"link"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	intent := meeting.JoinIntent{Code: data.Code, Link: data.Link}
	action := meeting.ActionJoinByLink
	if len(intent.Code) > 0 {
		action = meeting.ActionJoinByCode
	}

	ctrl := newController(c)
	if err := ctrl.Choose(action); err != nil {
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}
	outcome, err := ctrl.Join(c.UserContext(), intent)
	if action == meeting.ActionJoinByCode {
		services.M.CodeResolutions.WithLabelValues(services.ResolutionOutcome(err)).Inc()
	}
	if err != nil {
		return meetingFailure(c, err, ctrl.State())
	}

	return renderOutcome(c, ctrl, outcome)
}

func resolveMeetingCode(c *fiber.Ctx) error {
	code, err := meeting.Normalize(c.Params("code"))
	if err != nil {
		services.M.CodeResolutions.WithLabelValues(services.ResolutionOutcome(err)).Inc()
		return meetingFailure(c, err)
	}

	call, err := meeting.NewResolver(services.Directory).ResolveByCode(c.UserContext(), code)
	services.M.CodeResolutions.WithLabelValues(services.ResolutionOutcome(err)).Inc()
	if err != nil {
		return meetingFailure(c, err)
	}

	return c.JSON(fiber.Map{
		"call":           call,
		"envelope":       models.EnvelopeOf(call),
		"formatted_code": code.Format(),
		"link":           meeting.Link(viper.GetString("frontend"), call.Reference, call.IsPersonal()),
	})
}

func listMeetings(c *fiber.Ctx) error {
	calls, err := services.ListMeetings(c.UserContext(), exts.CurrentUser(c), c.Query("filter"), time.Now())
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(calls)
}

func getPersonalRoom(c *fiber.Ctx) error {
	return c.JSON(services.PersonalRoomOf(exts.CurrentUser(c)))
}

func startPersonalRoom(c *fiber.Ctx) error {
	user := exts.CurrentUser(c)

	call, err := services.EnsurePersonalRoom(c.UserContext(), user)
	if err != nil {
		log.Error().Err(err).Str("user", user.ID).Msg("An error occurred when starting personal room...")
		return meetingFailure(c, err)
	}

	return c.JSON(fiber.Map{
		"call":     call,
		"envelope": models.EnvelopeOf(call),
		"link":     services.PersonalRoomOf(user).InviteLink,
		"target":   meeting.Path(call.Reference),
	})
}

func getMeeting(c *fiber.Ctx) error {
	call, err := services.Directory.GetCall(c.UserContext(), c.Params("id"))
	if err != nil {
		return fiber.NewError(meetingStatus(err), err.Error())
	}

	if participants, err := services.CallParticipants(c.UserContext(), call.Reference); err != nil {
		log.Warn().Err(err).Str("call", call.Reference).Msg("Unable to list call participants...")
	} else {
		call.Participants = participants
	}

	return c.JSON(fiber.Map{
		"call":     call,
		"envelope": models.EnvelopeOf(call),
		"link":     meeting.Link(viper.GetString("frontend"), call.Reference, call.IsPersonal()),
	})
}

func endMeeting(c *fiber.Ctx) error {
	call, err := services.EndMeeting(c.UserContext(), c.Params("id"), exts.CurrentUser(c))
	if err != nil {
		return fiber.NewError(meetingStatus(err), err.Error())
	}
	return c.JSON(call)
}
