package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/vncsmyrnk/livepoll/internal/core/domain"
	"github.com/vncsmyrnk/livepoll/internal/core/ports"
)

// Dispatcher is the engine entry point. Each inbound command is decoded,
// validated and routed; a rejected command produces one error event for the
// sender and nothing else.
type Dispatcher struct {
	lifecycle *LifecycleService
	fanout    *Fanout
	validate  *validator.Validate
	log       *slog.Logger
}

func NewDispatcher(lifecycle *LifecycleService, fanout *Fanout, log *slog.Logger) *Dispatcher {
	return &Dispatcher{
		lifecycle: lifecycle,
		fanout:    fanout,
		validate:  newValidator(),
		log:       log,
	}
}

func (d *Dispatcher) Dispatch(conn domain.ConnectionID, cmd ports.Command) {
	if err := d.route(conn, cmd); err != nil {
		d.reject(conn, cmd.Name, err)
	}
}

// Disconnect is called by the transport once conn is gone.
func (d *Dispatcher) Disconnect(conn domain.ConnectionID) {
	d.lifecycle.Disconnect(conn)
}

func (d *Dispatcher) route(conn domain.ConnectionID, cmd ports.Command) error {
	switch cmd.Name {
	case domain.CommandCreateSession:
		var in ports.CreateSessionInput
		if err := d.decode(cmd.Payload, &in); err != nil {
			return err
		}
		_, err := d.lifecycle.Create(conn, in)
		return err

	case domain.CommandJoinWaitingRoom:
		d.lifecycle.JoinWaitingRoom(conn)
		return nil

	case domain.CommandJoinSession:
		var in ports.SessionRef
		if err := d.decode(cmd.Payload, &in); err != nil {
			return err
		}
		return d.lifecycle.Join(conn, in.SessionID)

	case domain.CommandSubmitVote:
		var in ports.VoteInput
		if err := d.decode(cmd.Payload, &in); err != nil {
			return err
		}
		return d.lifecycle.Vote(conn, in.SessionID, *in.OptionIndex)

	case domain.CommandEndSession:
		var in ports.SessionRef
		if err := d.decode(cmd.Payload, &in); err != nil {
			return err
		}
		if err := d.lifecycle.End(conn, in.SessionID); err != nil {
			// Ending someone else's or an already closed session is ignored.
			d.log.Debug("End session ignored", "conn", conn, "session_id", in.SessionID, "error", err)
		}
		return nil

	case domain.CommandGetResults:
		var in ports.SessionRef
		if err := d.decode(cmd.Payload, &in); err != nil {
			return err
		}
		return d.lifecycle.Results(conn, in.SessionID)

	default:
		return fmt.Errorf("%w: unknown command %q", domain.ErrValidation, cmd.Name)
	}
}

func (d *Dispatcher) reject(conn domain.ConnectionID, name domain.CommandName, err error) {
	level := slog.LevelDebug
	if !isExpected(err) {
		level = slog.LevelWarn
	}
	d.log.Log(context.Background(), level, "Command rejected", "conn", conn, "command", name, "error", err)
	d.fanout.Error(conn, err)
}

func isExpected(err error) bool {
	for _, target := range []error{
		domain.ErrValidation, domain.ErrSessionNotFound, domain.ErrSessionClosed,
		domain.ErrAlreadyVoted, domain.ErrInvalidOption, domain.ErrDuplicateSessionID,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (d *Dispatcher) decode(payload json.RawMessage, target any) error {
	if len(payload) == 0 || string(payload) == "null" {
		payload = json.RawMessage("{}")
	}
	if err := json.Unmarshal(payload, target); err != nil {
		return fmt.Errorf("%w: malformed payload", domain.ErrValidation)
	}
	if err := d.validate.Struct(target); err != nil {
		return validationError(err)
	}
	return nil
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	fe := fieldErrs[0]
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}

	var reason string
	switch fe.Tag() {
	case "required", "notblank":
		reason = field + " is required"
	case "min":
		reason = fmt.Sprintf("%s needs at least %s entries", field, fe.Param())
	case "max":
		reason = fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gt":
		reason = fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "lte":
		reason = fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		reason = field + " is invalid"
	}
	return fmt.Errorf("%w: %s", domain.ErrValidation, reason)
}
