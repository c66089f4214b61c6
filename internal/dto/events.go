package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/GregMSThompson/finance-assistant/internal/errs"
	"github.com/GregMSThompson/finance-assistant/internal/models"
)

type EventType string

const (
	EventAddExpense     EventType = "ADD_EXPENSE"
	EventAddIncome      EventType = "ADD_INCOME"
	EventAddToGoal      EventType = "ADD_TO_GOAL"
	EventCreateGoal     EventType = "CREATE_GOAL"
	EventUpdateLimit    EventType = "UPDATE_LIMIT"
	EventCreateReminder EventType = "CREATE_REMINDER"
	EventPayReminder    EventType = "PAY_REMINDER"
	EventAddCard        EventType = "ADD_CARD"
	EventUpdateCard     EventType = "UPDATE_CARD"
	EventDeleteCard     EventType = "DELETE_CARD"
	EventPayCard        EventType = "PAY_CARD"
	EventDeleteItem     EventType = "DELETE_ITEM"

	EventAdminUpdateUser    EventType = "ADMIN_UPDATE_USER"
	EventAdminSendBroadcast EventType = "ADMIN_SEND_BROADCAST"
	EventAdminUpdateConfig  EventType = "ADMIN_UPDATE_CONFIG"
)

// IsAdmin reports whether the event type requires the ADMIN role.
func (t EventType) IsAdmin() bool {
	return strings.HasPrefix(string(t), "ADMIN_")
}

const (
	SourceUI    = "UI"
	SourceChat  = "CHAT"
	SourceAdmin = "ADMIN"
)

// Payload is implemented by exactly one struct per event type.
type Payload interface {
	EventType() EventType
}

// Event is a validated, typed intent. Build one with NewEvent or DecodeEvent.
type Event struct {
	Type      EventType
	Source    string
	Timestamp time.Time
	Payload   Payload
}

// Actor is the authenticated caller of a dispatch.
type Actor struct {
	UID  string
	Role models.Role
}

type DispatchResult struct {
	Success  bool      `json:"success"`
	Error    string    `json:"error,omitempty"`
	Type     EventType `json:"type"`
	EntityID string    `json:"entityId,omitempty"`
}

type EventEnvelope struct {
	Type      EventType       `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Source    string          `json:"source"`
	Timestamp time.Time       `json:"timestamp"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// NewEvent validates the payload and wraps it in an Event.
func NewEvent(p Payload, source string, ts time.Time) (Event, error) {
	if p == nil {
		return Event{}, errs.NewValidationError("payload is required")
	}
	if err := validatePayload(p); err != nil {
		return Event{}, err
	}
	if source == "" {
		source = SourceUI
	}
	return Event{Type: p.EventType(), Source: source, Timestamp: ts, Payload: p}, nil
}

// DecodeEvent parses a JSON envelope into a typed, validated Event.
func DecodeEvent(raw []byte) (Event, error) {
	var env EventEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Event{}, errs.NewValidationError("invalid event envelope")
	}
	return env.Decode()
}

func (env EventEnvelope) Decode() (Event, error) {
	p, err := newPayload(env.Type)
	if err != nil {
		return Event{}, err
	}
	if len(env.Payload) == 0 {
		return Event{}, errs.NewValidationError("payload is required")
	}
	dec := json.NewDecoder(bytes.NewReader(env.Payload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(p); err != nil {
		return Event{}, errs.NewValidationError(fmt.Sprintf("invalid %s payload: %v", env.Type, err))
	}
	return NewEvent(p, env.Source, env.Timestamp)
}

func newPayload(t EventType) (Payload, error) {
	switch t {
	case EventAddExpense:
		return &AddExpensePayload{}, nil
	case EventAddIncome:
		return &AddIncomePayload{}, nil
	case EventAddToGoal:
		return &AddToGoalPayload{}, nil
	case EventCreateGoal:
		return &CreateGoalPayload{}, nil
	case EventUpdateLimit:
		return &UpdateLimitPayload{}, nil
	case EventCreateReminder:
		return &CreateReminderPayload{}, nil
	case EventPayReminder:
		return &PayReminderPayload{}, nil
	case EventAddCard:
		return &AddCardPayload{}, nil
	case EventUpdateCard:
		return &UpdateCardPayload{}, nil
	case EventDeleteCard:
		return &DeleteCardPayload{}, nil
	case EventPayCard:
		return &PayCardPayload{}, nil
	case EventDeleteItem:
		return &DeleteItemPayload{}, nil
	case EventAdminUpdateUser:
		return &AdminUpdateUserPayload{}, nil
	case EventAdminSendBroadcast:
		return &AdminSendBroadcastPayload{}, nil
	case EventAdminUpdateConfig:
		return &AdminUpdateConfigPayload{}, nil
	default:
		return nil, errs.NewValidationError(fmt.Sprintf("unknown event type: %q", t))
	}
}

// checker is implemented by payloads with rules struct tags cannot express.
type checker interface {
	check() error
}

type defaulter interface {
	applyDefaults()
}

func validatePayload(p Payload) error {
	if d, ok := p.(defaulter); ok {
		d.applyDefaults()
	}
	if err := validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return errs.NewValidationError(fmt.Sprintf("%s: field %s failed %q", p.EventType(), fe.Field(), fe.Tag()))
		}
		return errs.NewValidationError(err.Error())
	}
	if c, ok := p.(checker); ok {
		if err := c.check(); err != nil {
			return errs.NewValidationError(fmt.Sprintf("%s: %v", p.EventType(), err))
		}
	}
	return nil
}
