package audit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
)

// Details is the variant payload attached to an audit entry. The concrete
// shape is fully determined by the entry's Action; actions without a payload
// carry a nil Details.
type Details interface {
	isDetails()
}

// EntityDetails references a created or deleted case/employee by numeric id.
type EntityDetails struct {
	ID uint `json:"id" validate:"required"`
}

// UserDetails references an account touched by a user-lifecycle action.
type UserDetails struct {
	ID string `json:"id" validate:"required"`
}

// RoleChangeDetails records a role transition on an account.
type RoleChangeDetails struct {
	UserID string `json:"user_id" validate:"required"`
	From   string `json:"from" validate:"required,oneof=admin registrar clerk"`
	To     string `json:"to" validate:"required,oneof=admin registrar clerk"`
}

// SnapshotDetails holds full before/after copies of an updated entity.
type SnapshotDetails struct {
	From map[string]any `json:"from" validate:"required"`
	To   map[string]any `json:"to" validate:"required"`
}

// EmailDetails records the email address a pre-auth action was aimed at.
type EmailDetails struct {
	Email string `json:"email" validate:"required,email"`
}

// ImportDetails lists the ids of entities created by a bulk import. The
// upstream schema called this field userIds even though it never held user
// ids; the name here reflects what it actually contains.
type ImportDetails struct {
	ImportedIDs []uint `json:"imported_ids" validate:"required"`
}

func (EntityDetails) isDetails()     {}
func (UserDetails) isDetails()       {}
func (RoleChangeDetails) isDetails() {}
func (SnapshotDetails) isDetails()   {}
func (EmailDetails) isDetails()      {}
func (ImportDetails) isDetails()     {}

// detailShapes maps every payload-carrying action to a factory for its
// registered shape. Actions with no payload live in nullDetailActions; the
// two tables partition the enum and CheckCoverage enforces that.
var detailShapes = map[Action]func() Details{
	ActionCreateCase:         func() Details { return &EntityDetails{} },
	ActionDeleteCase:         func() Details { return &EntityDetails{} },
	ActionCreateEmployee:     func() Details { return &EntityDetails{} },
	ActionDeleteEmployee:     func() Details { return &EntityDetails{} },
	ActionCreateUser:         func() Details { return &UserDetails{} },
	ActionDeactivateUser:     func() Details { return &UserDetails{} },
	ActionReactivateUser:     func() Details { return &UserDetails{} },
	ActionDeleteUser:         func() Details { return &UserDetails{} },
	ActionLoginSuccess:       func() Details { return &UserDetails{} },
	ActionChangePassword:     func() Details { return &UserDetails{} },
	ActionSetInitialPassword: func() Details { return &UserDetails{} },
	ActionResetPassword:      func() Details { return &UserDetails{} },
	ActionUpdateProfile:      func() Details { return &UserDetails{} },
	ActionUpdateRole:         func() Details { return &RoleChangeDetails{} },
	ActionUpdateCase:         func() Details { return &SnapshotDetails{} },
	ActionUpdateEmployee:     func() Details { return &SnapshotDetails{} },
	ActionLoginFailed:        func() Details { return &EmailDetails{} },
	ActionSendMagicLink:      func() Details { return &EmailDetails{} },
	ActionImportCases:        func() Details { return &ImportDetails{} },
	ActionImportEmployees:    func() Details { return &ImportDetails{} },
}

// nullDetailActions holds the actions whose registered payload is null.
var nullDetailActions = map[Action]struct{}{
	ActionLogout:          {},
	ActionExportCases:     {},
	ActionExportEmployees: {},
}

var validate = validator.New(validator.WithRequiredStructEnabled())

var jsonNull = []byte("null")

// ParseDetails decodes and validates a raw payload against the shape
// registered for the action. A nil Details with a nil error means the action
// legitimately carries no payload.
func ParseDetails(action Action, raw []byte) (Details, error) {
	if _, ok := nullDetailActions[action]; ok {
		if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), jsonNull) {
			return nil, nil
		}
		return nil, fmt.Errorf("action %s carries no payload, got %s", action, raw)
	}

	factory, ok := detailShapes[action]
	if !ok {
		return nil, fmt.Errorf("unknown action %q", action)
	}

	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), jsonNull) {
		return nil, fmt.Errorf("action %s requires a payload", action)
	}

	details := factory()
	if err := json.Unmarshal(raw, details); err != nil {
		return nil, fmt.Errorf("decode %s details: %w", action, err)
	}
	if err := validate.Struct(details); err != nil {
		return nil, fmt.Errorf("invalid %s details: %w", action, err)
	}

	return details, nil
}

// ValidateDetails checks that an in-memory payload matches the shape
// registered for the action, including field-level constraints. Used on the
// write path before anything touches storage.
func ValidateDetails(action Action, details Details) error {
	if _, ok := nullDetailActions[action]; ok {
		if details != nil {
			return fmt.Errorf("action %s carries no payload, got %T", action, details)
		}
		return nil
	}

	factory, ok := detailShapes[action]
	if !ok {
		return fmt.Errorf("unknown action %q", action)
	}
	if details == nil {
		return fmt.Errorf("action %s requires a payload", action)
	}

	expected := reflect.TypeOf(factory()).Elem()
	actual := reflect.TypeOf(details)
	if actual.Kind() == reflect.Pointer {
		actual = actual.Elem()
	}
	if actual != expected {
		return fmt.Errorf("action %s expects %s details, got %T", action, expected.Name(), details)
	}

	if err := validate.Struct(details); err != nil {
		return fmt.Errorf("invalid %s details: %w", action, err)
	}

	return nil
}

// EncodeDetails validates a payload and serializes it for storage. Null-detail
// actions encode as JSON null.
func EncodeDetails(action Action, details Details) ([]byte, error) {
	if err := ValidateDetails(action, details); err != nil {
		return nil, err
	}
	if details == nil {
		return append([]byte(nil), jsonNull...), nil
	}
	return json.Marshal(details)
}
