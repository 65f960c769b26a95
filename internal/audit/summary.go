package audit

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/courtdesk/registry-api/internal/models"
)

// caseDiffFields and employeeDiffFields are the hand-enumerated snapshot
// fields compared when summarizing an update. Keys match the JSON names the
// snapshots are stored under.
var caseDiffFields = []string{"number", "title", "petitioner", "respondent", "case_type", "status", "description"}

var employeeDiffFields = []string{"name", "position", "department", "email", "phone", "notes"}

// Resolver turns entity ids into display names using caller-supplied
// reference collections. Lookups are map-backed; the formatter itself never
// queries storage.
type Resolver struct {
	users     map[string]string
	cases     map[uint]string
	employees map[uint]string
}

// NewResolver indexes the reference collections for id lookups.
func NewResolver(users []models.User, cases []models.Case, employees []models.Employee) *Resolver {
	r := &Resolver{
		users:     make(map[string]string, len(users)),
		cases:     make(map[uint]string, len(cases)),
		employees: make(map[uint]string, len(employees)),
	}
	for _, u := range users {
		r.users[u.ID] = u.Name
	}
	for _, c := range cases {
		r.cases[c.ID] = c.Title
	}
	for _, e := range employees {
		r.employees[e.ID] = e.Name
	}
	return r
}

func (r *Resolver) userName(id string) string {
	if name, ok := r.users[id]; ok && name != "" {
		return name
	}
	return id
}

func (r *Resolver) caseName(id uint) string {
	if name, ok := r.cases[id]; ok && name != "" {
		return name
	}
	return fmt.Sprintf("#%d", id)
}

func (r *Resolver) employeeName(id uint) string {
	if name, ok := r.employees[id]; ok && name != "" {
		return name
	}
	return fmt.Sprintf("#%d", id)
}

// Summary renders a validated record as a one-line human-readable sentence.
// Actions without bespoke logic fall through to a raw JSON rendering of the
// payload so newly added enum members still display something.
func (r *Resolver) Summary(record Record) string {
	switch record.Action {
	case ActionCreateCase:
		return "Case created: " + r.caseName(entityID(record))
	case ActionDeleteCase:
		return "Case deleted: " + r.caseName(entityID(record))
	case ActionCreateEmployee:
		return "Employee created: " + r.employeeName(entityID(record))
	case ActionDeleteEmployee:
		return "Employee deleted: " + r.employeeName(entityID(record))

	case ActionUpdateCase:
		return "Case updated: " + r.snapshotDiff(record, caseDiffFields)
	case ActionUpdateEmployee:
		return "Employee updated: " + r.snapshotDiff(record, employeeDiffFields)

	case ActionCreateUser:
		return "Account created: " + r.userName(userID(record))
	case ActionDeactivateUser:
		return "Account deactivated: " + r.userName(userID(record))
	case ActionReactivateUser:
		return "Account reactivated: " + r.userName(userID(record))
	case ActionDeleteUser:
		return "Account deleted: " + r.userName(userID(record))
	case ActionLoginSuccess:
		return "Signed in: " + r.userName(userID(record))
	case ActionChangePassword:
		return "Password changed for " + r.userName(userID(record))
	case ActionSetInitialPassword:
		return "Initial password set for " + r.userName(userID(record))
	case ActionResetPassword:
		return "Password reset for " + r.userName(userID(record))
	case ActionUpdateProfile:
		return "Profile updated: " + r.userName(userID(record))

	case ActionUpdateRole:
		if d, ok := record.Details.(*RoleChangeDetails); ok {
			return fmt.Sprintf("Role changed for %s: %s → %s", r.userName(d.UserID), d.From, d.To)
		}

	case ActionLoginFailed:
		if d, ok := record.Details.(*EmailDetails); ok {
			return "Login failed: Email: " + d.Email
		}
	case ActionSendMagicLink:
		if d, ok := record.Details.(*EmailDetails); ok {
			return "Magic link sent to " + d.Email
		}

	case ActionImportCases:
		return "Imported cases: " + r.importList(record, r.caseName)
	case ActionImportEmployees:
		return "Imported employees: " + r.importList(record, r.employeeName)

	case ActionLogout:
		return "User logged out"
	case ActionExportCases:
		return "Cases exported"
	case ActionExportEmployees:
		return "Employees exported"
	}

	if record.Details == nil {
		return "No additional details"
	}

	raw, err := json.Marshal(record.Details)
	if err != nil {
		return "No additional details"
	}
	return string(raw)
}

func entityID(record Record) uint {
	if d, ok := record.Details.(*EntityDetails); ok {
		return d.ID
	}
	return 0
}

func userID(record Record) string {
	if d, ok := record.Details.(*UserDetails); ok {
		return d.ID
	}
	return ""
}

// snapshotDiff compares the fixed field list between the before/after
// snapshots and emits "field: old → new" for each difference. An empty diff
// is an expected outcome, reported as "No changes".
func (r *Resolver) snapshotDiff(record Record, fields []string) string {
	d, ok := record.Details.(*SnapshotDetails)
	if !ok {
		return "No changes"
	}

	var changes []string
	for _, field := range fields {
		before := snapshotValue(d.From, field)
		after := snapshotValue(d.To, field)
		if before != after {
			changes = append(changes, fmt.Sprintf("%s: %s → %s", field, before, after))
		}
	}

	if len(changes) == 0 {
		return "No changes"
	}
	return strings.Join(changes, ", ")
}

func snapshotValue(snapshot map[string]any, field string) string {
	value, ok := snapshot[field]
	if !ok || value == nil {
		return ""
	}
	return fmt.Sprint(value)
}

// importList resolves the first 3 imported ids to display names and appends
// "and N more" when the list is longer. Unresolvable ids render as "#id".
func (r *Resolver) importList(record Record, resolve func(uint) string) string {
	d, ok := record.Details.(*ImportDetails)
	if !ok || len(d.ImportedIDs) == 0 {
		return "none"
	}

	shown := d.ImportedIDs
	if len(shown) > 3 {
		shown = shown[:3]
	}

	names := make([]string, 0, len(shown))
	for _, id := range shown {
		names = append(names, resolve(id))
	}

	out := strings.Join(names, ", ")
	if rest := len(d.ImportedIDs) - len(shown); rest > 0 {
		out += fmt.Sprintf(" and %d more", rest)
	}
	return out
}
