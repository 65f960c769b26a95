package audit

import "fmt"

// Badge describes how an action renders in the audit view.
type Badge struct {
	Color string `json:"color"`
	Icon  string `json:"icon"`
	Label string `json:"label"`
}

// badges is total over the action enumeration. There is deliberately no
// default entry: a new action without a badge fails CheckCoverage at startup.
var badges = map[Action]Badge{
	ActionCreateCase:         {Color: "green", Icon: "file-plus", Label: "Case created"},
	ActionUpdateCase:         {Color: "blue", Icon: "file-pen", Label: "Case updated"},
	ActionDeleteCase:         {Color: "red", Icon: "file-x", Label: "Case deleted"},
	ActionImportCases:        {Color: "violet", Icon: "upload", Label: "Cases imported"},
	ActionExportCases:        {Color: "slate", Icon: "download", Label: "Cases exported"},
	ActionCreateEmployee:     {Color: "green", Icon: "user-plus", Label: "Employee created"},
	ActionUpdateEmployee:     {Color: "blue", Icon: "user-pen", Label: "Employee updated"},
	ActionDeleteEmployee:     {Color: "red", Icon: "user-x", Label: "Employee deleted"},
	ActionImportEmployees:    {Color: "violet", Icon: "upload", Label: "Employees imported"},
	ActionExportEmployees:    {Color: "slate", Icon: "download", Label: "Employees exported"},
	ActionCreateUser:         {Color: "green", Icon: "user-plus", Label: "Account created"},
	ActionDeactivateUser:     {Color: "amber", Icon: "user-minus", Label: "Account deactivated"},
	ActionReactivateUser:     {Color: "green", Icon: "user-check", Label: "Account reactivated"},
	ActionDeleteUser:         {Color: "red", Icon: "user-x", Label: "Account deleted"},
	ActionUpdateRole:         {Color: "purple", Icon: "shield", Label: "Role changed"},
	ActionLoginSuccess:       {Color: "green", Icon: "log-in", Label: "Signed in"},
	ActionLoginFailed:        {Color: "red", Icon: "shield-alert", Label: "Login failed"},
	ActionLogout:             {Color: "slate", Icon: "log-out", Label: "Signed out"},
	ActionChangePassword:     {Color: "amber", Icon: "key", Label: "Password changed"},
	ActionSetInitialPassword: {Color: "amber", Icon: "key", Label: "Initial password set"},
	ActionSendMagicLink:      {Color: "blue", Icon: "mail", Label: "Magic link sent"},
	ActionResetPassword:      {Color: "amber", Icon: "key-round", Label: "Password reset"},
	ActionUpdateProfile:      {Color: "blue", Icon: "user-cog", Label: "Profile updated"},
}

// BadgeFor returns the badge registered for the action.
func BadgeFor(action Action) (Badge, bool) {
	badge, ok := badges[action]
	return badge, ok
}

// CheckCoverage asserts that the detail-shape union and the badge map both
// cover the action enumeration exactly: no missing entries, no stale entries
// for retired actions. Called from main so drift fails at boot.
func CheckCoverage() error {
	enum := make(map[Action]struct{}, len(Actions()))
	for _, action := range Actions() {
		enum[action] = struct{}{}

		_, hasShape := detailShapes[action]
		_, isNull := nullDetailActions[action]
		if hasShape && isNull {
			return fmt.Errorf("action %s registered as both typed and null payload", action)
		}
		if !hasShape && !isNull {
			return fmt.Errorf("action %s has no registered detail shape", action)
		}
		if _, ok := badges[action]; !ok {
			return fmt.Errorf("action %s has no badge entry", action)
		}
	}

	for action := range detailShapes {
		if _, ok := enum[action]; !ok {
			return fmt.Errorf("stale detail shape for retired action %s", action)
		}
	}
	for action := range nullDetailActions {
		if _, ok := enum[action]; !ok {
			return fmt.Errorf("stale null-payload entry for retired action %s", action)
		}
	}
	for action := range badges {
		if _, ok := enum[action]; !ok {
			return fmt.Errorf("stale badge for retired action %s", action)
		}
	}

	return nil
}
