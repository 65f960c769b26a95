package audit

// Action identifies one auditable event kind. The set is closed: every action
// carries exactly one registered detail shape and one badge entry, and
// CheckCoverage fails startup if either table drifts out of sync.
type Action string

const (
	ActionCreateCase         Action = "CREATE_CASE"
	ActionUpdateCase         Action = "UPDATE_CASE"
	ActionDeleteCase         Action = "DELETE_CASE"
	ActionImportCases        Action = "IMPORT_CASES"
	ActionExportCases        Action = "EXPORT_CASES"
	ActionCreateEmployee     Action = "CREATE_EMPLOYEE"
	ActionUpdateEmployee     Action = "UPDATE_EMPLOYEE"
	ActionDeleteEmployee     Action = "DELETE_EMPLOYEE"
	ActionImportEmployees    Action = "IMPORT_EMPLOYEES"
	ActionExportEmployees    Action = "EXPORT_EMPLOYEES"
	ActionCreateUser         Action = "CREATE_USER"
	ActionDeactivateUser     Action = "DEACTIVATE_USER"
	ActionReactivateUser     Action = "REACTIVATE_USER"
	ActionDeleteUser         Action = "DELETE_USER"
	ActionUpdateRole         Action = "UPDATE_ROLE"
	ActionLoginSuccess       Action = "LOGIN_SUCCESS"
	ActionLoginFailed        Action = "LOGIN_FAILED"
	ActionLogout             Action = "LOGOUT"
	ActionChangePassword     Action = "CHANGE_PASSWORD"
	ActionSetInitialPassword Action = "SET_INITIAL_PASSWORD"
	ActionSendMagicLink      Action = "SEND_MAGIC_LINK"
	ActionResetPassword      Action = "RESET_PASSWORD"
	ActionUpdateProfile      Action = "UPDATE_PROFILE"
)

// Actions returns every member of the closed action enumeration.
func Actions() []Action {
	return []Action{
		ActionCreateCase,
		ActionUpdateCase,
		ActionDeleteCase,
		ActionImportCases,
		ActionExportCases,
		ActionCreateEmployee,
		ActionUpdateEmployee,
		ActionDeleteEmployee,
		ActionImportEmployees,
		ActionExportEmployees,
		ActionCreateUser,
		ActionDeactivateUser,
		ActionReactivateUser,
		ActionDeleteUser,
		ActionUpdateRole,
		ActionLoginSuccess,
		ActionLoginFailed,
		ActionLogout,
		ActionChangePassword,
		ActionSetInitialPassword,
		ActionSendMagicLink,
		ActionResetPassword,
		ActionUpdateProfile,
	}
}

// Valid reports whether the action belongs to the enumeration.
func (a Action) Valid() bool {
	_, hasShape := detailShapes[a]
	if hasShape {
		return true
	}
	_, isNull := nullDetailActions[a]
	return isNull
}

// RequiresSession reports whether recording the action demands an
// authenticated actor. Login events fire before a session exists and are the
// only exemptions.
func (a Action) RequiresSession() bool {
	return a != ActionLoginSuccess && a != ActionLoginFailed
}
