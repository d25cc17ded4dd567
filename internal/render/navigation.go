package render

// Navigation actions carried by the login/logout control.
const (
	ActionShowAuth = "show-auth"
	ActionLogout   = "logout"
)

// Navigation is the complete session-dependent UI state: the login/logout
// control and the visibility of the upload affordance.
type Navigation struct {
	AuthLabel     string
	AuthAction    string
	UploadVisible bool
}

// ProjectNavigation is the pure mapping from session state to navigation.
func ProjectNavigation(authenticated bool) Navigation {
	if authenticated {
		return Navigation{AuthLabel: "Logout", AuthAction: ActionLogout, UploadVisible: true}
	}
	return Navigation{AuthLabel: "Login", AuthAction: ActionShowAuth, UploadVisible: false}
}
