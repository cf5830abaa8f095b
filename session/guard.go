package session

// PageKind classifies a page for the route guard
type PageKind int

const (
	// PagePublic needs no session (landing page)
	PagePublic PageKind = iota
	// PageAuthEntry is a sign-in or registration page
	PageAuthEntry
	// PageProtected requires an authenticated session
	PageProtected
)

// Action is the guard's decision for a page render
type Action int

const (
	// ActionRender shows the page
	ActionRender Action = iota
	// ActionShowLoading renders the neutral loading state; protected
	// content must never flash before a redirect
	ActionShowLoading
	// ActionRedirectToHome sends an authenticated user away from an
	// auth-entry page
	ActionRedirectToHome
	// ActionRedirectToSignIn sends an unauthenticated user to sign-in
	ActionRedirectToSignIn
)

// Decide returns the guard action for the current phase and page kind.
// Re-evaluated on every session state change.
func Decide(phase Phase, page PageKind) Action {
	if phase == PhaseLoading {
		if page == PagePublic {
			return ActionRender
		}
		return ActionShowLoading
	}

	switch page {
	case PageAuthEntry:
		if phase == PhaseAuthenticated {
			return ActionRedirectToHome
		}
	case PageProtected:
		if phase == PhaseUnauthenticated {
			return ActionRedirectToSignIn
		}
	}

	return ActionRender
}
