package google

// Google OAuth scopes requested by meetbridge.
const (
	ScopeMeetingsSpaceCreated = "https://www.googleapis.com/auth/meetings.space.created"
	ScopeMeetings             = "https://www.googleapis.com/auth/meetings"
	ScopeCalendar             = "https://www.googleapis.com/auth/calendar"
	ScopeUserInfoEmail        = "https://www.googleapis.com/auth/userinfo.email"
)

// DefaultOAuthScopes are the scopes placed on every authorization URL unless the
// configuration overrides them. The order is stable and part of the URL contract.
//
// The scopes provide access to:
//   - Google Meet: create spaces owned by the app, manage meetings
//   - Google Calendar: full access
//   - User info: email address of the consenting user
var DefaultOAuthScopes = []string{
	ScopeMeetingsSpaceCreated,
	ScopeMeetings,
	ScopeCalendar,
	ScopeUserInfoEmail,
}
