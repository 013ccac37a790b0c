package meet

import (
	"context"
)

// Access types accepted by SpaceConfigInput.AccessType.
const (
	AccessTypeOpen       = "OPEN"
	AccessTypeTrusted    = "TRUSTED"
	AccessTypeRestricted = "RESTRICTED"
)

// Entry point access values accepted by SpaceConfigInput.EntryPointAccess.
const (
	EntryPointAccessAll            = "ALL"
	EntryPointAccessCreatorAppOnly = "CREATOR_APP_ONLY"
)

// SpaceCreator creates a meeting space on behalf of the owner of bearerToken.
type SpaceCreator interface {
	CreateMeetSpace(ctx context.Context, bearerToken string) (*Space, error)
}

// Space represents a Google Meet space
type Space struct {
	// Name is the resource name of the space
	// Format: spaces/{space}
	Name string `json:"name"`

	// MeetingURI is the URI to join the meeting
	MeetingURI string `json:"meeting_uri"`

	// MeetingCode is the meeting code (e.g., "abc-defg-hij")
	MeetingCode string `json:"meeting_code"`

	// Config is the configuration reported by the API, if any
	Config *SpaceConfig `json:"config,omitempty"`
}

// SpaceConfig represents the configuration for a Google Meet space
type SpaceConfig struct {
	// AccessType defines who can join without knocking
	AccessType string `json:"access_type,omitempty"`

	// EntryPointAccess defines which entry points can be used
	EntryPointAccess string `json:"entry_point_access,omitempty"`
}

// SpaceConfigInput represents input for space configuration
type SpaceConfigInput struct {
	// AccessType defines who can join without knocking
	// Values: "OPEN", "TRUSTED", "RESTRICTED"
	AccessType string

	// EntryPointAccess defines which entry points can be used
	// Values: "ALL", "CREATOR_APP_ONLY"
	EntryPointAccess string
}
