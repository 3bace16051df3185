package model

import "fmt"

// Role identifies one side of the conversation. Exactly two roles exist:
// the driver at the window and the counter clerk behind it.
type Role string

const (
	RoleDriver  Role = "driver"
	RoleCounter Role = "counter"
)

// ParseRole validates a role string coming in over the API.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleDriver, RoleCounter:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Clip is one finalized audio recording, opaque beyond its encoding tag.
type Clip struct {
	Bytes       []byte
	ContentType string
}

// Empty reports whether the clip carries no audio data.
func (c Clip) Empty() bool {
	return len(c.Bytes) == 0
}
