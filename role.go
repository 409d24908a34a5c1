package arbor

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// AccessibilityID identifies a node in the accessibility tree. It is a random
// 128-bit value assigned once, when a node first acquires accessibility
// semantics, and it never changes for as long as the node exists.
type AccessibilityID uuid.UUID

// WindowID is the fixed id of the synthetic window root.
var WindowID = AccessibilityID{15: 1}

// NewAccessibilityID returns a fresh random id.
func NewAccessibilityID() AccessibilityID {
	return AccessibilityID(uuid.New())
}

// ParseAccessibilityID parses the canonical textual form produced by String.
func ParseAccessibilityID(s string) (AccessibilityID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return AccessibilityID{}, fmt.Errorf("parse accessibility id %q: %w", s, err)
	}
	return AccessibilityID(u), nil
}

// IsZero reports whether id is the "no id" value.
func (id AccessibilityID) IsZero() bool {
	return id == AccessibilityID{}
}

func (id AccessibilityID) String() string {
	return uuid.UUID(id).String()
}

// MarshalText encodes the id in its canonical form.
func (id AccessibilityID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText decodes the canonical form.
func (id *AccessibilityID) UnmarshalText(b []byte) error {
	parsed, err := ParseAccessibilityID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Role is the semantic role reported to assistive technology.
type Role uint8

const (
	RoleUnknown Role = iota
	RoleWindow
	RoleText
	RoleButton
	RoleImage
	RoleCheckBox
	RoleLink
	RoleTextInput
	RoleSlider
	RoleList
	RoleListItem
	RoleGroup
	RoleHeading
	RoleScrollView
)

var roleNames = [...]string{
	RoleUnknown:    "unknown",
	RoleWindow:     "window",
	RoleText:       "text",
	RoleButton:     "button",
	RoleImage:      "image",
	RoleCheckBox:   "checkbox",
	RoleLink:       "link",
	RoleTextInput:  "textinput",
	RoleSlider:     "slider",
	RoleList:       "list",
	RoleListItem:   "listitem",
	RoleGroup:      "group",
	RoleHeading:    "heading",
	RoleScrollView: "scrollview",
}

func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return "unknown"
}

// MarshalText encodes the role by name.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText decodes a role name as accepted by ParseRole.
func (r *Role) UnmarshalText(b []byte) error {
	role, ok := ParseRole(string(b))
	if !ok {
		return fmt.Errorf("unknown role %q", b)
	}
	*r = role
	return nil
}

// ParseRole resolves a role attribute value. Matching is case-insensitive and
// ignores '-' and '_' separators ("list-item" == "listitem").
func ParseRole(s string) (Role, bool) {
	key := strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(s))
	for i, name := range roleNames {
		if name == key {
			return Role(i), true
		}
	}
	return RoleUnknown, false
}

// defaultRoleForType returns the role given to elements that opt into
// accessibility without naming a role. ok is false when the element type has
// no sensible default.
func defaultRoleForType(t NodeType) (Role, bool) {
	switch t {
	case NodeTypeText, NodeTypeLabel:
		return RoleText, true
	case NodeTypeImage:
		return RoleImage, true
	default:
		return RoleUnknown, false
	}
}

// Action is an accessibility action a node supports.
type Action uint8

const (
	ActionDefault Action = iota // generic activation
	ActionFocus                 // move keyboard focus to the node
)

func (a Action) String() string {
	if a == ActionFocus {
		return "focus"
	}
	return "default"
}

// MarshalText encodes the action by name.
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText decodes "default" or "focus".
func (a *Action) UnmarshalText(b []byte) error {
	switch string(b) {
	case "default":
		*a = ActionDefault
	case "focus":
		*a = ActionFocus
	default:
		return fmt.Errorf("unknown action %q", b)
	}
	return nil
}

// DefaultActionVerb describes what the default action does.
type DefaultActionVerb uint8

const (
	VerbNone DefaultActionVerb = iota
	VerbClick
)

func (v DefaultActionVerb) String() string {
	if v == VerbClick {
		return "click"
	}
	return ""
}

// MarshalText encodes the verb by name.
func (v DefaultActionVerb) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText decodes "click"; anything else is VerbNone.
func (v *DefaultActionVerb) UnmarshalText(b []byte) error {
	if string(b) == "click" {
		*v = VerbClick
	} else {
		*v = VerbNone
	}
	return nil
}
