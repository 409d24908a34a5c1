package arbor

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Attribute keys understood by ApplyAttributes.
const (
	AttrAccessibility = "accessibility" // role name, or empty for the element's default role
	AttrRole          = "role"          // alias of AttrAccessibility
	AttrFocusable     = "focusable"     // "true" / "false"
	AttrName          = "name"          // accessible name override
	AttrAlt           = "alt"           // accessible value override
	AttrLayer         = "layer"         // relative paint layer (int16)
)

// ApplyAttributes folds declarative attribute values into the node's
// semantic state. Values that cannot be interpreted are treated as absent:
// the node keeps its default for that attribute, a warning is logged, and the
// failure is reported in the returned error (wrapping ErrUnresolvedAttribute).
// The node is always left usable.
func ApplyAttributes(n *Node, attrs map[string]string, logger *slog.Logger) error {
	if logger == nil {
		logger = discardLogger
	}
	var errs []error
	unresolved := func(key, value string, cause error) {
		err := fmt.Errorf("%w: %s=%q on %q", ErrUnresolvedAttribute, key, value, n.Name)
		if cause != nil {
			err = fmt.Errorf("%w: %v", err, cause)
		}
		logger.Warn("attribute ignored", "node", n.Name, "attr", key, "value", value)
		errs = append(errs, err)
	}

	for _, key := range []string{AttrAccessibility, AttrRole} {
		value, ok := attrs[key]
		if !ok {
			continue
		}
		if strings.TrimSpace(value) == "" {
			n.EnableAccessibility()
			continue
		}
		role, ok := ParseRole(value)
		if !ok {
			unresolved(key, value, nil)
			n.EnableAccessibility()
			continue
		}
		n.SetRole(role)
	}

	if value, ok := attrs[AttrFocusable]; ok {
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			unresolved(AttrFocusable, value, err)
		} else {
			n.SetFocusable(b)
		}
	}

	if value, ok := attrs[AttrName]; ok {
		n.Access.Name = value
	}
	if value, ok := attrs[AttrAlt]; ok {
		n.Access.Alt = value
	}

	if value, ok := attrs[AttrLayer]; ok {
		layer, err := strconv.ParseInt(strings.TrimSpace(value), 10, 16)
		if err != nil {
			unresolved(AttrLayer, value, err)
		} else {
			n.Layer = int16(layer)
		}
	}

	return errors.Join(errs...)
}
