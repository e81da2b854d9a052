package reconcile

import (
	"fmt"
	"strconv"
	"strings"
)

// Wildcard is the literal third component of every version key.
const Wildcard = "X"

// Key is a (major, minor) version prefix, written as "MAJOR.MINOR.X".
type Key struct {
	Major int
	Minor int
}

// ParseKey parses a "MAJOR.MINOR.X" token.
func ParseKey(text string) (Key, error) {
	parts := strings.Split(text, ".")
	if len(parts) != 3 {
		return Key{}, &FormatError{Input: text, Reason: fmt.Sprintf("%d components", len(parts))}
	}
	if parts[2] != Wildcard {
		return Key{}, &FormatError{Input: text, Reason: "third component is not " + Wildcard}
	}
	major, err := parseComponent(parts[0])
	if err != nil {
		return Key{}, &FormatError{Input: text, Reason: "major " + err.Error()}
	}
	minor, err := parseComponent(parts[1])
	if err != nil {
		return Key{}, &FormatError{Input: text, Reason: "minor " + err.Error()}
	}
	return Key{Major: major, Minor: minor}, nil
}

// parseComponent accepts only plain decimal digits, so "+1" and "-0" are rejected.
func parseComponent(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("is empty")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%q is not a non-negative integer", s)
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is out of range", s)
	}
	return n, nil
}

// FormatKey renders a version key from its components.
func FormatKey(major, minor int) string {
	return fmt.Sprintf("%d.%d.%s", major, minor, Wildcard)
}

func (k Key) String() string {
	return FormatKey(k.Major, k.Minor)
}

// Compare orders keys by major, then minor. It returns -1, 0 or +1.
func (k Key) Compare(other Key) int {
	switch {
	case k.Major < other.Major:
		return -1
	case k.Major > other.Major:
		return 1
	case k.Minor < other.Minor:
		return -1
	case k.Minor > other.Minor:
		return 1
	default:
		return 0
	}
}

// Less reports whether k sorts before other.
func (k Key) Less(other Key) bool {
	return k.Compare(other) < 0
}
