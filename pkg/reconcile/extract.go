package reconcile

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultMarker names the declared list in the installer script.
const DefaultMarker = "SUPPORTED_VERSIONS_LIST"

const manifestSuffix = ".xml"

var (
	quotedTokenPattern = regexp.MustCompile(`['"]([^'"]+)['"]`)
	filenamePattern    = regexp.MustCompile(`^(\d+)\.(\d+)\.\d+`)
)

// Span is the half-open byte range [Start, End) of the list interior,
// excluding the brackets themselves.
type Span struct {
	Start int
	End   int
}

// listPattern matches marker only as a whole identifier, so a longer name
// that ends with it is not taken for the list.
func listPattern(marker string) *regexp.Regexp {
	return regexp.MustCompile(`(?:^|[^A-Za-z0-9_])` + regexp.QuoteMeta(marker) + `\s*=\s*\[(?s:(.*?))\]`)
}

// LocateList finds the bracketed list assigned to marker and returns the span
// of its interior. The marker structure must appear exactly once.
func LocateList(text, marker string) (Span, error) {
	matches := listPattern(marker).FindAllStringSubmatchIndex(text, 2)
	switch len(matches) {
	case 0:
		return Span{}, &NotFoundError{Marker: marker}
	case 1:
		return Span{Start: matches[0][2], End: matches[0][3]}, nil
	default:
		return Span{}, ErrAmbiguous
	}
}

// ExtractVersions returns every quoted token inside the marker list.
func ExtractVersions(text, marker string) (VersionSet, error) {
	span, err := LocateList(text, marker)
	if err != nil {
		return nil, err
	}
	return quotedTokens(text[span.Start:span.End]), nil
}

func quotedTokens(interior string) VersionSet {
	set := make(VersionSet)
	for _, m := range quotedTokenPattern.FindAllStringSubmatch(interior, -1) {
		set.Add(m[1])
	}
	return set
}

// VersionFromFilename extracts the major.minor prefix from a manifest file
// name such as "6.5.1-MP1.xml". Names without a numeric prefix report false.
func VersionFromFilename(name string) (Key, bool) {
	base := strings.TrimSuffix(name, manifestSuffix)
	m := filenamePattern.FindStringSubmatch(base)
	if m == nil {
		return Key{}, false
	}
	major, err := strconv.Atoi(m[1])
	if err != nil {
		return Key{}, false
	}
	minor, err := strconv.Atoi(m[2])
	if err != nil {
		return Key{}, false
	}
	return Key{Major: major, Minor: minor}, true
}
