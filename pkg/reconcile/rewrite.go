package reconcile

import "strings"

// Splice replaces the span of text with rendered and leaves every other byte intact.
func Splice(text string, span Span, rendered string) string {
	var b strings.Builder
	b.Grow(len(text) - (span.End - span.Start) + len(rendered))
	b.WriteString(text[:span.Start])
	b.WriteString(rendered)
	b.WriteString(text[span.End:])
	return b.String()
}

// RenderList serializes versions as single-quoted tokens joined by ", ".
func RenderList(versions []string) string {
	quoted := make([]string, len(versions))
	for i, v := range versions {
		quoted[i] = "'" + v + "'"
	}
	return strings.Join(quoted, ", ")
}

// MergeAndReserialize merges newVersions into the marker list of text and
// returns the updated text. Only the list interior is rewritten.
func MergeAndReserialize(text, marker string, newVersions VersionSet) (string, error) {
	span, err := LocateList(text, marker)
	if err != nil {
		return "", err
	}
	merged := quotedTokens(text[span.Start:span.End]).Union(newVersions)
	return Splice(text, span, RenderList(SortForDisplay(merged))), nil
}
