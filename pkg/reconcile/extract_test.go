package reconcile

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const installerFixture = `#!/usr/bin/env python3
# Installer for non-package Couchbase Server deployments.

import sys

SUPPORTED_VERSIONS_LIST = [
    '6.0.X', "6.5.X",
    '7.0.X',
]

def main():
    print(SUPPORTED_VERSIONS_LIST)
`

func TestLocateList(t *testing.T) {
	text := "SUPPORTED_VERSIONS_LIST = ['6.0.X', '6.5.X']"
	span, err := LocateList(text, DefaultMarker)
	require.NoError(t, err)
	assert.Equal(t, "'6.0.X', '6.5.X'", text[span.Start:span.End])
}

func TestLocateList_Whitespace(t *testing.T) {
	text := "SUPPORTED_VERSIONS_LIST=[\n'6.0.X'\n]"
	span, err := LocateList(text, DefaultMarker)
	require.NoError(t, err)
	assert.Equal(t, "\n'6.0.X'\n", text[span.Start:span.End])
}

func TestLocateList_EmptyList(t *testing.T) {
	span, err := LocateList("SUPPORTED_VERSIONS_LIST = []", DefaultMarker)
	require.NoError(t, err)
	assert.Equal(t, span.Start, span.End)
}

func TestLocateList_NotFound(t *testing.T) {
	for _, text := range []string{
		"",
		"OTHER_LIST = ['6.0.X']",
		"SUPPORTED_VERSIONS_LIST = '6.0.X'",
		"SUPPORTED_VERSIONS_LIST = ['6.0.X'",
		"OLD_SUPPORTED_VERSIONS_LIST = ['5.0.X']\n",
		"SUPPORTED_VERSIONS_LIST_OLD = ['5.0.X']\n",
	} {
		_, err := LocateList(text, DefaultMarker)
		require.Error(t, err, text)
		assert.True(t, errors.Is(err, ErrNotFound), "text %q: %v", text, err)
		var nf *NotFoundError
		require.True(t, errors.As(err, &nf))
		assert.Equal(t, DefaultMarker, nf.Marker)
	}
}

func TestLocateList_Ambiguous(t *testing.T) {
	text := "SUPPORTED_VERSIONS_LIST = ['6.0.X']\nSUPPORTED_VERSIONS_LIST = ['7.0.X']\n"
	_, err := LocateList(text, DefaultMarker)
	assert.ErrorIs(t, err, ErrAmbiguous)
}

func TestLocateList_IgnoresLongerIdentifiers(t *testing.T) {
	text := "OLD_SUPPORTED_VERSIONS_LIST = ['5.0.X']\nSUPPORTED_VERSIONS_LIST = ['6.0.X']\n"
	span, err := LocateList(text, DefaultMarker)
	require.NoError(t, err)
	assert.Equal(t, "'6.0.X'", text[span.Start:span.End])

	span, err = LocateList("(SUPPORTED_VERSIONS_LIST=['7.0.X'])", DefaultMarker)
	require.NoError(t, err)
	assert.Equal(t, 26, span.Start)
}

func TestLocateList_MarkerIsLiteral(t *testing.T) {
	text := "A.B = ['1.0.X']"
	_, err := LocateList(text, "A.B")
	require.NoError(t, err)
	_, err = LocateList("AxB = ['1.0.X']", "A.B")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExtractVersions(t *testing.T) {
	got, err := ExtractVersions(installerFixture, DefaultMarker)
	require.NoError(t, err)
	assert.Equal(t, NewVersionSet("6.0.X", "6.5.X", "7.0.X"), got)
}

func TestExtractVersions_Duplicates(t *testing.T) {
	got, err := ExtractVersions(`SUPPORTED_VERSIONS_LIST = ['6.0.X', "6.0.X", 'bogus']`, DefaultMarker)
	require.NoError(t, err)
	assert.Equal(t, NewVersionSet("6.0.X", "bogus"), got)
}

func TestExtractVersions_NotFound(t *testing.T) {
	_, err := ExtractVersions("nothing here", DefaultMarker)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVersionFromFilename(t *testing.T) {
	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{"6.0.0.xml", "6.0.X", true},
		{"6.5.1-MP1.xml", "6.5.X", true},
		{"7.0.0.xml", "7.0.X", true},
		{"7.6.10", "7.6.X", true},
		{"7.2.0-MP3.xml", "7.2.X", true},
		{"basestar-a1.xml", "", false},
		{"7.0.xml", "", false},
		{"v7.0.0.xml", "", false},
		{"README.md", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, ok := VersionFromFilename(tt.name)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, k.String())
			}
		})
	}
}
