package config

import (
	"strings"
	"testing"
)

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"empty", "", ""},
		{"full", `
manifest:
  repo: couchbase/manifest
  ref: master
  subdir: released/couchbase-server
  pattern: "*.xml"
  depth: 1
  validate_xml: true
  concurrency: 4
  timeout: 2m30s
target:
  repo_root: ..
  file: cb-non-package-installer
  marker: SUPPORTED_VERSIONS_LIST
git:
  stage: true
  commit: true
  commit_message: "Add {{#each versions}}{{this}}{{/each}}"
`, ""},
		{"json input", `{"target": {"file": "installer"}}`, ""},
		{"unknown top-level key", "format:\n  go: true\n", "format"},
		{"unknown nested key", "git:\n  push: true\n", "push"},
		{"bad type", "manifest:\n  validate_xml: \"yes\"\n", "validate_xml"},
		{"bad marker", "target:\n  marker: \"not a name\"\n", "marker"},
		{"bad timeout", "manifest:\n  timeout: soon\n", "timeout"},
		{"zero concurrency", "manifest:\n  concurrency: 0\n", "concurrency"},
		{"malformed yaml", "manifest: [\n", "parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConfig([]byte(tt.data))
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
