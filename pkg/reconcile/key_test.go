package reconcile

import (
	"errors"
	"testing"
)

func TestParseKey_RoundTrip(t *testing.T) {
	for _, s := range []string{"0.0.X", "6.0.X", "6.5.X", "7.10.X", "10.2.X", "123.456.X"} {
		k, err := ParseKey(s)
		if err != nil {
			t.Fatalf("ParseKey(%q) failed: %v", s, err)
		}
		if got := k.String(); got != s {
			t.Errorf("ParseKey(%q).String() = %q", s, got)
		}
	}
}

func TestParseKey_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"two components", "6.5"},
		{"four components", "6.5.X.1"},
		{"numeric third", "6.5.1"},
		{"lowercase wildcard", "6.5.x"},
		{"non numeric major", "a.5.X"},
		{"non numeric minor", "6.b.X"},
		{"negative minor", "6.-1.X"},
		{"signed major", "+6.5.X"},
		{"empty major", ".5.X"},
		{"bogus", "bogus"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseKey(tt.input)
			if err == nil {
				t.Fatalf("ParseKey(%q) expected error", tt.input)
			}
			if !errors.Is(err, ErrFormat) {
				t.Errorf("expected ErrFormat, got %v", err)
			}
			var fe *FormatError
			if !errors.As(err, &fe) || fe.Input != tt.input {
				t.Errorf("expected *FormatError carrying input %q, got %#v", tt.input, err)
			}
		})
	}
}

func TestKeyCompare(t *testing.T) {
	tests := []struct {
		a, b Key
		want int
	}{
		{Key{6, 0}, Key{6, 0}, 0},
		{Key{6, 0}, Key{6, 5}, -1},
		{Key{6, 5}, Key{7, 0}, -1},
		{Key{7, 0}, Key{6, 5}, 1},
		{Key{7, 10}, Key{7, 2}, 1},
	}
	for _, tt := range tests {
		if got := tt.a.Compare(tt.b); got != tt.want {
			t.Errorf("%v.Compare(%v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
		if got := tt.a.Less(tt.b); got != (tt.want < 0) {
			t.Errorf("%v.Less(%v) = %v", tt.a, tt.b, got)
		}
	}
}

func TestFormatKey(t *testing.T) {
	if got := FormatKey(7, 6); got != "7.6.X" {
		t.Errorf("FormatKey(7, 6) = %q", got)
	}
}
