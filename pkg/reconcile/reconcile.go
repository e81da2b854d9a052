package reconcile

import (
	"math"
	"sort"
)

// WarnFunc receives per-item problems that are skipped rather than returned.
type WarnFunc func(version string, err error)

// sentinel sorts after every valid key.
var sentinel = Key{Major: math.MaxInt, Minor: math.MaxInt}

// Minimum returns the smallest valid key in versions. Members that fail to
// parse are reported to warn, once each, and skipped.
func Minimum(versions VersionSet, warn WarnFunc) (Key, error) {
	if versions.Len() == 0 {
		return Key{}, ErrEmptySet
	}
	var (
		floor Key
		found bool
	)
	for _, v := range versions.Slice() {
		k, err := ParseKey(v)
		if err != nil {
			if warn != nil {
				warn(v, err)
			}
			continue
		}
		if !found || k.Less(floor) {
			floor, found = k, true
		}
	}
	if !found {
		return Key{}, ErrNoValidVersions
	}
	return floor, nil
}

// FilterAtOrAbove maps manifest file names to canonical version strings,
// keeping those at or above floor. Names without a version are dropped.
func FilterAtOrAbove(candidates []string, floor Key) VersionSet {
	out := make(VersionSet)
	for _, name := range candidates {
		k, ok := VersionFromFilename(name)
		if !ok {
			continue
		}
		if k.Compare(floor) >= 0 {
			out.Add(k.String())
		}
	}
	return out
}

// Missing returns the manifest versions absent from the declared set.
func Missing(manifest, declared VersionSet) VersionSet {
	return manifest.Difference(declared)
}

// SortForDisplay orders versions ascending by key. Entries that do not parse
// sort after all valid keys, ordered among themselves by string.
func SortForDisplay(versions VersionSet) []string {
	out := versions.Slice()
	keys := make(map[string]Key, len(out))
	for _, v := range out {
		k, err := ParseKey(v)
		if err != nil {
			k = sentinel
		}
		keys[v] = k
	}
	sort.SliceStable(out, func(i, j int) bool {
		return keys[out[i]].Less(keys[out[j]])
	})
	return out
}
