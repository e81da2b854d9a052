// Package reconcile keeps a declared list of supported version prefixes in
// step with the versions found among released manifest files.
//
// Versions are two-component prefixes written as "MAJOR.MINOR.X". A pass
// reads the declared list out of arbitrary text, takes its minimum as the
// floor, maps manifest file names to prefixes at or above that floor and
// splices any missing ones back into the list. Bytes outside the list
// interior are never touched.
//
// Per-item parse failures inside a collection are reported through a
// WarnFunc and skipped. A missing list, or a list without a single valid
// version, fails the whole pass.
package reconcile
