package reconcile

// Result describes one reconciliation pass.
type Result struct {
	Declared []string `json:"declared" yaml:"declared"`
	Floor    string   `json:"floor" yaml:"floor"`
	Manifest []string `json:"manifest" yaml:"manifest"`
	Missing  []string `json:"missing" yaml:"missing"`
	Changed  bool     `json:"changed" yaml:"changed"`
	Updated  string   `json:"-" yaml:"-"`
}

// Reconcile runs a full pass: read the declared list from text, derive the
// floor, keep candidate versions at or above it and, when some are missing,
// merge them into the list. Updated equals text when nothing is missing.
func Reconcile(text, marker string, candidates []string, warn WarnFunc) (*Result, error) {
	declared, err := ExtractVersions(text, marker)
	if err != nil {
		return nil, err
	}
	floor, err := Minimum(declared, warn)
	if err != nil {
		return nil, err
	}
	manifest := FilterAtOrAbove(candidates, floor)
	missing := Missing(manifest, declared)

	res := &Result{
		Declared: SortForDisplay(declared),
		Floor:    floor.String(),
		Manifest: SortForDisplay(manifest),
		Missing:  SortForDisplay(missing),
		Updated:  text,
	}
	if missing.Len() == 0 {
		return res, nil
	}
	updated, err := MergeAndReserialize(text, marker, missing)
	if err != nil {
		return nil, err
	}
	res.Updated = updated
	res.Changed = updated != text
	return res, nil
}
