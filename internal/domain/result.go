package domain

// PanelResult is the settled outcome of one panel task, keyed by the panel
// index. It only exists during fan-out and is reduced into the job record.
type PanelResult struct {
	Index int
	Path  string
	Err   *Failure
}

// OK reports whether the panel produced a stored image.
func (r PanelResult) OK() bool {
	return r.Err == nil && r.Path != ""
}

// ReducePanels partitions settled results in index order: the ordered paths
// of successful panels and the first failure by lowest panel index. Results
// must be indexed 0..len-1.
func ReducePanels(results []PanelResult) (paths []string, first *Failure) {
	for _, r := range results {
		if r.OK() {
			paths = append(paths, r.Path)
			continue
		}
		if first == nil {
			first = r.Err
		}
	}
	return paths, first
}
