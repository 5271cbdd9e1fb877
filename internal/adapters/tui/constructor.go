// Package tui provides the interactive cache inspector.
package tui

// NewModel creates an inspector over buckets. The bucket named current is
// highlighted as the live generation.
func NewModel(buckets []Bucket, current string) Model {
	return Model{
		Buckets: buckets,
		Current: current,
	}
}
