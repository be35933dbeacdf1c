package som

// UnknownClass is the label reported for records without a class.
const UnknownClass = "?"

// unassigned marks a record that has not been matched to any node yet.
const unassigned = -1

// Record is a single input sample of the map.
type Record struct {
	features []float64
	label    string
	bmu      int
}

// NewRecord creates a new record for the given feature vector.
// The features are copied, so the caller can re-use the slice.
func NewRecord(features []float64) *Record {
	ff := make([]float64, len(features))
	copy(ff, features)
	return &Record{
		features: ff,
		bmu:      unassigned,
	}
}

// WithLabel sets the class label of the record.
func (r *Record) WithLabel(label string) *Record {
	r.label = label
	return r
}

// Features returns the feature vector of the record.
// The returned slice must not be modified.
func (r *Record) Features() []float64 {
	return r.features
}

// Label returns the class label or UnknownClass if the record has none.
func (r *Record) Label() string {
	if r.label == "" {
		return UnknownClass
	}
	return r.label
}

// BMU returns the arena index of the node holding the record
// in the map that matched it last.
func (r *Record) BMU() (int, bool) {
	return r.bmu, r.bmu != unassigned
}
