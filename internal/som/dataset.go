package som

// Dataset is an ordered collection of records.
type Dataset struct {
	records []*Record
}

// NewDataset creates a new dataset with the given records.
func NewDataset(records ...*Record) *Dataset {
	rr := make([]*Record, len(records))
	copy(rr, records)
	return &Dataset{records: rr}
}

// Add appends a record to the dataset.
func (d *Dataset) Add(record *Record) *Dataset {
	d.records = append(d.records, record)
	return d
}

// Size returns the number of records.
func (d *Dataset) Size() int {
	return len(d.records)
}

// IsEmpty checks if the dataset has no records.
func (d *Dataset) IsEmpty() bool {
	return len(d.records) == 0
}

// Get returns the record at the given index.
func (d *Dataset) Get(i int) *Record {
	return d.records[i]
}

// Remove removes the record at the given index and returns it.
// The order of the remaining records is preserved.
func (d *Dataset) Remove(i int) *Record {
	r := d.records[i]
	copy(d.records[i:], d.records[i+1:])
	d.records[len(d.records)-1] = nil
	d.records = d.records[:len(d.records)-1]
	return r
}

// Clone creates a copy of the dataset that can be mutated independently.
// Records are shared between the copies.
func (d *Dataset) Clone() *Dataset {
	return NewDataset(d.records...)
}

// Records returns a copy of the records slice.
func (d *Dataset) Records() []*Record {
	rr := make([]*Record, len(d.records))
	copy(rr, d.records)
	return rr
}
