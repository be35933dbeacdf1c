package som

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Node is a single cell of the map grid.
// It keeps the prototype vector and the records it is currently the best match for.
type Node struct {
	Row int
	Col int

	index     int
	prototype []float64

	// members is kept as a slice for a stable iteration order,
	// positions allows toggling membership in constant time.
	members   []*Record
	positions map[*Record]int

	// rep is the member closest to the prototype at the time it was added.
	rep     *Record
	repDist float64
}

func newNode(row, col, index, size int) *Node {
	return &Node{
		Row:       row,
		Col:       col,
		index:     index,
		prototype: make([]float64, size),
		members:   make([]*Record, 0),
		positions: make(map[*Record]int),
		repDist:   math.MaxFloat64,
	}
}

// Index returns the position of the node in the row-major arena of the map.
func (n *Node) Index() int {
	return n.index
}

// Prototype returns the prototype vector of the node.
// The returned slice must not be modified.
func (n *Node) Prototype() []float64 {
	return n.prototype
}

// Distance computes the squared euclidean distance between the prototype and the given features.
func (n *Node) Distance(features []float64) float64 {
	var sum float64
	for i := 0; i < len(n.prototype); i++ {
		d := n.prototype[i] - features[i]
		sum += d * d
	}
	return sum
}

// Update moves the prototype towards the given features.
func (n *Node) Update(features []float64, learningRate, influence float64) {
	diff := make([]float64, len(n.prototype))
	floats.SubTo(diff, features, n.prototype)
	floats.AddScaled(n.prototype, learningRate*influence, diff)
}

func (n *Node) initPrototype(v float64) {
	for i := range n.prototype {
		n.prototype[i] = v
	}
}

// Size returns the number of records assigned to the node.
func (n *Node) Size() int {
	return len(n.members)
}

// Records returns the records currently assigned to the node.
func (n *Node) Records() []*Record {
	rr := make([]*Record, len(n.members))
	copy(rr, n.members)
	return rr
}

// Representative returns the member closest to the prototype and its cached distance.
func (n *Node) Representative() (*Record, float64, bool) {
	if n.rep == nil {
		return nil, 0, false
	}
	return n.rep, n.repDist, true
}

func (n *Node) has(record *Record) bool {
	_, ok := n.positions[record]
	return ok
}

func (n *Node) add(record *Record) {
	if _, ok := n.positions[record]; ok {
		return
	}
	d := n.Distance(record.features)
	if n.rep == nil || d < n.repDist {
		n.rep = record
		n.repDist = d
	}
	n.positions[record] = len(n.members)
	n.members = append(n.members, record)
	record.bmu = n.index
}

func (n *Node) remove(record *Record) {
	p, ok := n.positions[record]
	if !ok {
		return
	}
	last := len(n.members) - 1
	if p != last {
		moved := n.members[last]
		n.members[p] = moved
		n.positions[moved] = p
	}
	n.members[last] = nil
	n.members = n.members[:last]
	delete(n.positions, record)
	if record.bmu == n.index {
		record.bmu = unassigned
	}
	if record == n.rep {
		n.refreshRep()
	}
}

func (n *Node) refreshRep() {
	n.rep = nil
	n.repDist = math.MaxFloat64
	for _, record := range n.members {
		d := n.Distance(record.features)
		if n.rep == nil || d < n.repDist {
			n.rep = record
			n.repDist = d
		}
	}
}
