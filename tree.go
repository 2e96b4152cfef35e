package huffcodec

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/chronos-tachyon/assert"
)

// NodeID identifies a Node within its Tree.
type NodeID int32

// NoNode is the NodeID of a missing child.
const NoNode = NodeID(-1)

// Node is either a leaf, holding a Symbol and its frequency, or an internal
// node, holding the sum of its two children's frequencies.
type Node struct {
	Symbol Symbol
	Freq   uint64
	Left   NodeID
	Right  NodeID
}

// IsLeaf returns true if this Node has no children.
func (n Node) IsLeaf() bool {
	return n.Left == NoNode && n.Right == NoNode
}

// Tree is a Huffman tree.  Nodes live in a single arena owned by the Tree and
// refer to their children by index; every node except the root has exactly
// one parent, so the structure is a plain hierarchy.
type Tree struct {
	nodes     []Node
	root      NodeID
	numLeaves int
}

// BuildTree constructs the Huffman tree for the given frequencies.
//
// One leaf is created for each Symbol with a non-zero frequency, in ascending
// Symbol order.  The two lowest-frequency nodes are then merged repeatedly,
// the first one extracted becoming the left child, until a single root
// remains.  Ties are broken by Symbol for leaves and by creation order for
// internal nodes, with leaves winning over internal nodes, so the shape of
// the tree depends only on the frequency table.
//
// If only one Symbol is present, the tree is a single leaf.
//
func BuildTree(freq *FrequencyTable) (*Tree, error) {
	numLeaves := freq.Len()
	if numLeaves == 0 {
		return nil, ErrEmptyInput
	}

	t := &Tree{
		nodes:     make([]Node, 0, 2*numLeaves-1),
		root:      NoNode,
		numLeaves: numLeaves,
	}
	q := newNodeQueue(t, maxQueueLen)

	for _, symbol := range freq.Symbols() {
		id := t.addNode(Node{Symbol: symbol, Freq: freq[symbol], Left: NoNode, Right: NoNode})
		if err := q.insert(id); err != nil {
			return nil, err
		}
	}

	for q.Len() > 1 {
		left, _ := q.extractMin()
		right, _ := q.extractMin()
		id := t.addNode(Node{
			Symbol: InvalidSymbol,
			Freq:   addSaturating(t.nodes[left].Freq, t.nodes[right].Freq),
			Left:   left,
			Right:  right,
		})
		if err := q.insert(id); err != nil {
			return nil, err
		}
	}

	root, ok := q.extractMin()
	assert.Assertf(ok, "node queue unexpectedly empty")
	assert.Assertf(len(t.nodes) == 2*numLeaves-1, "tree has %d nodes, expected %d", len(t.nodes), 2*numLeaves-1)
	t.root = root
	return t, nil
}

// Root returns the NodeID of the root node.
func (t *Tree) Root() NodeID {
	return t.root
}

// Node returns the node with the given NodeID.
func (t *Tree) Node(id NodeID) Node {
	assert.Assertf(id >= 0 && int(id) < len(t.nodes), "NodeID %d out of range [0..%d)", id, len(t.nodes))
	return t.nodes[id]
}

// Len returns the total number of nodes in the tree.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// NumLeaves returns the number of leaf nodes, i.e. distinct symbols.
func (t *Tree) NumLeaves() int {
	return t.numLeaves
}

// Step follows the left (false) or right (true) edge out of the given
// internal node.
func (t *Tree) Step(id NodeID, bit bool) NodeID {
	n := t.Node(id)
	assert.Assertf(!n.IsLeaf(), "Step from leaf node %d", id)
	if bit {
		return n.Right
	}
	return n.Left
}

// Dump writes a programmer-readable debugging dump of the tree to the given
// writer, one line per level, in breadth-first order.
func (t *Tree) Dump(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString("Tree{\n")
	level := []NodeID{t.root}
	for depth := 0; len(level) != 0; depth++ {
		var next []NodeID
		parts := make([]string, 0, len(level))
		for _, id := range level {
			n := t.nodes[id]
			parts = append(parts, n.String())
			if !n.IsLeaf() {
				next = append(next, n.Left, n.Right)
			}
		}
		fmt.Fprintf(&buf, "\tLevel(%d) = %s\n", depth, strings.Join(parts, " "))
		level = next
	}
	buf.WriteString("}\n")
	return buf.WriteTo(w)
}

// String returns the string representation of this Node.
func (n Node) String() string {
	if n.IsLeaf() {
		return fmt.Sprintf("%q:%d", byte(n.Symbol), n.Freq)
	}
	return fmt.Sprintf("*:%d", n.Freq)
}

var _ fmt.Stringer = Node{}

func (t *Tree) addNode(n Node) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, n)
	return id
}

// orderKey breaks frequency ties in the node queue.
func (t *Tree) orderKey(id NodeID) int {
	if n := t.nodes[id]; n.IsLeaf() {
		return int(n.Symbol)
	}
	return NumSymbols + int(id)
}
