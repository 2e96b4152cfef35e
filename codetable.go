package huffcodec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/chronos-tachyon/assert"
)

// CodeTable maps each Symbol of a Tree to its Code.
type CodeTable struct {
	codes     [NumSymbols]Code
	totalBits uint64
	minSize   byte
	maxSize   byte
}

// NewCodeTable assigns a Code to every leaf of the given tree: 0 for each
// left edge and 1 for each right edge on the path from the root.
//
// A tree that consists of a single leaf still needs a non-empty code, so that
// leaf is assigned the one-bit Code "0".
//
func NewCodeTable(t *Tree) CodeTable {
	var ct CodeTable
	root := t.Node(t.Root())
	if root.IsLeaf() {
		ct.record(root, MakeCode(1, 0))
		return ct
	}
	ct.walk(t, t.Root(), Code{})
	return ct
}

func (ct *CodeTable) walk(t *Tree, id NodeID, hc Code) {
	n := t.nodes[id]
	if n.IsLeaf() {
		ct.record(n, hc)
		return
	}
	ct.walk(t, n.Left, hc.Append(false))
	ct.walk(t, n.Right, hc.Append(true))
}

func (ct *CodeTable) record(n Node, hc Code) {
	assert.Assertf(n.Symbol.IsValid(), "leaf carries invalid symbol %d", n.Symbol)
	assert.Assertf(hc.Size != 0, "empty code for symbol %d", n.Symbol)
	ct.codes[n.Symbol] = hc
	ct.totalBits = addSaturating(ct.totalBits, uint64(hc.Size)*n.Freq)
	if ct.minSize == 0 || ct.minSize > hc.Size {
		ct.minSize = hc.Size
	}
	if ct.maxSize < hc.Size {
		ct.maxSize = hc.Size
	}
}

// Code returns the Code for the given Symbol.  Symbols that were not present
// in the tree have a zero-length Code.
func (ct *CodeTable) Code(symbol Symbol) Code {
	assert.Assertf(symbol.IsValid(), "symbol %d out of range", symbol)
	return ct.codes[symbol]
}

// TotalBits is the sum, over every leaf, of its code length times its
// frequency.  It is exactly the length of the encoded payload before padding.
func (ct *CodeTable) TotalBits() uint64 {
	return ct.totalBits
}

// MinSize is the bit length of the shortest code.
func (ct *CodeTable) MinSize() byte {
	return ct.minSize
}

// MaxSize is the bit length of the longest code.
func (ct *CodeTable) MaxSize() byte {
	return ct.maxSize
}

// Dump writes a programmer-readable debugging dump of the code table to the
// given writer.  Symbols without a code are omitted.
func (ct *CodeTable) Dump(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString("CodeTable{\n")
	fmt.Fprintf(&buf, "\tMinSize() = %d\n", ct.minSize)
	fmt.Fprintf(&buf, "\tMaxSize() = %d\n", ct.maxSize)
	fmt.Fprintf(&buf, "\tTotalBits() = %d\n", ct.totalBits)
	for symbol := Symbol(0); symbol <= MaxSymbol; symbol++ {
		hc := ct.codes[symbol]
		if hc.Size == 0 {
			continue
		}
		fmt.Fprintf(&buf, "\tCode(%d %q) = %s\n", symbol, byte(symbol), hc)
	}
	buf.WriteString("}\n")
	return buf.WriteTo(w)
}
