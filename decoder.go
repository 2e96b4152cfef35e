package huffcodec

import (
	"fmt"
	"io"

	"github.com/chronos-tachyon/assert"
)

// Decoder turns Huffman-coded bits back into bytes.
type Decoder struct {
	tree  *Tree
	total uint64
}

// Init initializes this Decoder by rebuilding the Huffman tree for the given
// frequencies.  Given the same frequencies as an Encoder, it rebuilds the
// identical tree.
func (d *Decoder) Init(freq *FrequencyTable) error {
	tree, err := BuildTree(freq)
	if err != nil {
		return err
	}
	*d = Decoder{
		tree:  tree,
		total: freq.Total(),
	}
	return nil
}

// Tree returns the Huffman tree this Decoder walks.
func (d *Decoder) Tree() *Tree {
	return d.tree
}

// Total returns the number of symbols in a complete stream, i.e. the sum of
// the frequencies the Decoder was initialized with.
func (d *Decoder) Total() uint64 {
	return d.total
}

// DecodeSymbol reads bits from br, walking from the root towards a leaf, and
// returns the Symbol of the leaf it reaches.
func (d *Decoder) DecodeSymbol(br *BitReader) (Symbol, error) {
	assert.Assertf(d.tree != nil, "Decoder used before Init")

	id := d.tree.Root()
	n := d.tree.nodes[id]
	if n.IsLeaf() {
		bit, err := br.ReadBit()
		if err != nil {
			return InvalidSymbol, payloadError(err, 0)
		}
		if bit {
			return InvalidSymbol, fmt.Errorf("%w: unexpected 1 bit in single-symbol stream", ErrCorruptPayload)
		}
		return n.Symbol, nil
	}

	for depth := 0; !n.IsLeaf(); depth++ {
		bit, err := br.ReadBit()
		if err != nil {
			return InvalidSymbol, payloadError(err, depth)
		}
		id = d.tree.Step(id, bit)
		n = d.tree.nodes[id]
	}
	return n.Symbol, nil
}

// DecodeTo decodes exactly Total() symbols from br and writes them to w.
// Bits after the last symbol, such as the final byte's padding, are never
// read.  It returns the number of bytes written to w.
//
// On failure, w may have received part of the output.
//
func (d *Decoder) DecodeTo(w io.Writer, br *BitReader) (int64, error) {
	var buf [32 * 1024]byte
	var written int64
	var n int

	flush := func() error {
		m, err := w.Write(buf[:n])
		written += int64(m)
		n = 0
		return writeError(err)
	}

	for count := uint64(0); count < d.total; count++ {
		symbol, err := d.DecodeSymbol(br)
		if err != nil {
			return written, fmt.Errorf("after %d of %d symbols: %w", count, d.total, err)
		}
		buf[n] = byte(symbol)
		n++
		if n == len(buf) {
			if err := flush(); err != nil {
				return written, err
			}
		}
	}
	if n > 0 {
		if err := flush(); err != nil {
			return written, err
		}
	}
	return written, nil
}

// Dump writes a programmer-readable debugging dump of the Decoder's current
// state to the given writer.
func (d *Decoder) Dump(w io.Writer) (int64, error) {
	if d.tree == nil {
		return 0, nil
	}
	return d.tree.Dump(w)
}

func payloadError(err error, depth int) error {
	if err != io.EOF {
		return err
	}
	if depth == 0 {
		return fmt.Errorf("%w: payload ended", ErrCorruptPayload)
	}
	return fmt.Errorf("%w: payload ended mid-symbol", ErrCorruptPayload)
}
