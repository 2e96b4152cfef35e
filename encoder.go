package huffcodec

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/chronos-tachyon/assert"
)

// Encoder turns bytes into Huffman-coded bits.
type Encoder struct {
	tree  *Tree
	codes CodeTable
}

// Init initializes this Encoder by building the Huffman tree and code table
// for the given frequencies.  It fails with ErrEmptyInput if every frequency
// is 0.
func (e *Encoder) Init(freq *FrequencyTable) error {
	tree, err := BuildTree(freq)
	if err != nil {
		return err
	}
	*e = Encoder{
		tree:  tree,
		codes: NewCodeTable(tree),
	}
	return nil
}

// Tree returns the Huffman tree this Encoder was built from.
func (e *Encoder) Tree() *Tree {
	return e.tree
}

// Codes returns the code table this Encoder uses.
func (e *Encoder) Codes() *CodeTable {
	return &e.codes
}

// Encode returns the Code for a Symbol.
func (e *Encoder) Encode(symbol Symbol) Code {
	return e.codes.Code(symbol)
}

// EncodeBytes writes the Code of every byte in p to bw.
func (e *Encoder) EncodeBytes(bw *BitWriter, p []byte) error {
	assert.Assertf(e.tree != nil, "Encoder used before Init")
	for _, b := range p {
		hc := e.codes.codes[b]
		if hc.Size == 0 {
			return fmt.Errorf("%w: %d", ErrUnknownSymbol, b)
		}
		if err := bw.WriteCode(hc); err != nil {
			return err
		}
	}
	return nil
}

// EncodeFrom writes the Code of every byte produced by r, until io.EOF, to
// bw.  It returns the number of bytes consumed from r.
func (e *Encoder) EncodeFrom(bw *BitWriter, r io.Reader) (int64, error) {
	var buf [32 * 1024]byte
	var total int64
	for {
		n, err := r.Read(buf[:])
		if n > 0 {
			if err2 := e.EncodeBytes(bw, buf[:n]); err2 != nil {
				return total, err2
			}
			total += int64(n)
		}
		if errors.Is(err, io.EOF) {
			return total, nil
		}
		if err != nil {
			return total, readError(err)
		}
	}
}

// Dump writes a programmer-readable debugging dump of the Encoder's current
// state to the given writer.
func (e *Encoder) Dump(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	if e.tree != nil {
		_, _ = e.tree.Dump(&buf)
	}
	_, _ = e.codes.Dump(&buf)
	return buf.WriteTo(w)
}

// checkConservation verifies that the payload holds exactly the bits the code
// table accounts for.
func (e *Encoder) checkConservation(bw *BitWriter) {
	assert.Assertf(bw.BitsWritten() == e.codes.TotalBits(), "wrote %d bits, code table accounts for %d", bw.BitsWritten(), e.codes.TotalBits())
}
