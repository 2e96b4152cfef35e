package huffcodec

import (
	"errors"
	"io"

	"github.com/icza/bitio"
)

// BitWriter packs individual bits, most significant bit first, into the bytes
// of an underlying io.Writer.  Each compression run owns its own BitWriter.
type BitWriter struct {
	w     *bitio.Writer
	count uint64
}

// NewBitWriter returns a BitWriter that emits whole bytes to w.  Flush must
// be called once at the end of the stream.
func NewBitWriter(w io.Writer) *BitWriter {
	return &BitWriter{w: bitio.NewWriter(w)}
}

// WriteBit appends one bit: 1 if bit is true, 0 otherwise.
func (bw *BitWriter) WriteBit(bit bool) error {
	if err := bw.w.WriteBool(bit); err != nil {
		return writeError(err)
	}
	bw.count++
	return nil
}

// WriteCode appends every bit of hc, first bit first.
func (bw *BitWriter) WriteCode(hc Code) error {
	if err := bw.w.WriteBits(hc.Bits, hc.Size); err != nil {
		return writeError(err)
	}
	bw.count += uint64(hc.Size)
	return nil
}

// Flush emits the final partial byte, if any, with its low-order bits set to
// 0, and flushes any buffering between the BitWriter and its io.Writer.
func (bw *BitWriter) Flush() error {
	return writeError(bw.w.Close())
}

// BitsWritten returns the number of bits written so far, not counting
// padding.
func (bw *BitWriter) BitsWritten() uint64 {
	return bw.count
}

// BytesWritten returns the number of bytes the bits written so far occupy
// once padded.
func (bw *BitWriter) BytesWritten() uint64 {
	return (bw.count + 7) / 8
}

// BitReader unpacks individual bits, most significant bit first, from the
// bytes of an underlying io.Reader.  Each decompression run owns its own
// BitReader.
type BitReader struct {
	r     *bitio.Reader
	count uint64
}

// NewBitReader returns a BitReader that pulls whole bytes from r as needed.
// If r is not an io.ByteReader, it is wrapped in a bufio.Reader and may be
// read past the last bit consumed.
func NewBitReader(r io.Reader) *BitReader {
	return &BitReader{r: bitio.NewReader(r)}
}

// ReadBit returns the next bit.  It returns io.EOF once the underlying reader
// has no more bytes.
func (br *BitReader) ReadBit() (bool, error) {
	bit, err := br.r.ReadBool()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return false, io.EOF
		}
		return false, readError(err)
	}
	br.count++
	return bit, nil
}

// BitsRead returns the number of bits read so far.
func (br *BitReader) BitsRead() uint64 {
	return br.count
}
