package huffcodec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/chronos-tachyon/assert"
)

// FrequencyTable records the number of occurrences of each Symbol.  Every
// byte value is counted, newlines included, so Total always equals the number
// of bytes that were added.
type FrequencyTable [NumSymbols]uint64

// Add counts every byte in p.
func (t *FrequencyTable) Add(p []byte) {
	for _, b := range p {
		t[b]++
	}
}

// Write counts every byte in p.  It implements io.Writer and never fails.
func (t *FrequencyTable) Write(p []byte) (int, error) {
	t.Add(p)
	return len(p), nil
}

// ReadFrom counts every byte produced by r until io.EOF.  It implements
// io.ReaderFrom.
func (t *FrequencyTable) ReadFrom(r io.Reader) (int64, error) {
	var buf [32 * 1024]byte
	var total int64
	for {
		n, err := r.Read(buf[:])
		t.Add(buf[:n])
		total += int64(n)
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, readError(err)
		}
	}
}

// Count returns the frequency of the given Symbol.
func (t *FrequencyTable) Count(symbol Symbol) uint64 {
	assert.Assertf(symbol.IsValid(), "symbol %d out of range", symbol)
	return t[symbol]
}

// Set overwrites the frequency of the given Symbol.
func (t *FrequencyTable) Set(symbol Symbol, freq uint64) {
	assert.Assertf(symbol.IsValid(), "symbol %d out of range", symbol)
	t[symbol] = freq
}

// Len returns the number of distinct symbols with a non-zero frequency.
func (t *FrequencyTable) Len() int {
	var n int
	for _, freq := range t {
		if freq != 0 {
			n++
		}
	}
	return n
}

// Total returns the sum of all frequencies.
func (t *FrequencyTable) Total() uint64 {
	var sum uint64
	for _, freq := range t {
		sum = addSaturating(sum, freq)
	}
	return sum
}

// Symbols lists the symbols with a non-zero frequency, in ascending order.
func (t *FrequencyTable) Symbols() []Symbol {
	out := make([]Symbol, 0, t.Len())
	for symbol, freq := range t {
		if freq != 0 {
			out = append(out, Symbol(symbol))
		}
	}
	return out
}

// Dump writes a programmer-readable debugging dump of the table to the given
// writer.  Symbols with a frequency of 0 are omitted.
func (t *FrequencyTable) Dump(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString("FrequencyTable{\n")
	fmt.Fprintf(&buf, "\tLen() = %d\n", t.Len())
	fmt.Fprintf(&buf, "\tTotal() = %d\n", t.Total())
	for _, symbol := range t.Symbols() {
		fmt.Fprintf(&buf, "\tCount(%d %q) = %d\n", symbol, byte(symbol), t[symbol])
	}
	buf.WriteString("}\n")
	return buf.WriteTo(w)
}

var (
	_ io.Writer     = (*FrequencyTable)(nil)
	_ io.ReaderFrom = (*FrequencyTable)(nil)
)
