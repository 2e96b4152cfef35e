package huffcodec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// pairSize is the encoded size of one (symbol, frequency) header entry.
const pairSize = 1 + 4

// HeaderSize returns the encoded size, in bytes, of a header declaring the
// given number of distinct symbols.
func HeaderSize(numSymbols int) int {
	return 1 + pairSize*numSymbols
}

// WriteHeader serializes the non-zero entries of the frequency table.
//
// The header is a 1-byte count of distinct symbols followed by that many
// (symbol, frequency) pairs, each a 1-byte symbol and a 4-byte little-endian
// frequency, in ascending symbol order.  A count of 256 does not fit in a
// byte, so it is written as 0; a lone 0 byte with no pairs after it instead
// declares an empty alphabet, which WriteHeader never produces.
//
func WriteHeader(w io.Writer, freq *FrequencyTable) (int, error) {
	symbols := freq.Symbols()
	if len(symbols) == 0 {
		return 0, ErrEmptyInput
	}

	buf := make([]byte, HeaderSize(len(symbols)))
	buf[0] = byte(len(symbols))
	p := buf[1:]
	for _, symbol := range symbols {
		count := freq[symbol]
		if count > math.MaxUint32 {
			return 0, fmt.Errorf("%w: symbol %d occurs %d times, max %d", ErrInputTooLarge, symbol, count, uint64(math.MaxUint32))
		}
		p[0] = byte(symbol)
		binary.LittleEndian.PutUint32(p[1:pairSize], uint32(count))
		p = p[pairSize:]
	}

	n, err := w.Write(buf)
	return n, writeError(err)
}

// ReadHeader parses a header written by WriteHeader and returns the
// frequency table it describes.  Pairs may appear in any order.
func ReadHeader(r io.Reader) (FrequencyTable, error) {
	var freq FrequencyTable

	var countBuf [1]byte
	if _, err := io.ReadFull(r, countBuf[:]); err != nil {
		return freq, headerReadError(err, "missing symbol count")
	}

	count := int(countBuf[0])
	var pair [pairSize]byte
	for index := 0; count == 0 || index < count; index++ {
		n, err := io.ReadFull(r, pair[:])
		if count == 0 {
			if n == 0 && errors.Is(err, io.EOF) {
				return freq, fmt.Errorf("%w: header declares zero symbols", ErrEmptyInput)
			}
			count = NumSymbols
		}
		if err != nil {
			return freq, headerReadError(err, fmt.Sprintf("expected %d symbols, got %d", count, index))
		}

		symbol := Symbol(pair[0])
		value := uint64(binary.LittleEndian.Uint32(pair[1:]))
		if value == 0 {
			return freq, fmt.Errorf("%w: symbol %d has frequency 0", ErrHeaderCorrupt, symbol)
		}
		if freq.Count(symbol) != 0 {
			return freq, fmt.Errorf("%w: duplicate symbol %d", ErrHeaderCorrupt, symbol)
		}
		freq.Set(symbol, value)
	}
	return freq, nil
}

func headerReadError(err error, detail string) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %s", ErrHeaderCorrupt, detail)
	}
	return readError(err)
}
