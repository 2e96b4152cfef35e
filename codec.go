package huffcodec

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

// Stats summarizes one compression run.
type Stats struct {
	// Symbols is the number of distinct byte values in the input.
	Symbols int

	// HeaderBytes is the size of the frequency header.
	HeaderBytes int

	// InputBits is the size of the input at 8 bits per byte.
	InputBits uint64

	// OutputBits is the size of the packed payload, not counting the
	// padding in its final byte.
	OutputBits uint64
}

// PayloadBytes returns the size of the packed payload, padding included.
func (s Stats) PayloadBytes() uint64 {
	return (s.OutputBits + 7) / 8
}

// Ratio returns the size of the complete output, header included, as a
// fraction of the size of the input.
func (s Stats) Ratio() float64 {
	if s.InputBits == 0 {
		return 0
	}
	return float64(uint64(s.HeaderBytes)+s.PayloadBytes()) * 8 / float64(s.InputBits)
}

// String returns a one-line human-readable summary.
func (s Stats) String() string {
	return fmt.Sprintf("%d symbols, %d input bits, %d output bits, %d header bytes, %d payload bytes, ratio %.3f",
		s.Symbols, s.InputBits, s.OutputBits, s.HeaderBytes, s.PayloadBytes(), s.Ratio())
}

var _ fmt.Stringer = Stats{}

// Compress encodes data and returns the frequency header and the packed
// payload separately.  Writing header followed by packed produces the same
// bytes as CompressTo.
func Compress(data []byte) (header []byte, packed []byte, stats Stats, err error) {
	var freq FrequencyTable
	freq.Add(data)

	var e Encoder
	if err = e.Init(&freq); err != nil {
		return nil, nil, Stats{}, err
	}

	var hbuf bytes.Buffer
	if _, err = WriteHeader(&hbuf, &freq); err != nil {
		return nil, nil, Stats{}, err
	}

	var pbuf bytes.Buffer
	pbuf.Grow(int((e.codes.TotalBits() + 7) / 8))
	bw := NewBitWriter(&pbuf)
	if err = e.EncodeBytes(bw, data); err != nil {
		return nil, nil, Stats{}, err
	}
	if err = bw.Flush(); err != nil {
		return nil, nil, Stats{}, err
	}
	e.checkConservation(bw)

	stats = makeStats(&freq, hbuf.Len(), bw)
	return hbuf.Bytes(), pbuf.Bytes(), stats, nil
}

// CompressTo encodes everything src produces from its current offset and
// writes the header followed by the packed payload to dst.  The source is
// read twice: once to count frequencies, then again, after seeking back, to
// encode.
//
// On failure, dst may hold a partial header or payload, which is not a valid
// compressed stream.
//
func CompressTo(dst io.Writer, src io.ReadSeeker) (Stats, error) {
	start, err := src.Seek(0, io.SeekCurrent)
	if err != nil {
		return Stats{}, readError(err)
	}

	var freq FrequencyTable
	if _, err = freq.ReadFrom(src); err != nil {
		return Stats{}, err
	}
	if _, err = src.Seek(start, io.SeekStart); err != nil {
		return Stats{}, readError(err)
	}

	var e Encoder
	if err = e.Init(&freq); err != nil {
		return Stats{}, err
	}

	headerBytes, err := WriteHeader(dst, &freq)
	if err != nil {
		return Stats{}, err
	}

	var seen FrequencyTable
	bw := NewBitWriter(dst)
	if _, err = e.EncodeFrom(bw, io.TeeReader(src, &seen)); err != nil {
		if errors.Is(err, ErrUnknownSymbol) {
			return Stats{}, fmt.Errorf("%w: new byte value on second pass", ErrSourceChanged)
		}
		return Stats{}, err
	}
	if seen != freq {
		return Stats{}, fmt.Errorf("%w: %d bytes on first pass, %d on second", ErrSourceChanged, freq.Total(), seen.Total())
	}
	if err = bw.Flush(); err != nil {
		return Stats{}, err
	}
	e.checkConservation(bw)

	return makeStats(&freq, headerBytes, bw), nil
}

// Decompress reverses Compress.  The header must contain nothing but the
// frequency header; packed may carry trailing bytes, which are ignored.
func Decompress(header []byte, packed []byte) ([]byte, error) {
	hr := bytes.NewReader(header)
	freq, err := ReadHeader(hr)
	if err != nil {
		return nil, err
	}
	if hr.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrHeaderCorrupt, hr.Len())
	}

	var d Decoder
	if err = d.Init(&freq); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if total := d.Total(); total <= uint64(maxPrealloc) {
		out.Grow(int(total))
	}
	if _, err = d.DecodeTo(&out, NewBitReader(bytes.NewReader(packed))); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// DecompressFrom reads a header and packed payload, as written by
// CompressTo, from src and writes the recovered bytes to dst.  It returns the
// number of bytes written.
//
// src is read through a bufio.Reader, so it may be consumed past the end of
// the payload.
//
func DecompressFrom(dst io.Writer, src io.Reader) (int64, error) {
	br := bufio.NewReader(src)
	freq, err := ReadHeader(br)
	if err != nil {
		return 0, err
	}

	var d Decoder
	if err = d.Init(&freq); err != nil {
		return 0, err
	}
	return d.DecodeTo(dst, NewBitReader(br))
}

// maxPrealloc bounds how much output Decompress allocates up front on the
// word of an unverified header.
const maxPrealloc = 64 << 20

func makeStats(freq *FrequencyTable, headerBytes int, bw *BitWriter) Stats {
	return Stats{
		Symbols:     freq.Len(),
		HeaderBytes: headerBytes,
		InputBits:   freq.Total() * 8,
		OutputBits:  bw.BitsWritten(),
	}
}
