package huffcodec

import (
	"errors"
	"math/rand"
)

var errInjected = errors.New("injected failure")

// failWriter accepts limit bytes and then fails.
type failWriter struct {
	limit int
}

func (w *failWriter) Write(p []byte) (int, error) {
	if len(p) <= w.limit {
		w.limit -= len(p)
		return len(p), nil
	}
	n := w.limit
	w.limit = 0
	return n, errInjected
}

// failReader returns its data and then fails instead of reporting io.EOF.
type failReader struct {
	data []byte
}

func (r *failReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, errInjected
	}
	n := copy(p, r.data)
	r.data = r.data[n:]
	return n, nil
}

func makeFreq(pairs map[byte]uint64) FrequencyTable {
	var freq FrequencyTable
	for symbol, count := range pairs {
		freq[symbol] = count
	}
	return freq
}

func randomFreq(rng *rand.Rand, numSymbols int, maxCount int) FrequencyTable {
	var freq FrequencyTable
	for _, index := range rng.Perm(NumSymbols)[:numSymbols] {
		freq[index] = uint64(1 + rng.Intn(maxCount))
	}
	return freq
}

func randomBytes(rng *rand.Rand, size int, alphabet int) []byte {
	out := make([]byte, size)
	for i := range out {
		// skew towards low values so the codes have varied lengths
		out[i] = byte(rng.Intn(1+rng.Intn(alphabet)) % NumSymbols)
	}
	return out
}
