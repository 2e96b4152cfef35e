// Package huffcodec implements a byte-oriented Huffman file codec.  The
// compressed form is a small frequency header followed by the bit-packed
// Huffman codes of every input byte.  The decoder rebuilds the exact same tree
// from the header, so the code table itself is never transmitted.
//
// References:
//
//     <https://en.wikipedia.org/wiki/Huffman_coding>
//
package huffcodec
