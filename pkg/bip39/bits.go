package bip39

import "fmt"

// bitWriter appends values most-significant-bit first to a byte buffer.
// Unused trailing bits of the last byte stay zero.
type bitWriter struct {
	buf []byte
	n   int
}

func newBitWriter(sizeHint int) *bitWriter {
	return &bitWriter{buf: make([]byte, 0, (sizeHint+7)/8)}
}

// writeBits appends the low width bits of v.
func (w *bitWriter) writeBits(v uint16, width int) {
	for i := width - 1; i >= 0; i-- {
		if w.n%8 == 0 {
			w.buf = append(w.buf, 0)
		}
		if (v>>uint(i))&1 == 1 {
			w.buf[w.n/8] |= 0x80 >> uint(w.n%8)
		}
		w.n++
	}
}

func (w *bitWriter) writeBytes(b []byte) {
	for _, c := range b {
		w.writeBits(uint16(c), 8)
	}
}

func (w *bitWriter) bytes() []byte { return w.buf }
func (w *bitWriter) bitLen() int { return w.n }

// bitReader consumes a bit stream most-significant-bit first.
type bitReader struct {
	buf   []byte
	limit int
	pos   int
}

// newBitReader reads the first bitLen bits of buf. bitLen is clamped to
// the buffer size.
func newBitReader(buf []byte, bitLen int) *bitReader {
	if avail := len(buf) * 8; bitLen > avail || bitLen < 0 {
		bitLen = avail
	}
	return &bitReader{buf: buf, limit: bitLen}
}

func (r *bitReader) remaining() int {
	return r.limit - r.pos
}

// readBits returns the next width bits (at most 16) as a right-aligned value.
func (r *bitReader) readBits(width int) (uint16, error) {
	if width < 0 || width > 16 {
		return 0, fmt.Errorf("bit width %d out of range [0, 16]", width)
	}
	if r.remaining() < width {
		return 0, fmt.Errorf("%w: need %d, have %d", ErrInsufficientBits, width, r.remaining())
	}
	var v uint16
	for i := 0; i < width; i++ {
		bit := (r.buf[r.pos/8] >> (7 - uint(r.pos%8))) & 1
		v = v<<1 | uint16(bit)
		r.pos++
	}
	return v, nil
}

// packIndices concatenates 11-bit word indices into one stream and returns
// it with its length in bits. An index >= WordlistSize is a caller bug.
func packIndices(indices []uint16) ([]byte, int) {
	w := newBitWriter(len(indices) * WordBits)
	for _, idx := range indices {
		if idx >= WordlistSize {
			panic(fmt.Sprintf("bip39: word index %d out of range", idx))
		}
		w.writeBits(idx, WordBits)
	}
	return w.bytes(), w.bitLen()
}

// unpackIndices reads count 11-bit word indices from the first bitLen bits
// of stream.
func unpackIndices(stream []byte, bitLen, count int) ([]uint16, error) {
	r := newBitReader(stream, bitLen)
	out := make([]uint16, 0, count)
	for i := 0; i < count; i++ {
		idx, err := r.readBits(WordBits)
		if err != nil {
			return nil, fmt.Errorf("word %d: %w", i+1, err)
		}
		out = append(out, idx)
	}
	return out, nil
}
