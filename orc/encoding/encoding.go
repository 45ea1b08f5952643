package encoding

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/patrickhuang888/orcarrow/orc/common"
)

const (
	MIN_REPEAT_SIZE = 3

	Encoding_SHORT_REPEAT = byte(0)
	Encoding_DIRECT       = byte(1)
	Encoding_PATCHED_BASE = byte(2)
	Encoding_DELTA        = byte(3)

	MaxIntRunLength = 512
)

var logger = log.New()

func SetLogLevel(level log.Level) {
	logger.SetLevel(level)
}

type BufferedReader interface {
	io.ByteReader
	io.Reader
}

// readByte reads one byte inside a run, io.EOF there means the run was cut short.
func readByte(in io.ByteReader) (byte, error) {
	b, err := in.ReadByte()
	if err != nil {
		if err == io.EOF {
			return 0, errors.Wrap(common.ErrCorrupt, "run truncated")
		}
		return 0, errors.WithStack(err)
	}
	return b, nil
}

func UnZigzag(x uint64) int64 {
	return int64(x>>1) ^ -int64(x&1)
}

func Zigzag(x int64) uint64 {
	return uint64(x<<1) ^ uint64(x>>63)
}

// ReadVUint reads a base 128 varuint
func ReadVUint(in io.ByteReader) (r uint64, err error) {
	var shift uint
	for {
		b, err := readByte(in)
		if err != nil {
			return 0, err
		}
		if shift >= 64 {
			return 0, errors.Wrap(common.ErrCorrupt, "varint overflows 64 bits")
		}
		r |= uint64(0x7f&b) << shift
		shift += 7
		if b < 0x80 {
			break
		}
	}
	return
}

func ReadVInt(in io.ByteReader) (int64, error) {
	u, err := ReadVUint(in)
	if err != nil {
		return 0, err
	}
	return UnZigzag(u), nil
}

func WriteVUint(out *bytes.Buffer, v uint64) {
	for v >= 0x80 {
		out.WriteByte(byte(v) | 0x80)
		v >>= 7
	}
	out.WriteByte(byte(v))
}

func WriteVInt(out *bytes.Buffer, v int64) {
	WriteVUint(out, Zigzag(v))
}

// widthEncoding maps a bit width to its 5 bit code, width should be one
// returned by getClosestFixedBits
func widthEncoding(width int) (w byte, err error) {
	switch {
	case 1 <= width && width <= 24:
		return byte(width - 1), nil
	case width == 26:
		return 24, nil
	case width == 28:
		return 25, nil
	case width == 30:
		return 26, nil
	case width == 32:
		return 27, nil
	case width == 40:
		return 28, nil
	case width == 48:
		return 29, nil
	case width == 56:
		return 30, nil
	case width == 64:
		return 31, nil
	}
	return 0, errors.Errorf("width %d error", width)
}

// widthDecoding decodes a 5 bit width code, code 0 of delta means fixed delta
func widthDecoding(w byte, delta bool) (width int, err error) {
	if w <= 23 {
		if w == 0 && delta {
			return 0, nil
		}
		return int(w) + 1, nil
	}
	switch w {
	case 24:
		logger.Warnf("decoding: width encoded %d is deprecated", w)
		return 26, nil
	case 25:
		logger.Warnf("decoding: width encoded %d is deprecated", w)
		return 28, nil
	case 26:
		logger.Warnf("decoding: width encoded %d is deprecated", w)
		return 30, nil
	case 27:
		return 32, nil
	case 28:
		return 40, nil
	case 29:
		return 48, nil
	case 30:
		return 56, nil
	case 31:
		return 64, nil
	}
	return 0, errors.Wrapf(common.ErrCorrupt, "run length integer v2 width(W) %d error", w)
}

func getClosestFixedBits(n int) int {
	switch {
	case n == 0:
		return 1
	case n <= 24:
		return n
	case n <= 26:
		return 26
	case n <= 28:
		return 28
	case n <= 30:
		return 30
	case n <= 32:
		return 32
	case n <= 40:
		return 40
	case n <= 48:
		return 48
	case n <= 56:
		return 56
	}
	return 64
}

func getClosestAlignedFixedBits(n int) int {
	switch {
	case n <= 1:
		return 1
	case n <= 2:
		return 2
	case n <= 4:
		return 4
	case n <= 8:
		return 8
	case n <= 16:
		return 16
	case n <= 24:
		return 24
	case n <= 32:
		return 32
	case n <= 40:
		return 40
	case n <= 48:
		return 48
	case n <= 56:
		return 56
	}
	return 64
}

func getBitsWidth(x uint64) (w int) {
	for x != 0 {
		x >>= 1
		w++
	}
	return
}

// bitReader reads big endian bit packed values, each run starts byte aligned
type bitReader struct {
	in       io.ByteReader
	lastByte byte
	bitsLeft int
}

func (r *bitReader) readBits(bits int) (value uint64, err error) {
	for bits > 0 {
		if r.bitsLeft == 0 {
			if r.lastByte, err = readByte(r.in); err != nil {
				return 0, err
			}
			r.bitsLeft = 8
		}
		n := bits
		if n > r.bitsLeft {
			n = r.bitsLeft
		}
		shift := r.bitsLeft - n
		value = value<<n | uint64(r.lastByte>>shift)&(1<<n-1)
		r.bitsLeft -= n
		bits -= n
	}
	return
}

func (r *bitReader) forgetBits() {
	r.bitsLeft = 0
	r.lastByte = 0
}

type bitWriter struct {
	out      *bytes.Buffer
	current  byte
	bitsUsed int
}

func (w *bitWriter) writeBits(value uint64, bits int) {
	for bits > 0 {
		n := 8 - w.bitsUsed
		if n > bits {
			n = bits
		}
		chunk := byte(value>>(bits-n)) & (1<<n - 1)
		w.current |= chunk << (8 - w.bitsUsed - n)
		w.bitsUsed += n
		bits -= n
		if w.bitsUsed == 8 {
			w.out.WriteByte(w.current)
			w.current = 0
			w.bitsUsed = 0
		}
	}
}

// flush pads the last byte with zero bits
func (w *bitWriter) flush() {
	if w.bitsUsed != 0 {
		w.out.WriteByte(w.current)
		w.current = 0
		w.bitsUsed = 0
	}
}
