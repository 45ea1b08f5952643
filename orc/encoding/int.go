package encoding

import (
	"bytes"
	"io"

	"github.com/pkg/errors"

	"github.com/patrickhuang888/orcarrow/orc/common"
)

// IntDecoder decodes one run per call, appending to values. io.EOF when no run left.
// Unsigned values are returned as their int64 bit pattern.
type IntDecoder interface {
	Decode(in io.ByteReader, values []int64) ([]int64, error)
}

type IntEncoder interface {
	Encode(v int64)
	Flush(out *bytes.Buffer) error
}

const (
	maxIntV1Repeat  = 127 + MIN_REPEAT_SIZE
	maxIntV1Literal = 128
	minIntV1Delta   = -128
	maxIntV1Delta   = 127
)

// run length encoding v1
type IntRL1 struct {
	signed bool
	values []int64
}

func NewIntRLV1(signed bool) *IntRL1 {
	return &IntRL1{signed: signed}
}

func (d *IntRL1) readValue(in io.ByteReader) (int64, error) {
	if d.signed {
		return ReadVInt(in)
	}
	u, err := ReadVUint(in)
	return int64(u), err
}

func (d *IntRL1) Decode(in io.ByteReader, values []int64) ([]int64, error) {
	control, err := in.ReadByte()
	if err != nil {
		return values, err
	}

	if control < 0x80 { // run
		l := int(control) + MIN_REPEAT_SIZE
		b, err := readByte(in)
		if err != nil {
			return values, err
		}
		delta := int64(int8(b))
		base, err := d.readValue(in)
		if err != nil {
			return values, err
		}
		for i := 0; i < l; i++ {
			values = append(values, base+int64(i)*delta)
		}
		logger.Tracef("decoding: int rl v1 run of %d, delta %d", l, delta)
		return values, nil
	}

	l := 0x100 - int(control)
	for i := 0; i < l; i++ {
		v, err := d.readValue(in)
		if err != nil {
			return values, err
		}
		values = append(values, v)
	}
	logger.Tracef("decoding: int rl v1 literals of %d", l)
	return values, nil
}

func (e *IntRL1) Encode(v int64) {
	e.values = append(e.values, v)
}

func (e *IntRL1) writeValue(out *bytes.Buffer, v int64) {
	if e.signed {
		WriteVInt(out, v)
	} else {
		WriteVUint(out, uint64(v))
	}
}

func (e *IntRL1) writeLiterals(out *bytes.Buffer, literals []int64) {
	if len(literals) == 0 {
		return
	}
	out.WriteByte(byte(0x100 - len(literals)))
	for _, v := range literals {
		e.writeValue(out, v)
	}
}

func (e *IntRL1) Flush(out *bytes.Buffer) error {
	vs := e.values
	mark := 0
	for i := 0; i < len(vs); {
		if i+2 < len(vs) {
			delta := vs[i+1] - vs[i]
			if delta >= minIntV1Delta && delta <= maxIntV1Delta && vs[i+2]-vs[i+1] == delta {
				e.writeLiterals(out, vs[mark:i])
				length := MIN_REPEAT_SIZE
				for i+length < len(vs) && length < maxIntV1Repeat && vs[i+length]-vs[i+length-1] == delta {
					length++
				}
				out.WriteByte(byte(length - MIN_REPEAT_SIZE))
				out.WriteByte(byte(int8(delta)))
				e.writeValue(out, vs[i])
				i += length
				mark = i
				continue
			}
		}
		i++
		if i-mark == maxIntV1Literal {
			e.writeLiterals(out, vs[mark:i])
			mark = i
		}
	}
	e.writeLiterals(out, vs[mark:])
	e.values = e.values[:0]
	return nil
}

// 64 bit int run length encoding v2
type IntRL2 struct {
	bitReader
	signed bool

	values []int64
}

func NewIntRLV2(signed bool) *IntRL2 {
	return &IntRL2{signed: signed}
}

func (d *IntRL2) Decode(in io.ByteReader, values []int64) ([]int64, error) {
	// header from MSB to LSB
	firstByte, err := in.ReadByte()
	if err != nil {
		return values, err
	}
	d.in = in
	d.forgetBits()

	switch sub := firstByte >> 6; sub {
	case Encoding_SHORT_REPEAT:
		width := 1 + (firstByte>>3)&0x07
		repeatCount := int(3 + (firstByte & 0x07))
		logger.Tracef("decoding: int rl v2 Short Repeat of count %d", repeatCount)

		var u uint64
		for i := byte(0); i < width; i++ { // big endian
			b, err := readByte(in)
			if err != nil {
				return values, err
			}
			u = u<<8 | uint64(b)
		}
		v := int64(u)
		if d.signed {
			v = UnZigzag(u)
		}
		for i := 0; i < repeatCount; i++ {
			values = append(values, v)
		}
		return values, nil

	case Encoding_DIRECT:
		b1, err := readByte(in)
		if err != nil {
			return values, err
		}
		width, err := widthDecoding((firstByte>>1)&0x1f, false)
		if err != nil {
			return values, err
		}
		length := int(firstByte&0x01)<<8 | int(b1) + 1
		logger.Tracef("decoding: int rl v2 Direct width %d length %d", width, length)

		for i := 0; i < length; i++ {
			u, err := d.readBits(width)
			if err != nil {
				return values, err
			}
			if d.signed {
				values = append(values, UnZigzag(u))
			} else {
				values = append(values, int64(u))
			}
		}
		return values, nil

	case Encoding_PATCHED_BASE:
		return d.readPatched(in, firstByte, values)

	default:
		return d.readDelta(in, firstByte, values)
	}
}

func (d *IntRL2) readDelta(in io.ByteReader, firstByte byte, values []int64) ([]int64, error) {
	// header: 2 bytes, base value: varint, delta base: signed varint
	b1, err := readByte(in)
	if err != nil {
		return values, err
	}
	width, err := widthDecoding((firstByte>>1)&0x1f, true)
	if err != nil {
		return values, err
	}
	length := int(firstByte&0x01)<<8 | int(b1)
	logger.Tracef("decoding: int rl v2 Delta length %d, width %d", length+1, width)

	var first int64
	if d.signed {
		first, err = ReadVInt(in)
	} else {
		var u uint64
		u, err = ReadVUint(in)
		first = int64(u)
	}
	if err != nil {
		return values, err
	}
	values = append(values, first)

	deltaBase, err := ReadVInt(in)
	if err != nil {
		return values, err
	}

	if width == 0 { // fixed delta
		prev := first
		for i := 0; i < length; i++ {
			prev += deltaBase
			values = append(values, prev)
		}
		return values, nil
	}

	prev := first + deltaBase
	values = append(values, prev)
	for i := 1; i < length; i++ {
		delta, err := d.readBits(width)
		if err != nil {
			return values, err
		}
		if deltaBase < 0 {
			prev -= int64(delta)
		} else {
			prev += int64(delta)
		}
		values = append(values, prev)
	}
	return values, nil
}

func (d *IntRL2) readPatched(in io.ByteReader, firstByte byte, values []int64) ([]int64, error) {
	header := make([]byte, 3) // 4 byte header
	for i := range header {
		b, err := readByte(in)
		if err != nil {
			return values, err
		}
		header[i] = b
	}
	width, err := widthDecoding((firstByte>>1)&0x1f, false)
	if err != nil {
		return values, err
	}
	length := int(firstByte&0x01)<<8 | int(header[0]) + 1

	baseBytes := int(header[1]>>5&0x07) + 1
	patchWidth, err := widthDecoding(header[1]&0x1f, false)
	if err != nil {
		return values, err
	}
	gapWidth := int(header[2]>>5&0x07) + 1
	patchListLength := int(header[2] & 0x1f)
	if patchWidth+gapWidth > 64 {
		return values, errors.Wrapf(common.ErrCorrupt, "patch width %d + gap width %d exceeds 64", patchWidth, gapWidth)
	}
	logger.Tracef("decoding: int rl v2 Patched Base width %d length %d, patch width %d, gap width %d, patch list %d",
		width, length, patchWidth, gapWidth, patchListLength)

	// base value big endian with MSB as sign bit
	var ubase uint64
	for i := 0; i < baseBytes; i++ {
		b, err := readByte(in)
		if err != nil {
			return values, err
		}
		ubase = ubase<<8 | uint64(b)
	}
	mask := uint64(1) << (uint(baseBytes)*8 - 1)
	base := int64(ubase)
	if ubase&mask != 0 {
		base = -int64(ubase &^ mask)
	}

	data := make([]uint64, length)
	for i := range data {
		if data[i], err = d.readBits(width); err != nil {
			return values, err
		}
	}

	d.forgetBits()
	patchEntryWidth := getClosestFixedBits(patchWidth + gapWidth)
	patches := make([]uint64, patchListLength)
	for i := range patches {
		if patches[i], err = d.readBits(patchEntryWidth); err != nil {
			return values, err
		}
	}

	patchMask := uint64(1)<<uint(patchWidth) - 1
	patchIdx := 0
	var gap, patch uint64
	nextPatch := func() (int, error) {
		actualGap := 0
		for {
			if patchIdx >= len(patches) {
				return 0, errors.Wrap(common.ErrCorrupt, "patch list exhausted")
			}
			gap = patches[patchIdx] >> uint(patchWidth)
			patch = patches[patchIdx] & patchMask
			if gap == 255 && patch == 0 {
				actualGap += 255
				patchIdx++
				continue
			}
			return actualGap + int(gap), nil
		}
	}

	patchPos := -1
	if patchListLength != 0 {
		if patchPos, err = nextPatch(); err != nil {
			return values, err
		}
	}
	for i := 0; i < length; i++ {
		if i == patchPos {
			values = append(values, base+int64(data[i]|patch<<uint(width)))
			patchIdx++
			patchPos = -1
			if patchIdx < patchListLength {
				g, err := nextPatch()
				if err != nil {
					return values, err
				}
				patchPos = i + g
			}
			continue
		}
		values = append(values, base+int64(data[i]))
	}
	return values, nil
}

func (e *IntRL2) Encode(v int64) {
	e.values = append(e.values, v)
}

func (e *IntRL2) Flush(out *bytes.Buffer) error {
	for len(e.values) > 0 {
		n := len(e.values)
		if n > MaxIntRunLength {
			n = MaxIntRunLength
		}
		if err := e.write(out, e.values[:n]); err != nil {
			return err
		}
		e.values = e.values[n:]
	}
	e.values = nil
	return nil
}

func (e *IntRL2) toUnsigned(v int64) uint64 {
	if e.signed {
		return Zigzag(v)
	}
	return uint64(v)
}

func (e *IntRL2) write(out *bytes.Buffer, vs []int64) error {
	repeat := true
	for _, v := range vs[1:] {
		if v != vs[0] {
			repeat = false
			break
		}
	}
	if repeat && len(vs) >= MIN_REPEAT_SIZE && len(vs) <= 10 {
		return e.writeShortRepeat(out, e.toUnsigned(vs[0]), len(vs))
	}
	if len(vs) < 2 {
		return e.writeDirect(out, vs)
	}

	deltaBase := vs[1] - vs[0]
	fixed, increasing, decreasing := true, true, deltaBase < 0
	var maxDelta uint64
	for i := 1; i < len(vs); i++ {
		delta := vs[i] - vs[i-1]
		if (vs[i] >= vs[i-1]) != (delta >= 0) { // overflow
			return e.writeDirect(out, vs)
		}
		if delta != deltaBase {
			fixed = false
		}
		if delta < 0 {
			increasing = false
		}
		if delta > 0 {
			decreasing = false
		}
		if i >= 2 {
			abs := uint64(delta)
			if delta < 0 {
				abs = uint64(-delta)
			}
			if abs > maxDelta {
				maxDelta = abs
			}
		}
	}
	if fixed {
		return e.writeDelta(out, vs, deltaBase, 0)
	}
	if increasing || decreasing {
		width := getClosestAlignedFixedBits(getBitsWidth(maxDelta))
		if width == 1 { // code 0 means fixed delta
			width = 2
		}
		return e.writeDelta(out, vs, deltaBase, width)
	}
	return e.writeDirect(out, vs)
}

func (e *IntRL2) writeShortRepeat(out *bytes.Buffer, u uint64, count int) error {
	width := (getBitsWidth(u) + 7) / 8
	if width == 0 {
		width = 1
	}
	header := byte(width-1)<<3 | byte(count-MIN_REPEAT_SIZE)
	out.WriteByte(header)
	for i := width - 1; i >= 0; i-- {
		out.WriteByte(byte(u >> (8 * uint(i))))
	}
	logger.Tracef("encoding: int rl v2 Short Repeat %d of count %d", u, count)
	return nil
}

func (e *IntRL2) writeDirect(out *bytes.Buffer, vs []int64) error {
	var max uint64
	us := make([]uint64, len(vs))
	for i, v := range vs {
		us[i] = e.toUnsigned(v)
		if us[i] > max {
			max = us[i]
		}
	}
	width := getClosestFixedBits(getBitsWidth(max))
	code, err := widthEncoding(width)
	if err != nil {
		return err
	}
	l := len(vs) - 1
	out.WriteByte(Encoding_DIRECT<<6 | code<<1 | byte(l>>8)&0x01)
	out.WriteByte(byte(l))

	w := &bitWriter{out: out}
	for _, u := range us {
		w.writeBits(u, width)
	}
	w.flush()
	logger.Tracef("encoding: int rl v2 Direct width %d length %d", width, len(vs))
	return nil
}

// width 0 writes a fixed delta run
func (e *IntRL2) writeDelta(out *bytes.Buffer, vs []int64, deltaBase int64, width int) error {
	var code byte
	if width != 0 {
		var err error
		if code, err = widthEncoding(width); err != nil {
			return err
		}
	}
	l := len(vs) - 1
	out.WriteByte(Encoding_DELTA<<6 | code<<1 | byte(l>>8)&0x01)
	out.WriteByte(byte(l))

	if e.signed {
		WriteVInt(out, vs[0])
	} else {
		WriteVUint(out, uint64(vs[0]))
	}
	WriteVInt(out, deltaBase)

	if width != 0 {
		w := &bitWriter{out: out}
		for i := 2; i < len(vs); i++ {
			delta := vs[i] - vs[i-1]
			if delta < 0 {
				delta = -delta
			}
			w.writeBits(uint64(delta), width)
		}
		w.flush()
	}
	logger.Tracef("encoding: int rl v2 Delta width %d length %d", width, len(vs))
	return nil
}
