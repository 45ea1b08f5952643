package encoding

import (
	"bytes"
	"io"
	"math"
	"math/big"
	"testing"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/smartystreets/assertions"
	"github.com/stretchr/testify/assert"

	"github.com/patrickhuang888/orcarrow/orc/common"
)

func init() {
	logger.SetLevel(log.TraceLevel)
}

func decodeAllInts(t *testing.T, dec IntDecoder, in io.ByteReader) []int64 {
	var values []int64
	var err error
	for {
		values, err = dec.Decode(in, values)
		if err == io.EOF {
			return values
		}
		if err != nil {
			t.Fatalf("%+v", err)
		}
	}
}

func TestByteRunLength(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0x61, 0x00})
	values, err := DecodeByteRL(buf, nil)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	assert.Equal(t, 100, len(values))
	assert.Equal(t, byte(0), values[0])
	assert.Equal(t, byte(0), values[99])

	buf = bytes.NewBuffer([]byte{0xfe, 0x44, 0x45})
	values, err = DecodeByteRL(buf, values[:0])
	if err != nil {
		t.Fatalf("%+v", err)
	}
	assert.Equal(t, []byte{0x44, 0x45}, values)

	_, err = DecodeByteRL(buf, nil)
	assert.Equal(t, io.EOF, err)

	enc := NewByteEncoder()
	var vs []byte
	for i := 0; i < 300; i++ {
		vs = append(vs, 5)
	}
	for i := 0; i < 200; i++ {
		vs = append(vs, byte(i))
	}
	vs = append(vs, 7, 7)
	for _, v := range vs {
		enc.Encode(v)
	}
	out := &bytes.Buffer{}
	if err := enc.Flush(out); err != nil {
		t.Fatalf("%+v", err)
	}

	var decoded []byte
	for {
		decoded, err = DecodeByteRL(out, decoded)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("%+v", err)
		}
	}
	so := assertions.New(t)
	so.So(decoded, assertions.ShouldResemble, vs)
}

func TestByteRunTruncated(t *testing.T) {
	_, err := DecodeByteRL(bytes.NewBuffer([]byte{0xfd, 0x01}), nil)
	assert.True(t, errors.Is(err, common.ErrCorrupt))
}

func TestBoolRunLength(t *testing.T) {
	values := []bool{true, false, false, false, false, false, false, false}
	encoded := []byte{0xff, 0x80}

	decoded, err := DecodeBools(bytes.NewBuffer(encoded), nil)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	assert.Equal(t, values, decoded)

	enc := NewBoolEncoder()
	for _, v := range values {
		enc.Encode(v)
	}
	buf := &bytes.Buffer{}
	if err := enc.Flush(buf); err != nil {
		t.Fatalf("%+v", err)
	}
	assert.Equal(t, encoded, buf.Bytes())

	var vs []bool
	for i := 0; i < 1000; i++ {
		vs = append(vs, i%3 == 0 || i > 900)
	}
	for _, v := range vs {
		enc.Encode(v)
	}
	buf.Reset()
	if err := enc.Flush(buf); err != nil {
		t.Fatalf("%+v", err)
	}
	decoded = decoded[:0]
	for {
		decoded, err = DecodeBools(buf, decoded)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("%+v", err)
		}
	}
	assert.Equal(t, vs, decoded)
}

func TestIntRunLengthV1(t *testing.T) {
	// run of 100 values with delta -1 starting at 100, then 3 literals
	bs := []byte{0x61, 0xff, 0x64, 0xfd, 0x02, 0x03, 0x04}
	dec := NewIntRLV1(false)
	values := decodeAllInts(t, dec, bytes.NewBuffer(bs))
	assert.Equal(t, 103, len(values))
	assert.Equal(t, int64(100), values[0])
	assert.Equal(t, int64(1), values[99])
	assert.Equal(t, []int64{2, 3, 4}, values[100:])

	for _, signed := range []bool{true, false} {
		var vs []int64
		for i := 0; i < 500; i++ {
			vs = append(vs, int64(i*3))
		}
		for i := 0; i < 300; i++ {
			vs = append(vs, int64((i*7919)%1013))
		}
		if signed {
			vs = append(vs, -1, -5, math.MinInt64, math.MaxInt64)
		}
		enc := NewIntRLV1(signed)
		for _, v := range vs {
			enc.Encode(v)
		}
		buf := &bytes.Buffer{}
		if err := enc.Flush(buf); err != nil {
			t.Fatalf("%+v", err)
		}
		assert.Equal(t, vs, decodeAllInts(t, NewIntRLV1(signed), buf))
	}
}

func TestIntRunLengthV2Delta(t *testing.T) {
	uvs := []int64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29}
	bs := []byte{0xc6, 0x09, 0x02, 0x02, 0x22, 0x42, 0x42, 0x46}
	values := decodeAllInts(t, NewIntRLV2(false), bytes.NewBuffer(bs))
	assert.Equal(t, uvs, values)

	enc := NewIntRLV2(false)
	for _, v := range uvs {
		enc.Encode(v)
	}
	buf := &bytes.Buffer{}
	if err := enc.Flush(buf); err != nil {
		t.Fatalf("%+v", err)
	}
	assert.Equal(t, bs, buf.Bytes())

	vs := []int64{-2, -3, -5, -7, -11, -13, -17, -19, -23, -29}
	enc = NewIntRLV2(true)
	for _, v := range vs {
		enc.Encode(v)
	}
	buf.Reset()
	if err := enc.Flush(buf); err != nil {
		t.Fatalf("%+v", err)
	}
	assert.Equal(t, vs, decodeAllInts(t, NewIntRLV2(true), buf))

	// fixed delta 0
	vs = []int64{-2, -2, -2, -2, -2, -2, -2, -2, -2, -2, -2, -2, -2}
	for _, v := range vs {
		enc.Encode(v)
	}
	buf.Reset()
	if err := enc.Flush(buf); err != nil {
		t.Fatalf("%+v", err)
	}
	assert.Equal(t, byte(0xc0), buf.Bytes()[0])
	assert.Equal(t, vs, decodeAllInts(t, NewIntRLV2(true), buf))

	// over 512 numbers
	uvs = uvs[:0]
	for i := 0; i < 1000; i++ {
		uvs = append(uvs, int64(i))
	}
	enc = NewIntRLV2(false)
	for _, v := range uvs {
		enc.Encode(v)
	}
	buf.Reset()
	if err := enc.Flush(buf); err != nil {
		t.Fatalf("%+v", err)
	}
	assert.Equal(t, uvs, decodeAllInts(t, NewIntRLV2(false), buf))

	vs = vs[:0]
	for i := 0; i < 1500; i++ {
		vs = append(vs, int64(1000-i))
	}
	enc = NewIntRLV2(true)
	for _, v := range vs {
		enc.Encode(v)
	}
	buf.Reset()
	if err := enc.Flush(buf); err != nil {
		t.Fatalf("%+v", err)
	}
	assert.Equal(t, vs, decodeAllInts(t, NewIntRLV2(true), buf))
}

func TestIntRunLengthV2FixedDelta(t *testing.T) {
	// fixed delta 3 from 10, 5 values
	bs := []byte{0xc0, 0x04, 0x14, 0x06}
	values := decodeAllInts(t, NewIntRLV2(true), bytes.NewBuffer(bs))
	assert.Equal(t, []int64{10, 13, 16, 19, 22}, values)
}

func TestIntRunLengthV2Direct(t *testing.T) {
	uvalues := []int64{23713, 43806, 57005, 48879}
	bs := []byte{0x5e, 0x03, 0x5c, 0xa1, 0xab, 0x1e, 0xde, 0xad, 0xbe, 0xef}
	assert.Equal(t, uvalues, decodeAllInts(t, NewIntRLV2(false), bytes.NewBuffer(bs)))

	enc := NewIntRLV2(false)
	for _, v := range uvalues {
		enc.Encode(v)
	}
	buf := &bytes.Buffer{}
	if err := enc.Flush(buf); err != nil {
		t.Fatalf("%+v", err)
	}
	assert.Equal(t, bs, buf.Bytes())

	vs := []int64{1, -100, 3000, -2, 77777, 0, math.MaxInt64, math.MinInt64, 5}
	enc = NewIntRLV2(true)
	for _, v := range vs {
		enc.Encode(v)
	}
	buf.Reset()
	if err := enc.Flush(buf); err != nil {
		t.Fatalf("%+v", err)
	}
	assert.Equal(t, vs, decodeAllInts(t, NewIntRLV2(true), buf))
}

func TestIntRunLengthV2Patch(t *testing.T) {
	values := []int64{2030, 2000, 2020, 1000000, 2040, 2050, 2060, 2070, 2080, 2090, 2100, 2110, 2120, 2130,
		2140, 2150, 2160, 2170, 2180, 2190}
	bs := []byte{0x8e, 0x13, 0x2b, 0x21, 0x07, 0xd0, 0x1e, 0x00, 0x14, 0x70, 0x28, 0x32, 0x3c, 0x46, 0x50, 0x5a,
		0x64, 0x6e, 0x78, 0x82, 0x8c, 0x96, 0xa0, 0xaa, 0xb4, 0xbe, 0xfc, 0xe8}

	so := assertions.New(t)
	so.So(decodeAllInts(t, NewIntRLV2(true), bytes.NewBuffer(bs)), assertions.ShouldResemble, values)
}

func TestIntRunLengthV2ShortRepeat(t *testing.T) {
	bs := []byte{0x0a, 0x27, 0x10}
	values := decodeAllInts(t, NewIntRLV2(false), bytes.NewBuffer(bs))
	assert.Equal(t, []int64{10000, 10000, 10000, 10000, 10000}, values)

	enc := NewIntRLV2(false)
	for _, v := range values {
		enc.Encode(v)
	}
	buf := &bytes.Buffer{}
	if err := enc.Flush(buf); err != nil {
		t.Fatalf("%+v", err)
	}
	assert.Equal(t, bs, buf.Bytes())

	// zero value keeps one byte
	enc = NewIntRLV2(true)
	for i := 0; i < 4; i++ {
		enc.Encode(0)
	}
	buf.Reset()
	if err := enc.Flush(buf); err != nil {
		t.Fatalf("%+v", err)
	}
	assert.Equal(t, []byte{0x01, 0x00}, buf.Bytes())
	assert.Equal(t, []int64{0, 0, 0, 0}, decodeAllInts(t, NewIntRLV2(true), buf))
}

func TestIntRunLengthV2Truncated(t *testing.T) {
	bs := []byte{0x5e, 0x03, 0x5c, 0xa1, 0xab}
	_, err := NewIntRLV2(false).Decode(bytes.NewBuffer(bs), nil)
	assert.True(t, errors.Is(err, common.ErrCorrupt))
}

func TestWidth(t *testing.T) {
	for code := byte(0); code < 32; code++ {
		w, err := widthDecoding(code, false)
		if err != nil {
			t.Fatalf("%+v", err)
		}
		back, err := widthEncoding(w)
		if err != nil {
			t.Fatalf("%+v", err)
		}
		assert.Equal(t, code, back)
	}
	w, err := widthDecoding(0, true)
	assert.Nil(t, err)
	assert.Equal(t, 0, w)

	assert.Equal(t, 26, getClosestFixedBits(25))
	assert.Equal(t, 64, getClosestFixedBits(57))
	assert.Equal(t, 4, getClosestAlignedFixedBits(3))
}

func TestZigzag(t *testing.T) {
	assert.Equal(t, uint64(1), Zigzag(-1))
	assert.Equal(t, int64(-1), UnZigzag(1))

	var x int64 = 2147483647
	assert.Equal(t, uint64(4294967294), Zigzag(x))
	assert.Equal(t, x, UnZigzag(Zigzag(x)))

	var y int64 = -2147483648
	assert.Equal(t, uint64(4294967295), Zigzag(y))
	assert.Equal(t, y, UnZigzag(Zigzag(y)))
}

func TestBigVarint(t *testing.T) {
	huge, _ := new(big.Int).SetString("-123456789012345678901234567890", 10)
	values := []*big.Int{big.NewInt(0), big.NewInt(1), big.NewInt(-1), big.NewInt(63), big.NewInt(-64),
		big.NewInt(math.MaxInt64), huge}

	buf := &bytes.Buffer{}
	for _, v := range values {
		EncodeBigVarint(buf, v)
	}
	// -1 zigzags to 1
	assert.Equal(t, []byte{0x00, 0x02, 0x01}, buf.Bytes()[:3])

	for _, v := range values {
		d, err := DecodeBigVarint(buf)
		if err != nil {
			t.Fatalf("%+v", err)
		}
		assert.Equal(t, 0, v.Cmp(d), "%s != %s", v, d)
	}
	_, err := DecodeBigVarint(buf)
	assert.Equal(t, io.EOF, err)
}

func TestFloat(t *testing.T) {
	buf := &bytes.Buffer{}
	EncodeFloat(buf, 1.5)
	EncodeDouble(buf, -0.1)
	// little endian 1.5f
	assert.Equal(t, []byte{0x00, 0x00, 0xc0, 0x3f}, buf.Bytes()[:4])

	f, err := DecodeFloat(buf)
	assert.Nil(t, err)
	assert.Equal(t, float32(1.5), f)
	d, err := DecodeDouble(buf)
	assert.Nil(t, err)
	assert.Equal(t, -0.1, d)

	_, err = DecodeDouble(bytes.NewBuffer([]byte{1, 2, 3}))
	assert.True(t, errors.Is(err, common.ErrCorrupt))
}

func TestNanoEncoding(t *testing.T) {
	assert.Equal(t, uint64(0x0a), EncodingNano(1000))
	assert.Equal(t, uint64(0x0c), EncodingNano(100000))

	for _, n := range []uint64{0, 1, 100, 999_999_999, 123_000_000, 500_000_000} {
		assert.Equal(t, int64(n), DecodingNano(EncodingNano(n)))
	}

	s, n := TimestampSeconds(-10, EncodingNano(500_000_000))
	assert.Equal(t, int64(-11), s)
	assert.Equal(t, int64(500_000_000), n)
	s, _ = TimestampSeconds(10, EncodingNano(500_000_000))
	assert.Equal(t, int64(10), s)
}

func TestDecodeBytes(t *testing.T) {
	v, err := DecodeBytes(bytes.NewBufferString("abcdef"), 3)
	assert.Nil(t, err)
	assert.Equal(t, "abc", string(v))

	long := bytes.Repeat([]byte{0x5a}, 3*bytesReadStep+7)
	v, err = DecodeBytes(bytes.NewBuffer(long), len(long))
	assert.Nil(t, err)
	assert.Equal(t, long, v)

	_, err = DecodeBytes(bytes.NewBufferString("ab"), 3)
	assert.True(t, errors.Is(err, common.ErrCorrupt))

	// a length far beyond the data fails without allocating it
	_, err = DecodeBytes(bytes.NewBufferString("abc"), math.MaxInt32)
	assert.True(t, errors.Is(err, common.ErrCorrupt))
}
