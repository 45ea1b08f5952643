package stream

import (
	"bytes"
	"io"
	"math/big"
	"testing"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickhuang888/orcarrow/orc/common"
	"github.com/patrickhuang888/orcarrow/orc/config"
	"github.com/patrickhuang888/orcarrow/pb/pb"
)

func init() {
	logger.SetLevel(log.TraceLevel)
}

func readerOf(t *testing.T, w *Writer, opts *config.WriterOptions) *Reader {
	data, err := w.Flush()
	if err != nil {
		t.Fatalf("%+v", err)
	}
	assert.Equal(t, uint64(len(data)), w.Info().GetLength())
	return NewReader(w.Info(), data, opts.CompressionKind, opts.ChunkSize)
}

func TestNoCompression(t *testing.T) {
	num := 200
	data := make([]byte, num)
	for i := 0; i < num; i++ {
		data[i] = byte(1)
	}

	opts := &config.WriterOptions{ChunkSize: 60, CompressionKind: pb.CompressionKind_NONE}
	w := NewByteWriter(0, pb.Stream_DATA, opts)
	for _, v := range data {
		w.Write(v)
	}

	sr := NewByteReader(readerOf(t, w.Writer, opts))
	vs := make([]byte, num)
	for i := 0; i < num; i++ {
		var err error
		if vs[i], err = sr.Next(); err != nil {
			t.Fatalf("%+v", err)
		}
	}
	if !sr.Finished() {
		t.Fatal("reader should be finished")
	}
	assert.Equal(t, data, vs)

	_, err := sr.Next()
	assert.Equal(t, io.EOF, err)
}

func TestMultiChunkWithCompression(t *testing.T) {
	buf := &bytes.Buffer{}
	for i := 0; i < 100; i++ {
		buf.WriteByte(byte(1))
	}
	for i := 0; i < 200; i++ {
		buf.WriteByte(byte(i))
	}
	data := buf.Bytes()

	for _, kind := range []pb.CompressionKind{pb.CompressionKind_ZLIB, pb.CompressionKind_SNAPPY,
		pb.CompressionKind_ZSTD, pb.CompressionKind_LZ4} {
		// expand to several chunks
		opts := &config.WriterOptions{ChunkSize: 60, CompressionKind: kind}
		w := NewByteWriter(0, pb.Stream_DATA, opts)
		for _, v := range data {
			w.Write(v)
		}

		sr := NewByteReader(readerOf(t, w.Writer, opts))
		vv := make([]byte, len(data))
		for i := range vv {
			var err error
			if vv[i], err = sr.Next(); err != nil {
				t.Fatalf("%s %+v", kind, err)
			}
		}
		assert.True(t, sr.Finished())
		assert.Equal(t, data, vv, kind.String())
	}
}

func TestBoolWithCompression(t *testing.T) {
	rows := 100
	data := make([]bool, rows)
	for i := 0; i < rows; i++ {
		data[i] = true
	}
	data[0] = false
	data[45] = false
	data[98] = false

	opts := config.DefaultWriterOptions()
	w := NewBoolWriter(0, pb.Stream_PRESENT, &opts)
	for _, v := range data {
		w.Write(v)
	}

	sr := NewBoolReader(readerOf(t, w.Writer, &opts))
	vv := make([]bool, rows)
	for i := 0; i < rows; i++ {
		var err error
		if vv[i], err = sr.Next(); err != nil {
			t.Fatalf("%+v", err)
		}
	}
	assert.Equal(t, data, vv)
}

func TestIntReaders(t *testing.T) {
	var values []int64
	for i := 0; i < 2000; i++ {
		values = append(values, int64(i*i%977)-300)
	}

	for _, enc := range []pb.ColumnEncoding_Kind{pb.ColumnEncoding_DIRECT, pb.ColumnEncoding_DIRECT_V2} {
		opts := &config.WriterOptions{ChunkSize: 128, CompressionKind: pb.CompressionKind_SNAPPY}
		w := NewIntWriter(1, pb.Stream_DATA, opts, enc == pb.ColumnEncoding_DIRECT_V2, true)
		for _, v := range values {
			w.Write(v)
		}
		r := NewIntReader(enc, readerOf(t, w.Writer, opts), true)
		switch enc {
		case pb.ColumnEncoding_DIRECT:
			assert.IsType(t, &IntRLV1Reader{}, r)
		default:
			assert.IsType(t, &IntRLV2Reader{}, r)
		}

		var got []int64
		for {
			v, err := r.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				t.Fatalf("%+v", err)
			}
			got = append(got, v)
		}
		assert.Equal(t, values, got)
		assert.True(t, r.Finished())
	}
}

func TestValueReaders(t *testing.T) {
	opts := &config.WriterOptions{ChunkSize: 32, CompressionKind: pb.CompressionKind_ZSTD}

	fw := NewFloatWriter(1, pb.Stream_DATA, opts)
	dw := NewDoubleWriter(2, pb.Stream_DATA, opts)
	vw := NewVarIntWriter(3, pb.Stream_DATA, opts)
	bw := NewBytesWriter(4, pb.Stream_DATA, opts)
	for i := 0; i < 50; i++ {
		fw.Write(float32(i) / 2)
		dw.Write(float64(-i) * 1.25)
		vw.Write(big.NewInt(int64(i * -1000)))
		bw.Write([]byte("abc"))
	}

	fr := NewFloatReader(readerOf(t, fw.Writer, opts))
	dr := NewDoubleReader(readerOf(t, dw.Writer, opts))
	vr := NewVarIntReader(readerOf(t, vw.Writer, opts))
	br := NewBytesReader(readerOf(t, bw.Writer, opts))
	for i := 0; i < 50; i++ {
		f, err := fr.Next()
		require.NoError(t, err)
		assert.Equal(t, float32(i)/2, f)

		d, err := dr.Next()
		require.NoError(t, err)
		assert.Equal(t, float64(-i)*1.25, d)

		v, err := vr.Next()
		require.NoError(t, err)
		assert.Equal(t, int64(i*-1000), v.Int64())

		b, err := br.NextBytes(3)
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), b)
	}
	assert.True(t, fr.Finished())
	assert.True(t, dr.Finished())
	assert.True(t, vr.Finished())
	assert.True(t, br.Finished())

	_, err := fr.Next()
	assert.Equal(t, io.EOF, err)
}

func TestCorruptChunk(t *testing.T) {
	info := &pb.Stream{Kind: pb.Stream_DATA.Enum()}
	// header says 10 bytes compressed, only 2 present
	r := NewReader(info, []byte{0x14, 0x00, 0x00, 0x01, 0x02}, pb.CompressionKind_ZLIB, 1024)
	_, err := r.ReadByte()
	assert.True(t, errors.Is(err, common.ErrIo))

	// not a deflate stream
	r = NewReader(info, []byte{0x04, 0x00, 0x00, 0xff, 0xff}, pb.CompressionKind_ZLIB, 1024)
	_, err = r.ReadByte()
	assert.True(t, errors.Is(err, common.ErrIo))
}

func TestEmptyChunk(t *testing.T) {
	info := &pb.Stream{Kind: pb.Stream_DATA.Enum()}
	// an empty original chunk, then an original chunk of one byte
	r := NewReader(info, []byte{0x01, 0x00, 0x00, 0x03, 0x00, 0x00, 0x07}, pb.CompressionKind_ZLIB, 1024)
	b, err := r.ReadByte()
	if err != nil {
		t.Fatalf("%+v", err)
	}
	assert.Equal(t, byte(0x07), b)
	assert.True(t, r.Finished())

	_, err = r.ReadByte()
	assert.Equal(t, io.EOF, err)
}
