package stripe

import (
	"context"
	"io"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickhuang888/orcarrow/orc/api"
	"github.com/patrickhuang888/orcarrow/orc/common"
	"github.com/patrickhuang888/orcarrow/orc/config"
	orcio "github.com/patrickhuang888/orcarrow/orc/io"
	"github.com/patrickhuang888/orcarrow/orc/stream"
	"github.com/patrickhuang888/orcarrow/pb/pb"
)

func init() {
	logger.SetLevel(log.TraceLevel)
}

const headerSize = 3

// a:int b:string direct, 3 rows, a has no nulls, b has a null
func buildStripe(t *testing.T, wopts *config.WriterOptions) (*api.TypeDescription, []byte, *StripeMetadata) {
	td, err := api.ParseSchema("struct<a:int,b:string>")
	if err != nil {
		t.Fatalf("%+v", err)
	}

	b := NewBuilder(3, wopts)
	b.AddStream(0, pb.Stream_ROW_INDEX, []byte{})

	a := stream.NewIntWriter(1, pb.Stream_DATA, wopts, true, true)
	for _, v := range []int64{1, -2, 3} {
		a.Write(v)
	}
	require.NoError(t, b.AddWriter(a.Writer))

	present := stream.NewBoolWriter(2, pb.Stream_PRESENT, wopts)
	for _, v := range []bool{true, false, true} {
		present.Write(v)
	}
	require.NoError(t, b.AddWriter(present.Writer))
	data := stream.NewBytesWriter(2, pb.Stream_DATA, wopts)
	data.Write([]byte("x"))
	data.Write([]byte("yz"))
	require.NoError(t, b.AddWriter(data.Writer))
	length := stream.NewIntWriter(2, pb.Stream_LENGTH, wopts, true, false)
	length.Write(1)
	length.Write(2)
	require.NoError(t, b.AddWriter(length.Writer))

	b.SetEncoding(0, pb.ColumnEncoding_DIRECT, 0)
	b.SetEncoding(1, pb.ColumnEncoding_DIRECT_V2, 0)
	b.SetEncoding(2, pb.ColumnEncoding_DIRECT_V2, 0)

	buf, info, err := b.Build(headerSize)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	// stripe at offset 3 like after the file magic
	return td, append([]byte("ORC"), buf...), info
}

func TestStripe(t *testing.T) {
	for _, kind := range []pb.CompressionKind{pb.CompressionKind_NONE, pb.CompressionKind_ZLIB, pb.CompressionKind_ZSTD} {
		wopts := &config.WriterOptions{ChunkSize: 16, CompressionKind: kind, WriterTimezone: "Asia/Shanghai"}
		td, buf, info := buildStripe(t, wopts)
		file := FileMetadata{Compression: kind, CompressionBlockSize: 16}

		schema, err := td.ArrowSchema()
		require.NoError(t, err)
		opts := config.DefaultReaderOptions()
		s, err := New(orcio.NewMemSource(buf), file, td, schema.Fields(), 0, info, &opts)
		if err != nil {
			t.Fatalf("%s %+v", kind, err)
		}

		assert.Equal(t, uint64(3), s.NumberOfRows())
		assert.Equal(t, 0, s.StripeIndex())
		assert.Equal(t, "Asia/Shanghai", s.Location().String())
		assert.Equal(t, 5, s.StreamMap().Len())
		require.Equal(t, 2, len(s.Columns()))
		assert.Equal(t, "a", s.Columns()[0].Name())
		assert.Equal(t, uint32(2), s.Columns()[1].ColumnID())

		enc, err := s.Columns()[0].Encoding()
		require.NoError(t, err)
		assert.Equal(t, pb.ColumnEncoding_DIRECT_V2, enc.GetKind())

		r, err := s.StreamMap().Get(s.Columns()[0], pb.Stream_DATA)
		require.NoError(t, err)
		ints := stream.NewIntReader(enc.GetKind(), r, true)
		var values []int64
		for {
			v, err := ints.Next()
			if err == io.EOF {
				break
			}
			require.NoError(t, err)
			values = append(values, v)
		}
		assert.Equal(t, []int64{1, -2, 3}, values)

		// every call starts over
		r, err = s.StreamMap().Get(s.Columns()[0], pb.Stream_DATA)
		require.NoError(t, err)
		v, err := stream.NewIntReader(enc.GetKind(), r, true).Next()
		require.NoError(t, err)
		assert.Equal(t, int64(1), v)

		_, ok := s.StreamMap().GetOpt(s.Columns()[0], pb.Stream_PRESENT)
		assert.False(t, ok)
		_, err = s.StreamMap().Get(s.Columns()[0], pb.Stream_LENGTH)
		assert.True(t, errors.Is(err, common.ErrInvalidColumn))

		r, err = s.StreamMap().Get(s.Columns()[1], pb.Stream_DATA)
		require.NoError(t, err)
		bs, err := stream.NewBytesReader(r).NextBytes(3)
		require.NoError(t, err)
		assert.Equal(t, "xyz", string(bs))
	}
}

func TestStripePruning(t *testing.T) {
	wopts := &config.WriterOptions{ChunkSize: 64, CompressionKind: pb.CompressionKind_SNAPPY}
	td, buf, info := buildStripe(t, wopts)
	file := FileMetadata{Compression: pb.CompressionKind_SNAPPY, CompressionBlockSize: 64}

	projected, err := td.Select("b")
	require.NoError(t, err)
	schema, err := projected.ArrowSchema()
	require.NoError(t, err)

	opts := config.DefaultReaderOptions()
	s, err := New(orcio.NewMemSource(buf), file, projected, schema.Fields(), 1, info, &opts)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	// root index, b present, data, length
	assert.Equal(t, 4, s.StreamMap().Len())
	require.Equal(t, 1, len(s.Columns()))
	assert.Equal(t, "b", s.Columns()[0].Name())
	assert.Equal(t, time.UTC, s.Location())

	opts.ProjectionPruning = false
	s, err = New(orcio.NewMemSource(buf), file, projected, schema.Fields(), 1, info, &opts)
	require.NoError(t, err)
	assert.Equal(t, 5, s.StreamMap().Len())
}

func TestStreamLengthSum(t *testing.T) {
	wopts := &config.WriterOptions{ChunkSize: 64, CompressionKind: pb.CompressionKind_NONE}
	td, buf, info := buildStripe(t, wopts)
	file := FileMetadata{Compression: pb.CompressionKind_NONE}
	schema, err := td.ArrowSchema()
	require.NoError(t, err)
	opts := config.DefaultReaderOptions()

	// one more byte of data claimed than streams account for, footer moved along
	longer := &StripeMetadata{offset: info.offset, indexLength: info.indexLength, dataLength: info.dataLength + 1,
		footerLength: info.footerLength, numberOfRows: info.numberOfRows}
	padded := append(append(append([]byte{}, buf[:longer.FooterOffset()-1]...), 0), buf[info.FooterOffset():]...)
	_, err = New(orcio.NewMemSource(padded), file, td, schema.Fields(), 0, longer, &opts)
	assert.True(t, errors.Is(err, common.ErrCorrupt))

	shorter := &StripeMetadata{offset: info.offset, indexLength: info.indexLength, dataLength: info.dataLength - 1,
		footerLength: info.footerLength, numberOfRows: info.numberOfRows}
	cut := append(append([]byte{}, buf[:shorter.FooterOffset()]...), buf[info.FooterOffset():]...)
	_, err = New(orcio.NewMemSource(cut), file, td, schema.Fields(), 0, shorter, &opts)
	assert.True(t, errors.Is(err, common.ErrCorrupt))
}

func TestStripeErrors(t *testing.T) {
	wopts := &config.WriterOptions{ChunkSize: 64, CompressionKind: pb.CompressionKind_NONE}
	td, buf, info := buildStripe(t, wopts)
	file := FileMetadata{Compression: pb.CompressionKind_NONE}
	schema, err := td.ArrowSchema()
	require.NoError(t, err)
	opts := config.DefaultReaderOptions()

	_, err = New(orcio.NewMemSource(buf[:len(buf)-1]), file, td, schema.Fields(), 0, info, &opts)
	assert.True(t, errors.Is(err, common.ErrIo))

	_, err = New(orcio.NewMemSource(buf), file, td, schema.Fields()[:1], 0, info, &opts)
	assert.True(t, errors.Is(err, common.ErrMismatchedSchema))

	garbage := append(append([]byte{}, buf[:info.FooterOffset()]...), 0xff)
	bad := &StripeMetadata{offset: info.offset, indexLength: info.indexLength, dataLength: info.dataLength,
		footerLength: 1, numberOfRows: info.numberOfRows}
	_, err = New(orcio.NewMemSource(garbage), file, td, schema.Fields(), 0, bad, &opts)
	assert.True(t, errors.Is(err, common.ErrDecodeProto))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewAsync(ctx, orcio.SyncToAsync(orcio.NewMemSource(buf)), file, td, schema.Fields(), 0, info, &opts)
	assert.True(t, errors.Is(err, common.ErrIo))

	s, err := NewAsync(context.Background(), orcio.SyncToAsync(orcio.NewMemSource(buf)), file, td, schema.Fields(), 0,
		info, &opts)
	require.NoError(t, err)
	assert.Equal(t, 5, s.StreamMap().Len())
}

func TestStripeMetadata(t *testing.T) {
	offset, index, data, footer, rows := uint64(3), uint64(10), uint64(100), uint64(20), uint64(1000)
	info := &pb.StripeInformation{Offset: &offset, IndexLength: &index, DataLength: &data, FooterLength: &footer,
		NumberOfRows: &rows}
	values := uint64(990)
	stats := &pb.StripeStatistics{ColStats: []*pb.ColumnStatistics{{NumberOfValues: &values}}}

	m := NewStripeMetadata(info, stats)
	assert.Equal(t, uint64(113), m.FooterOffset())
	assert.Equal(t, uint64(1000), m.NumberOfRows())
	assert.Equal(t, uint64(990), m.ColumnStatistics()[0].GetNumberOfValues())
	assert.Equal(t, uint64(20), m.Information().GetFooterLength())
}
