package stripe

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/patrickhuang888/orcarrow/orc/common"
	"github.com/patrickhuang888/orcarrow/orc/config"
	"github.com/patrickhuang888/orcarrow/orc/stream"
	"github.com/patrickhuang888/orcarrow/pb/pb"
)

// Builder lays out one stripe from already encoded streams: index streams,
// data streams, then the compressed footer.
type Builder struct {
	opts         *config.WriterOptions
	numberOfRows uint64

	index []*pb.Stream
	data  []*pb.Stream
	bufs  map[*pb.Stream][]byte

	encodings []*pb.ColumnEncoding
}

func NewBuilder(numberOfRows uint64, opts *config.WriterOptions) *Builder {
	return &Builder{opts: opts, numberOfRows: numberOfRows, bufs: make(map[*pb.Stream][]byte)}
}

// AddStream appends encoded, possibly compressed, stream bytes
func (b *Builder) AddStream(column uint32, kind pb.Stream_Kind, encoded []byte) {
	length := uint64(len(encoded))
	info := &pb.Stream{Kind: kind.Enum(), Column: &column, Length: &length}
	if kind.IsIndex() {
		b.index = append(b.index, info)
	} else {
		b.data = append(b.data, info)
	}
	b.bufs[info] = encoded
}

// AddWriter flushes w and appends its stream
func (b *Builder) AddWriter(w *stream.Writer) error {
	data, err := w.Flush()
	if err != nil {
		return err
	}
	b.AddStream(w.Info().GetColumn(), w.Info().GetKind(), data)
	return nil
}

// SetEncoding sets the encoding of column, columns not set are DIRECT
func (b *Builder) SetEncoding(column uint32, kind pb.ColumnEncoding_Kind, dictionarySize uint32) {
	for uint32(len(b.encodings)) <= column {
		b.encodings = append(b.encodings, &pb.ColumnEncoding{Kind: pb.ColumnEncoding_DIRECT.Enum()})
	}
	enc := &pb.ColumnEncoding{Kind: kind.Enum()}
	if dictionarySize != 0 {
		enc.DictionarySize = &dictionarySize
	}
	b.encodings[column] = enc
}

// Build returns the stripe bytes and its metadata as if the stripe started at offset
func (b *Builder) Build(offset uint64) ([]byte, *StripeMetadata, error) {
	out := &bytes.Buffer{}
	footer := &pb.StripeFooter{Columns: b.encodings}
	if b.opts.WriterTimezone != "" {
		tz := b.opts.WriterTimezone
		footer.WriterTimezone = &tz
	}

	var indexLength, dataLength uint64
	for _, s := range b.index {
		out.Write(b.bufs[s])
		indexLength += s.GetLength()
		footer.Streams = append(footer.Streams, s)
	}
	for _, s := range b.data {
		out.Write(b.bufs[s])
		dataLength += s.GetLength()
		footer.Streams = append(footer.Streams, s)
	}

	footerBuf, err := footer.Marshal()
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}
	before := out.Len()
	if err = common.CompressChunks(b.opts.CompressionKind, b.opts.ChunkSize, out, footerBuf); err != nil {
		return nil, nil, err
	}
	footerLength := uint64(out.Len() - before)

	logger.Debugf("build stripe, index %d, data %d, footer %d, %s", indexLength, dataLength, footerLength,
		footer.String())

	return out.Bytes(), &StripeMetadata{offset: offset, indexLength: indexLength, dataLength: dataLength,
		footerLength: footerLength, numberOfRows: b.numberOfRows}, nil
}

// File returns the file metadata matching the builder options
func (b *Builder) File() FileMetadata {
	return FileMetadata{Compression: b.opts.CompressionKind, CompressionBlockSize: uint64(b.opts.ChunkSize)}
}
