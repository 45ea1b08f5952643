package stripe

import (
	"context"
	"fmt"
	"time"

	"github.com/RoaringBitmap/roaring"
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/patrickhuang888/orcarrow/orc/api"
	"github.com/patrickhuang888/orcarrow/orc/common"
	"github.com/patrickhuang888/orcarrow/orc/config"
	orcio "github.com/patrickhuang888/orcarrow/orc/io"
	"github.com/patrickhuang888/orcarrow/orc/schema"
	"github.com/patrickhuang888/orcarrow/orc/stream"
	"github.com/patrickhuang888/orcarrow/pb/pb"
)

var logger = log.New()

func SetLogLevel(level log.Level) {
	logger.SetLevel(level)
}

// FileMetadata carries what the file tail tells about every stripe
type FileMetadata struct {
	Compression          pb.CompressionKind
	CompressionBlockSize uint64
}

// StripeMetadata locates a stripe within the file
type StripeMetadata struct {
	offset       uint64
	indexLength  uint64
	dataLength   uint64
	footerLength uint64
	numberOfRows uint64

	columnStatistics []*pb.ColumnStatistics
}

func NewStripeMetadata(info *pb.StripeInformation, stats *pb.StripeStatistics) *StripeMetadata {
	return &StripeMetadata{offset: info.GetOffset(), indexLength: info.GetIndexLength(), dataLength: info.GetDataLength(),
		footerLength: info.GetFooterLength(), numberOfRows: info.GetNumberOfRows(), columnStatistics: stats.GetColStats()}
}

func (m *StripeMetadata) Offset() uint64 {
	return m.offset
}

func (m *StripeMetadata) IndexLength() uint64 {
	return m.indexLength
}

func (m *StripeMetadata) DataLength() uint64 {
	return m.dataLength
}

func (m *StripeMetadata) FooterLength() uint64 {
	return m.footerLength
}

func (m *StripeMetadata) NumberOfRows() uint64 {
	return m.numberOfRows
}

func (m *StripeMetadata) ColumnStatistics() []*pb.ColumnStatistics {
	return m.columnStatistics
}

func (m *StripeMetadata) FooterOffset() uint64 {
	return m.offset + m.indexLength + m.dataLength
}

// Information converts back to the footer message
func (m *StripeMetadata) Information() *pb.StripeInformation {
	offset, index, data, footer, rows := m.offset, m.indexLength, m.dataLength, m.footerLength, m.numberOfRows
	return &pb.StripeInformation{Offset: &offset, IndexLength: &index, DataLength: &data, FooterLength: &footer,
		NumberOfRows: &rows}
}

func (m *StripeMetadata) String() string {
	return fmt.Sprintf("offset %d, index %d, data %d, footer %d, rows %d", m.offset, m.indexLength, m.dataLength,
		m.footerLength, m.numberOfRows)
}

// Stripe holds the decoded footer and the raw bytes of every stream needed by
// the projected columns of one stripe.
type Stripe struct {
	footer       *pb.StripeFooter
	columns      []*schema.Column
	streamMap    *StreamMap
	numberOfRows uint64
	stripeIndex  int
	loc          *time.Location
}

type fetchFunc func(offset, length uint64) ([]byte, error)

// New reads the footer and the streams of stripe info with a blocking source.
// Projected is a normalized root struct, possibly narrowed by Select, fields
// are the output fields of its children.
func New(src orcio.ChunkReader, file FileMetadata, projected *api.TypeDescription, fields []arrow.Field,
	stripeIndex int, info *StripeMetadata, opts *config.ReaderOptions) (*Stripe, error) {
	return newStripe(src.GetBytes, file, projected, fields, stripeIndex, info, opts)
}

// NewAsync is New fetching from an asynchronous source, ctx bounds every fetch
func NewAsync(ctx context.Context, src orcio.AsyncChunkReader, file FileMetadata, projected *api.TypeDescription,
	fields []arrow.Field, stripeIndex int, info *StripeMetadata, opts *config.ReaderOptions) (*Stripe, error) {
	fetch := func(offset, length uint64) ([]byte, error) {
		return src.GetBytes(ctx, offset, length)
	}
	return newStripe(fetch, file, projected, fields, stripeIndex, info, opts)
}

func newStripe(fetch fetchFunc, file FileMetadata, projected *api.TypeDescription, fields []arrow.Field,
	stripeIndex int, info *StripeMetadata, opts *config.ReaderOptions) (*Stripe, error) {
	if projected.Kind != pb.Type_STRUCT {
		return nil, errors.Wrapf(common.ErrMismatchedSchema, "projected root type %s is not struct", projected.Kind)
	}
	if len(projected.Children) != len(fields) {
		return nil, errors.Wrapf(common.ErrMismatchedSchema, "projected root has %d children, output has %d fields",
			len(projected.Children), len(fields))
	}

	footerBytes, err := fetch(info.FooterOffset(), info.FooterLength())
	if err != nil {
		return nil, wrapIo(err, "stripe %d footer", stripeIndex)
	}
	footer, err := DecodeFooter(footerBytes, file)
	if err != nil {
		return nil, errors.WithMessagef(err, "stripe %d", stripeIndex)
	}
	logger.Debugf("stripe %d, %s, footer %s", stripeIndex, info, footer)

	loc, err := resolveLocation(footer.GetWriterTimezone(), opts)
	if err != nil {
		return nil, err
	}

	columns := make([]*schema.Column, len(fields))
	for i, td := range projected.Children {
		columns[i] = schema.NewColumn(projected.ChildrenNames[i], td, footer, info.NumberOfRows(), fields[i])
	}

	var wanted *roaring.Bitmap
	if opts.ProjectionPruning {
		wanted = roaring.New()
		for _, id := range projected.Projection() {
			wanted.Add(id)
		}
	}

	streams := &StreamMap{inner: make(map[streamKey]streamData), compression: file.Compression,
		chunkSize: int(file.CompressionBlockSize)}
	offset := info.Offset()
	for _, s := range footer.GetStreams() {
		length := s.GetLength()
		if offset+length > info.FooterOffset() || offset+length < offset {
			return nil, errors.Wrapf(common.ErrCorrupt, "stripe %d stream %s at %d runs past footer at %d",
				stripeIndex, s, offset, info.FooterOffset())
		}
		if wanted != nil && !wanted.Contains(s.GetColumn()) {
			logger.Tracef("stripe %d skip stream %s", stripeIndex, s)
			offset += length
			continue
		}
		data, err := fetch(offset, length)
		if err != nil {
			return nil, wrapIo(err, "stripe %d stream %s", stripeIndex, s)
		}
		streams.inner[streamKey{column: s.GetColumn(), kind: s.GetKind()}] = streamData{info: s, data: data}
		offset += length
	}
	if offset != info.FooterOffset() {
		return nil, errors.Wrapf(common.ErrCorrupt, "stripe %d streams end at %d, footer at %d", stripeIndex, offset,
			info.FooterOffset())
	}

	return &Stripe{footer: footer, columns: columns, streamMap: streams, numberOfRows: info.NumberOfRows(),
		stripeIndex: stripeIndex, loc: loc}, nil
}

// DecodeFooter decompresses and decodes the stripe footer bytes
func DecodeFooter(b []byte, file FileMetadata) (*pb.StripeFooter, error) {
	raw, err := common.DecompressAll(file.Compression, int(file.CompressionBlockSize), b)
	if err != nil {
		if errors.Is(err, common.ErrUnsupportedTypeVariant) {
			return nil, err
		}
		return nil, errors.Wrapf(common.ErrIo, "decompress footer: %v", err)
	}
	footer := &pb.StripeFooter{}
	if err = footer.Unmarshal(raw); err != nil {
		return nil, errors.Wrapf(common.ErrDecodeProto, "%v", err)
	}
	return footer, nil
}

func resolveLocation(tz string, opts *config.ReaderOptions) (*time.Location, error) {
	if tz == "" {
		if opts.Loc != nil {
			return opts.Loc, nil
		}
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, errors.Wrapf(common.ErrDecodeProto, "writer timezone %q: %v", tz, err)
	}
	return loc, nil
}

func wrapIo(err error, format string, args ...interface{}) error {
	if errors.Is(err, common.ErrIo) {
		return errors.WithMessagef(err, format, args...)
	}
	return errors.Wrapf(common.ErrIo, "%s: %v", fmt.Sprintf(format, args...), err)
}

func (s *Stripe) Footer() *pb.StripeFooter {
	return s.footer
}

// Columns are the top level columns in projection order
func (s *Stripe) Columns() []*schema.Column {
	return s.columns
}

func (s *Stripe) StreamMap() *StreamMap {
	return s.streamMap
}

func (s *Stripe) NumberOfRows() uint64 {
	return s.numberOfRows
}

func (s *Stripe) StripeIndex() int {
	return s.stripeIndex
}

// Location is the writer timezone, or the configured one when the footer has none
func (s *Stripe) Location() *time.Location {
	return s.loc
}

type streamKey struct {
	column uint32
	kind   pb.Stream_Kind
}

type streamData struct {
	info *pb.Stream
	data []byte
}

// StreamMap keeps the still compressed bytes of streams by column and kind
type StreamMap struct {
	inner       map[streamKey]streamData
	compression pb.CompressionKind
	chunkSize   int
}

// Get returns a new cursor over the stream, ErrInvalidColumn if absent
func (m *StreamMap) Get(column *schema.Column, kind pb.Stream_Kind) (*stream.Reader, error) {
	r, ok := m.GetOpt(column, kind)
	if !ok {
		return nil, errors.Wrapf(common.ErrInvalidColumn, "%s has no %s stream", column, kind)
	}
	return r, nil
}

// GetOpt returns a new cursor over the stream if present, each call starts
// from the stream beginning
func (m *StreamMap) GetOpt(column *schema.Column, kind pb.Stream_Kind) (*stream.Reader, bool) {
	sd, ok := m.inner[streamKey{column: column.ColumnID(), kind: kind}]
	if !ok {
		return nil, false
	}
	return stream.NewReader(sd.info, sd.data, m.compression, m.chunkSize), true
}

func (m *StreamMap) Len() int {
	return len(m.inner)
}
