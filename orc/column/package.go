// Package column decodes the streams of one stripe column into arrow arrays,
// batch by batch. Decoders form a tree mirroring the type tree, composite
// decoders own their children.
package column

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/patrickhuang888/orcarrow/orc/common"
	"github.com/patrickhuang888/orcarrow/orc/config"
	"github.com/patrickhuang888/orcarrow/orc/schema"
	"github.com/patrickhuang888/orcarrow/orc/stripe"
	"github.com/patrickhuang888/orcarrow/pb/pb"
)

var logger = log.New()

func SetLogLevel(level log.Level) {
	logger.SetLevel(level)
}

// ArrayBatchDecoder is a resumable cursor over the streams of one column.
type ArrayBatchDecoder interface {
	// NextBatch decodes batchSize logical rows. parentPresent, when not nil, has
	// batchSize entries, rows false there are null and consume no stream data.
	NextBatch(batchSize int, parentPresent []bool) (arrow.Array, error)

	// Release frees what the decoder keeps across batches, children included
	Release()
}

// NewDecoder builds the decoder tree of a top level column. Requesting more
// rows than the stripe has left is an error.
func NewDecoder(column *schema.Column, s *stripe.Stripe, opts *config.ReaderOptions) (ArrayBatchDecoder, error) {
	d, err := newDecoder(column, s, opts)
	if err != nil {
		return nil, err
	}
	return &rowLimit{ArrayBatchDecoder: d, column: column, remaining: column.NumberOfRows()}, nil
}

func newDecoder(column *schema.Column, s *stripe.Stripe, opts *config.ReaderOptions) (ArrayBatchDecoder, error) {
	if err := column.CheckLeaf(); err != nil {
		return nil, err
	}
	encoding, err := column.Encoding()
	if err != nil {
		return nil, err
	}
	kind := encoding.GetKind()
	logger.Debugf("new decoder of %s, encoding %s, field type %s", column, kind, column.Field().Type)

	base := newBase(column, s, opts)

	switch column.DataType().Kind {
	case pb.Type_BOOLEAN:
		if err := expectDirect(column, kind); err != nil {
			return nil, err
		}
		return newBoolDecoder(base)

	case pb.Type_BYTE:
		if err := expectDirect(column, kind); err != nil {
			return nil, err
		}
		return newByteDecoder(base)

	case pb.Type_SHORT, pb.Type_INT, pb.Type_LONG:
		if err := expectDirect(column, kind); err != nil {
			return nil, err
		}
		return newIntDecoder(base, kind)

	case pb.Type_FLOAT:
		if err := expectDirect(column, kind); err != nil {
			return nil, err
		}
		return newFloatDecoder(base)

	case pb.Type_DOUBLE:
		if err := expectDirect(column, kind); err != nil {
			return nil, err
		}
		return newDoubleDecoder(base)

	case pb.Type_STRING, pb.Type_VARCHAR, pb.Type_CHAR:
		switch kind {
		case pb.ColumnEncoding_DIRECT, pb.ColumnEncoding_DIRECT_V2:
			return newStringDirectDecoder(base, kind)
		case pb.ColumnEncoding_DICTIONARY, pb.ColumnEncoding_DICTIONARY_V2:
			return newStringDictionaryDecoder(base, kind)
		}
		return nil, errors.Wrapf(common.ErrUnsupportedTypeVariant, "%s encoding %s", column, kind)

	case pb.Type_BINARY:
		if err := expectDirect(column, kind); err != nil {
			return nil, err
		}
		return newBinaryDecoder(base, kind)

	case pb.Type_DECIMAL:
		if err := expectDirect(column, kind); err != nil {
			return nil, err
		}
		return newDecimalDecoder(base, kind)

	case pb.Type_DATE:
		if err := expectDirect(column, kind); err != nil {
			return nil, err
		}
		return newDateDecoder(base, kind)

	case pb.Type_TIMESTAMP, pb.Type_TIMESTAMP_INSTANT:
		if err := expectDirect(column, kind); err != nil {
			return nil, err
		}
		return newTimestampDecoder(base, kind, s.Location())

	case pb.Type_STRUCT:
		return newStructDecoder(base, s, opts)

	case pb.Type_LIST:
		return newListDecoder(base, kind, s, opts)

	case pb.Type_MAP:
		return newMapDecoder(base, kind, s, opts)

	case pb.Type_UNION:
		return newUnionDecoder(base, s, opts)
	}

	return nil, errors.Wrapf(common.ErrUnsupportedTypeVariant, "%s", column)
}

func expectDirect(column *schema.Column, kind pb.ColumnEncoding_Kind) error {
	if kind != pb.ColumnEncoding_DIRECT && kind != pb.ColumnEncoding_DIRECT_V2 {
		return errors.Wrapf(common.ErrUnsupportedTypeVariant, "%s encoding %s", column, kind)
	}
	return nil
}

// children decoders of a composite column, in type order
func newChildren(column *schema.Column, s *stripe.Stripe, opts *config.ReaderOptions) ([]ArrayBatchDecoder, error) {
	columns, err := column.Children()
	if err != nil {
		return nil, err
	}
	decoders := make([]ArrayBatchDecoder, len(columns))
	for i, c := range columns {
		if decoders[i], err = newDecoder(c, s, opts); err != nil {
			releaseAll(decoders[:i])
			return nil, err
		}
	}
	return decoders, nil
}

func releaseAll(decoders []ArrayBatchDecoder) {
	for _, d := range decoders {
		if d != nil {
			d.Release()
		}
	}
}

type rowLimit struct {
	ArrayBatchDecoder
	column    *schema.Column
	remaining uint64
}

func (r *rowLimit) NextBatch(batchSize int, parentPresent []bool) (arrow.Array, error) {
	if batchSize < 0 || uint64(batchSize) > r.remaining {
		return nil, errors.Wrapf(common.ErrUnexpected, "%s batch of %d rows, %d rows remaining", r.column, batchSize,
			r.remaining)
	}
	arr, err := r.ArrayBatchDecoder.NextBatch(batchSize, parentPresent)
	if err != nil {
		return nil, err
	}
	r.remaining -= uint64(batchSize)
	return arr, nil
}
