package column

import (
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/pkg/errors"

	"github.com/patrickhuang888/orcarrow/orc/common"
	"github.com/patrickhuang888/orcarrow/orc/config"
	"github.com/patrickhuang888/orcarrow/orc/schema"
	"github.com/patrickhuang888/orcarrow/orc/stream"
	"github.com/patrickhuang888/orcarrow/orc/stripe"
	"github.com/patrickhuang888/orcarrow/pb/pb"
)

// base holds what every decoder shares, the optional present stream included
type base struct {
	column  *schema.Column
	streams *stripe.StreamMap
	mem     memory.Allocator

	present *stream.BoolReader
}

func newBase(column *schema.Column, s *stripe.Stripe, opts *config.ReaderOptions) *base {
	b := &base{column: column, streams: s.StreamMap(), mem: opts.Allocator}
	if r, ok := s.StreamMap().GetOpt(column, pb.Stream_PRESENT); ok {
		b.present = stream.NewBoolReader(r)
	}
	return b
}

// nextPresent derives the presence of n rows, nil means all present
func (b *base) nextPresent(n int, parent []bool) ([]bool, error) {
	var own BoolPull
	if b.present != nil {
		own = b.present
	}
	present, err := DerivePresent(own, parent, n)
	if err != nil {
		return nil, errors.WithMessagef(err, "%s", b.column)
	}
	return present, nil
}

func (b *base) stream(kind pb.Stream_Kind) (*stream.Reader, error) {
	return b.streams.Get(b.column, kind)
}

// streamErr classifies an error pulling from stream kind, running out of values is corruption
func (b *base) streamErr(err error, kind pb.Stream_Kind) error {
	if errors.Is(err, io.EOF) {
		return errors.Wrapf(common.ErrCorrupt, "%s %s stream exhausted", b.column, kind)
	}
	return errors.WithMessagef(err, "%s %s stream", b.column, kind)
}

func (b *base) intStream(kind pb.Stream_Kind, encoding pb.ColumnEncoding_Kind, signed bool) (stream.IntReader, error) {
	r, err := b.stream(kind)
	if err != nil {
		return nil, err
	}
	return stream.NewIntReader(encoding, r, signed), nil
}

// valueDecoder decodes columns of one value per present row, next classifies
// its own errors
type valueDecoder[T any] struct {
	*base
	next     func() (T, error)
	newArray func(values []T, valid []bool) arrow.Array
	// frees state shared by the arrays, may be nil
	release func()
}

func (d *valueDecoder[T]) NextBatch(batchSize int, parentPresent []bool) (arrow.Array, error) {
	present, err := d.nextPresent(batchSize, parentPresent)
	if err != nil {
		return nil, err
	}
	var zero T
	values := make([]T, 0, initialCapacity(batchSize, present))
	for i := 0; i < batchSize; i++ {
		if present != nil && !present[i] {
			values = append(values, zero)
			continue
		}
		v, err := d.next()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	logger.Tracef("%s decoded %d rows", d.column, batchSize)
	return d.newArray(values, present), nil
}

func (d *valueDecoder[T]) Release() {
	if d.release != nil {
		d.release()
		d.release = nil
	}
}

type valuesAppender[T any] interface {
	array.Builder
	AppendValues(values []T, valid []bool)
}

func buildArray[T any, B valuesAppender[T]](b B, values []T, valid []bool) arrow.Array {
	defer b.Release()
	b.AppendValues(values, valid)
	return b.NewArray()
}
