package orc

import (
	"context"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/pkg/errors"

	"github.com/patrickhuang888/orcarrow/orc/api"
	"github.com/patrickhuang888/orcarrow/orc/column"
	"github.com/patrickhuang888/orcarrow/orc/common"
	"github.com/patrickhuang888/orcarrow/orc/config"
	orcio "github.com/patrickhuang888/orcarrow/orc/io"
	"github.com/patrickhuang888/orcarrow/orc/stripe"
)

// StripeReader decodes one stripe into records of at most BatchSize rows
type StripeReader struct {
	stripe    *stripe.Stripe
	schema    *arrow.Schema
	decoders  []column.ArrayBatchDecoder
	batchSize int
	remaining uint64
}

// NewStripeReader builds decoders of every column of s. The fields of schema
// must be the ones the stripe was assembled with.
func NewStripeReader(s *stripe.Stripe, schema *arrow.Schema, opts *config.ReaderOptions) (*StripeReader, error) {
	o := *opts
	o.Normalize()

	columns := s.Columns()
	if schema.NumFields() != len(columns) {
		return nil, errors.Wrapf(common.ErrMismatchedSchema, "stripe %d has %d columns, schema %d fields",
			s.StripeIndex(), len(columns), schema.NumFields())
	}

	r := &StripeReader{stripe: s, schema: schema, batchSize: o.BatchSize, remaining: s.NumberOfRows()}
	for i, c := range columns {
		if f := schema.Field(i); f.Name != c.Name() || !arrow.TypeEqual(f.Type, c.Field().Type) {
			r.Release()
			return nil, errors.Wrapf(common.ErrMismatchedSchema, "schema field %s, stripe column %s %s", f, c,
				c.Field().Type)
		}
		d, err := column.NewDecoder(c, s, &o)
		if err != nil {
			r.Release()
			return nil, errors.WithMessagef(err, "stripe %d", s.StripeIndex())
		}
		r.decoders = append(r.decoders, d)
	}
	logger.Debugf("stripe reader %d, %d rows, batch size %d, schema %s", s.StripeIndex(), r.remaining,
		r.batchSize, schema)
	return r, nil
}

func (r *StripeReader) Schema() *arrow.Schema {
	return r.schema
}

func (r *StripeReader) Stripe() *stripe.Stripe {
	return r.stripe
}

// Remaining is the number of rows not yet returned
func (r *StripeReader) Remaining() uint64 {
	return r.remaining
}

// Next returns the next batch, io.EOF after the last one. The caller releases
// the record.
func (r *StripeReader) Next() (arrow.Record, error) {
	if r.remaining == 0 {
		return nil, io.EOF
	}
	n := uint64(r.batchSize)
	if r.remaining < n {
		n = r.remaining
	}

	arrays := make([]arrow.Array, 0, len(r.decoders))
	release := func() {
		for _, a := range arrays {
			a.Release()
		}
	}
	for i, d := range r.decoders {
		arr, err := d.NextBatch(int(n), nil)
		if err != nil {
			release()
			return nil, errors.WithMessagef(err, "stripe %d column %s", r.stripe.StripeIndex(), r.schema.Field(i).Name)
		}
		arrays = append(arrays, arr)
	}

	rec := array.NewRecord(r.schema, arrays, int64(n))
	release()
	r.remaining -= n
	logger.Tracef("stripe %d batch of %d rows, %d remaining", r.stripe.StripeIndex(), n, r.remaining)
	return rec, nil
}

// Release frees what the decoders keep across batches, records already
// returned stay valid
func (r *StripeReader) Release() {
	for _, d := range r.decoders {
		d.Release()
	}
	r.decoders = nil
}

// ReadStripe decodes the whole stripe index with a blocking source. Typ is the
// normalized root struct, possibly narrowed by Select, schema its output.
func ReadStripe(src orcio.ChunkReader, file stripe.FileMetadata, typ *api.TypeDescription, schema *arrow.Schema,
	index int, info *stripe.StripeMetadata, opts *config.ReaderOptions) ([]arrow.Record, error) {
	s, err := stripe.New(src, file, typ, schema.Fields(), index, info, opts)
	if err != nil {
		return nil, err
	}
	return readAll(s, schema, opts)
}

// ReadStripeAsync is ReadStripe over an asynchronous source
func ReadStripeAsync(ctx context.Context, src orcio.AsyncChunkReader, file stripe.FileMetadata,
	typ *api.TypeDescription, schema *arrow.Schema, index int, info *stripe.StripeMetadata,
	opts *config.ReaderOptions) ([]arrow.Record, error) {
	s, err := stripe.NewAsync(ctx, src, file, typ, schema.Fields(), index, info, opts)
	if err != nil {
		return nil, err
	}
	return readAll(s, schema, opts)
}

func readAll(s *stripe.Stripe, schema *arrow.Schema, opts *config.ReaderOptions) ([]arrow.Record, error) {
	r, err := NewStripeReader(s, schema, opts)
	if err != nil {
		return nil, err
	}
	defer r.Release()

	var records []arrow.Record
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			for _, rec := range records {
				rec.Release()
			}
			return nil, err
		}
		records = append(records, rec)
	}
}
