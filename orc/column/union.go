package column

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/pkg/errors"

	"github.com/patrickhuang888/orcarrow/orc/common"
	"github.com/patrickhuang888/orcarrow/orc/config"
	"github.com/patrickhuang888/orcarrow/orc/stream"
	"github.com/patrickhuang888/orcarrow/orc/stripe"
	"github.com/patrickhuang888/orcarrow/pb/pb"
)

// unionDecoder reads a variant tag per present row from DATA. Variant columns
// hold values of their tagged rows only. Union arrays have no validity, a null
// row points at a null slot of variant 0.
type unionDecoder struct {
	*base
	tags     *stream.ByteReader
	variants []ArrayBatchDecoder
}

func newUnionDecoder(b *base, s *stripe.Stripe, opts *config.ReaderOptions) (ArrayBatchDecoder, error) {
	variants, err := newChildren(b.column, s, opts)
	if err != nil {
		return nil, err
	}
	r, err := b.stream(pb.Stream_DATA)
	if err != nil {
		releaseAll(variants)
		return nil, err
	}
	return &unionDecoder{base: b, tags: stream.NewByteReader(r), variants: variants}, nil
}

func (d *unionDecoder) Release() {
	releaseAll(d.variants)
}

func (d *unionDecoder) NextBatch(batchSize int, parentPresent []bool) (arrow.Array, error) {
	present, err := d.nextPresent(batchSize, parentPresent)
	if err != nil {
		return nil, err
	}

	tags := make([]int8, 0, initialCapacity(batchSize, present))
	for i := 0; i < batchSize; i++ {
		if present != nil && !present[i] {
			tags = append(tags, 0)
			continue
		}
		tag, err := d.tags.Next()
		if err != nil {
			return nil, d.streamErr(err, pb.Stream_DATA)
		}
		if int(tag) >= len(d.variants) {
			return nil, errors.Wrapf(common.ErrCorrupt, "%s tag %d of %d variants", d.column, tag, len(d.variants))
		}
		tags = append(tags, int8(tag))
	}

	children := make([]arrow.Array, len(d.variants))
	defer func() {
		for _, c := range children {
			if c != nil {
				c.Release()
			}
		}
	}()

	var arr arrow.Array
	switch dt := d.column.Field().Type.(type) {
	case *arrow.DenseUnionType:
		offsets := make([]int32, batchSize)
		masks := make([][]bool, len(d.variants))
		nulls := false
		for i, tag := range tags {
			offsets[i] = int32(len(masks[tag]))
			valid := present == nil || present[i]
			masks[tag] = append(masks[tag], valid)
			nulls = nulls || !valid
		}
		for v, variant := range d.variants {
			mask := masks[v]
			if v != 0 || !nulls {
				// only variant 0 carries null slots
				mask = nil
			}
			if children[v], err = variant.NextBatch(len(masks[v]), mask); err != nil {
				return nil, err
			}
		}
		arr = array.NewDenseUnion(dt, batchSize, children, typeIdsBuffer(tags), int32Buffer(offsets), 0)

	case *arrow.SparseUnionType:
		for v, variant := range d.variants {
			mask := make([]bool, batchSize)
			for i, tag := range tags {
				mask[i] = int(tag) == v && (present == nil || present[i])
			}
			if children[v], err = variant.NextBatch(batchSize, mask); err != nil {
				return nil, err
			}
		}
		arr = array.NewSparseUnion(dt, batchSize, children, typeIdsBuffer(tags), 0)

	default:
		return nil, errors.Wrapf(common.ErrMismatchedSchema, "%s arrow type %s", d.column, dt)
	}

	logger.Tracef("%s decoded %d rows", d.column, batchSize)
	return arr, nil
}

func typeIdsBuffer(tags []int8) *memory.Buffer {
	return memory.NewBufferBytes(arrow.Int8Traits.CastToBytes(tags))
}
