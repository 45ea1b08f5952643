package column

import (
	"github.com/apache/arrow-go/v18/arrow"

	"github.com/patrickhuang888/orcarrow/orc/config"
	"github.com/patrickhuang888/orcarrow/orc/stream"
	"github.com/patrickhuang888/orcarrow/orc/stripe"
	"github.com/patrickhuang888/orcarrow/pb/pb"
)

// mapDecoder is a list of key value entries, keys and values decode the same count
type mapDecoder struct {
	*base
	lengths stream.IntReader
	key     ArrayBatchDecoder
	value   ArrayBatchDecoder
}

func newMapDecoder(b *base, encoding pb.ColumnEncoding_Kind, s *stripe.Stripe,
	opts *config.ReaderOptions) (ArrayBatchDecoder, error) {
	children, err := newChildren(b.column, s, opts)
	if err != nil {
		return nil, err
	}
	lengths, err := b.intStream(pb.Stream_LENGTH, encoding, false)
	if err != nil {
		releaseAll(children)
		return nil, err
	}
	return &mapDecoder{base: b, lengths: lengths, key: children[0], value: children[1]}, nil
}

func (d *mapDecoder) Release() {
	d.key.Release()
	d.value.Release()
}

func (d *mapDecoder) NextBatch(batchSize int, parentPresent []bool) (arrow.Array, error) {
	present, offsets, total, err := nextOffsets(d.base, d.lengths, batchSize, parentPresent)
	if err != nil {
		return nil, err
	}

	keys, err := d.key.NextBatch(total, nil)
	if err != nil {
		return nil, err
	}
	defer keys.Release()
	values, err := d.value.NextBatch(total, nil)
	if err != nil {
		return nil, err
	}
	defer values.Release()

	mt := d.column.Field().Type.(*arrow.MapType)
	entries, err := newStructArray(mt.Elem().(*arrow.StructType), total, []arrow.Array{keys, values}, nil)
	if err != nil {
		return nil, err
	}
	defer entries.Release()

	logger.Tracef("%s decoded %d rows of %d entries", d.column, batchSize, total)
	return newListArray(mt, offsets, entries, present)
}
