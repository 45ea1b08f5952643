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

// listDecoder pulls one LENGTH value per present row and asks the element
// decoder for their sum
type listDecoder struct {
	*base
	lengths stream.IntReader
	element ArrayBatchDecoder
}

func newListDecoder(b *base, encoding pb.ColumnEncoding_Kind, s *stripe.Stripe,
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
	return &listDecoder{base: b, lengths: lengths, element: children[0]}, nil
}

func (d *listDecoder) NextBatch(batchSize int, parentPresent []bool) (arrow.Array, error) {
	present, offsets, total, err := nextOffsets(d.base, d.lengths, batchSize, parentPresent)
	if err != nil {
		return nil, err
	}

	elements, err := d.element.NextBatch(total, nil)
	if err != nil {
		return nil, err
	}
	defer elements.Release()

	logger.Tracef("%s decoded %d rows of %d elements", d.column, batchSize, total)
	return newListArray(d.column.Field().Type, offsets, elements, present)
}

func (d *listDecoder) Release() {
	d.element.Release()
}

// nextOffsets derives presence, pulls a length for every present row and
// returns batchSize+1 offsets, the last one is the child element count
func nextOffsets(b *base, lengths stream.IntReader, batchSize int, parentPresent []bool) (present []bool,
	offsets []int32, total int, err error) {
	if present, err = b.nextPresent(batchSize, parentPresent); err != nil {
		return
	}

	fetch := CountPresent(present, batchSize)
	pulled := make([]int64, 0, initialCapacity(fetch, present))
	for i := 0; i < fetch; i++ {
		var l int64
		if l, err = lengths.Next(); err != nil {
			err = b.streamErr(err, pb.Stream_LENGTH)
			return
		}
		pulled = append(pulled, l)
	}

	var full []int64
	if full, err = PopulateLengthsWithNulls(pulled, batchSize, present); err != nil {
		return
	}
	if offsets, err = OffsetsFromLengths(full); err != nil {
		err = errors.WithMessagef(err, "%s", b.column)
		return
	}
	total = int(offsets[batchSize])
	return
}

// newListArray builds a list or map array, the last offset must be the child length
func newListArray(dt arrow.DataType, offsets []int32, child arrow.Array, present []bool) (arrow.Array, error) {
	n := len(offsets) - 1
	if int(offsets[n]) != child.Len() {
		return nil, errors.Wrapf(common.ErrArrow, "%s offsets end at %d, child has %d", dt, offsets[n], child.Len())
	}
	validity, nulls := ValidityBitmap(present)
	data := array.NewData(dt, n, []*memory.Buffer{validity, int32Buffer(offsets)}, []arrow.ArrayData{child.Data()},
		nulls, 0)
	defer data.Release()
	return array.MakeFromData(data), nil
}
