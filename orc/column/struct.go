package column

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/pkg/errors"

	"github.com/patrickhuang888/orcarrow/orc/common"
	"github.com/patrickhuang888/orcarrow/orc/config"
	"github.com/patrickhuang888/orcarrow/orc/stripe"
)

// structDecoder decodes every child for the same rows, the struct presence
// is their parent mask
type structDecoder struct {
	*base
	children []ArrayBatchDecoder
}

func newStructDecoder(b *base, s *stripe.Stripe, opts *config.ReaderOptions) (ArrayBatchDecoder, error) {
	children, err := newChildren(b.column, s, opts)
	if err != nil {
		return nil, err
	}
	return &structDecoder{base: b, children: children}, nil
}

func (d *structDecoder) Release() {
	releaseAll(d.children)
}

func (d *structDecoder) NextBatch(batchSize int, parentPresent []bool) (arrow.Array, error) {
	present, err := d.nextPresent(batchSize, parentPresent)
	if err != nil {
		return nil, err
	}

	arrays := make([]arrow.Array, len(d.children))
	defer func() {
		for _, a := range arrays {
			if a != nil {
				a.Release()
			}
		}
	}()
	for i, child := range d.children {
		if arrays[i], err = child.NextBatch(batchSize, present); err != nil {
			return nil, err
		}
	}

	logger.Tracef("%s decoded %d rows", d.column, batchSize)
	return newStructArray(d.column.Field().Type.(*arrow.StructType), batchSize, arrays, present)
}

func newStructArray(dt *arrow.StructType, n int, children []arrow.Array, present []bool) (arrow.Array, error) {
	childData := make([]arrow.ArrayData, len(children))
	for i, c := range children {
		if c.Len() != n {
			return nil, errors.Wrapf(common.ErrArrow, "struct of %d rows, child %s has %d", n, dt.Field(i).Name,
				c.Len())
		}
		childData[i] = c.Data()
	}
	validity, nulls := ValidityBitmap(present)
	data := array.NewData(dt, n, []*memory.Buffer{validity}, childData, nulls, 0)
	defer data.Release()
	return array.NewStructData(data), nil
}
