package column

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/decimal128"
	"github.com/pkg/errors"

	"github.com/patrickhuang888/orcarrow/orc/common"
	"github.com/patrickhuang888/orcarrow/orc/stream"
	"github.com/patrickhuang888/orcarrow/pb/pb"
)

// decimals have unbounded varint DATA and the scale of each value in signed
// SECONDARY, values are rescaled to the field scale
func newDecimalDecoder(b *base, kind pb.ColumnEncoding_Kind) (ArrayBatchDecoder, error) {
	r, err := b.stream(pb.Stream_DATA)
	if err != nil {
		return nil, err
	}
	data := stream.NewVarIntReader(r)
	scales, err := b.intStream(pb.Stream_SECONDARY, kind, true)
	if err != nil {
		return nil, err
	}
	dt := b.column.Field().Type.(*arrow.Decimal128Type)

	return &valueDecoder[decimal128.Num]{base: b,
		next: func() (decimal128.Num, error) {
			v, err := data.Next()
			if err != nil {
				return decimal128.Num{}, b.streamErr(err, pb.Stream_DATA)
			}
			scale, err := scales.Next()
			if err != nil {
				return decimal128.Num{}, b.streamErr(err, pb.Stream_SECONDARY)
			}
			if v.BitLen() > 127 {
				return decimal128.Num{}, errors.Wrapf(common.ErrCorrupt, "%s decimal %s over 128 bits", b.column, v)
			}
			n := decimal128.FromBigInt(v)
			if int32(scale) != dt.Scale {
				if n, err = n.Rescale(int32(scale), dt.Scale); err != nil {
					return decimal128.Num{}, errors.Wrapf(common.ErrArrow, "%s rescale %s from %d to %d: %v",
						b.column, v, scale, dt.Scale, err)
				}
			}
			if !n.FitsInPrecision(dt.Precision) {
				return decimal128.Num{}, errors.Wrapf(common.ErrArrow, "%s decimal %s does not fit precision %d",
					b.column, n.ToString(dt.Scale), dt.Precision)
			}
			return n, nil
		},
		newArray: func(values []decimal128.Num, valid []bool) arrow.Array {
			return buildArray(array.NewDecimal128Builder(b.mem, dt), values, valid)
		}}, nil
}
