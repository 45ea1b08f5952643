package column

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/patrickhuang888/orcarrow/pb/pb"
)

// smallint, int and bigint share signed run length DATA
func newIntDecoder(b *base, encoding pb.ColumnEncoding_Kind) (ArrayBatchDecoder, error) {
	data, err := b.intStream(pb.Stream_DATA, encoding, true)
	if err != nil {
		return nil, err
	}
	next := func() (int64, error) {
		v, err := data.Next()
		if err != nil {
			return 0, b.streamErr(err, pb.Stream_DATA)
		}
		return v, nil
	}

	switch b.column.DataType().Kind {
	case pb.Type_SHORT:
		return &valueDecoder[int16]{base: b,
			next: func() (int16, error) {
				v, err := next()
				return int16(v), err
			},
			newArray: func(values []int16, valid []bool) arrow.Array {
				return buildArray(array.NewInt16Builder(b.mem), values, valid)
			}}, nil
	case pb.Type_INT:
		return &valueDecoder[int32]{base: b,
			next: func() (int32, error) {
				v, err := next()
				return int32(v), err
			},
			newArray: func(values []int32, valid []bool) arrow.Array {
				return buildArray(array.NewInt32Builder(b.mem), values, valid)
			}}, nil
	default:
		return &valueDecoder[int64]{base: b, next: next,
			newArray: func(values []int64, valid []bool) arrow.Array {
				return buildArray(array.NewInt64Builder(b.mem), values, valid)
			}}, nil
	}
}
