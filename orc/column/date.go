package column

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/patrickhuang888/orcarrow/pb/pb"
)

// days since epoch in signed run length DATA
func newDateDecoder(b *base, encoding pb.ColumnEncoding_Kind) (ArrayBatchDecoder, error) {
	data, err := b.intStream(pb.Stream_DATA, encoding, true)
	if err != nil {
		return nil, err
	}
	return &valueDecoder[arrow.Date32]{base: b,
		next: func() (arrow.Date32, error) {
			v, err := data.Next()
			if err != nil {
				return 0, b.streamErr(err, pb.Stream_DATA)
			}
			return arrow.Date32(v), nil
		},
		newArray: func(values []arrow.Date32, valid []bool) arrow.Array {
			return buildArray(array.NewDate32Builder(b.mem), values, valid)
		}}, nil
}
