package column

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/patrickhuang888/orcarrow/orc/stream"
	"github.com/patrickhuang888/orcarrow/pb/pb"
)

// tinyint, byte run length DATA
func newByteDecoder(b *base) (ArrayBatchDecoder, error) {
	r, err := b.stream(pb.Stream_DATA)
	if err != nil {
		return nil, err
	}
	data := stream.NewByteReader(r)
	return &valueDecoder[int8]{base: b,
		next: func() (int8, error) {
			v, err := data.Next()
			if err != nil {
				return 0, b.streamErr(err, pb.Stream_DATA)
			}
			return int8(v), nil
		},
		newArray: func(values []int8, valid []bool) arrow.Array {
			return buildArray(array.NewInt8Builder(b.mem), values, valid)
		}}, nil
}
