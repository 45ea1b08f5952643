package column

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/patrickhuang888/orcarrow/orc/stream"
	"github.com/patrickhuang888/orcarrow/pb/pb"
)

func newBoolDecoder(b *base) (ArrayBatchDecoder, error) {
	r, err := b.stream(pb.Stream_DATA)
	if err != nil {
		return nil, err
	}
	data := stream.NewBoolReader(r)
	return &valueDecoder[bool]{base: b,
		next: func() (bool, error) {
			v, err := data.Next()
			if err != nil {
				return false, b.streamErr(err, pb.Stream_DATA)
			}
			return v, nil
		},
		newArray: func(values []bool, valid []bool) arrow.Array {
			return buildArray(array.NewBooleanBuilder(b.mem), values, valid)
		}}, nil
}
