package column

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/patrickhuang888/orcarrow/orc/stream"
	"github.com/patrickhuang888/orcarrow/pb/pb"
)

func newFloatDecoder(b *base) (ArrayBatchDecoder, error) {
	r, err := b.stream(pb.Stream_DATA)
	if err != nil {
		return nil, err
	}
	data := stream.NewFloatReader(r)
	return &valueDecoder[float32]{base: b,
		next: func() (float32, error) {
			v, err := data.Next()
			if err != nil {
				return 0, b.streamErr(err, pb.Stream_DATA)
			}
			return v, nil
		},
		newArray: func(values []float32, valid []bool) arrow.Array {
			return buildArray(array.NewFloat32Builder(b.mem), values, valid)
		}}, nil
}

func newDoubleDecoder(b *base) (ArrayBatchDecoder, error) {
	r, err := b.stream(pb.Stream_DATA)
	if err != nil {
		return nil, err
	}
	data := stream.NewDoubleReader(r)
	return &valueDecoder[float64]{base: b,
		next: func() (float64, error) {
			v, err := data.Next()
			if err != nil {
				return 0, b.streamErr(err, pb.Stream_DATA)
			}
			return v, nil
		},
		newArray: func(values []float64, valid []bool) arrow.Array {
			return buildArray(array.NewFloat64Builder(b.mem), values, valid)
		}}, nil
}
