package column

import (
	"math"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/pkg/errors"

	"github.com/patrickhuang888/orcarrow/orc/common"
	"github.com/patrickhuang888/orcarrow/orc/stream"
	"github.com/patrickhuang888/orcarrow/pb/pb"
)

// newBinaryArray builds a utf8, large utf8, binary or large binary array
func newBinaryArray(mem memory.Allocator, dt arrow.DataType, values [][]byte, valid []bool) arrow.Array {
	builder := array.NewBuilder(mem, dt)
	defer builder.Release()
	builder.Reserve(len(values))

	for i, v := range values {
		if valid != nil && !valid[i] {
			builder.AppendNull()
			continue
		}
		switch b := builder.(type) {
		case *array.StringBuilder:
			b.Append(string(v))
		case *array.LargeStringBuilder:
			b.Append(string(v))
		case *array.BinaryBuilder:
			b.Append(v)
		}
	}
	return builder.NewArray()
}

// directBytes pulls a LENGTH value then as many DATA bytes
func directBytes(b *base, encoding pb.ColumnEncoding_Kind) (func() ([]byte, error), error) {
	lengths, err := b.intStream(pb.Stream_LENGTH, encoding, false)
	if err != nil {
		return nil, err
	}
	r, err := b.stream(pb.Stream_DATA)
	if err != nil {
		return nil, err
	}
	data := stream.NewBytesReader(r)

	return func() ([]byte, error) {
		l, err := lengths.Next()
		if err != nil {
			return nil, b.streamErr(err, pb.Stream_LENGTH)
		}
		if l < 0 || l > math.MaxInt32 {
			return nil, errors.Wrapf(common.ErrCorrupt, "%s length %d", b.column, l)
		}
		v, err := data.NextBytes(int(l))
		if err != nil {
			return nil, b.streamErr(err, pb.Stream_DATA)
		}
		return v, nil
	}, nil
}

func newBinaryDecoder(b *base, encoding pb.ColumnEncoding_Kind) (ArrayBatchDecoder, error) {
	next, err := directBytes(b, encoding)
	if err != nil {
		return nil, err
	}
	return &valueDecoder[[]byte]{base: b, next: next,
		newArray: func(values [][]byte, valid []bool) arrow.Array {
			return newBinaryArray(b.mem, b.column.Field().Type, values, valid)
		}}, nil
}
