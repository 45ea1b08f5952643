package column

import (
	"math"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/pkg/errors"

	"github.com/patrickhuang888/orcarrow/orc/common"
	"github.com/patrickhuang888/orcarrow/orc/stream"
	"github.com/patrickhuang888/orcarrow/pb/pb"
)

// string, varchar and char; char values keep their padding
func newStringDirectDecoder(b *base, encoding pb.ColumnEncoding_Kind) (ArrayBatchDecoder, error) {
	next, err := directBytes(b, encoding)
	if err != nil {
		return nil, err
	}
	return &valueDecoder[[]byte]{base: b, next: next,
		newArray: func(values [][]byte, valid []bool) arrow.Array {
			return newBinaryArray(b.mem, b.column.Field().Type, values, valid)
		}}, nil
}

// loadDictionary reads all DictionarySize entries, LENGTH holds their lengths
// and DICTIONARY_DATA their bytes
func loadDictionary(b *base, encoding pb.ColumnEncoding_Kind) ([][]byte, error) {
	size := int(b.column.DictionarySize())
	// entries may be empty, so DICTIONARY_DATA does not bound size
	dictionary := make([][]byte, 0, initialCapacity(size, nil))
	if size == 0 {
		return dictionary, nil
	}

	lengths, err := b.intStream(pb.Stream_LENGTH, encoding, false)
	if err != nil {
		return nil, err
	}
	r, err := b.stream(pb.Stream_DICTIONARY_DATA)
	if err != nil {
		return nil, err
	}
	data := stream.NewBytesReader(r)

	for i := 0; i < size; i++ {
		l, err := lengths.Next()
		if err != nil {
			return nil, b.streamErr(err, pb.Stream_LENGTH)
		}
		if l < 0 || l > math.MaxInt32 {
			return nil, errors.Wrapf(common.ErrCorrupt, "%s dictionary entry %d length %d", b.column, i, l)
		}
		entry, err := data.NextBytes(int(l))
		if err != nil {
			return nil, b.streamErr(err, pb.Stream_DICTIONARY_DATA)
		}
		dictionary = append(dictionary, entry)
	}
	logger.Debugf("%s loaded dictionary of %d entries", b.column, size)
	return dictionary, nil
}

func newStringDictionaryDecoder(b *base, encoding pb.ColumnEncoding_Kind) (ArrayBatchDecoder, error) {
	dictionary, err := loadDictionary(b, encoding)
	if err != nil {
		return nil, err
	}
	indices, err := b.intStream(pb.Stream_DATA, encoding, false)
	if err != nil {
		return nil, err
	}
	nextIndex := func() (int64, error) {
		i, err := indices.Next()
		if err != nil {
			return 0, b.streamErr(err, pb.Stream_DATA)
		}
		if i < 0 || i >= int64(len(dictionary)) {
			return 0, errors.Wrapf(common.ErrCorrupt, "%s dictionary index %d of %d entries", b.column, i,
				len(dictionary))
		}
		return i, nil
	}

	if dt, ok := b.column.Field().Type.(*arrow.DictionaryType); ok {
		if limit := maxIndex(dt.IndexType); int64(len(dictionary))-1 > limit {
			return nil, errors.Wrapf(common.ErrArrow, "%s dictionary of %d entries overflows index type %s",
				b.column, len(dictionary), dt.IndexType)
		}
		// arrays retain values, the decoder drops its own reference on Release
		values := newBinaryArray(b.mem, dt.ValueType, dictionary, nil)
		return &valueDecoder[int64]{base: b, next: nextIndex,
			newArray: func(indices []int64, valid []bool) arrow.Array {
				idx := newIndexArray(b, dt.IndexType, indices, valid)
				defer idx.Release()
				return array.NewDictionaryArray(dt, idx, values)
			},
			release: values.Release}, nil
	}

	return &valueDecoder[[]byte]{base: b,
		next: func() ([]byte, error) {
			i, err := nextIndex()
			if err != nil {
				return nil, err
			}
			return dictionary[i], nil
		},
		newArray: func(values [][]byte, valid []bool) arrow.Array {
			return newBinaryArray(b.mem, b.column.Field().Type, values, valid)
		}}, nil
}

func maxIndex(dt arrow.DataType) int64 {
	switch dt.ID() {
	case arrow.INT8:
		return math.MaxInt8
	case arrow.UINT8:
		return math.MaxUint8
	case arrow.INT16:
		return math.MaxInt16
	case arrow.UINT16:
		return math.MaxUint16
	case arrow.INT32:
		return math.MaxInt32
	case arrow.UINT32:
		return math.MaxUint32
	}
	return math.MaxInt64
}

func newIndexArray(b *base, dt arrow.DataType, indices []int64, valid []bool) arrow.Array {
	builder := array.NewBuilder(b.mem, dt)
	defer builder.Release()
	builder.Reserve(len(indices))

	for i, v := range indices {
		if valid != nil && !valid[i] {
			builder.AppendNull()
			continue
		}
		switch ib := builder.(type) {
		case *array.Int8Builder:
			ib.Append(int8(v))
		case *array.Uint8Builder:
			ib.Append(uint8(v))
		case *array.Int16Builder:
			ib.Append(int16(v))
		case *array.Uint16Builder:
			ib.Append(uint16(v))
		case *array.Int32Builder:
			ib.Append(int32(v))
		case *array.Uint32Builder:
			ib.Append(uint32(v))
		case *array.Int64Builder:
			ib.Append(v)
		case *array.Uint64Builder:
			ib.Append(uint64(v))
		}
	}
	return builder.NewArray()
}
