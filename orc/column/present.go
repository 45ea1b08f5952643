package column

import (
	"io"
	"math"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/bitutil"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/pkg/errors"

	"github.com/patrickhuang888/orcarrow/orc/common"
)

// BoolPull yields booleans of a present stream, io.EOF when exhausted
type BoolPull interface {
	Next() (bool, error)
}

// DerivePresent returns the presence of n rows. Rows absent in parent are
// absent and consume nothing of present. With no own stream the parent mask
// is the result, nil when both are missing.
func DerivePresent(present BoolPull, parent []bool, n int) ([]bool, error) {
	if parent != nil && len(parent) != n {
		return nil, errors.Wrapf(common.ErrUnexpected, "parent present of %d rows, batch of %d", len(parent), n)
	}
	if present == nil {
		return parent, nil
	}
	mask := make([]bool, 0, initialCapacity(n, parent))
	for i := 0; i < n; i++ {
		if parent != nil && !parent[i] {
			mask = append(mask, false)
			continue
		}
		v, err := present.Next()
		if err != nil {
			if err == io.EOF {
				return nil, errors.Wrapf(common.ErrCorrupt, "present stream exhausted at row %d of %d", i, n)
			}
			return nil, err
		}
		mask = append(mask, v)
	}
	return mask, nil
}

// initialRows bounds what is allocated before stream values arrive, row
// counts summed from LENGTH streams or dictionary sizes are not trusted
const initialRows = 4096

// initialCapacity is n when a mask of n rows already exists, else at most initialRows
func initialCapacity(n int, mask []bool) int {
	if mask != nil || n <= initialRows {
		return n
	}
	return initialRows
}

// CountPresent is the number of present rows, n when present is nil
func CountPresent(present []bool, n int) int {
	if present == nil {
		return n
	}
	count := 0
	for _, p := range present {
		if p {
			count++
		}
	}
	return count
}

// PopulateLengthsWithNulls spreads lengths of present rows over n rows, absent rows get 0
func PopulateLengthsWithNulls(lengths []int64, n int, present []bool) ([]int64, error) {
	if present == nil {
		if len(lengths) != n {
			return nil, errors.Wrapf(common.ErrUnexpected, "%d lengths for %d rows", len(lengths), n)
		}
		return lengths, nil
	}
	full := make([]int64, n)
	j := 0
	for i := 0; i < n; i++ {
		if !present[i] {
			continue
		}
		if j >= len(lengths) {
			return nil, errors.Wrapf(common.ErrUnexpected, "%d lengths for more present rows", len(lengths))
		}
		full[i] = lengths[j]
		j++
	}
	if j != len(lengths) {
		return nil, errors.Wrapf(common.ErrUnexpected, "%d lengths for %d present rows", len(lengths), j)
	}
	return full, nil
}

// OffsetsFromLengths returns len(lengths)+1 offsets starting at 0
func OffsetsFromLengths(lengths []int64) ([]int32, error) {
	offsets := make([]int32, len(lengths)+1)
	var total int64
	for i, l := range lengths {
		if l < 0 {
			return nil, errors.Wrapf(common.ErrCorrupt, "negative length %d", l)
		}
		total += l
		if total > math.MaxInt32 {
			return nil, errors.Wrapf(common.ErrArrow, "offset %d overflows int32", total)
		}
		offsets[i+1] = int32(total)
	}
	return offsets, nil
}

// ValidityBitmap packs present to an arrow validity buffer, nil when all valid
func ValidityBitmap(present []bool) (*memory.Buffer, int) {
	if present == nil {
		return nil, 0
	}
	bits := make([]byte, bitutil.BytesForBits(int64(len(present))))
	nulls := 0
	for i, p := range present {
		if p {
			bitutil.SetBit(bits, i)
		} else {
			nulls++
		}
	}
	if nulls == 0 {
		return nil, 0
	}
	return memory.NewBufferBytes(bits), nulls
}

func int32Buffer(values []int32) *memory.Buffer {
	return memory.NewBufferBytes(arrow.Int32Traits.CastToBytes(values))
}
