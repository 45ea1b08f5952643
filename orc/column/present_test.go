package column

import (
	"io"
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickhuang888/orcarrow/orc/common"
)

type boolSlice struct {
	values []bool
	pulled int
}

func (b *boolSlice) Next() (bool, error) {
	if b.pulled >= len(b.values) {
		return false, io.EOF
	}
	v := b.values[b.pulled]
	b.pulled++
	return v, nil
}

func TestDerivePresent(t *testing.T) {
	mask, err := DerivePresent(nil, nil, 3)
	require.NoError(t, err)
	assert.Nil(t, mask)

	parent := []bool{true, false, true}
	mask, err = DerivePresent(nil, parent, 3)
	require.NoError(t, err)
	assert.Equal(t, parent, mask)

	// absent parent rows consume nothing of the own stream
	own := &boolSlice{values: []bool{true, true, false}}
	mask, err = DerivePresent(own, parent, 3)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true}, mask)
	assert.Equal(t, 2, own.pulled)

	mask, err = DerivePresent(own, nil, 1)
	require.NoError(t, err)
	assert.Equal(t, []bool{false}, mask)

	_, err = DerivePresent(own, nil, 1)
	assert.True(t, errors.Is(err, common.ErrCorrupt))

	_, err = DerivePresent(own, parent, 2)
	assert.True(t, errors.Is(err, common.ErrUnexpected))
}

func TestListLengths(t *testing.T) {
	full, err := PopulateLengthsWithNulls([]int64{2, 3}, 3, []bool{true, false, true})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 0, 3}, full)

	offsets, err := OffsetsFromLengths(full)
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 2, 2, 5}, offsets)

	_, err = PopulateLengthsWithNulls([]int64{2}, 3, []bool{true, false, true})
	assert.True(t, errors.Is(err, common.ErrUnexpected))
	_, err = OffsetsFromLengths([]int64{1, -1})
	assert.True(t, errors.Is(err, common.ErrCorrupt))
	_, err = OffsetsFromLengths([]int64{1 << 30, 1 << 30})
	assert.True(t, errors.Is(err, common.ErrArrow))
}

func TestOffsetsProperty(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for round := 0; round < 100; round++ {
		n := r.Intn(50)
		present := make([]bool, n)
		var lengths []int64
		var sum int64
		for i := range present {
			present[i] = r.Intn(3) != 0
			if present[i] {
				l := int64(r.Intn(5))
				lengths = append(lengths, l)
				sum += l
			}
		}

		full, err := PopulateLengthsWithNulls(lengths, n, present)
		require.NoError(t, err)
		offsets, err := OffsetsFromLengths(full)
		require.NoError(t, err)
		require.Equal(t, n+1, len(offsets))
		assert.Equal(t, int32(0), offsets[0])
		assert.Equal(t, int32(sum), offsets[n])

		j := 0
		for i := 0; i < n; i++ {
			width := int64(offsets[i+1] - offsets[i])
			if present[i] {
				assert.Equal(t, lengths[j], width)
				j++
			} else {
				assert.Equal(t, int64(0), width)
			}
		}
	}
}

func TestValidityBitmap(t *testing.T) {
	buf, nulls := ValidityBitmap(nil)
	assert.Nil(t, buf)
	assert.Equal(t, 0, nulls)

	buf, nulls = ValidityBitmap([]bool{true, true})
	assert.Nil(t, buf)
	assert.Equal(t, 0, nulls)

	buf, nulls = ValidityBitmap([]bool{true, false, true, true, false, false, false, false, true})
	require.NotNil(t, buf)
	assert.Equal(t, 5, nulls)
	assert.Equal(t, []byte{0x0d, 0x01}, buf.Bytes())

	assert.Equal(t, 4, CountPresent(nil, 4))
	assert.Equal(t, 1, CountPresent([]bool{false, true}, 2))
}
