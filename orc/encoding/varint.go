package encoding

import (
	"bytes"
	"io"
	"math/big"
)

// DecodeBigVarint reads an unbounded zigzag base 128 varint, used by decimal DATA.
func DecodeBigVarint(in io.ByteReader) (*big.Int, error) {
	first, err := in.ReadByte()
	if err != nil {
		return nil, err
	}

	result := new(big.Int)
	chunk := new(big.Int)
	b := first
	var shift uint
	for {
		chunk.SetUint64(uint64(b & 0x7f))
		result.Or(result, chunk.Lsh(chunk, shift))
		shift += 7
		if b < 0x80 {
			break
		}
		if b, err = readByte(in); err != nil {
			return nil, err
		}
	}

	negative := result.Bit(0) == 1
	result.Rsh(result, 1)
	if negative {
		result.Neg(result)
		result.Sub(result, big.NewInt(1))
	}
	return result, nil
}

func EncodeBigVarint(out *bytes.Buffer, v *big.Int) {
	u := new(big.Int)
	if v.Sign() >= 0 {
		u.Lsh(v, 1)
	} else {
		u.Neg(v)
		u.Sub(u, big.NewInt(1))
		u.Lsh(u, 1)
		u.SetBit(u, 0, 1)
	}

	low := new(big.Int)
	mask := big.NewInt(0x7f)
	for {
		low.And(u, mask)
		u.Rsh(u, 7)
		if u.Sign() == 0 {
			out.WriteByte(byte(low.Uint64()))
			return
		}
		out.WriteByte(byte(low.Uint64()) | 0x80)
	}
}
