package encoding

import (
	"bytes"
	"io"
)

// DecodeBools decodes one byte run and expands it to bools, MSB first.
// Trailing bits of the last byte are padding the caller must not consume.
func DecodeBools(in io.ByteReader, vs []bool) ([]bool, error) {
	bs, err := DecodeByteRL(in, nil)
	if err != nil {
		return vs, err
	}
	for _, b := range bs {
		for i := 0; i < 8; i++ {
			vs = append(vs, (b>>byte(7-i))&0x01 == 0x01)
		}
	}
	return vs, nil
}

type BoolRunLength struct {
	brl    *ByteRunLength
	offset int
	value  byte
}

func NewBoolEncoder() *BoolRunLength {
	return &BoolRunLength{brl: NewByteEncoder()}
}

func (e *BoolRunLength) Encode(v bool) {
	if v {
		e.value |= 0x01 << byte(7-e.offset)
	}
	e.offset++
	if e.offset == 8 {
		e.brl.Encode(e.value)
		e.value = 0
		e.offset = 0
	}
}

func (e *BoolRunLength) Flush(out *bytes.Buffer) error {
	if e.offset != 0 {
		e.brl.Encode(e.value)
		e.value = 0
		e.offset = 0
	}
	return e.brl.Flush(out)
}
