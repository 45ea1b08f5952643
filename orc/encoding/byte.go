package encoding

import (
	"bytes"
	"io"
)

const (
	maxByteRepeat  = 127 + MIN_REPEAT_SIZE
	maxByteLiteral = 128
)

// DecodeByteRL decodes one byte run, appending to values. io.EOF when no run left.
func DecodeByteRL(in io.ByteReader, values []byte) ([]byte, error) {
	control, err := in.ReadByte()
	if err != nil {
		return values, err
	}
	if control < 0x80 { // run
		l := int(control) + MIN_REPEAT_SIZE
		v, err := readByte(in)
		if err != nil {
			return values, err
		}
		for i := 0; i < l; i++ {
			values = append(values, v)
		}
		logger.Tracef("decoding: byte run of %d", l)
	} else { // literals
		l := 0x100 - int(control)
		for i := 0; i < l; i++ {
			v, err := readByte(in)
			if err != nil {
				return values, err
			}
			values = append(values, v)
		}
		logger.Tracef("decoding: byte literals of %d", l)
	}
	return values, nil
}

type ByteRunLength struct {
	values []byte
}

func NewByteEncoder() *ByteRunLength {
	return &ByteRunLength{}
}

func (e *ByteRunLength) Encode(v byte) {
	e.values = append(e.values, v)
}

func (e *ByteRunLength) Flush(out *bytes.Buffer) error {
	encodeBytes(out, e.values)
	e.values = e.values[:0]
	return nil
}

func encodeBytes(out *bytes.Buffer, vs []byte) {
	mark := 0
	for i := 0; i < len(vs); {
		b := vs[i]
		if i+2 < len(vs) && vs[i+1] == b && vs[i+2] == b {
			writeByteLiterals(out, vs[mark:i])
			length := MIN_REPEAT_SIZE
			for i+length < len(vs) && length < maxByteRepeat && vs[i+length] == b {
				length++
			}
			out.WriteByte(byte(length - MIN_REPEAT_SIZE))
			out.WriteByte(b)
			i += length
			mark = i
			continue
		}
		i++
		if i-mark == maxByteLiteral {
			writeByteLiterals(out, vs[mark:i])
			mark = i
		}
	}
	writeByteLiterals(out, vs[mark:])
}

func writeByteLiterals(out *bytes.Buffer, literals []byte) {
	if len(literals) == 0 {
		return
	}
	out.WriteByte(byte(0x100 - len(literals)))
	out.Write(literals)
}
