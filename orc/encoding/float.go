package encoding

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"

	"github.com/patrickhuang888/orcarrow/orc/common"
)

// IEEE754 values are written little endian by the Java writer

func DecodeFloat(in io.Reader) (float32, error) {
	bb := make([]byte, 4)
	if _, err := io.ReadFull(in, bb); err != nil {
		return 0, floatErr(err)
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(bb)), nil
}

func DecodeDouble(in io.Reader) (float64, error) {
	bb := make([]byte, 8)
	if _, err := io.ReadFull(in, bb); err != nil {
		return 0, floatErr(err)
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(bb)), nil
}

func floatErr(err error) error {
	if err == io.ErrUnexpectedEOF {
		return errors.Wrap(common.ErrCorrupt, "partial float value")
	}
	if err == io.EOF {
		return err
	}
	return errors.WithStack(err)
}

func EncodeFloat(out *bytes.Buffer, v float32) {
	bb := make([]byte, 4)
	binary.LittleEndian.PutUint32(bb, math.Float32bits(v))
	out.Write(bb)
}

func EncodeDouble(out *bytes.Buffer, v float64) {
	bb := make([]byte, 8)
	binary.LittleEndian.PutUint64(bb, math.Float64bits(v))
	out.Write(bb)
}
