package stream

import (
	"github.com/patrickhuang888/orcarrow/orc/encoding"
)

type FloatReader struct {
	stream *Reader
}

func NewFloatReader(stream *Reader) *FloatReader {
	return &FloatReader{stream: stream}
}

func (r *FloatReader) Next() (float32, error) {
	return encoding.DecodeFloat(r.stream)
}

func (r *FloatReader) Finished() bool {
	return r.stream.Finished()
}

type DoubleReader struct {
	stream *Reader
}

func NewDoubleReader(stream *Reader) *DoubleReader {
	return &DoubleReader{stream: stream}
}

func (r *DoubleReader) Next() (float64, error) {
	return encoding.DecodeDouble(r.stream)
}

func (r *DoubleReader) Finished() bool {
	return r.stream.Finished()
}
