package stream

import (
	"github.com/patrickhuang888/orcarrow/orc/encoding"
)

type BytesReader struct {
	stream *Reader
}

func NewBytesReader(stream *Reader) *BytesReader {
	return &BytesReader{stream: stream}
}

func (r *BytesReader) NextBytes(length int) ([]byte, error) {
	return encoding.DecodeBytes(r.stream, length)
}

func (r *BytesReader) Finished() bool {
	return r.stream.Finished()
}
