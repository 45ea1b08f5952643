package stream

import (
	"github.com/patrickhuang888/orcarrow/orc/encoding"
)

type BoolReader struct {
	stream *Reader

	values []bool
	pos    int
}

func NewBoolReader(stream *Reader) *BoolReader {
	return &BoolReader{stream: stream}
}

// Next returns io.EOF when stream exhausted. The last byte may carry padding bits.
func (r *BoolReader) Next() (v bool, err error) {
	if r.pos >= len(r.values) {
		r.pos = 0
		if r.values, err = encoding.DecodeBools(r.stream, r.values[:0]); err != nil {
			return
		}
		logger.Tracef("bool stream column %d has read %d values", r.stream.info.GetColumn(), len(r.values))
	}
	v = r.values[r.pos]
	r.pos++
	return
}

func (r *BoolReader) Finished() bool {
	return r.stream.Finished() && r.pos == len(r.values)
}

type ByteReader struct {
	stream *Reader

	values []byte
	pos    int
}

func NewByteReader(stream *Reader) *ByteReader {
	return &ByteReader{stream: stream}
}

func (r *ByteReader) Next() (v byte, err error) {
	if r.pos >= len(r.values) {
		r.pos = 0
		if r.values, err = encoding.DecodeByteRL(r.stream, r.values[:0]); err != nil {
			return
		}
		logger.Tracef("byte stream column %d has read %d values", r.stream.info.GetColumn(), len(r.values))
	}
	v = r.values[r.pos]
	r.pos++
	return
}

func (r *ByteReader) Finished() bool {
	return r.stream.Finished() && r.pos == len(r.values)
}
