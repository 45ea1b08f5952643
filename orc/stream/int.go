package stream

import (
	"math/big"

	"github.com/patrickhuang888/orcarrow/orc/encoding"
	"github.com/patrickhuang888/orcarrow/pb/pb"
)

// IntReader pulls integers of run length encoded streams, io.EOF when exhausted.
// Unsigned streams yield the int64 bit pattern.
type IntReader interface {
	Next() (int64, error)
	Finished() bool
}

// NewIntReader chooses the run length version by column encoding
func NewIntReader(kind pb.ColumnEncoding_Kind, stream *Reader, signed bool) IntReader {
	switch kind {
	case pb.ColumnEncoding_DIRECT, pb.ColumnEncoding_DICTIONARY:
		return NewIntRLV1Reader(stream, signed)
	default:
		return NewIntRLV2Reader(stream, signed)
	}
}

type intReader struct {
	stream *Reader

	values []int64
	pos    int

	decoder encoding.IntDecoder
}

func (r *intReader) Next() (v int64, err error) {
	if r.pos >= len(r.values) {
		r.pos = 0
		if r.values, err = r.decoder.Decode(r.stream, r.values[:0]); err != nil {
			return
		}
		logger.Tracef("int stream column %d kind %s has read %d values", r.stream.info.GetColumn(),
			r.stream.info.GetKind(), len(r.values))
	}
	v = r.values[r.pos]
	r.pos++
	return
}

func (r *intReader) Finished() bool {
	return r.stream.Finished() && r.pos == len(r.values)
}

type IntRLV1Reader struct {
	intReader
}

func NewIntRLV1Reader(stream *Reader, signed bool) *IntRLV1Reader {
	return &IntRLV1Reader{intReader{stream: stream, decoder: encoding.NewIntRLV1(signed)}}
}

type IntRLV2Reader struct {
	intReader
}

func NewIntRLV2Reader(stream *Reader, signed bool) *IntRLV2Reader {
	return &IntRLV2Reader{intReader{stream: stream, decoder: encoding.NewIntRLV2(signed)}}
}

// VarIntReader reads unbounded signed varints of decimal DATA
type VarIntReader struct {
	stream *Reader
}

func NewVarIntReader(stream *Reader) *VarIntReader {
	return &VarIntReader{stream: stream}
}

func (r *VarIntReader) Next() (*big.Int, error) {
	return encoding.DecodeBigVarint(r.stream)
}

func (r *VarIntReader) Finished() bool {
	return r.stream.Finished()
}
