package stream

import (
	"bytes"
	"math/big"

	"github.com/patrickhuang888/orcarrow/orc/common"
	"github.com/patrickhuang888/orcarrow/orc/config"
	"github.com/patrickhuang888/orcarrow/orc/encoding"
	"github.com/patrickhuang888/orcarrow/pb/pb"
)

type flusher interface {
	Flush(out *bytes.Buffer) error
}

// Writer encodes values of one stream, compressing in chunks on Flush
type Writer struct {
	info *pb.Stream
	buf  *bytes.Buffer
	opts *config.WriterOptions

	encoder flusher
	count   int
}

func newWriter(id uint32, kind pb.Stream_Kind, opts *config.WriterOptions, encoder flusher) *Writer {
	return &Writer{info: &pb.Stream{Kind: kind.Enum(), Column: &id, Length: new(uint64)}, buf: &bytes.Buffer{},
		opts: opts, encoder: encoder}
}

// info length updated after flush
func (w *Writer) Info() *pb.Stream {
	return w.info
}

// Flush encodes remaining values and returns the stream bytes as laid out in a stripe
func (w *Writer) Flush() ([]byte, error) {
	if w.encoder != nil {
		if err := w.encoder.Flush(w.buf); err != nil {
			return nil, err
		}
	}
	out := &bytes.Buffer{}
	if err := common.CompressChunks(w.opts.CompressionKind, w.opts.ChunkSize, out, w.buf.Bytes()); err != nil {
		return nil, err
	}
	*w.info.Length = uint64(out.Len())
	logger.Debugf("stream writer column %d kind %s flush %d values, length %d", w.info.GetColumn(),
		w.info.GetKind(), w.count, out.Len())
	w.buf.Reset()
	w.count = 0
	return out.Bytes(), nil
}

type BoolWriter struct {
	*Writer
	enc *encoding.BoolRunLength
}

func NewBoolWriter(id uint32, kind pb.Stream_Kind, opts *config.WriterOptions) *BoolWriter {
	enc := encoding.NewBoolEncoder()
	return &BoolWriter{newWriter(id, kind, opts, enc), enc}
}

func (w *BoolWriter) Write(v bool) {
	w.enc.Encode(v)
	w.count++
}

type ByteWriter struct {
	*Writer
	enc *encoding.ByteRunLength
}

func NewByteWriter(id uint32, kind pb.Stream_Kind, opts *config.WriterOptions) *ByteWriter {
	enc := encoding.NewByteEncoder()
	return &ByteWriter{newWriter(id, kind, opts, enc), enc}
}

func (w *ByteWriter) Write(v byte) {
	w.enc.Encode(v)
	w.count++
}

type IntWriter struct {
	*Writer
	enc encoding.IntEncoder
}

// NewIntWriter writes run length v2 when v2 is set, else v1
func NewIntWriter(id uint32, kind pb.Stream_Kind, opts *config.WriterOptions, v2 bool, signed bool) *IntWriter {
	var enc encoding.IntEncoder
	if v2 {
		enc = encoding.NewIntRLV2(signed)
	} else {
		enc = encoding.NewIntRLV1(signed)
	}
	return &IntWriter{newWriter(id, kind, opts, enc), enc}
}

func (w *IntWriter) Write(v int64) {
	w.enc.Encode(v)
	w.count++
}

type VarIntWriter struct {
	*Writer
}

func NewVarIntWriter(id uint32, kind pb.Stream_Kind, opts *config.WriterOptions) *VarIntWriter {
	return &VarIntWriter{newWriter(id, kind, opts, nil)}
}

func (w *VarIntWriter) Write(v *big.Int) {
	encoding.EncodeBigVarint(w.buf, v)
	w.count++
}

type FloatWriter struct {
	*Writer
}

func NewFloatWriter(id uint32, kind pb.Stream_Kind, opts *config.WriterOptions) *FloatWriter {
	return &FloatWriter{newWriter(id, kind, opts, nil)}
}

func (w *FloatWriter) Write(v float32) {
	encoding.EncodeFloat(w.buf, v)
	w.count++
}

type DoubleWriter struct {
	*Writer
}

func NewDoubleWriter(id uint32, kind pb.Stream_Kind, opts *config.WriterOptions) *DoubleWriter {
	return &DoubleWriter{newWriter(id, kind, opts, nil)}
}

func (w *DoubleWriter) Write(v float64) {
	encoding.EncodeDouble(w.buf, v)
	w.count++
}

type BytesWriter struct {
	*Writer
}

func NewBytesWriter(id uint32, kind pb.Stream_Kind, opts *config.WriterOptions) *BytesWriter {
	return &BytesWriter{newWriter(id, kind, opts, nil)}
}

func (w *BytesWriter) Write(v []byte) {
	w.buf.Write(v)
	w.count++
}
