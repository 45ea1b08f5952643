package stream

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/patrickhuang888/orcarrow/orc/common"
	"github.com/patrickhuang888/orcarrow/pb/pb"
)

var logger = log.New()

func SetLogLevel(level log.Level) {
	logger.SetLevel(level)
}

// Reader is a decompressing cursor over the raw bytes of one stream.
// Chunks are decompressed on demand, one at a time.
type Reader struct {
	info *pb.Stream

	data []byte
	pos  int

	buf *bytes.Buffer

	compressionKind pb.CompressionKind
	chunkSize       int
}

func NewReader(info *pb.Stream, data []byte, kind pb.CompressionKind, chunkSize int) *Reader {
	return &Reader{info: info, data: data, buf: &bytes.Buffer{}, compressionKind: kind, chunkSize: chunkSize}
}

func (r *Reader) Info() *pb.Stream {
	return r.info
}

func (r *Reader) ReadByte() (b byte, err error) {
	// chunks may decode to nothing
	for r.buf.Len() == 0 {
		if r.pos >= len(r.data) {
			return 0, io.EOF
		}
		if err = r.readAChunk(); err != nil {
			return 0, err
		}
	}
	return r.buf.ReadByte()
}

func (r *Reader) Read(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	for r.buf.Len() < len(p) && r.pos < len(r.data) {
		if err = r.readAChunk(); err != nil {
			return 0, err
		}
	}
	if r.buf.Len() == 0 {
		return 0, io.EOF
	}
	return r.buf.Read(p)
}

// read a chunk to r.buf
func (r *Reader) readAChunk() error {
	if r.compressionKind == pb.CompressionKind_NONE { // no header
		l := len(r.data) - r.pos
		if r.chunkSize > 0 && l > r.chunkSize {
			l = r.chunkSize
		}
		r.buf.Write(r.data[r.pos : r.pos+l])
		r.pos += l
		return nil
	}

	if len(r.data)-r.pos < common.ChunkHeaderSize {
		return errors.Wrapf(common.ErrIo, "stream %s truncated chunk header", r.info.String())
	}
	chunkLength, original := common.DecChunkHeader(r.data[r.pos:])
	r.pos += common.ChunkHeaderSize

	logger.Tracef("read a chunk, stream %s, compressing kind %s, chunkLength %d, original %t",
		r.info.String(), r.compressionKind, chunkLength, original)

	if chunkLength > len(r.data)-r.pos {
		return errors.Wrapf(common.ErrIo, "stream %s chunk length %d larger than remaining %d",
			r.info.String(), chunkLength, len(r.data)-r.pos)
	}
	chunk := r.data[r.pos : r.pos+chunkLength]
	r.pos += chunkLength

	if original {
		r.buf.Write(chunk)
		return nil
	}
	if err := common.Decompress(r.compressionKind, r.chunkSize, r.buf, chunk); err != nil {
		if errors.Is(err, common.ErrUnsupportedTypeVariant) {
			return err
		}
		return errors.Wrapf(common.ErrIo, "stream %s decompress: %v", r.info.String(), err)
	}
	return nil
}

func (r *Reader) Finished() bool {
	return r.pos >= len(r.data) && r.buf.Len() == 0
}
