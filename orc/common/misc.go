package common

import (
	"bytes"
	"io"
	"sync"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/patrickhuang888/orcarrow/pb/pb"
)

const ChunkHeaderSize = 3

var logger = log.New()

func SetLogLevel(level log.Level) {
	logger.SetLevel(level)
}

var (
	zstdOnce    sync.Once
	zstdDecoder *zstd.Decoder
	zstdEncoder *zstd.Encoder
	zstdErr     error
)

func zstdCodec() (*zstd.Decoder, *zstd.Encoder, error) {
	zstdOnce.Do(func() {
		if zstdDecoder, zstdErr = zstd.NewReader(nil); zstdErr != nil {
			return
		}
		zstdEncoder, zstdErr = zstd.NewWriter(nil)
	})
	return zstdDecoder, zstdEncoder, zstdErr
}

// CompressChunks compresses src into dst as a sequence of ORC chunks of at most
// chunkSize uncompressed bytes. A chunk that does not shrink is stored original.
// NONE copies src without chunk headers.
func CompressChunks(kind pb.CompressionKind, chunkSize int, dst *bytes.Buffer, src []byte) error {
	if kind == pb.CompressionKind_NONE {
		_, err := dst.Write(src)
		return errors.WithStack(err)
	}
	if chunkSize <= 0 {
		return errors.Errorf("chunk size %d error", chunkSize)
	}

	for len(src) > 0 {
		l := chunkSize
		if len(src) < l {
			l = len(src)
		}
		chunk := src[:l]
		src = src[l:]

		compressed, err := compress(kind, chunk)
		if err != nil {
			return err
		}
		if compressed == nil || len(compressed) >= len(chunk) {
			dst.Write(encChunkHeader(len(chunk), true))
			dst.Write(chunk)
			logger.Tracef("write a chunk, %s original %d", kind, len(chunk))
			continue
		}
		dst.Write(encChunkHeader(len(compressed), false))
		dst.Write(compressed)
		logger.Tracef("write a chunk, %s compressed %d to %d", kind, len(chunk), len(compressed))
	}
	return nil
}

func compress(kind pb.CompressionKind, src []byte) ([]byte, error) {
	switch kind {
	case pb.CompressionKind_ZLIB:
		buf := &bytes.Buffer{}
		w, err := flate.NewWriter(buf, flate.DefaultCompression)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if _, err = w.Write(src); err != nil {
			return nil, errors.WithStack(err)
		}
		if err = w.Close(); err != nil {
			return nil, errors.WithStack(err)
		}
		return buf.Bytes(), nil

	case pb.CompressionKind_SNAPPY:
		return snappy.Encode(nil, src), nil

	case pb.CompressionKind_ZSTD:
		_, enc, err := zstdCodec()
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return enc.EncodeAll(src, nil), nil

	case pb.CompressionKind_LZ4:
		dst := make([]byte, lz4.CompressBlockBound(len(src)))
		ht := make([]int, 1<<16)
		n, err := lz4.CompressBlock(src, dst, ht)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if n == 0 { // incompressible
			return nil, nil
		}
		return dst[:n], nil

	default:
		return nil, errors.Wrapf(ErrUnsupportedTypeVariant, "compression kind %s", kind)
	}
}

// Decompress decompresses the payload of one compressed chunk into dst.
// chunkSize bounds the decompressed size for block codecs.
func Decompress(kind pb.CompressionKind, chunkSize int, dst *bytes.Buffer, src []byte) error {
	switch kind {
	case pb.CompressionKind_ZLIB:
		r := flate.NewReader(bytes.NewReader(src))
		if _, err := io.Copy(dst, r); err != nil {
			r.Close()
			return errors.WithStack(err)
		}
		return errors.WithStack(r.Close())

	case pb.CompressionKind_SNAPPY:
		decoded, err := snappy.Decode(nil, src)
		if err != nil {
			return errors.WithStack(err)
		}
		dst.Write(decoded)
		return nil

	case pb.CompressionKind_ZSTD:
		dec, _, err := zstdCodec()
		if err != nil {
			return errors.WithStack(err)
		}
		decoded, err := dec.DecodeAll(src, nil)
		if err != nil {
			return errors.WithStack(err)
		}
		dst.Write(decoded)
		return nil

	case pb.CompressionKind_LZ4:
		buf := make([]byte, chunkSize)
		n, err := lz4.UncompressBlock(src, buf)
		if err != nil {
			return errors.WithStack(err)
		}
		dst.Write(buf[:n])
		return nil

	default:
		return errors.Wrapf(ErrUnsupportedTypeVariant, "decompression %s not impl", kind)
	}
}

// DecompressAll decompresses a buffer that may hold several chunks.
func DecompressAll(kind pb.CompressionKind, chunkSize int, src []byte) ([]byte, error) {
	if kind == pb.CompressionKind_NONE {
		return src, nil
	}
	dst := &bytes.Buffer{}
	for len(src) > 0 {
		if len(src) < ChunkHeaderSize {
			return nil, errors.Wrapf(ErrCorrupt, "chunk header of %d bytes", len(src))
		}
		chunkLength, original := DecChunkHeader(src)
		src = src[ChunkHeaderSize:]
		if chunkLength > len(src) {
			return nil, errors.Wrapf(ErrCorrupt, "chunk length %d larger than remaining %d", chunkLength, len(src))
		}
		if original {
			dst.Write(src[:chunkLength])
		} else if err := Decompress(kind, chunkSize, dst, src[:chunkLength]); err != nil {
			return nil, err
		}
		src = src[chunkLength:]
	}
	return dst.Bytes(), nil
}

func encChunkHeader(l int, orig bool) (header []byte) {
	header = make([]byte, 3)
	if orig {
		header[0] = 0x01 | byte(l<<1)
	} else {
		header[0] = byte(l << 1)
	}
	header[1] = byte(l >> 7)
	header[2] = byte(l >> 15)
	return
}

func DecChunkHeader(h []byte) (length int, orig bool) {
	_ = h[2]
	return int(h[2])<<15 | int(h[1])<<7 | int(h[0])>>1, h[0]&0x01 == 0x01
}
