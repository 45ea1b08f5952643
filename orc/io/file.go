package io

import (
	"context"
	"io"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/patrickhuang888/orcarrow/orc/common"
)

var logger = log.New()

func SetLogLevel(level log.Level) {
	logger.SetLevel(level)
}

// ChunkReader returns exactly length bytes at offset, short reads are errors
type ChunkReader interface {
	GetBytes(offset, length uint64) ([]byte, error)
}

type AsyncChunkReader interface {
	GetBytes(ctx context.Context, offset, length uint64) ([]byte, error)
}

type FileSource struct {
	f *os.File
}

func Open(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(common.ErrIo, "open %s: %v", path, err)
	}
	return &FileSource{f: f}, nil
}

func (fs *FileSource) Size() (int64, error) {
	fi, err := fs.f.Stat()
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return fi.Size(), nil
}

func (fs *FileSource) GetBytes(offset, length uint64) ([]byte, error) {
	buf := make([]byte, length)
	n, err := fs.f.ReadAt(buf, int64(offset))
	if uint64(n) == length {
		return buf, nil
	}
	if err == nil || err == io.EOF {
		return nil, errors.Wrapf(common.ErrIo, "%s short read %d of %d at %d", fs.f.Name(), n, length, offset)
	}
	return nil, errors.Wrapf(common.ErrIo, "%s read at %d: %v", fs.f.Name(), offset, err)
}

func (fs *FileSource) Close() error {
	if err := fs.f.Close(); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// MemSource serves byte ranges from memory
type MemSource struct {
	buf []byte
}

func NewMemSource(buf []byte) *MemSource {
	return &MemSource{buf: buf}
}

func (m *MemSource) GetBytes(offset, length uint64) ([]byte, error) {
	if offset+length > uint64(len(m.buf)) || offset+length < offset {
		return nil, errors.Wrapf(common.ErrIo, "range %d+%d out of %d bytes", offset, length, len(m.buf))
	}
	return m.buf[offset : offset+length], nil
}

func (m *MemSource) Size() (int64, error) {
	return int64(len(m.buf)), nil
}

type syncToAsync struct {
	r ChunkReader
}

// SyncToAsync lets a blocking ChunkReader serve as AsyncChunkReader
func SyncToAsync(r ChunkReader) AsyncChunkReader {
	return &syncToAsync{r: r}
}

func (s *syncToAsync) GetBytes(ctx context.Context, offset, length uint64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrapf(common.ErrIo, "%v", err)
	}
	return s.r.GetBytes(offset, length)
}
