package config

import (
	"time"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/patrickhuang888/orcarrow/pb/pb"
)

const (
	DefaultBatchSize = 1024
	DefaultChunkSize = 256 * 1024
)

type ReaderOptions struct {
	// rows per decoded batch
	BatchSize int

	Allocator memory.Allocator

	// used when stripe footer has no writer timezone
	Loc *time.Location

	// skip streams of columns not in the projection
	ProjectionPruning bool
}

func DefaultReaderOptions() ReaderOptions {
	return ReaderOptions{BatchSize: DefaultBatchSize, Allocator: memory.DefaultAllocator, Loc: time.UTC,
		ProjectionPruning: true}
}

// Normalize fills zero fields with defaults
func (opts *ReaderOptions) Normalize() {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.Allocator == nil {
		opts.Allocator = memory.DefaultAllocator
	}
	if opts.Loc == nil {
		opts.Loc = time.UTC
	}
}

type WriterOptions struct {
	ChunkSize       int
	CompressionKind pb.CompressionKind
	WriterTimezone  string
}

func DefaultWriterOptions() WriterOptions {
	return WriterOptions{ChunkSize: DefaultChunkSize, CompressionKind: pb.CompressionKind_ZLIB}
}
