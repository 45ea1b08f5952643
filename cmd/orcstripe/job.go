package main

import (
	"time"

	"github.com/BurntSushi/toml"
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/pkg/errors"

	"github.com/patrickhuang888/orcarrow/orc/api"
	"github.com/patrickhuang888/orcarrow/orc/config"
	orcio "github.com/patrickhuang888/orcarrow/orc/io"
	"github.com/patrickhuang888/orcarrow/orc/stripe"
	"github.com/patrickhuang888/orcarrow/pb/pb"
)

// Job names a file, its type and the stripes to decode. File tail values are
// copied from a tool that reads the footer, e.g. orc-contents or orc-metadata.
type Job struct {
	Path  string             `toml:"path"`
	Minio *orcio.MinioConfig `toml:"minio"`

	Compression string `toml:"compression"`
	BlockSize   uint64 `toml:"block-size"`
	Schema      string `toml:"schema"`

	// top level columns to read, all when empty
	Columns   []string `toml:"columns"`
	BatchSize int      `toml:"batch-size"`
	// used when a stripe has no writer timezone
	Timezone string `toml:"timezone"`

	Stripes []StripeJob `toml:"stripes"`
}

type StripeJob struct {
	Index        int    `toml:"index"`
	Offset       uint64 `toml:"offset"`
	IndexLength  uint64 `toml:"index-length"`
	DataLength   uint64 `toml:"data-length"`
	FooterLength uint64 `toml:"footer-length"`
	Rows         uint64 `toml:"rows"`
}

func (s StripeJob) Metadata() *stripe.StripeMetadata {
	return stripe.NewStripeMetadata(&pb.StripeInformation{Offset: &s.Offset, IndexLength: &s.IndexLength,
		DataLength: &s.DataLength, FooterLength: &s.FooterLength, NumberOfRows: &s.Rows}, nil)
}

func LoadJob(path string) (*Job, error) {
	job := &Job{}
	md, err := toml.DecodeFile(path, job)
	if err != nil {
		return nil, errors.Wrapf(err, "job %s", path)
	}
	if err := job.check(md); err != nil {
		return nil, errors.WithMessagef(err, "job %s", path)
	}
	return job, nil
}

func ParseJob(data string) (*Job, error) {
	job := &Job{}
	md, err := toml.Decode(data, job)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if err := job.check(md); err != nil {
		return nil, err
	}
	return job, nil
}

func (j *Job) check(md toml.MetaData) error {
	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		return errors.Errorf("unknown keys %v", undecoded)
	}
	if (j.Path == "") == (j.Minio == nil) {
		return errors.New("exactly one of path and minio required")
	}
	if j.Schema == "" {
		return errors.New("schema required")
	}
	if len(j.Stripes) == 0 {
		return errors.New("no stripes")
	}
	if _, err := j.File(); err != nil {
		return err
	}
	return nil
}

func (j *Job) File() (stripe.FileMetadata, error) {
	kind := pb.CompressionKind_NONE
	if j.Compression != "" {
		v, ok := pb.CompressionKind_value[j.Compression]
		if !ok {
			return stripe.FileMetadata{}, errors.Errorf("unknown compression %s", j.Compression)
		}
		kind = pb.CompressionKind(v)
	}
	if kind != pb.CompressionKind_NONE && j.BlockSize == 0 {
		return stripe.FileMetadata{}, errors.Errorf("compression %s needs block-size", kind)
	}
	return stripe.FileMetadata{Compression: kind, CompressionBlockSize: j.BlockSize}, nil
}

// Type returns the projected root type and its arrow schema
func (j *Job) Type() (*api.TypeDescription, *arrow.Schema, error) {
	td, err := api.ParseSchema(j.Schema)
	if err != nil {
		return nil, nil, err
	}
	if len(j.Columns) != 0 {
		if td, err = td.Select(j.Columns...); err != nil {
			return nil, nil, err
		}
	}
	schema, err := td.ArrowSchema()
	if err != nil {
		return nil, nil, err
	}
	return td, schema, nil
}

func (j *Job) ReaderOptions() (config.ReaderOptions, error) {
	opts := config.DefaultReaderOptions()
	if j.BatchSize != 0 {
		opts.BatchSize = j.BatchSize
	}
	if j.Timezone != "" {
		loc, err := time.LoadLocation(j.Timezone)
		if err != nil {
			return opts, errors.WithStack(err)
		}
		opts.Loc = loc
	}
	return opts, nil
}
