package io

import (
	"context"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"

	"github.com/patrickhuang888/orcarrow/orc/common"
)

type MinioConfig struct {
	Endpoint        string `toml:"endpoint"`
	Bucket          string `toml:"bucket"`
	Key             string `toml:"key"`
	AccessKeyID     string `toml:"access-key-id"`
	SecretAccessKey string `toml:"secret-access-key"`
	Secure          bool   `toml:"secure"`
}

// MinioSource reads an object of S3 compatible storage with ranged GETs
type MinioSource struct {
	client *minio.Client
	bucket string
	key    string
}

func NewMinioSource(client *minio.Client, bucket, key string) *MinioSource {
	return &MinioSource{client: client, bucket: bucket, key: key}
}

func OpenMinio(cfg MinioConfig) (*MinioSource, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" || cfg.Key == "" {
		return nil, errors.Errorf("minio endpoint, bucket and key required, got %q %q %q", cfg.Endpoint, cfg.Bucket, cfg.Key)
	}
	options := &minio.Options{Secure: cfg.Secure}
	if cfg.AccessKeyID != "" {
		options.Creds = credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	} else {
		options.Creds = credentials.NewChainCredentials([]credentials.Provider{new(credentials.EnvAWS), new(credentials.EnvMinio)})
	}
	client, err := minio.New(cfg.Endpoint, options)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return NewMinioSource(client, cfg.Bucket, cfg.Key), nil
}

func (m *MinioSource) GetBytes(ctx context.Context, offset, length uint64) ([]byte, error) {
	if length == 0 {
		return []byte{}, nil
	}
	opts := minio.GetObjectOptions{}
	if err := opts.SetRange(int64(offset), int64(offset+length-1)); err != nil {
		return nil, errors.WithStack(err)
	}
	obj, err := m.client.GetObject(ctx, m.bucket, m.key, opts)
	if err != nil {
		return nil, errors.Wrapf(common.ErrIo, "get %s/%s: %v", m.bucket, m.key, err)
	}
	defer obj.Close()

	buf := make([]byte, length)
	if n, err := io.ReadFull(obj, buf); err != nil {
		return nil, errors.Wrapf(common.ErrIo, "%s/%s read %d of %d at %d: %v", m.bucket, m.key, n, length, offset, err)
	}
	logger.Debugf("minio read %s/%s range %d+%d", m.bucket, m.key, offset, length)
	return buf, nil
}
