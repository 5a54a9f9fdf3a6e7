package storage

import (
	"context"
	"errors"
	"fmt"
)

var ErrUnknownDriver = errors.New("storage: unknown driver")

const (
	defaultLocalDir = "./storage/staging"
	defaultS3Prefix = "staging"
)

type Options struct {
	Driver string // local|s3

	LocalDir       string
	LocalURLPrefix string

	S3 S3Config
}

// FactoryResult names the driver actually chosen, for startup logs.
type FactoryResult struct {
	Driver  string
	Storage Storage
}

// New builds the staging store. An empty driver means local disk.
func New(ctx context.Context, opts Options) (FactoryResult, error) {
	switch opts.Driver {
	case "", "local":
		dir := opts.LocalDir
		if dir == "" {
			dir = defaultLocalDir
		}
		return FactoryResult{Driver: "local", Storage: NewLocal(dir, opts.LocalURLPrefix)}, nil
	case "s3":
		cfg := opts.S3
		if cfg.Region == "" || cfg.Bucket == "" {
			return FactoryResult{}, errors.New("storage: s3 needs S3_REGION and S3_BUCKET")
		}
		if cfg.Prefix == "" {
			cfg.Prefix = defaultS3Prefix
		}
		s, err := NewS3(ctx, cfg)
		if err != nil {
			return FactoryResult{}, fmt.Errorf("storage: s3 config: %w", err)
		}
		return FactoryResult{Driver: "s3", Storage: s}, nil
	}
	return FactoryResult{}, fmt.Errorf("%w %q", ErrUnknownDriver, opts.Driver)
}
