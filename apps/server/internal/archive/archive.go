// Package archive copies raw uploads to object storage.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"wmx-replay/apps/server/internal/config"
)

type Archiver interface {
	Put(ctx context.Context, key string, body []byte) error
}

// Key names the object holding an upload of the given kind ("hands" or
// "summary") with content digest.
func Key(kind, digest string) string {
	kind = strings.Trim(strings.ToLower(kind), "/ ")
	if kind == "" {
		kind = "misc"
	}
	return fmt.Sprintf("%s/%s.txt", kind, digest)
}

type nopArchiver struct{}

func (nopArchiver) Put(context.Context, string, []byte) error { return nil }

// Nop discards everything.
func Nop() Archiver { return nopArchiver{} }

type s3Archiver struct {
	client *s3.Client
	bucket string
	log    zerolog.Logger
}

// New returns an S3 archiver for cfg.Bucket, or Nop when no bucket is
// configured. A custom endpoint (R2, MinIO) switches to path-style keys.
func New(ctx context.Context, cfg config.ArchiveConfig, log zerolog.Logger) (Archiver, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return Nop(), nil
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load archive config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &s3Archiver{
		client: client,
		bucket: cfg.Bucket,
		log:    log.With().Str("component", "archive").Logger(),
	}, nil
}

func (a *s3Archiver) Put(ctx context.Context, key string, body []byte) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		return fmt.Errorf("failed to archive %s: %w", key, err)
	}
	a.log.Debug().Str("key", key).Int("bytes", len(body)).Msg("upload archived")
	return nil
}
