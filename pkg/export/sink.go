package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dd0wney/cluso-netstat/pkg/validation"
)

// Sink stores one named payload.
type Sink interface {
	Name() string
	Write(ctx context.Context, name, contentType string, data []byte) error
}

// ErrEmptyName is returned when a payload has no object name.
var ErrEmptyName = errors.New("export object name is empty")

// FileSink writes payloads under a local directory.
type FileSink struct {
	Dir string
}

// NewFileSink creates dir if needed.
func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}
	return &FileSink{Dir: dir}, nil
}

func (s *FileSink) Name() string { return "file" }

// Write replaces the file atomically through a temp file and rename.
func (s *FileSink) Write(ctx context.Context, name, _ string, data []byte) error {
	if name == "" {
		return ErrEmptyName
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	target := filepath.Join(s.Dir, filepath.Base(name))
	tmp, err := os.CreateTemp(s.Dir, ".export-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", target, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("failed to rename into %s: %w", target, err)
	}
	return nil
}

// PutObjectAPI is the part of the S3 client the sink uses.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink uploads payloads to a bucket under an optional prefix.
type S3Sink struct {
	client PutObjectAPI
	bucket string
	prefix string
}

// NewS3Sink wraps an existing client.
func NewS3Sink(client PutObjectAPI, bucket, prefix string) (*S3Sink, error) {
	if err := validation.ValidateBucket(bucket); err != nil {
		return nil, err
	}
	return &S3Sink{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}, nil
}

// NewS3SinkFromEnv builds a client from the default AWS credential chain.
func NewS3SinkFromEnv(ctx context.Context, bucket, prefix string) (*S3Sink, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewS3Sink(s3.NewFromConfig(cfg), bucket, prefix)
}

func (s *S3Sink) Name() string { return "s3" }

// Key returns the object key for name.
func (s *S3Sink) Key(name string) string {
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

func (s *S3Sink) Write(ctx context.Context, name, contentType string, data []byte) error {
	if name == "" {
		return ErrEmptyName
	}
	key := s.Key(name)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return fmt.Errorf("failed to upload s3://%s/%s: %w", s.bucket, key, err)
	}
	return nil
}
