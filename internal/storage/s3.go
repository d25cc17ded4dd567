package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vidfriends/webclient/internal/config"
	"github.com/vidfriends/webclient/internal/logging"
)

// S3Source stages objects from an S3-compatible store so they can be
// streamed into an upload.
type S3Source struct {
	downloader *manager.Downloader
}

// NewS3Source configures a downloader for the provided object store.
func NewS3Source(ctx context.Context, cfg config.S3Config) (*S3Source, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	endpoint := strings.TrimSpace(cfg.Endpoint)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = true
	})

	downloader := manager.NewDownloader(client, func(d *manager.Downloader) {
		d.PartSize = 5 * 1024 * 1024
	})

	return &S3Source{downloader: downloader}, nil
}

// ParseRef splits s3://bucket/key into its parts.
func ParseRef(ref string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(ref, s3Scheme)
	if !ok {
		return "", "", fmt.Errorf("s3 source: %q is not an s3:// reference", ref)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	key = strings.TrimLeft(key, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 source: %q must name a bucket and a key", ref)
	}
	return bucket, key, nil
}

// Stage downloads ref into a temporary file positioned at its start.
func (s *S3Source) Stage(ctx context.Context, ref string) (*Staged, error) {
	bucket, key, err := ParseRef(ref)
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp("", "vidclient-*"+path.Ext(key))
	if err != nil {
		return nil, fmt.Errorf("s3 source: create temp file: %w", err)
	}
	remove := func() error { return os.Remove(tmp.Name()) }

	n, err := s.downloader.Download(ctx, tmp, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		_ = tmp.Close()
		_ = remove()
		return nil, fmt.Errorf("s3 source download %s: %w", ref, err)
	}

	if _, err := tmp.Seek(0, 0); err != nil {
		_ = tmp.Close()
		_ = remove()
		return nil, fmt.Errorf("s3 source: rewind %s: %w", ref, err)
	}

	logging.FromContext(ctx).Info("staged s3 object", "bucket", bucket, "key", key, "bytes", n)

	return &Staged{Name: path.Base(key), File: tmp, cleanup: remove}, nil
}
