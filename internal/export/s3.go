package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// S3Exporter delivers assembled output documents to an S3 bucket as a
// secondary channel next to the HTTP download.
type S3Exporter struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Exporter loads the default AWS config chain and returns an exporter
// for the given bucket and key prefix.
func NewS3Exporter(ctx context.Context, bucket, prefix string) (*S3Exporter, error) {
	cfg, err := awscfg.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &S3Exporter{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}, nil
}

// Upload stores data under a timestamped key and returns its s3:// URL.
func (e *S3Exporter) Upload(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	key := fmt.Sprintf("%s/%s/%s", e.prefix, time.Now().UTC().Format("2006-01-02"), name)
	_, err := e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload to s3: %w", err)
	}
	url := fmt.Sprintf("s3://%s/%s", e.bucket, key)
	log.Info().Str("url", url).Int("size", len(data)).Msg("exported output to s3")
	return url, nil
}
