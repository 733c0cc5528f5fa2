package source

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ceirr/sample-dashboard/internal/config"
)

// s3GetObjectAPI is the slice of the S3 client the fetcher needs.
type s3GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Fetcher reads a mirrored CSV export from an S3 object.
type S3Fetcher struct {
	client s3GetObjectAPI
	bucket string
	key    string
}

// NewS3Fetcher loads AWS config the same way the rest of the service does:
// static keys when configured, otherwise a named profile, otherwise the
// default credential chain.
func NewS3Fetcher(ctx context.Context, cfg config.SourceConfig) (*S3Fetcher, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.AWSRegion)}
	switch {
	case cfg.AccessKey != "" && cfg.SecretKey != "":
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	case cfg.AWSProfile != "":
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.AWSProfile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return &S3Fetcher{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.S3Bucket,
		key:    cfg.S3Key,
	}, nil
}

// Fetch reads and decodes the object.
func (f *S3Fetcher) Fetch(ctx context.Context) (*RawTable, error) {
	out, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(f.key),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: S3 GetObject %s/%s: %v", ErrFetch, f.bucket, f.key, err)
	}
	defer out.Body.Close()

	return ParseCSV(out.Body)
}
