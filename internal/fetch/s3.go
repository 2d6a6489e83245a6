package fetch

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const defaultS3Region = "us-east-1"

// s3Opener reads s3://bucket/key objects from AWS S3 or an S3-compatible
// endpoint.
func s3Opener(opts Options) opener {
	return func(ctx context.Context, u *url.URL) (io.ReadCloser, int64, error) {
		bucket := u.Host
		key := strings.TrimPrefix(u.Path, "/")
		if bucket == "" || key == "" {
			return nil, 0, fmt.Errorf("%w: s3 source must be s3://bucket/key", ErrUnsupportedSource)
		}

		client, err := newS3Client(ctx, opts)
		if err != nil {
			return nil, 0, err
		}

		out, err := client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return nil, 0, err
		}

		size := int64(-1)
		if out.ContentLength != nil {
			size = *out.ContentLength
		}
		return out.Body, size, nil
	}
}

func newS3Client(ctx context.Context, opts Options) (*s3.Client, error) {
	region := opts.S3Region
	if region == "" {
		region = defaultS3Region
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if opts.S3AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.S3AccessKeyID, opts.S3SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.S3PathStyle {
			o.UsePathStyle = true
		}
		if opts.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.S3Endpoint)
		}
	}), nil
}
