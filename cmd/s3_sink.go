package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"golang.org/x/sync/errgroup"
)

// ErrS3PathInvalid is returned for s3:// sink paths missing a bucket or key
var ErrS3PathInvalid = errors.New("invalid s3:// sink path, expected s3://bucket/key")

// s3Uploader is the slice of s3manager.Uploader the unloader depends on
type s3Uploader interface {
	UploadWithContext(ctx aws.Context, input *s3manager.UploadInput, opts ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error)
}

func isS3Path(path string) bool {
	return strings.HasPrefix(path, "s3://")
}

// parseS3Path splits s3://bucket/key into bucket and key
func parseS3Path(path string) (bucket, key string, err error) {
	rest := strings.TrimPrefix(path, "s3://")
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: %s", ErrS3PathInvalid, path)
	}
	return bucket, key, nil
}

// initS3 lazily builds the uploader. Credentials come from the default AWS
// chain; endpoint and region from the configuration.
func (u *Unloader) initS3() error {
	if u.uploader != nil {
		return nil
	}

	awsConfig := aws.NewConfig().WithRegion(u.config.S3.Region)
	if u.config.S3.Endpoint != "" {
		awsConfig = awsConfig.
			WithEndpoint(u.config.S3.Endpoint).
			WithS3ForcePathStyle(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return fmt.Errorf("failed to create S3 session: %w", err)
	}
	u.uploader = s3manager.NewUploader(sess)
	return nil
}

// newS3Sink starts a background upload fed from a pipe and returns the
// write end. The upload streams while the extraction query runs; failures
// surface through the batch's consumer group.
func (u *Unloader) newS3Sink(ctx context.Context, path string, consumers *errgroup.Group) (io.WriteCloser, error) {
	bucket, key, err := parseS3Path(path)
	if err != nil {
		return nil, err
	}
	if err := u.initS3(); err != nil {
		return nil, err
	}

	pr, pw := io.Pipe()
	uploader := u.uploader
	consumers.Go(func() error {
		_, err := uploader.UploadWithContext(ctx, &s3manager.UploadInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
			Body:   pr,
		})
		if err != nil {
			pr.CloseWithError(err)
			return fmt.Errorf("s3 upload of %s failed: %w", path, err)
		}
		return nil
	})
	return pw, nil
}
