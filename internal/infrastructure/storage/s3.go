package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// S3Store uploads media to an S3 bucket. Endpoint is configurable so
// MinIO works in local environments.
type S3Store struct {
	uploader      *s3manager.Uploader
	client        *s3.S3
	bucket        string
	publicBaseURL string
}

type S3Config struct {
	Bucket        string
	Region        string
	Endpoint      string
	PublicBaseURL string
}

func NewS3Store(cfg S3Config) (*S3Store, error) {
	awsCfg := aws.NewConfig().WithRegion(cfg.Region)
	if cfg.Endpoint != "" {
		awsCfg = awsCfg.WithEndpoint(cfg.Endpoint).WithS3ForcePathStyle(true)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create aws session: %w", err)
	}

	publicBaseURL := cfg.PublicBaseURL
	if publicBaseURL == "" {
		publicBaseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}

	return &S3Store{
		uploader:      s3manager.NewUploader(sess),
		client:        s3.New(sess),
		bucket:        cfg.Bucket,
		publicBaseURL: publicBaseURL,
	}, nil
}

func (s *S3Store) Store(ctx context.Context, r io.Reader, fileName, contentType string) (string, error) {
	if !ValidContentType(contentType) {
		return "", ErrUnsupportedContent
	}

	// Buffer the payload so an oversized stream is rejected before any
	// bytes reach the bucket, rather than uploading a truncated object.
	var buf bytes.Buffer
	written, err := io.Copy(&buf, io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if written > MaxFileSize {
		return "", ErrFileTooLarge
	}

	_, err = s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(fileName),
		Body:        &buf,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", fileName, err)
	}

	return fmt.Sprintf("%s/%s", s.publicBaseURL, fileName), nil
}

func (s *S3Store) Delete(ctx context.Context, fileName string) error {
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(fileName),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", fileName, err)
	}

	return nil
}
