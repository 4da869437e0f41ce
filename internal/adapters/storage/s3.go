package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"eventvite/internal/domain"
)

// S3Config holds configuration for the S3-backed file store.
type S3Config struct {
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	URLBase         string
}

// NewFileStore returns a FileStore backed by S3, or a no-op store when the
// bucket or credentials are not configured.
func NewFileStore(config S3Config) domain.FileStore {
	if config.Bucket == "" || config.AccessKeyID == "" || config.SecretAccessKey == "" {
		log.Printf("[STORAGE] S3 not configured, using noop file store")
		return &noopFileStore{}
	}
	awsCfg := aws.Config{
		Region: config.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(
				config.AccessKeyID,
				config.SecretAccessKey,
				"",
			),
		),
	}
	return &s3FileStore{
		client:  s3.NewFromConfig(awsCfg),
		bucket:  config.Bucket,
		urlBase: strings.TrimSuffix(config.URLBase, "/") + "/",
	}
}

type s3FileStore struct {
	client  *s3.Client
	bucket  string
	urlBase string
}

func (s *s3FileStore) Upload(ctx context.Context, key, contentType string, data []byte) (string, string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	url := s.urlBase + s.bucket + "/" + key
	return key, url, nil
}

type noopFileStore struct{}

func (n *noopFileStore) Upload(ctx context.Context, key, contentType string, data []byte) (string, string, error) {
	log.Printf("[STORAGE] File would be uploaded (noop): key=%s size=%d", key, len(data))
	return key, "", nil
}
