package blobstore

import (
	"context"
	"fmt"
	"path"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Store implements BlobStore on top of an S3 bucket.
type S3Store struct {
	client *s3.Client
	bucket string
}

// NewS3Store creates an S3Store using the default AWS credential chain.
func NewS3Store(ctx context.Context, bucket, region string) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}
	return &S3Store{client: s3.NewFromConfig(cfg), bucket: bucket}, nil
}

// NewS3StoreWithClient creates an S3Store around an existing client.
func NewS3StoreWithClient(client *s3.Client, bucket string) *S3Store {
	return &S3Store{client: client, bucket: bucket}
}

func (s *S3Store) Store(ctx context.Context, productID uuid.UUID, up Upload) (string, error) {
	key := objectKey(productID, up.Filename)

	input := &s3.PutObjectInput{
		Bucket: sdkaws.String(s.bucket),
		Key:    sdkaws.String(key),
		Body:   up.Body,
	}
	if up.ContentType != "" {
		input.ContentType = sdkaws.String(up.ContentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return key, nil
}

func (s *S3Store) Delete(ctx context.Context, productID uuid.UUID, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: sdkaws.String(s.bucket),
		Key:    sdkaws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

// objectKey namespaces blobs per product; the random prefix keeps repeated
// filenames from colliding.
func objectKey(productID uuid.UUID, filename string) string {
	return path.Join("products", productID.String(), uuid.NewString()+"-"+filename)
}
