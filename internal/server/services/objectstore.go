package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	sc "shopmedia/internal/server/config"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}

	deleteS3Object = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
		return c.DeleteObject(ctx, in)
	}
)

// ObjectStore issues presigned PUT URLs against the S3-compatible backend
// and deletes stored objects.
type ObjectStore interface {
	// PresignedPut returns a single-use PUT URL for key. The declared
	// digest is bound into the signature, so the store rejects bytes
	// that do not hash to it.
	PresignedPut(ctx context.Context, key, mediaType, checksumSHA256 string) (string, error)

	// PublicURL returns where the object at key is readable.
	PublicURL(key string) string

	// DeleteObject removes the object at key.
	DeleteObject(ctx context.Context, key string) error
}

// S3ObjectStore implements ObjectStore over aws-sdk-go-v2.
type S3ObjectStore struct {
	config *sc.Config
}

func NewS3ObjectStore(config *sc.Config) *S3ObjectStore {
	return &S3ObjectStore{config: config}
}

// StorageKey builds a fresh object key for one image of a product.
func StorageKey(productID string) string {
	return fmt.Sprintf("products/%s/%s", productID, uuid.New())
}

func (s *S3ObjectStore) getClient() (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,     // MINIO_ROOT_USER
			s.config.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return client, nil
}

func (s *S3ObjectStore) PresignedPut(ctx context.Context, key, mediaType, checksumSHA256 string) (string, error) {
	client, err := s.getClient()
	if err != nil {
		return "", err
	}
	presignClient := newS3PresignClient(client)

	bucket := s.config.S3Bucket

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket:         &bucket,
		Key:            &key,
		ContentType:    &mediaType,
		ChecksumSHA256: &checksumSHA256,
	}, s3.WithPresignExpires(s.config.PresignExpiry))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

func (s *S3ObjectStore) PublicURL(key string) string {
	base := strings.TrimRight(s.config.PublicBaseURL, "/")
	return fmt.Sprintf("%s/%s/%s", base, s.config.S3Bucket, key)
}

func (s *S3ObjectStore) DeleteObject(ctx context.Context, key string) error {
	client, err := s.getClient()
	if err != nil {
		return err
	}

	bucket := s.config.S3Bucket
	_, err = deleteS3Object(client, ctx, &s3.DeleteObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

var _ ObjectStore = (*S3ObjectStore)(nil)
