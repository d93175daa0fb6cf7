package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	sc "shopmedia/internal/server/config"
)

func testStoreConfig() *sc.Config {
	return &sc.Config{
		S3Region:       "us-east-1",
		S3RootUser:     "minioadmin",
		S3RootPassword: "minioadmin",
		S3BaseEndpoint: "http://127.0.0.1:9000",
		S3Bucket:       "product-media",
		PublicBaseURL:  "http://127.0.0.1:9000",
		PresignExpiry:  15 * time.Minute,
	}
}

func swapSeams(t *testing.T) {
	t.Helper()
	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origNewPre := newS3PresignClient
	origPresign := presignPutObject
	origDelete := deleteS3Object
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		presignPutObject = origPresign
		deleteS3Object = origDelete
	})
}

func TestPresignedPut_BindsChecksumAndContentType(t *testing.T) {
	swapSeams(t)
	store := NewS3ObjectStore(testStoreConfig())

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			if err := fn(&lo); err != nil {
				t.Fatalf("load options fn error: %v", err)
			}
		}
		if lo.Region != "us-east-1" {
			t.Fatalf("region not applied: %q", lo.Region)
		}
		return aws.Config{}, nil
	}

	var capturedBaseEndpoint string
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		var opts s3.Options
		for _, fn := range optFns {
			fn(&opts)
		}
		if opts.BaseEndpoint == nil {
			t.Fatalf("BaseEndpoint not set")
		}
		capturedBaseEndpoint = *opts.BaseEndpoint
		return &s3.Client{}
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return &s3.PresignClient{}
	}

	var captured *s3.PutObjectInput
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		captured = in
		return &v4.PresignedHTTPRequest{URL: "http://signed/put"}, nil
	}

	url, err := store.PresignedPut(context.Background(), "products/p1/k1", "image/png", "digest=")
	if err != nil {
		t.Fatalf("PresignedPut err: %v", err)
	}
	if url != "http://signed/put" {
		t.Fatalf("url = %q", url)
	}
	if capturedBaseEndpoint != "http://127.0.0.1:9000" {
		t.Fatalf("base endpoint = %q", capturedBaseEndpoint)
	}
	if captured == nil || captured.ChecksumSHA256 == nil || *captured.ChecksumSHA256 != "digest=" {
		t.Fatalf("checksum not bound into presign input: %+v", captured)
	}
	if captured.ContentType == nil || *captured.ContentType != "image/png" {
		t.Fatalf("content type not bound: %+v", captured)
	}
	if captured.Key == nil || *captured.Key != "products/p1/k1" {
		t.Fatalf("key not bound: %+v", captured)
	}
}

func TestPresignedPut_ErrorPropagates(t *testing.T) {
	swapSeams(t)
	store := NewS3ObjectStore(testStoreConfig())

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return &s3.PresignClient{}
	}
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("sign failure")
	}

	if _, err := store.PresignedPut(context.Background(), "k", "image/png", "d="); err == nil {
		t.Fatal("expected error")
	}
}

func TestPublicURL(t *testing.T) {
	store := NewS3ObjectStore(testStoreConfig())

	got := store.PublicURL("products/p1/k1")
	want := "http://127.0.0.1:9000/product-media/products/p1/k1"
	if got != want {
		t.Fatalf("PublicURL = %q, want %q", got, want)
	}
}

func TestDeleteObject(t *testing.T) {
	swapSeams(t)
	store := NewS3ObjectStore(testStoreConfig())

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return &s3.Client{}
	}

	var deletedKey string
	deleteS3Object = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
		deletedKey = *in.Key
		return &s3.DeleteObjectOutput{}, nil
	}

	if err := store.DeleteObject(context.Background(), "products/p1/k1"); err != nil {
		t.Fatalf("DeleteObject err: %v", err)
	}
	if deletedKey != "products/p1/k1" {
		t.Fatalf("deleted key = %q", deletedKey)
	}
}

func TestStorageKey_ScopedToProduct(t *testing.T) {
	a := StorageKey("p1")
	b := StorageKey("p1")

	if a == b {
		t.Fatal("storage keys must be unique per call")
	}
	const prefix = "products/p1/"
	if a[:len(prefix)] != prefix {
		t.Fatalf("key %q missing product prefix", a)
	}
}
