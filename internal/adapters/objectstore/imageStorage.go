package objectstore

import (
	"context"
	"errors"
	"fmt"
	"path"

	"feedline/internal/adapters/filesystem"
	imagePort "feedline/internal/ports/image"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ObjectAPI زیرمجموعه‌ای از کلاینت S3 که استفاده می‌کنیم
type ObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

type Options struct {
	Endpoint  string // e.g. MinIO http://minio:9000; empty for AWS
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

// ImageStorageS3 keeps images as objects "images/<uuid>-<name>" in one bucket.
// The object key equals the stored reference.
type ImageStorageS3 struct {
	Client ObjectAPI
	Bucket string
}

func NewImageStorageS3(ctx context.Context, opts Options) (*ImageStorageS3, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(opts.Region)}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &ImageStorageS3{Client: client, Bucket: opts.Bucket}, nil
}

func (s *ImageStorageS3) Save(ctx context.Context, upload imagePort.Upload) (string, error) {
	key := path.Join(filesystem.PublicPrefix, filesystem.StoredName(upload.Filename))

	in := &s3.PutObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
		Body:   upload.Body,
	}
	if upload.ContentType != "" {
		in.ContentType = aws.String(upload.ContentType)
	}
	if upload.Size > 0 {
		in.ContentLength = aws.Int64(upload.Size)
	}
	if _, err := s.Client.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return key, nil
}

func (s *ImageStorageS3) Delete(ctx context.Context, ref string) error {
	key, err := objectKey(ref)
	if err != nil {
		return err
	}
	// S3 DeleteObject برای کلید ناموجود هم موفق است
	if _, err := s.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

func (s *ImageStorageS3) Exists(ctx context.Context, ref string) (bool, error) {
	key, err := objectKey(ref)
	if err != nil {
		return false, err
	}
	_, err = s.Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func objectKey(ref string) (string, error) {
	name, err := filesystem.KeyOf(ref)
	if err != nil {
		return "", err
	}
	return path.Join(filesystem.PublicPrefix, name), nil
}
