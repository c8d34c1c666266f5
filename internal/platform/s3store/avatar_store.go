// Package s3store keeps avatars as objects in an S3-compatible bucket.
package s3store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
	"github.com/phrazzld/tasker-api/internal/config"
	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/platform/logger"
	"github.com/phrazzld/tasker-api/internal/store"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// ObjectAPI is the subset of *s3.Client the avatar store needs.
type ObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// AvatarStore implements store.AvatarStore on an S3 bucket.
type AvatarStore struct {
	client ObjectAPI
	bucket string
}

var _ store.AvatarStore = (*AvatarStore)(nil)

// NewClient builds an S3 client from cfg. Static credentials are used when
// both keys are set; otherwise the default AWS credential chain applies.
func NewClient(ctx context.Context, cfg config.S3Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	}), nil
}

// NewAvatarStore creates an avatar store writing to bucket.
func NewAvatarStore(client ObjectAPI, bucket string) *AvatarStore {
	return &AvatarStore{client: client, bucket: bucket}
}

// ObjectKey returns the key an avatar is stored under.
func ObjectKey(userID uuid.UUID) string {
	return "avatars/" + userID.String() + ".png"
}

// Put uploads the avatar, replacing any previous object.
func (s *AvatarStore) Put(ctx context.Context, avatar *domain.Avatar) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(ObjectKey(avatar.UserID)),
		Body:          bytes.NewReader(avatar.Data),
		ContentType:   aws.String(avatar.ContentType),
		ContentLength: aws.Int64(int64(len(avatar.Data))),
	})
	if err != nil {
		logger.FromContext(ctx).Error("failed to upload avatar", "error", err, "user_id", avatar.UserID)
		return store.NewStoreError("avatar", "put", "failed to upload avatar", err)
	}
	return nil
}

// Get downloads the avatar or returns store.ErrAvatarNotFound.
func (s *AvatarStore) Get(ctx context.Context, userID uuid.UUID) (*domain.Avatar, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ObjectKey(userID)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, store.ErrAvatarNotFound
		}
		return nil, store.NewStoreError("avatar", "get", "failed to download avatar", err)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, store.NewStoreError("avatar", "get", "failed to read avatar body", err)
	}

	avatar := &domain.Avatar{
		UserID:      userID,
		Data:        data,
		ContentType: domain.AvatarContentType,
		UpdatedAt:   time.Now().UTC(),
	}
	if out.ContentType != nil {
		avatar.ContentType = *out.ContentType
	}
	if out.LastModified != nil {
		avatar.UpdatedAt = out.LastModified.UTC()
	}
	return avatar, nil
}

// Delete removes the avatar object. S3 treats a missing key as success.
func (s *AvatarStore) Delete(ctx context.Context, userID uuid.UUID) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ObjectKey(userID)),
	})
	if err != nil && !isNotFound(err) {
		logger.FromContext(ctx).Error("failed to delete avatar", "error", err, "user_id", userID)
		return store.NewStoreError("avatar", "delete", "failed to delete avatar", err)
	}
	return nil
}

func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}
