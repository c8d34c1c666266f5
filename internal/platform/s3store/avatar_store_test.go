package s3store

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
	"github.com/phrazzld/tasker-api/internal/config"
	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeObjectAPI keeps objects in a map keyed by bucket/key.
type fakeObjectAPI struct {
	objects map[string][]byte
	putErr  error
	getErr  error
}

func newFakeObjectAPI() *fakeObjectAPI {
	return &fakeObjectAPI{objects: map[string][]byte{}}
}

func (f *fakeObjectAPI) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Bucket+"/"+*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjectAPI) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	modified := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	return &s3.GetObjectOutput{
		Body:         io.NopCloser(bytes.NewReader(data)),
		ContentType:  aws.String(domain.AvatarContentType),
		LastModified: &modified,
	}, nil
}

func (f *fakeObjectAPI) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, *in.Bucket+"/"+*in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestAvatarStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	api := newFakeObjectAPI()
	s := NewAvatarStore(api, "avatars-bucket")
	userID := uuid.New()

	_, err := s.Get(ctx, userID)
	assert.ErrorIs(t, err, store.ErrAvatarNotFound)

	require.NoError(t, s.Put(ctx, &domain.Avatar{
		UserID:      userID,
		Data:        []byte("png-bytes"),
		ContentType: domain.AvatarContentType,
	}))
	assert.Contains(t, api.objects, "avatars-bucket/avatars/"+userID.String()+".png")

	got, err := s.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), got.Data)
	assert.Equal(t, domain.AvatarContentType, got.ContentType)
	assert.Equal(t, 2025, got.UpdatedAt.Year())

	require.NoError(t, s.Delete(ctx, userID))
	require.NoError(t, s.Delete(ctx, userID))
	_, err = s.Get(ctx, userID)
	assert.ErrorIs(t, err, store.ErrAvatarNotFound)
}

func TestAvatarStore_Errors(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("generic api not found code", func(t *testing.T) {
		api := newFakeObjectAPI()
		api.getErr = &smithy.GenericAPIError{Code: "NotFound", Message: "missing"}
		_, err := NewAvatarStore(api, "b").Get(ctx, userID)
		assert.ErrorIs(t, err, store.ErrAvatarNotFound)
	})

	t.Run("access denied is not a miss", func(t *testing.T) {
		api := newFakeObjectAPI()
		api.getErr = &smithy.GenericAPIError{Code: "AccessDenied", Message: "denied"}
		_, err := NewAvatarStore(api, "b").Get(ctx, userID)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("upload failure", func(t *testing.T) {
		api := newFakeObjectAPI()
		api.putErr = errors.New("network down")
		err := NewAvatarStore(api, "b").Put(ctx, &domain.Avatar{UserID: userID, ContentType: domain.AvatarContentType})
		assert.ErrorIs(t, err, api.putErr)
	})
}

func TestNewClient(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	origNew := newS3ClientFromConfig
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNew
	})

	cfg := config.S3Config{
		Bucket:          "avatars",
		Region:          "eu-west-1",
		Endpoint:        "http://127.0.0.1:9000",
		AccessKeyID:     "minioadmin",
		SecretAccessKey: "minioadmin",
		UsePathStyle:    true,
	}

	t.Run("applies region credentials and endpoint", func(t *testing.T) {
		loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
			var lo awsconfig.LoadOptions
			for _, fn := range optFns {
				require.NoError(t, fn(&lo))
			}
			assert.Equal(t, "eu-west-1", lo.Region)
			assert.NotNil(t, lo.Credentials)
			return aws.Config{}, nil
		}

		var opts s3.Options
		newS3ClientFromConfig = func(_ aws.Config, optFns ...func(*s3.Options)) *s3.Client {
			for _, fn := range optFns {
				fn(&opts)
			}
			return &s3.Client{}
		}

		client, err := NewClient(context.Background(), cfg)
		require.NoError(t, err)
		assert.NotNil(t, client)
		require.NotNil(t, opts.BaseEndpoint)
		assert.Equal(t, "http://127.0.0.1:9000", *opts.BaseEndpoint)
		assert.True(t, opts.UsePathStyle)
	})

	t.Run("config load failure", func(t *testing.T) {
		loadErr := errors.New("no region")
		loadDefaultAWSConfig = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
			return aws.Config{}, loadErr
		}

		_, err := NewClient(context.Background(), cfg)
		assert.ErrorIs(t, err, loadErr)
	})
}
