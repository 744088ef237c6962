package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dmitrijs2005/cdnkeeper/internal/classify"
	"github.com/dmitrijs2005/cdnkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	pages []*s3.ListObjectsV2Output
	err   error
	calls int
}

func (f *fakeLister) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	if f.err != nil {
		return nil, f.err
	}
	page := f.pages[f.calls]
	f.calls++
	return page, nil
}

type fakePresigner struct {
	baseURL string
	gotKey  string
	err     error
}

func (f *fakePresigner) PresignGetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.gotKey = aws.ToString(in.Key)
	return &v4.PresignedHTTPRequest{URL: f.baseURL + "/" + f.gotKey + "?X-Amz-Signature=abc", Method: http.MethodGet}, nil
}

func TestS3Source_ListPaginates(t *testing.T) {
	when := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	lister := &fakeLister{pages: []*s3.ListObjectsV2Output{
		{
			IsTruncated:           aws.Bool(true),
			NextContinuationToken: aws.String("next"),
			Contents: []types.Object{
				{Key: aws.String("cdn/a.mp3"), Size: aws.Int64(10), LastModified: aws.Time(when)},
				{Key: aws.String("cdn/nested/b.mp4"), Size: aws.Int64(20)},
			},
		},
		{
			IsTruncated: aws.Bool(false),
			Contents: []types.Object{
				{Key: aws.String("cdn/c.zip"), Size: aws.Int64(30)},
				{Key: aws.String("cdn/"), Size: aws.Int64(0)},
			},
		},
	}}

	src := newS3Source("vault", "cdn/", lister, &fakePresigner{}, http.DefaultClient)
	files, err := src.List(context.Background())
	require.NoError(t, err)

	require.Len(t, files, 2)
	assert.Equal(t, 2, lister.calls)
	assert.Equal(t, FileDescriptor{Name: "a.mp3", Size: 10, UploadDate: when, Category: classify.CategoryAudio}, files[0])
	assert.Equal(t, "c.zip", files[1].Name)
	assert.Equal(t, classify.CategoryArchive, files[1].Category)
}

func TestS3Source_ListError(t *testing.T) {
	src := newS3Source("vault", "", &fakeLister{err: errors.New("denied")}, &fakePresigner{}, http.DefaultClient)
	_, err := src.List(context.Background())
	require.ErrorIs(t, err, common.ErrUnavailable)
}

func TestS3Source_FetchViaPresignedURL(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("X-Amz-Signature") == "" {
			http.Error(w, "unsigned", http.StatusForbidden)
			return
		}
		if r.URL.Path != "/cdn/song.mp3" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("QUJD"))
	}))
	defer ts.Close()

	p := &fakePresigner{baseURL: ts.URL}
	src := newS3Source("vault", "cdn/", &fakeLister{}, p, ts.Client())

	text, err := src.Fetch(context.Background(), "song.mp3", nil)
	require.NoError(t, err)
	assert.Equal(t, "QUJD", text)
	assert.Equal(t, "cdn/song.mp3", p.gotKey)

	_, err = src.Fetch(context.Background(), "other.mp3", nil)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestS3Source_PresignError(t *testing.T) {
	src := newS3Source("vault", "", &fakeLister{}, &fakePresigner{err: errors.New("no creds")}, http.DefaultClient)
	_, err := src.Fetch(context.Background(), "x", nil)
	require.ErrorIs(t, err, common.ErrUnavailable)
}

func TestNewS3Source_BuildsClient(t *testing.T) {
	src, err := NewS3Source(context.Background(), S3Settings{
		Bucket:       "vault",
		Prefix:       "cdn/",
		Region:       "us-east-1",
		BaseEndpoint: "http://127.0.0.1:9000",
		AccessKey:    "admin",
		SecretKey:    "secretpassword",
	}, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "vault", src.bucket)
	assert.NotNil(t, src.presigner)
}

func TestNewS3Source_ConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("boom")
	}

	_, err := NewS3Source(context.Background(), S3Settings{Region: "us-east-1"}, time.Second)
	require.Error(t, err)
}
