package fetch

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrijs2005/cdnkeeper/internal/common"
	"github.com/dmitrijs2005/cdnkeeper/internal/netx"
)

const presignExpiry = 15 * time.Minute

// S3Settings configures S3Source.
type S3Settings struct {
	Bucket       string
	Prefix       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
}

type getObjectPresigner interface {
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Source reads payloads that were written to the bucket in transport form.
// Objects are listed under Prefix; the listing reports stored (encoded) sizes.
type S3Source struct {
	bucket    string
	prefix    string
	lister    s3.ListObjectsV2APIClient
	presigner getObjectPresigner
	http      *http.Client
}

var loadDefaultAWSConfig = config.LoadDefaultConfig

// NewS3Source builds an S3 client with static credentials. BaseEndpoint, if
// set, points at an S3-compatible store such as MinIO (path-style
// addressing is used then).
func NewS3Source(ctx context.Context, st S3Settings, timeout time.Duration) (*S3Source, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(st.Region)}
	if st.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(st.AccessKey, st.SecretKey, "")))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if st.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(st.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Source(st.Bucket, st.Prefix, client, s3.NewPresignClient(client), netx.NewClient(timeout)), nil
}

func newS3Source(bucket, prefix string, lister s3.ListObjectsV2APIClient, presigner getObjectPresigner, hc *http.Client) *S3Source {
	return &S3Source{bucket: bucket, prefix: prefix, lister: lister, presigner: presigner, http: hc}
}

func (s *S3Source) List(ctx context.Context) ([]FileDescriptor, error) {
	p := s3.NewListObjectsV2Paginator(s.lister, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})

	var files []FileDescriptor
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: list bucket %s: %v", common.ErrUnavailable, s.bucket, err)
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), s.prefix)
			if name == "" || strings.Contains(name, "/") {
				continue
			}
			files = append(files, newDescriptor(name, aws.ToInt64(obj.Size), aws.ToTime(obj.LastModified)))
		}
	}
	return files, nil
}

func (s *S3Source) Fetch(ctx context.Context, name string, progress netx.ProgressFunc) (string, error) {
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + name),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", fmt.Errorf("%w: presign %s: %v", common.ErrUnavailable, name, err)
	}

	text, err := netx.GetText(ctx, s.http, req.URL, nil, progress)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", name, err)
	}
	return text, nil
}
