package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the subset of *s3.Client used by S3Store.
type S3API interface {
	s3.ListObjectsV2APIClient
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Presigner creates presigned GET URLs; *s3.PresignClient implements it.
type Presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Store stores exports in an S3 bucket under a key prefix.
//
// Example usage:
//
//	client := s3.New(s3.Options{Region: "eu-west-1", Credentials: creds})
//	store := export.NewS3Store(client, "my-bucket", "site/").
//		WithPresigner(s3.NewPresignClient(client))
type S3Store struct {
	client    S3API
	presign   Presigner
	bucket    string
	prefix    string
	maxSize   int64
	urlExpiry time.Duration
}

// NewS3Store creates a store writing to bucket. prefix is prepended to every
// object name; a trailing slash is added when missing.
func NewS3Store(client S3API, bucket, prefix string) *S3Store {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &S3Store{
		client:    client,
		bucket:    bucket,
		prefix:    prefix,
		urlExpiry: 24 * time.Hour,
	}
}

// WithPresigner makes Put and Get return presigned URLs.
func (s *S3Store) WithPresigner(p Presigner) *S3Store {
	s.presign = p
	return s
}

// WithURLExpiry sets how long presigned URLs are valid.
func (s *S3Store) WithURLExpiry(d time.Duration) *S3Store {
	s.urlExpiry = d
	return s
}

// WithMaxSize limits each object in bytes (0 = no limit).
func (s *S3Store) WithMaxSize(n int64) *S3Store {
	s.maxSize = n
	return s
}

func (s *S3Store) key(name string) (string, string, error) {
	clean, err := CleanName(name)
	if err != nil {
		return "", "", err
	}
	return clean, s.prefix + clean, nil
}

// Put buffers r and uploads it with a single PutObject call.
func (s *S3Store) Put(ctx context.Context, name, contentType string, r io.Reader) (*Object, error) {
	clean, key, err := s.key(name)
	if err != nil {
		return nil, err
	}
	var reader io.Reader = r
	if s.maxSize > 0 {
		reader = io.LimitReader(r, s.maxSize+1)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return nil, err
	}
	if s.maxSize > 0 && int64(buf.Len()) > s.maxSize {
		return nil, ErrTooLarge
	}
	if contentType == "" {
		contentType = ContentTypeFor(clean)
	}

	now := time.Now().UTC()
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(buf.Bytes()),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(buf.Len())),
		Metadata: map[string]string{
			"export-time": now.Format(time.RFC3339),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("export: s3 put %s: %w", key, err)
	}
	return &Object{
		Name:        clean,
		ContentType: contentType,
		Size:        int64(buf.Len()),
		ModTime:     now,
		URL:         s.url(ctx, key),
	}, nil
}

// Get downloads an object.
func (s *S3Store) Get(ctx context.Context, name string) (io.ReadCloser, *Object, error) {
	clean, key, err := s.key(name)
	if err != nil {
		return nil, nil, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("export: s3 get %s: %w", key, err)
	}
	obj := &Object{
		Name:        clean,
		ContentType: aws.ToString(out.ContentType),
		Size:        aws.ToInt64(out.ContentLength),
		ModTime:     aws.ToTime(out.LastModified),
		URL:         s.url(ctx, key),
	}
	return out.Body, obj, nil
}

// List pages through the objects under the store prefix.
func (s *S3Store) List(ctx context.Context, prefix string) ([]Object, error) {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix + prefix),
	})
	var out []Object
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("export: s3 list: %w", err)
		}
		for _, o := range page.Contents {
			key := aws.ToString(o.Key)
			out = append(out, Object{
				Name:        strings.TrimPrefix(key, s.prefix),
				ContentType: ContentTypeFor(key),
				Size:        aws.ToInt64(o.Size),
				ModTime:     aws.ToTime(o.LastModified),
				URL:         "s3://" + s.bucket + "/" + key,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Delete removes an object. S3 does not report missing keys on delete.
func (s *S3Store) Delete(ctx context.Context, name string) error {
	_, key, err := s.key(name)
	if err != nil {
		return err
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("export: s3 delete %s: %w", key, err)
	}
	return nil
}

func (s *S3Store) url(ctx context.Context, key string) string {
	if s.presign != nil {
		req, err := s.presign.PresignGetObject(ctx,
			&s3.GetObjectInput{Bucket: aws.String(s.bucket), Key: aws.String(key)},
			s3.WithPresignExpires(s.urlExpiry))
		if err == nil {
			return req.URL
		}
	}
	return "s3://" + s.bucket + "/" + key
}
