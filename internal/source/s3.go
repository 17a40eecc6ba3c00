package source

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// S3Scheme prefixes S3 locations, as in s3://bucket/prefix.
const S3Scheme = "s3://"

// IsS3 reports whether location names an S3 prefix.
func IsS3(location string) bool {
	return strings.HasPrefix(location, S3Scheme)
}

// ParseS3 splits s3://bucket/key into bucket and key.
func ParseS3(location string) (bucket, key string, err error) {
	if !IsS3(location) {
		return "", "", fmt.Errorf("%q is not an s3:// location", location)
	}
	bucket, key, _ = strings.Cut(strings.TrimPrefix(location, S3Scheme), "/")
	if bucket == "" {
		return "", "", fmt.Errorf("%q has no bucket", location)
	}
	return bucket, key, nil
}

// S3 lists objects under a bucket prefix.
type S3 struct {
	svc    s3iface.S3API
	bucket string
	prefix string
}

// NewS3 returns a Source for location, an s3://bucket/prefix URL.
func NewS3(svc s3iface.S3API, location string) (*S3, error) {
	bucket, prefix, err := ParseS3(location)
	if err != nil {
		return nil, err
	}
	return &S3{svc: svc, bucket: bucket, prefix: prefix}, nil
}

// List pages through the prefix. Keys come back in lexical order, so paging
// stops once the cap is reached.
func (s *S3) List(ctx context.Context, filter Filter) ([]string, error) {
	var paths []string
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	}
	err := s.svc.ListObjectsV2PagesWithContext(ctx, input, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, object := range page.Contents {
			key := aws.StringValue(object.Key)
			if strings.HasSuffix(key, "/") || !filter.Match(key) {
				continue
			}
			paths = append(paths, S3Scheme+s.bucket+"/"+key)
			if filter.full(len(paths)) {
				return false
			}
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("list %s%s/%s: %w", S3Scheme, s.bucket, s.prefix, err)
	}

	paths, err = filter.finish(paths)
	if err != nil {
		return nil, fmt.Errorf("list %s%s/%s: %w", S3Scheme, s.bucket, s.prefix, err)
	}
	return paths, nil
}

// Open fetches an object returned by List.
func (s *S3) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	bucket, key, err := ParseS3(location)
	if err != nil {
		return nil, err
	}
	output, err := s.svc.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", location, err)
	}
	return output.Body, nil
}
