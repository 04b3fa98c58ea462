package s3bucket

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3Bucket struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

// NewS3Bucket wraps a bucket whose objects are publicly readable under publicURL.
func NewS3Bucket(client *s3.Client, bucket string, publicURL string) *S3Bucket {
	if !strings.HasSuffix(publicURL, "/") {
		publicURL += "/"
	}
	return &S3Bucket{
		client:    client,
		bucket:    bucket,
		publicURL: publicURL,
	}
}

// Upload stores content under key and returns the object's public URL.
func (b *S3Bucket) Upload(ctx context.Context, key string, mediaType string, content []byte) (string, error) {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &b.bucket,
		Key:         &key,
		Body:        bytes.NewReader(content),
		ContentType: &mediaType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}
	return b.URL(key), nil
}

func (b *S3Bucket) URL(key string) string {
	return b.publicURL + key
}

// KeyFromURL reverses URL. It returns false for URLs outside this bucket.
func (b *S3Bucket) KeyFromURL(objectURL string) (string, bool) {
	if !strings.HasPrefix(objectURL, b.publicURL) {
		return "", false
	}
	key := strings.TrimPrefix(objectURL, b.publicURL)
	if unescaped, err := url.PathUnescape(key); err == nil {
		key = unescaped
	}
	return key, key != ""
}

func (b *S3Bucket) Delete(ctx context.Context, key string) error {
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &b.bucket,
		Key:    &key,
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// ListFiles lists object keys with the given prefix.
func (b *S3Bucket) ListFiles(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	input := &s3.ListObjectsV2Input{
		Bucket: &b.bucket,
	}
	if prefix != "" {
		input.Prefix = &prefix
	}

	paginator := s3.NewListObjectsV2Paginator(b.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, *obj.Key)
		}
	}
	return keys, nil
}
