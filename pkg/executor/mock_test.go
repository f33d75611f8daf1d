package executor

import (
	"context"
	"fmt"
	"io"

	"github.com/hpcdata/datamove/pkg/s3client"
)

// mockClient is a func-field implementation of s3client.Client.
type mockClient struct {
	listFunc     func(ctx context.Context, bucket, prefix string) ([]s3client.ObjectInfo, error)
	headFunc     func(ctx context.Context, bucket, key string) (*s3client.ObjectInfo, error)
	uploadFunc   func(ctx context.Context, bucket, key string, body io.Reader, contentType, storageClass string) error
	downloadFunc func(ctx context.Context, bucket, key string, w io.WriterAt) error
	copyFunc     func(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey, storageClass string) error
	deleteFunc   func(ctx context.Context, bucket, key string) error
}

func (m *mockClient) List(ctx context.Context, bucket, prefix string) ([]s3client.ObjectInfo, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, bucket, prefix)
	}
	return nil, fmt.Errorf("List not implemented")
}

func (m *mockClient) Head(ctx context.Context, bucket, key string) (*s3client.ObjectInfo, error) {
	if m.headFunc != nil {
		return m.headFunc(ctx, bucket, key)
	}
	return &s3client.ObjectInfo{Key: key}, nil
}

func (m *mockClient) Upload(ctx context.Context, bucket, key string, body io.Reader, contentType, storageClass string) error {
	if m.uploadFunc != nil {
		return m.uploadFunc(ctx, bucket, key, body, contentType, storageClass)
	}
	return fmt.Errorf("Upload not implemented")
}

func (m *mockClient) Download(ctx context.Context, bucket, key string, w io.WriterAt) error {
	if m.downloadFunc != nil {
		return m.downloadFunc(ctx, bucket, key, w)
	}
	return fmt.Errorf("Download not implemented")
}

func (m *mockClient) Copy(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey, storageClass string) error {
	if m.copyFunc != nil {
		return m.copyFunc(ctx, srcBucket, srcKey, dstBucket, dstKey, storageClass)
	}
	return fmt.Errorf("Copy not implemented")
}

func (m *mockClient) Delete(ctx context.Context, bucket, key string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, bucket, key)
	}
	return fmt.Errorf("Delete not implemented")
}
