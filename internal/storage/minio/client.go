package minio

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"

	"github.com/dtroode/senderkeys/internal/model"
)

const (
	noSuchKey     = "NoSuchKey"
	blobMediaType = "application/octet-stream"
)

// objectAPI is the part of *minio.Client used by Client.
type objectAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

// sdk adapts *minio.Client, whose GetObject returns a concrete type.
type sdk struct{ *minio.Client }

func (s sdk) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	obj, err := s.Client.GetObject(ctx, bucketName, objectName, opts)
	if err != nil {
		return nil, err
	}
	return obj, nil
}

var _ model.Storage = (*Client)(nil)

// Client keeps sender key backup blobs in one bucket.
type Client struct {
	api    objectAPI
	bucket string
}

// NewClient creates the bucket when missing.
func NewClient(ctx context.Context, client *minio.Client, bucket string) (*Client, error) {
	return newClient(ctx, sdk{Client: client}, bucket)
}

func newClient(ctx context.Context, api objectAPI, bucket string) (*Client, error) {
	c := &Client{
		api:    api,
		bucket: bucket,
	}

	if err := c.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to prepare bucket %q: %w", bucket, err)
	}

	return c, nil
}

func (c *Client) ensureBucket(ctx context.Context) error {
	exists, err := c.api.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if exists {
		return nil
	}

	if err := c.api.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// Upload writes size bytes from reader under key, replacing any existing object.
func (c *Client) Upload(ctx context.Context, key string, reader io.Reader, size int64) error {
	_, err := c.api.PutObject(ctx, c.bucket, key, reader, size, minio.PutObjectOptions{ContentType: blobMediaType})
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}
	return nil
}

// Download opens the object at key. A missing object is reported as
// model.ErrNotFound, either here or on the first Read.
func (c *Client) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := c.api.GetObject(ctx, c.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", translate(err))
	}
	return objectReader{ReadCloser: obj}, nil
}

func (c *Client) Delete(ctx context.Context, key string) error {
	if err := c.api.RemoveObject(ctx, c.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// objectReader maps the lazy NoSuchKey error of a minio object.
type objectReader struct {
	io.ReadCloser
}

func (r objectReader) Read(p []byte) (int, error) {
	n, err := r.ReadCloser.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		err = translate(err)
	}
	return n, err
}

func translate(err error) error {
	if minio.ToErrorResponse(err).Code == noSuchKey {
		return fmt.Errorf("%w: %w", model.ErrNotFound, err)
	}
	return err
}
