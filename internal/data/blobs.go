package data

import (
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
)

// UploadObject streams a local file into the bucket and returns its
// storage path in minio://bucket/object form.
func (d *Data) UploadObject(ctx context.Context, localPath, objectName, contentType string) (string, error) {
	_, err := d.Minio.FPutObject(ctx, d.bucket, objectName, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("minio upload %s: %w", objectName, err)
	}
	return fmt.Sprintf("minio://%s/%s", d.bucket, objectName), nil
}

// RemoveObject deletes the object a minio:// storage path points at.
// Unknown path shapes are ignored.
func (d *Data) RemoveObject(ctx context.Context, storagePath string) error {
	rest, ok := strings.CutPrefix(storagePath, "minio://")
	if !ok {
		return nil
	}
	bucket, object, ok := strings.Cut(rest, "/")
	if !ok || object == "" {
		return nil
	}
	return d.Minio.RemoveObject(ctx, bucket, object, minio.RemoveObjectOptions{})
}
