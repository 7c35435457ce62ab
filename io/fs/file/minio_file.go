package file

import (
	"bytes"
	"context"

	"github.com/minio/minio-go/v7"
)

var _ File = (*MinioFile)(nil)

// MinioFile buffers writes in memory and uploads the object on Close.
// Reads go through the wrapped minio object when the object already exists.
type MinioFile struct {
	*minio.Object
	writer     *MemoryFile
	client     *minio.Client
	fileName   string
	bucketName string
}

func (f *MinioFile) Write(b []byte) (int, error) {
	return f.writer.Write(b)
}

func (f *MinioFile) Seek(offset int64, whence int) (int64, error) {
	if f.writer != nil {
		return f.writer.Seek(offset, whence)
	}
	return f.Object.Seek(offset, whence)
}

func (f *MinioFile) Close() error {
	if f.writer == nil {
		return nil
	}
	buf := f.writer.Bytes()
	_, err := f.client.PutObject(context.TODO(), f.bucketName, f.fileName,
		bytes.NewReader(buf), int64(len(buf)), minio.PutObjectOptions{})
	return err
}

func NewMinioFile(client *minio.Client, fileName string, bucketName string) (*MinioFile, error) {
	_, err := client.StatObject(context.TODO(), bucketName, fileName, minio.StatObjectOptions{})
	if err != nil {
		eresp := minio.ToErrorResponse(err)
		if eresp.Code != "NoSuchKey" {
			return nil, err
		}
		return &MinioFile{
			writer:     NewMemoryFile(nil),
			client:     client,
			fileName:   fileName,
			bucketName: bucketName,
		}, nil
	}

	object, err := client.GetObject(context.TODO(), bucketName, fileName, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}

	return &MinioFile{
		Object:     object,
		client:     client,
		fileName:   fileName,
		bucketName: bucketName,
	}, nil
}
