package exporter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var (
	ErrArtifactNotFound = errors.New("文件不存在")
	ErrInvalidArtifact  = errors.New("无效的文件名")
)

// ArtifactStore 保存导出的文件，同名文件会被覆盖
type ArtifactStore interface {
	Put(name string, data []byte) error
	Open(name string) (io.ReadCloser, error)
}

// ValidArtifactName 只接受不含路径的 .xlsx 文件名
func ValidArtifactName(name string) bool {
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) {
		return false
	}
	if strings.HasPrefix(name, ".") {
		return false
	}
	return strings.EqualFold(filepath.Ext(name), ".xlsx")
}

type LocalArtifacts struct {
	dir string
}

func NewLocalArtifacts(dir string) (*LocalArtifacts, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &LocalArtifacts{dir: dir}, nil
}

func (a *LocalArtifacts) Put(name string, data []byte) error {
	if !ValidArtifactName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidArtifact, name)
	}

	// 每次写入使用独立的临时文件，同名文件并发保存时互不截断
	tmp, err := os.CreateTemp(a.dir, name+".*.tmp")
	if err != nil {
		return err
	}
	tmpFile := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpFile)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}
	if err := os.Chmod(tmpFile, 0o644); err != nil {
		os.Remove(tmpFile)
		return err
	}

	if err := os.Rename(tmpFile, filepath.Join(a.dir, name)); err != nil {
		os.Remove(tmpFile)
		return err
	}
	return nil
}

func (a *LocalArtifacts) Open(name string) (io.ReadCloser, error) {
	if !ValidArtifactName(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidArtifact, name)
	}

	f, err := os.Open(filepath.Join(a.dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrArtifactNotFound
		}
		return nil, err
	}
	return f, nil
}

type MinioArtifacts struct {
	client  *minio.Client
	bucket  string
	timeout time.Duration
}

func NewMinioArtifacts(client *minio.Client, bucket string, timeout time.Duration) *MinioArtifacts {
	return &MinioArtifacts{
		client:  client,
		bucket:  bucket,
		timeout: timeout,
	}
}

// EnsureBucket 在存储桶不存在时创建它
func (a *MinioArtifacts) EnsureBucket() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{})
}

func (a *MinioArtifacts) Put(name string, data []byte) error {
	if !ValidArtifactName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidArtifact, name)
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	_, err := a.client.PutObject(ctx, a.bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: xlsxContentType,
	})
	return err
}

func (a *MinioArtifacts) Open(name string) (io.ReadCloser, error) {
	if !ValidArtifactName(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidArtifact, name)
	}

	// 对象在读取完之前需要保持 ctx 有效，由 Close 负责取消
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)

	obj, err := a.client.GetObject(ctx, a.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		cancel()
		return nil, err
	}
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		cancel()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrArtifactNotFound
		}
		return nil, err
	}

	return &objectReader{Object: obj, cancel: cancel}, nil
}

type objectReader struct {
	*minio.Object
	cancel context.CancelFunc
}

func (r *objectReader) Close() error {
	defer r.cancel()
	return r.Object.Close()
}
