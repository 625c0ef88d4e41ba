package storage

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/MarcusMQF/Foresight-platform-sub000/internal/domain/files"
)

const (
	defaultMaxRetries   = 3
	defaultInitialDelay = time.Second
)

type Store struct {
	client     *minio.Client
	bucketName string
	region     string

	maxRetries   int
	initialDelay time.Duration
	sleep        sleepFunc
}

// New buat koneksi MinIO
func New(ctx context.Context, endpoint, region, bucket, accessKey, secretKey string, useSSL bool, maxRetries int, initialDelay time.Duration) (*Store, error) {
	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, err
	}

	// pastikan bucket ada
	exists, err := cli.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := cli.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return nil, err
		}
	}

	if maxRetries < 0 {
		maxRetries = defaultMaxRetries
	}
	if initialDelay <= 0 {
		initialDelay = defaultInitialDelay
	}
	return &Store{
		client:       cli,
		bucketName:   bucket,
		region:       region,
		maxRetries:   maxRetries,
		initialDelay: initialDelay,
		sleep:        sleepCtx,
	}, nil
}

// Put uploads one object.
func (s *Store) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if contentType == "" {
		contentType = contentTypeFor(key, "")
	}
	_, err := s.client.PutObject(ctx, s.bucketName, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

// Fetch downloads the object into memory, retrying transient failures. The
// last attempt's error comes back untouched when every attempt fails.
func (s *Store) Fetch(ctx context.Context, key, filename string) (*files.Blob, error) {
	blob, err := fetchWithRetry(ctx, s.maxRetries, s.initialDelay, s.sleep, func(ctx context.Context) (*files.Blob, error) {
		obj, err := s.client.GetObject(ctx, s.bucketName, key, minio.GetObjectOptions{})
		if err != nil {
			return nil, err
		}
		defer obj.Close()

		data, err := io.ReadAll(obj)
		if err != nil {
			return nil, err
		}
		stat, err := obj.Stat()
		if err != nil {
			return nil, err
		}
		return &files.Blob{
			Data:        data,
			ContentType: contentTypeFor(filename, stat.ContentType),
			Filename:    filename,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return blob, nil
}

// PresignGet returns a short-lived download URL.
func (s *Store) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucketName, key, expiry, url.Values{})
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucketName, key, minio.RemoveObjectOptions{})
}

// contentTypeFor prefers the reported type unless it is a generic binary
// type; then the filename extension decides.
func contentTypeFor(filename, reported string) string {
	if reported != "" && reported != "application/octet-stream" && reported != "binary/octet-stream" {
		return reported
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".txt":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}
