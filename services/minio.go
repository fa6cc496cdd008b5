package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"

	"organizer-api/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOStore — постоянное key-value хранилище кэша поверх бакета MinIO.
// Каждый ключ хранится отдельным JSON-объектом.
type MinIOStore struct {
	client *minio.Client
	bucket string
}

func NewMinIOStore(cfg *config.Config) (*MinIOStore, error) {
	client, err := minio.New(cfg.MinIOEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
		Secure: cfg.MinIOUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	store := &MinIOStore{
		client: client,
		bucket: cfg.MinIOBucket,
	}

	exists, err := client.BucketExists(context.Background(), cfg.MinIOBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(context.Background(), cfg.MinIOBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return store, nil
}

func (s *MinIOStore) Get(ctx context.Context, key string) ([]byte, bool) {
	object, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, false
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		// Отсутствующий ключ проявляется только при чтении
		errResponse := minio.ToErrorResponse(err)
		if errResponse.Code != "NoSuchKey" {
			log.Printf("MinIOStore - failed to read %s: %v", key, err)
		}
		return nil, false
	}
	return data, true
}

func (s *MinIOStore) Set(ctx context.Context, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}
	return nil
}

func (s *MinIOStore) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object: %w", err)
	}
	return nil
}
