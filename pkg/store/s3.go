package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config locates the bucket documents are written to.
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

// S3 keeps one object per document, named <prefix><id>.json.
type S3 struct {
	client *minio.Client
	bucket string
	region string
	prefix string

	initMu    sync.Mutex
	initReady bool
}

var _ Store = (*S3)(nil)

// NewS3 builds a client for cfg. The bucket is created on first use when it
// does not exist.
func NewS3(cfg S3Config) (*S3, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, errors.New("store: s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, errors.New("store: s3 access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, errors.New("store: s3 bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("store: init s3 client: %w", err)
	}

	return &S3{
		client: client,
		bucket: bucket,
		region: region,
		prefix: normalizePrefix(cfg.Prefix),
	}, nil
}

func normalizePrefix(prefix string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return ""
	}
	return prefix + "/"
}

func (s *S3) objectKey(id string) string {
	return s.prefix + id + ".json"
}

// ensureBucket creates the bucket when missing. Only success is remembered,
// and the caller's cancellation does not abort the attempt.
func (s *S3) ensureBucket(ctx context.Context) error {
	s.initMu.Lock()
	defer s.initMu.Unlock()
	if s.initReady {
		return nil
	}
	ctx = context.WithoutCancel(ctx)
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
			return err
		}
	}
	s.initReady = true
	return nil
}

func (s *S3) Get(ctx context.Context, id string) ([]byte, error) {
	id, err := NormalizeID(id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("store: ensure bucket: %w", err)
	}

	obj, err := s.client.GetObject(ctx, s.bucket, s.objectKey(id), minio.GetObjectOptions{})
	if err != nil {
		return nil, translateS3Err(id, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, translateS3Err(id, err)
	}
	return data, nil
}

func (s *S3) Put(ctx context.Context, id string, doc []byte) error {
	id, err := NormalizeID(id)
	if err != nil {
		return err
	}
	if err := s.ensureBucket(ctx); err != nil {
		return fmt.Errorf("store: ensure bucket: %w", err)
	}
	if doc == nil {
		doc = []byte{}
	}

	_, err = s.client.PutObject(ctx, s.bucket, s.objectKey(id), bytes.NewReader(doc), int64(len(doc)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("store: put %q: %w", id, err)
	}
	return nil
}

func (s *S3) Delete(ctx context.Context, id string) error {
	id, err := NormalizeID(id)
	if err != nil {
		return err
	}
	if err := s.ensureBucket(ctx); err != nil {
		return fmt.Errorf("store: ensure bucket: %w", err)
	}

	key := s.objectKey(id)
	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		return translateS3Err(id, err)
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("store: delete %q: %w", id, err)
	}
	return nil
}

func (s *S3) List(ctx context.Context) ([]string, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("store: ensure bucket: %w", err)
	}

	var ids []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    s.prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("store: list: %w", obj.Err)
		}
		name := strings.TrimPrefix(obj.Key, s.prefix)
		id, ok := strings.CutSuffix(name, ".json")
		if !ok || id == "" || strings.Contains(id, "/") {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *S3) Close() error { return nil }

func translateS3Err(id string, err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return ErrNotFound
	}
	return fmt.Errorf("store: get %q: %w", id, err)
}
