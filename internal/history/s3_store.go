package history

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/preethiayinampudi/LexiGuard/internal/types"
)

type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// S3Store keeps the history list as a single JSON object in a bucket,
// preserving the same whole-list read/write granularity as the disk
// backend. Loads are served from a small read-through LRU cache.
type S3Store struct {
	client *minio.Client
	bucket string
	region string
	object string

	initOnce sync.Once
	initErr  error

	mu    sync.Mutex
	cache *lru.Cache[string, []types.HistoryItem]
}

func NewS3Store(cfg S3Config) (*S3Store, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
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
		return nil, fmt.Errorf("init s3 client: %w", err)
	}
	cache, err := lru.New[string, []types.HistoryItem](8)
	if err != nil {
		return nil, err
	}

	return &S3Store{
		client: client,
		bucket: bucket,
		region: region,
		object: StorageKey + ".json",
		cache:  cache,
	}, nil
}

func (s *S3Store) ensureBucket(ctx context.Context) error {
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.initErr = err
			return
		}
		if exists {
			return
		}
		s.initErr = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region})
	})
	return s.initErr
}

func (s *S3Store) Load(ctx context.Context) ([]types.HistoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *S3Store) loadLocked(ctx context.Context) ([]types.HistoryItem, error) {
	if cached, ok := s.cache.Get(s.object); ok {
		return append([]types.HistoryItem(nil), cached...), nil
	}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensure bucket: %w", err)
	}

	obj, err := s.client.GetObject(ctx, s.bucket, s.object, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	raw, err := io.ReadAll(obj)
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NoSuchBucket" {
			return []types.HistoryItem{}, nil
		}
		return nil, err
	}
	var items []types.HistoryItem
	if err := json.Unmarshal(raw, &items); err != nil {
		// Corrupt payload: discard the object so the next load starts clean.
		log.Printf("history: corrupt payload in s3://%s/%s, discarding: %v", s.bucket, s.object, err)
		_ = s.client.RemoveObject(ctx, s.bucket, s.object, minio.RemoveObjectOptions{})
		return []types.HistoryItem{}, nil
	}
	sortNewestFirst(items)
	s.cache.Add(s.object, append([]types.HistoryItem(nil), items...))
	return items, nil
}

func (s *S3Store) Append(ctx context.Context, item types.HistoryItem) ([]types.HistoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.loadLocked(ctx)
	if err != nil {
		log.Printf("history: load before append failed: %v", err)
		items = []types.HistoryItem{}
	}
	items = merge(items, item)

	raw, err := json.Marshal(items)
	if err != nil {
		return items, err
	}
	if err := s.ensureBucket(ctx); err != nil {
		log.Printf("history: persist to s3://%s/%s failed: %v", s.bucket, s.object, err)
		return items, nil
	}
	_, err = s.client.PutObject(ctx, s.bucket, s.object, bytes.NewReader(raw), int64(len(raw)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		// Degraded mode: keep serving the in-memory result.
		log.Printf("history: persist to s3://%s/%s failed: %v", s.bucket, s.object, err)
		s.cache.Remove(s.object)
		return items, nil
	}
	s.cache.Add(s.object, append([]types.HistoryItem(nil), items...))
	return items, nil
}

func (s *S3Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Remove(s.object)
	if err := s.ensureBucket(ctx); err != nil {
		return err
	}
	return s.client.RemoveObject(ctx, s.bucket, s.object, minio.RemoveObjectOptions{})
}
