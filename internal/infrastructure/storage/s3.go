// Package storage provides object storage for book data and rendered
// print artifacts.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	infraconfig "github.com/teamseason/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// StorageError wraps a failed storage operation
type StorageError struct {
	Op    string
	Key   string
	Cause error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q failed: %v", e.Op, e.Key, e.Cause)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

// S3Store implements artifact and book-data storage on any
// S3-compatible backend (AWS S3, MinIO, etc.). Writes are
// overwrite-by-key, so storing the same key twice is safe.
type S3Store struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	httpClient    *http.Client
	bucket        string
	presignTTL    time.Duration
	logger        *zap.Logger
}

// S3StoreOption is a functional option for configuring S3Store
type S3StoreOption func(*S3Store)

// WithLogger sets a custom logger for S3Store
func WithLogger(logger *zap.Logger) S3StoreOption {
	return func(s *S3Store) {
		s.logger = logger
	}
}

// WithHTTPClient sets the HTTP client used to fetch stored book data
func WithHTTPClient(c *http.Client) S3StoreOption {
	return func(s *S3Store) {
		s.httpClient = c
	}
}

// NewS3Store creates a new S3Store from configuration
func NewS3Store(cfg *infraconfig.StorageConfig, opts ...S3StoreOption) (*S3Store, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKey == "" {
		return nil, errors.New("storage access key is required")
	}
	if cfg.SecretKey == "" {
		return nil, errors.New("storage secret key is required")
	}

	region := cfg.Region
	if region == "" {
		region = "us-west-2"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			endpoint := cfg.Endpoint
			if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
				endpoint = "https://" + endpoint
			}
			if _, err := url.Parse(endpoint); err == nil {
				o.BaseEndpoint = aws.String(endpoint)
			}
		}
	})

	store := &S3Store{
		client:        client,
		presignClient: s3.NewPresignClient(client),
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		bucket:        cfg.Bucket,
		presignTTL:    cfg.PresignExpiration,
		logger:        zap.NewNop(),
	}

	for _, opt := range opts {
		opt(store)
	}

	if store.presignTTL == 0 {
		store.presignTTL = 7 * 24 * time.Hour
	}

	return store, nil
}

// Store uploads data under key and returns a presigned GET URL the
// print vendor can fetch. Uploading the same key again overwrites the
// previous object, which keeps webhook redelivery safe.
func (s *S3Store) Store(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if key == "" {
		return "", &StorageError{Op: "put", Key: key, Cause: errors.New("storage key is required")}
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", &StorageError{Op: "put", Key: key, Cause: err}
	}

	presignReq, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.presignTTL))
	if err != nil {
		return "", &StorageError{Op: "presign", Key: key, Cause: err}
	}

	s.logger.Info("Object stored",
		zap.String("key", key),
		zap.String("content_type", contentType),
		zap.Int("bytes", len(data)))

	return presignReq.URL, nil
}

// StoreBookData serializes book data JSON and returns its URL
func (s *S3Store) StoreBookData(ctx context.Context, key string, data any) (string, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return "", &StorageError{Op: "marshal", Key: key, Cause: err}
	}
	return s.Store(ctx, key, payload, "application/json")
}

// FetchBookData retrieves previously stored book data JSON by its URL.
// The URL is whatever Store returned when the data was saved, so a
// plain HTTP GET is all that is needed.
func (s *S3Store) FetchBookData(ctx context.Context, dataURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, dataURL, nil)
	if err != nil {
		return &StorageError{Op: "fetch", Key: dataURL, Cause: err}
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return &StorageError{Op: "fetch", Key: dataURL, Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &StorageError{Op: "fetch", Key: dataURL,
			Cause: fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &StorageError{Op: "decode", Key: dataURL, Cause: err}
	}
	return nil
}
