package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"parley/internal/domain"
	"parley/internal/domain/repositories"
)

// StoreConfig holds configuration for the S3-backed document store
type StoreConfig struct {
	Client *awss3.Client
	Bucket string
	Logger *slog.Logger
}

// DocumentStore implements repositories.DocumentStore on an S3 bucket, one
// JSON object per document. It performs no caching and no retries.
type DocumentStore struct {
	client *awss3.Client
	bucket string
	logger *slog.Logger
}

// NewDocumentStore creates a new S3-backed document store
func NewDocumentStore(config *StoreConfig) repositories.DocumentStore {
	return &DocumentStore{
		client: config.Client,
		bucket: config.Bucket,
		logger: config.Logger,
	}
}

// Get retrieves the JSON document at key and unmarshals it into dest
func (s *DocumentStore) Get(ctx context.Context, key string, dest any) error {
	out, err := s.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return s.mapError("get", key, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return fmt.Errorf("read object %s: %w", key, err)
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decode object %s: %w", key, err)
	}

	return nil
}

// Put stores doc at key as a JSON object, replacing any existing object
func (s *DocumentStore) Put(ctx context.Context, key string, doc any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode object %s: %w", key, err)
	}

	_, err = s.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return s.mapError("put", key, err)
	}

	return nil
}

// Delete removes the object at key
func (s *DocumentStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &awss3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return s.mapError("delete", key, err)
	}

	return nil
}

// List returns every object key under prefix
func (s *DocumentStore) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string

	paginator := awss3.NewListObjectsV2Paginator(s.client, &awss3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, s.mapError("list", prefix, err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}

	return keys, nil
}

// mapError categorizes low-level S3 failures: missing key, missing or
// incomplete credentials, vendor-reported rejection, or unspecified.
func (s *DocumentStore) mapError(op, key string, err error) error {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return fmt.Errorf("%s %s: %w", op, key, domain.ErrNotFound)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return fmt.Errorf("%s %s: %w", op, key, domain.ErrNotFound)
		}
		s.logger.Error("storage request rejected",
			"op", op,
			"key", key,
			"code", apiErr.ErrorCode(),
			"message", apiErr.ErrorMessage(),
		)
		return &domain.UpstreamError{Code: apiErr.ErrorCode(), Message: apiErr.ErrorMessage()}
	}

	// Credential resolution failures never reach S3, so they carry no API
	// error code; the SDK only reports them through the error text.
	if strings.Contains(err.Error(), "credential") {
		return &domain.CredentialsError{Message: "AWS credentials missing or incomplete"}
	}

	return fmt.Errorf("%s %s: %w", op, key, err)
}
