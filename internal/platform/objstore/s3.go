// Copyright (c) 2026 Inkgate. All rights reserved.
// Author: minh.ngo.dev@gmail.com

// Package objstore provides object storage for post cover images.
//
// The only implementation talks to an S3-compatible endpoint (AWS S3, MinIO,
// or any other service speaking the S3 API). Stored objects are addressed by
// a key derived from the post identifier, and the public URL handed back to
// API clients is built from a configurable base URL.
package objstore

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ImageStore persists uploaded images and yields public URLs for them.
type ImageStore interface {
	// Upload stores the image content under the given key and returns the
	// public URL where it can be fetched.
	Upload(ctx context.Context, key string, contentType string, content io.Reader) (string, error)

	// Remove deletes the image stored under the given key. Removing a key
	// that does not exist is not an error.
	Remove(ctx context.Context, key string) error
}

// S3Config carries the settings needed to reach an S3-compatible endpoint.
type S3Config struct {
	Bucket        string
	Region        string
	Endpoint      string // empty for AWS S3 proper
	AccessKey     string
	SecretKey     string
	PublicBaseURL string // base for returned URLs, defaults to endpoint/bucket
}

// S3Store implements [ImageStore] against an S3-compatible service.
type S3Store struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
	logger        *slog.Logger
}

// NewS3Store builds an S3-backed image store.
func NewS3Store(ctx context.Context, cfg S3Config, logger *slog.Logger) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("objstore: bucket name is required")
	}

	loadOptions := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		loadOptions = append(loadOptions, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("objstore: failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(options *s3.Options) {
		if cfg.Endpoint != "" {
			options.BaseEndpoint = aws.String(cfg.Endpoint)
			// Path-style addressing is what MinIO and most self-hosted
			// S3-compatible services expect.
			options.UsePathStyle = true
		}
	})

	publicBaseURL := strings.TrimSuffix(cfg.PublicBaseURL, "/")
	if publicBaseURL == "" {
		publicBaseURL = strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}

	logger.Info("object store configured",
		slog.String("bucket", cfg.Bucket),
		slog.String("region", cfg.Region),
	)

	return &S3Store{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: publicBaseURL,
		logger:        logger,
	}, nil
}

// Upload implements [ImageStore].
func (s *S3Store) Upload(ctx context.Context, key string, contentType string, content io.Reader) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        content,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("objstore: upload %q failed: %w", key, err)
	}

	return s.publicBaseURL + "/" + key, nil
}

// Remove implements [ImageStore].
func (s *S3Store) Remove(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("objstore: remove %q failed: %w", key, err)
	}

	return nil
}
