// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage provides an S3-compatible object storage client used to
// fetch the blog dataset published as a JSON object. It wraps the AWS SDK
// v2 and is configured for path-style access (required by CEPH/Hetzner and
// MinIO).
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"blogpress/internal/models"
	"blogpress/internal/seed"
)

// Client wraps an S3 client bound to a single bucket.
type Client struct {
	s3       *s3.Client
	bucket   string
	endpoint string
}

// New creates an S3 storage client with path-style addressing. Returns
// (nil, nil) if endpoint or bucket are empty. Without an access key the
// client makes anonymous requests, which is enough for a public bucket.
func New(endpoint, region, accessKey, secretKey, bucket string) (*Client, error) {
	if endpoint == "" || bucket == "" {
		return nil, nil
	}

	// Strip trailing slash from endpoint for consistent URL building.
	endpoint = strings.TrimRight(endpoint, "/")

	var creds aws.CredentialsProvider = aws.AnonymousCredentials{}
	if accessKey != "" {
		creds = credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")
	}

	s3Client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  creds,
		UsePathStyle: true,
	})

	return &Client{
		s3:       s3Client,
		bucket:   bucket,
		endpoint: endpoint,
	}, nil
}

// Download retrieves an object from the bucket and returns its contents.
func (c *Client) Download(ctx context.Context, key string) ([]byte, error) {
	output, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 download %s/%s: %w", c.bucket, key, err)
	}
	defer output.Body.Close()
	data, err := io.ReadAll(output.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read body %s/%s: %w", c.bucket, key, err)
	}
	return data, nil
}

// FetchDataset downloads and decodes the dataset stored under key.
func (c *Client) FetchDataset(ctx context.Context, key string) (models.Dataset, error) {
	data, err := c.Download(ctx, key)
	if err != nil {
		return models.Dataset{}, err
	}
	d, err := seed.Decode(bytes.NewReader(data))
	if err != nil {
		return models.Dataset{}, fmt.Errorf("s3 object %s/%s: %w", c.bucket, key, err)
	}
	slog.Info("dataset fetched from object storage",
		"bucket", c.bucket,
		"key", key,
		"bytes", len(data),
	)
	return d, nil
}

// ObjectURL returns the path-style URL of key, used in logs and errors.
func (c *Client) ObjectURL(key string) string {
	return c.endpoint + "/" + c.bucket + "/" + key
}
