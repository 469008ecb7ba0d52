// Package r2 serves public Cloudflare R2 (or any S3 compatible) buckets as
// storages. The storage id is the bucket name.
package r2

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"

	appconfig "github.com/HaiFongPan/pubdrop/internal/config"
	"github.com/HaiFongPan/pubdrop/internal/remote"
)

// ObjectAPI is the subset of the S3 API the bucket backend needs.
type ObjectAPI interface {
	s3.ListObjectsV2APIClient
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// Client wraps the S3 client for public bucket browsing
type Client struct {
	s3Client ObjectAPI
	config   *appconfig.R2Config
	endpoint string
}

var _ remote.Client = (*Client)(nil)

// NewClient creates a new R2 client from configuration. Without access keys
// requests are sent unsigned.
func NewClient(ctx context.Context, cfg *appconfig.R2Config) (*Client, error) {
	var provider aws.CredentialsProvider = aws.AnonymousCredentials{}
	if cfg.AccessKeyID != "" && cfg.AccessKeySecret != "" {
		provider = credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.AccessKeySecret,
			"",
		)
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(provider),
		config.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	endpoint := Endpoint(cfg)
	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	logrus.Debugf("r2: using endpoint %s", endpoint)
	return NewClientWithAPI(s3Client, cfg), nil
}

// NewClientWithAPI builds a Client on top of an existing S3 API implementation.
func NewClientWithAPI(api ObjectAPI, cfg *appconfig.R2Config) *Client {
	return &Client{
		s3Client: api,
		config:   cfg,
		endpoint: Endpoint(cfg),
	}
}

// Endpoint returns the S3 endpoint for cfg. An empty or "auto" endpoint
// resolves to the account's R2 endpoint.
func Endpoint(cfg *appconfig.R2Config) string {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" || endpoint == "auto" {
		return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)
	}
	if !strings.Contains(endpoint, "://") {
		endpoint = "https://" + endpoint
	}
	return strings.TrimSuffix(endpoint, "/")
}

// ListDirectory lists the direct children of path in bucket storageID.
// Folders come first, then files, each in key order.
func (c *Client) ListDirectory(ctx context.Context, storageID, path string) ([]remote.Entry, error) {
	prefix := dirPrefix(path)
	paginator := s3.NewListObjectsV2Paginator(c.s3Client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(storageID),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})

	var dirs, files []remote.Entry
	marker := false
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s/%s: %w", storageID, path, mapError(err))
		}
		for _, cp := range page.CommonPrefixes {
			if entry, ok := entryFromPrefix(prefix, aws.ToString(cp.Prefix)); ok {
				dirs = append(dirs, entry)
			}
		}
		for _, obj := range page.Contents {
			if aws.ToString(obj.Key) == prefix {
				marker = true
				continue
			}
			if entry, ok := entryFromObject(prefix, obj); ok {
				files = append(files, entry)
			}
		}
	}

	if prefix != "" && !marker && len(dirs) == 0 && len(files) == 0 {
		return nil, fmt.Errorf("failed to list %s/%s: %w", storageID, path, remote.ErrNotFound)
	}

	logrus.WithFields(logrus.Fields{
		"bucket": storageID,
		"prefix": prefix,
		"dirs":   len(dirs),
		"files":  len(files),
	}).Debug("r2: listed directory")

	return append(append(make([]remote.Entry, 0, len(dirs)+len(files)), dirs...), files...), nil
}

// FileMetadata returns the size of the object at path.
func (c *Client) FileMetadata(ctx context.Context, storageID, path string) (remote.FileMetadata, error) {
	out, err := c.s3Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(storageID),
		Key:    aws.String(path),
	})
	if err != nil {
		return remote.FileMetadata{}, fmt.Errorf("failed to head %s/%s: %w", storageID, path, mapError(err))
	}

	size := aws.ToInt64(out.ContentLength)
	if size < 0 {
		return remote.FileMetadata{}, fmt.Errorf("invalid size %d for %s/%s", size, storageID, path)
	}
	return remote.FileMetadata{
		Name: baseName(path),
		Path: path,
		Size: size,
	}, nil
}

// DownloadURL returns the public link of the object. A custom domain is
// preferred, otherwise the path style endpoint URL is used.
func (c *Client) DownloadURL(storageID, path string) string {
	if domain := c.config.CustomDomain(storageID); domain != "" {
		return CustomDomainURL(domain, path)
	}
	return fmt.Sprintf("%s/%s/%s", c.endpoint, escapeKey(storageID), escapeKey(path))
}

// Search is not available on buckets.
func (c *Client) Search(ctx context.Context, storageID, path, query string) ([]remote.Entry, error) {
	return nil, remote.ErrSearchUnsupported
}

var _ remote.Searcher = (*Client)(nil)

func mapError(err error) error {
	if isNotFound(err) {
		return errors.Join(remote.ErrNotFound, err)
	}
	return err
}
