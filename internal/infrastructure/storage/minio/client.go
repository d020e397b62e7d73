package minio

import (
	"context"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/lifecycle"

	"github.com/MathioLucas/Molecular-expolrer/internal/infrastructure/monitoring/logging"
	"github.com/MathioLucas/Molecular-expolrer/pkg/errors"
)

// MinIOAPI is the subset of *minio.Client the artifact store uses.
type MinIOAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	SetBucketLifecycle(ctx context.Context, bucketName string, config *lifecycle.Configuration) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expiry time.Duration, reqParams url.Values) (*url.URL, error)
}

type MinIOConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Endpoint        string        `mapstructure:"endpoint"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	UseSSL          bool          `mapstructure:"use_ssl"`
	Region          string        `mapstructure:"region"`
	Bucket          string        `mapstructure:"bucket"`
	PresignExpiry   time.Duration `mapstructure:"presign_expiry"`
	RetentionDays   int           `mapstructure:"retention_days"`
}

type MinIOClient struct {
	client MinIOAPI
	config *MinIOConfig
	logger logging.Logger
}

// NewMinIOClient connects, creates the export bucket when missing and sets
// its expiry rule.
func NewMinIOClient(cfg *MinIOConfig, log logging.Logger) (*MinIOClient, error) {
	applyDefaults(cfg)

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create minio client")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := client.ListBuckets(ctx); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeServiceUnavailable, "failed to connect to minio")
	}

	mClient := NewMinIOClientFromAPI(client, cfg, log)
	if err := mClient.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	mClient.SetupLifecycleRules(ctx)

	log.Info("MinIO client connected",
		logging.String("endpoint", cfg.Endpoint),
		logging.String("bucket", cfg.Bucket),
		logging.Bool("ssl", cfg.UseSSL))
	return mClient, nil
}

// NewMinIOClientFromAPI wraps an existing client without any network calls.
func NewMinIOClientFromAPI(api MinIOAPI, cfg *MinIOConfig, log logging.Logger) *MinIOClient {
	applyDefaults(cfg)
	return &MinIOClient{client: api, config: cfg, logger: log}
}

func applyDefaults(cfg *MinIOConfig) {
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if cfg.Bucket == "" {
		cfg.Bucket = "molx-exports"
	}
	if cfg.PresignExpiry == 0 {
		cfg.PresignExpiry = time.Hour
	}
	if cfg.RetentionDays == 0 {
		cfg.RetentionDays = 30
	}
}

func (c *MinIOClient) EnsureBucket(ctx context.Context) error {
	exists, err := c.client.BucketExists(ctx, c.config.Bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeExternalService, "failed to check bucket existence")
	}
	if exists {
		return nil
	}
	if err := c.client.MakeBucket(ctx, c.config.Bucket, minio.MakeBucketOptions{Region: c.config.Region}); err != nil {
		return errors.Wrap(err, errors.ErrCodeExternalService, "failed to create bucket "+c.config.Bucket)
	}
	c.logger.Info("Created bucket", logging.String("bucket", c.config.Bucket))
	return nil
}

// SetupLifecycleRules expires exports after RetentionDays. A failure is
// logged; some S3 implementations do not support lifecycle rules.
func (c *MinIOClient) SetupLifecycleRules(ctx context.Context) {
	cfg := lifecycle.NewConfiguration()
	cfg.Rules = []lifecycle.Rule{
		{
			ID:     "exports-cleanup",
			Status: "Enabled",
			Expiration: lifecycle.Expiration{
				Days: lifecycle.ExpirationDays(c.config.RetentionDays),
			},
		},
	}
	if err := c.client.SetBucketLifecycle(ctx, c.config.Bucket, cfg); err != nil {
		c.logger.Warn("Failed to set lifecycle for exports bucket", logging.Err(err))
	}
}

func (c *MinIOClient) GetClient() MinIOAPI { return c.client }

func (c *MinIOClient) Bucket() string { return c.config.Bucket }

// HealthCheck verifies the endpoint answers and the bucket exists.
func (c *MinIOClient) HealthCheck(ctx context.Context) error {
	exists, err := c.client.BucketExists(ctx, c.config.Bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "minio unreachable")
	}
	if !exists {
		return errors.Newf(errors.ErrCodeServiceUnavailable, "bucket %s missing", c.config.Bucket)
	}
	return nil
}

func (c *MinIOClient) GeneratePresignedGetURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	if expiry == 0 {
		expiry = c.config.PresignExpiry
	}
	u, err := c.client.PresignedGetObject(ctx, c.config.Bucket, objectName, expiry, nil)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeExternalService, "failed to presign object")
	}
	return u.String(), nil
}

//Personal.AI order the ending
