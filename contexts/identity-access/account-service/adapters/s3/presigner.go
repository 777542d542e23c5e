package s3adapter

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	application "funded/contexts/identity-access/account-service/application"
	"funded/contexts/identity-access/account-service/ports"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	defaultRegion = "us-east-1"
	defaultTTL    = 15 * time.Minute
)

type Config struct {
	Bucket string
	Region string
	// Endpoint targets an S3-compatible store such as MinIO. Path-style
	// addressing is used whenever it is set.
	Endpoint string
	TTL      time.Duration
}

// Presigner issues time-limited PUT URLs so clients upload verification
// documents straight to the bucket.
type Presigner struct {
	bucket   string
	region   string
	endpoint string
	ttl      time.Duration
	presign  *s3.PresignClient
	logger   *slog.Logger
	now      func() time.Time
}

// NewPresigner loads AWS credentials from the default chain.
func NewPresigner(ctx context.Context, cfg Config, logger *slog.Logger) (*Presigner, error) {
	if strings.TrimSpace(cfg.Region) == "" {
		cfg.Region = defaultRegion
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewPresignerFromConfig(awsCfg, cfg, logger)
}

func NewPresignerFromConfig(awsCfg aws.Config, cfg Config, logger *slog.Logger) (*Presigner, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	if strings.TrimSpace(cfg.Region) == "" {
		cfg.Region = defaultRegion
	}
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTTL
	}
	endpoint := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.Region = cfg.Region
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return &Presigner{
		bucket:   cfg.Bucket,
		region:   cfg.Region,
		endpoint: endpoint,
		ttl:      cfg.TTL,
		presign:  s3.NewPresignClient(client, s3.WithPresignExpires(cfg.TTL)),
		logger:   application.ResolveLogger(logger),
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

func (p *Presigner) PresignUpload(ctx context.Context, objectKey string, contentType string) (ports.PresignedUpload, error) {
	req, err := p.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(objectKey),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return ports.PresignedUpload{}, fmt.Errorf("presign put object: %w", err)
	}

	headers := make(map[string]string, len(req.SignedHeader))
	for name, values := range req.SignedHeader {
		if strings.EqualFold(name, "host") || len(values) == 0 {
			continue
		}
		headers[name] = values[0]
	}
	p.logger.Debug("document upload presigned",
		"event", "s3_presign_put",
		"module", "identity-access/account-service",
		"layer", "adapter",
		"bucket", p.bucket,
		"object_key", objectKey,
	)
	return ports.PresignedUpload{
		ObjectKey: objectKey,
		UploadURL: req.URL,
		Method:    req.Method,
		Headers:   headers,
		ObjectURL: p.objectURL(objectKey),
		ExpiresAt: p.now().Add(p.ttl),
	}, nil
}

func (p *Presigner) objectURL(objectKey string) string {
	escaped := (&url.URL{Path: objectKey}).EscapedPath()
	if p.endpoint != "" {
		return p.endpoint + "/" + p.bucket + "/" + escaped
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", p.bucket, p.region, escaped)
}
