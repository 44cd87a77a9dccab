// AngelaMos | 2026
// uploader.go

package media

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/carterperez-dev/templates/event-backend/internal/config"
	"github.com/carterperez-dev/templates/event-backend/internal/core"
)

// Uploader stores an image and returns its durable public URL.
type Uploader interface {
	Upload(ctx context.Context, body []byte, contentType, suggestedName string) (string, error)
}

const (
	objectPrefix  = "event_"
	maxSlugLength = 64
	fallbackSlug  = "image"
)

// S3Uploader writes objects to an S3-compatible bucket. Failures are
// reported once; the client does not retry.
type S3Uploader struct {
	client        *s3.Client
	bucket        string
	folder        string
	publicBaseURL string
	newID         func() string
}

var _ Uploader = (*S3Uploader)(nil)

func NewS3Uploader(ctx context.Context, cfg config.MediaConfig) (*S3Uploader, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("media bucket is required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithRetryMaxAttempts(1),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	})

	base := cfg.PublicBaseURL
	if base == "" {
		base = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}

	return &S3Uploader{
		client:        client,
		bucket:        cfg.Bucket,
		folder:        strings.Trim(cfg.Folder, "/"),
		publicBaseURL: strings.TrimRight(base, "/"),
		newID:         func() string { return uuid.New().String() },
	}, nil
}

func (u *S3Uploader) Upload(
	ctx context.Context,
	body []byte,
	contentType, suggestedName string,
) (string, error) {
	key := u.objectKey(suggestedName, contentType)

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(contentType),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w: %w", key, core.ErrUpstream, err)
	}

	return u.publicBaseURL + "/" + key, nil
}

// objectKey builds <folder>/event_<id>_<slug><ext>. The extension follows
// the sniffed content type when it is known.
func (u *S3Uploader) objectKey(suggestedName, contentType string) string {
	base := filepath.Base(strings.ReplaceAll(suggestedName, `\`, "/"))
	ext := strings.ToLower(filepath.Ext(base))

	if mt := mimetype.Lookup(contentType); mt != nil && mt.Extension() != "" {
		ext = mt.Extension()
	}

	name := slug.Make(strings.TrimSuffix(base, filepath.Ext(base)))
	if len(name) > maxSlugLength {
		name = strings.Trim(name[:maxSlugLength], "-")
	}
	if name == "" || name == "." {
		name = fallbackSlug
	}

	return path.Join(u.folder, objectPrefix+u.newID()+"_"+name+ext)
}

// Ping checks that the bucket is reachable with the configured credentials.
func (u *S3Uploader) Ping(ctx context.Context) error {
	_, err := u.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(u.bucket),
	})
	if err != nil {
		return fmt.Errorf("head bucket %s: %w", u.bucket, err)
	}
	return nil
}
