package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/goccy/go-json"

	"minicloud/config"
)

// S3Backend stores files as objects at the root of a single bucket.
type S3Backend struct {
	s3Client *s3.Client
	uploader *manager.Uploader
	bucket   string
}

// objectRecord is the listing record rendered for each object.
type objectRecord struct {
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	LastModified string `json:"last_modified,omitempty"`
}

func NewS3(ctx context.Context, cfg config.S3Config) (*S3Backend, error) {
	if cfg.BucketName == "" {
		return nil, config.ErrNoBucket
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" || cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.StaticCredentialsProvider{
			Value: aws.Credentials{
				AccessKeyID:     cfg.AccessKey,
				SecretAccessKey: cfg.SecretKey,
			},
		}))
	}

	awsConfig, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Client *s3.Client
	if cfg.ApiURL != "" {
		s3Client = s3.NewFromConfig(awsConfig, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.ApiURL)
			o.UsePathStyle = true
		})
	} else {
		s3Client = s3.NewFromConfig(awsConfig)
	}

	return &S3Backend{
		s3Client: s3Client,
		uploader: manager.NewUploader(s3Client),
		bucket:   cfg.BucketName,
	}, nil
}

func (b *S3Backend) Upload(ctx context.Context, filename string, r io.Reader) error {
	if filename == "" {
		return ErrNoFilename
	}
	if r == nil {
		return ErrNilSource
	}

	_, err := b.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(filename),
		Body:        r,
		ContentType: aws.String(detectContentType(filename)),
	})
	if err != nil {
		return fmt.Errorf("storage: upload %q to S3: %w", filename, err)
	}
	return nil
}

// List renders the bucket's objects as a JSON list of records.
func (b *S3Backend) List(ctx context.Context) ([]byte, error) {
	records := make([]objectRecord, 0)

	paginator := s3.NewListObjectsV2Paginator(b.s3Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(b.bucket),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("storage: list objects: %w", err)
		}
		records = append(records, objectRecords(page.Contents)...)
	}

	return renderListing(records)
}

func (b *S3Backend) Download(ctx context.Context, filename string) (io.ReadCloser, error) {
	if filename == "" {
		return nil, ErrNoFilename
	}

	out, err := b.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(filename),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, fmt.Errorf("storage: download %q: %w", filename, ErrNotFound)
		}
		return nil, fmt.Errorf("storage: download %q from S3: %w", filename, err)
	}
	return out.Body, nil
}

// Delete checks the object exists first; S3 itself reports success for
// missing keys.
func (b *S3Backend) Delete(ctx context.Context, filename string) error {
	if filename == "" {
		return ErrNoFilename
	}

	_, err := b.s3Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(filename),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return fmt.Errorf("storage: delete %q: %w", filename, ErrNotFound)
		}
		return fmt.Errorf("storage: delete %q: head object: %w", filename, err)
	}

	_, err = b.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(filename),
	})
	if err != nil {
		return fmt.Errorf("storage: delete %q from S3: %w", filename, err)
	}
	return nil
}

func objectRecords(objects []types.Object) []objectRecord {
	records := make([]objectRecord, 0, len(objects))
	for _, obj := range objects {
		if obj.Key == nil || strings.HasSuffix(*obj.Key, "/") {
			continue
		}
		rec := objectRecord{Name: *obj.Key, Size: aws.ToInt64(obj.Size)}
		if obj.LastModified != nil {
			rec.LastModified = obj.LastModified.UTC().Format(time.RFC3339)
		}
		records = append(records, rec)
	}
	return records
}

func renderListing(records []objectRecord) ([]byte, error) {
	payload, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("storage: render listing: %w", err)
	}
	return payload, nil
}

func detectContentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))

	contentTypes := map[string]string{
		".txt":  "text/plain",
		".md":   "text/markdown",
		".html": "text/html",
		".csv":  "text/csv",
		".json": "application/json",
		".xml":  "application/xml",
		".pdf":  "application/pdf",
		".doc":  "application/msword",
		".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		".zip":  "application/zip",
		".gz":   "application/gzip",
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
		".png":  "image/png",
		".gif":  "image/gif",
		".svg":  "image/svg+xml",
		".mp3":  "audio/mpeg",
		".mp4":  "video/mp4",
	}

	if contentType, exists := contentTypes[ext]; exists {
		return contentType
	}

	return "application/octet-stream"
}
