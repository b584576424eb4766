package blob

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/szigetelo/backoffice/internal/config"
	"github.com/szigetelo/backoffice/internal/pkg/utils/mime"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"
)

type S3Deps struct {
	Client    *s3.Client
	Uploader  *manager.Uploader
	Presigner *s3.PresignClient
	Bucket    string
}

type UploadedMeta struct {
	Bucket string
	Key    string
	ETag   string
	SHA256 string
	MIME   string
	SizeB  int64
}

func NewS3(ctx context.Context, cfg *config.Config) (*S3Deps, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3.Region),
	}
	if cfg.S3.AccessKey != "" && cfg.S3.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3.AccessKey, cfg.S3.SecretKey, ""),
		))
	}

	acfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	otelaws.AppendMiddlewares(&acfg.APIOptions)

	client := s3.NewFromConfig(acfg, func(o *s3.Options) {
		if cfg.S3.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3.Endpoint)
		}
		o.UsePathStyle = cfg.S3.UsePathStyle
	})

	return &S3Deps{
		Client:    client,
		Uploader:  manager.NewUploader(client),
		Presigner: s3.NewPresignClient(client),
		Bucket:    cfg.S3.Bucket,
	}, nil
}

// UploadBytes stores body under prefix/<yyyy>/<mm>/<uuid><ext>. contentType is detected when empty.
func (u *S3Deps) UploadBytes(ctx context.Context, prefix, filename string, body []byte, contentType string) (*UploadedMeta, error) {
	if contentType == "" {
		contentType = mime.DetectMimeType(body, filename)
	}

	sum := sha256.Sum256(body)
	now := time.Now().UTC()
	key := fmt.Sprintf("%s/%04d/%02d/%s%s", prefix, now.Year(), now.Month(), uuid.NewString(), path.Ext(filename))

	out, err := u.Uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
		Metadata: map[string]string{
			"sha256":   hex.EncodeToString(sum[:]),
			"filename": filename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("put object %s: %w", key, err)
	}

	etag := ""
	if out.ETag != nil {
		etag = *out.ETag
	}

	return &UploadedMeta{
		Bucket: u.Bucket,
		Key:    key,
		ETag:   etag,
		SHA256: hex.EncodeToString(sum[:]),
		MIME:   contentType,
		SizeB:  int64(len(body)),
	}, nil
}

func (u *S3Deps) UploadFormFile(ctx context.Context, prefix string, fh *multipart.FileHeader) (*UploadedMeta, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open form file: %w", err)
	}
	defer f.Close()

	body, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read form file: %w", err)
	}
	return u.UploadBytes(ctx, prefix, fh.Filename, body, "")
}

func (u *S3Deps) PresignGet(ctx context.Context, key string, expire time.Duration) (string, error) {
	req, err := u.Presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(u.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expire))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}
