package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gosimple/slug"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// ErrUnsupportedType is returned for content types other than jpeg, png and webp.
var ErrUnsupportedType = errors.New("unsupported content type")

const idAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

var extensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

type Config struct {
	Enabled       bool   `envconfig:"ENABLED" default:"false"`
	Endpoint      string `envconfig:"ENDPOINT"`
	Region        string `envconfig:"REGION" default:"us-east-1"`
	Bucket        string `envconfig:"BUCKET" default:"futspot"`
	AccessKey     string `envconfig:"ACCESS_KEY"`
	SecretKey     string `envconfig:"SECRET_KEY"`
	PublicBaseURL string `envconfig:"PUBLIC_BASE_URL"`
}

// S3Store загружает фото в S3-совместимое хранилище
type S3Store struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

func NewS3Store(cfg Config) *S3Store {
	awsCfg := aws.Config{
		Region:      cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	baseURL := strings.TrimRight(cfg.PublicBaseURL, "/")
	if baseURL == "" {
		if cfg.Endpoint != "" {
			baseURL = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
		} else {
			baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}

	return &S3Store{client: client, bucket: cfg.Bucket, baseURL: baseURL}
}

// Upload stores data under key and returns its public URL.
func (s *S3Store) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	slog.Debug("Uploaded object", "bucket", s.bucket, "key", key, "size", len(data))
	return s.baseURL + "/" + key, nil
}

// Extension maps an accepted image content type to its file extension.
func Extension(contentType string) (string, error) {
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	ext, ok := extensions[ct]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	return ext, nil
}

// VenuePhotoKey builds locais/{id}/{slug}-{nanoid}.{ext}.
func VenuePhotoKey(venueID int64, venueName, contentType string) (string, error) {
	ext, err := Extension(contentType)
	if err != nil {
		return "", err
	}
	id, err := gonanoid.Generate(idAlphabet, 10)
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	name := slug.Make(venueName)
	if name == "" {
		name = "local"
	}
	return fmt.Sprintf("locais/%d/%s-%s.%s", venueID, name, id, ext), nil
}

// ProfilePhotoKey builds perfil/{userId}/{nanoid}.{ext}.
func ProfilePhotoKey(userID int64, contentType string) (string, error) {
	ext, err := Extension(contentType)
	if err != nil {
		return "", err
	}
	id, err := gonanoid.Generate(idAlphabet, 10)
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	return fmt.Sprintf("perfil/%d/%s.%s", userID, id, ext), nil
}
