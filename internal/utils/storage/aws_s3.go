package storage

import (
	"Snack-Tracker/internal/utils"
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var AllowImage = []string{"image/jpeg", "image/jpg", "image/png", "image/webp", "image/gif"}

var ErrContentTypeNotAllowed = errors.New("content type not allowed")

type (
	AwsS3 interface {
		UploadBytes(ctx context.Context, objectKey string, data []byte, contentType string, allowed ...string) (string, error)
		GetPublicLinkKey(objectKey string) string
	}

	awsS3 struct {
		client    *s3.Client
		bucket    string
		region    string
		publicURL string
	}
)

func NewAwsS3() (AwsS3, error) {
	region := utils.GetConfig("AWS_S3_REGION")
	bucket := utils.GetConfig("AWS_S3_BUCKET")
	if bucket == "" {
		return nil, errors.New("AWS_S3_BUCKET not configured")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if key, secret := utils.GetConfig("AWS_ACCESS_KEY"), utils.GetConfig("AWS_SECRET_KEY"); key != "" && secret != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(key, secret, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(), opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &awsS3{
		client:    s3.NewFromConfig(cfg),
		bucket:    bucket,
		region:    region,
		publicURL: strings.TrimRight(utils.GetConfig("AWS_S3_PUBLIC_URL"), "/"),
	}, nil
}

func (a *awsS3) UploadBytes(ctx context.Context, objectKey string, data []byte, contentType string, allowed ...string) (string, error) {
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	if len(allowed) > 0 && !contains(allowed, contentType) {
		return "", fmt.Errorf("%w: %s", ErrContentTypeNotAllowed, contentType)
	}

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}
	return objectKey, nil
}

func (a *awsS3) GetPublicLinkKey(objectKey string) string {
	if a.publicURL != "" {
		return a.publicURL + "/" + objectKey
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", a.bucket, a.region, objectKey)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
