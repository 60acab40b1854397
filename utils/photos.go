// utils/photos.go
package utils

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

var photoClient *s3.Client
var photoBucket string
var photoBaseURL string

// PhotoStoreConfig points at the R2 bucket holding player photos.
type PhotoStoreConfig struct {
	AccountID       string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
	PublicBaseURL   string
}

func InitPhotoStore(cfg PhotoStoreConfig) error {
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)
	photoBucket = cfg.Bucket
	photoBaseURL = cfg.PublicBaseURL
	if photoBaseURL == "" {
		photoBaseURL = endpoint
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.AccessKeySecret, "",
		)),
		awsconfig.WithEndpointResolver(aws.EndpointResolverFunc(
			func(service, region string) (aws.Endpoint, error) {
				return aws.Endpoint{URL: endpoint}, nil
			}),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to load photo store config: %w", err)
	}

	photoClient = s3.NewFromConfig(awsCfg)
	return nil
}

// PhotoStoreReady reports whether InitPhotoStore has been called, so
// deployments without R2 credentials can skip photo uploads.
func PhotoStoreReady() bool { return photoClient != nil }

// UploadPlayerPhoto stores the uploaded image under the player's id and
// returns the public URL to persist on the roster entry.
func UploadPlayerPhoto(fileHeader *multipart.FileHeader, playerID string) (string, error) {
	if photoClient == nil {
		return "", fmt.Errorf("photo store is not configured")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open photo: %w", err)
	}
	defer file.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, file); err != nil {
		return "", fmt.Errorf("failed to read photo: %w", err)
	}

	ext := filepath.Ext(fileHeader.Filename)
	if ext == "" {
		ext = ".jpg"
	}
	key := fmt.Sprintf("players/%s/%s%s", playerID, uuid.NewString(), ext)

	_, err = photoClient.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(photoBucket),
		Key:         aws.String(key),
		Body:        buf,
		ContentType: aws.String(fileHeader.Header.Get("Content-Type")),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload photo: %w", err)
	}

	return fmt.Sprintf("%s/%s", photoBaseURL, key), nil
}
