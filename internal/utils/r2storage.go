package utils

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// R2Storage stores uploads on Cloudflare R2 through the S3 API.
type R2Storage struct {
	client        *s3.Client
	bucketName    string
	publicBaseURL string
}

// NewR2Storage creates an R2Storage client.
// endpoint should be "https://<account-id>.r2.cloudflarestorage.com";
// publicBaseURL is the https origin the bucket is published under.
func NewR2Storage(accessKeyID, secretAccessKey, endpoint, bucketName, publicBaseURL string) *R2Storage {
	cfg := aws.Config{
		Region: "auto",
		Credentials: credentials.NewStaticCredentialsProvider(
			accessKeyID,
			secretAccessKey,
			"", // no session token for R2
		),
		BaseEndpoint: aws.String(endpoint),
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		// R2 requires path-style addressing
		o.UsePathStyle = true
	})

	return &R2Storage{
		client:        client,
		bucketName:    bucketName,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// SaveFile uploads reader to <subDir>/<uniqueFilename> and returns the object key.
func (rs *R2Storage) SaveFile(ctx context.Context, subDir, originalFilename, contentType string, reader io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	objectKey := subDir + "/" + fmt.Sprintf("%d%s", time.Now().UnixNano(), ext)

	in := &s3.PutObjectInput{
		Bucket: aws.String(rs.bucketName),
		Key:    aws.String(objectKey),
		Body:   reader,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	if _, err := rs.client.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("failed to upload to R2: %w", err)
	}
	return objectKey, nil
}

func (rs *R2Storage) URL(key string) string {
	return rs.publicBaseURL + "/" + key
}
