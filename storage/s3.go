package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/StephanBK/sloth/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// NewS3Client erstellt einen S3-Client für das Staging-Archiv (Strato HiDrive
// oder jeder S3-kompatible Endpoint).
func NewS3Client(cfg *config.Config) (*s3.Client, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(
		func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{
				URL:               cfg.StagingS3URL,
				SigningRegion:     cfg.StagingS3Region,
				HostnameImmutable: true,
			}, nil
		},
	)
	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.StagingS3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.StagingS3Key, cfg.StagingS3Secret, "")),
		awsconfig.WithEndpointResolverWithOptions(resolver),
	)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(awsCfg), nil
}

// UploadFile lädt Daten ins S3 hoch und gibt den Link zurück.
func UploadFile(client *s3.Client, bucket, key string, data []byte, cfg *config.Config) (string, error) {
	_, err := client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return "", err
	}
	link := fmt.Sprintf("%s/%s/%s", cfg.StagingS3URL, bucket, key)
	return link, nil
}

// ArchiveStagingFile lädt die Staging-Datei datiert ins Archiv-Bucket hoch.
// Kein Stream-Upload: Staging-Dateien sind nach dem Filterlauf klein genug.
func ArchiveStagingFile(cfg *config.Config, path string) (string, error) {
	client, err := NewS3Client(cfg)
	if err != nil {
		return "", fmt.Errorf("create s3 client: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read staging file: %w", err)
	}
	key := fmt.Sprintf("staging/%s-%s", time.Now().UTC().Format("2006-01-02"), filepath.Base(path))
	return UploadFile(client, cfg.StagingS3Bucket, key, data, cfg)
}
