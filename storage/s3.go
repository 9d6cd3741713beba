package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	config "github.com/hyeonjun-dev/fitcenter/configs"
)

var Client *s3.Client

func InitS3() {
	staticProvider := credentials.NewStaticCredentialsProvider(
		config.Config("AWS_ACCESS_KEY_ID"),
		config.Config("AWS_SECRET_ACCESS_KEY"),
		"",
	)

	cfg, err := awsconfig.LoadDefaultConfig(
		context.TODO(),
		awsconfig.WithRegion(config.Config("AWS_REGION")),
		awsconfig.WithCredentialsProvider(staticProvider),
	)
	if err != nil {
		log.Fatalf("🔥 Failed to load AWS configuration: %v", err)
	}

	Client = s3.NewFromConfig(cfg)
	log.Println("✅ S3 client initialized successfully")
}

// UploadFile streams a multipart upload into the configured bucket under
// directory/fileName and returns the public object URL.
func UploadFile(ctx context.Context, directory, fileName string, file multipart.File, header *multipart.FileHeader) (string, error) {
	buf := bytes.NewBuffer(nil)
	if _, err := buf.ReadFrom(file); err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	return UploadBytes(ctx, directory, fileName, header.Header.Get("Content-Type"), buf.Bytes())
}

func UploadBytes(ctx context.Context, directory, fileName, contentType string, data []byte) (string, error) {
	bucket := config.Config("AWS_S3_BUCKET")
	objectKey := path.Join(directory, fileName)

	_, err := Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(objectKey),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, config.Config("AWS_REGION"), objectKey), nil
}
