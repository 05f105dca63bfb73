package config

import "fmt"

type S3Config struct {
	BucketName string
	Region     string
}

func (c Config) GetS3Config() (*S3Config, error) {
	if c.secrets.BucketName == "" {
		return nil, fmt.Errorf("BUCKET_NAME must be set")
	}
	if c.secrets.Region == "" {
		return nil, fmt.Errorf("REGION must be set")
	}

	return &S3Config{
		BucketName: c.secrets.BucketName,
		Region:     c.secrets.Region,
	}, nil
}
