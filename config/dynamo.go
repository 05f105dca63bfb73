package config

import "fmt"

type DynamoConfig struct {
	TableName string
	Region    string
}

type ManifestConfig struct {
	Backend string
	Path    string
}

func (c Config) GetManifestConfig() ManifestConfig {
	return ManifestConfig{
		Backend: c.Manifest.Backend,
		Path:    c.Manifest.Path,
	}
}

func (c Config) GetDynamoConfig() (*DynamoConfig, error) {
	if c.secrets.DynamoTableName == "" {
		return nil, fmt.Errorf("DYNAMO_TABLE_NAME must be set")
	}
	if c.secrets.Region == "" {
		return nil, fmt.Errorf("REGION must be set")
	}

	return &DynamoConfig{
		TableName: c.secrets.DynamoTableName,
		Region:    c.secrets.Region,
	}, nil
}
