package adapters

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/brettsmiles-bit/ai-video-maker/application/ports/outbound"
	"github.com/brettsmiles-bit/ai-video-maker/config"
	"github.com/brettsmiles-bit/ai-video-maker/domain"
)

type dynamoAssetItem struct {
	AssetKey    string             `dynamodbav:"asset_key"`
	SceneNumber int                `dynamodbav:"scene_number"`
	Kind        domain.AssetKind   `dynamodbav:"kind"`
	Path        string             `dynamodbav:"path"`
	Status      domain.AssetStatus `dynamodbav:"status"`
	Size        int64              `dynamodbav:"size"`
	Checksum    string             `dynamodbav:"sha256,omitempty"`
	Error       string             `dynamodbav:"error,omitempty"`
	UpdatedAt   int64              `dynamodbav:"updated_at"`
}

type dynamoItemStore interface {
	GetItemWithContext(ctx aws.Context, input *dynamodb.GetItemInput, opts ...request.Option) (*dynamodb.GetItemOutput, error)
	PutItemWithContext(ctx aws.Context, input *dynamodb.PutItemInput, opts ...request.Option) (*dynamodb.PutItemOutput, error)
}

// dynamoAssetManifest stores one item per asset, keyed by namespace and
// asset key so several workspaces can share a table.
type dynamoAssetManifest struct {
	logger       outbound.LoggerPort
	dynamoSvc    dynamoItemStore
	dynamoConfig *config.DynamoConfig
	namespace    string
}

func NewDynamoAssetManifest(logger outbound.LoggerPort, dynamoSvc dynamoItemStore, dynamoConfig *config.DynamoConfig, namespace string) outbound.AssetManifestPort {
	return &dynamoAssetManifest{
		logger:       logger,
		dynamoSvc:    dynamoSvc,
		dynamoConfig: dynamoConfig,
		namespace:    namespace,
	}
}

func (c *dynamoAssetManifest) itemKey(key domain.AssetKey) string {
	return c.namespace + "#" + key.String()
}

func (c *dynamoAssetManifest) Get(ctx context.Context, key domain.AssetKey) (*domain.AssetRecord, error) {
	output, err := c.dynamoSvc.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(c.dynamoConfig.TableName),
		Key: map[string]*dynamodb.AttributeValue{
			"asset_key": {S: aws.String(c.itemKey(key))},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to read asset item", map[string]interface{}{
			"asset_key": c.itemKey(key),
		})
		return nil, err
	}
	if len(output.Item) == 0 {
		return nil, nil
	}

	var item dynamoAssetItem
	if err := dynamodbattribute.UnmarshalMap(output.Item, &item); err != nil {
		c.logger.ErrorWithFields(err, "Failed to unmarshal asset item", map[string]interface{}{
			"asset_key": c.itemKey(key),
		})
		return nil, err
	}

	return &domain.AssetRecord{
		SceneNumber: item.SceneNumber,
		Kind:        item.Kind,
		Path:        item.Path,
		Status:      item.Status,
		Size:        item.Size,
		Checksum:    item.Checksum,
		Error:       item.Error,
		UpdatedAt:   unixMilli(item.UpdatedAt),
	}, nil
}

func (c *dynamoAssetManifest) Put(ctx context.Context, record domain.AssetRecord) error {
	item := dynamoAssetItem{
		AssetKey:    c.itemKey(record.Key()),
		SceneNumber: record.SceneNumber,
		Kind:        record.Kind,
		Path:        record.Path,
		Status:      record.Status,
		Size:        record.Size,
		Checksum:    record.Checksum,
		Error:       record.Error,
		UpdatedAt:   record.UpdatedAt.UnixMilli(),
	}
	av, err := dynamodbattribute.MarshalMap(item)
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to marshal asset item", map[string]interface{}{
			"item": item,
		})
		return err
	}

	_, err = c.dynamoSvc.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		Item:      av,
		TableName: aws.String(c.dynamoConfig.TableName),
	})
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to save asset item", map[string]interface{}{
			"item": item,
		})
		return err
	}
	return nil
}

func unixMilli(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
