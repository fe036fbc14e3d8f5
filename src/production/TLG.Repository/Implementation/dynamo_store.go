package implementation

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	apierrors "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Errors"
	logger "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Logger"
	interfaces "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Repository/Interfaces"
)

// DynamoAPI is the subset of *dynamodb.Client used by DynamoStore
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// DynamoStore implements ItemStore on DynamoDB
type DynamoStore struct {
	client DynamoAPI
	names  TableNames
	logger *logger.Logger
}

func NewDynamoStore(client DynamoAPI, names TableNames, log *logger.Logger) *DynamoStore {
	return &DynamoStore{
		client: client,
		names:  names,
		logger: log.WithComponent("dynamo_store"),
	}
}

func (s *DynamoStore) GetItem(ctx context.Context, table string, key interfaces.Key) (interfaces.Item, bool, error) {
	tableName, err := s.names.Resolve(table)
	if err != nil {
		return nil, false, err
	}
	keyItem, err := buildKey(key)
	if err != nil {
		return nil, false, apierrors.Internal(err)
	}

	s.logger.Logger.Debug().Str("table", tableName).Interface("key", key).Msg("Getting item")
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(tableName),
		Key:       keyItem,
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to get item from %s: %w", tableName, err)
	}
	if len(out.Item) == 0 {
		s.logger.Debug("DB returned no results")
		return nil, false, nil
	}
	return out.Item, true, nil
}

func (s *DynamoStore) GetAll(ctx context.Context, table, keyName string, keyValue any) ([]interfaces.Item, bool, error) {
	tableName, err := s.names.Resolve(table)
	if err != nil {
		return nil, false, err
	}
	pk, err := toAttr(keyValue)
	if err != nil {
		return nil, false, apierrors.Internal(err)
	}

	items, err := s.query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(tableName),
		KeyConditionExpression:    aws.String("#keyName = :keyValue"),
		ExpressionAttributeNames:  map[string]string{"#keyName": keyName},
		ExpressionAttributeValues: map[string]types.AttributeValue{":keyValue": pk},
	})
	if err != nil {
		return nil, false, err
	}
	return items, len(items) > 0, nil
}

func (s *DynamoStore) GetRange(ctx context.Context, table, partitionKey string, partitionValue any, sortKey string, from, to any) ([]interfaces.Item, bool, error) {
	tableName, err := s.names.Resolve(table)
	if err != nil {
		return nil, false, err
	}
	pk, err := toAttr(partitionValue)
	if err != nil {
		return nil, false, apierrors.Internal(err)
	}
	fromAttr, err := toAttr(from)
	if err != nil {
		return nil, false, apierrors.Internal(err)
	}
	toAttrValue, err := toAttr(to)
	if err != nil {
		return nil, false, apierrors.Internal(err)
	}

	items, err := s.query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(tableName),
		KeyConditionExpression: aws.String("#pk = :pk AND #sk BETWEEN :from AND :to"),
		ExpressionAttributeNames: map[string]string{
			"#pk": partitionKey,
			"#sk": sortKey,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":   pk,
			":from": fromAttr,
			":to":   toAttrValue,
		},
		ScanIndexForward: aws.Bool(true),
	})
	if err != nil {
		return nil, false, err
	}
	return items, len(items) > 0, nil
}

func (s *DynamoStore) QueryByIndex(ctx context.Context, table, indexName, indexKey string, indexValue any) ([]interfaces.Item, bool, error) {
	if indexValue == nil {
		s.logger.Error("QueryByIndex called with undefined index value")
		return nil, false, apierrors.Internal(fmt.Errorf("index value for %s.%s is undefined", table, indexName))
	}
	tableName, err := s.names.Resolve(table)
	if err != nil {
		return nil, false, err
	}
	value, err := toAttr(indexValue)
	if err != nil {
		return nil, false, apierrors.Internal(err)
	}

	items, err := s.query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(tableName),
		IndexName:                 aws.String(indexName),
		KeyConditionExpression:    aws.String("#keyName = :keyValue"),
		ExpressionAttributeNames:  map[string]string{"#keyName": indexKey},
		ExpressionAttributeValues: map[string]types.AttributeValue{":keyValue": value},
		ReturnConsumedCapacity:    types.ReturnConsumedCapacityTotal,
	})
	if err != nil {
		return nil, false, err
	}
	return items, len(items) > 0, nil
}

func (s *DynamoStore) Scan(ctx context.Context, table string, limit int32) ([]interfaces.Item, bool, error) {
	if limit <= 0 {
		return nil, false, apierrors.Internal(fmt.Errorf("scan limit must be positive, got %d", limit))
	}
	tableName, err := s.names.Resolve(table)
	if err != nil {
		return nil, false, err
	}

	out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:              aws.String(tableName),
		Limit:                  aws.Int32(limit),
		ReturnConsumedCapacity: types.ReturnConsumedCapacityTotal,
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to scan %s: %w", tableName, err)
	}
	s.logCapacity(tableName, out.ConsumedCapacity)

	s.logger.Logger.Debug().Str("table", tableName).Int("count", len(out.Items)).Msg("Scan complete")
	return out.Items, len(out.Items) > 0, nil
}

func (s *DynamoStore) PutItem(ctx context.Context, table string, item interfaces.Item) error {
	tableName, err := s.names.Resolve(table)
	if err != nil {
		return err
	}
	clean := omitNulls(item)
	if len(clean) == 0 {
		return apierrors.Internal(fmt.Errorf("refusing to put empty item into %s", tableName))
	}

	out, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:              aws.String(tableName),
		Item:                   clean,
		ReturnConsumedCapacity: types.ReturnConsumedCapacityTotal,
	})
	if err != nil {
		return fmt.Errorf("failed to store item in %s: %w", tableName, err)
	}
	s.logCapacity(tableName, out.ConsumedCapacity)
	s.logger.Logger.Info().Str("table", tableName).Msg("Put an item")
	return nil
}

func (s *DynamoStore) DeleteItem(ctx context.Context, table string, key interfaces.Key) error {
	tableName, err := s.names.Resolve(table)
	if err != nil {
		return err
	}
	keyItem, err := buildKey(key)
	if err != nil {
		return apierrors.Internal(err)
	}

	s.logger.Logger.Debug().Str("table", tableName).Interface("key", key).Msg("Deleting item")
	if _, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(tableName),
		Key:       keyItem,
	}); err != nil {
		return fmt.Errorf("failed to delete item from %s: %w", tableName, err)
	}
	return nil
}

func (s *DynamoStore) Ping(ctx context.Context, table string) error {
	tableName, err := s.names.Resolve(table)
	if err != nil {
		return err
	}
	if _, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(tableName)}); err != nil {
		return fmt.Errorf("failed to describe %s: %w", tableName, err)
	}
	return nil
}

// query follows every result page so a range is never cut at the 1 MB page boundary
func (s *DynamoStore) query(ctx context.Context, input *dynamodb.QueryInput) ([]interfaces.Item, error) {
	tableName := aws.ToString(input.TableName)
	s.logger.Logger.Debug().
		Str("table", tableName).
		Str("condition", aws.ToString(input.KeyConditionExpression)).
		Msg("Querying items")

	var items []interfaces.Item
	paginator := dynamodb.NewQueryPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to query %s: %w", tableName, err)
		}
		s.logCapacity(tableName, page.ConsumedCapacity)
		items = append(items, page.Items...)
	}

	s.logger.Logger.Debug().Str("table", tableName).Int("count", len(items)).Msg("Query complete")
	return items, nil
}

func (s *DynamoStore) logCapacity(tableName string, capacity *types.ConsumedCapacity) {
	if capacity == nil || capacity.CapacityUnits == nil {
		return
	}
	s.logger.Logger.Debug().
		Str("table", tableName).
		Float64("capacity_units", *capacity.CapacityUnits).
		Msg("Consumed capacity")
}
