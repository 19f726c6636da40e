/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/keyedstore/errors"
	"github.com/suparena/keyedstore/storagemodels"
)

const (
	// DefaultKind names the partition of types without an explicit or registered kind.
	DefaultKind = "entities"

	metaSortKey    = "META"
	itemPrefix     = "ITEM#"
	metaEntityType = "SnapshotMeta"
	batchSize      = 25
)

// API is the subset of the DynamoDB client used by Backend.
type API interface {
	GetItem(ctx context.Context, params *sdk.GetItemInput, optFns ...func(*sdk.Options)) (*sdk.GetItemOutput, error)
	PutItem(ctx context.Context, params *sdk.PutItemInput, optFns ...func(*sdk.Options)) (*sdk.PutItemOutput, error)
	Query(ctx context.Context, params *sdk.QueryInput, optFns ...func(*sdk.Options)) (*sdk.QueryOutput, error)
	BatchWriteItem(ctx context.Context, params *sdk.BatchWriteItemInput, optFns ...func(*sdk.Options)) (*sdk.BatchWriteItemOutput, error)
}

var _ API = (*sdk.Client)(nil)

// metaItem is the header row of a snapshot partition.
type metaItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	Version    int    `dynamodbav:"Version"`
	Kind       string `dynamodbav:"Kind"`
	SavedAt    string `dynamodbav:"SavedAt"`
	Count      int    `dynamodbav:"Count"`
}

// entityItem holds one entity as a JSON payload.
type entityItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	Payload    string `dynamodbav:"Payload"`
}

// Backend stores a snapshot in a single-table DynamoDB partition.
type Backend[V any] struct {
	client API
	table  string
	kind   string

	// MaxRetries bounds the attempts at writing unprocessed items.
	MaxRetries int
	// RetryBackoff is multiplied by the attempt number between retries.
	RetryBackoff time.Duration
}

// NewClient initializes a DynamoDB client. Empty keys fall back to the
// default AWS credential chain.
func NewClient(ctx context.Context, accessKey, secretKey, region string) (*sdk.Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if accessKey != "" && secretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return sdk.NewFromConfig(cfg), nil
}

// New creates a Backend writing to table through client
func New[V any](client API, table string, opts ...storagemodels.Option) *Backend[V] {
	o := storagemodels.Apply(opts...)
	kind := storagemodels.ResolveKind[V](o.Kind)
	if kind == "" {
		kind = DefaultKind
	}
	return &Backend[V]{
		client:       client,
		table:        table,
		kind:         kind,
		MaxRetries:   5,
		RetryBackoff: 100 * time.Millisecond,
	}
}

// Source returns the table and partition key
func (b *Backend[V]) Source() string {
	return fmt.Sprintf("dynamodb://%s/%s", b.table, b.partitionKey())
}

func (b *Backend[V]) partitionKey() string {
	return "SNAPSHOT#" + b.kind
}

func sortKey(seq int) string {
	return fmt.Sprintf("%s%010d", itemPrefix, seq)
}

// SaveAll writes every entity, then the header, then deletes items left over
// from a longer previous snapshot.
func (b *Backend[V]) SaveAll(ctx context.Context, entities []V) error {
	pk := b.partitionKey()

	existing, err := b.querySortKeys(ctx)
	if err != nil {
		return err
	}

	puts := make([]types.WriteRequest, 0, len(entities))
	for i, entity := range entities {
		payload, err := json.Marshal(entity)
		if err != nil {
			return errors.NewIOFailureError("encode", b.Source(), err)
		}
		av, err := attributevalue.MarshalMap(entityItem{
			PK:         pk,
			SK:         sortKey(i),
			EntityType: b.kind,
			Payload:    string(payload),
		})
		if err != nil {
			return errors.NewIOFailureError("encode", b.Source(), err)
		}
		puts = append(puts, types.WriteRequest{PutRequest: &types.PutRequest{Item: av}})
	}
	if err := b.batchWrite(ctx, puts); err != nil {
		return err
	}

	meta, err := attributevalue.MarshalMap(metaItem{
		PK:         pk,
		SK:         metaSortKey,
		EntityType: metaEntityType,
		Version:    storagemodels.SnapshotVersion,
		Kind:       b.kind,
		SavedAt:    time.Now().UTC().Format(time.RFC3339Nano),
		Count:      len(entities),
	})
	if err != nil {
		return errors.NewIOFailureError("encode", b.Source(), err)
	}
	if _, err := b.client.PutItem(ctx, &sdk.PutItemInput{TableName: &b.table, Item: meta}); err != nil {
		return errors.NewIOFailureError("put header", b.Source(), err)
	}

	var deletes []types.WriteRequest
	for _, sk := range existing {
		seq, err := strconv.Atoi(strings.TrimPrefix(sk, itemPrefix))
		if err == nil && seq < len(entities) {
			continue
		}
		deletes = append(deletes, types.WriteRequest{DeleteRequest: &types.DeleteRequest{
			Key: map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: pk},
				"SK": &types.AttributeValueMemberS{Value: sk},
			},
		}})
	}
	return b.batchWrite(ctx, deletes)
}

// LoadAll reads the header and then every entity item in sort key order.
func (b *Backend[V]) LoadAll(ctx context.Context) ([]V, bool, error) {
	out, err := b.client.GetItem(ctx, &sdk.GetItemInput{
		TableName: &b.table,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: b.partitionKey()},
			"SK": &types.AttributeValueMemberS{Value: metaSortKey},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, false, errors.NewIOFailureError("get header", b.Source(), err)
	}
	if out.Item == nil {
		return nil, false, nil
	}

	var meta metaItem
	if err := attributevalue.UnmarshalMap(out.Item, &meta); err != nil {
		return nil, false, errors.NewCorruptDataError(b.Source(), fmt.Errorf("header: %w", err))
	}
	if err := storagemodels.CheckHeader(meta.Version, meta.Kind, b.kind); err != nil {
		return nil, false, errors.NewCorruptDataError(b.Source(), err)
	}

	items, err := b.queryItems(ctx)
	if err != nil {
		return nil, false, err
	}
	if len(items) != meta.Count {
		return nil, false, errors.NewCorruptDataError(b.Source(), fmt.Errorf("header counts %d entities, found %d", meta.Count, len(items)))
	}

	entities := make([]V, 0, len(items))
	for _, raw := range items {
		var item entityItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			return nil, false, errors.NewCorruptDataError(b.Source(), err)
		}
		var entity V
		if err := json.Unmarshal([]byte(item.Payload), &entity); err != nil {
			return nil, false, errors.NewCorruptDataError(b.Source(), fmt.Errorf("%s: %w", item.SK, err))
		}
		entities = append(entities, entity)
	}
	return entities, true, nil
}

func (b *Backend[V]) queryItems(ctx context.Context) ([]map[string]types.AttributeValue, error) {
	keyCond := "PK = :pk AND begins_with(SK, :prefix)"
	input := &sdk.QueryInput{
		TableName:              &b.table,
		KeyConditionExpression: &keyCond,
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":     &types.AttributeValueMemberS{Value: b.partitionKey()},
			":prefix": &types.AttributeValueMemberS{Value: itemPrefix},
		},
		ConsistentRead:   aws.Bool(true),
		ScanIndexForward: aws.Bool(true),
	}

	var items []map[string]types.AttributeValue
	for {
		out, err := b.client.Query(ctx, input)
		if err != nil {
			return nil, errors.NewIOFailureError("query", b.Source(), err)
		}
		items = append(items, out.Items...)
		if len(out.LastEvaluatedKey) == 0 {
			return items, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

func (b *Backend[V]) querySortKeys(ctx context.Context) ([]string, error) {
	items, err := b.queryItems(ctx)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(items))
	for _, item := range items {
		if sk, ok := item["SK"].(*types.AttributeValueMemberS); ok {
			keys = append(keys, sk.Value)
		}
	}
	return keys, nil
}

// batchWrite sends requests in chunks of 25 and resubmits unprocessed items
// until they are accepted or retries run out.
func (b *Backend[V]) batchWrite(ctx context.Context, requests []types.WriteRequest) error {
	for start := 0; start < len(requests); start += batchSize {
		end := min(start+batchSize, len(requests))
		pending := requests[start:end]

		for attempt := 0; len(pending) > 0; attempt++ {
			if attempt > b.MaxRetries {
				return errors.NewIOFailureError("batch write", b.Source(),
					fmt.Errorf("%d items unprocessed after %d retries", len(pending), b.MaxRetries))
			}
			if attempt > 0 {
				select {
				case <-ctx.Done():
					return errors.NewIOFailureError("batch write", b.Source(), ctx.Err())
				case <-time.After(time.Duration(attempt) * b.RetryBackoff):
				}
			}

			out, err := b.client.BatchWriteItem(ctx, &sdk.BatchWriteItemInput{
				RequestItems: map[string][]types.WriteRequest{b.table: pending},
			})
			if err != nil {
				if isRetryableError(err) {
					continue
				}
				return errors.NewIOFailureError("batch write", b.Source(), err)
			}
			pending = out.UnprocessedItems[b.table]
		}
	}
	return nil
}

// isRetryableError determines if a DynamoDB error is retryable
func isRetryableError(err error) bool {
	var (
		throughput *types.ProvisionedThroughputExceededException
		limit      *types.RequestLimitExceeded
		internal   *types.InternalServerError
	)
	if errors.As(err, &throughput) || errors.As(err, &limit) || errors.As(err, &internal) {
		return true
	}

	var retryable interface{ IsRetryable() bool }
	if errors.As(err, &retryable) {
		return retryable.IsRetryable()
	}
	return false
}
