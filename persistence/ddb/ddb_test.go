/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/keyedstore/errors"
	"github.com/suparena/keyedstore/storagemodels"
)

// fakeTable is an in-memory stand-in for a PK/SK table.
type fakeTable struct {
	mu    sync.Mutex
	items map[string]map[string]map[string]types.AttributeValue

	pageSize       int   // items per Query page
	throttleWrites int   // BatchWriteItem calls that fail with throttling
	holdBack       int   // requests returned as unprocessed on the next write
	queryErr       error // returned by every Query
	batchCalls     int
}

func newFakeTable() *fakeTable {
	return &fakeTable{items: make(map[string]map[string]map[string]types.AttributeValue), pageSize: 4}
}

func str(av types.AttributeValue) string {
	if s, ok := av.(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func (f *fakeTable) put(item map[string]types.AttributeValue) {
	pk, sk := str(item["PK"]), str(item["SK"])
	if f.items[pk] == nil {
		f.items[pk] = make(map[string]map[string]types.AttributeValue)
	}
	f.items[pk][sk] = item
}

func (f *fakeTable) GetItem(_ context.Context, in *sdk.GetItemInput, _ ...func(*sdk.Options)) (*sdk.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &sdk.GetItemOutput{Item: f.items[str(in.Key["PK"])][str(in.Key["SK"])]}, nil
}

func (f *fakeTable) PutItem(_ context.Context, in *sdk.PutItemInput, _ ...func(*sdk.Options)) (*sdk.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.put(in.Item)
	return &sdk.PutItemOutput{}, nil
}

func (f *fakeTable) Query(_ context.Context, in *sdk.QueryInput, _ ...func(*sdk.Options)) (*sdk.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.queryErr != nil {
		return nil, f.queryErr
	}

	pk := str(in.ExpressionAttributeValues[":pk"])
	prefix := str(in.ExpressionAttributeValues[":prefix"])
	var keys []string
	for sk := range f.items[pk] {
		if strings.HasPrefix(sk, prefix) {
			keys = append(keys, sk)
		}
	}
	sort.Strings(keys)

	start := 0
	if in.ExclusiveStartKey != nil {
		after := str(in.ExclusiveStartKey["SK"])
		start = sort.SearchStrings(keys, after) + 1
	}
	end := min(start+f.pageSize, len(keys))

	out := &sdk.QueryOutput{}
	for _, sk := range keys[start:end] {
		out.Items = append(out.Items, f.items[pk][sk])
	}
	if end < len(keys) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: pk},
			"SK": &types.AttributeValueMemberS{Value: keys[end-1]},
		}
	}
	return out, nil
}

func (f *fakeTable) BatchWriteItem(_ context.Context, in *sdk.BatchWriteItemInput, _ ...func(*sdk.Options)) (*sdk.BatchWriteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batchCalls++

	if f.throttleWrites > 0 {
		f.throttleWrites--
		return nil, &types.ProvisionedThroughputExceededException{}
	}

	out := &sdk.BatchWriteItemOutput{UnprocessedItems: map[string][]types.WriteRequest{}}
	for table, requests := range in.RequestItems {
		if len(requests) > batchSize {
			return nil, fmt.Errorf("batch of %d exceeds limit", len(requests))
		}
		for i, req := range requests {
			if f.holdBack > 0 && i >= len(requests)-f.holdBack {
				out.UnprocessedItems[table] = append(out.UnprocessedItems[table], req)
				continue
			}
			switch {
			case req.PutRequest != nil:
				f.put(req.PutRequest.Item)
			case req.DeleteRequest != nil:
				delete(f.items[str(req.DeleteRequest.Key["PK"])], str(req.DeleteRequest.Key["SK"]))
			}
		}
		f.holdBack = 0
	}
	return out, nil
}

type prescription struct {
	ID     string `json:"id"`
	Drug   string `json:"drug"`
	Dosage string `json:"dosage"`
}

func prescriptions(n int) []prescription {
	out := make([]prescription, n)
	for i := range out {
		out[i] = prescription{ID: fmt.Sprintf("RX-%03d", n-i), Drug: "ibuprofen", Dosage: fmt.Sprintf("%dmg", 100*(i+1))}
	}
	return out
}

func newTestBackend(table *fakeTable) *Backend[prescription] {
	b := New[prescription](table, "test-table", storagemodels.WithKind("prescription"))
	b.RetryBackoff = 0
	return b
}

func TestDynamoRoundTrip(t *testing.T) {
	ctx := context.Background()
	table := newFakeTable()
	backend := newTestBackend(table)

	want := prescriptions(60)
	if err := backend.SaveAll(ctx, want); err != nil {
		t.Fatalf("SaveAll failed: %v", err)
	}
	if table.batchCalls != 3 {
		t.Errorf("Expected 3 batch writes for 60 items, got %d", table.batchCalls)
	}

	got, found, err := backend.LoadAll(ctx)
	if err != nil || !found {
		t.Fatalf("LoadAll failed: found=%v err=%v", found, err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Loaded entities differ from saved ones")
	}

	t.Run("ShorterSnapshotDropsStaleItems", func(t *testing.T) {
		short := prescriptions(2)
		if err := backend.SaveAll(ctx, short); err != nil {
			t.Fatalf("SaveAll failed: %v", err)
		}
		got, _, err := backend.LoadAll(ctx)
		if err != nil {
			t.Fatalf("LoadAll failed: %v", err)
		}
		if !reflect.DeepEqual(got, short) {
			t.Fatalf("Expected %v, got %v", short, got)
		}
		if n := len(table.items["SNAPSHOT#prescription"]); n != 3 {
			t.Errorf("Expected 2 items and a header, got %d rows", n)
		}
	})

	t.Run("EmptySnapshot", func(t *testing.T) {
		if err := backend.SaveAll(ctx, nil); err != nil {
			t.Fatalf("SaveAll failed: %v", err)
		}
		got, found, err := backend.LoadAll(ctx)
		if err != nil || !found || len(got) != 0 {
			t.Fatalf("Expected found empty snapshot, got %v %v %v", got, found, err)
		}
	})
}

func TestDynamoNoData(t *testing.T) {
	got, found, err := newTestBackend(newFakeTable()).LoadAll(context.Background())
	if err != nil || found || got != nil {
		t.Fatalf("Expected no data, got %v %v %v", got, found, err)
	}
}

func TestDynamoRetries(t *testing.T) {
	ctx := context.Background()

	t.Run("UnprocessedItems", func(t *testing.T) {
		table := newFakeTable()
		table.holdBack = 3
		backend := newTestBackend(table)
		if err := backend.SaveAll(ctx, prescriptions(10)); err != nil {
			t.Fatalf("SaveAll failed: %v", err)
		}
		got, _, _ := backend.LoadAll(ctx)
		if len(got) != 10 {
			t.Fatalf("Expected unprocessed items to be resubmitted, got %d entities", len(got))
		}
	})

	t.Run("Throttled", func(t *testing.T) {
		table := newFakeTable()
		table.throttleWrites = 2
		backend := newTestBackend(table)
		if err := backend.SaveAll(ctx, prescriptions(3)); err != nil {
			t.Fatalf("SaveAll failed: %v", err)
		}
	})

	t.Run("GivesUp", func(t *testing.T) {
		table := newFakeTable()
		table.throttleWrites = 100
		backend := newTestBackend(table)
		backend.MaxRetries = 2
		if err := backend.SaveAll(ctx, prescriptions(3)); !errors.IsIOFailure(err) {
			t.Fatalf("Expected I/O failure, got %v", err)
		}
		if table.batchCalls != 3 {
			t.Errorf("Expected 3 attempts, got %d", table.batchCalls)
		}
	})
}

func TestDynamoFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("QueryError", func(t *testing.T) {
		table := newFakeTable()
		table.queryErr = fmt.Errorf("network down")
		if err := newTestBackend(table).SaveAll(ctx, prescriptions(1)); !errors.IsIOFailure(err) {
			t.Fatalf("Expected I/O failure, got %v", err)
		}
	})

	t.Run("CorruptPayload", func(t *testing.T) {
		table := newFakeTable()
		backend := newTestBackend(table)
		if err := backend.SaveAll(ctx, prescriptions(2)); err != nil {
			t.Fatal(err)
		}
		av, _ := attributevalue.MarshalMap(entityItem{PK: "SNAPSHOT#prescription", SK: sortKey(1), Payload: "{not json"})
		table.put(av)
		if _, _, err := backend.LoadAll(ctx); !errors.IsCorruptData(err) {
			t.Fatalf("Expected corrupt data error, got %v", err)
		}
	})

	t.Run("CountMismatch", func(t *testing.T) {
		table := newFakeTable()
		backend := newTestBackend(table)
		if err := backend.SaveAll(ctx, prescriptions(2)); err != nil {
			t.Fatal(err)
		}
		delete(table.items["SNAPSHOT#prescription"], sortKey(0))
		if _, _, err := backend.LoadAll(ctx); !errors.IsCorruptData(err) {
			t.Fatalf("Expected corrupt data error, got %v", err)
		}
	})
}

func TestIsRetryableError(t *testing.T) {
	if !isRetryableError(&types.ProvisionedThroughputExceededException{}) {
		t.Error("ProvisionedThroughputExceededException should be retryable")
	}
	if !isRetryableError(fmt.Errorf("wrapped: %w", &types.RequestLimitExceeded{})) {
		t.Error("RequestLimitExceeded should be retryable")
	}
	if isRetryableError(fmt.Errorf("some other error")) {
		t.Error("Generic error should not be retryable")
	}
}
