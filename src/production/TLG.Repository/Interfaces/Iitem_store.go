package interfaces

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Item is a single table row in the store's native attribute encoding
type Item = map[string]types.AttributeValue

// Key identifies one item. SortName is empty for tables without a sort key.
// Values are plain Go strings or numbers.
type Key struct {
	Name      string
	Value     any
	SortName  string
	SortValue any
}

// ItemStore is uniform access to the key-value tables. Table arguments are logical
// names; implementations resolve them to {app}-{stage}-{name}.
//
// Read operations return found=false when nothing matched. That is not an error;
// the caller decides between 404 and an empty 200.
type ItemStore interface {
	GetItem(ctx context.Context, table string, key Key) (Item, bool, error)
	GetAll(ctx context.Context, table, keyName string, keyValue any) ([]Item, bool, error)
	// GetRange returns items with from <= sort key <= to, ascending by sort key
	GetRange(ctx context.Context, table, partitionKey string, partitionValue any, sortKey string, from, to any) ([]Item, bool, error)
	QueryByIndex(ctx context.Context, table, indexName, indexKey string, indexValue any) ([]Item, bool, error)
	// Scan returns at most limit items in no particular order. Anything past the limit is dropped.
	Scan(ctx context.Context, table string, limit int32) ([]Item, bool, error)
	// PutItem upserts by the item's key attributes. NULL attributes are omitted.
	PutItem(ctx context.Context, table string, item Item) error
	// DeleteItem is idempotent
	DeleteItem(ctx context.Context, table string, key Key) error
	// Ping checks that the table is reachable
	Ping(ctx context.Context, table string) error
}
