package implementation

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"

	apierrors "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Errors"
	tlgmodels "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Models"
	interfaces "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Repository/Interfaces"
)

// KeySchema describes the primary key of a table
type KeySchema struct {
	PartitionKey string
	SortKey      string
}

// DefaultSchemas returns the key schemas of the application tables
func DefaultSchemas() map[string]KeySchema {
	return map[string]KeySchema{
		tlgmodels.TableDevices:     {PartitionKey: tlgmodels.AttrDeviceID},
		tlgmodels.TableTemperature: {PartitionKey: tlgmodels.AttrDeviceID, SortKey: tlgmodels.AttrTimestamp},
		tlgmodels.TableHumidity:    {PartitionKey: tlgmodels.AttrDeviceID, SortKey: tlgmodels.AttrTimestamp},
	}
}

// MemoryStore is an in-process ItemStore with the same semantics as DynamoStore.
// It backs the local development server and handler tests.
type MemoryStore struct {
	mu      sync.RWMutex
	names   TableNames
	schemas map[string]KeySchema
	tables  map[string][]interfaces.Item
}

func NewMemoryStore(names TableNames, schemas map[string]KeySchema) *MemoryStore {
	return &MemoryStore{
		names:   names,
		schemas: schemas,
		tables:  make(map[string][]interfaces.Item),
	}
}

func (s *MemoryStore) GetItem(ctx context.Context, table string, key interfaces.Key) (interfaces.Item, bool, error) {
	tableName, err := s.names.Resolve(table)
	if err != nil {
		return nil, false, err
	}
	keyItem, err := buildKey(key)
	if err != nil {
		return nil, false, apierrors.Internal(err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.tables[tableName] {
		if matches(item, keyItem) {
			return maps.Clone(item), true, nil
		}
	}
	return nil, false, nil
}

func (s *MemoryStore) GetAll(ctx context.Context, table, keyName string, keyValue any) ([]interfaces.Item, bool, error) {
	tableName, err := s.names.Resolve(table)
	if err != nil {
		return nil, false, err
	}
	pk, err := toAttr(keyValue)
	if err != nil {
		return nil, false, apierrors.Internal(err)
	}

	items := s.filter(tableName, interfaces.Item{keyName: pk})
	return items, len(items) > 0, nil
}

func (s *MemoryStore) GetRange(ctx context.Context, table, partitionKey string, partitionValue any, sortKey string, from, to any) ([]interfaces.Item, bool, error) {
	tableName, err := s.names.Resolve(table)
	if err != nil {
		return nil, false, err
	}
	pk, err := toAttr(partitionValue)
	if err != nil {
		return nil, false, apierrors.Internal(err)
	}
	lo, err := toAttr(from)
	if err != nil {
		return nil, false, apierrors.Internal(err)
	}
	hi, err := toAttr(to)
	if err != nil {
		return nil, false, apierrors.Internal(err)
	}

	var inRange []interfaces.Item
	for _, item := range s.filter(tableName, interfaces.Item{partitionKey: pk}) {
		sk, ok := item[sortKey]
		if !ok {
			continue
		}
		afterFrom, err := compareAttr(sk, lo)
		if err != nil {
			return nil, false, apierrors.Internal(err)
		}
		beforeTo, err := compareAttr(sk, hi)
		if err != nil {
			return nil, false, apierrors.Internal(err)
		}
		if afterFrom >= 0 && beforeTo <= 0 {
			inRange = append(inRange, item)
		}
	}

	var sortErr error
	sort.SliceStable(inRange, func(i, j int) bool {
		c, err := compareAttr(inRange[i][sortKey], inRange[j][sortKey])
		if err != nil {
			sortErr = err
		}
		return c < 0
	})
	if sortErr != nil {
		return nil, false, apierrors.Internal(sortErr)
	}
	return inRange, len(inRange) > 0, nil
}

func (s *MemoryStore) QueryByIndex(ctx context.Context, table, indexName, indexKey string, indexValue any) ([]interfaces.Item, bool, error) {
	if indexValue == nil {
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

	items := s.filter(tableName, interfaces.Item{indexKey: value})
	return items, len(items) > 0, nil
}

func (s *MemoryStore) Scan(ctx context.Context, table string, limit int32) ([]interfaces.Item, bool, error) {
	if limit <= 0 {
		return nil, false, apierrors.Internal(fmt.Errorf("scan limit must be positive, got %d", limit))
	}
	tableName, err := s.names.Resolve(table)
	if err != nil {
		return nil, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := s.tables[tableName]
	if len(rows) > int(limit) {
		rows = rows[:limit]
	}
	items := make([]interfaces.Item, 0, len(rows))
	for _, item := range rows {
		items = append(items, maps.Clone(item))
	}
	return items, len(items) > 0, nil
}

func (s *MemoryStore) PutItem(ctx context.Context, table string, item interfaces.Item) error {
	tableName, err := s.names.Resolve(table)
	if err != nil {
		return err
	}
	schema, ok := s.schemas[table]
	if !ok {
		return apierrors.Internal(fmt.Errorf("no key schema for table %s", table))
	}
	clean := omitNulls(item)

	keyItem := interfaces.Item{}
	for _, name := range []string{schema.PartitionKey, schema.SortKey} {
		if name == "" {
			continue
		}
		av, ok := clean[name]
		if !ok {
			return apierrors.Internal(fmt.Errorf("item for %s is missing key attribute %s", tableName, name))
		}
		keyItem[name] = av
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.tables[tableName]
	for i, existing := range rows {
		if matches(existing, keyItem) {
			rows[i] = clean
			return nil
		}
	}
	s.tables[tableName] = append(rows, clean)
	return nil
}

func (s *MemoryStore) DeleteItem(ctx context.Context, table string, key interfaces.Key) error {
	tableName, err := s.names.Resolve(table)
	if err != nil {
		return err
	}
	keyItem, err := buildKey(key)
	if err != nil {
		return apierrors.Internal(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.tables[tableName]
	kept := rows[:0]
	for _, item := range rows {
		if !matches(item, keyItem) {
			kept = append(kept, item)
		}
	}
	s.tables[tableName] = kept
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context, table string) error {
	_, err := s.names.Resolve(table)
	return err
}

func (s *MemoryStore) filter(tableName string, want interfaces.Item) []interfaces.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var items []interfaces.Item
	for _, item := range s.tables[tableName] {
		if matches(item, want) {
			items = append(items, maps.Clone(item))
		}
	}
	return items
}

func matches(item, want interfaces.Item) bool {
	for name, av := range want {
		got, ok := item[name]
		if !ok || attrKey(got) != attrKey(av) {
			return false
		}
	}
	return true
}

var _ interfaces.ItemStore = (*MemoryStore)(nil)
var _ interfaces.ItemStore = (*DynamoStore)(nil)
