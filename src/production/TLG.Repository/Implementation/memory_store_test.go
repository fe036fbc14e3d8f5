package implementation

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Errors"
	tlgmodels "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Models"
	interfaces "gitlab.com/maplesense1/tlg.sensor_api/src/production/TLG.Repository/Interfaces"
)

func newTestMemoryStore() *MemoryStore {
	return NewMemoryStore(TableNames{App: "templog", Stage: "test"}, DefaultSchemas())
}

func putReading(t *testing.T, store *MemoryStore, deviceID string, ts int64, celsius float64) {
	t.Helper()
	err := store.PutItem(context.Background(), tlgmodels.TableTemperature, temperatureToItem(tlgmodels.Temperature{
		DeviceID:  deviceID,
		Timestamp: ts,
		Celsius:   celsius,
	}))
	require.NoError(t, err)
}

func TestMemoryStoreGetRange(t *testing.T) {
	ctx := context.Background()
	store := newTestMemoryStore()

	for _, ts := range []int64{250, 150, 50, 200, 100, 199} {
		putReading(t, store, "dev-1", ts, float64(ts)/10)
	}
	putReading(t, store, "dev-2", 150, 1)

	items, found, err := store.GetRange(ctx, tlgmodels.TableTemperature, "deviceId", "dev-1", "timestamp", 100, 200)
	require.NoError(t, err)
	require.True(t, found)

	var got []int64
	for _, item := range items {
		reading, err := temperatureFromItem(item)
		require.NoError(t, err)
		assert.Equal(t, "dev-1", reading.DeviceID)
		got = append(got, reading.Timestamp)
	}
	assert.Equal(t, []int64{100, 150, 199, 200}, got)
}

func TestMemoryStoreGetRangeEmpty(t *testing.T) {
	store := newTestMemoryStore()
	putReading(t, store, "dev-1", 10, 1)

	items, found, err := store.GetRange(context.Background(), tlgmodels.TableTemperature, "deviceId", "dev-1", "timestamp", 100, 200)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, items)
}

func TestMemoryStorePutUpserts(t *testing.T) {
	ctx := context.Background()
	store := newTestMemoryStore()

	putReading(t, store, "dev-1", 1000, 20)
	putReading(t, store, "dev-1", 1000, 21.5)

	items, found, err := store.GetAll(ctx, tlgmodels.TableTemperature, "deviceId", "dev-1")
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, items, 1)

	reading, err := temperatureFromItem(items[0])
	require.NoError(t, err)
	assert.Equal(t, 21.5, reading.Celsius)
}

func TestMemoryStorePutOmitsNulls(t *testing.T) {
	ctx := context.Background()
	store := newTestMemoryStore()

	err := store.PutItem(ctx, tlgmodels.TableDevices, interfaces.Item{
		"deviceId": &types.AttributeValueMemberS{Value: "dev-1"},
		"name":     &types.AttributeValueMemberNULL{Value: true},
		"location": nil,
	})
	require.NoError(t, err)

	item, found, err := store.GetItem(ctx, tlgmodels.TableDevices, interfaces.Key{Name: "deviceId", Value: "dev-1"})
	require.NoError(t, err)
	require.True(t, found)
	assert.Len(t, item, 1)
	assert.Contains(t, item, "deviceId")
}

func TestMemoryStoreGetItemWithSortKey(t *testing.T) {
	ctx := context.Background()
	store := newTestMemoryStore()
	putReading(t, store, "dev-1", 1, 10)
	putReading(t, store, "dev-1", 2, 20)

	item, found, err := store.GetItem(ctx, tlgmodels.TableTemperature, interfaces.Key{
		Name: "deviceId", Value: "dev-1", SortName: "timestamp", SortValue: int64(2),
	})
	require.NoError(t, err)
	require.True(t, found)
	reading, err := temperatureFromItem(item)
	require.NoError(t, err)
	assert.Equal(t, 20.0, reading.Celsius)

	_, found, err = store.GetItem(ctx, tlgmodels.TableTemperature, interfaces.Key{
		Name: "deviceId", Value: "dev-9", SortName: "timestamp", SortValue: int64(2),
	})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStoreDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newTestMemoryStore()
	putReading(t, store, "dev-1", 1, 10)

	key := interfaces.Key{Name: "deviceId", Value: "dev-1", SortName: "timestamp", SortValue: 1}
	require.NoError(t, store.DeleteItem(ctx, tlgmodels.TableTemperature, key))
	require.NoError(t, store.DeleteItem(ctx, tlgmodels.TableTemperature, key))

	_, found, err := store.GetItem(ctx, tlgmodels.TableTemperature, key)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStoreScanTruncatesAtLimit(t *testing.T) {
	ctx := context.Background()
	store := newTestMemoryStore()
	repo := NewDeviceRepository(store)
	for _, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, repo.CreateOrUpdateDevice(ctx, tlgmodels.Device{DeviceID: id}))
	}

	items, found, err := store.Scan(ctx, tlgmodels.TableDevices, 3)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Len(t, items, 3)

	_, found, err = store.Scan(ctx, tlgmodels.TableHumidity, 3)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStoreQueryByIndex(t *testing.T) {
	ctx := context.Background()
	store := newTestMemoryStore()
	repo := NewDeviceRepository(store)
	require.NoError(t, repo.CreateOrUpdateDevice(ctx, tlgmodels.Device{DeviceID: "a", Location: "garage"}))
	require.NoError(t, repo.CreateOrUpdateDevice(ctx, tlgmodels.Device{DeviceID: "b", Location: "attic"}))

	items, found, err := store.QueryByIndex(ctx, tlgmodels.TableDevices, "location-index", "location", "garage")
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, items, 1)

	_, _, err = store.QueryByIndex(ctx, tlgmodels.TableDevices, "location-index", "location", nil)
	require.Error(t, err)
	assert.True(t, apierrors.IsKind(err, apierrors.KindInternal))
}

func TestMemoryStoreMissingNaming(t *testing.T) {
	store := NewMemoryStore(TableNames{Stage: "dev"}, DefaultSchemas())

	_, _, err := store.GetItem(context.Background(), tlgmodels.TableDevices, interfaces.Key{Name: "deviceId", Value: "a"})
	require.Error(t, err)
	assert.True(t, apierrors.IsKind(err, apierrors.KindInternal))
}
