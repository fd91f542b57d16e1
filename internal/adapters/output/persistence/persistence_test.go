package persistence

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"jinding-ha/internal/domain/model"
	"jinding-ha/internal/ports"
)

func exerciseStore(t *testing.T, store ports.StateStore) {
	t.Helper()
	ctx := context.Background()

	var items []model.KNXItem
	found, err := store.Load(ctx, model.StoreKeyKNXItems, &items)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, items)

	want := []model.KNXItem{{Name: "主卧主灯", Address: "1/1/1"}, {Name: "餐厅", Address: "1/1/2"}}
	require.NoError(t, store.Save(ctx, model.StoreKeyKNXItems, want))
	require.NoError(t, store.Save(ctx, model.StoreKeyBindings, []model.BindingEntry{{EntityID: "switch.a", KNXItemID: "light.b"}}))

	found, err = store.Load(ctx, model.StoreKeyKNXItems, &items)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, items)

	var bindings []model.BindingEntry
	found, err = store.Load(ctx, model.StoreKeyBindings, &bindings)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "light.b", bindings[0].KNXItemID)

	// Overwrite replaces the whole value
	require.NoError(t, store.Save(ctx, model.StoreKeyKNXItems, want[:1]))
	items = nil
	_, err = store.Load(ctx, model.StoreKeyKNXItems, &items)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestJSONStateStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	exerciseStore(t, NewJSONStateStore(path))

	// A second instance sees the same file
	var cfg model.HassConfig
	store := NewJSONStateStore(path)
	require.NoError(t, store.Save(context.Background(), model.StoreKeyHassConfig, &model.HassConfig{URL: "http://ha:8123", Token: "secret"}))
	found, err := NewJSONStateStore(path).Load(context.Background(), model.StoreKeyHassConfig, &cfg)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "http://ha:8123", cfg.URL)
}

func TestJSONStateStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	var items []model.KNXItem
	_, err := NewJSONStateStore(path).Load(context.Background(), model.StoreKeyKNXItems, &items)
	assert.Error(t, err)
}

func TestRedisStateStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	exerciseStore(t, NewRedisStateStore(client, "jinding:"))
	assert.True(t, mr.Exists("jinding:knxItems"))
	assert.True(t, mr.Exists("jinding:bindings"))
}
