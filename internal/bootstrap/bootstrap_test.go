package bootstrap

import (
	"context"
	"testing"

	"github.com/andresuchdata/salescast/internal/chat"
	"github.com/andresuchdata/salescast/internal/config"
	"github.com/andresuchdata/salescast/internal/domain"
	"github.com/andresuchdata/salescast/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(driver string) *config.Config {
	return &config.Config{
		Store: config.StoreConfig{
			Driver:             driver,
			SalesCollection:    "sales_data",
			ProductsCollection: "product_data",
		},
		Cache: config.CacheConfig{LockBackend: "local"},
	}
}

func TestOpen_FileStore(t *testing.T) {
	cfg := testConfig(DriverFile)
	cfg.Store.DataDir = t.TempDir()

	res, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer res.Close()

	assert.IsType(t, &storage.FileStore{}, res.Blobs)
	assert.Equal(t, "sales_data", res.Sales.Name())
	assert.Equal(t, "product_data", res.Products.Name())

	require.NoError(t, res.Sales.Save(context.Background(), []domain.SalesRecord{{Period: "Jan", Amount: 1}}))
}

func TestOpen_MemoryStore(t *testing.T) {
	res, err := Open(context.Background(), testConfig(DriverMemory))
	require.NoError(t, err)
	defer res.Close()

	assert.IsType(t, &storage.MemoryStore{}, res.Blobs)
}

func TestOpen_RejectsUnknownBackends(t *testing.T) {
	_, err := Open(context.Background(), testConfig("floppy"))
	assert.Error(t, err)

	cfg := testConfig(DriverMemory)
	cfg.Cache.LockBackend = "zookeeper"
	_, err = Open(context.Background(), cfg)
	assert.Error(t, err)
}

func TestNewCompleter_WithoutKeys(t *testing.T) {
	for _, provider := range []string{"mistral", "gemini"} {
		completer, closeFn := NewCompleter(context.Background(), config.ChatConfig{Provider: provider})
		_, err := completer.Complete(context.Background(), "hi")
		assert.ErrorIs(t, err, chat.ErrNotConfigured)
		assert.NoError(t, closeFn())
	}
}

func TestNewCompleter_MistralWithKey(t *testing.T) {
	completer, _ := NewCompleter(context.Background(), config.ChatConfig{Provider: "mistral", MistralAPIKey: "k"})
	assert.IsType(t, &chat.MistralClient{}, completer)
}
