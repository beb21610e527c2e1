package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViper_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg := FromViper(v)

	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, "file", cfg.Store.Driver)
	assert.Equal(t, "sales_data", cfg.Store.SalesCollection)
	assert.Equal(t, "product_data", cfg.Store.ProductsCollection)
	assert.Equal(t, "local", cfg.Cache.LockBackend)
	assert.Equal(t, 300, cfg.Chat.MaxTokens)
	assert.Empty(t, cfg.Chat.MistralAPIKey, "api key must never have a built-in default")
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("STORE_DRIVER", "postgres")
	v.Set("CHAT_TIMEOUT_SECONDS", 5)
	v.Set("MISTRAL_API_KEY", "secret")

	cfg := FromViper(v)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, 5*time.Second, cfg.Chat.Timeout())
	assert.Equal(t, "secret", cfg.Chat.MistralAPIKey)
}

func TestChatConfig_TimeoutFallback(t *testing.T) {
	assert.Equal(t, 30*time.Second, ChatConfig{}.Timeout())
}
