package app

import (
	"time"

	"github.com/guttosm/binpack-service/config"
)

func testConfig() config.Config {
	return config.Config{
		Server:  config.ServerConfig{PublicURL: "http://localhost:8080"},
		Cache:   config.CacheConfig{Size: 100, TTL: time.Minute},
		Auth:    config.AuthConfig{ShareSecretKey: "test-share-secret", ShareTokenTTL: time.Hour},
		Packing: config.PackingConfig{MaxItems: 50},
	}
}
