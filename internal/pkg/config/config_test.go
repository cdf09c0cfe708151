package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadContext_Defaults(t *testing.T) {
	cfg, err := LoadContext(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" || cfg.Env != "development" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.JWTTTL != 24*time.Hour || cfg.BcryptCost != 10 {
		t.Fatalf("unexpected auth defaults: ttl=%s cost=%d", cfg.JWTTTL, cfg.BcryptCost)
	}
	if cfg.Mongo.URI != "mongodb://localhost:27017" || cfg.Mongo.Database != "profiles" {
		t.Fatalf("unexpected mongo defaults: %+v", cfg.Mongo)
	}
	if cfg.Redis.Addr != "localhost:6379" || cfg.Redis.CacheTTL != 10*time.Minute {
		t.Fatalf("unexpected redis defaults: %+v", cfg.Redis)
	}
	if !cfg.IsDevelopment() {
		t.Fatalf("expected development env")
	}
}

func TestLoadContext_Overrides(t *testing.T) {
	cfg, err := LoadContext(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":      "s3cret",
		"ENV":             "production",
		"PORT":            "9000",
		"JWT_TTL":         "1h",
		"BCRYPT_COST":     "12",
		"MONGO_DB":        "accounts_test",
		"REDIS_DB":        "3",
		"REDIS_CACHE_TTL": "30s",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.IsDevelopment() || cfg.Port != "9000" {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
	if cfg.JWTTTL != time.Hour || cfg.BcryptCost != 12 {
		t.Fatalf("unexpected auth overrides: ttl=%s cost=%d", cfg.JWTTTL, cfg.BcryptCost)
	}
	if cfg.Mongo.Database != "accounts_test" || cfg.Redis.DB != 3 || cfg.Redis.CacheTTL != 30*time.Second {
		t.Fatalf("unexpected store overrides: %+v %+v", cfg.Mongo, cfg.Redis)
	}
}

func TestLoadContext_MissingSecret(t *testing.T) {
	if _, err := LoadContext(context.Background(), envconfig.MapLookuper(map[string]string{})); err == nil {
		t.Fatalf("expected error when JWT_SECRET is missing")
	}
}
