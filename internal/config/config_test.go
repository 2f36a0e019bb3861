package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := Load()
	cfg.Storage.MinIO.AccessKeyID = "key"
	cfg.Storage.MinIO.SecretAccessKey = "secret"
	return cfg
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Server.Port != "8010" {
		t.Errorf("Server.Port = %q, want 8010", cfg.Server.Port)
	}
	if cfg.Database.Driver != DriverMongo {
		t.Errorf("Database.Driver = %q, want %q", cfg.Database.Driver, DriverMongo)
	}
	if cfg.Database.Mongo.CollectionName != "Movies" {
		t.Errorf("Mongo.CollectionName = %q, want Movies", cfg.Database.Mongo.CollectionName)
	}
	if cfg.Storage.Provider != ProviderMinIO {
		t.Errorf("Storage.Provider = %q, want %q", cfg.Storage.Provider, ProviderMinIO)
	}
	if cfg.Storage.MaxPosterSize != 5*1024*1024 {
		t.Errorf("Storage.MaxPosterSize = %d, want 5MiB", cfg.Storage.MaxPosterSize)
	}
	if cfg.Pagination.DefaultPageSize != 10 || cfg.Pagination.MaxPageSize != 100 {
		t.Errorf("Pagination = %+v, want 10/100", cfg.Pagination)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "POSTGRES")
	t.Setenv("DB_QUERY_TIMEOUT", "3s")
	t.Setenv("STORAGE_PROVIDER", "Azure")
	t.Setenv("STORAGE_MAX_POSTER_SIZE", "1048576")
	t.Setenv("AWS_USE_SSL", "true")
	t.Setenv("SERVER_BODY_LIMIT", "not-a-number")

	cfg := Load()

	if cfg.Database.Driver != DriverPostgres {
		t.Errorf("Database.Driver = %q, want %q", cfg.Database.Driver, DriverPostgres)
	}
	if cfg.Database.QueryTimeout != 3*time.Second {
		t.Errorf("QueryTimeout = %v, want 3s", cfg.Database.QueryTimeout)
	}
	if cfg.Storage.Provider != ProviderAzure {
		t.Errorf("Storage.Provider = %q, want %q", cfg.Storage.Provider, ProviderAzure)
	}
	if cfg.Storage.MaxPosterSize != 1048576 {
		t.Errorf("MaxPosterSize = %d, want 1048576", cfg.Storage.MaxPosterSize)
	}
	if !cfg.Storage.MinIO.UseSSL {
		t.Error("MinIO.UseSSL = false, want true")
	}
	if cfg.Server.BodyLimit != 10*1024*1024 {
		t.Errorf("BodyLimit = %d, want default for unparsable value", cfg.Server.BodyLimit)
	}
}

func TestAllowedOriginList(t *testing.T) {
	s := ServerConfig{AllowedOrigins: " http://a.test ,, http://b.test"}
	got := s.AllowedOriginList()
	if len(got) != 2 || got[0] != "http://a.test" || got[1] != "http://b.test" {
		t.Errorf("AllowedOriginList() = %v", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "valid mongo and minio",
			mutate: func(c *Config) {},
		},
		{
			name:    "unknown driver",
			mutate:  func(c *Config) { c.Database.Driver = "sqlite" },
			wantErr: "unsupported DB_DRIVER",
		},
		{
			name:    "postgres without host",
			mutate:  func(c *Config) { c.Database.Driver = DriverPostgres; c.Database.Postgres.Host = "" },
			wantErr: "DB_HOST is required",
		},
		{
			name:    "minio without credentials",
			mutate:  func(c *Config) { c.Storage.MinIO.AccessKeyID = "" },
			wantErr: "AWS_ACCESS_KEY_ID",
		},
		{
			name:    "azure without connection string",
			mutate:  func(c *Config) { c.Storage.Provider = ProviderAzure },
			wantErr: "AZURE_STORAGE_CONNECTION_STRING",
		},
		{
			name: "azure with connection string",
			mutate: func(c *Config) {
				c.Storage.Provider = ProviderAzure
				c.Storage.Azure.ConnectionString = "UseDevelopmentStorage=true"
			},
		},
		{
			name:    "default page size above max",
			mutate:  func(c *Config) { c.Pagination.DefaultPageSize = 500 },
			wantErr: "PAGINATION_DEFAULT_PAGE_SIZE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestGetDSN(t *testing.T) {
	cfg := Load()
	dsn := cfg.GetDSN()
	for _, part := range []string{"host=localhost", "port=5432", "dbname=movie_catalog", "sslmode=disable"} {
		if !strings.Contains(dsn, part) {
			t.Errorf("GetDSN() = %q, missing %q", dsn, part)
		}
	}
}
