package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"

	ProviderMinIO = "minio"
	ProviderAzure = "azure"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Storage    StorageConfig
	Pagination PaginationConfig
}

type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	BodyLimit      int
	AllowedOrigins string
}

type DatabaseConfig struct {
	Driver       string
	QueryTimeout time.Duration
	Mongo        MongoConfig
	Postgres     PostgresConfig
}

type MongoConfig struct {
	URI            string
	DatabaseName   string
	CollectionName string
	MaxPoolSize    uint64
}

type PostgresConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type StorageConfig struct {
	Provider      string
	MaxPosterSize int64
	MinIO         MinIOConfig
	Azure         AzureConfig
}

type MinIOConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
	UseSSL          bool
	PublicURL       string
	SetPublicPolicy bool
}

type AzureConfig struct {
	ConnectionString string
	ContainerName    string
	PublicURL        string
}

type PaginationConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           getEnvOrDefault("SERVER_PORT", "8010"),
			ReadTimeout:    getDurationOrDefault("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:   getDurationOrDefault("SERVER_WRITE_TIMEOUT", 30*time.Second),
			BodyLimit:      getIntOrDefault("SERVER_BODY_LIMIT", 10*1024*1024),
			AllowedOrigins: getEnvOrDefault("ALLOWED_ORIGINS", "http://localhost:3000"),
		},
		Database: DatabaseConfig{
			Driver:       strings.ToLower(getEnvOrDefault("DB_DRIVER", DriverMongo)),
			QueryTimeout: getDurationOrDefault("DB_QUERY_TIMEOUT", 10*time.Second),
			Mongo: MongoConfig{
				URI:            getEnvOrDefault("MONGODB_CONNECTION_STRING", "mongodb://localhost:27017"),
				DatabaseName:   getEnvOrDefault("MONGODB_DATABASE_NAME", "movie_catalog"),
				CollectionName: getEnvOrDefault("MONGODB_COLLECTION_NAME", "Movies"),
				MaxPoolSize:    uint64(getIntOrDefault("MONGODB_MAX_POOL_SIZE", 50)),
			},
			Postgres: PostgresConfig{
				Host:            getEnvOrDefault("DB_HOST", "localhost"),
				Port:            getEnvOrDefault("DB_PORT", "5432"),
				User:            getEnvOrDefault("DB_USER", "postgres"),
				Password:        getEnvOrDefault("DB_PASSWORD", "postgres"),
				DBName:          getEnvOrDefault("DB_NAME", "movie_catalog"),
				SSLMode:         getEnvOrDefault("DB_SSLMODE", "disable"),
				MaxOpenConns:    getIntOrDefault("DB_MAX_OPEN_CONNS", 25),
				MaxIdleConns:    getIntOrDefault("DB_MAX_IDLE_CONNS", 5),
				ConnMaxLifetime: getDurationOrDefault("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			},
		},
		Storage: StorageConfig{
			Provider:      strings.ToLower(getEnvOrDefault("STORAGE_PROVIDER", ProviderMinIO)),
			MaxPosterSize: getInt64OrDefault("STORAGE_MAX_POSTER_SIZE", 5*1024*1024),
			MinIO: MinIOConfig{
				Endpoint:        getEnvOrDefault("AWS_ENDPOINT", "localhost:9000"),
				AccessKeyID:     getEnvOrDefault("AWS_ACCESS_KEY_ID", ""),
				SecretAccessKey: getEnvOrDefault("AWS_SECRET_ACCESS_KEY", ""),
				BucketName:      getEnvOrDefault("AWS_BUCKET", "posters"),
				Region:          getEnvOrDefault("AWS_DEFAULT_REGION", "us-east-1"),
				UseSSL:          getBoolOrDefault("AWS_USE_SSL", false),
				PublicURL:       getEnvOrDefault("AWS_URL", ""),
				SetPublicPolicy: getBoolOrDefault("AWS_SET_PUBLIC_POLICY", true),
			},
			Azure: AzureConfig{
				ConnectionString: getEnvOrDefault("AZURE_STORAGE_CONNECTION_STRING", ""),
				ContainerName:    getEnvOrDefault("AZURE_STORAGE_CONTAINER", "posters"),
				PublicURL:        getEnvOrDefault("AZURE_STORAGE_PUBLIC_URL", ""),
			},
		},
		Pagination: PaginationConfig{
			DefaultPageSize: getIntOrDefault("PAGINATION_DEFAULT_PAGE_SIZE", 10),
			MaxPageSize:     getIntOrDefault("PAGINATION_MAX_PAGE_SIZE", 100),
		},
	}
}

// GetDSN returns PostgreSQL connection string
func (c *Config) GetDSN() string {
	pg := c.Database.Postgres
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC connect_timeout=10",
		pg.Host,
		pg.Port,
		pg.User,
		pg.Password,
		pg.DBName,
		pg.SSLMode,
	)
}

// AllowedOriginList splits the comma separated ALLOWED_ORIGINS value.
func (c *ServerConfig) AllowedOriginList() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverMongo:
		if c.Database.Mongo.URI == "" {
			return fmt.Errorf("MONGODB_CONNECTION_STRING is required")
		}
		if c.Database.Mongo.DatabaseName == "" {
			return fmt.Errorf("MONGODB_DATABASE_NAME is required")
		}
	case DriverPostgres:
		if c.Database.Postgres.Host == "" {
			return fmt.Errorf("DB_HOST is required")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want %s or %s)", c.Database.Driver, DriverMongo, DriverPostgres)
	}

	switch c.Storage.Provider {
	case ProviderMinIO:
		if c.Storage.MinIO.Endpoint == "" {
			return fmt.Errorf("AWS_ENDPOINT is required for MinIO")
		}
		if c.Storage.MinIO.AccessKeyID == "" {
			return fmt.Errorf("AWS_ACCESS_KEY_ID is required for MinIO")
		}
		if c.Storage.MinIO.SecretAccessKey == "" {
			return fmt.Errorf("AWS_SECRET_ACCESS_KEY is required for MinIO")
		}
	case ProviderAzure:
		if c.Storage.Azure.ConnectionString == "" {
			return fmt.Errorf("AZURE_STORAGE_CONNECTION_STRING is required for Azure Blob Storage")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_PROVIDER %q (want %s or %s)", c.Storage.Provider, ProviderMinIO, ProviderAzure)
	}

	if c.Pagination.DefaultPageSize < 1 || c.Pagination.DefaultPageSize > c.Pagination.MaxPageSize {
		return fmt.Errorf("PAGINATION_DEFAULT_PAGE_SIZE must be between 1 and %d", c.Pagination.MaxPageSize)
	}
	if c.Storage.MaxPosterSize <= 0 {
		return fmt.Errorf("STORAGE_MAX_POSTER_SIZE must be positive")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
