package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPath  = "./.env"
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	defaultRunAddress = ":8080"
	defaultPageSize   = 100
	defaultMaxPages   = 1000
)

type Config struct {
	Env    string
	DB     db
	Server server
	Remote remote
	Sync   syncSettings
	Logger logger
}

type db struct {
	DatabaseURI string `env:"DATABASE_URI"`
	Migrations  string `env:"MIGRATIONS_PATH"`
}

type server struct {
	RunAddress string `env:"RUN_ADDRESS"`
	Secret     string `env:"SECRET"`
}

type remote struct {
	// DocstoreAddress is the base URL of the external document database API.
	DocstoreAddress string `env:"DOCSTORE_ADDRESS"`
}

type syncSettings struct {
	SourceOfTruth string `env:"SOURCE_OF_TRUTH"`
	PageSize      int    `env:"QUERY_PAGE_SIZE"`
	MaxPages      int    `env:"MAX_QUERY_PAGES"`
}

type logger struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

func MustLoad() *Config {
	if err := godotenv.Load(envPath); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	viper.AutomaticEnv()
	viper.SetDefault("run_address", defaultRunAddress)
	viper.SetDefault("source_of_truth", "remote")
	viper.SetDefault("query_page_size", defaultPageSize)
	viper.SetDefault("max_query_pages", defaultMaxPages)

	secret := viper.GetString("secret")
	if secret == "" {
		log.Fatalln("SECRET must be set")
	}

	config := Config{
		Env: viper.GetString("app_env"),
		DB: db{
			DatabaseURI: viper.GetString("database_uri"),
			Migrations:  viper.GetString("migrations_path"),
		},
		Server: server{
			RunAddress: viper.GetString("run_address"),
			Secret:     secret,
		},
		Remote: remote{
			DocstoreAddress: viper.GetString("docstore_address"),
		},
		Sync: syncSettings{
			SourceOfTruth: viper.GetString("source_of_truth"),
			PageSize:      viper.GetInt("query_page_size"),
			MaxPages:      viper.GetInt("max_query_pages"),
		},
		Logger: logger{LogLevel: viper.GetString("log_level")},
	}

	return &config
}
