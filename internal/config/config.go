package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Configuration struct {
	Server struct {
		Host string `envconfig:"SERVER_HOST"`
		Port string `envconfig:"SERVER_PORT" default:"8080"`
	}
	Database struct {
		Address          string `envconfig:"MONGO_ADDRESS"`
		DatabaseName     string `envconfig:"MONGO_DATABASE"`
		RunCollection    string `envconfig:"MONGO_RUN_COLLECTION" default:"runs"`
		ResultCollection string `envconfig:"MONGO_RESULT_COLLECTION" default:"results"`
	}
	Model struct {
		BaseURL string `envconfig:"MODEL_BASE_URL"`
		APIKey  string `envconfig:"MODEL_API_KEY"`
		Name    string `envconfig:"MODEL_NAME" default:"gpt-4o"`
	}
	Bench BenchConfiguration
}

// BenchConfiguration covers one evaluation run: how many cases per rule
// family, where the rendered boards and results go, and how hard to lean on
// the model API. An empty Families list means every family.
type BenchConfiguration struct {
	OutputDir         string        `envconfig:"BENCH_OUTPUT_DIR" default:"bench_output"`
	CasesPerFamily    int           `envconfig:"BENCH_CASES_PER_FAMILY" default:"10"`
	Seed              int64         `envconfig:"BENCH_SEED" default:"0"`
	Mode              string        `envconfig:"BENCH_MODE" default:"predictive"`
	Families          []string      `envconfig:"BENCH_FAMILIES"`
	RateLimitRequests int           `envconfig:"BENCH_RATE_LIMIT_REQUESTS" default:"0"`
	RateLimitPause    time.Duration `envconfig:"BENCH_RATE_LIMIT_PAUSE" default:"60s"`
}

func InitConfig() (*Configuration, error) {
	config := &Configuration{}
	err := envconfig.Process("", config)
	return config, err
}
