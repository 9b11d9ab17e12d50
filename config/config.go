package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Database DatabaseConfig `mapstructure:"database"`
	Mistral  MistralConfig  `mapstructure:"mistral"`
	Game     GameConfig     `mapstructure:"game"`
}

type ServerConfig struct {
	HTTPAddress    string `mapstructure:"http_address"`
	MetricsAddress string `mapstructure:"metrics_address"`
	RPCAddress     string `mapstructure:"rpc_address"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

type MistralConfig struct {
	APIKey         string `mapstructure:"api_key"`
	Model          string `mapstructure:"model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type GameConfig struct {
	VotingTimeoutSeconds int  `mapstructure:"voting_timeout_seconds"`
	RoundDelaySeconds    int  `mapstructure:"round_delay_seconds"`
	RoomTTLHours         int  `mapstructure:"room_ttl_hours"`
	EnforceVoteTimeout   bool `mapstructure:"enforce_vote_timeout"`
	AllowDuplicateNames  bool `mapstructure:"allow_duplicate_names"`
	MinRounds            int  `mapstructure:"min_rounds"`
	MaxRounds            int  `mapstructure:"max_rounds"`
}

func (g GameConfig) VotingTimeout() time.Duration {
	return time.Duration(g.VotingTimeoutSeconds) * time.Second
}

func (g GameConfig) RoundDelay() time.Duration {
	return time.Duration(g.RoundDelaySeconds) * time.Second
}

func (g GameConfig) RoomTTL() time.Duration {
	return time.Duration(g.RoomTTLHours) * time.Hour
}

func (m MistralConfig) Timeout() time.Duration {
	return time.Duration(m.TimeoutSeconds) * time.Second
}

func LoadConfig(path string) (config *Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("server.http_address", ":5000")
	viper.SetDefault("server.metrics_address", ":9100")
	viper.SetDefault("server.rpc_address", ":5001")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("mistral.model", "mistral-small-latest")
	viper.SetDefault("mistral.timeout_seconds", 10)
	viper.SetDefault("game.voting_timeout_seconds", 60)
	viper.SetDefault("game.round_delay_seconds", 3)
	viper.SetDefault("game.room_ttl_hours", 24)
	viper.SetDefault("game.min_rounds", 3)
	viper.SetDefault("game.max_rounds", 15)

	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
