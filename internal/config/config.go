package config

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/viper"
)

type MQTTConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type ServerConfig struct {
	Addr string
}

type SlackConfig struct {
	BotToken  string
	ChannelID string
}

type StoreConfig struct {
	Capacity int
}

// ThresholdConfig holds the alerting bounds. Read-only after startup.
type ThresholdConfig struct {
	DOLow         float64
	AmmoniaHigh   float64
	WaterLevelLow float64
	TempHigh      float64
	PHLow         float64
}

// SimulatorConfig tunes the synthetic process. The failure penalties are
// deliberately configuration rather than constants: the level penalty is
// tuned so a simulated failure crosses the low-water threshold.
type SimulatorConfig struct {
	IntervalSeconds     int
	FailureLevelPenalty float64
	FailureDOPenalty    float64
	OffLevelPenalty     float64
	OffDOPenalty        float64
}

type Config struct {
	MQTT       MQTTConfig
	Database   DatabaseConfig
	Server     ServerConfig
	Slack      SlackConfig
	Store      StoreConfig
	Thresholds ThresholdConfig
	Simulator  SimulatorConfig
}

func LoadConfig() (*Config, error) {
	v := viper.New()

	v.BindEnv("mqtt.broker", "MQTT_BROKER")
	v.BindEnv("mqtt.clientid", "MQTT_CLIENT_ID")
	v.BindEnv("mqtt.username", "MQTT_USERNAME")
	v.BindEnv("mqtt.password", "MQTT_PASSWORD")

	v.BindEnv("database.host", "DB_HOST")
	v.BindEnv("database.port", "DB_PORT")
	v.BindEnv("database.user", "DB_USER")
	v.BindEnv("database.password", "DB_PASSWORD")
	v.BindEnv("database.dbname", "DB_NAME")
	v.BindEnv("database.sslmode", "DB_SSLMODE")

	v.BindEnv("server.addr", "SERVER_ADDR")

	v.BindEnv("slack.bottoken", "SLACK_BOT_TOKEN")
	v.BindEnv("slack.channelid", "SLACK_CHANNEL_ID")

	v.BindEnv("store.capacity", "STORE_CAPACITY")

	v.BindEnv("thresholds.dolow", "THRESHOLD_DO_LOW")
	v.BindEnv("thresholds.ammoniahigh", "THRESHOLD_AMMONIA_HIGH")
	v.BindEnv("thresholds.waterlevellow", "THRESHOLD_WATER_LEVEL_LOW")
	v.BindEnv("thresholds.temphigh", "THRESHOLD_TEMP_HIGH")
	v.BindEnv("thresholds.phlow", "THRESHOLD_PH_LOW")

	v.BindEnv("simulator.intervalseconds", "SIM_INTERVAL_SECONDS")
	v.BindEnv("simulator.failurelevelpenalty", "SIM_FAILURE_LEVEL_PENALTY")
	v.BindEnv("simulator.failuredopenalty", "SIM_FAILURE_DO_PENALTY")
	v.BindEnv("simulator.offlevelpenalty", "SIM_OFF_LEVEL_PENALTY")
	v.BindEnv("simulator.offdopenalty", "SIM_OFF_DO_PENALTY")

	v.SetDefault("mqtt.broker", "tcp://localhost:1883")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("server.addr", ":8000")
	v.SetDefault("store.capacity", 500)
	v.SetDefault("thresholds.dolow", 5.0)
	v.SetDefault("thresholds.ammoniahigh", 0.5)
	v.SetDefault("thresholds.waterlevellow", 80.0)
	v.SetDefault("thresholds.temphigh", 26.0)
	v.SetDefault("thresholds.phlow", 6.0)
	v.SetDefault("simulator.intervalseconds", 5)
	v.SetDefault("simulator.failurelevelpenalty", 20.0)
	v.SetDefault("simulator.failuredopenalty", 2.0)
	v.SetDefault("simulator.offlevelpenalty", 5.0)
	v.SetDefault("simulator.offdopenalty", 1.0)

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}

	if env == "local" {
		v.SetConfigFile(".env.local")
		v.SetConfigType("env")

		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("error reading config file .env.local: %w", err)
			}
			log.Println("Info: .env.local not found, relying on environment variables.")
		} else {
			log.Printf("Loaded configuration from %s", v.ConfigFileUsed())
		}
	} else {
		log.Printf("APP_ENV is '%s', skipping .env file loading.", env)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// DSN returns the PostgreSQL connection string.
func (cfg *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		cfg.Database.Host,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.DBName,
		cfg.Database.Port,
		cfg.Database.SSLMode,
	)
}

// HasDatabase reports whether enough database settings are present to open a
// connection. The monitor runs without persistence when they are absent.
func (cfg *Config) HasDatabase() bool {
	return cfg.Database.Host != "" && cfg.Database.DBName != ""
}
