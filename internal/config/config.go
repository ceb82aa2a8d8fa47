package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string   `env:"PORT" envDefault:"3000"`
		ReadTimeout     int      `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int      `env:"WRITE_TIMEOUT" envDefault:"30"`
		IdleTimeout     int      `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int      `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
		AllowedOrigins  []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	} `envPrefix:"SERVER_"`
	Store struct {
		Driver   string `env:"DRIVER" envDefault:"file"` // file 或 postgres
		FilePath string `env:"FILE_PATH" envDefault:"data/schedules.json"`
	} `envPrefix:"STORE_"`
	Database struct {
		DSN            string `env:"DSN"`
		ConnectTimeout int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout   int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		MaxOpenConns   int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns   int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
		MaxIdleTime    int    `env:"MAX_IDLE_TIME" envDefault:"60"`
	} `envPrefix:"DATABASE_"`
	Redis struct {
		Enabled          bool   `env:"ENABLED" envDefault:"false"`
		Host             string `env:"HOST" envDefault:"localhost"`
		Port             int    `env:"PORT" envDefault:"6379"`
		Password         string `env:"PASSWORD"`
		OperationTimeout int    `env:"OPERATION_TIMEOUT" envDefault:"3"`
		ScheduleTTL      int    `env:"SCHEDULE_TTL" envDefault:"600"`
	} `envPrefix:"REDIS_"`
	RabbitMQ struct {
		DSN            string `env:"DSN"` // 为空时不发送通知
		Queue          string `env:"QUEUE" envDefault:"email_queue"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
	} `envPrefix:"RABBITMQ_"`
	Artifacts struct {
		Driver string `env:"DRIVER" envDefault:"local"` // local 或 minio
		Dir    string `env:"DIR" envDefault:"data"`
		Minio  struct {
			Endpoint  string `env:"ENDPOINT" envDefault:"localhost:9000"`
			AccessKey string `env:"ACCESS_KEY"`
			SecretKey string `env:"SECRET_KEY"`
			Bucket    string `env:"BUCKET" envDefault:"schedules"`
			UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
			Timeout   int    `env:"TIMEOUT" envDefault:"30"`
		} `envPrefix:"MINIO_"`
	} `envPrefix:"ARTIFACTS_"`
	JWT struct {
		Secret string `env:"SECRET,required,notEmpty"`
	} `envPrefix:"JWT_"`
	Schedule struct {
		Workplaces []string `env:"WORKPLACES" envSeparator:"," envDefault:"Studio Hispan,Studio Press,Nodal,Engineer Room"`
	} `envPrefix:"SCHEDULE_"`
	Notify struct {
		To string `env:"TO"`
	} `envPrefix:"NOTIFY_"`
	Email struct {
		SMTP struct {
			Username    string `env:"USERNAME"`
			Password    string `env:"PASSWORD"`
			Host        string `env:"HOST"`
			Port        int    `env:"PORT" envDefault:"465"`
			DialTimeout int    `env:"DIAL_TIMEOUT" envDefault:"10"`
		} `envPrefix:"SMTP_"`
	} `envPrefix:"EMAIL_"`
	Seed struct {
		Engineers int `env:"ENGINEERS" envDefault:"8"`
	} `envPrefix:"SEED_"`
}

func LoadConfig() (*Config, error) {
	// .env 文件是可选的，不存在时直接读取环境变量
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// 只返回第一个错误使得日志更清晰
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *Config) validate() error {
	if !slices.Contains([]string{"file", "postgres"}, cfg.Store.Driver) {
		return fmt.Errorf("不支持的存储驱动 %q", cfg.Store.Driver)
	}
	if cfg.Store.Driver == "postgres" && cfg.Database.DSN == "" {
		return errors.New("使用 postgres 存储时必须设置 DATABASE_DSN")
	}
	if !slices.Contains([]string{"local", "minio"}, cfg.Artifacts.Driver) {
		return fmt.Errorf("不支持的导出文件存储驱动 %q", cfg.Artifacts.Driver)
	}
	if len(cfg.Schedule.Workplaces) == 0 {
		return errors.New("至少需要配置一个工作地点")
	}
	return nil
}
