package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
)

const (
	StoreBackendSheet    = "sheet"
	StoreBackendPostgres = "postgres"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"3000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	Store struct {
		Backend        string `env:"BACKEND" envDefault:"sheet"`
		URL            string `env:"URL" envDefault:"https://api.sheetbest.com/sheets/a3e58e30-2dc3-4a51-a5b5-47fed1cb7c0d"`
		RequestTimeout int    `env:"REQUEST_TIMEOUT" envDefault:"0"` // 0 表示不设置超时
	} `envPrefix:"STORE_"`
	Database struct {
		DSN            string `env:"DSN"`
		ConnectTimeout int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout   int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		MaxOpenConns   int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns   int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
		MaxIdleTime    int    `env:"MAX_IDLE_TIME" envDefault:"60"`
	} `envPrefix:"DATABASE_"`
	Admin struct {
		// 共享的静态 PIN，只用于控制界面上的审批按钮，不是安全边界
		PIN string `env:"PIN" envDefault:"1234"`
	} `envPrefix:"ADMIN_"`
	Session struct {
		Secret     string `env:"SECRET,required,notEmpty"`
		CookieName string `env:"COOKIE_NAME" envDefault:"__shift_calendar_session"`
		Expiration int    `env:"EXPIRATION" envDefault:"86400"` // 1 天
	} `envPrefix:"SESSION_"`
	Redis struct {
		Host             string `env:"HOST"` // 为空时使用内存存储会话
		Port             int    `env:"PORT" envDefault:"6379"`
		Password         string `env:"PASSWORD"`
		ConnectTimeout   int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		OperationTimeout int    `env:"OPERATION_TIMEOUT" envDefault:"5"`
	} `envPrefix:"REDIS_"`
	RabbitMQ struct {
		DSN            string `env:"DSN"` // 为空时不发送通知
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
	} `envPrefix:"RABBITMQ_"`
	Email struct {
		NotifyTo string `env:"NOTIFY_TO"`
		SMTP     struct {
			Username    string `env:"USERNAME"`
			Password    string `env:"PASSWORD"`
			Host        string `env:"HOST"`
			Port        int    `env:"PORT" envDefault:"465"`
			DialTimeout int    `env:"DIAL_TIMEOUT" envDefault:"10"`
		} `envPrefix:"SMTP_"`
	} `envPrefix:"EMAIL_"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// 只返回第一个错误使得日志更清晰
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	switch cfg.Store.Backend {
	case StoreBackendSheet:
		if cfg.Store.URL == "" {
			return nil, errors.New("STORE_URL 不能为空")
		}
	case StoreBackendPostgres:
		if cfg.Database.DSN == "" {
			return nil, errors.New("使用 postgres 存储时 DATABASE_DSN 不能为空")
		}
	default:
		return nil, errors.New("STORE_BACKEND 只能是 sheet 或 postgres")
	}

	return cfg, nil
}
