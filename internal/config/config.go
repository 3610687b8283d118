package config

import (
	"errors"
	"fmt"
	"time"

	"image-watermarker/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/wb-go/wbf/retry"
)

type Config struct {
	Watermark Watermark `yaml:"watermark"`
	Pipeline  Pipeline  `yaml:"pipeline"`
	Ledger    Ledger    `yaml:"ledger"`
	DB        DB        `yaml:"db"`
	Storage   Storage   `yaml:"storage"`
	Kafka     Kafka     `yaml:"kafka"`
	Server    Server    `yaml:"server"`
	Retry     Retry     `yaml:"retry"`
}

type Watermark struct {
	Mode      string  `yaml:"mode" env:"WATERMARK_MODE" env-default:"image" validate:"oneof=image text"`
	Opacity   float64 `yaml:"opacity" env:"WATERMARK_OPACITY" env-default:"0.5" validate:"gte=0,lte=1"`
	Scale     float64 `yaml:"scale" env:"WATERMARK_SCALE" env-default:"0.1" validate:"gte=0,lte=1"`
	PositionX float64 `yaml:"position_x" env:"WATERMARK_POSITION_X" env-default:"1" validate:"gte=0,lte=1"`
	PositionY float64 `yaml:"position_y" env:"WATERMARK_POSITION_Y" env-default:"1" validate:"gte=0,lte=1"`
	Angle     float64 `yaml:"angle" env:"WATERMARK_ANGLE" env-default:"0"`
	MarginX   int     `yaml:"margin_x" env:"WATERMARK_MARGIN_X" env-default:"10"`
	MarginY   int     `yaml:"margin_y" env:"WATERMARK_MARGIN_Y" env-default:"10"`

	LightAsset     string `yaml:"light_asset" env:"WATERMARK_LIGHT_ASSET" env-default:"patterns/white.png"`
	DarkAsset      string `yaml:"dark_asset" env:"WATERMARK_DARK_ASSET" env-default:"patterns/black.png"`
	DefaultVariant string `yaml:"default_variant" env:"WATERMARK_DEFAULT_VARIANT" env-default:"dark" validate:"oneof=light dark"`

	Text        string  `yaml:"text" env:"WATERMARK_TEXT" env-default:"watermark"`
	FontPath    string  `yaml:"font_path" env:"WATERMARK_FONT_PATH"`
	FontScale   float64 `yaml:"font_scale" env:"WATERMARK_FONT_SCALE" validate:"gte=0,lte=1"`
	FontSize    int     `yaml:"font_size" env:"WATERMARK_FONT_SIZE" validate:"gte=0"`
	Color       string  `yaml:"color" env:"WATERMARK_COLOR" env-default:"255,255,255"`
	Align       string  `yaml:"align" env:"WATERMARK_ALIGN" env-default:"center" validate:"oneof=left center right"`
	UseStroke   bool    `yaml:"use_stroke" env:"WATERMARK_USE_STROKE" env-default:"true"`
	StrokeColor string  `yaml:"stroke_color" env:"WATERMARK_STROKE_COLOR" env-default:"255,125,0"`
	StrokeWidth int     `yaml:"stroke_width" env:"WATERMARK_STROKE_WIDTH" env-default:"3" validate:"gte=0"`
}

type Pipeline struct {
	InputDir     string        `yaml:"input_dir" env:"PIPELINE_INPUT_DIR" env-default:"images" validate:"required"`
	OutputDir    string        `yaml:"output_dir" env:"PIPELINE_OUTPUT_DIR" env-default:"watermarked" validate:"required"`
	LedgerPath   string        `yaml:"ledger_path" env:"PIPELINE_LEDGER_PATH" env-default:"images/.done.txt" validate:"required"`
	Interval     time.Duration `yaml:"interval" env:"PIPELINE_INTERVAL" env-default:"5s" validate:"gt=0"`
	JPEGQuality  int           `yaml:"jpeg_quality" env:"PIPELINE_JPEG_QUALITY" env-default:"85" validate:"gte=1,lte=100"`
	ResetOnStart bool          `yaml:"reset_ledger_on_start" env:"PIPELINE_RESET_LEDGER_ON_START" env-default:"false"`
}

type Ledger struct {
	Backend string `yaml:"backend" env:"LEDGER_BACKEND" env-default:"file" validate:"oneof=file postgres"`
	Table   string `yaml:"table" env:"LEDGER_TABLE" env-default:"watermark_ledger"`
}

type DB struct {
	Host            string        `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port            int           `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User            string        `yaml:"user" env:"DB_USER" env-default:"postgres"`
	Password        string        `yaml:"password" env:"DB_PASSWORD" env-default:"postgres"`
	Name            string        `yaml:"name" env:"DB_NAME" env-default:"watermarker"`
	SSLMode         string        `yaml:"ssl_mode" env:"DB_SSL_MODE" env-default:"disable"`
	MaxOpenConns    int           `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"5"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"2"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME" env-default:"5m"`
}

type Storage struct {
	Enabled   bool   `yaml:"enabled" env:"STORAGE_ENABLED" env-default:"false"`
	Endpoint  string `yaml:"endpoint" env:"STORAGE_ENDPOINT" validate:"required_if=Enabled true"`
	AccessKey string `yaml:"access_key" env:"STORAGE_ACCESS_KEY" validate:"required_if=Enabled true"`
	SecretKey string `yaml:"secret_key" env:"STORAGE_SECRET_KEY" validate:"required_if=Enabled true"`
	Bucket    string `yaml:"bucket" env:"STORAGE_BUCKET" env-default:"watermarked"`
	Prefix    string `yaml:"prefix" env:"STORAGE_PREFIX" env-default:"watermarked/"`
	UseSSL    bool   `yaml:"use_ssl" env:"STORAGE_USE_SSL" env-default:"false"`
}

type Kafka struct {
	Enabled bool     `yaml:"enabled" env:"KAFKA_ENABLED" env-default:"false"`
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:"," env-default:"localhost:9092" validate:"required_if=Enabled true"`
	Topic   string   `yaml:"topic" env:"KAFKA_TOPIC" env-default:"watermark-passes"`
}

type Server struct {
	Enabled         bool          `yaml:"enabled" env:"SERVER_ENABLED" env-default:"false"`
	Addr            string        `yaml:"addr" env:"SERVER_ADDR" env-default:":8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" env-default:"5s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type Retry struct {
	Attempts int           `yaml:"attempts" env:"RETRY_ATTEMPTS" env-default:"3" validate:"gte=1"`
	Delay    time.Duration `yaml:"delay" env:"RETRY_DELAY" env-default:"200ms"`
	Backoff  float64       `yaml:"backoff" env:"RETRY_BACKOFF" env-default:"2"`
}

// MustLoad reads the config file at path (if any) and overlays environment
// variables. The returned config is always validated.
func MustLoad(path string) (*Config, error) {
	var cfg Config

	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &ConfigurationError{
				Field:  fe.Namespace(),
				Reason: fmt.Sprintf("failed %q rule (value %v)", fe.Tag(), fe.Value()),
			}
		}
		return &ConfigurationError{Reason: err.Error()}
	}

	w := c.Watermark
	switch domain.Mode(w.Mode) {
	case domain.ModeText:
		if w.FontScale > 0 && w.FontSize > 0 {
			return &ConfigurationError{
				Field:  "Config.Watermark.FontScale",
				Reason: "provide only font_scale or font_size, not both",
			}
		}
		if w.FontScale == 0 && w.FontSize == 0 {
			return &ConfigurationError{
				Field:  "Config.Watermark.FontScale",
				Reason: "provide font_scale or font_size",
			}
		}
		if w.Text == "" {
			return &ConfigurationError{Field: "Config.Watermark.Text", Reason: "text is required in text mode"}
		}
		if _, err := domain.ParseRGB(w.Color); err != nil {
			return &ConfigurationError{Field: "Config.Watermark.Color", Reason: err.Error()}
		}
		if w.UseStroke {
			if _, err := domain.ParseRGB(w.StrokeColor); err != nil {
				return &ConfigurationError{Field: "Config.Watermark.StrokeColor", Reason: err.Error()}
			}
		}
	case domain.ModeImage:
		if w.LightAsset == "" || w.DarkAsset == "" {
			return &ConfigurationError{
				Field:  "Config.Watermark.LightAsset",
				Reason: "both light and dark assets are required in image mode",
			}
		}
	}

	return nil
}

// WatermarkConfig converts the validated settings into the immutable value
// consumed by the compositing engine.
func (c *Config) WatermarkConfig() (domain.WatermarkConfig, error) {
	w := c.Watermark

	wc := domain.WatermarkConfig{
		Mode:     domain.Mode(w.Mode),
		Opacity:  w.Opacity,
		Scale:    w.Scale,
		Position: domain.Position{X: w.PositionX, Y: w.PositionY},
		Angle:    w.Angle,
		Margin:   domain.Margin{X: w.MarginX, Y: w.MarginY},
		Assets: domain.Assets{
			LightPath: w.LightAsset,
			DarkPath:  w.DarkAsset,
			Default:   domain.Variant(w.DefaultVariant),
		},
		Text: domain.TextStyle{
			Text:      w.Text,
			FontPath:  w.FontPath,
			FontScale: w.FontScale,
			FontSize:  w.FontSize,
			Align:     domain.Align(w.Align),
			Stroke: domain.Stroke{
				Enabled: w.UseStroke,
				Width:   w.StrokeWidth,
			},
		},
	}

	if wc.Mode == domain.ModeText {
		col, err := domain.ParseRGB(w.Color)
		if err != nil {
			return domain.WatermarkConfig{}, &ConfigurationError{Field: "Config.Watermark.Color", Reason: err.Error()}
		}
		wc.Text.Color = col

		if w.UseStroke {
			stroke, err := domain.ParseRGB(w.StrokeColor)
			if err != nil {
				return domain.WatermarkConfig{}, &ConfigurationError{Field: "Config.Watermark.StrokeColor", Reason: err.Error()}
			}
			wc.Text.Stroke.Color = stroke
		}
	}

	return wc, nil
}

func (c *Config) DefaultRetryStrategy() retry.Strategy {
	return retry.Strategy{
		Attempts: c.Retry.Attempts,
		Delay:    c.Retry.Delay,
		Backoff:  c.Retry.Backoff,
	}
}

func (c *Config) DBDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Name, c.DB.SSLMode)
}
