package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	RendererTerm     = "term"
	RendererHeadless = "headless"
)

// Config хранит параметры запуска клиента.
// Разрешается один раз в main и передается компонентам явно.
type Config struct {
	ServerURL string `json:"server_url"`
	Login     string `json:"-"`
	Password  string `json:"-"`

	// IsMobile - раскладка для маленьких экранов (крупные кнопки, без hover).
	IsMobile bool `json:"is_mobile"`

	TileWidth  int `json:"tile_width"`
	TileHeight int `json:"tile_height"`

	// FrameEvery - порог кадра анимации, SpriteTickEvery - порог тика спрайтов.
	FrameEvery      Duration `json:"frame_every"`
	SpriteTickEvery Duration `json:"sprite_tick_every"`

	LoadZoneTimeout Duration `json:"load_zone_timeout"`
	HTTPTimeout     Duration `json:"http_timeout"`

	// DebugAddr - адрес debug сервера, пусто - выключен.
	DebugAddr string `json:"debug_addr"`
	Renderer  string `json:"renderer"`
	LogFile   string `json:"log_file"`
	// RecordDir - каталог записей событий зоны, пусто - не записывать.
	RecordDir string `json:"record_dir"`
}

// Duration читается из JSON как строка ("250ms") или число миллисекунд.
type Duration time.Duration

func (d Duration) D() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v, err := time.ParseDuration(s)
		if err != nil {
			return err
		}
		*d = Duration(v)
		return nil
	}
	var ms int64
	if err := json.Unmarshal(data, &ms); err != nil {
		return fmt.Errorf("duration: %w", err)
	}
	*d = Duration(time.Duration(ms) * time.Millisecond)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Default - конфиг по умолчанию.
func Default() Config {
	return Config{
		ServerURL:       "http://127.0.0.1:5000",
		TileWidth:       32,
		TileHeight:      32,
		FrameEvery:      Duration(16 * time.Millisecond),
		SpriteTickEvery: Duration(250 * time.Millisecond),
		LoadZoneTimeout: Duration(30 * time.Second),
		HTTPTimeout:     Duration(10 * time.Second),
		Renderer:        RendererTerm,
	}
}

// Load собирает конфиг: значения по умолчанию, затем JSON файл из ROLLGUI_CONFIG,
// затем переменные окружения.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("ROLLGUI_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return cfg, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("SERVER_ADDRESS"); v != "" {
		c.ServerURL = v
	}
	if v, ok := os.LookupEnv("ROLLGUI_MOBILE"); ok {
		mobile, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("ROLLGUI_MOBILE: %w", err)
		}
		c.IsMobile = mobile
	}
	if v, ok := os.LookupEnv("ROLLGUI_DEBUG_ADDR"); ok {
		c.DebugAddr = v
	}
	if v := os.Getenv("ROLLGUI_RENDERER"); v != "" {
		c.Renderer = strings.ToLower(v)
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		c.LogFile = v
	}
	if v, ok := os.LookupEnv("ROLLGUI_RECORD_DIR"); ok {
		c.RecordDir = v
	}
	return nil
}

// WithCredentials возвращает копию с логином и паролем из флагов.
func (c Config) WithCredentials(login, password string) Config {
	c.Login = login
	c.Password = password
	return c
}

// Validate проверяет то, без чего клиент не запустится.
func (c Config) Validate() error {
	var errs []error
	if c.ServerURL == "" {
		errs = append(errs, errors.New("server url is empty"))
	} else if !strings.HasPrefix(c.ServerURL, "http://") && !strings.HasPrefix(c.ServerURL, "https://") {
		errs = append(errs, fmt.Errorf("server url %q must start with http:// or https://", c.ServerURL))
	}
	if c.TileWidth <= 0 || c.TileHeight <= 0 {
		errs = append(errs, fmt.Errorf("tile size %dx%d must be positive", c.TileWidth, c.TileHeight))
	}
	if c.FrameEvery <= 0 || c.SpriteTickEvery <= 0 {
		errs = append(errs, errors.New("frame pacing must be positive"))
	}
	switch c.Renderer {
	case RendererTerm, RendererHeadless:
	default:
		errs = append(errs, fmt.Errorf("unknown renderer %q", c.Renderer))
	}
	return errors.Join(errs...)
}
