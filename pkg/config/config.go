package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/shouni/nft-layer-kit/pkg/generator"
	"github.com/shouni/nft-layer-kit/pkg/imgutil"
)

// Config はコレクション定義ファイルと環境変数から読み込む設定です。
// 優先順位は 環境変数 > YAML > 既定値 です。
type Config struct {
	Name       string        `yaml:"name"`
	Width      int           `yaml:"width" env:"NFTKIT_WIDTH"`
	Height     int           `yaml:"height" env:"NFTKIT_HEIGHT"`
	Ceiling    int           `yaml:"ceiling" env:"NFTKIT_CEILING"`
	Prefix     *string       `yaml:"prefix" env:"NFTKIT_PREFIX"`
	Format     string        `yaml:"format" env:"NFTKIT_FORMAT"`
	Quality    int           `yaml:"quality" env:"NFTKIT_JPEG_QUALITY"`
	Background string        `yaml:"background" env:"NFTKIT_BACKGROUND"`
	CacheTTL   time.Duration `yaml:"cache_ttl" env:"NFTKIT_CACHE_TTL"`

	Access AccessConfig  `yaml:"access"`
	Layers []LayerConfig `yaml:"layers"`

	// baseDir は相対パスの基準となる設定ファイルのディレクトリです。
	baseDir string
}

// AccessConfig はダウンロード前のアクセス確認の設定です。
type AccessConfig struct {
	Enabled  bool          `yaml:"enabled" env:"NFTKIT_ACCESS_ENABLED"`
	Endpoint string        `yaml:"endpoint" env:"NFTKIT_ACCESS_ENDPOINT"`
	Timeout  time.Duration `yaml:"timeout" env:"NFTKIT_ACCESS_TIMEOUT"`
}

// LayerConfig は1レイヤー分の定義です。
type LayerConfig struct {
	Name        string        `yaml:"name"`
	Dir         string        `yaml:"dir"`
	ZIndex      *int          `yaml:"z_index"`
	Enabled     *bool         `yaml:"enabled"`
	LayerRarity *int          `yaml:"layer_rarity"`
	Images      []ImageConfig `yaml:"images"`
}

// ImageConfig は画像ごとのレア度と表示名の上書きです。File はファイル名（拡張子込み）で照合します。
type ImageConfig struct {
	File   string `yaml:"file"`
	Name   string `yaml:"name"`
	Rarity *int   `yaml:"rarity"`
}

const (
	DefaultCacheTTL      = 30 * time.Minute
	DefaultAccessTimeout = 10 * time.Second
)

// Load は YAML を読み込み、環境変数で上書きし、既定値を補って検証します。
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.baseDir = filepath.Dir(path)
	return cfg, nil
}

// Parse はバイト列から設定を組み立てます。
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Width == 0 {
		c.Width = generator.DefaultWidth
	}
	if c.Height == 0 {
		c.Height = generator.DefaultHeight
	}
	if c.Ceiling == 0 {
		c.Ceiling = generator.DefaultCeiling
	}
	if c.Prefix == nil {
		p := generator.DefaultPrefix
		c.Prefix = &p
	}
	if c.Quality == 0 {
		c.Quality = imgutil.DefaultJPEGQuality
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = DefaultCacheTTL
	}
	if c.Access.Timeout == 0 {
		c.Access.Timeout = DefaultAccessTimeout
	}
}

// Validate は設定値の整合性を確認します。
func (c *Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("canvas size must be positive: %dx%d", c.Width, c.Height))
	}
	if _, err := imgutil.ParseFormat(c.Format); err != nil {
		errs = append(errs, err)
	}
	if _, err := imgutil.ParseColor(c.Background); err != nil {
		errs = append(errs, err)
	}
	for i, l := range c.Layers {
		if strings.TrimSpace(l.Name) == "" {
			errs = append(errs, fmt.Errorf("layers[%d]: name is required", i))
		}
		if l.Dir == "" {
			errs = append(errs, fmt.Errorf("layers[%d] %q: dir is required", i, l.Name))
		} else if scheme, ok := uriScheme(l.Dir); ok && scheme != "file" {
			errs = append(errs, fmt.Errorf("layers[%d] %q: unsupported dir scheme %q (local paths and file:// only)", i, l.Name, scheme))
		}
	}
	return errors.Join(errs...)
}

// ResolveDir はレイヤーのディレクトリを設定ファイルからの相対パスとして解決します。
// file:// 付きの URI と絶対パスはそのまま返します。
func (c *Config) ResolveDir(dir string) string {
	if _, ok := uriScheme(dir); ok || filepath.IsAbs(dir) || c.baseDir == "" {
		return dir
	}
	return filepath.Join(c.baseDir, dir)
}

func uriScheme(dir string) (string, bool) {
	scheme, _, ok := strings.Cut(dir, "://")
	if !ok {
		return "", false
	}
	return strings.ToLower(scheme), true
}
