// Package config は環境変数からサーバー設定を読み込みます
package config

import (
	"fmt"
	"time"
	_ "time/tzdata" // Asia/Tokyo をtzdataのない環境でも解決する

	"github.com/caarlos0/env/v11"
)

// 断片の取得元
const (
	SourceStore     = "store"     // DBの断片を使う
	SourceGenerator = "generator" // 外部の文章生成コマンドを使う
)

// 断片の選択方針
const (
	SelectionFirst  = "first"  // 最初の1件（決定的）
	SelectionRandom = "random" // 一様ランダム
)

// 文章のスタイル
const (
	StyleDiary = "diary" // ラベル付き + 完飲。
	StylePlain = "plain" // ラベルなし、締めなし
)

// Config はサーバー全体の設定を保持します
type Config struct {
	ListenAddr     string   `env:"HABOMAI_LISTEN_ADDR"     envDefault:"0.0.0.0:8080"`
	LogLevel       string   `env:"HABOMAI_LOG_LEVEL"       envDefault:"info"`
	AllowedOrigins []string `env:"HABOMAI_ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`
	TimeZone       string   `env:"HABOMAI_TIME_ZONE"       envDefault:"Asia/Tokyo"`

	Database  DatabaseConfig
	Sentence  SentenceConfig
	Generator GeneratorConfig

	// NtfyTopic が設定されている場合、生成失敗時にntfy.shへ通知する
	NtfyTopic string `env:"NTFY_TOPIC"`
}

// DatabaseConfig は断片ストアのDB設定です
type DatabaseConfig struct {
	Driver   string `env:"HABOMAI_DB_DRIVER"  envDefault:"sqlite"`
	DSN      string `env:"HABOMAI_DB_DSN"     envDefault:"habomailang.db"`
	SeedFile string `env:"HABOMAI_SEED_FILE"`
}

// SentenceConfig は文章組み立ての設定です
type SentenceConfig struct {
	Source       string `env:"HABOMAI_FRAGMENT_SOURCE" envDefault:"store"`
	Selection    string `env:"HABOMAI_SELECTION"       envDefault:"random"`
	Style        string `env:"HABOMAI_STYLE"           envDefault:"diary"`
	DefaultLevel int    `env:"HABOMAI_DEFAULT_LEVEL"   envDefault:"1"`
	MaxLevel     int    `env:"HABOMAI_MAX_LEVEL"       envDefault:"5"`
}

// GeneratorConfig は外部文章生成コマンドの設定です
type GeneratorConfig struct {
	// Command は実行するコマンドと固定引数。--category/--level/--output が追加される
	Command []string      `env:"HABOMAI_GENERATOR_COMMAND" envDefault:"textgen generate --db chain.db" envSeparator:" "`
	WorkDir string        `env:"HABOMAI_GENERATOR_WORK_DIR"`
	Timeout time.Duration `env:"HABOMAI_GENERATOR_TIMEOUT" envDefault:"10s"`
}

// Load は環境変数から設定を読み込み、検証します
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate は設定値の組み合わせを検証します
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver: %q", c.Database.Driver)
	}

	switch c.Sentence.Source {
	case SourceStore, SourceGenerator:
	default:
		return fmt.Errorf("unsupported fragment source: %q", c.Sentence.Source)
	}

	switch c.Sentence.Selection {
	case SelectionFirst, SelectionRandom:
	default:
		return fmt.Errorf("unsupported selection: %q", c.Sentence.Selection)
	}

	switch c.Sentence.Style {
	case StyleDiary, StylePlain:
	default:
		return fmt.Errorf("unsupported style: %q", c.Sentence.Style)
	}

	if c.Sentence.MaxLevel < 1 {
		return fmt.Errorf("max level must be positive: %d", c.Sentence.MaxLevel)
	}
	if c.Sentence.DefaultLevel < 1 || c.Sentence.DefaultLevel > c.Sentence.MaxLevel {
		return fmt.Errorf("default level out of range: %d (1..%d)", c.Sentence.DefaultLevel, c.Sentence.MaxLevel)
	}

	if c.Sentence.Source == SourceGenerator {
		if len(c.Generator.Command) == 0 || c.Generator.Command[0] == "" {
			return fmt.Errorf("generator command is required when fragment source is %q", SourceGenerator)
		}
		if c.Generator.Timeout <= 0 {
			return fmt.Errorf("generator timeout must be positive: %v", c.Generator.Timeout)
		}
	}

	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location は日付の算出に使うタイムゾーンを返します
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}
