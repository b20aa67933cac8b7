// Package store はgormを使った文章断片ストアを提供します
package store

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/GuiltyMorishita/habomailang-api/internal/fragment"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Policy は同じレベルに複数の断片がある場合の選択方針です
type Policy string

const (
	// PolicyFirst はid順で最初の断片を返します（決定的）
	PolicyFirst Policy = "first"
	// PolicyRandom は一致した断片から一様ランダムに1件返します
	PolicyRandom Policy = "random"
)

// ParsePolicy は文字列をPolicyに変換します
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case PolicyFirst, PolicyRandom:
		return p, nil
	}
	return "", fmt.Errorf("unknown selection policy: %q", s)
}

// Fragment は noodles/soups/porks テーブルの1行を表します
type Fragment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Level     int       `gorm:"not null;default:3;index" json:"level"`
	Sentence  string    `gorm:"not null" json:"sentence"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LevelCount はレベルごとの断片数です
type LevelCount struct {
	Level int   `json:"level"`
	Count int64 `json:"count"`
}

// Store は文章断片の読み取りとシード投入を行います
type Store struct {
	db     *gorm.DB
	intn   func(n int) int
	logger *zap.SugaredLogger
}

// Option はStoreの生成オプションです
type Option func(*Store)

// WithIntN はランダム選択に使う関数を差し替えます（テスト用）
func WithIntN(fn func(n int) int) Option {
	return func(s *Store) {
		s.intn = fn
	}
}

// Open は指定ドライバでDBに接続し、テーブルをマイグレーションします
func Open(driver, dsn string, logger *zap.Logger, opts ...Option) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newGormLogger(logger),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := NewWithDB(db, logger, opts...)
	if err := s.Migrate(); err != nil {
		s.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	s.logger.Infow("Store opened", "driver", driver)
	return s, nil
}

// NewWithDB は既存のgorm接続からStoreを生成します
func NewWithDB(db *gorm.DB, logger *zap.Logger, opts ...Option) *Store {
	s := &Store{
		db:     db,
		intn:   rand.IntN,
		logger: logger.Named("Store").Sugar(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Migrate は3つの断片テーブルを作成・更新します
func (s *Store) Migrate() error {
	for _, c := range fragment.Categories() {
		if err := s.db.Table(c.Table()).AutoMigrate(&Fragment{}); err != nil {
			return fmt.Errorf("migrate %s: %w", c.Table(), err)
		}
	}
	return nil
}

// Close はDB接続を閉じます
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping はDB接続を確認します
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Lookup はカテゴリとレベルに一致する断片を方針に従って1件返します。
// 一致する断片がない場合は fragment.ErrNotFound を返す。
func (s *Store) Lookup(ctx context.Context, c fragment.Category, level int, policy Policy) (string, error) {
	q := s.db.WithContext(ctx).Table(c.Table()).Where("level = ?", level).Order("id")

	switch policy {
	case PolicyFirst:
		var f Fragment
		if err := q.Take(&f).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", fmt.Errorf("%w: category=%s, level=%d", fragment.ErrNotFound, c, level)
			}
			return "", fmt.Errorf("lookup %s: %w", c.Table(), err)
		}
		return f.Sentence, nil

	case PolicyRandom:
		var sentences []string
		if err := q.Pluck("sentence", &sentences).Error; err != nil {
			return "", fmt.Errorf("lookup %s: %w", c.Table(), err)
		}
		if len(sentences) == 0 {
			return "", fmt.Errorf("%w: category=%s, level=%d", fragment.ErrNotFound, c, level)
		}
		return sentences[s.intn(len(sentences))], nil
	}

	return "", fmt.Errorf("unknown selection policy: %q", policy)
}

// List はカテゴリの断片をid順に返します。level が0の場合は全レベルを返す。
func (s *Store) List(ctx context.Context, c fragment.Category, level int) ([]Fragment, error) {
	q := s.db.WithContext(ctx).Table(c.Table()).Order("id")
	if level > 0 {
		q = q.Where("level = ?", level)
	}

	var fragments []Fragment
	if err := q.Find(&fragments).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", c.Table(), err)
	}
	return fragments, nil
}

// Counts はカテゴリごと・レベルごとの断片数を返します
func (s *Store) Counts(ctx context.Context) (map[fragment.Category][]LevelCount, error) {
	counts := make(map[fragment.Category][]LevelCount)
	for _, c := range fragment.Categories() {
		var rows []LevelCount
		err := s.db.WithContext(ctx).Table(c.Table()).
			Select("level, count(*) AS count").
			Group("level").
			Order("level").
			Scan(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", c.Table(), err)
		}
		counts[c] = rows
	}
	return counts, nil
}

// Seed はシードファイルの断片を投入し、テーブルごとの投入件数を返します。
// 既に行があるテーブルには投入しない。
func (s *Store) Seed(ctx context.Context, f *fragment.SeedFile) (map[fragment.Category]int, error) {
	inserted := make(map[fragment.Category]int)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range fragment.Categories() {
			entries := f.Entries(c)
			if len(entries) == 0 {
				continue
			}

			var existing int64
			if err := tx.Table(c.Table()).Count(&existing).Error; err != nil {
				return fmt.Errorf("count %s: %w", c.Table(), err)
			}
			if existing > 0 {
				s.logger.Infow("Seed skipped: table is not empty", "table", c.Table(), "rows", existing)
				continue
			}

			rows := make([]Fragment, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, Fragment{Level: e.Level, Sentence: e.Sentence})
			}
			if err := tx.Table(c.Table()).Create(&rows).Error; err != nil {
				return fmt.Errorf("insert %s: %w", c.Table(), err)
			}
			inserted[c] = len(rows)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Seed completed",
		"noodles", inserted[fragment.CategoryNoodle],
		"soups", inserted[fragment.CategorySoup],
		"porks", inserted[fragment.CategoryPork])
	return inserted, nil
}
