package chain

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/GuiltyMorishita/habomailang-api/internal/fragment"

	_ "github.com/mattn/go-sqlite3"
)

// Chain は保存された3つ組とその出現回数です
type Chain struct {
	Prefix1 string
	Prefix2 string
	Suffix  string
	Freq    int
}

// Store は3つ組の出現回数をSQLiteに保存します
type Store struct {
	db *sql.DB
}

// OpenStore はdbPathのSQLiteを開き、スキーマを作成します
func OpenStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// OpenStoreReadOnly は既存のdbPathを読み取り専用で開きます。
// ファイルが存在しない場合は新たに作らずエラーを返す。
func OpenStoreReadOnly(dbPath string) (*Store, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db, err := sql.Open("sqlite3", "file:"+dbPath+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS chain_freqs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			category TEXT NOT NULL,
			level INTEGER NOT NULL,
			prefix1 TEXT NOT NULL,
			prefix2 TEXT NOT NULL,
			suffix TEXT NOT NULL,
			freq INTEGER NOT NULL,
			UNIQUE(category, level, prefix1, prefix2, suffix)
		);

		CREATE INDEX IF NOT EXISTS idx_chain_prefix ON chain_freqs(category, level, prefix1, prefix2);
	`)
	return err
}

// Close はDB接続を閉じます
func (s *Store) Close() error {
	return s.db.Close()
}

// Save は3つ組ごとの出現回数を保存します。
// init が true の場合はカテゴリ・レベルの既存チェーンを消してから保存し、
// false の場合は既存の出現回数に加算する。
func (s *Store) Save(ctx context.Context, category fragment.Category, level int, freqs map[Triplet]int, init bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if init {
		if _, err := tx.ExecContext(ctx, `DELETE FROM chain_freqs WHERE category = ? AND level = ?`, category, level); err != nil {
			return fmt.Errorf("clear chain: %w", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chain_freqs (category, level, prefix1, prefix2, suffix, freq)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(category, level, prefix1, prefix2, suffix)
		DO UPDATE SET freq = freq + excluded.freq
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for t, freq := range freqs {
		if _, err := stmt.ExecContext(ctx, category, level, t[0], t[1], t[2], freq); err != nil {
			return fmt.Errorf("insert triplet %v: %w", t, err)
		}
	}

	return tx.Commit()
}

// Next は (prefix1, prefix2) に続く3つ組を返します
func (s *Store) Next(ctx context.Context, category fragment.Category, level int, prefix1, prefix2 string) ([]Chain, error) {
	return s.query(ctx, `
		SELECT prefix1, prefix2, suffix, freq FROM chain_freqs
		WHERE category = ? AND level = ? AND prefix1 = ? AND prefix2 = ?
		ORDER BY id
	`, category, level, prefix1, prefix2)
}

// Starts は文頭の3つ組を返します
func (s *Store) Starts(ctx context.Context, category fragment.Category, level int) ([]Chain, error) {
	return s.query(ctx, `
		SELECT prefix1, prefix2, suffix, freq FROM chain_freqs
		WHERE category = ? AND level = ? AND prefix1 = ?
		ORDER BY id
	`, category, level, Begin)
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]Chain, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query chains: %w", err)
	}
	defer rows.Close()

	var chains []Chain
	for rows.Next() {
		var c Chain
		if err := rows.Scan(&c.Prefix1, &c.Prefix2, &c.Suffix, &c.Freq); err != nil {
			return nil, fmt.Errorf("scan chain: %w", err)
		}
		chains = append(chains, c)
	}
	return chains, rows.Err()
}
