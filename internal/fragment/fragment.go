// Package fragment は具材カテゴリ・レベル・シードファイルなど、文章断片の共通定義を提供します
package fragment

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNotFound は指定カテゴリ・レベルの断片が存在しないことを表します
var ErrNotFound = errors.New("fragment not found")

// DefaultSeedLevel はシードファイルでレベル省略時に使用するレベルです（テーブルのデフォルト値と同じ）
const DefaultSeedLevel = 3

// Category は具材カテゴリを表します
type Category string

// 具材カテゴリ
const (
	CategoryNoodle Category = "noodle" // 麺
	CategorySoup   Category = "soup"   // スープ
	CategoryPork   Category = "pork"   // ブタ
)

// Categories は文章に並べる順序で全カテゴリを返します
func Categories() []Category {
	return []Category{CategoryNoodle, CategorySoup, CategoryPork}
}

// ParseCategory は文字列をCategoryに変換します
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case CategoryNoodle, CategorySoup, CategoryPork:
		return c, nil
	}
	return "", fmt.Errorf("unknown category: %q", s)
}

// Table はカテゴリに対応するテーブル名を返します
func (c Category) Table() string {
	switch c {
	case CategoryNoodle:
		return "noodles"
	case CategorySoup:
		return "soups"
	case CategoryPork:
		return "porks"
	}
	return ""
}

// Label は日記の各行の先頭に付けるラベルを返します
func (c Category) Label() string {
	switch c {
	case CategoryNoodle:
		return "麺："
	case CategorySoup:
		return "スープ："
	case CategoryPork:
		return "ブタ："
	}
	return ""
}

// Entry はシードファイルの1エントリを表します
type Entry struct {
	Level    int    `yaml:"level"`    // レベル（省略時は3）
	Sentence string `yaml:"sentence"` // 文章断片
}

// SeedFile はシードファイル全体を表します
type SeedFile struct {
	Noodle []Entry `yaml:"noodle"`
	Soup   []Entry `yaml:"soup"`
	Pork   []Entry `yaml:"pork"`
}

// Entries はカテゴリのエントリを返します
func (f *SeedFile) Entries(c Category) []Entry {
	switch c {
	case CategoryNoodle:
		return f.Noodle
	case CategorySoup:
		return f.Soup
	case CategoryPork:
		return f.Pork
	}
	return nil
}

// ByLevel はカテゴリのエントリをレベルごとの文章にまとめます
func (f *SeedFile) ByLevel(c Category) map[int][]string {
	levels := make(map[int][]string)
	for _, e := range f.Entries(c) {
		levels[e.Level] = append(levels[e.Level], e.Sentence)
	}
	return levels
}

// LoadSeedFile はYAMLのシードファイルを読み込みます
func LoadSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed はYAMLをパースし、レベルの補完と文章の検証を行います
func ParseSeed(data []byte) (*SeedFile, error) {
	var f SeedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	for _, c := range Categories() {
		entries := f.Entries(c)
		for i := range entries {
			entries[i].Sentence = strings.TrimSpace(entries[i].Sentence)
			if entries[i].Sentence == "" {
				return nil, fmt.Errorf("%s[%d]: sentence is empty", c, i)
			}
			if entries[i].Level == 0 {
				entries[i].Level = DefaultSeedLevel
			}
			if entries[i].Level < 0 {
				return nil, fmt.Errorf("%s[%d]: level must be positive: %d", c, i, entries[i].Level)
			}
		}
	}

	return &f, nil
}

// ExitCodeNotFound は文章生成コマンドがチェーン（断片）を見つけられなかった場合の終了コードです
const ExitCodeNotFound = 3
