package chain

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/GuiltyMorishita/habomailang-api/internal/fragment"
)

// BuildResult はカテゴリ・レベルごとのチェーン作成結果です
type BuildResult struct {
	Category fragment.Category
	Level    int
	Triplets int
}

// BuildFromSeed はシードファイルの文章からカテゴリ・レベルごとにチェーンを作成して保存します
func BuildFromSeed(ctx context.Context, store *Store, tokenizer Tokenizer, seed *fragment.SeedFile, init bool) ([]BuildResult, error) {
	var results []BuildResult
	for _, c := range fragment.Categories() {
		byLevel := seed.ByLevel(c)

		levels := make([]int, 0, len(byLevel))
		for level := range byLevel {
			levels = append(levels, level)
		}
		sort.Ints(levels)

		for _, level := range levels {
			freqs := MakeTripletFreqs(strings.Join(byLevel[level], "\n"), tokenizer)
			if len(freqs) == 0 {
				continue
			}
			if err := store.Save(ctx, c, level, freqs, init); err != nil {
				return results, fmt.Errorf("save chain %s/%d: %w", c, level, err)
			}
			results = append(results, BuildResult{Category: c, Level: level, Triplets: len(freqs)})
		}
	}
	return results, nil
}
