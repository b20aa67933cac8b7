package chain

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/GuiltyMorishita/habomailang-api/internal/fragment"
)

// ErrNoChain は指定カテゴリ・レベルのチェーンが存在しないことを表します
var ErrNoChain = errors.New("no chain for category and level")

// DefaultMaxMorphemes は1文あたりの形態素数の上限です
const DefaultMaxMorphemes = 100

// Generator は保存済みチェーンから文章を生成します
type Generator struct {
	store        *Store
	intn         func(n int) int
	maxMorphemes int
}

// NewGenerator は新しいGeneratorを生成します
func NewGenerator(store *Store) *Generator {
	return &Generator{
		store:        store,
		intn:         rand.IntN,
		maxMorphemes: DefaultMaxMorphemes,
	}
}

// Generate はカテゴリ・レベルのチェーンから1文を生成します。
// チェーンがない場合は ErrNoChain を返す。
func (g *Generator) Generate(ctx context.Context, category fragment.Category, level int) (string, error) {
	starts, err := g.store.Starts(ctx, category, level)
	if err != nil {
		return "", err
	}
	if len(starts) == 0 {
		return "", fmt.Errorf("%w: category=%s, level=%d", ErrNoChain, category, level)
	}

	first := g.pick(starts)
	morphemes := []string{first.Prefix2, first.Suffix}

	for morphemes[len(morphemes)-1] != End && len(morphemes) < g.maxMorphemes {
		n := len(morphemes)
		chains, err := g.store.Next(ctx, category, level, morphemes[n-2], morphemes[n-1])
		if err != nil {
			return "", err
		}
		// 続きがない場合はそこで文を終える
		if len(chains) == 0 {
			break
		}
		morphemes = append(morphemes, g.pick(chains).Suffix)
	}

	if morphemes[len(morphemes)-1] == End {
		morphemes = morphemes[:len(morphemes)-1]
	}

	sentence := strings.Join(morphemes, "")
	return strings.Join(strings.Fields(sentence), " "), nil
}

// pick は出現回数で重み付けして3つ組を1つ選びます
func (g *Generator) pick(chains []Chain) Chain {
	total := 0
	for _, c := range chains {
		total += c.Freq
	}
	if total <= 0 {
		return chains[g.intn(len(chains))]
	}

	r := g.intn(total)
	for _, c := range chains {
		if r < c.Freq {
			return c
		}
		r -= c.Freq
	}
	return chains[len(chains)-1]
}
