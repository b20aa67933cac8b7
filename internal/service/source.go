package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/GuiltyMorishita/habomailang-api/internal/fragment"
	"github.com/GuiltyMorishita/habomailang-api/internal/store"
)

// FragmentLookup はDBから断片を引くインターフェースです（*store.Store が実装する）
type FragmentLookup interface {
	Lookup(ctx context.Context, category fragment.Category, level int, policy store.Policy) (string, error)
}

// storeSource はDBの断片を使うFragmentSourceです
type storeSource struct {
	lookup FragmentLookup
	policy store.Policy
}

// NewStoreSource はDBの断片を選択方針に従って返すFragmentSourceを生成します
func NewStoreSource(lookup FragmentLookup, policy store.Policy) FragmentSource {
	return &storeSource{
		lookup: lookup,
		policy: policy,
	}
}

// Fragment はDBから断片を1件取得します
func (s *storeSource) Fragment(ctx context.Context, category fragment.Category, level int) (string, error) {
	text, err := s.lookup.Lookup(ctx, category, level, s.policy)
	if err != nil {
		if errors.Is(err, fragment.ErrNotFound) {
			return "", fmt.Errorf("%w: category=%s, level=%d", ErrNoFragmentForLevel, category, level)
		}
		return "", fmt.Errorf("failed to lookup fragment: %w", err)
	}
	return text, nil
}
