package chain

import (
	"fmt"
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// KagomeTokenizer はkagome（IPA辞書）による形態素解析器です
type KagomeTokenizer struct {
	t *tokenizer.Tokenizer
}

// NewKagomeTokenizer はIPA辞書を読み込んだTokenizerを生成します
func NewKagomeTokenizer() (*KagomeTokenizer, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("failed to create tokenizer: %w", err)
	}
	return &KagomeTokenizer{t: t}, nil
}

// Tokenize は一文を形態素の表層形に分割します。空白のみの形態素は除く。
func (k *KagomeTokenizer) Tokenize(sentence string) []string {
	tokens := k.t.Tokenize(sentence)
	morphemes := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if strings.TrimSpace(token.Surface) == "" {
			continue
		}
		morphemes = append(morphemes, token.Surface)
	}
	return morphemes
}
