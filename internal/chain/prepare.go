// Package chain はマルコフ連鎖による文章生成を提供します。
//
// 文章を形態素解析して3つ組（prefix1, prefix2, suffix）の出現回数を数え、
// SQLiteに保存する。生成時は文頭の3つ組から出現回数で重み付けしたランダム選択を
// 文末まで繰り返す。
package chain

import (
	"regexp"
	"strings"
)

// 文頭・文末を表す特殊な形態素
const (
	Begin = "__BEGIN_SENTENCE__"
	End   = "__END_SENTENCE__"
)

// Triplet は連続する3つの形態素です
type Triplet [3]string

// Tokenizer は一文を形態素の配列に分割します
type Tokenizer interface {
	Tokenize(sentence string) []string
}

// delimiter は改行以外の文の区切り文字です
var delimiter = regexp.MustCompile(`(。|．|\.)`)

// Divide は「。」や改行などで区切られた文章を一文ずつに分けます。
// 区切り文字は文末に残し、前後の空白を除去した空でない文のみ返す。
func Divide(text string) []string {
	text = delimiter.ReplaceAllString(text, "$1\n")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var sentences []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		sentences = append(sentences, line)
	}
	return sentences
}

// MakeTriplet は形態素の配列から3つ組とその出現回数を数えます。
// 形態素が3つ未満の場合は空のmapを返す。
func MakeTriplet(morphemes []string) map[Triplet]int {
	freqs := make(map[Triplet]int)
	if len(morphemes) < 3 {
		return freqs
	}

	for i := 0; i+2 < len(morphemes); i++ {
		freqs[Triplet{morphemes[i], morphemes[i+1], morphemes[i+2]}]++
	}

	freqs[Triplet{Begin, morphemes[0], morphemes[1]}] = 1
	n := len(morphemes)
	freqs[Triplet{morphemes[n-2], morphemes[n-1], End}] = 1

	return freqs
}

// MakeTripletFreqs は文章全体を一文ずつ形態素解析し、3つ組の出現回数を合計します
func MakeTripletFreqs(text string, tokenizer Tokenizer) map[Triplet]int {
	freqs := make(map[Triplet]int)
	for _, sentence := range Divide(text) {
		for triplet, n := range MakeTriplet(tokenizer.Tokenize(sentence)) {
			freqs[triplet] += n
		}
	}
	return freqs
}
