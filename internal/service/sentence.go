package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/GuiltyMorishita/habomailang-api/internal/fragment"
	"github.com/GuiltyMorishita/habomailang-api/internal/wareki"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/width"
)

// SentenceService はラーメン日記の文章生成のインターフェースを定義します
type SentenceService interface {
	// Generate はリクエストを検証し、断片を取得して文章を組み立てます
	Generate(ctx context.Context, req SentenceRequest) (*SentenceResult, error)
}

// SentenceOptions はSentenceServiceの設定です
type SentenceOptions struct {
	Style        Style
	DefaultLevel int              // レベル省略時のレベル
	MaxLevel     int              // 指定可能なレベルの上限
	Location     *time.Location   // 日付の算出に使うタイムゾーン（nilの場合はJST）
	Now          func() time.Time // 現在時刻（nilの場合はtime.Now）
}

// sentenceServiceImpl はSentenceServiceの実装です
type sentenceServiceImpl struct {
	source FragmentSource
	opts   SentenceOptions
	logger *zap.SugaredLogger
}

// NewSentenceService は新しいSentenceServiceを生成します
func NewSentenceService(source FragmentSource, opts SentenceOptions, logger *zap.Logger) SentenceService {
	if opts.Location == nil {
		opts.Location = time.FixedZone("JST", 9*60*60)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.DefaultLevel == 0 {
		opts.DefaultLevel = 1
	}
	if opts.MaxLevel == 0 {
		opts.MaxLevel = 5
	}
	return &sentenceServiceImpl{
		source: source,
		opts:   opts,
		logger: logger.Named("SentenceService").Sugar(),
	}
}

// Generate はリクエストを検証し、断片を取得して文章を組み立てます
func (s *sentenceServiceImpl) Generate(ctx context.Context, req SentenceRequest) (*SentenceResult, error) {
	input, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Generate started",
		"shop_name", input.ShopName,
		"menu", input.Menu,
		"levels", input.Levels)

	// 3つの断片はそれぞれ独立に取得し、結果は添字で受け取る
	categories := fragment.Categories()
	fragments := make([]string, len(categories))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range categories {
		g.Go(func() error {
			text, err := s.source.Fragment(gctx, c, input.Levels[c])
			if err != nil {
				return err
			}
			fragments[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Warnw("Generate failed", "shop_name", input.ShopName, "error", err)
		return nil, err
	}

	date := wareki.DiaryDate(s.opts.Now().In(s.opts.Location))
	sentence := BuildSentence(date, input, fragments, s.opts.Style)

	s.logger.Infow("Generate completed", "shop_name", input.ShopName, "length", len(sentence))

	return &SentenceResult{
		Sentence: sentence,
		Date:     date,
		Levels:   input.Levels,
	}, nil
}

// validate はリクエストを検証し、正規化した入力を返します
func (s *sentenceServiceImpl) validate(req SentenceRequest) (*SentenceInput, error) {
	input := &SentenceInput{
		ShopName: strings.TrimSpace(req.ShopName),
		Menu:     strings.TrimSpace(req.Menu),
		Topping:  strings.TrimSpace(req.Topping),
		Levels:   make(map[fragment.Category]int, 3),
	}

	if input.ShopName == "" {
		return nil, missing("shop_name")
	}
	if input.Menu == "" {
		return nil, missing("menu")
	}

	price, err := normalizePrice(req.Price)
	if err != nil {
		return nil, err
	}
	input.Price = price

	rawLevels := map[fragment.Category]string{
		fragment.CategoryNoodle: req.NoodleLevel,
		fragment.CategorySoup:   req.SoupLevel,
		fragment.CategoryPork:   req.PorkLevel,
	}
	for _, c := range fragment.Categories() {
		level, err := s.parseLevel(string(c)+"_level", rawLevels[c])
		if err != nil {
			return nil, err
		}
		input.Levels[c] = level
	}

	return input, nil
}

// parseLevel はレベルを検証します。省略時はデフォルトレベルを使う。
func (s *sentenceServiceImpl) parseLevel(param, raw string) (int, error) {
	raw = strings.TrimSpace(width.Fold.String(raw))
	if raw == "" {
		return s.opts.DefaultLevel, nil
	}

	level, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalid(param, "not an integer: %q", raw)
	}
	if level < 1 || level > s.opts.MaxLevel {
		return 0, invalid(param, "out of range: %d (1..%d)", level, s.opts.MaxLevel)
	}
	return level, nil
}

// normalizePrice は価格を半角数字に正規化します。
// 全角数字・桁区切りのカンマ・末尾の「円」「YEN」を許容する。
func normalizePrice(raw string) (string, error) {
	price := strings.TrimSpace(width.Fold.String(raw))
	if price == "" {
		return "", missing("price")
	}

	price = strings.TrimSuffix(price, "円")
	if strings.HasSuffix(strings.ToUpper(price), "YEN") {
		price = price[:len(price)-len("YEN")]
	}
	price = strings.ReplaceAll(strings.TrimSpace(price), ",", "")

	if _, err := strconv.ParseUint(price, 10, 64); err != nil {
		return "", invalid("price", "not a non-negative integer: %q", raw)
	}
	return price, nil
}

// BuildSentence は日付・店名・メニュー・価格と3つの断片から文章を組み立てます。
// fragments は fragment.Categories() と同じ順序で渡す。
func BuildSentence(date string, input *SentenceInput, fragments []string, style Style) string {
	var b strings.Builder

	b.WriteString(date)
	b.WriteString("、")
	b.WriteString(input.ShopName)
	b.WriteString("、")
	b.WriteString(input.Menu)
	if input.Topping != "" {
		b.WriteString(" ")
		b.WriteString(input.Topping)
	}
	b.WriteString(" ")
	b.WriteString(input.Price)
	b.WriteString("YEN\n")

	for i, c := range fragment.Categories() {
		if i > 0 {
			b.WriteString("\n")
		}
		if style.Labels {
			b.WriteString(c.Label())
		}
		if i < len(fragments) {
			b.WriteString(fragments[i])
		}
	}

	if style.Closing != "" {
		b.WriteString("\n")
		b.WriteString(style.Closing)
	}

	return b.String()
}
