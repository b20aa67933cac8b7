package service

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/GuiltyMorishita/habomailang-api/internal/fragment"

	"go.uber.org/zap"
)

// GeneratorOptions は外部の文章生成コマンドの設定です
type GeneratorOptions struct {
	Command []string      // コマンドと固定引数
	WorkDir string        // 出力ファイルを作るディレクトリ（空の場合はos.TempDir）
	Timeout time.Duration // 1回の実行のタイムアウト
}

// generatorServiceImpl は外部コマンドで断片を生成するFragmentSourceです
type generatorServiceImpl struct {
	opts     GeneratorOptions
	notifier NtfyService
	logger   *zap.SugaredLogger
}

// NewGeneratorService は外部コマンドを実行して断片を生成するFragmentSourceを生成します。
// notifier がnilでない場合、生成失敗時に通知を送る。
func NewGeneratorService(opts GeneratorOptions, notifier NtfyService, logger *zap.Logger) FragmentSource {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	return &generatorServiceImpl{
		opts:     opts,
		notifier: notifier,
		logger:   logger.Named("GeneratorService").Sugar(),
	}
}

// Fragment は外部コマンドを実行し、出力ファイルの1行目を断片として返します。
//
// 出力ファイルは呼び出しごとに一意な一時ファイルで、読み取り後に削除する。
// 同時に実行されたリクエスト同士が互いの出力を読むことはない。
func (s *generatorServiceImpl) Fragment(ctx context.Context, category fragment.Category, level int) (string, error) {
	text, err := s.generate(ctx, category, level)
	if err != nil {
		s.logger.Warnw("Fragment failed", "category", category, "level", level, "error", err)
		if s.notifier != nil && errors.Is(err, ErrGeneratorFailure) {
			s.notifier.NotifyError(failureTitle, failureMessage(category, level, err))
		}
		return "", err
	}
	return text, nil
}

func (s *generatorServiceImpl) generate(ctx context.Context, category fragment.Category, level int) (string, error) {
	if len(s.opts.Command) == 0 {
		return "", fmt.Errorf("%w: generator command is not configured", ErrGeneratorFailure)
	}

	// タイムアウト付きコンテキストを作成
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	outputPath, cleanup, err := s.createOutputFile(category)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneratorFailure, err)
	}
	defer cleanup()

	args := append(slices.Clone(s.opts.Command[1:]),
		"--category", string(category),
		"--level", strconv.Itoa(level),
		"--output", outputPath,
	)

	s.logger.Debugw("Executing generator", "command", s.opts.Command[0], "args", args)

	cmd := exec.CommandContext(ctx, s.opts.Command[0], args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	start := time.Now()
	err = cmd.Run()
	elapsed := time.Since(start)

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%w: timeout after %v", ErrGeneratorFailure, s.opts.Timeout)
		}
		if ctx.Err() == context.Canceled {
			return "", fmt.Errorf("generation canceled: %w", ctx.Err())
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == fragment.ExitCodeNotFound {
			return "", fmt.Errorf("%w: category=%s, level=%d", ErrNoFragmentForLevel, category, level)
		}

		return "", fmt.Errorf("%w: %v: %s", ErrGeneratorFailure, err, truncateLog(strings.TrimSpace(stderr.String()), 200))
	}

	line, err := readFirstLine(outputPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneratorFailure, err)
	}
	if line == "" {
		return "", fmt.Errorf("%w: empty output: category=%s, level=%d", ErrGeneratorFailure, category, level)
	}

	s.logger.Infow("Fragment generated", "category", category, "level", level, "elapsed", elapsed)
	return line, nil
}

// createOutputFile は生成結果を受け取る一時ファイルを作成し、パスとクリーンアップ関数を返します
func (s *generatorServiceImpl) createOutputFile(category fragment.Category) (string, func(), error) {
	f, err := os.CreateTemp(s.opts.WorkDir, fmt.Sprintf("fragment-%s-*.txt", category))
	if err != nil {
		return "", nil, fmt.Errorf("failed to create output file: %w", err)
	}
	path := f.Name()
	f.Close()

	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.logger.Warnw("Failed to remove output file", "path", path, "error", err)
		}
	}
	return path, cleanup, nil
}

// failureTitle は生成失敗通知のタイトルです
const failureTitle = "habomailang - 文章生成失敗"

// failureMessage は生成失敗通知の本文を返します
func failureMessage(category fragment.Category, level int, err error) string {
	return truncateLog(fmt.Sprintf("category=%s, level=%d: %v", category, level, err), 100)
}

// readFirstLine はファイルの1行目を前後の空白を除いて返します
func readFirstLine(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open output file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text()), nil
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read output file: %w", err)
	}
	return "", nil
}

// truncateLog はログ出力用に文字列をmaxLen文字（ルーン数）に切り詰めます
func truncateLog(s string, maxLen int) string {
	count := 0
	for i := range s {
		if count == maxLen {
			return s[:i] + "..."
		}
		count++
	}
	return s
}
