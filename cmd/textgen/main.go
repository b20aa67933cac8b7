// Package main はマルコフ連鎖による文章生成コマンド textgen のエントリーポイントです。
//
// textgen build はシードファイルの文章を形態素解析してチェーンをSQLiteに保存し、
// textgen generate は保存済みのチェーンから1文を生成する。
// APIサーバーは文章の取得元が generator のとき textgen generate を外部コマンドとして実行する。
//
// 終了コード:
//   - 0: 成功
//   - 3: 指定カテゴリ・レベルのチェーンがない
//   - 1: その他のエラー（DBが存在しない場合を含む）
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/GuiltyMorishita/habomailang-api/internal/chain"
	"github.com/GuiltyMorishita/habomailang-api/internal/config"
	"github.com/GuiltyMorishita/habomailang-api/internal/fragment"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// rootOptions は全サブコマンド共通のフラグとロガーです
type rootOptions struct {
	dbPath   string
	logLevel string
	logger   *zap.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run はコマンドを実行し、プロセスの終了コードを返します
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts := &rootOptions{}
	cmd := newRootCmd(opts)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if opts.logger != nil {
		opts.logger.Sync()
	}
	if err != nil {
		fmt.Fprintf(stderr, "textgen: %v\n", err)
	}
	return exitCode(err)
}

// exitCode はエラーを終了コードに変換します
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, chain.ErrNoChain):
		return fragment.ExitCodeNotFound
	default:
		return 1
	}
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "textgen",
		Short:         "Markov chain sentence generator for ramen diary fragments",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := config.NewLogger(opts.logLevel)
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "chain.db", "chain database path (SQLite)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	cmd.AddCommand(newBuildCmd(opts), newGenerateCmd(opts))
	return cmd
}

func newBuildCmd(opts *rootOptions) *cobra.Command {
	var (
		seedPath   string
		initChains bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build chains for every category and level in a seed file",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := opts.logger.Named("Build").Sugar()

			seed, err := fragment.LoadSeedFile(seedPath)
			if err != nil {
				return err
			}

			tokenizer, err := chain.NewKagomeTokenizer()
			if err != nil {
				return err
			}

			store, err := chain.OpenStore(opts.dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			log.Infow("Build started", "seed", seedPath, "db", opts.dbPath, "init", initChains)

			results, err := chain.BuildFromSeed(cmd.Context(), store, tokenizer, seed, initChains)
			if err != nil {
				return err
			}

			for _, r := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\tlevel=%d\ttriplets=%d\n", r.Category, r.Level, r.Triplets)
			}
			log.Infow("Build completed", "chains", len(results))
			return nil
		},
	}

	cmd.Flags().StringVar(&seedPath, "seed", "seed.yaml", "seed file path (YAML)")
	cmd.Flags().BoolVar(&initChains, "init", false, "replace existing chains instead of adding to them")
	return cmd
}

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	var (
		category string
		level    int
		output   string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one sentence from the chain of a category and level",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := opts.logger.Named("Generate").Sugar()

			c, err := fragment.ParseCategory(category)
			if err != nil {
				return err
			}

			// DBがない場合は空のDBを作らずに失敗させる（チェーンなしとは区別する）
			store, err := chain.OpenStoreReadOnly(opts.dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			sentence, err := chain.NewGenerator(store).Generate(cmd.Context(), c, level)
			if err != nil {
				return err
			}

			log.Debugw("Generated", "category", c, "level", level, "sentence", sentence)

			if output == "" {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), sentence)
				return err
			}
			if err := os.WriteFile(output, []byte(sentence+"\n"), 0o644); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "ingredient category (noodle, soup, pork)")
	cmd.Flags().IntVar(&level, "level", 1, "level of the chain")
	cmd.Flags().StringVar(&output, "output", "", "output file (stdout when omitted)")
	cmd.MarkFlagRequired("category")
	return cmd
}
