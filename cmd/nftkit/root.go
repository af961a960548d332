package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "nftkit",
		Short:         "レイヤー画像から NFT コレクションを生成します",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}
			handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
			slog.SetDefault(slog.New(handler))
		},
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "collection.yaml", "コレクション定義ファイル")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "デバッグログを出力する")

	cmd.AddCommand(
		newLayersCmd(opts),
		newCountCmd(opts),
		newGenerateCmd(opts),
		newSingleCmd(opts),
	)
	return cmd
}
