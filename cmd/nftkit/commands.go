package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/shouni/nft-layer-kit/pkg/adapters"
	"github.com/shouni/nft-layer-kit/pkg/generator"
	"github.com/spf13/cobra"
)

func newLayersCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "layers",
		Short: "レイヤーと画像のレア度を一覧表示します",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			studio, _, err := buildStudio(cmd.Context(), root.configPath, nil, gateOptions{})
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, l := range studio.Session().Layers() {
				fmt.Fprintf(tw, "%s\tz=%d\tenabled=%t\trarity=%d%%\timages=%d\n",
					l.Name, l.ZIndex, l.Enabled, l.LayerRarity(), l.ImageCount())
				for _, img := range l.Images() {
					accent := "-"
					if img.Preview != nil {
						accent = img.Preview.Accent
					}
					fmt.Fprintf(tw, "  %s\t%d%%\t%s\t%s\t\n", img.Name, img.Rarity(), img.MimeType, accent)
				}
			}
			return tw.Flush()
		},
	}
}

func newCountCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "組み合わせ総数と生成できる最大数を表示します",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			studio, _, err := buildStudio(cmd.Context(), root.configPath, nil, gateOptions{})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "total combinations: %d\nmax batch size: %d\n",
				studio.TotalCombinations(), studio.MaxBatchSize())
			return nil
		},
	}
}

type generateOptions struct {
	count string
	seed  int64
	out   string
	gate  gateOptions
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "組み合わせを抽選してアーカイブ（画像 + metadata.csv）を書き出します",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			studio, _, err := buildStudio(ctx, root.configPath, seedFlag(cmd, opts.seed), opts.gate)
			if err != nil {
				return err
			}
			n, err := generator.ParseBatchSize(opts.count)
			if err != nil {
				return err
			}
			n, err = generator.ResolveBatchSize(n, studio.MaxBatchSize())
			if err != nil {
				return err
			}
			if _, err := studio.Generate(n); err != nil {
				return err
			}

			var manifest *generator.Manifest
			err = adapters.WriteZipFile(opts.out, func(archive generator.ArchiveWriter) error {
				var err error
				manifest, err = studio.DownloadArchive(ctx, archive, func(percent int) {
					slog.InfoContext(ctx, "書き出し中", "progress", percent)
				})
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d 件を %s に書き出しました\n", len(manifest.Rows), opts.out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.count, "count", "n", "1", "生成する件数")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "乱数シード（未指定なら時刻）")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "collection.zip", "出力先の zip ファイル")
	addGateFlags(cmd, &opts.gate)
	return cmd
}

type singleOptions struct {
	seed   int64
	outDir string
	gate   gateOptions
}

func newSingleCmd(root *rootOptions) *cobra.Command {
	opts := &singleOptions{}
	cmd := &cobra.Command{
		Use:   "single",
		Short: "1件だけ抽選して画像ファイルとして書き出します",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			studio, _, err := buildStudio(ctx, root.configPath, seedFlag(cmd, opts.seed), opts.gate)
			if err != nil {
				return err
			}
			if _, err := studio.Generate(1); err != nil {
				return err
			}
			var buf bytes.Buffer
			name, err := studio.RenderSingle(ctx, 0, &buf)
			if err != nil {
				return err
			}
			path := filepath.Join(opts.outDir, name)
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "乱数シード（未指定なら時刻）")
	cmd.Flags().StringVarP(&opts.outDir, "out-dir", "o", ".", "出力先ディレクトリ")
	addGateFlags(cmd, &opts.gate)
	return cmd
}

func addGateFlags(cmd *cobra.Command, opts *gateOptions) {
	cmd.Flags().StringVar(&opts.wallet, "wallet", "", "アクセス確認に使うウォレットアドレス")
	cmd.Flags().BoolVar(&opts.paymentConfirmed, "payment-confirmed", false, "支払いが完了している")
}

// seedFlag は --seed が明示された場合だけ値を返します。
func seedFlag(cmd *cobra.Command, seed int64) *int64 {
	if !cmd.Flags().Changed("seed") {
		return nil
	}
	return &seed
}
