package main

import (
	"context"
	"fmt"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/nft-layer-kit/pkg/adapters"
	"github.com/shouni/nft-layer-kit/pkg/config"
	"github.com/shouni/nft-layer-kit/pkg/generator"
	"github.com/shouni/nft-layer-kit/pkg/imgutil"
)

// gateOptions はダウンロード時のアクセス確認に使う値です。
type gateOptions struct {
	wallet           string
	paymentConfirmed bool
}

// buildStudio は設定ファイルを読み込み、各コンポーネントを組み立てます。
// seed が nil の場合は時刻から決まります。
func buildStudio(ctx context.Context, configPath string, seed *int64, gate gateOptions) (*generator.Studio, *config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	source, err := adapters.NewImageSource(adapters.LocalReader{}, imgutil.DefaultPreviewSize)
	if err != nil {
		return nil, nil, err
	}
	session, err := cfg.BuildSession(ctx, source)
	if err != nil {
		return nil, nil, err
	}

	background, err := imgutil.ParseColor(cfg.Background)
	if err != nil {
		return nil, nil, err
	}
	compositorOpts := []generator.CompositorOption{
		generator.WithSize(cfg.Width, cfg.Height),
		generator.WithCache(adapters.NewMemoryCache(), cfg.CacheTTL),
	}
	if background != nil {
		compositorOpts = append(compositorOpts, generator.WithBackground(background))
	}
	compositor, err := generator.NewCompositor(imgutil.StdDecoder{}, compositorOpts...)
	if err != nil {
		return nil, nil, err
	}

	format, err := imgutil.ParseFormat(cfg.Format)
	if err != nil {
		return nil, nil, err
	}
	packager, err := generator.NewPackager(compositor, imgutil.NewEncoder(format, cfg.Quality),
		generator.WithPrefix(*cfg.Prefix))
	if err != nil {
		return nil, nil, err
	}

	sampler := generator.NewSampler(generator.WithSeed(seed), generator.WithCeiling(cfg.Ceiling))

	gates, err := buildGates(cfg.Access, gate)
	if err != nil {
		return nil, nil, err
	}
	studio, err := generator.NewStudio(session, sampler, packager, gates...)
	if err != nil {
		return nil, nil, err
	}
	return studio, cfg, nil
}

func buildGates(access config.AccessConfig, opts gateOptions) ([]generator.Gate, error) {
	if !access.Enabled {
		return nil, nil
	}
	if opts.wallet == "" {
		return nil, fmt.Errorf("access check is enabled: --wallet is required")
	}
	accessGate, err := adapters.NewAccessGate(httpkit.New(access.Timeout), access.Endpoint, opts.wallet)
	if err != nil {
		return nil, err
	}
	return []generator.Gate{accessGate, adapters.ConfirmedPayment(opts.paymentConfirmed)}, nil
}
