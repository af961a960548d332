package config

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/nft-layer-kit/pkg/domain"
	"github.com/shouni/nft-layer-kit/pkg/utils"
)

// DirLoader はディレクトリからトレイト画像を読み込みます。
type DirLoader interface {
	LoadDir(ctx context.Context, dirURI string) ([]*domain.TraitImage, error)
}

// BuildSession は設定のレイヤー定義からセッションを組み立てます。
// 画像のレア度は読み込み時に均等割りされ、その後 images の指定が上から順に適用されます。
func (c *Config) BuildSession(ctx context.Context, loader DirLoader) (*domain.Session, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	session := domain.NewSession()
	for i, lc := range c.Layers {
		layer, err := session.AddLayer(lc.Name)
		if err != nil {
			return nil, fmt.Errorf("layers[%d]: %w", i, err)
		}
		if lc.ZIndex != nil {
			layer.ZIndex = *lc.ZIndex
		}
		if lc.Enabled != nil {
			layer.Enabled = *lc.Enabled
		}
		if lc.LayerRarity != nil {
			layer.SetLayerRarity(*lc.LayerRarity)
		}

		images, err := loader.LoadDir(ctx, c.ResolveDir(lc.Dir))
		if err != nil {
			return nil, fmt.Errorf("layer %q: %w", lc.Name, err)
		}
		if err := session.AddImages(i, images...); err != nil {
			return nil, err
		}
		if err := applyImageOverrides(ctx, layer, lc.Images); err != nil {
			return nil, fmt.Errorf("layer %q: %w", lc.Name, err)
		}
	}
	return session, nil
}

func applyImageOverrides(ctx context.Context, layer *domain.Layer, overrides []ImageConfig) error {
	if len(overrides) == 0 {
		return nil
	}
	byFile := make(map[string]int, layer.ImageCount())
	for i, img := range layer.Images() {
		key := imageKey(img)
		if prev, ok := byFile[key]; ok {
			slog.WarnContext(ctx, "同じファイル名の画像が複数あります。先に読み込んだ画像に適用します",
				"layer", layer.Name, "file", key, "index", i, "kept_index", prev)
			continue
		}
		byFile[key] = i
	}
	for _, o := range overrides {
		idx, ok := byFile[utils.BaseName(o.File)]
		if !ok {
			slog.WarnContext(ctx, "設定された画像が見つかりません", "layer", layer.Name, "file", o.File)
			continue
		}
		if o.Rarity != nil {
			if err := layer.SetImageRarity(idx, *o.Rarity); err != nil {
				return err
			}
		}
		if o.Name != "" {
			if err := layer.RenameImage(idx, o.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

// imageKey は照合に使うファイル名です。FileName がなければ表示名を使います。
func imageKey(img *domain.TraitImage) string {
	if img.FileName != "" {
		return img.FileName
	}
	return img.Name
}
