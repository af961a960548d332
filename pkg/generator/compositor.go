package generator

import (
	"cmp"
	"context"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"slices"
	"time"

	"github.com/shouni/nft-layer-kit/pkg/domain"
	"golang.org/x/image/draw"
)

const cacheKeyDecoded = "decoded:"

// Compositor は選択された画像を ZIndex の昇順に固定サイズのキャンバスへ重ねます。
type Compositor struct {
	decoder    Decoder
	width      int
	height     int
	background color.Color
	scaler     draw.Scaler
	cache      ImageCacher
	cacheTTL   time.Duration
}

// CompositorOption は Compositor の設定を変更します。
type CompositorOption func(*Compositor)

// WithSize はキャンバスの幅と高さを設定します。
func WithSize(width, height int) CompositorOption {
	return func(c *Compositor) {
		c.width = width
		c.height = height
	}
}

// WithBackground は背景色を設定します。nil なら透明のままです。
func WithBackground(bg color.Color) CompositorOption {
	return func(c *Compositor) {
		c.background = bg
	}
}

// WithScaler は拡大縮小アルゴリズムを差し替えます。
func WithScaler(s draw.Scaler) CompositorOption {
	return func(c *Compositor) {
		if s != nil {
			c.scaler = s
		}
	}
}

// WithCache はデコード済み画像のキャッシュを設定します。cache は nil を許容します。
func WithCache(cache ImageCacher, ttl time.Duration) CompositorOption {
	return func(c *Compositor) {
		c.cache = cache
		c.cacheTTL = ttl
	}
}

// NewCompositor は依存関係を注入して Compositor を初期化します。
func NewCompositor(decoder Decoder, opts ...CompositorOption) (*Compositor, error) {
	if decoder == nil {
		return nil, fmt.Errorf("decoder is required")
	}
	c := &Compositor{
		decoder: decoder,
		width:   DefaultWidth,
		height:  DefaultHeight,
		scaler:  draw.BiLinear,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.width <= 0 || c.height <= 0 {
		return nil, fmt.Errorf("invalid canvas size: %dx%d", c.width, c.height)
	}
	return c, nil
}

// Size はキャンバスサイズを返します。
func (c *Compositor) Size() (int, int) {
	return c.width, c.height
}

type drawItem struct {
	layerIdx int
	zIndex   int
	image    *domain.TraitImage
}

// DrawOrder は描画対象のレイヤーインデックスを描画順（ZIndex 昇順、同値はレイヤー順）で返します。
func DrawOrder(layers []*domain.Layer, out domain.GeneratedOutput) []int {
	items := drawItems(layers, out)
	order := make([]int, len(items))
	for i, it := range items {
		order[i] = it.layerIdx
	}
	return order
}

func drawItems(layers []*domain.Layer, out domain.GeneratedOutput) []drawItem {
	items := make([]drawItem, 0, len(layers))
	for i, l := range layers {
		img := out.SelectedImage(layers, i)
		if img == nil {
			continue
		}
		items = append(items, drawItem{layerIdx: i, zIndex: l.ZIndex, image: img})
	}
	slices.SortStableFunc(items, func(a, b drawItem) int {
		return cmp.Compare(a.zIndex, b.zIndex)
	})
	return items
}

// Composite は1件の出力を合成します。
// 個々の画像のデコードに失敗した場合はログを残してそのレイヤーを飛ばし、合成は続行します。
func (c *Compositor) Composite(ctx context.Context, layers []*domain.Layer, out domain.GeneratedOutput) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	canvas := image.NewRGBA(image.Rect(0, 0, c.width, c.height))
	if c.background != nil {
		draw.Draw(canvas, canvas.Bounds(), image.NewUniform(c.background), image.Point{}, draw.Src)
	}

	for _, it := range drawItems(layers, out) {
		src, err := c.decode(ctx, it.image)
		if err != nil {
			slog.WarnContext(ctx, "トレイト画像のデコードに失敗したためレイヤーをスキップします",
				"output_id", out.ID,
				"layer", layers[it.layerIdx].Name,
				"image", it.image.Name,
				"error", err)
			continue
		}
		c.scaler.Scale(canvas, canvas.Bounds(), src, src.Bounds(), draw.Over, nil)
	}
	return canvas, nil
}

func (c *Compositor) decode(ctx context.Context, img *domain.TraitImage) (image.Image, error) {
	key := cacheKeyDecoded + img.ID
	if c.cache != nil {
		if cached, ok := c.cache.Get(key); ok {
			if decoded, ok := cached.(image.Image); ok {
				return decoded, nil
			}
			slog.WarnContext(ctx, "キャッシュデータが不正な型です", "key", key, "type", fmt.Sprintf("%T", cached))
		}
	}

	decoded, err := c.decoder.Decode(ctx, img.Source)
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		c.cache.Set(key, decoded, c.cacheTTL)
	}
	return decoded, nil
}
