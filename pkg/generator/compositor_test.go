package generator

import (
	"context"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/shouni/nft-layer-kit/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/draw"
)

func newTestCompositor(t *testing.T, dec Decoder, opts ...CompositorOption) *Compositor {
	t.Helper()
	opts = append([]CompositorOption{WithSize(8, 8), WithScaler(draw.NearestNeighbor)}, opts...)
	c, err := NewCompositor(dec, opts...)
	require.NoError(t, err)
	return c
}

func rgbaAt(img *image.RGBA, x, y int) color.RGBA {
	return img.RGBAAt(x, y)
}

func TestNewCompositor(t *testing.T) {
	t.Run("decoderは必須", func(t *testing.T) {
		_, err := NewCompositor(nil)
		assert.Error(t, err)
	})

	t.Run("既定サイズは1000x1000", func(t *testing.T) {
		c, err := NewCompositor(newMockDecoder())
		require.NoError(t, err)
		w, h := c.Size()
		assert.Equal(t, 1000, w)
		assert.Equal(t, 1000, h)
	})

	t.Run("不正なサイズはエラー", func(t *testing.T) {
		_, err := NewCompositor(newMockDecoder(), WithSize(0, 10))
		assert.Error(t, err)
	})
}

func TestCompositor_Composite(t *testing.T) {
	ctx := context.Background()

	t.Run("ZIndexの大きいレイヤーが上に描かれる", func(t *testing.T) {
		bottom := newTestLayer("Bottom", 0, "red")
		top := newTestLayer("Top", 5, "blue")
		layers := []*domain.Layer{top, bottom}
		out := domain.GeneratedOutput{Selections: []domain.Selection{{Used: true, Image: 0}, {Used: true, Image: 0}}}

		c := newTestCompositor(t, newMockDecoder())
		img, err := c.Composite(ctx, layers, out)
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 8, 8), img.Bounds())
		assert.Equal(t, color.RGBA{0, 0, 255, 255}, rgbaAt(img, 7, 7))

		t.Run("ZIndexだけを入れ替えると画素は変わりメタデータは変わらない", func(t *testing.T) {
			top.ZIndex = -1
			img, err := c.Composite(ctx, layers, out)
			require.NoError(t, err)
			assert.Equal(t, color.RGBA{255, 0, 0, 255}, rgbaAt(img, 0, 0))
			assert.Equal(t, []string{"nft-1.png", "blue", "red"}, Row("nft-1.png", layers, out))
		})
	})

	t.Run("未使用のレイヤーは描かれず透明のまま", func(t *testing.T) {
		layers := []*domain.Layer{newTestLayer("A", 0, "red")}
		out := domain.GeneratedOutput{Selections: []domain.Selection{domain.Unused()}}

		img, err := newTestCompositor(t, newMockDecoder()).Composite(ctx, layers, out)
		require.NoError(t, err)
		assert.Equal(t, color.RGBA{}, rgbaAt(img, 3, 3))
	})

	t.Run("背景色が設定されていれば塗りつぶされる", func(t *testing.T) {
		layers := []*domain.Layer{newTestLayer("A", 0, "red")}
		out := domain.GeneratedOutput{Selections: []domain.Selection{domain.Unused()}}

		c := newTestCompositor(t, newMockDecoder(), WithBackground(color.RGBA{10, 20, 30, 255}))
		img, err := c.Composite(ctx, layers, out)
		require.NoError(t, err)
		assert.Equal(t, color.RGBA{10, 20, 30, 255}, rgbaAt(img, 0, 0))
	})

	t.Run("デコードに失敗したレイヤーはスキップして続行する", func(t *testing.T) {
		good := newTestLayer("Good", 0, "green")
		broken := domain.NewLayer("Broken", 1)
		broken.AddImages(domain.NewTraitImage("corrupt", []byte("???"), 100))
		layers := []*domain.Layer{good, broken}
		out := domain.GeneratedOutput{ID: "x", Selections: []domain.Selection{{Used: true, Image: 0}, {Used: true, Image: 0}}}

		img, err := newTestCompositor(t, newMockDecoder()).Composite(ctx, layers, out)
		require.NoError(t, err)
		assert.Equal(t, color.RGBA{0, 255, 0, 255}, rgbaAt(img, 4, 4))
	})

	t.Run("キャッシュがあれば同じ画像は一度だけデコードされる", func(t *testing.T) {
		layers := []*domain.Layer{newTestLayer("A", 0, "red")}
		out := domain.GeneratedOutput{Selections: []domain.Selection{{Used: true, Image: 0}}}
		dec := newMockDecoder()
		c := newTestCompositor(t, dec, WithCache(&mockCache{data: map[string]any{}}, time.Minute))

		for i := 0; i < 3; i++ {
			_, err := c.Composite(ctx, layers, out)
			require.NoError(t, err)
		}
		assert.Equal(t, 1, dec.calls)
	})

	t.Run("キャンセル済みのコンテキストはエラー", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := newTestCompositor(t, newMockDecoder()).Composite(cctx, nil, domain.GeneratedOutput{})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestDrawOrder(t *testing.T) {
	layers := []*domain.Layer{
		newTestLayer("A", 3, "red"),
		newTestLayer("B", 1, "red"),
		newTestLayer("C", 1, "red"),
		newTestLayer("D", 0, "red"),
	}
	out := domain.GeneratedOutput{Selections: []domain.Selection{
		{Used: true, Image: 0},
		{Used: true, Image: 0},
		{Used: true, Image: 0},
		domain.Unused(),
	}}
	// 同じ ZIndex はレイヤー順を保つ
	assert.Equal(t, []int{1, 2, 0}, DrawOrder(layers, out))
}
