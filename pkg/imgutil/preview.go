package imgutil

import (
	"bytes"
	"fmt"
	"image"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/shouni/nft-layer-kit/pkg/domain"
	"golang.org/x/image/draw"
)

// DefaultPreviewSize はサムネイルの長辺ピクセル数です。
const DefaultPreviewSize = 128

// BuildPreview はアップロード画像から一覧表示用のサムネイルと代表色を作ります。
func BuildPreview(data []byte, size int) (*domain.Preview, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("preview decode: %w", err)
	}
	if size <= 0 {
		size = DefaultPreviewSize
	}
	thumb := Thumbnail(src, size)
	return &domain.Preview{
		Thumbnail: thumb,
		Accent:    dominantcolor.Hex(dominantcolor.Find(thumb)),
	}, nil
}

// Thumbnail はアスペクト比を保ったまま長辺を size に縮小します。
func Thumbnail(src image.Image, size int) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}
	tw, th := size, size
	if w >= h {
		th = max(1, h*size/w)
	} else {
		tw = max(1, w*size/h)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, tw, th))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// ParseColor は "#rrggbb" 形式の色を返します。空文字は nil（透明）です。
func ParseColor(hex string) (*colorful.Color, error) {
	if hex == "" {
		return nil, nil
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, fmt.Errorf("parse color %q: %w", hex, err)
	}
	return &c, nil
}
