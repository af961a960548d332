package imgutil

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"strings"

	_ "golang.org/x/image/webp"
)

// StdDecoder は image.Decode に登録済みの形式（PNG, JPEG, GIF, WebP）をデコードします。
type StdDecoder struct{}

// Decode はバイト列を image.Image に変換します。
func (StdDecoder) Decode(ctx context.Context, data []byte) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("decode: empty image data")
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return img, nil
}

// DetectImageType はバイト列が画像であれば MIME タイプを返します。
func DetectImageType(data []byte) (string, bool) {
	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return mimeType, false
	}
	return mimeType, true
}
