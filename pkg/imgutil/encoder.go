package imgutil

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"strings"
)

// Format は出力画像のエンコード形式です。
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"

	DefaultJPEGQuality = 90
)

// ParseFormat は設定値の文字列を Format に変換します。空文字は PNG として扱います。
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	default:
		return "", fmt.Errorf("unsupported image format: %s", s)
	}
}

// Encoder は合成済み画像をバイト列に変換します。
type Encoder struct {
	Format  Format
	Quality int // JPEG のみ有効
}

// NewEncoder は指定形式の Encoder を返します。
func NewEncoder(format Format, quality int) *Encoder {
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	return &Encoder{Format: format, Quality: quality}
}

// Encode は画像をエンコードします。
// JPEG はアルファを持たないため、透過部分は黒として扱われます。
func (e *Encoder) Encode(img image.Image) ([]byte, error) {
	buf := new(bytes.Buffer)
	switch e.Format {
	case FormatJPEG:
		if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: e.Quality}); err != nil {
			return nil, fmt.Errorf("jpeg encode: %w", err)
		}
	case FormatPNG, "":
		if err := png.Encode(buf, img); err != nil {
			return nil, fmt.Errorf("png encode: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported image format: %s", e.Format)
	}
	return buf.Bytes(), nil
}

// Extension はファイル名に付ける拡張子（ドットなし）です。
func (e *Encoder) Extension() string {
	if e.Format == FormatJPEG {
		return "jpg"
	}
	return "png"
}

// MimeType は出力形式の MIME タイプです。
func (e *Encoder) MimeType() string {
	if e.Format == FormatJPEG {
		return "image/jpeg"
	}
	return "image/png"
}
