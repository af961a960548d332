package generator

import (
	"context"
	"image"
	"io"
	"time"
)

// Decoder はトレイト画像のバイト列を image.Image に変換します。
type Decoder interface {
	Decode(ctx context.Context, data []byte) (image.Image, error)
}

// ImageEncoder は合成結果をファイル用のバイト列に変換します。
type ImageEncoder interface {
	Encode(img image.Image) ([]byte, error)
	// Extension はドットなしの拡張子です。
	Extension() string
}

// ImageCacher は、デコード済み画像をキャッシュするためのインターフェースです。
type ImageCacher interface {
	// Get は、指定されたキーに紐づくアイテムを取得します。
	Get(key string) (any, bool)
	// Set は、指定されたキーと値、有効期限でアイテムを保存します。
	Set(key string, value any, d time.Duration)
}

// ArchiveWriter は一括ダウンロード用のアーカイブ（zip 等）を組み立てます。
type ArchiveWriter interface {
	// Create はアーカイブ内に name のファイルを作成し、その書き込み先を返します。
	// 次の Create または Close までの間だけ有効です。
	Create(name string) (io.Writer, error)
	Close() error
}

// Gate はダウンロード前の認可（アクセスチェックや支払い確認）を表します。
type Gate interface {
	Authorize(ctx context.Context) (bool, error)
}

// ProgressFunc は 0〜100 の進捗率を受け取ります。
type ProgressFunc func(percent int)
