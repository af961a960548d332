package adapters

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/shouni/go-remote-io/pkg/remoteio"
	"github.com/shouni/nft-layer-kit/pkg/domain"
	"github.com/shouni/nft-layer-kit/pkg/imgutil"
	"github.com/shouni/nft-layer-kit/pkg/utils"
)

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}

// LocalReader はローカルファイルシステム上のトレイト画像を読み込む remoteio.InputReader です。
type LocalReader struct{}

var _ remoteio.InputReader = (*LocalReader)(nil)

func (LocalReader) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.Open(localPath(uri))
}

// List はディレクトリ直下のファイルを名前順に fn へ渡します。サブディレクトリは辿りません。
func (LocalReader) List(ctx context.Context, uri string, fn func(string) error) error {
	dir := localPath(uri)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if e.IsDir() {
			continue
		}
		if err := fn(filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func localPath(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}

// ImageSource はトレイト画像の取得元です。ローカル、GCS など InputReader の実装に依存しません。
type ImageSource struct {
	reader      remoteio.InputReader
	previewSize int
}

// NewImageSource は依存関係を注入して ImageSource を初期化します。
func NewImageSource(reader remoteio.InputReader, previewSize int) (*ImageSource, error) {
	if reader == nil {
		return nil, fmt.Errorf("reader is required")
	}
	return &ImageSource{reader: reader, previewSize: previewSize}, nil
}

// Load は1枚の画像を読み込みます。表示名はファイル名の最初の "." より前の部分です。
func (s *ImageSource) Load(ctx context.Context, uri string) (*domain.TraitImage, error) {
	rc, err := s.reader.Open(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", uri, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", uri, err)
	}
	mimeType, ok := imgutil.DetectImageType(data)
	if !ok {
		return nil, fmt.Errorf("%s is not an image (detected %s)", uri, mimeType)
	}

	img := domain.NewTraitImage(utils.FileStem(uri), data, 0)
	img.FileName = utils.BaseName(uri)
	img.MimeType = mimeType
	if preview, err := imgutil.BuildPreview(data, s.previewSize); err != nil {
		slog.WarnContext(ctx, "プレビューを作成できませんでした", "uri", uri, "error", err)
	} else {
		img.Preview = preview
	}
	return img, nil
}

// LoadDir はディレクトリ内の画像をすべて読み込みます。
// 画像でないファイルは警告を出して飛ばします。
func (s *ImageSource) LoadDir(ctx context.Context, dirURI string) ([]*domain.TraitImage, error) {
	var uris []string
	err := s.reader.List(ctx, dirURI, func(uri string) error {
		if hasImageExtension(uri) {
			uris = append(uris, uri)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dirURI, err)
	}
	slices.Sort(uris)

	images := make([]*domain.TraitImage, 0, len(uris))
	for _, uri := range uris {
		img, err := s.Load(ctx, uri)
		if err != nil {
			slog.WarnContext(ctx, "トレイト画像を読み込めなかったためスキップします", "uri", uri, "error", err)
			continue
		}
		images = append(images, img)
	}
	return images, nil
}

func hasImageExtension(uri string) bool {
	return slices.Contains(imageExtensions, strings.ToLower(filepath.Ext(uri)))
}
