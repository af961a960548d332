package generator

import (
	"context"
	"fmt"
	"log/slog"
	"path"

	"github.com/shouni/nft-layer-kit/pkg/domain"
)

// Packager は合成画像とメタデータ CSV を1つのアーカイブにまとめます。
type Packager struct {
	compositor   *Compositor
	encoder      ImageEncoder
	prefix       string
	imageFolder  string
	manifestName string
}

// PackagerOption は Packager の設定を変更します。
type PackagerOption func(*Packager)

// WithPrefix はファイル名の接頭辞を設定します。
func WithPrefix(prefix string) PackagerOption {
	return func(p *Packager) {
		p.prefix = prefix
	}
}

// WithImageFolder はアーカイブ内の画像フォルダ名を設定します。
func WithImageFolder(folder string) PackagerOption {
	return func(p *Packager) {
		p.imageFolder = folder
	}
}

// WithManifestName はメタデータファイル名を設定します。
func WithManifestName(name string) PackagerOption {
	return func(p *Packager) {
		if name != "" {
			p.manifestName = name
		}
	}
}

// NewPackager は依存関係を注入して Packager を初期化します。
func NewPackager(compositor *Compositor, encoder ImageEncoder, opts ...PackagerOption) (*Packager, error) {
	if compositor == nil {
		return nil, fmt.Errorf("compositor is required")
	}
	if encoder == nil {
		return nil, fmt.Errorf("encoder is required")
	}
	p := &Packager{
		compositor:   compositor,
		encoder:      encoder,
		prefix:       DefaultPrefix,
		imageFolder:  DefaultImageFolder,
		manifestName: DefaultManifestName,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Prefix はファイル名の接頭辞です。
func (p *Packager) Prefix() string {
	return p.prefix
}

// EntryName は index 番目の画像のアーカイブ内パスです。
func (p *Packager) EntryName(index int) string {
	name := FileName(p.prefix, index, p.encoder.Extension())
	if p.imageFolder == "" {
		return name
	}
	return path.Join(p.imageFolder, name)
}

// Package は outputs を入力順に合成・エンコードしてアーカイブへ書き込み、
// 最後にメタデータを追加してアーカイブを閉じます。
// アーカイブへの書き込みに失敗した場合は途中結果を破棄する前提でエラーを返します。
func (p *Packager) Package(ctx context.Context, archive ArchiveWriter, layers []*domain.Layer, outputs []domain.GeneratedOutput, progress ProgressFunc) (*Manifest, error) {
	if archive == nil {
		return nil, fmt.Errorf("%w: archive writer is required", ErrArchive)
	}
	if len(outputs) == 0 {
		return nil, ErrNoOutputs
	}
	report := func(percent int) {
		if progress != nil {
			progress(percent)
		}
	}

	report(0)
	manifest := NewManifest(layers)
	for i, out := range outputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		canvas, err := p.compositor.Composite(ctx, layers, out)
		if err != nil {
			return nil, err
		}
		data, err := p.encoder.Encode(canvas)
		if err != nil {
			return nil, fmt.Errorf("%w: encode %d: %w", ErrArchive, i, err)
		}

		entry := p.EntryName(i)
		w, err := archive.Create(entry)
		if err != nil {
			return nil, fmt.Errorf("%w: create %s: %w", ErrArchive, entry, err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("%w: write %s: %w", ErrArchive, entry, err)
		}

		// メタデータのファイル名はフォルダを含まない
		manifest.Add(path.Base(entry), layers, out)
		report(progressPercent(i+1, len(outputs)))
	}

	w, err := archive.Create(p.manifestName)
	if err != nil {
		return nil, fmt.Errorf("%w: create %s: %w", ErrArchive, p.manifestName, err)
	}
	if _, err := manifest.WriteTo(w); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArchive, err)
	}
	if err := archive.Close(); err != nil {
		return nil, fmt.Errorf("%w: close: %w", ErrArchive, err)
	}

	slog.InfoContext(ctx, "アーカイブを作成しました", "outputs", len(outputs), "layers", len(layers))
	return manifest, nil
}
