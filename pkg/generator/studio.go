package generator

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/shouni/nft-layer-kit/pkg/domain"
)

// Studio はセッションと抽選・合成・梱包をまとめた呼び出し窓口です。
// セッションへの変更はバッチ処理の合間に同じ goroutine から行う前提です。
type Studio struct {
	session  *domain.Session
	sampler  *Sampler
	packager *Packager
	gates    []Gate
}

// NewStudio は依存関係を注入して Studio を初期化します。gates は空でも構いません。
func NewStudio(session *domain.Session, sampler *Sampler, packager *Packager, gates ...Gate) (*Studio, error) {
	if session == nil {
		return nil, fmt.Errorf("session is required")
	}
	if sampler == nil {
		return nil, fmt.Errorf("sampler is required")
	}
	if packager == nil {
		return nil, fmt.Errorf("packager is required")
	}
	return &Studio{
		session:  session,
		sampler:  sampler,
		packager: packager,
		gates:    gates,
	}, nil
}

func (s *Studio) Session() *domain.Session {
	return s.session
}

// TotalCombinations は現在のレイヤー構成での組み合わせ数です。
func (s *Studio) TotalCombinations() int {
	return TotalCombinations(s.session.Layers())
}

// MaxBatchSize は現在のレイヤー構成で要求できる最大数です。
func (s *Studio) MaxBatchSize() int {
	return MaxBatchSize(s.session.Layers(), s.sampler.Ceiling())
}

// Generate は n 件を抽選してセッションの生成結果を置き換えます。
// 失敗した場合、既存の生成結果はそのまま残ります。
func (s *Studio) Generate(n int) ([]domain.GeneratedOutput, error) {
	outputs, err := s.sampler.Generate(s.session.Layers(), n)
	if err != nil {
		return nil, err
	}
	s.session.SetOutputs(outputs)
	slog.Info("組み合わせを生成しました", "count", n, "total_combinations", s.TotalCombinations())
	return outputs, nil
}

// RenderSingle は i 番目の生成結果を1枚の画像として w に書き出し、ファイル名を返します。
func (s *Studio) RenderSingle(ctx context.Context, i int, w io.Writer) (string, error) {
	outputs := s.session.Outputs()
	if i < 0 || i >= len(outputs) {
		return "", fmt.Errorf("output %d: %w", i, domain.ErrIndexOutOfRange)
	}
	if err := s.authorize(ctx); err != nil {
		return "", err
	}

	out := outputs[i]
	canvas, err := s.packager.compositor.Composite(ctx, s.session.Layers(), out)
	if err != nil {
		return "", err
	}
	data, err := s.packager.encoder.Encode(canvas)
	if err != nil {
		return "", fmt.Errorf("encode output %s: %w", out.ID, err)
	}
	if _, err := w.Write(data); err != nil {
		return "", fmt.Errorf("write output %s: %w", out.ID, err)
	}
	return SingleFileName(s.packager.Prefix(), out.ID, s.packager.encoder.Extension()), nil
}

// DownloadArchive は現在の生成結果をすべてアーカイブにまとめます。
func (s *Studio) DownloadArchive(ctx context.Context, archive ArchiveWriter, progress ProgressFunc) (*Manifest, error) {
	if len(s.session.Outputs()) == 0 {
		return nil, ErrNoOutputs
	}
	if err := s.authorize(ctx); err != nil {
		return nil, err
	}
	return s.packager.Package(ctx, archive, s.session.Layers(), s.session.Outputs(), progress)
}

func (s *Studio) authorize(ctx context.Context) error {
	for _, g := range s.gates {
		ok, err := g.Authorize(ctx)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrNotAuthorized, err)
		}
		if !ok {
			return ErrNotAuthorized
		}
	}
	return nil
}
