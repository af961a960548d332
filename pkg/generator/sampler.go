package generator

import (
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/shouni/nft-layer-kit/pkg/domain"
	"github.com/shouni/nft-layer-kit/pkg/utils"
)

// Sampler はレイヤーごとの出現率と画像レア度に従って組み合わせを抽選します。
// バッチ内の重複は除去しません。
type Sampler struct {
	rng     *rand.Rand
	ceiling int
	newID   func() string
}

// SamplerOption は Sampler の設定を変更します。
type SamplerOption func(*Sampler)

// WithSeed は乱数シードを固定します。nil の場合は時刻から決まります。
func WithSeed(seed *int64) SamplerOption {
	return func(s *Sampler) {
		v := uint64(utils.ResolveSeed(seed))
		s.rng = rand.New(rand.NewPCG(v, v^0x9e3779b97f4a7c15))
	}
}

// WithCeiling はバッチ数の上限を設定します。0 以下なら上限なし。
func WithCeiling(n int) SamplerOption {
	return func(s *Sampler) {
		s.ceiling = n
	}
}

// WithIDFunc は出力 ID の採番方法を差し替えます。
func WithIDFunc(fn func() string) SamplerOption {
	return func(s *Sampler) {
		if fn != nil {
			s.newID = fn
		}
	}
}

func NewSampler(opts ...SamplerOption) *Sampler {
	s := &Sampler{
		ceiling: DefaultCeiling,
		newID:   newOutputID,
	}
	WithSeed(nil)(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ceiling は設定済みのバッチ上限です。
func (s *Sampler) Ceiling() int {
	return s.ceiling
}

// Generate は n 件の出力を独立に抽選します。
// n が 1 未満、または min(上限, 組み合わせ数) を超える場合は何も生成せずエラーを返します。
func (s *Sampler) Generate(layers []*domain.Layer, n int) ([]domain.GeneratedOutput, error) {
	if len(layers) == 0 {
		return nil, ErrNoLayers
	}
	if _, err := ResolveBatchSize(n, MaxBatchSize(layers, s.ceiling)); err != nil {
		return nil, err
	}

	outputs := make([]domain.GeneratedOutput, n)
	for i := range outputs {
		outputs[i] = s.Sample(layers)
	}
	return outputs, nil
}

// Sample は1件分の組み合わせを抽選します。
func (s *Sampler) Sample(layers []*domain.Layer) domain.GeneratedOutput {
	selections := make([]domain.Selection, len(layers))
	for i, l := range layers {
		selections[i] = s.sampleLayer(l)
	}
	return domain.GeneratedOutput{
		ID:         s.newID(),
		Selections: selections,
	}
}

func (s *Sampler) sampleLayer(l *domain.Layer) domain.Selection {
	if !l.Enabled {
		return domain.Unused()
	}
	// [0,100) の一様乱数がレイヤー出現率未満なら使用
	if s.rng.Float64()*100 >= float64(l.LayerRarity()) {
		return domain.Unused()
	}
	return domain.Selection{Used: true, Image: s.pickImage(l)}
}

// pickImage は累積重みで画像を選びます。
// 重みの合計が 0 の場合は全画像から一様に選びます。
func (s *Sampler) pickImage(l *domain.Layer) int {
	images := l.Images()
	if len(images) == 0 {
		return domain.NoImage
	}
	total := l.RaritySum()
	if total <= 0 {
		return s.rng.IntN(len(images))
	}

	draw := s.rng.IntN(total) + 1 // [1, total]
	cumulative := 0
	for i, img := range images {
		cumulative += img.Rarity()
		if cumulative >= draw {
			return i
		}
	}
	// 合計と累積は一致するためここには到達しない
	return len(images) - 1
}

func newOutputID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
