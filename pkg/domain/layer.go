package domain

import (
	"errors"
	"fmt"
	"image"

	"github.com/google/uuid"
)

const (
	// MaxRarity はレア度（パーセンテージ）の上限です。
	MaxRarity = 100
	// DefaultLayerRarity は新規レイヤーの出現率です。
	DefaultLayerRarity = 100
)

var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrEmptyLayerName  = errors.New("layer name is required")
)

// ClampRarity はレア度を [0,100] に丸めます。
func ClampRarity(v int) int {
	return max(0, min(MaxRarity, v))
}

// Preview はアップロード画像の表示用ハンドルです。
type Preview struct {
	Thumbnail image.Image
	Accent    string // 代表色 (#rrggbb)
}

// TraitImage はレイヤー内の候補画像1枚を表します。
type TraitImage struct {
	ID       string
	Name     string // メタデータに出力される表示名
	FileName string // 読み込み元のファイル名（拡張子込み）。設定の上書きとの照合に使う
	Source   []byte
	MimeType string
	Preview  *Preview
	rarity   int
}

// NewTraitImage はレア度をクランプした TraitImage を生成します。
func NewTraitImage(name string, source []byte, rarity int) *TraitImage {
	return &TraitImage{
		ID:     uuid.NewString(),
		Name:   name,
		Source: source,
		rarity: ClampRarity(rarity),
	}
}

// Rarity はレイヤー内での相対的な重みです。
func (t *TraitImage) Rarity() int {
	return t.rarity
}

// Layer は名前付きのトレイトカテゴリ（背景、目、帽子など）です。
type Layer struct {
	Name        string
	ZIndex      int // 小さい値ほど先に描画される
	Enabled     bool
	layerRarity int
	images      []*TraitImage
}

// NewLayer は有効化済み・出現率100%のレイヤーを生成します。
func NewLayer(name string, zIndex int) *Layer {
	return &Layer{
		Name:        name,
		ZIndex:      zIndex,
		Enabled:     true,
		layerRarity: DefaultLayerRarity,
	}
}

// LayerRarity は1回の生成でこのレイヤーが使われる確率（%）です。
func (l *Layer) LayerRarity() int {
	return l.layerRarity
}

func (l *Layer) SetLayerRarity(v int) {
	l.layerRarity = ClampRarity(v)
}

// Images は画像リストのコピーを返します。要素のポインタは共有されます。
func (l *Layer) Images() []*TraitImage {
	out := make([]*TraitImage, len(l.images))
	copy(out, l.images)
	return out
}

func (l *Layer) ImageCount() int {
	return len(l.images)
}

// Image は i 番目の画像を返します。
func (l *Layer) Image(i int) (*TraitImage, error) {
	if i < 0 || i >= len(l.images) {
		return nil, fmt.Errorf("layer %q image %d: %w", l.Name, i, ErrIndexOutOfRange)
	}
	return l.images[i], nil
}

// RaritySum はレイヤー内の画像レア度の合計です。
func (l *Layer) RaritySum() int {
	sum := 0
	for _, img := range l.images {
		sum += img.rarity
	}
	return sum
}

// AddImages は画像を追加し、既存分も含めた全画像のレア度を均等割り（切り捨て）にリセットします。
// 生成済みの出力がある場合は Session.AddImages を使ってください。
func (l *Layer) AddImages(imgs ...*TraitImage) {
	if len(imgs) == 0 {
		return
	}
	l.images = append(l.images, imgs...)
	l.equalize()
}

// RemoveImage は画像を削除し、残りの画像のレア度を均等割りにリセットします。
// 後続の画像のインデックスがずれるため、生成済みの出力がある場合は Session.RemoveImage を使ってください。
func (l *Layer) RemoveImage(i int) error {
	if i < 0 || i >= len(l.images) {
		return fmt.Errorf("layer %q image %d: %w", l.Name, i, ErrIndexOutOfRange)
	}
	l.images = append(l.images[:i], l.images[i+1:]...)
	l.equalize()
	return nil
}

// SetImageRarity は i 番目の画像のレア度を更新します。
// 合計が100を超える場合、超過分を他の画像から比例的に差し引きます。
// 他の画像がすべて0なら編集対象を100に固定します。
func (l *Layer) SetImageRarity(i, v int) error {
	if i < 0 || i >= len(l.images) {
		return fmt.Errorf("layer %q image %d: %w", l.Name, i, ErrIndexOutOfRange)
	}
	edited := ClampRarity(v)
	l.images[i].rarity = edited

	total := l.RaritySum()
	if total <= MaxRarity {
		return nil
	}

	otherSum := total - edited
	if otherSum <= 0 {
		l.images[i].rarity = MaxRarity
		return nil
	}

	// (otherSum - excess) は常に 100 - edited に等しい
	remaining := MaxRarity - edited
	for j, img := range l.images {
		if j == i {
			continue
		}
		img.rarity = max(0, img.rarity*remaining/otherSum)
	}
	return nil
}

// RenameImage はメタデータ用の表示名を変更します。
func (l *Layer) RenameImage(i int, name string) error {
	if i < 0 || i >= len(l.images) {
		return fmt.Errorf("layer %q image %d: %w", l.Name, i, ErrIndexOutOfRange)
	}
	l.images[i].Name = name
	return nil
}

func (l *Layer) equalize() {
	if len(l.images) == 0 {
		return
	}
	share := MaxRarity / len(l.images)
	for _, img := range l.images {
		img.rarity = share
	}
}
