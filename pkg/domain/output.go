package domain

// NoImage はそのレイヤーで画像が選ばれなかったことを示すインデックスです。
const NoImage = -1

// Selection は1つの出力における1レイヤー分の抽選結果です。
type Selection struct {
	Used  bool // レイヤー出現率の抽選に当選したか
	Image int  // 選択画像のインデックス。NoImage なら画像なし
}

// Selected は画像が実際に選ばれているかを返します。
func (s Selection) Selected() bool {
	return s.Used && s.Image != NoImage
}

// Unused は「画像なし」の Selection です。
func Unused() Selection {
	return Selection{Image: NoImage}
}

// GeneratedOutput は抽選された1つの組み合わせです。
// Selections はレイヤー順に1件ずつ並びます。
type GeneratedOutput struct {
	ID         string
	Selections []Selection
}

// SelectedImage は layerIdx 番目のレイヤーで選ばれた画像を返します。
// 未使用・範囲外・画像が削除済みの場合は nil を返します。
func (o GeneratedOutput) SelectedImage(layers []*Layer, layerIdx int) *TraitImage {
	if layerIdx < 0 || layerIdx >= len(o.Selections) || layerIdx >= len(layers) {
		return nil
	}
	sel := o.Selections[layerIdx]
	if !sel.Selected() {
		return nil
	}
	img, err := layers[layerIdx].Image(sel.Image)
	if err != nil {
		return nil
	}
	return img
}
