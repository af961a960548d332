package generator

import (
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/shouni/nft-layer-kit/pkg/domain"
)

// countable は組み合わせ数に寄与するレイヤー（有効かつ画像あり）かを返します。
func countable(l *domain.Layer) bool {
	return l.Enabled && l.ImageCount() > 0
}

// TotalCombinations は有効なレイヤーの画像数の積です。
// 無効なレイヤーと空のレイヤーは係数 1 として扱うため、レイヤーが無い場合は 1 になります。
func TotalCombinations(layers []*domain.Layer) int {
	total := 1
	for _, l := range layers {
		if !countable(l) {
			continue
		}
		total = mulSaturating(total, l.ImageCount())
	}
	return total
}

// MaxBatchSize は min(ceiling, TotalCombinations) です。ceiling が 0 以下なら上限なし。
func MaxBatchSize(layers []*domain.Layer, ceiling int) int {
	total := TotalCombinations(layers)
	if ceiling <= 0 {
		return total
	}
	return min(ceiling, total)
}

// ResolveBatchSize は要求数を検証します。
// 上限を超える場合は上限値と ErrBatchSizeExceeded の両方を返すので、
// 呼び出し側で丸めるか拒否するかを選べます。
func ResolveBatchSize(n, maxAllowed int) (int, error) {
	if n < 1 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidBatchSize, n)
	}
	if n > maxAllowed {
		return maxAllowed, fmt.Errorf("%w: requested %d, max %d", ErrBatchSizeExceeded, n, maxAllowed)
	}
	return n, nil
}

// ParseBatchSize はフォーム入力などの文字列を要求数に変換します。
func ParseBatchSize(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidBatchSize, s)
	}
	if n < 1 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidBatchSize, n)
	}
	return n, nil
}

// Combinations はすべての決定的な組み合わせを列挙します。
// 各要素はレイヤー順の画像インデックスで、対象外のレイヤーは domain.NoImage です。
// 列挙数は TotalCombinations と一致します。yield に渡したスライスは次の反復で再利用されます。
func Combinations(layers []*domain.Layer) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		current := make([]int, len(layers))
		var walk func(i int) bool
		walk = func(i int) bool {
			if i == len(layers) {
				return yield(current)
			}
			if !countable(layers[i]) {
				current[i] = domain.NoImage
				return walk(i + 1)
			}
			for j := range layers[i].ImageCount() {
				current[i] = j
				if !walk(i + 1) {
					return false
				}
			}
			return true
		}
		walk(0)
	}
}
