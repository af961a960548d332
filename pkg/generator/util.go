package generator

import (
	"fmt"
	"math"
)

// FileName はアーカイブ内の連番ファイル名です。index は 0 始まりで、名前は 1 始まりになります。
func FileName(prefix string, index int, ext string) string {
	return fmt.Sprintf("%s%d.%s", prefix, index+1, ext)
}

// SingleFileName は個別ダウンロード時のファイル名です。
func SingleFileName(prefix, id, ext string) string {
	return fmt.Sprintf("%s%s.%s", prefix, id, ext)
}

// progressPercent は done/total を四捨五入した百分率にします。
func progressPercent(done, total int) int {
	if total <= 0 {
		return 100
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}

// mulSaturating は int の範囲を超える積を math.MaxInt に丸めます。
func mulSaturating(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	if a > math.MaxInt/b {
		return math.MaxInt
	}
	return a * b
}
