package utils

import (
	"path"
	"strings"
	"time"
)

// ResolveSeed は乱数シードを決定します。
// nil の場合は現在時刻から生成し、値がある場合はそれをそのまま使います。
func ResolveSeed(seed *int64) int64 {
	if seed == nil {
		return time.Now().UnixNano()
	}
	return *seed
}

// BaseName はパスからファイル名部分を取り出します。Windows 形式の区切りも扱います。
func BaseName(name string) string {
	return path.Base(strings.ReplaceAll(name, "\\", "/"))
}

// FileStem はファイル名から最初の "." より前の部分を取り出します。
// "hat.gold.png" は "hat" になります。アップロード時の表示名の初期値に使います。
func FileStem(name string) string {
	base := BaseName(name)
	if i := strings.Index(base, "."); i >= 0 {
		return base[:i]
	}
	return base
}
