package adapters

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/shouni/nft-layer-kit/pkg/generator"
)

// ZipArchive は generator.ArchiveWriter の zip 実装です。
type ZipArchive struct {
	zw  *zip.Writer
	now func() time.Time
}

var _ generator.ArchiveWriter = (*ZipArchive)(nil)

// NewZipArchive は w に書き出す ZipArchive を生成します。
func NewZipArchive(w io.Writer) *ZipArchive {
	return &ZipArchive{zw: zip.NewWriter(w), now: time.Now}
}

// Create はアーカイブ内にエントリを作成します。
func (a *ZipArchive) Create(name string) (io.Writer, error) {
	return a.zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: a.now(),
	})
}

// Close は中央ディレクトリを書き出します。下位の io.Writer は閉じません。
func (a *ZipArchive) Close() error {
	return a.zw.Close()
}

// WriteZipFile は一時ファイルにアーカイブを組み立て、fill が成功した場合のみ path に配置します。
// 失敗時は一時ファイルを削除するため、途中までのアーカイブが残ることはありません。
func WriteZipFile(path string, fill func(generator.ArchiveWriter) error) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".nftkit-*.zip.tmp")
	if err != nil {
		return fmt.Errorf("create temp archive: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = fill(NewZipArchive(tmp)); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp archive: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("move archive into place: %w", err)
	}
	return nil
}
