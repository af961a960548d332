package generator

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shouni/nft-layer-kit/pkg/domain"
)

// ManifestDelimiter はメタデータ CSV の区切り文字です。
const ManifestDelimiter = ';'

// Manifest は出力ファイル名と各レイヤーの選択結果の対応表です。
type Manifest struct {
	Header []string
	Rows   [][]string
}

// NewManifest はレイヤー名からヘッダー行を作ります。
func NewManifest(layers []*domain.Layer) *Manifest {
	header := make([]string, 0, len(layers)+1)
	header = append(header, "Filename")
	for _, l := range layers {
		header = append(header, l.Name)
	}
	return &Manifest{Header: header}
}

// Row は1件分の行を作ります。未使用のレイヤーは "None" になります。
func Row(fileName string, layers []*domain.Layer, out domain.GeneratedOutput) []string {
	row := make([]string, 0, len(layers)+1)
	row = append(row, fileName)
	for i := range layers {
		if img := out.SelectedImage(layers, i); img != nil {
			row = append(row, img.Name)
			continue
		}
		row = append(row, NoneLabel)
	}
	return row
}

// Add は行を追加します。
func (m *Manifest) Add(fileName string, layers []*domain.Layer, out domain.GeneratedOutput) {
	m.Rows = append(m.Rows, Row(fileName, layers, out))
}

// WriteTo は ";" 区切りで書き出します。
func (m *Manifest) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	csvw := csv.NewWriter(cw)
	csvw.Comma = ManifestDelimiter
	if err := csvw.Write(m.Header); err != nil {
		return cw.n, fmt.Errorf("write manifest header: %w", err)
	}
	if err := csvw.WriteAll(m.Rows); err != nil {
		return cw.n, fmt.Errorf("write manifest rows: %w", err)
	}
	return cw.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
