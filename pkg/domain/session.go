package domain

import (
	"fmt"
	"strings"
)

// Session は1つの生成作業におけるレイヤーと生成結果を保持する可変状態です。
// 呼び出し側（UI や CLI）だけが参照を持つことを前提とし、内部でロックは取りません。
type Session struct {
	layers  []*Layer
	outputs []GeneratedOutput
}

func NewSession() *Session {
	return &Session{}
}

// AddLayer は末尾にレイヤーを追加します。ZIndex は追加時点のレイヤー数です。
func (s *Session) AddLayer(name string) (*Layer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyLayerName
	}
	l := NewLayer(name, len(s.layers))
	s.layers = append(s.layers, l)
	s.outputs = nil
	return l, nil
}

// RemoveLayer はレイヤーを削除します。Selections が位置依存のため生成結果も破棄します。
func (s *Session) RemoveLayer(i int) error {
	if i < 0 || i >= len(s.layers) {
		return fmt.Errorf("layer %d: %w", i, ErrIndexOutOfRange)
	}
	s.layers = append(s.layers[:i], s.layers[i+1:]...)
	s.outputs = nil
	return nil
}

func (s *Session) Layer(i int) (*Layer, error) {
	if i < 0 || i >= len(s.layers) {
		return nil, fmt.Errorf("layer %d: %w", i, ErrIndexOutOfRange)
	}
	return s.layers[i], nil
}

// Layers はレイヤー一覧のコピーを返します。
func (s *Session) Layers() []*Layer {
	out := make([]*Layer, len(s.layers))
	copy(out, s.layers)
	return out
}

// ToggleLayer はレイヤーの有効/無効を切り替え、切り替え後の状態を返します。
func (s *Session) ToggleLayer(i int) (bool, error) {
	l, err := s.Layer(i)
	if err != nil {
		return false, err
	}
	l.Enabled = !l.Enabled
	return l.Enabled, nil
}

func (s *Session) SetLayerZIndex(i, z int) error {
	l, err := s.Layer(i)
	if err != nil {
		return err
	}
	l.ZIndex = z
	return nil
}

// AddImages は i 番目のレイヤーに画像を追加します。
// 画像のインデックスが変わるため生成結果は破棄します。
func (s *Session) AddImages(i int, imgs ...*TraitImage) error {
	l, err := s.Layer(i)
	if err != nil {
		return err
	}
	l.AddImages(imgs...)
	s.outputs = nil
	return nil
}

// RemoveImage は i 番目のレイヤーから j 番目の画像を削除し、生成結果を破棄します。
func (s *Session) RemoveImage(i, j int) error {
	l, err := s.Layer(i)
	if err != nil {
		return err
	}
	if err := l.RemoveImage(j); err != nil {
		return err
	}
	s.outputs = nil
	return nil
}

func (s *Session) SetOutputs(outputs []GeneratedOutput) {
	s.outputs = outputs
}

func (s *Session) Outputs() []GeneratedOutput {
	return s.outputs
}

func (s *Session) ClearOutputs() {
	s.outputs = nil
}

// Reset はすべてのレイヤーと生成結果を破棄します。
func (s *Session) Reset() {
	s.layers = nil
	s.outputs = nil
}
