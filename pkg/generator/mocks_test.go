package generator

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"time"

	"github.com/shouni/nft-layer-kit/pkg/domain"
)

// --- Mocks ---

// mockDecoder は Source の文字列をキーに単色画像を返すデコーダーです。
type mockDecoder struct {
	images map[string]image.Image
	calls  int
}

func newMockDecoder() *mockDecoder {
	return &mockDecoder{images: map[string]image.Image{
		"red":   solid(color.RGBA{255, 0, 0, 255}),
		"green": solid(color.RGBA{0, 255, 0, 255}),
		"blue":  solid(color.RGBA{0, 0, 255, 255}),
	}}
}

func (m *mockDecoder) Decode(ctx context.Context, data []byte) (image.Image, error) {
	m.calls++
	img, ok := m.images[string(data)]
	if !ok {
		return nil, errors.New("broken image")
	}
	return img, nil
}

func solid(c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

type mockEncoder struct {
	err error
}

func (m *mockEncoder) Encode(img image.Image) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	c := color.RGBAModel.Convert(img.At(0, 0)).(color.RGBA)
	return []byte{c.R, c.G, c.B, c.A}, nil
}

func (m *mockEncoder) Extension() string { return "png" }

// mockArchive はメモリ上にエントリを保持するアーカイブです。
type mockArchive struct {
	order     []string
	entries   map[string]*bytes.Buffer
	createErr error
	closeErr  error
	closed    bool
}

func newMockArchive() *mockArchive {
	return &mockArchive{entries: make(map[string]*bytes.Buffer)}
}

func (m *mockArchive) Create(name string) (io.Writer, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	buf := new(bytes.Buffer)
	m.entries[name] = buf
	m.order = append(m.order, name)
	return buf, nil
}

func (m *mockArchive) Close() error {
	m.closed = true
	return m.closeErr
}

type mockCache struct {
	data map[string]any
}

func (m *mockCache) Get(key string) (any, bool) {
	val, ok := m.data[key]
	return val, ok
}

func (m *mockCache) Set(key string, value any, d time.Duration) {
	m.data[key] = value
}

type mockGate struct {
	ok    bool
	err   error
	calls int
}

func (m *mockGate) Authorize(ctx context.Context) (bool, error) {
	m.calls++
	return m.ok, m.err
}

// --- Fixtures ---

// newTestLayer は Source が色名の画像を持つレイヤーを作ります。
func newTestLayer(name string, z int, colors ...string) *domain.Layer {
	l := domain.NewLayer(name, z)
	for _, c := range colors {
		l.AddImages(domain.NewTraitImage(c, []byte(c), 0))
	}
	return l
}

func seedPtr(v int64) *int64 {
	return &v
}
