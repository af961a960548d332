package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shouni/nft-layer-kit/pkg/domain"
	"github.com/shouni/nft-layer-kit/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
name: pedro
width: 512
prefix: pedro_
format: jpeg
background: "#101010"
cache_ttl: 5m
access:
  enabled: true
  endpoint: https://example.com
layers:
  - name: Background
    dir: layers/bg
  - name: Hat
    dir: file:///srv/layers/hat
    z_index: 10
    enabled: false
    layer_rarity: 40
    images:
      - file: gold.png
        name: Golden Hat
        rarity: 70
      - file: missing.png
        rarity: 10
`

func TestParse(t *testing.T) {
	t.Run("YAMLの値と既定値が反映される", func(t *testing.T) {
		cfg, err := Parse([]byte(sampleYAML))
		require.NoError(t, err)

		assert.Equal(t, "pedro", cfg.Name)
		assert.Equal(t, 512, cfg.Width)
		assert.Equal(t, 1000, cfg.Height)
		assert.Equal(t, 5000, cfg.Ceiling)
		assert.Equal(t, "pedro_", *cfg.Prefix)
		assert.Equal(t, 90, cfg.Quality)
		assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
		assert.True(t, cfg.Access.Enabled)
		assert.Equal(t, DefaultAccessTimeout, cfg.Access.Timeout)
		require.Len(t, cfg.Layers, 2)
		assert.Equal(t, 10, *cfg.Layers[1].ZIndex)
	})

	t.Run("環境変数がYAMLより優先される", func(t *testing.T) {
		t.Setenv("NFTKIT_WIDTH", "64")
		t.Setenv("NFTKIT_PREFIX", "env_")
		t.Setenv("NFTKIT_ACCESS_ENDPOINT", "https://override.example.com")

		cfg, err := Parse([]byte(sampleYAML))
		require.NoError(t, err)
		assert.Equal(t, 64, cfg.Width)
		assert.Equal(t, "env_", *cfg.Prefix)
		assert.Equal(t, "https://override.example.com", cfg.Access.Endpoint)
	})

	t.Run("不正な値はまとめてエラーになる", func(t *testing.T) {
		_, err := Parse([]byte("width: -1\nformat: bmp\nbackground: red\nlayers:\n  - dir: x\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "canvas size")
		assert.Contains(t, err.Error(), "unsupported image format")
		assert.Contains(t, err.Error(), "name is required")
	})

	t.Run("ローカル以外のスキームは読み込めないのでエラー", func(t *testing.T) {
		_, err := Parse([]byte("layers:\n  - name: Hat\n    dir: gs://bucket/hat\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unsupported dir scheme "gs"`)
	})

	t.Run("壊れたYAMLはエラー", func(t *testing.T) {
		_, err := Parse([]byte("layers: ["))
		assert.Error(t, err)
	})
}

func TestLoad_ResolveDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "collection.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "layers/bg"), cfg.ResolveDir(cfg.Layers[0].Dir))
	assert.Equal(t, "file:///srv/layers/hat", cfg.ResolveDir(cfg.Layers[1].Dir))
	assert.Equal(t, "/abs/dir", cfg.ResolveDir("/abs/dir"))

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

type stubLoader struct {
	dirs map[string][]string
}

func (s *stubLoader) LoadDir(ctx context.Context, dirURI string) ([]*domain.TraitImage, error) {
	var out []*domain.TraitImage
	for _, file := range s.dirs[dirURI] {
		img := domain.NewTraitImage(utils.FileStem(file), []byte(file), 0)
		img.FileName = file
		out = append(out, img)
	}
	return out, nil
}

func TestBuildSession(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	loader := &stubLoader{dirs: map[string][]string{
		"layers/bg":              {"blue.png", "red.png"},
		"file:///srv/layers/hat": {"gold.png", "silver.png", "straw.png"},
	}}
	session, err := cfg.BuildSession(context.Background(), loader)
	require.NoError(t, err)

	layers := session.Layers()
	require.Len(t, layers, 2)

	bg := layers[0]
	assert.Equal(t, 0, bg.ZIndex)
	assert.True(t, bg.Enabled)
	assert.Equal(t, 100, bg.LayerRarity())
	assert.Equal(t, 100, bg.RaritySum())

	hat := layers[1]
	assert.Equal(t, 10, hat.ZIndex)
	assert.False(t, hat.Enabled)
	assert.Equal(t, 40, hat.LayerRarity())

	gold, err := hat.Image(0)
	require.NoError(t, err)
	assert.Equal(t, "Golden Hat", gold.Name)
	assert.Equal(t, 70, gold.Rarity())
	assert.LessOrEqual(t, hat.RaritySum(), 100)

	_, err = cfg.BuildSession(context.Background(), nil)
	assert.Error(t, err)
}

func TestBuildSession_SameStemDifferentFiles(t *testing.T) {
	cfg, err := Parse([]byte(`
layers:
  - name: Hat
    dir: hats
    images:
      - file: hat.png
        rarity: 90
        name: Plain Hat
`))
	require.NoError(t, err)

	loader := &stubLoader{dirs: map[string][]string{
		"hats": {"hat.gold.png", "hat.png"},
	}}
	session, err := cfg.BuildSession(context.Background(), loader)
	require.NoError(t, err)

	hat, err := session.Layer(0)
	require.NoError(t, err)

	gold, err := hat.Image(0)
	require.NoError(t, err)
	plain, err := hat.Image(1)
	require.NoError(t, err)

	// 表示名の初期値はどちらも "hat" だが、上書きは拡張子込みのファイル名で照合される
	assert.Equal(t, "hat", gold.Name)
	assert.Equal(t, 10, gold.Rarity())
	assert.Equal(t, "Plain Hat", plain.Name)
	assert.Equal(t, 90, plain.Rarity())
}
