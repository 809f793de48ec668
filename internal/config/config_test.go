package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrivers(t *testing.T) {
	dir := t.TempDir()
	drivers := map[string]Driver{
		"yaml":   NewYAML(filepath.Join(dir, "config.yaml")),
		"json":   NewJSON(filepath.Join(dir, "config.json")),
		"memory": NewMemory(),
	}

	for name, driver := range drivers {
		t.Run(name, func(t *testing.T) {
			exists, err := driver.Exists()
			require.NoError(t, err)
			assert.False(t, exists)

			store, err := NewStore(driver)
			require.NoError(t, err)

			exists, err = driver.Exists()
			require.NoError(t, err)
			assert.True(t, exists)

			cfg, err := store.GetConfig()
			require.NoError(t, err)
			assert.Equal(t, Default(), cfg)

			err = store.UpdateConfig(func(cfg Config) (Config, error) {
				cfg.Tiling.Gap = 2
				cfg.Clients = cfg.Clients[:1]
				return cfg, nil
			})
			require.NoError(t, err)

			cfg, err = store.GetConfig()
			require.NoError(t, err)
			assert.Equal(t, 2, cfg.Tiling.Gap)
			assert.Len(t, cfg.Clients, 1)
		})
	}
}

func TestYAMLPartial(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(filePath, []byte(`
output:
  width: 800
clients:
  - title: only
    color: "#ffffff"
`), 0600))

	cfg, err := NewYAML(filePath).Read()
	require.NoError(t, err)
	assert.Equal(t, 800, cfg.Output.Width)
	assert.Equal(t, 720, cfg.Output.Height)
	assert.Equal(t, []string{"seat0"}, cfg.Seats)
	require.Len(t, cfg.Clients, 1)
	assert.Equal(t, Client{Title: "only", Color: "#ffffff"}, cfg.Clients[0])
}

func TestReadInvalid(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("output: [1"), 0600))
	_, err := NewYAML(yamlPath).Read()
	assert.Error(t, err)

	jsonPath := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte("{"), 0600))
	_, err = NewJSON(jsonPath).Read()
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	store, err := NewStore(NewMemory())
	require.NoError(t, err)

	require.NoError(t, Normalize(&store))

	cfg, err := store.GetConfig()
	require.NoError(t, err)
	ids := make(map[string]struct{})
	for _, c := range cfg.Clients {
		assert.NotEmpty(t, c.UUID)
		ids[c.UUID] = struct{}{}
	}
	assert.Len(t, ids, len(cfg.Clients))

	require.NoError(t, Normalize(&store))
	again, err := store.GetConfig()
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(Default()))

	cfg := Default()
	cfg.Output.Width = 0
	cfg.Output.Renderer = RendererMulti
	cfg.Tiling.Mode = TilingManual
	cfg.Tiling.Panes = []Pane{{X: 0.5, W: 0.6, H: 1}}
	cfg.Clients[0].Color = "blue"
	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output size")
	assert.Contains(t, err.Error(), "adapters")
	assert.Contains(t, err.Error(), "pane 0")
	assert.Contains(t, err.Error(), "client 0")
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#102030")
	require.NoError(t, err)
	assert.Equal(t, uint8(0x10), c.R)
	assert.Equal(t, uint8(0x20), c.G)
	assert.Equal(t, uint8(0x30), c.B)
	assert.Equal(t, uint8(0xff), c.A)

	c, err = ParseColor("#10203040")
	require.NoError(t, err)
	assert.Equal(t, uint8(0x40), c.A)

	for _, s := range []string{"", "102030", "#12345", "#gggggg"} {
		_, err := ParseColor(s)
		assert.Error(t, err, s)
	}
}
