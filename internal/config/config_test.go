package config

import (
	"testing"

	"github.com/AvengeMedia/danktk/internal/wayland"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPath = "/home/user/.config/danktk/config.toml"

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	s, err := Load(afero.NewMemMapFs(), testPath)
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
	assert.NoError(t, s.Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, testPath, []byte(`
id = "org.example.demo"
log_level = "debug"

[window]
width = 640
height = 480
min_width = 200
resize_border = 4
decorations = false
title = "Demo"

[layer]
layer = "overlay"
anchor = ["bottom"]
height = 40
exclusive_zone = 40
keyboard = "on-demand"
margin = [1, 2, 3, 4]
`), 0o644))

	s, err := Load(fs, testPath)
	require.NoError(t, err)

	assert.Equal(t, "org.example.demo", s.ID)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, uint32(640), s.Window.Width)
	assert.Equal(t, uint32(480), s.Window.Height)
	assert.Equal(t, 4.0, s.Window.ResizeBorder)
	assert.Equal(t, "Demo", s.Window.Title)
	assert.True(t, s.Window.Resizable, "unset keys keep their defaults")
	assert.Equal(t, 14, s.DefaultTextSize)
	assert.Equal(t, [4]int32{1, 2, 3, 4}, s.Layer.Margin)

	ls := s.LayerSettings()
	assert.Equal(t, wayland.LayerOverlay, ls.Layer)
	assert.Equal(t, wayland.AnchorBottom, ls.Anchor)
	assert.Equal(t, wayland.KeyboardInteractivityOnDemand, ls.KeyboardInteractivity)
	assert.Equal(t, wayland.Margin{Top: 1, Right: 2, Bottom: 3, Left: 4}, ls.Margin)
}

func TestLoadRejectsBadToml(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, testPath, []byte("[window\nwidth = "), 0o644))

	_, err := Load(fs, testPath)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{"defaults", func(*Settings) {}, ""},
		{"zero width", func(s *Settings) { s.Window.Width = 0 }, "window size must be positive"},
		{"negative border", func(s *Settings) { s.Window.ResizeBorder = -1 }, "resize_border"},
		{"min above max", func(s *Settings) { s.Window.MinWidth, s.Window.MaxWidth = 500, 400 }, "min_width"},
		{"unknown level", func(s *Settings) { s.Window.Level = "floating" }, "unknown window level"},
		{"unknown position", func(s *Settings) { s.Window.Position = "random" }, "unknown window position"},
		{"unknown layer", func(s *Settings) { s.Layer.Layer = "middle" }, "unknown layer"},
		{"unknown anchor", func(s *Settings) { s.Layer.Anchor = []string{"up"} }, "unknown layer anchor"},
		{"unknown keyboard", func(s *Settings) { s.Layer.Keyboard = "always" }, "keyboard mode"},
		{"text size", func(s *Settings) { s.DefaultTextSize = 0 }, "default_text_size"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := Default()
			tc.mutate(&s)
			err := s.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestWindowSettings(t *testing.T) {
	s := Default()
	s.Window.MinWidth, s.Window.MinHeight = 100, 50

	ws := s.WindowSettings()
	assert.Equal(t, s.ID, ws.AppID)
	assert.Equal(t, wayland.Size{Width: 1024, Height: 768}, ws.Size)
	assert.Equal(t, wayland.DecorationServer, ws.Decorations)
	require.NotNil(t, ws.MinSize)
	assert.Equal(t, wayland.Size{Width: 100, Height: 50}, *ws.MinSize)
	assert.Nil(t, ws.MaxSize)

	s.Window.Decorations = false
	assert.Equal(t, wayland.DecorationClient, s.WindowSettings().Decorations)
}

func TestLayerSettings(t *testing.T) {
	s := Default()
	ls := s.LayerSettings()

	assert.Equal(t, wayland.LayerTop, ls.Layer)
	assert.Equal(t, wayland.AnchorTop|wayland.AnchorLeft|wayland.AnchorRight, ls.Anchor)
	assert.Nil(t, ls.Width)
	require.NotNil(t, ls.Height)
	assert.Equal(t, uint32(32), *ls.Height)
	assert.Equal(t, "danktk", ls.Namespace)
}
