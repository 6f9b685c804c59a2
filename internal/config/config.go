package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/AvengeMedia/danktk/internal/wayland"
	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/afero"
	"golang.org/x/exp/slices"
)

const (
	appName  = "danktk"
	fileName = "config.toml"
)

type Settings struct {
	ID                 string `koanf:"id"`
	DefaultFont        string `koanf:"default_font"`
	DefaultTextSize    int    `koanf:"default_text_size"`
	Antialiasing       bool   `koanf:"antialiasing"`
	ExitOnCloseRequest bool   `koanf:"exit_on_close_request"`
	LogLevel           string `koanf:"log_level"`

	Window Window `koanf:"window"`
	Layer  Layer  `koanf:"layer"`
}

type Window struct {
	Width        uint32  `koanf:"width"`
	Height       uint32  `koanf:"height"`
	MinWidth     uint32  `koanf:"min_width"`
	MinHeight    uint32  `koanf:"min_height"`
	MaxWidth     uint32  `koanf:"max_width"`
	MaxHeight    uint32  `koanf:"max_height"`
	Visible      bool    `koanf:"visible"`
	Decorations  bool    `koanf:"decorations"`
	Transparent  bool    `koanf:"transparent"`
	Resizable    bool    `koanf:"resizable"`
	ResizeBorder float64 `koanf:"resize_border"`
	Title        string  `koanf:"title"`
	AppID        string  `koanf:"app_id"`
	// Level and Position have no xdg-shell request; they are validated and
	// reported but not applied.
	Level    string `koanf:"level"`
	Position string `koanf:"position"`
}

// Layer configures the surface `dtk layer` opens. An empty anchor list
// means a top bar.
type Layer struct {
	Layer         string   `koanf:"layer"`
	Anchor        []string `koanf:"anchor"`
	Width         uint32   `koanf:"width"`
	Height        uint32   `koanf:"height"`
	ExclusiveZone int32    `koanf:"exclusive_zone"`
	Keyboard      string   `koanf:"keyboard"`
	Namespace     string   `koanf:"namespace"`
	Margin        [4]int32 `koanf:"margin"`
}

var (
	windowLevels    = []string{"normal", "always-on-top", "always-on-bottom"}
	windowPositions = []string{"default", "centered"}
	layerNames      = map[string]wayland.Layer{
		"background": wayland.LayerBackground,
		"bottom":     wayland.LayerBottom,
		"top":        wayland.LayerTop,
		"overlay":    wayland.LayerOverlay,
	}
	anchorNames = map[string]wayland.Anchor{
		"top":    wayland.AnchorTop,
		"bottom": wayland.AnchorBottom,
		"left":   wayland.AnchorLeft,
		"right":  wayland.AnchorRight,
	}
	keyboardModes = map[string]wayland.KeyboardInteractivity{
		"none":      wayland.KeyboardInteractivityNone,
		"exclusive": wayland.KeyboardInteractivityExclusive,
		"on-demand": wayland.KeyboardInteractivityOnDemand,
	}
)

func Default() Settings {
	return Settings{
		ID:                 "org.avengemedia.danktk",
		DefaultTextSize:    14,
		ExitOnCloseRequest: true,
		LogLevel:           "info",
		Window: Window{
			Width:        1024,
			Height:       768,
			Visible:      true,
			Decorations:  true,
			Resizable:    true,
			ResizeBorder: 8,
			Title:        "danktk",
			Level:        "normal",
			Position:     "default",
		},
		Layer: Layer{
			Layer:     "top",
			Height:    32,
			Keyboard:  "none",
			Namespace: appName,
		},
	}
}

// DefaultPath is $XDG_CONFIG_HOME/danktk/config.toml.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, appName, fileName)
}

// Load reads path from fsys on top of the defaults. A missing file yields
// the defaults.
func Load(fsys afero.Fs, path string) (Settings, error) {
	s := Default()

	data, err := afero.ReadFile(fsys, path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(data), toml.Parser()); err != nil {
		return s, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := k.Unmarshal("", &s); err != nil {
		return s, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	return s, s.Validate()
}

func (s Settings) Validate() error {
	var errs []error
	w := s.Window
	if w.Width == 0 || w.Height == 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", w.Width, w.Height))
	}
	if w.ResizeBorder < 0 {
		errs = append(errs, fmt.Errorf("window resize_border must not be negative, got %v", w.ResizeBorder))
	}
	if w.MaxWidth != 0 && w.MinWidth > w.MaxWidth {
		errs = append(errs, fmt.Errorf("window min_width %d exceeds max_width %d", w.MinWidth, w.MaxWidth))
	}
	if w.MaxHeight != 0 && w.MinHeight > w.MaxHeight {
		errs = append(errs, fmt.Errorf("window min_height %d exceeds max_height %d", w.MinHeight, w.MaxHeight))
	}
	if !slices.Contains(windowLevels, w.Level) {
		errs = append(errs, fmt.Errorf("unknown window level %q (want one of %s)", w.Level, strings.Join(windowLevels, ", ")))
	}
	if !slices.Contains(windowPositions, w.Position) {
		errs = append(errs, fmt.Errorf("unknown window position %q (want one of %s)", w.Position, strings.Join(windowPositions, ", ")))
	}
	if s.DefaultTextSize <= 0 {
		errs = append(errs, fmt.Errorf("default_text_size must be positive, got %d", s.DefaultTextSize))
	}

	l := s.Layer
	if _, ok := layerNames[l.Layer]; !ok {
		errs = append(errs, fmt.Errorf("unknown layer %q", l.Layer))
	}
	for _, a := range l.Anchor {
		if _, ok := anchorNames[a]; !ok {
			errs = append(errs, fmt.Errorf("unknown layer anchor %q", a))
		}
	}
	if _, ok := keyboardModes[l.Keyboard]; !ok {
		errs = append(errs, fmt.Errorf("unknown layer keyboard mode %q", l.Keyboard))
	}
	return errors.Join(errs...)
}

// WindowSettings converts the window section into creation input.
func (s Settings) WindowSettings() wayland.WindowSettings {
	w := s.Window
	ws := wayland.WindowSettings{
		AppID:        w.AppID,
		Title:        w.Title,
		Size:         wayland.Size{Width: w.Width, Height: w.Height},
		Resizable:    w.Resizable,
		ResizeBorder: w.ResizeBorder,
		Decorations:  wayland.DecorationClient,
		Transparent:  w.Transparent,
	}
	if ws.AppID == "" {
		ws.AppID = s.ID
	}
	if w.Decorations {
		ws.Decorations = wayland.DecorationServer
	}
	if w.MinWidth != 0 || w.MinHeight != 0 {
		ws.MinSize = &wayland.Size{Width: w.MinWidth, Height: w.MinHeight}
	}
	if w.MaxWidth != 0 || w.MaxHeight != 0 {
		ws.MaxSize = &wayland.Size{Width: w.MaxWidth, Height: w.MaxHeight}
	}
	return ws
}

// LayerSettings converts the layer section. Call Validate first; unknown
// names map to zero values.
func (s Settings) LayerSettings() wayland.LayerSettings {
	l := s.Layer
	ls := wayland.LayerSettings{
		Layer:                 layerNames[l.Layer],
		KeyboardInteractivity: keyboardModes[l.Keyboard],
		PointerInteractivity:  true,
		Namespace:             l.Namespace,
		Margin:                wayland.Margin{Top: l.Margin[0], Right: l.Margin[1], Bottom: l.Margin[2], Left: l.Margin[3]},
		ExclusiveZone:         l.ExclusiveZone,
	}
	for _, a := range l.Anchor {
		ls.Anchor |= anchorNames[a]
	}
	if len(l.Anchor) == 0 {
		ls.Anchor = wayland.AnchorTop | wayland.AnchorLeft | wayland.AnchorRight
	}
	if l.Width != 0 {
		ls.Width = &l.Width
	}
	if l.Height != 0 {
		ls.Height = &l.Height
	}
	return ls
}
