package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/vscroll/internal/config"
)

// newDefaultTarget returns a Config with known non-zero values so tests can
// verify that absent overlay keys leave the original values intact.
func newDefaultTarget() *config.Config {
	return &config.Config{
		Window: config.WindowConfig{
			ItemHeight:     32,
			Overscan:       4,
			ScrollDebounce: 200 * time.Millisecond,
		},
		Logging: config.LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// writeOverlay is a test helper that writes YAML content to a temp file
// and returns its path.
func writeOverlay(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "overlay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestShallowMergeYAML_SingleKeyOverride(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
window:
  item_height: 18
  overscan: 1
`)

	err := config.ShallowMergeYAML(target, overlay)
	require.NoError(t, err)

	// Window is replaced as a whole section.
	assert.InDelta(t, 18.0, target.Window.ItemHeight, 0)
	assert.Equal(t, 1, target.Window.Overscan)
	assert.Equal(t, time.Duration(0), target.Window.ScrollDebounce)

	// Logging is untouched.
	assert.Equal(t, "info", target.Logging.Level)
	assert.Equal(t, "console", target.Logging.Format)
}

func TestShallowMergeYAML_MultipleKeyOverride(t *testing.T) {
	target := newDefaultTarget()
	overlay := writeOverlay(t, `
window:
  item_height: 24
  overscan: 3
  scroll_debounce: 80ms
logging:
  level: debug
  format: json
unknown_section:
  anything: true
`)

	err := config.ShallowMergeYAML(target, overlay)
	require.NoError(t, err)

	assert.InDelta(t, 24.0, target.Window.ItemHeight, 0)
	assert.Equal(t, 80*time.Millisecond, target.Window.ScrollDebounce)
	assert.Equal(t, "debug", target.Logging.Level)
	assert.Equal(t, "json", target.Logging.Format)
}

func TestShallowMergeYAML_EmptyOverlayFile(t *testing.T) {
	target := newDefaultTarget()
	original := *target
	overlay := writeOverlay(t, "# nothing here\n")

	err := config.ShallowMergeYAML(target, overlay)
	require.NoError(t, err)
	assert.Equal(t, original, *target)
}

func TestShallowMergeYAML_Errors(t *testing.T) {
	err := config.ShallowMergeYAML(nil, "whatever.yaml")
	require.Error(t, err)

	err = config.ShallowMergeYAML(newDefaultTarget(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	overlay := writeOverlay(t, "window: [not, a, map")
	err = config.ShallowMergeYAML(newDefaultTarget(), overlay)
	require.Error(t, err)

	overlay = writeOverlay(t, "window:\n  overscan: lots\n")
	err = config.ShallowMergeYAML(newDefaultTarget(), overlay)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"window"`)
}
