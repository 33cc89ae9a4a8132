package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePathsWithHomeOverride(t *testing.T) {
	t.Setenv("HONEYPOT_HOME", "/custom/honeypot")

	p, err := ResolvePaths()
	require.NoError(t, err)
	assert.Equal(t, "/custom/honeypot", p.Base)
	assert.Equal(t, filepath.Join("/custom/honeypot", "config.yaml"), p.Config)
	assert.Equal(t, filepath.Join("/custom/honeypot", "data"), p.Data)
	assert.Equal(t, filepath.Join("/custom/honeypot", "data", "honeypot.db"), p.DefaultDBPath())
}

func TestResolvePathsDefault(t *testing.T) {
	t.Setenv("HONEYPOT_HOME", "")

	p, err := ResolvePaths()
	require.NoError(t, err)
	assert.Contains(t, p.Base, defaultBaseDir)
}

func TestEnsureDirs(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HONEYPOT_HOME", dir)

	p, err := ResolvePaths()
	require.NoError(t, err)
	require.NoError(t, p.EnsureDirs())

	assert.DirExists(t, p.Data)
	assert.DirExists(t, p.Logs)
}

func TestParseConfigPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{"simple", "gateway.port", []string{"gateway", "port"}, false},
		{"single", "logging", []string{"logging"}, false},
		{"empty", "", nil, true},
		{"empty segment", "gateway..port", nil, true},
		{"blocked key", "gateway.__proto__", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseConfigPath(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetSetUnsetValueAtPath(t *testing.T) {
	root := map[string]any{}

	SetValueAtPath(root, []string{"callback", "url"}, "https://example.com")
	val, ok := GetValueAtPath(root, []string{"callback", "url"})
	require.True(t, ok)
	assert.Equal(t, "https://example.com", val)

	_, ok = GetValueAtPath(root, []string{"callback", "missing"})
	assert.False(t, ok)

	assert.True(t, UnsetValueAtPath(root, []string{"callback", "url"}))
	_, ok = GetValueAtPath(root, []string{"callback", "url"})
	assert.False(t, ok)

	assert.False(t, UnsetValueAtPath(root, []string{"callback", "url"}))
}
