package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("nil config uses defaults", func(t *testing.T) {
		l, err := New(nil)
		require.NoError(t, err)
		assert.Equal(t, InfoLevel, l.config.Level)
		assert.True(t, l.config.EnableConsole)
	})

	t.Run("partial config merged over defaults", func(t *testing.T) {
		l, err := New(&Config{Level: DebugLevel})
		require.NoError(t, err)
		assert.Equal(t, DebugLevel, l.config.Level)
		assert.Equal(t, JSONFormat, l.config.Format)
	})

	t.Run("file output without path fails", func(t *testing.T) {
		_, err := New(&Config{EnableFile: true})
		assert.ErrorIs(t, err, ErrInvalidOutputPath)
	})

	t.Run("file output writes log", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.log")
		l, err := New(&Config{
			EnableFile: true,
			OutputPath: path,
		})
		require.NoError(t, err)

		l.Info("hello", "key", "value")
		_ = l.Sync()

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "hello")
		assert.Contains(t, string(data), "value")
	})
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr error
	}{
		{
			name:    "console only is valid",
			config:  &Config{EnableConsole: true},
			wantErr: nil,
		},
		{
			name:    "no output enabled",
			config:  &Config{},
			wantErr: ErrNoOutputEnabled,
		},
		{
			name:    "file without path",
			config:  &Config{EnableFile: true},
			wantErr: ErrInvalidOutputPath,
		},
		{
			name:    "file with path",
			config:  &Config{EnableFile: true, OutputPath: "/tmp/x.log"},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNamedAndWithFields(t *testing.T) {
	l, err := New(nil, WithName("base"))
	require.NoError(t, err)

	named := l.Named("pool")
	assert.NotNil(t, named)

	derived := l.WithFields("identity", "localhost:6379/0")
	assert.NotNil(t, derived)

	// odd key-value pairs are dropped, logger unchanged
	same := l.WithFields("only-key")
	assert.Same(t, Logger(l), same)
}

func TestNoopLogger(t *testing.T) {
	l := NewNoop()
	l.Debug("a")
	l.Info("b", "k", "v")
	l.Warn("c")
	l.Error("d")
	assert.Same(t, Logger(l), l.Named("x"))
	assert.Same(t, Logger(l), l.WithFields("k", "v"))
	assert.NoError(t, l.Sync())
}
