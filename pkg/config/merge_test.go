package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleConfig struct {
	Host    string
	Port    int
	Timeout time.Duration
	Labels  map[string]string
	Nested  *nestedConfig
}

type nestedConfig struct {
	Enabled bool
	Count   int
}

func TestMergeConfig(t *testing.T) {
	t.Run("both nil returns error", func(t *testing.T) {
		_, err := MergeConfig[sampleConfig](nil, nil)
		assert.ErrorIs(t, err, ErrBothNil)
	})

	t.Run("dst nil returns src", func(t *testing.T) {
		src := &sampleConfig{Host: "localhost"}
		got, err := MergeConfig(nil, src)
		require.NoError(t, err)
		assert.Same(t, src, got)
	})

	t.Run("src nil returns dst", func(t *testing.T) {
		dst := &sampleConfig{Host: "localhost"}
		got, err := MergeConfig(dst, nil)
		require.NoError(t, err)
		assert.Same(t, dst, got)
	})

	t.Run("src non-zero fields override dst", func(t *testing.T) {
		dst := &sampleConfig{Host: "localhost", Port: 6379, Timeout: 3 * time.Second}
		src := &sampleConfig{Port: 6380}

		got, err := MergeConfig(dst, src)
		require.NoError(t, err)
		assert.Equal(t, "localhost", got.Host) // src zero value, kept
		assert.Equal(t, 6380, got.Port)        // overridden
		assert.Equal(t, 3*time.Second, got.Timeout)
	})

	t.Run("maps merge by key", func(t *testing.T) {
		dst := &sampleConfig{Labels: map[string]string{"a": "1", "b": "2"}}
		src := &sampleConfig{Labels: map[string]string{"b": "3", "c": "4"}}

		got, err := MergeConfig(dst, src)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"a": "1", "b": "3", "c": "4"}, got.Labels)
	})

	t.Run("nested pointers merge recursively", func(t *testing.T) {
		dst := &sampleConfig{Nested: &nestedConfig{Enabled: true, Count: 5}}
		src := &sampleConfig{Nested: &nestedConfig{Count: 10}}

		got, err := MergeConfig(dst, src)
		require.NoError(t, err)
		assert.True(t, got.Nested.Enabled)
		assert.Equal(t, 10, got.Nested.Count)
	})

	t.Run("nil dst pointer takes src pointer", func(t *testing.T) {
		dst := &sampleConfig{}
		src := &sampleConfig{Nested: &nestedConfig{Count: 7}}

		got, err := MergeConfig(dst, src)
		require.NoError(t, err)
		require.NotNil(t, got.Nested)
		assert.Equal(t, 7, got.Nested.Count)
	})
}
