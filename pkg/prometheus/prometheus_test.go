package prometheus

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("nil config uses defaults", func(t *testing.T) {
		c, err := New(nil)
		require.NoError(t, err)
		assert.Equal(t, "redisboard", c.Config().Namespace)
	})

	t.Run("empty namespace rejected", func(t *testing.T) {
		_, err := New(&Config{})
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestMetricRegistration(t *testing.T) {
	c, err := New(&Config{Namespace: "test"})
	require.NoError(t, err)

	t.Run("counter", func(t *testing.T) {
		counter, err := c.NewCounter("requests_total", "total requests", []string{"op"})
		require.NoError(t, err)
		counter.WithLabelValues("scan").Inc()

		got, ok := c.GetCounter("requests_total")
		assert.True(t, ok)
		assert.Same(t, counter, got)
	})

	t.Run("duplicate name rejected", func(t *testing.T) {
		_, err := c.NewCounter("requests_total", "dup", nil)
		assert.ErrorIs(t, err, ErrMetricExists)
	})

	t.Run("gauge", func(t *testing.T) {
		gauge, err := c.NewGauge("pool_handles", "live handles", nil)
		require.NoError(t, err)
		gauge.WithLabelValues().Set(3)

		_, ok := c.GetGauge("pool_handles")
		assert.True(t, ok)
	})

	t.Run("histogram with default buckets", func(t *testing.T) {
		h, err := c.NewHistogram("latency_seconds", "op latency", []string{"op"}, nil)
		require.NoError(t, err)
		h.WithLabelValues("ping").Observe(0.001)
	})

	t.Run("unknown metric not found", func(t *testing.T) {
		_, ok := c.GetCounter("nope")
		assert.False(t, ok)
	})
}

func TestHandler(t *testing.T) {
	c, err := New(&Config{Namespace: "test"})
	require.NoError(t, err)

	counter := c.MustNewCounter("ops_total", "ops", nil)
	counter.WithLabelValues().Add(5)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "test_ops_total")
}

func TestClose(t *testing.T) {
	c, err := New(&Config{Namespace: "test"})
	require.NoError(t, err)

	require.NoError(t, c.Close())
	assert.True(t, c.IsClosed())
	assert.ErrorIs(t, c.Close(), ErrClientClosed)

	_, err = c.NewCounter("after_close", "x", nil)
	assert.ErrorIs(t, err, ErrClientClosed)
}
