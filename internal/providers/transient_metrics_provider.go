package providers

import (
	"promod/internal/structures"
	"time"
)

// MetricsTransientProvider wraps a TransientProviderInterface and increments
// hit/miss counters on every Get call.
type MetricsTransientProvider struct {
	inner   TransientProviderInterface
	metrics MetricsProviderInterface
}

func (c *MetricsTransientProvider) Get(key string) ([]byte, bool) {
	val, ok := c.inner.Get(key)
	if ok {
		c.metrics.IncCacheHits()
	} else {
		c.metrics.IncCacheMisses()
	}
	return val, ok
}

func (c *MetricsTransientProvider) GetWithExpiration(key string) ([]byte, time.Time, bool) {
	return c.inner.GetWithExpiration(key)
}

func (c *MetricsTransientProvider) Set(key string, value []byte, ttl time.Duration) error {
	return c.inner.Set(key, value, ttl)
}

func (c *MetricsTransientProvider) Delete(key string) bool {
	return c.inner.Delete(key)
}

func (c *MetricsTransientProvider) Keys() []string {
	return c.inner.Keys()
}

func (c *MetricsTransientProvider) Len() int64 {
	return c.inner.Len()
}

// NewInstrumentedTransientProvider creates a transient provider wrapped with
// metrics instrumentation. Without metrics the plain provider is returned.
func NewInstrumentedTransientProvider(conf *structures.Config, logger Logger, metrics MetricsProviderInterface) TransientProviderInterface {
	inner := NewTransientProvider(conf, logger)
	if !conf.Metrics.Enabled {
		return inner
	}
	return &MetricsTransientProvider{
		inner:   inner,
		metrics: metrics,
	}
}
