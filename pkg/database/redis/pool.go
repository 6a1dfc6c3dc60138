package redis

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/puzpuzpuz/xsync/v3"
	goredis "github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/singleflight"

	"github.com/lk2023060901/redisboard/pkg/logger"
	"github.com/lk2023060901/redisboard/pkg/prometheus"
)

const (
	defaultIdleTimeout   = 30 * time.Minute
	defaultSweepSchedule = "@every 1m"
)

// dialFunc 建连函数（测试注入计数用）
type dialFunc func(cfg *Config) (storeClient, error)

// defaultDial 创建 go-redis 客户端
// go-redis 懒建连，真正的连接验证在 Acquire 内的 Ping 完成
func defaultDial(cfg *Config) (storeClient, error) {
	return goredis.NewClient(cfg.options()), nil
}

// Pool 连接池
// 每个连接身份至多持有一个句柄，并发调用方共享同一句柄而不是各开 socket
type Pool struct {
	handles *xsync.MapOf[string, *Handle]
	group   singleflight.Group
	dial    dialFunc

	log         logger.Logger
	cron        *cron.Cron
	sweepSpec   string
	idleTimeout time.Duration
	metrics     *poolMetrics

	dials        atomic.Uint64
	dialFailures atomic.Uint64
	sweepClosed  atomic.Uint64

	closed atomic.Bool
}

// PoolOption 连接池选项
type PoolOption func(*Pool)

// WithLogger 设置日志记录器
func WithLogger(log logger.Logger) PoolOption {
	return func(p *Pool) {
		p.log = log
	}
}

// WithIdleTimeout 设置空闲句柄的回收阈值
func WithIdleTimeout(d time.Duration) PoolOption {
	return func(p *Pool) {
		p.idleTimeout = d
	}
}

// WithSweepSchedule 设置后台清扫的 cron 表达式（如 "@every 1m"）
func WithSweepSchedule(spec string) PoolOption {
	return func(p *Pool) {
		p.sweepSpec = spec
	}
}

// WithMetrics 挂接 Prometheus 指标
func WithMetrics(client *prometheus.Client) PoolOption {
	return func(p *Pool) {
		p.metrics = newPoolMetrics(client)
	}
}

// NewPool 创建连接池并启动后台清扫
func NewPool(opts ...PoolOption) *Pool {
	p := &Pool{
		handles:     xsync.NewMapOf[string, *Handle](),
		dial:        defaultDial,
		log:         logger.NewNoop(),
		sweepSpec:   defaultSweepSchedule,
		idleTimeout: defaultIdleTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}

	p.cron = cron.New()
	if _, err := p.cron.AddFunc(p.sweepSpec, p.sweep); err != nil {
		p.log.Warn("invalid sweep schedule, background sweep disabled",
			"schedule", p.sweepSpec, "error", err)
	}
	p.cron.Start()

	return p
}

// Acquire 获取连接句柄
// 已有健康句柄直接复用；可疑句柄先验证；缺失时建连，同一身份的并发
// 建连通过 singleflight 合并为一次
func (p *Pool) Acquire(ctx context.Context, cfg *Config) (*Handle, error) {
	if p.closed.Load() {
		return nil, ErrPoolClosed
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()
	identity := cfg.Identity()

	if h, ok := p.handles.Load(identity); ok {
		if !h.Suspect() {
			h.touch()
			return h, nil
		}
		// 曾出现传输错误，复用前验证；失活则移除后重建
		if _, err := h.Ping(ctx); err == nil {
			return h, nil
		}
		p.log.Warn("stale handle detected, rebuilding", "identity", identity)
		p.Release(identity)
	}

	v, err, _ := p.group.Do(identity, func() (interface{}, error) {
		// 合并窗口内可能已有人建好
		if h, ok := p.handles.Load(identity); ok {
			return h, nil
		}

		p.dials.Add(1)
		p.metrics.dialInc()

		client, err := p.dial(cfg)
		if err != nil {
			p.dialFailures.Add(1)
			p.metrics.dialFailureInc()
			return nil, errors.Wrapf(err, "dial %s", identity)
		}

		h := newHandle(cfg, client)
		if _, err := h.Ping(ctx); err != nil {
			_ = h.Close()
			p.dialFailures.Add(1)
			p.metrics.dialFailureInc()
			if IsAuthError(err) {
				return nil, errors.Mark(errors.Wrapf(err, "connect %s", identity), ErrAuthFailed)
			}
			return nil, errors.Wrapf(err, "connect %s", identity)
		}

		p.handles.Store(identity, h)
		p.metrics.handlesSet(float64(p.handles.Size()))
		p.log.Info("connection established", "identity", identity)
		return h, nil
	})
	if err != nil {
		// 失败不缓存坏句柄，下次 Acquire 干净地重试
		return nil, err
	}
	return v.(*Handle), nil
}

// Release 强制关闭并移除句柄（连接记录删除或显式断开时调用），幂等
func (p *Pool) Release(identity string) {
	if h, ok := p.handles.LoadAndDelete(identity); ok {
		_ = h.Close()
		p.metrics.handlesSet(float64(p.handles.Size()))
		p.log.Info("connection released", "identity", identity)
	}
}

// ReleaseAll 关闭并移除所有句柄
func (p *Pool) ReleaseAll() {
	p.handles.Range(func(identity string, _ *Handle) bool {
		p.Release(identity)
		return true
	})
}

// HealthCheck 对句柄做一次轻量级往返，返回延迟
// 交互式"测试连接"与复用前的失活探测共用此入口
func (p *Pool) HealthCheck(ctx context.Context, h *Handle) (time.Duration, error) {
	return h.Ping(ctx)
}

// Len 当前存活句柄数
func (p *Pool) Len() int {
	return p.handles.Size()
}

// Stats 连接池统计快照
func (p *Pool) Stats() Stats {
	return Stats{
		Handles:      p.handles.Size(),
		Dials:        p.dials.Load(),
		DialFailures: p.dialFailures.Load(),
		SweepClosed:  p.sweepClosed.Load(),
	}
}

// sweep 回收空闲句柄，由 cron 周期触发，不在任何请求路径上
func (p *Pool) sweep() {
	cutoff := time.Now().Add(-p.idleTimeout)
	p.handles.Range(func(identity string, h *Handle) bool {
		if h.LastUsed().Before(cutoff) {
			p.handles.Delete(identity)
			_ = h.Close()
			p.sweepClosed.Add(1)
			p.metrics.sweepClosedInc()
			p.log.Info("idle connection swept", "identity", identity,
				"idle", time.Since(h.LastUsed()).String())
		}
		return true
	})
	p.metrics.handlesSet(float64(p.handles.Size()))
}

// Close 停止后台清扫并关闭所有句柄
func (p *Pool) Close() {
	if !p.closed.CompareAndSwap(false, true) {
		return
	}
	p.cron.Stop()
	p.ReleaseAll()
}

// poolMetrics 连接池的 Prometheus 指标，nil 接收者为空实现
type poolMetrics struct {
	handles      *prometheus.GaugeVec
	dials        *prometheus.CounterVec
	dialFailures *prometheus.CounterVec
	sweepClosed  *prometheus.CounterVec
}

func newPoolMetrics(client *prometheus.Client) *poolMetrics {
	if client == nil {
		return nil
	}
	return &poolMetrics{
		handles:      client.MustNewGauge("pool_handles", "live connection handles", nil),
		dials:        client.MustNewCounter("pool_dials_total", "connection attempts", nil),
		dialFailures: client.MustNewCounter("pool_dial_failures_total", "failed connection attempts", nil),
		sweepClosed:  client.MustNewCounter("pool_sweep_closed_total", "handles closed by the idle sweep", nil),
	}
}

func (m *poolMetrics) handlesSet(v float64) {
	if m != nil {
		m.handles.WithLabelValues().Set(v)
	}
}

func (m *poolMetrics) dialInc() {
	if m != nil {
		m.dials.WithLabelValues().Inc()
	}
}

func (m *poolMetrics) dialFailureInc() {
	if m != nil {
		m.dialFailures.WithLabelValues().Inc()
	}
}

func (m *poolMetrics) sweepClosedInc() {
	if m != nil {
		m.sweepClosed.WithLabelValues().Inc()
	}
}
