package redis

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	goredis "github.com/redis/go-redis/v9"
)

// storeClient 内部客户端接口（隐藏 go-redis 类型，便于测试注入）
type storeClient interface {
	Ping(ctx context.Context) *goredis.StatusCmd
	Do(ctx context.Context, args ...interface{}) *goredis.Cmd
	Close() error

	DBSize(ctx context.Context) *goredis.IntCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *goredis.ScanCmd
	Pipeline() goredis.Pipeliner

	Type(ctx context.Context, key string) *goredis.StatusCmd
	TTL(ctx context.Context, key string) *goredis.DurationCmd
	MemoryUsage(ctx context.Context, key string, samples ...int) *goredis.IntCmd
	Exists(ctx context.Context, keys ...string) *goredis.IntCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
	Rename(ctx context.Context, key, newkey string) *goredis.StatusCmd
	RenameNX(ctx context.Context, key, newkey string) *goredis.BoolCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *goredis.BoolCmd
	Persist(ctx context.Context, key string) *goredis.BoolCmd

	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
	HSet(ctx context.Context, key string, values ...interface{}) *goredis.IntCmd
	HGetAll(ctx context.Context, key string) *goredis.MapStringStringCmd
	HLen(ctx context.Context, key string) *goredis.IntCmd
	RPush(ctx context.Context, key string, values ...interface{}) *goredis.IntCmd
	LRange(ctx context.Context, key string, start, stop int64) *goredis.StringSliceCmd
	LLen(ctx context.Context, key string) *goredis.IntCmd
	SAdd(ctx context.Context, key string, members ...interface{}) *goredis.IntCmd
	SMembers(ctx context.Context, key string) *goredis.StringSliceCmd
	SCard(ctx context.Context, key string) *goredis.IntCmd
	ZAdd(ctx context.Context, key string, members ...goredis.Z) *goredis.IntCmd
	ZRangeWithScores(ctx context.Context, key string, start, stop int64) *goredis.ZSliceCmd
	ZCard(ctx context.Context, key string) *goredis.IntCmd
	XAdd(ctx context.Context, a *goredis.XAddArgs) *goredis.StringCmd
	XRange(ctx context.Context, stream, start, stop string) *goredis.XMessageSliceCmd
	XLen(ctx context.Context, stream string) *goredis.IntCmd
}

var _ storeClient = (*goredis.Client)(nil)

// Handle 指向一个实例的活跃连接句柄
// 由 Pool 独占持有，调用方在单次逻辑操作期间借用，不得跨请求保留
type Handle struct {
	identity string
	cfg      *Config
	client   storeClient

	// mu 串行化 SELECT+操作的临界区，currentDB 仅在持有 mu 时读写
	mu        sync.Mutex
	currentDB int

	lastUsed atomic.Int64 // unix nano
	suspect  atomic.Bool  // 出现过传输错误，复用前需要验证
	closed   atomic.Bool
}

// newHandle 创建连接句柄
func newHandle(cfg *Config, client storeClient) *Handle {
	h := &Handle{
		identity:  cfg.Identity(),
		cfg:       cfg,
		client:    client,
		currentDB: cfg.DB,
	}
	h.touch()
	return h
}

// Identity 返回连接身份标识
func (h *Handle) Identity() string {
	return h.identity
}

// CurrentDB 返回最近一次选中的数据库索引
func (h *Handle) CurrentDB() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.currentDB
}

// LastUsed 返回最近一次使用时间
func (h *Handle) LastUsed() time.Time {
	return time.Unix(0, h.lastUsed.Load())
}

// Suspect 是否处于可疑状态（上次使用出现过传输错误）
func (h *Handle) Suspect() bool {
	return h.suspect.Load()
}

func (h *Handle) touch() {
	h.lastUsed.Store(time.Now().UnixNano())
}

// markSuspect 传输层错误后标记句柄待验证，命令级错误不标记
func (h *Handle) markSuspect(err error) {
	if IsNetworkError(err) {
		h.suspect.Store(true)
	}
}

// WithDB 确保句柄指向目标库后执行 fn
// SELECT 和 fn 在同一临界区内执行：句柄被并发借用时，其他操作不会把
// 连接切到别的库造成串库
func (h *Handle) WithDB(ctx context.Context, db int, fn func(ctx context.Context) error) error {
	if db < 0 || db >= NumDatabases {
		return errors.Wrapf(ErrConfigInvalid, "db %d out of range [0, %d)", db, NumDatabases)
	}
	if h.closed.Load() {
		return ErrHandleClosed
	}
	h.touch()

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.currentDB != db {
		if err := h.client.Do(ctx, "select", db).Err(); err != nil {
			h.markSuspect(err)
			return errors.Wrapf(err, "select db %d", db)
		}
		h.currentDB = db
	}

	if err := fn(ctx); err != nil {
		h.markSuspect(err)
		return err
	}
	return nil
}

// Ping 健康检查，返回往返延迟
// 成功后清除可疑标记
func (h *Handle) Ping(ctx context.Context) (time.Duration, error) {
	if h.closed.Load() {
		return 0, ErrHandleClosed
	}
	start := time.Now()
	if err := h.client.Ping(ctx).Err(); err != nil {
		h.markSuspect(err)
		return 0, errors.Wrap(err, "ping failed")
	}
	h.suspect.Store(false)
	h.touch()
	return time.Since(start), nil
}

// Close 关闭底层连接，幂等
func (h *Handle) Close() error {
	if !h.closed.CompareAndSwap(false, true) {
		return nil
	}
	return h.client.Close()
}
