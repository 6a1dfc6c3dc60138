package redis

import (
	"context"
	"math"
	"time"

	"github.com/cockroachdb/errors"
	goredis "github.com/redis/go-redis/v9"
)

const (
	// defaultScanCount 底层 SCAN 单次批大小
	defaultScanCount = 500

	// metadataBatchSize 元数据流水线的子批大小
	// 每 50 个键一次往返，摊薄网络开销
	metadataBatchSize = 50
)

// Scan 对目标库做一轮游标扫描，返回带元数据的键批
//
// 流程：一次 SCAN 取键名批 → 流水线批量取 TYPE/TTL/MEMORY USAGE →
// 丢弃已删除的键和类型不匹配的键 → 幸存的集合类型键补一轮长度查询 →
// 在过滤后的批内做二级分页。
//
// 游标语义遵循 SCAN 协议：0 既是起点也是终点，完成以返回游标为 0 判断。
// 一批被类型过滤清空时仍返回 HasMore=true 和有效游标，调用方应继续循环。
func (h *Handle) Scan(ctx context.Context, db int, opts ScanOptions) (*ScanResult, error) {
	pattern := opts.Pattern
	if pattern == "" {
		pattern = "*"
	}
	count := opts.Count
	if count <= 0 {
		count = defaultScanCount
	}

	var result *ScanResult
	err := h.WithDB(ctx, db, func(ctx context.Context) error {
		total, err := h.client.DBSize(ctx).Result()
		if err != nil {
			return errors.Wrap(err, "dbsize failed")
		}

		keys, cursor, err := h.client.Scan(ctx, opts.Cursor, pattern, count).Result()
		if err != nil {
			return errors.Wrap(err, "scan failed")
		}

		descs, err := h.keyMetadata(ctx, keys)
		if err != nil {
			return err
		}

		filtered := make([]KeyDescriptor, 0, len(descs))
		for _, d := range descs {
			// "none"：键在扫描和元数据拉取之间被删除，并发写入下的正常竞态
			if d.Type == typeNone {
				continue
			}
			if opts.Type != "" && d.Type != opts.Type {
				continue
			}
			filtered = append(filtered, d)
		}

		if err := h.fillLengths(ctx, filtered); err != nil {
			return err
		}

		result = &ScanResult{
			Keys:    pageWindow(filtered, opts.Page, opts.PageSize),
			Cursor:  cursor,
			HasMore: cursor != 0,
			Total:   total,
		}
		return nil
	})
	return result, err
}

// keyMetadata 流水线批量获取类型、TTL 和内存占用
// MEMORY USAGE 在部分部署上不可用，对应字段置空而不是报错
func (h *Handle) keyMetadata(ctx context.Context, keys []string) ([]KeyDescriptor, error) {
	descs := make([]KeyDescriptor, 0, len(keys))

	for start := 0; start < len(keys); start += metadataBatchSize {
		end := min(start+metadataBatchSize, len(keys))
		batch := keys[start:end]

		pipe := h.client.Pipeline()
		typeCmds := make([]*goredis.StatusCmd, len(batch))
		ttlCmds := make([]*goredis.DurationCmd, len(batch))
		memCmds := make([]*goredis.IntCmd, len(batch))
		for i, key := range batch {
			typeCmds[i] = pipe.Type(ctx, key)
			ttlCmds[i] = pipe.TTL(ctx, key)
			memCmds[i] = pipe.MemoryUsage(ctx, key)
		}

		// 聚合错误不看：MEMORY USAGE 不受支持时 Exec 必然报错，
		// 真正的传输错误会体现在逐命令检查里
		_, _ = pipe.Exec(ctx)
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for i, key := range batch {
			typ, err := typeCmds[i].Result()
			if err != nil {
				return nil, errors.Wrapf(err, "type %s", key)
			}
			d := KeyDescriptor{Key: key, Type: KeyType(typ)}
			if ttl, err := ttlCmds[i].Result(); err == nil {
				d.TTLSeconds = normalizeTTL(ttl)
			}
			if mem, err := memCmds[i].Result(); err == nil {
				d.SizeBytes = &mem
			}
			descs = append(descs, d)
		}
	}

	return descs, nil
}

// fillLengths 为集合类型的键补充元素数量
// 长度命令按类型各不相同，无法并入上面的统一流水线，按键单独补一轮；
// 这一轮的调用次数受批大小约束，不随整个键空间增长
func (h *Handle) fillLengths(ctx context.Context, descs []KeyDescriptor) error {
	for i := range descs {
		var cmd *goredis.IntCmd
		switch descs[i].Type {
		case TypeHash:
			cmd = h.client.HLen(ctx, descs[i].Key)
		case TypeList:
			cmd = h.client.LLen(ctx, descs[i].Key)
		case TypeSet:
			cmd = h.client.SCard(ctx, descs[i].Key)
		case TypeZSet:
			cmd = h.client.ZCard(ctx, descs[i].Key)
		case TypeStream:
			cmd = h.client.XLen(ctx, descs[i].Key)
		default:
			continue
		}

		n, err := cmd.Result()
		if err != nil {
			return errors.Wrapf(err, "length of %s", descs[i].Key)
		}
		descs[i].Length = &n
	}
	return nil
}

// normalizeTTL 将 TTL 的负数哨兵值（无过期/键不存在）归一化为空
func normalizeTTL(d time.Duration) *int64 {
	if d <= 0 {
		return nil
	}
	secs := int64(math.Ceil(d.Seconds()))
	return &secs
}

// pageWindow 对过滤后的批内数据施加二级分页窗口
// 与底层 SCAN 的批大小无关，page 从 1 起
func pageWindow(keys []KeyDescriptor, page, pageSize int) []KeyDescriptor {
	if pageSize <= 0 {
		return keys
	}
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(keys) {
		return []KeyDescriptor{}
	}
	return keys[start:min(start+pageSize, len(keys))]
}
