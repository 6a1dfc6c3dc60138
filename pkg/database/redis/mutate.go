package redis

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	goredis "github.com/redis/go-redis/v9"
)

// CreateKey 创建新键，键已存在时返回 ErrAlreadyExists
func (h *Handle) CreateKey(ctx context.Context, db int, key string, value *Value) error {
	if err := value.validate(); err != nil {
		return err
	}
	return h.WithDB(ctx, db, func(ctx context.Context) error {
		n, err := h.client.Exists(ctx, key).Result()
		if err != nil {
			return errors.Wrap(err, "exists failed")
		}
		if n > 0 {
			return errors.Wrapf(ErrAlreadyExists, "key %q", key)
		}
		return h.writeValue(ctx, key, value)
	})
}

// UpdateKey 更新已有键，键不存在时返回 ErrNotFound
// 集合类型整体重写（先删后建）：非原子，与外部并发写同键时最后写入者胜；
// stream 条目不可变，更新返回 ErrUnsupported 而不尝试写入
func (h *Handle) UpdateKey(ctx context.Context, db int, key string, value *Value) error {
	if err := value.validate(); err != nil {
		return err
	}
	if value.Type == TypeStream {
		return errors.Wrap(ErrUnsupported, "stream entries are immutable")
	}
	return h.WithDB(ctx, db, func(ctx context.Context) error {
		n, err := h.client.Exists(ctx, key).Result()
		if err != nil {
			return errors.Wrap(err, "exists failed")
		}
		if n == 0 {
			return errors.Wrapf(ErrNotFound, "key %q", key)
		}

		if value.Type != TypeString {
			if _, err := h.client.Del(ctx, key).Result(); err != nil {
				return errors.Wrap(err, "del failed")
			}
		}
		return h.writeValue(ctx, key, value)
	})
}

// DeleteKey 删除单个键，键不存在时返回 ErrNotFound
func (h *Handle) DeleteKey(ctx context.Context, db int, key string) error {
	return h.WithDB(ctx, db, func(ctx context.Context) error {
		n, err := h.client.Del(ctx, key).Result()
		if err != nil {
			return errors.Wrap(err, "del failed")
		}
		if n == 0 {
			return errors.Wrapf(ErrNotFound, "key %q", key)
		}
		return nil
	})
}

// DeleteKeys 批量删除
// 整批进一个流水线，部分失败不中止也不回滚，按键上报成功/失败计数
func (h *Handle) DeleteKeys(ctx context.Context, db int, keys []string) (*DeleteResult, error) {
	result := &DeleteResult{Errors: make(map[string]string)}
	err := h.WithDB(ctx, db, func(ctx context.Context) error {
		pipe := h.client.Pipeline()
		cmds := make([]*goredis.IntCmd, len(keys))
		for i, key := range keys {
			cmds[i] = pipe.Del(ctx, key)
		}
		_, _ = pipe.Exec(ctx)
		if err := ctx.Err(); err != nil {
			return err
		}

		for i, key := range keys {
			n, err := cmds[i].Result()
			switch {
			case err != nil:
				result.Failed++
				result.Errors[key] = err.Error()
			case n == 0:
				result.Failed++
				result.Errors[key] = "key not found"
			default:
				result.Deleted++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RenameKey 重命名键
// overwrite=false 时目标键已存在返回 ErrAlreadyExists；源键不存在返回 ErrNotFound
func (h *Handle) RenameKey(ctx context.Context, db int, key, newKey string, overwrite bool) error {
	return h.WithDB(ctx, db, func(ctx context.Context) error {
		n, err := h.client.Exists(ctx, key).Result()
		if err != nil {
			return errors.Wrap(err, "exists failed")
		}
		if n == 0 {
			return errors.Wrapf(ErrNotFound, "key %q", key)
		}

		if overwrite {
			if err := h.client.Rename(ctx, key, newKey).Err(); err != nil {
				return errors.Wrap(err, "rename failed")
			}
			return nil
		}

		ok, err := h.client.RenameNX(ctx, key, newKey).Result()
		if err != nil {
			return errors.Wrap(err, "renamenx failed")
		}
		if !ok {
			return errors.Wrapf(ErrAlreadyExists, "key %q", newKey)
		}
		return nil
	})
}

// SetTTL 设置或清除键的过期时间
// seconds > 0 设置过期；seconds <= 0 清除过期（键永久保留）；
// 两条路径都要求键已存在
func (h *Handle) SetTTL(ctx context.Context, db int, key string, seconds int64) error {
	return h.WithDB(ctx, db, func(ctx context.Context) error {
		n, err := h.client.Exists(ctx, key).Result()
		if err != nil {
			return errors.Wrap(err, "exists failed")
		}
		if n == 0 {
			return errors.Wrapf(ErrNotFound, "key %q", key)
		}

		if seconds > 0 {
			if err := h.client.Expire(ctx, key, time.Duration(seconds)*time.Second).Err(); err != nil {
				return errors.Wrap(err, "expire failed")
			}
			return nil
		}

		if err := h.client.Persist(ctx, key).Err(); err != nil {
			return errors.Wrap(err, "persist failed")
		}
		return nil
	})
}

// writeValue 按类型写入值，调用方负责存在性检查
func (h *Handle) writeValue(ctx context.Context, key string, v *Value) error {
	switch v.Type {
	case TypeString:
		if err := h.client.Set(ctx, key, v.String, 0).Err(); err != nil {
			return errors.Wrap(err, "set failed")
		}

	case TypeHash:
		args := make([]interface{}, 0, len(v.Hash)*2)
		for field, val := range v.Hash {
			args = append(args, field, val)
		}
		if err := h.client.HSet(ctx, key, args...).Err(); err != nil {
			return errors.Wrap(err, "hset failed")
		}

	case TypeList:
		items := make([]interface{}, len(v.List))
		for i, item := range v.List {
			items[i] = item
		}
		if err := h.client.RPush(ctx, key, items...).Err(); err != nil {
			return errors.Wrap(err, "rpush failed")
		}

	case TypeSet:
		members := make([]interface{}, len(v.Set))
		for i, m := range v.Set {
			members[i] = m
		}
		if err := h.client.SAdd(ctx, key, members...).Err(); err != nil {
			return errors.Wrap(err, "sadd failed")
		}

	case TypeZSet:
		zs := make([]goredis.Z, len(v.ZSet))
		for i, m := range v.ZSet {
			zs[i] = goredis.Z{Member: m.Member, Score: m.Score}
		}
		if err := h.client.ZAdd(ctx, key, zs...).Err(); err != nil {
			return errors.Wrap(err, "zadd failed")
		}

	case TypeStream:
		for _, entry := range v.Stream {
			id := entry.ID
			if id == "" {
				id = "*"
			}
			values := make(map[string]interface{}, len(entry.Fields))
			for k, val := range entry.Fields {
				values[k] = val
			}
			args := &goredis.XAddArgs{Stream: key, ID: id, Values: values}
			if err := h.client.XAdd(ctx, args).Err(); err != nil {
				return errors.Wrap(err, "xadd failed")
			}
		}
	}
	return nil
}

// validate 校验值的形状与声明类型匹配，在任何网络调用之前拒绝
func (v *Value) validate() error {
	if v == nil {
		return errors.Wrap(ErrConfigInvalid, "value is nil")
	}
	switch v.Type {
	case TypeString:
		return nil
	case TypeHash:
		if len(v.Hash) == 0 {
			return errors.Wrap(ErrConfigInvalid, "hash value must not be empty")
		}
	case TypeList:
		if len(v.List) == 0 {
			return errors.Wrap(ErrConfigInvalid, "list value must not be empty")
		}
	case TypeSet:
		if len(v.Set) == 0 {
			return errors.Wrap(ErrConfigInvalid, "set value must not be empty")
		}
	case TypeZSet:
		if len(v.ZSet) == 0 {
			return errors.Wrap(ErrConfigInvalid, "zset value must not be empty")
		}
	case TypeStream:
		if len(v.Stream) == 0 {
			return errors.Wrap(ErrConfigInvalid, "stream value must not be empty")
		}
		for _, entry := range v.Stream {
			if len(entry.Fields) == 0 {
				return errors.Wrap(ErrConfigInvalid, "stream entry fields must not be empty")
			}
		}
	default:
		return errors.Wrapf(ErrConfigInvalid, "unknown value type %q", v.Type)
	}
	return nil
}
