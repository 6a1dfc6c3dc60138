package redis

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
)

// GetKey 获取键的元数据和完整值
func (h *Handle) GetKey(ctx context.Context, db int, key string) (*KeyValue, error) {
	var kv *KeyValue
	err := h.WithDB(ctx, db, func(ctx context.Context) error {
		descs, err := h.keyMetadata(ctx, []string{key})
		if err != nil {
			return err
		}
		if len(descs) == 0 || descs[0].Type == typeNone {
			return errors.Wrapf(ErrNotFound, "key %q", key)
		}

		if err := h.fillLengths(ctx, descs); err != nil {
			return err
		}
		d := descs[0]

		value, err := h.readValue(ctx, key, d.Type)
		if err != nil {
			return err
		}

		kv = &KeyValue{Descriptor: d, Value: *value}
		return nil
	})
	return kv, err
}

// readValue 按类型读取完整值
func (h *Handle) readValue(ctx context.Context, key string, typ KeyType) (*Value, error) {
	v := &Value{Type: typ}

	switch typ {
	case TypeString:
		s, err := h.client.Get(ctx, key).Result()
		if err != nil {
			return nil, errors.Wrap(err, "get failed")
		}
		v.String = s

	case TypeHash:
		m, err := h.client.HGetAll(ctx, key).Result()
		if err != nil {
			return nil, errors.Wrap(err, "hgetall failed")
		}
		v.Hash = m

	case TypeList:
		items, err := h.client.LRange(ctx, key, 0, -1).Result()
		if err != nil {
			return nil, errors.Wrap(err, "lrange failed")
		}
		v.List = items

	case TypeSet:
		members, err := h.client.SMembers(ctx, key).Result()
		if err != nil {
			return nil, errors.Wrap(err, "smembers failed")
		}
		v.Set = members

	case TypeZSet:
		zs, err := h.client.ZRangeWithScores(ctx, key, 0, -1).Result()
		if err != nil {
			return nil, errors.Wrap(err, "zrange failed")
		}
		members := make([]ZMember, len(zs))
		for i, z := range zs {
			member, _ := z.Member.(string)
			members[i] = ZMember{Member: member, Score: z.Score}
		}
		v.ZSet = members

	case TypeStream:
		msgs, err := h.client.XRange(ctx, key, "-", "+").Result()
		if err != nil {
			return nil, errors.Wrap(err, "xrange failed")
		}
		entries := make([]StreamEntry, len(msgs))
		for i, msg := range msgs {
			fields := make(map[string]string, len(msg.Values))
			for k, val := range msg.Values {
				fields[k] = fmt.Sprint(val)
			}
			entries[i] = StreamEntry{ID: msg.ID, Fields: fields}
		}
		v.Stream = entries

	default:
		return nil, errors.Wrapf(ErrUnsupported, "unknown type %q", typ)
	}

	return v, nil
}
