package redis

import (
	"context"
	"math"
	"time"

	"github.com/cockroachdb/errors"
)

const (
	// maxSampleSize 采样上限
	// 把统计调用约束在常数次往返内，代价是倾斜键空间上的统计噪声
	maxSampleSize = 1000

	// defaultProfileTimeout 单个库的统计超时缺省值
	defaultProfileTimeout = 5 * time.Second
)

// ProfileOptions 全实例统计的参数
type ProfileOptions struct {
	// Timeout 单个库的统计超时，<=0 使用缺省值
	// 按库计超时，单个慢库不吃掉整个循环的预算
	Timeout time.Duration
}

func (o ProfileOptions) timeout() time.Duration {
	if o.Timeout <= 0 {
		return defaultProfileTimeout
	}
	return o.Timeout
}

// Profile 计算单个逻辑库的统计画像
// 键总数为精确值（DBSIZE）；类型分布、内存和 TTL 画像从一个扫描批
// 采样后线性外推，是估计值
func (h *Handle) Profile(ctx context.Context, db int) (*DatabaseProfile, error) {
	var profile *DatabaseProfile
	err := h.WithDB(ctx, db, func(ctx context.Context) error {
		keyCount, err := h.client.DBSize(ctx).Result()
		if err != nil {
			return errors.Wrap(err, "dbsize failed")
		}

		// 空库直接给零值画像，不发采样扫描
		if keyCount == 0 {
			profile = emptyProfile(db)
			return nil
		}

		keys, _, err := h.client.Scan(ctx, 0, "*", min(keyCount, maxSampleSize)).Result()
		if err != nil {
			return errors.Wrap(err, "sample scan failed")
		}

		descs, err := h.keyMetadata(ctx, keys)
		if err != nil {
			return err
		}

		var acc sampleAccumulator
		acc.init()
		for _, d := range descs {
			if d.Type == typeNone {
				continue
			}
			acc.add(d)
		}

		p := acc.extrapolate(db, keyCount)
		profile = &p
		return nil
	})
	return profile, err
}

// ProfileAll 依次对 0-15 号库计算画像，并汇总实例级总量
func (h *Handle) ProfileAll(ctx context.Context, opts ProfileOptions) (*InstanceProfile, error) {
	out := &InstanceProfile{
		Databases: make([]DatabaseProfile, 0, NumDatabases),
	}

	var totalMem int64
	var memSeen bool

	for db := 0; db < NumDatabases; db++ {
		dbCtx, cancel := context.WithTimeout(ctx, opts.timeout())
		p, err := h.Profile(dbCtx, db)
		cancel()
		if err != nil {
			return nil, errors.Wrapf(err, "profile db %d", db)
		}

		out.Databases = append(out.Databases, *p)
		out.TotalKeys += p.KeyCount
		if p.MemoryBytes != nil {
			totalMem += *p.MemoryBytes
			memSeen = true
		}
	}

	if memSeen {
		out.TotalMemoryBytes = &totalMem
	}
	return out, nil
}

// sampleAccumulator 累积一个采样批的原始观测值
type sampleAccumulator struct {
	typeCounts map[KeyType]int64
	sampled    int64
	memBytes   int64
	memSeen    bool
	ttlSum     int64
	expiring   int64
	persistent int64
}

func (a *sampleAccumulator) init() {
	a.typeCounts = make(map[KeyType]int64, len(keyTypes))
}

func (a *sampleAccumulator) add(d KeyDescriptor) {
	a.sampled++
	a.typeCounts[d.Type]++
	if d.SizeBytes != nil {
		a.memBytes += *d.SizeBytes
		a.memSeen = true
	}
	if d.TTLSeconds != nil {
		a.ttlSum += *d.TTLSeconds
		a.expiring++
	} else {
		a.persistent++
	}
}

// extrapolate 将采样观测线性外推到整库规模
// 平均 TTL 直接取自原始样本，不外推（平均值与规模无关）
func (a *sampleAccumulator) extrapolate(db int, keyCount int64) DatabaseProfile {
	if a.sampled == 0 {
		p := emptyProfile(db)
		p.KeyCount = keyCount
		return *p
	}

	multiplier := float64(keyCount) / float64(a.sampled)
	scale := func(n int64) int64 {
		return int64(math.Round(float64(n) * multiplier))
	}

	dist := make(map[KeyType]int64, len(keyTypes))
	for _, t := range keyTypes {
		dist[t] = scale(a.typeCounts[t])
	}

	p := DatabaseProfile{
		Number:           db,
		KeyCount:         keyCount,
		TypeDistribution: dist,
	}

	if a.memSeen {
		mem := scale(a.memBytes)
		p.MemoryBytes = &mem
	}

	expiring := scale(a.expiring)
	persistent := scale(a.persistent)
	p.ExpiringCount = &expiring
	p.PersistentCount = &persistent

	if a.expiring > 0 {
		avg := int64(math.Round(float64(a.ttlSum) / float64(a.expiring)))
		p.AvgTTLSeconds = &avg
	}

	return p
}

// emptyProfile 零值画像，分布桶全为 0
func emptyProfile(db int) *DatabaseProfile {
	dist := make(map[KeyType]int64, len(keyTypes))
	for _, t := range keyTypes {
		dist[t] = 0
	}
	return &DatabaseProfile{
		Number:           db,
		TypeDistribution: dist,
	}
}
