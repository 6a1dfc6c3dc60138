package redis

// KeyType 键值类型
type KeyType string

const (
	TypeString KeyType = "string"
	TypeHash   KeyType = "hash"
	TypeList   KeyType = "list"
	TypeSet    KeyType = "set"
	TypeZSet   KeyType = "zset"
	TypeStream KeyType = "stream"

	// typeNone TYPE 命令对不存在的键的返回值
	typeNone KeyType = "none"
)

// keyTypes 全部受支持的键类型（用于统计分布的零值桶）
var keyTypes = []KeyType{TypeString, TypeHash, TypeList, TypeSet, TypeZSet, TypeStream}

// IsCollection 是否为集合类型（长度需要额外一次命令获取）
func (t KeyType) IsCollection() bool {
	switch t {
	case TypeHash, TypeList, TypeSet, TypeZSet, TypeStream:
		return true
	default:
		return false
	}
}

// KeyDescriptor 键的元数据
// 由扫描器临时产出，不做任何持久化
type KeyDescriptor struct {
	Key        string  `json:"key"`
	Type       KeyType `json:"type"`
	TTLSeconds *int64  `json:"ttl_seconds,omitempty"` // nil 表示无过期
	SizeBytes  *int64  `json:"size_bytes,omitempty"`  // nil 表示部署不支持 MEMORY USAGE
	Length     *int64  `json:"length,omitempty"`      // 集合类型的元素数量
}

// ScanOptions 扫描参数
type ScanOptions struct {
	Pattern  string  // 匹配模式，空值等价于 "*"
	Type     KeyType // 类型过滤，空值表示不过滤
	Cursor   uint64  // 游标，0 既是起点也是终点
	Count    int64   // 底层 SCAN 的批大小，默认 500
	Page     int     // 二级分页页码（1 起），作用于过滤后的批内数据
	PageSize int     // 二级分页大小，<=0 表示不分页
}

// ScanResult 扫描结果
type ScanResult struct {
	Keys    []KeyDescriptor `json:"keys"`
	Cursor  uint64          `json:"cursor"`   // 原样回传给下一次调用
	HasMore bool            `json:"has_more"` // false 表示游标已回到终点
	Total   int64           `json:"total"`    // 当前库的精确键数（DBSIZE）
}

// ZMember 有序集合成员
type ZMember struct {
	Member string  `json:"member"`
	Score  float64 `json:"score"`
}

// StreamEntry stream 条目
type StreamEntry struct {
	ID     string            `json:"id"` // 写入时空值或 "*" 表示由服务端生成
	Fields map[string]string `json:"fields"`
}

// Value 类型化的键值
// Type 决定哪个字段生效，其余字段忽略
type Value struct {
	Type   KeyType           `json:"type"`
	String string            `json:"string,omitempty"`
	Hash   map[string]string `json:"hash,omitempty"`
	List   []string          `json:"list,omitempty"`
	Set    []string          `json:"set,omitempty"`
	ZSet   []ZMember         `json:"zset,omitempty"`
	Stream []StreamEntry     `json:"stream,omitempty"`
}

// KeyValue 键的元数据与完整值
type KeyValue struct {
	Descriptor KeyDescriptor `json:"descriptor"`
	Value      Value         `json:"value"`
}

// DeleteResult 批量删除结果
// 部分失败不中止整批，按键上报失败原因
type DeleteResult struct {
	Deleted int               `json:"deleted"`
	Failed  int               `json:"failed"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// DatabaseProfile 单个逻辑库的统计画像
// KeyCount 为精确值（DBSIZE），其余均为采样外推的估计值
type DatabaseProfile struct {
	Number           int               `json:"number"`
	KeyCount         int64             `json:"key_count"`
	MemoryBytes      *int64            `json:"memory_bytes,omitempty"`
	AvgTTLSeconds    *int64            `json:"avg_ttl_seconds,omitempty"`
	ExpiringCount    *int64            `json:"expiring_count,omitempty"`
	PersistentCount  *int64            `json:"persistent_count,omitempty"`
	TypeDistribution map[KeyType]int64 `json:"type_distribution"`
}

// InstanceProfile 整个实例（16 个逻辑库）的统计画像
type InstanceProfile struct {
	Databases        []DatabaseProfile `json:"databases"`
	TotalKeys        int64             `json:"total_keys"`
	TotalMemoryBytes *int64            `json:"total_memory_bytes,omitempty"`
}

// Stats 连接池统计
type Stats struct {
	Handles      int    `json:"handles"`       // 当前存活句柄数
	Dials        uint64 `json:"dials"`         // 累计建连次数
	DialFailures uint64 `json:"dial_failures"` // 累计建连失败次数
	SweepClosed  uint64 `json:"sweep_closed"`  // 被后台清扫关闭的句柄数
}
