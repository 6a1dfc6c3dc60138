package redis

import (
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
	goredis "github.com/redis/go-redis/v9"
)

// NumDatabases 单实例的逻辑数据库数量
const NumDatabases = 16

const (
	defaultDialTimeout  = 5 * time.Second
	defaultReadTimeout  = 3 * time.Second
	defaultWriteTimeout = 3 * time.Second
)

// Config 连接配置
// 凭证由调用方解密后传入，本包不做任何凭证存取
type Config struct {
	Host     string `mapstructure:"host" json:"host" yaml:"host"`             // 主机地址
	Port     int    `mapstructure:"port" json:"port" yaml:"port"`             // 端口
	Username string `mapstructure:"username" json:"username" yaml:"username"` // 用户名（Redis 6 ACL，可选）
	Password string `mapstructure:"password" json:"password" yaml:"password"` // 密码
	DB       int    `mapstructure:"db" json:"db" yaml:"db"`                   // 初始数据库索引（0-15）

	// EnableTLS 启用 TLS 传输
	EnableTLS bool `mapstructure:"enable_tls" json:"enable_tls" yaml:"enable_tls"`
	// InsecureSkipVerify 跳过证书校验（自签名部署使用）
	InsecureSkipVerify bool `mapstructure:"insecure_skip_verify" json:"insecure_skip_verify" yaml:"insecure_skip_verify"`

	// 单次网络往返的超时
	DialTimeout  time.Duration `mapstructure:"dial_timeout" json:"dial_timeout" yaml:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" json:"write_timeout" yaml:"write_timeout"`
}

// Validate 验证配置（在任何网络调用之前拒绝坏配置）
func (c *Config) Validate() error {
	if c == nil {
		return ErrNilConfig
	}
	if c.Host == "" {
		return errors.Wrap(ErrConfigInvalid, "host is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return errors.Wrapf(ErrConfigInvalid, "port %d out of range", c.Port)
	}
	if c.DB < 0 || c.DB >= NumDatabases {
		return errors.Wrapf(ErrConfigInvalid, "db %d out of range [0, %d)", c.DB, NumDatabases)
	}
	return nil
}

// withDefaults 填充缺省超时，返回副本
func (c *Config) withDefaults() *Config {
	out := *c
	if out.DialTimeout == 0 {
		out.DialTimeout = defaultDialTimeout
	}
	if out.ReadTimeout == 0 {
		out.ReadTimeout = defaultReadTimeout
	}
	if out.WriteTimeout == 0 {
		out.WriteTimeout = defaultWriteTimeout
	}
	return &out
}

// Identity 连接身份标识，作为池的注册表键
// 主机、端口、TLS 和凭证任一变化都会产生新的身份（凭证轮换即新连接）；
// 库号不参与：一个句柄通过 WithDB 服务全部 16 个逻辑库
func (c *Config) Identity() string {
	id := net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	if c.EnableTLS {
		id += "+tls"
	}
	if c.Username != "" || c.Password != "" {
		id += fmt.Sprintf("#%016x", xxhash.Sum64String(c.Username+"\x00"+c.Password))
	}
	return id
}

// options 转换为 go-redis 客户端选项
// PoolSize=1：SELECT 的目标库黏在具体连接上，单连接保证 currentDB 状态与实际一致
func (c *Config) options() *goredis.Options {
	opts := &goredis.Options{
		Addr:         net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Username:     c.Username,
		Password:     c.Password,
		DB:           c.DB,
		DialTimeout:  c.DialTimeout,
		ReadTimeout:  c.ReadTimeout,
		WriteTimeout: c.WriteTimeout,
		PoolSize:     1,
		MaxRetries:   -1, // 失败直接上报，是否重建由调用方决定
	}
	if c.EnableTLS {
		opts.TLSConfig = &tls.Config{
			ServerName:         c.Host,
			InsecureSkipVerify: c.InsecureSkipVerify,
		}
	}
	return opts
}
