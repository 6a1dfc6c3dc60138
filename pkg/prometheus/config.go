package prometheus

// Config Prometheus 配置
type Config struct {
	// Namespace 命名空间（应用名称）
	Namespace string `json:"namespace" yaml:"namespace"`

	// Subsystem 子系统（可选）
	Subsystem string `json:"subsystem" yaml:"subsystem"`

	// EnableGoCollector 注册默认 Go 采集器
	EnableGoCollector bool `json:"enable_go_collector" yaml:"enable_go_collector"`

	// EnableProcessCollector 注册默认进程采集器
	EnableProcessCollector bool `json:"enable_process_collector" yaml:"enable_process_collector"`
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		Namespace:              "redisboard",
		EnableGoCollector:      true,
		EnableProcessCollector: true,
	}
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.Namespace == "" {
		return ErrInvalidConfig
	}
	return nil
}
