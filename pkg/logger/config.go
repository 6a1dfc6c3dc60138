package logger

// Level 日志等级
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

// Format 日志格式
type Format string

const (
	JSONFormat    Format = "json"
	ConsoleFormat Format = "console"
)

// RotationType 轮换类型
type RotationType string

const (
	RotationBySize RotationType = "size"
	RotationByTime RotationType = "time"
)

// Config 日志配置
type Config struct {
	Level  Level  `mapstructure:"level" json:"level" yaml:"level"`    // 日志等级
	Format Format `mapstructure:"format" json:"format" yaml:"format"` // 输出格式 (json/console)

	EnableConsole bool   `mapstructure:"enable_console" json:"enable_console" yaml:"enable_console"` // 启用控制台输出
	EnableFile    bool   `mapstructure:"enable_file" json:"enable_file" yaml:"enable_file"`          // 启用文件输出
	OutputPath    string `mapstructure:"output_path" json:"output_path" yaml:"output_path"`          // 日志文件路径

	// Rotation 轮换配置（仅在 EnableFile=true 时生效）
	Rotation RotationConfig `mapstructure:"rotation" json:"rotation" yaml:"rotation"`

	// Development 开发模式（彩色等级、console 格式友好输出）
	Development bool `mapstructure:"development" json:"development" yaml:"development"`
}

// RotationConfig 日志轮换配置
type RotationConfig struct {
	Type RotationType `mapstructure:"type" json:"type" yaml:"type"` // 轮换方式 (size/time)

	// 按大小轮换 (lumberjack)
	MaxSize    int  `mapstructure:"max_size" json:"max_size" yaml:"max_size"`          // 单文件最大 MB
	MaxBackups int  `mapstructure:"max_backups" json:"max_backups" yaml:"max_backups"` // 保留文件数
	MaxAge     int  `mapstructure:"max_age" json:"max_age" yaml:"max_age"`             // 保留天数
	Compress   bool `mapstructure:"compress" json:"compress" yaml:"compress"`          // 压缩旧文件

	// 按时间轮换 (file-rotatelogs)
	RotationTime string `mapstructure:"rotation_time" json:"rotation_time" yaml:"rotation_time"` // 轮换间隔 (如 "24h")
	MaxAgeTime   string `mapstructure:"max_age_time" json:"max_age_time" yaml:"max_age_time"`    // 保留时长 (如 "168h")
}

// DefaultConfig 默认配置（info 级别，仅控制台 JSON 输出）
func DefaultConfig() *Config {
	return &Config{
		Level:         InfoLevel,
		Format:        JSONFormat,
		EnableConsole: true,
		EnableFile:    false,
		Rotation: RotationConfig{
			Type:       RotationBySize,
			MaxSize:    100,
			MaxBackups: 10,
			MaxAge:     7,
		},
	}
}

// Validate 验证配置
func (c *Config) Validate() error {
	if !c.EnableConsole && !c.EnableFile {
		return ErrNoOutputEnabled
	}
	if c.EnableFile && c.OutputPath == "" {
		return ErrInvalidOutputPath
	}
	return nil
}
