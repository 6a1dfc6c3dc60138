package redis

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/lk2023060901/redisboard/pkg/config"
)

// Book 具名连接配置集
// 从配置文件加载保存的实例列表，defaults 段为所有连接的公共基线，
// 每个连接只需填写与基线不同的字段
type Book struct {
	connections map[string]*Config
}

// bookFile 配置文件结构
type bookFile struct {
	Defaults    *Config            `mapstructure:"defaults"`
	Connections map[string]*Config `mapstructure:"connections"`
}

// LoadBook 从 yaml/json 配置文件加载连接配置集
// 每个条目合并 defaults 后逐一校验，任何一条非法即整体失败
func LoadBook(path string) (*Book, error) {
	loader := config.NewLoader()
	configType := strings.TrimPrefix(filepath.Ext(path), ".")
	if configType == "yml" {
		configType = "yaml"
	}
	if err := loader.LoadFile(path, configType); err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}

	var file bookFile
	if err := loader.Unmarshal(&file); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	if len(file.Connections) == 0 {
		return nil, errors.Wrapf(ErrConfigInvalid, "%s defines no connections", path)
	}

	book := &Book{connections: make(map[string]*Config, len(file.Connections))}
	for name, cfg := range file.Connections {
		if file.Defaults != nil {
			base := *file.Defaults
			merged, err := config.MergeConfig(&base, cfg)
			if err != nil {
				return nil, errors.Wrapf(err, "merge connection %q", name)
			}
			cfg = merged
		}
		if err := cfg.Validate(); err != nil {
			return nil, errors.Wrapf(err, "connection %q", name)
		}
		book.connections[name] = cfg
	}
	return book, nil
}

// Get 按名称取连接配置
func (b *Book) Get(name string) (*Config, error) {
	cfg, ok := b.connections[name]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "connection %q", name)
	}
	return cfg, nil
}

// Names 全部连接名称，按字典序
func (b *Book) Names() []string {
	names := make([]string, 0, len(b.connections))
	for name := range b.connections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len 连接条目数
func (b *Book) Len() int {
	return len(b.connections)
}
