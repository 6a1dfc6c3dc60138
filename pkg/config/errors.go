package config

import "errors"

var (
	// ErrNilTarget 解析目标为空
	ErrNilTarget = errors.New("config: unmarshal target is nil")

	// ErrBothNil 合并的两个配置均为空
	ErrBothNil = errors.New("config: both dst and src are nil")
)
