package logger

import "errors"

var (
	// ErrInvalidOutputPath 启用文件输出但未给出日志路径
	ErrInvalidOutputPath = errors.New("logger: output path is required for file output")

	// ErrNoOutputEnabled 控制台和文件输出至少启用一个
	ErrNoOutputEnabled = errors.New("logger: no output enabled")
)
