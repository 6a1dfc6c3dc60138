package redis

import (
	"context"
	"io"
	"net"
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	// ErrNilConfig 连接配置为空
	ErrNilConfig = errors.New("redis: connection config is nil")

	// ErrConfigInvalid 连接配置无效（主机/端口/库号形状错误，未发起任何网络调用）
	ErrConfigInvalid = errors.New("redis: invalid connection config")

	// ErrAuthFailed 认证失败（凭证错误，重试同一凭证无意义）
	ErrAuthFailed = errors.New("redis: authentication failed")

	// ErrNotFound 键或库级资源不存在
	ErrNotFound = errors.New("redis: key not found")

	// ErrAlreadyExists 创建/重命名目标键已存在
	ErrAlreadyExists = errors.New("redis: key already exists")

	// ErrUnsupported 操作对该值类型不适用（如更新 stream 条目）
	ErrUnsupported = errors.New("redis: operation not supported for this type")

	// ErrPoolClosed 连接池已关闭
	ErrPoolClosed = errors.New("redis: pool is closed")

	// ErrHandleClosed 连接句柄已关闭
	ErrHandleClosed = errors.New("redis: handle is closed")
)

// authErrorPrefixes 服务端认证失败的错误前缀
// 覆盖 Redis 6 ACL（WRONGPASS/NOAUTH）与旧版 requirepass 的返回
var authErrorPrefixes = []string{
	"NOAUTH",
	"WRONGPASS",
	"ERR invalid password",
	"ERR Client sent AUTH",
}

// IsAuthError 判断是否为认证失败
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrAuthFailed) {
		return true
	}
	msg := err.Error()
	for _, prefix := range authErrorPrefixes {
		if strings.Contains(msg, prefix) {
			return true
		}
	}
	return false
}

// IsNetworkError 判断是否为传输层错误（重新 Acquire 可恢复）
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
