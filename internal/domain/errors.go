package domain

import (
	"errors"
	"fmt"
)

// RemoteError 表示对远端存储的一次调用失败（非 2xx 响应或网络错误）
type RemoteError struct {
	Op         string // GET / POST / PATCH
	StatusCode int    // 网络错误时为 0
	Err        error
}

func (e *RemoteError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("%s failed: status %d: %v", e.Op, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s failed: status %d", e.Op, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s failed", e.Op)
	}
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

func IsRemoteError(err error) bool {
	var remoteErr *RemoteError
	return errors.As(err, &remoteErr)
}
