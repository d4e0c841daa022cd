package models

import (
	"fmt"
	"net/url"

	"github.com/google/uuid"
)

// ValidateTargetURI 验证用户传入的URI (baseUrl/rootUrl)
// http(s)必须包含主机名, file URI必须有路径
func ValidateTargetURI(uri string) error {
	parsed, err := url.Parse(uri)
	if err != nil {
		return fmt.Errorf("无效的URI: %w", err)
	}
	switch parsed.Scheme {
	case SchemeHTTP, SchemeHTTPS:
		if parsed.Host == "" {
			return fmt.Errorf("URI必须包含主机名: %s", uri)
		}
	case SchemeFile:
		if parsed.Path == "" {
			return fmt.Errorf("文件URI缺少路径: %s", uri)
		}
	default:
		return fmt.Errorf("URI必须是http、https或file协议: %s", uri)
	}
	return nil
}

// generateID 生成唯一ID
func generateID() string {
	return uuid.New().String()
}
