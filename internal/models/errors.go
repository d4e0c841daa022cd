package models

import (
	"fmt"
	"net/http"
)

// FetchErrorKind 页面获取失败的类型
type FetchErrorKind string

const (
	FetchHTTPStatus       FetchErrorKind = "http_status"       // 非2xx响应
	FetchUnreachable      FetchErrorKind = "unreachable"       // 网络层失败
	FetchUnrecognizedPath FetchErrorKind = "unrecognized_path" // 目录中没有index.html
	FetchUnsupportedURI   FetchErrorKind = "unsupported_uri"   // 无法处理的URI
	FetchReadFailure      FetchErrorKind = "read_failure"      // 本地文件读取或转换失败
)

// FetchError 页面获取错误
// 页面级错误只记录日志, 不会中止爬取, 也不计入坏链数量
type FetchError struct {
	URL        string
	Kind       FetchErrorKind
	StatusCode int
	Cause      error
}

// Error 实现error接口
func (e *FetchError) Error() string {
	switch e.Kind {
	case FetchHTTPStatus:
		return fmt.Sprintf("获取页面失败 [%s]: HTTP %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	case FetchUnrecognizedPath:
		return fmt.Sprintf("无法识别的路径 [%s]: 既不是.md/.html文件, 也没有index.html", e.URL)
	case FetchUnsupportedURI:
		return fmt.Sprintf("不支持的URI [%s]", e.URL)
	}
	if e.Cause != nil {
		return fmt.Sprintf("获取页面失败 [%s] (%s): %v", e.URL, e.Kind, e.Cause)
	}
	return fmt.Sprintf("获取页面失败 [%s] (%s)", e.URL, e.Kind)
}

// Unwrap 支持errors.Unwrap
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// ValidationError 头部验证错误
type ValidationError struct {
	// Field 出错的字段 ("name" 或 "value")
	Field      string
	HeaderName string
	Reason     string
	// Suggestion 修复建议 (可选)
	Suggestion string
}

// Error 实现error接口
func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("头部验证失败 [%s]: %s", e.HeaderName, e.Reason)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (建议: %s)", e.Suggestion)
	}
	return msg
}

// ConfigError 配置文件错误
type ConfigError struct {
	FilePath string
	Cause    error
}

// Error 实现error接口
func (e *ConfigError) Error() string {
	return fmt.Sprintf("配置文件错误 [%s]: %v", e.FilePath, e.Cause)
}

// Unwrap 支持errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Cause
}
