package models

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// 支持的URI协议
const (
	SchemeHTTP  = "http"
	SchemeHTTPS = "https"
	SchemeFile  = "file"
)

// PageSourceKind 页面来源类型
// 在决定如何获取页面内容时确定一次,每种类型对应一个处理函数
type PageSourceKind int

const (
	SourceUnsupported    PageSourceKind = iota // 不支持的URI
	SourceRemote                               // http(s)页面
	SourceMarkdown                             // 本地 .md 文件
	SourceHTML                                 // 本地 .html/.htm 文件
	SourceDirectoryIndex                       // 本地目录,查找 index.html
)

// String 实现fmt.Stringer接口
func (k PageSourceKind) String() string {
	switch k {
	case SourceRemote:
		return "remote"
	case SourceMarkdown:
		return "markdown"
	case SourceHTML:
		return "html"
	case SourceDirectoryIndex:
		return "directory_index"
	default:
		return "unsupported"
	}
}

// ResolvedLink 页面中发现的一个链接
type ResolvedLink struct {
	// Raw 页面中的原始href文本(未解析)
	Raw string `json:"raw"`

	// URL 规范化后的绝对URI, 去重和比较均以此为准
	URL string `json:"url"`
}

// PageItem 页面队列中的一项
type PageItem struct {
	// URL 页面的规范化URI
	URL string

	// SourcePage 发现该页面的上级页面(起始页面为空)
	SourcePage string

	// Depth 距起始页面的层数, 仅用于日志, 不做限制
	Depth int
}

// IsWebURI 判断是否为http(s) URI
func IsWebURI(uri string) bool {
	lower := strings.ToLower(uri)
	return strings.HasPrefix(lower, SchemeHTTP+"://") || strings.HasPrefix(lower, SchemeHTTPS+"://")
}

// IsFileURI 判断是否为file URI
func IsFileURI(uri string) bool {
	return strings.HasPrefix(strings.ToLower(uri), SchemeFile+":")
}

// IsSupportedScheme 判断协议是否可以被检查
func IsSupportedScheme(scheme string) bool {
	switch strings.ToLower(scheme) {
	case SchemeHTTP, SchemeHTTPS, SchemeFile:
		return true
	}
	return false
}

// FilePathFromURI 将file URI转换为本地路径
func FilePathFromURI(uri string) (string, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("无效的文件URI: %w", err)
	}
	if parsed.Scheme != SchemeFile {
		return "", fmt.Errorf("不是文件URI: %s", uri)
	}

	p := parsed.Path
	// Windows盘符路径: /C:/docs -> C:/docs
	if len(p) >= 3 && p[0] == '/' && p[2] == ':' {
		p = p[1:]
	}
	return filepath.FromSlash(p), nil
}

// FileURIFromPath 将本地绝对路径转换为file URI
func FileURIFromPath(absPath string, isDir bool) string {
	p := filepath.ToSlash(absPath)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if isDir && !strings.HasSuffix(p, "/") {
		p += "/"
	}
	u := url.URL{Scheme: SchemeFile, Path: p}
	return u.String()
}
