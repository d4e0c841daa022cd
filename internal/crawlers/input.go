package crawlers

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/RecoveryAshes/linkcrawl/internal/models"
)

// ResolveStartURI 把命令行传入的地址转换为规范化URI
// http(s)/file URI 直接规范化; 其余一律视为本地路径, 转为绝对路径的file URI,
// 目录保留结尾的 '/'
func ResolveStartURI(location string) (string, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return "", fmt.Errorf("地址不能为空")
	}

	if models.IsWebURI(location) || models.IsFileURI(location) {
		parsed, err := url.Parse(location)
		if err != nil {
			return "", fmt.Errorf("解析URL失败: %w", err)
		}
		if parsed.Scheme != models.SchemeFile && parsed.Host == "" {
			return "", fmt.Errorf("URL缺少主机名: %s", location)
		}
		return NormalizeURL(parsed), nil
	}

	abs, err := filepath.Abs(location)
	if err != nil {
		return "", fmt.Errorf("解析本地路径失败 [%s]: %w", location, err)
	}
	info, statErr := os.Stat(abs)
	isDir := statErr == nil && info.IsDir()
	return models.FileURIFromPath(abs, isDir), nil
}

// DeriveBaseURL 推导递归范围前缀: 起始URI到最后一个 '/' 为止(含)
func DeriveBaseURL(startURI string) string {
	parsed, err := url.Parse(startURI)
	if err != nil {
		return startURI
	}
	parsed.RawQuery = ""
	parsed.ForceQuery = false
	parsed.Fragment = ""
	parsed.RawPath = ""

	p := parsed.Path
	if !strings.HasSuffix(p, "/") {
		p = p[:strings.LastIndex(p, "/")+1]
	}
	if p == "" {
		p = "/"
	}
	parsed.Path = p
	return parsed.String()
}

// DeriveRootURL 推导根相对链接(/...)的解析基准
// 网页: scheme://host/; 本地文件: 起始页面所在目录, 即本地构建站点的根
func DeriveRootURL(startURI string) string {
	parsed, err := url.Parse(startURI)
	if err != nil {
		return startURI
	}
	if parsed.Scheme == models.SchemeFile {
		return DeriveBaseURL(startURI)
	}
	root := url.URL{Scheme: parsed.Scheme, User: parsed.User, Host: parsed.Host, Path: "/"}
	return root.String()
}

// NormalizeURL 规范化URI: 协议和主机小写, 去掉片段, 路径按标准形式重新转义,
// 保留查询参数
func NormalizeURL(u *url.URL) string {
	n := *u
	n.Scheme = strings.ToLower(n.Scheme)
	n.Host = strings.ToLower(n.Host)
	n.Fragment = ""
	n.RawFragment = ""
	n.RawPath = ""
	if n.Path == "" && n.Host != "" && n.Opaque == "" {
		n.Path = "/"
	}
	return n.String()
}
