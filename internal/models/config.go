package models

import (
	"fmt"
	"net/http"
)

// 链接提取器类型
const (
	ExtractorRegex = "regex" // 单遍正则扫描(默认)
	ExtractorDOM   = "dom"   // goquery DOM解析
)

// DefaultErrorStatusCodes 默认坏链状态码
var DefaultErrorStatusCodes = []int{http.StatusNotFound}

// CrawlConfig 爬取配置
type CrawlConfig struct {
	Recursive          bool   `mapstructure:"recursive" json:"recursive"`                   // 是否递归爬取同站点链接 (默认:true)
	ErrorStatusCodes   []int  `mapstructure:"error_status_codes" json:"error_status_codes"` // 视为坏链的HTTP状态码 (默认:[404])
	IgnoreLinksFile    string `mapstructure:"ignore_links_file" json:"ignore_links_file"`   // 忽略链接列表文件
	HeadersFile        string `mapstructure:"headers_file" json:"headers_file"`             // HTTP头部配置文件
	BaseURL            string `mapstructure:"base_url" json:"base_url"`                     // 递归范围前缀 (空则自动推导)
	RootURL            string `mapstructure:"root_url" json:"root_url"`                     // 根相对链接的解析基准 (空则自动推导)
	RequestTimeout     int    `mapstructure:"request_timeout" json:"request_timeout"`       // 单次请求超时(秒), 0表示不设置
	Extractor          string `mapstructure:"extractor" json:"extractor"`                   // regex|dom
	RenderJavaScript   bool   `mapstructure:"render_javascript" json:"render_javascript"`   // 用无头浏览器渲染远程页面
	RenderWait         int    `mapstructure:"render_wait" json:"render_wait"`               // 渲染后额外等待时间(秒)
	InsecureSkipVerify bool   `mapstructure:"insecure_skip_verify" json:"insecure_skip_verify"`
}

// Validate 验证配置
func (c *CrawlConfig) Validate() error {
	if len(c.ErrorStatusCodes) == 0 {
		return fmt.Errorf("至少需要一个坏链状态码")
	}
	for _, code := range c.ErrorStatusCodes {
		if code < 100 || code > 599 {
			return fmt.Errorf("无效的HTTP状态码: %d (有效范围 100-599)", code)
		}
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("请求超时不能为负数: %d", c.RequestTimeout)
	}
	if c.RenderWait < 0 || c.RenderWait > 60 {
		return fmt.Errorf("渲染等待时间必须在0-60秒之间, 当前值: %d", c.RenderWait)
	}
	switch c.Extractor {
	case "", ExtractorRegex, ExtractorDOM:
	default:
		return fmt.Errorf("无效的链接提取器: %s (有效值: regex, dom)", c.Extractor)
	}
	return nil
}

// CrawlStats 爬取统计
type CrawlStats struct {
	PagesVisited  int     `json:"pages_visited"`  // 已扫描页面数
	FailedPages   int     `json:"failed_pages"`   // 获取失败的页面数
	LinksFound    int     `json:"links_found"`    // 发现的链接数(按页面累加)
	LinksChecked  int     `json:"links_checked"`  // 实际检查的不同链接数
	BrokenLinks   int     `json:"broken_links"`   // 坏链数
	Informational int     `json:"informational"`  // 非200且不在坏链集合中的响应
	Transient     int     `json:"transient"`      // 无状态码的请求失败
	IgnoredLinks  int     `json:"ignored_links"`  // 命中忽略列表的href数
	Duration      float64 `json:"duration"`       // 总耗时(秒)
}
