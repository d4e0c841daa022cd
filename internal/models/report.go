package models

import (
	"encoding/json"
	"time"
)

// CrawlReport 爬取报告
type CrawlReport struct {
	// 运行信息
	RunID    string `json:"run_id"`
	StartURL string `json:"start_url"`
	BaseURL  string `json:"base_url"`
	RootURL  string `json:"root_url"`

	// 时间信息
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	Stats CrawlStats `json:"stats"`

	// 结果列表
	Pages        []string     `json:"pages"`         // 已扫描页面(按访问顺序)
	CheckedLinks []string     `json:"checked_links"` // 已检查链接(排序)
	BadLinks     []BadLink    `json:"bad_links"`     // 坏链(按发现顺序)
	FailedPages  []FailedPage `json:"failed_pages"`

	// Interrupted 爬取是否被中断(队列未清空)
	Interrupted bool `json:"interrupted"`

	// 配置快照
	Config CrawlConfig `json:"config"`
}

// NewCrawlReport 创建报告
func NewCrawlReport(startURL, baseURL, rootURL string, config CrawlConfig) *CrawlReport {
	return &CrawlReport{
		RunID:     generateID(),
		StartURL:  startURL,
		BaseURL:   baseURL,
		RootURL:   rootURL,
		StartTime: time.Now(),
		Config:    config,
	}
}

// ExitCode 以坏链数量作为进程退出码
// 退出码只有8位, 超过255时截断为255, 避免256个坏链被当作成功
func (r *CrawlReport) ExitCode() int {
	n := len(r.BadLinks)
	if n > 255 {
		return 255
	}
	return n
}

// ToJSON 序列化为JSON
func (r *CrawlReport) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// FromJSON 从JSON反序列化
func (r *CrawlReport) FromJSON(data []byte) error {
	return json.Unmarshal(data, r)
}
