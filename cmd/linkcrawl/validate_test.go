package main

import (
	"testing"

	"github.com/RecoveryAshes/linkcrawl/internal/models"
)

func TestValidateFlags(t *testing.T) {
	valid := models.CrawlConfig{
		Recursive:        true,
		ErrorStatusCodes: []int{404},
		Extractor:        models.ExtractorRegex,
	}

	tests := []struct {
		name    string
		start   string
		modify  func(*models.CrawlConfig)
		wantErr bool
	}{
		{"网址", "https://docs.example.com/", nil, false},
		{"文件URI", "file:///site/index.md", nil, false},
		{"本地路径", "./docs/index.md", nil, false},
		{"空地址", "  ", nil, true},
		{"不支持的协议", "ftp://example.com/docs", nil, true},
		{"空状态码列表", "https://docs.example.com/", func(c *models.CrawlConfig) { c.ErrorStatusCodes = nil }, true},
		{"无效状态码", "https://docs.example.com/", func(c *models.CrawlConfig) { c.ErrorStatusCodes = []int{404, 1000} }, true},
		{"负数超时", "https://docs.example.com/", func(c *models.CrawlConfig) { c.RequestTimeout = -1 }, true},
		{"未知提取器", "https://docs.example.com/", func(c *models.CrawlConfig) { c.Extractor = "xpath" }, true},
		{"baseUrl包含换行", "https://docs.example.com/", func(c *models.CrawlConfig) { c.BaseURL = "https://a/\nb" }, true},
		{"rootUrl", "https://docs.example.com/", func(c *models.CrawlConfig) { c.RootURL = "https://docs.example.com/v2/" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid
			if tt.modify != nil {
				tt.modify(&config)
			}
			err := ValidateFlags(tt.start, config)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFlags() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
