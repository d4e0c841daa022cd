package main

import (
	"fmt"
	"strings"

	"github.com/RecoveryAshes/linkcrawl/internal/models"
)

// ValidateFlags 验证起始地址和合并后的爬取配置
func ValidateFlags(startLocation string, crawlConfig models.CrawlConfig) error {
	if strings.TrimSpace(startLocation) == "" {
		return fmt.Errorf("起始地址不能为空")
	}

	// 带协议的地址只接受 http/https/file, 其余视为本地路径
	if scheme, _, ok := strings.Cut(startLocation, "://"); ok {
		if !models.IsSupportedScheme(scheme) {
			return fmt.Errorf("不支持的协议: %s (有效值: http, https, file)", scheme)
		}
	}

	if err := crawlConfig.Validate(); err != nil {
		return fmt.Errorf("参数无效: %w", err)
	}

	for _, u := range []string{crawlConfig.BaseURL, crawlConfig.RootURL} {
		if strings.ContainsAny(u, "\n\r") {
			return fmt.Errorf("URL中不能包含换行符: %q", u)
		}
	}

	return nil
}
