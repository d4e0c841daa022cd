package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/RecoveryAshes/linkcrawl/internal/models"
	"github.com/schollz/progressbar/v3"
)

// Reporter 报告生成器
type Reporter struct {
	outputDir string
}

// NewReporter 创建报告生成器
func NewReporter(outputDir string) *Reporter {
	return &Reporter{outputDir: outputDir}
}

// GenerateReport 生成爬取报告
// 输出三个文件: crawl_report.json(完整报告), bad_links.json, failed_pages.json
func (r *Reporter) GenerateReport(report *models.CrawlReport) error {
	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return fmt.Errorf("创建报告目录失败: %w", err)
	}

	badLinks := report.BadLinks
	if badLinks == nil {
		badLinks = []models.BadLink{}
	}
	failedPages := report.FailedPages
	if failedPages == nil {
		failedPages = []models.FailedPage{}
	}

	if err := r.saveJSONReport("crawl_report.json", report); err != nil {
		return err
	}
	if err := r.saveJSONReport("bad_links.json", badLinks); err != nil {
		return err
	}
	if err := r.saveJSONReport("failed_pages.json", failedPages); err != nil {
		return err
	}

	Infof("✅ 报告已生成: %s", r.outputDir)
	return nil
}

// saveJSONReport 保存JSON报告
func (r *Reporter) saveJSONReport(filename string, data interface{}) error {
	path := filepath.Join(r.outputDir, filename)

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化JSON失败: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return fmt.Errorf("写入报告文件失败: %w", err)
	}

	Debugf("保存报告: %s", path)
	return nil
}

// NewProgressBar 创建进度指示器
// 爬取的总链接数事先未知, 所以使用不定长(spinner)模式, 输出到stderr避免和日志混在一起
func NewProgressBar(description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
}
