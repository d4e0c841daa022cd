package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RecoveryAshes/linkcrawl/internal/crawlers"
	"github.com/RecoveryAshes/linkcrawl/internal/models"
	"github.com/RecoveryAshes/linkcrawl/internal/utils"
	"github.com/schollz/progressbar/v3"
)

// Crawler 爬取驱动
// 从起始页面开始广度优先扫描, 检查每个页面上的链接,
// 开启递归时继续扫描以baseUrl为前缀的页面, 直到队列清空
type Crawler struct {
	config   models.CrawlConfig
	startURL string
	baseURL  string
	rootURL  string

	session   *crawlers.Session
	resolver  *crawlers.Resolver
	extractor crawlers.LinkExtractor
	fetcher   crawlers.PageFetcher
	checker   *crawlers.Checker

	progress *progressbar.ProgressBar
}

// NewCrawler 创建爬取驱动
// startLocation 可以是 http(s) URL、file URI 或本地路径
func NewCrawler(startLocation string, config models.CrawlConfig, headerProvider models.HeaderProvider) (*Crawler, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("配置验证失败: %w", err)
	}

	startURL, err := crawlers.ResolveStartURI(startLocation)
	if err != nil {
		return nil, fmt.Errorf("解析起始地址失败: %w", err)
	}
	if err := models.ValidateTargetURI(startURL); err != nil {
		return nil, err
	}

	baseURL := crawlers.DeriveBaseURL(startURL)
	if config.BaseURL != "" {
		if baseURL, err = resolveUserURI("baseUrl", config.BaseURL); err != nil {
			return nil, err
		}
	}

	rootURL := crawlers.DeriveRootURL(startURL)
	if config.RootURL != "" {
		if rootURL, err = resolveUserURI("rootUrl", config.RootURL); err != nil {
			return nil, err
		}
	}

	ignore, err := crawlers.LoadIgnoreList(config.IgnoreLinksFile)
	if err != nil {
		return nil, err
	}

	resolver, err := crawlers.NewResolver(rootURL, ignore)
	if err != nil {
		return nil, err
	}

	extractor, err := crawlers.NewLinkExtractor(config.Extractor, resolver)
	if err != nil {
		return nil, err
	}

	timeout := time.Duration(config.RequestTimeout) * time.Second
	fetcher := crawlers.NewFetcher(crawlers.FetcherConfig{
		Timeout:            timeout,
		InsecureSkipVerify: config.InsecureSkipVerify,
		HeaderProvider:     headerProvider,
		Render:             config.RenderJavaScript,
		RenderWait:         time.Duration(config.RenderWait) * time.Second,
	})

	checker := crawlers.NewChecker(crawlers.CheckerConfig{
		BrokenStatusCodes: config.ErrorStatusCodes,
		HeaderProvider:    headerProvider,
		Client:            crawlers.NewHTTPClient(timeout, config.InsecureSkipVerify),
	})

	return &Crawler{
		config:    config,
		startURL:  startURL,
		baseURL:   baseURL,
		rootURL:   resolver.RootURL(),
		session:   crawlers.NewSession(startURL),
		resolver:  resolver,
		extractor: extractor,
		fetcher:   fetcher,
		checker:   checker,
	}, nil
}

// resolveUserURI 规范化用户指定的baseUrl/rootUrl
func resolveUserURI(name, location string) (string, error) {
	uri, err := crawlers.ResolveStartURI(location)
	if err != nil {
		return "", fmt.Errorf("解析%s失败: %w", name, err)
	}
	if err := models.ValidateTargetURI(uri); err != nil {
		return "", fmt.Errorf("%s无效: %w", name, err)
	}
	return uri, nil
}

// SetProgress 开启或关闭进度条
func (c *Crawler) SetProgress(enabled bool) {
	if enabled {
		c.progress = utils.NewProgressBar("检查链接")
	} else {
		c.progress = nil
	}
}

// SetFetcher 替换页面获取器
func (c *Crawler) SetFetcher(fetcher crawlers.PageFetcher) {
	c.fetcher = fetcher
}

// StartURL 返回规范化后的起始URI
func (c *Crawler) StartURL() string {
	return c.startURL
}

// BaseURL 返回递归范围前缀
func (c *Crawler) BaseURL() string {
	return c.baseURL
}

// RootURL 返回根相对链接的解析基准
func (c *Crawler) RootURL() string {
	return c.rootURL
}

// Crawl 执行爬取
// 执行流程:
//  1. 取出队首页面, 已扫描则跳过
//  2. 获取页面内容, 失败时记录日志并视为没有链接
//  3. 提取并检查链接
//  4. 递归模式下把baseUrl范围内未扫描的链接加入队列
//
// ctx被取消时在页面或链接之间停止, 返回已完成部分的报告
func (c *Crawler) Crawl(ctx context.Context) (*models.CrawlReport, error) {
	report := models.NewCrawlReport(c.startURL, c.baseURL, c.rootURL, c.config)
	startTime := time.Now()

	utils.Infof("🚀 开始检查链接")
	utils.Infof("起始页面: %s", c.startURL)
	utils.Infof("递归范围: %s (递归=%v)", c.baseURL, c.config.Recursive)
	utils.Infof("根路径: %s", c.rootURL)
	utils.Debugf("坏链状态码: %v", c.config.ErrorStatusCodes)

	queue := c.session.Queue()
	for {
		if ctx.Err() != nil {
			report.Interrupted = true
			utils.Warnf("爬取被中断, 剩余 %d 个待扫描页面", queue.PendingCount())
			break
		}

		item, ok := queue.Pop()
		if !ok {
			break
		}
		if queue.IsVisited(item.URL) {
			continue
		}
		queue.MarkVisited(item.URL)

		c.scanPage(ctx, item)
	}

	if c.progress != nil {
		c.progress.Finish()
	}

	stats := c.session.Stats()
	stats.IgnoredLinks = c.resolver.IgnoredCount()
	stats.Duration = time.Since(startTime).Seconds()

	report.EndTime = time.Now()
	report.Stats = *stats
	report.Pages = queue.Visited()
	report.CheckedLinks = c.session.CheckedLinks()
	report.BadLinks = c.session.BadLinks()
	report.FailedPages = c.session.FailedPages()

	utils.Infof("✅ 检查完成: 页面 %d, 链接 %d, 坏链 %d, 耗时 %.2f秒",
		stats.PagesVisited, stats.LinksChecked, stats.BrokenLinks, stats.Duration)

	return report, nil
}

// scanPage 扫描一个页面
func (c *Crawler) scanPage(ctx context.Context, item models.PageItem) {
	stats := c.session.Stats()
	stats.PagesVisited++

	if item.SourcePage != "" {
		utils.Debugf("扫描页面: %s (深度 %d, 来源 %s)", item.URL, item.Depth, item.SourcePage)
	} else {
		utils.Debugf("扫描页面: %s", item.URL)
	}

	content, err := c.fetcher.Fetch(ctx, item.URL)
	if err != nil {
		c.recordFetchFailure(item, err)
		return
	}

	links := c.extractor.ExtractLinks(item.URL, content)
	stats.LinksFound += len(links)
	utils.Infof("扫描页面 %s: 发现 %d 个链接", item.URL, len(links))

	queue := c.session.Queue()
	for _, link := range links {
		if ctx.Err() != nil {
			return
		}

		c.checker.Check(ctx, c.session, link, item.URL)
		if c.progress != nil {
			c.progress.Add(1)
		}

		if c.shouldEnqueue(link.URL) {
			queue.Push(models.PageItem{URL: link.URL, SourcePage: item.URL, Depth: item.Depth + 1})
		}
	}
}

// shouldEnqueue 递归模式下, baseUrl范围内且未扫描的链接需要继续扫描
func (c *Crawler) shouldEnqueue(linkURL string) bool {
	if !c.config.Recursive {
		return false
	}
	if !strings.HasPrefix(linkURL, c.baseURL) {
		return false
	}
	return !c.session.Queue().IsVisited(linkURL)
}

// recordFetchFailure 页面获取失败只记录, 不影响退出码
func (c *Crawler) recordFetchFailure(item models.PageItem, err error) {
	failed := models.FailedPage{
		URL:        item.URL,
		SourcePage: item.SourcePage,
		Message:    err.Error(),
	}

	var fetchErr *models.FetchError
	if errors.As(err, &fetchErr) {
		failed.Kind = fetchErr.Kind
		failed.StatusCode = fetchErr.StatusCode
	}

	c.session.RecordFailedPage(failed)
	utils.Errorf("%v", err)
}

// Close 释放资源(无头浏览器)
func (c *Crawler) Close() error {
	if c.fetcher != nil {
		return c.fetcher.Close()
	}
	return nil
}
