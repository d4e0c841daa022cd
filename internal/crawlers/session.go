package crawlers

import (
	"sort"

	"github.com/RecoveryAshes/linkcrawl/internal/models"
)

// Session 一次爬取运行的全部可变状态
// 在运行开始时创建, 只在爬取循环中修改, 进程退出即丢弃
type Session struct {
	queue        *PageQueue
	checkedLinks map[string]struct{}
	badLinks     []models.BadLink
	failedPages  []models.FailedPage
	stats        models.CrawlStats
}

// NewSession 创建会话, 队列中只有起始页面
func NewSession(startURI string) *Session {
	s := &Session{
		queue:        NewPageQueue(),
		checkedLinks: make(map[string]struct{}),
	}
	s.queue.Push(models.PageItem{URL: startURI})
	return s
}

// Queue 返回页面队列
func (s *Session) Queue() *PageQueue {
	return s.queue
}

// IsLinkChecked 链接是否已检查
func (s *Session) IsLinkChecked(url string) bool {
	_, ok := s.checkedLinks[url]
	return ok
}

// MarkLinkChecked 标记链接已检查
// 返回false表示之前已经标记过
func (s *Session) MarkLinkChecked(url string) bool {
	if _, ok := s.checkedLinks[url]; ok {
		return false
	}
	s.checkedLinks[url] = struct{}{}
	s.stats.LinksChecked++
	return true
}

// RecordBadLink 记录坏链
func (s *Session) RecordBadLink(link models.BadLink) {
	s.badLinks = append(s.badLinks, link)
	s.stats.BrokenLinks++
}

// RecordFailedPage 记录获取失败的页面
func (s *Session) RecordFailedPage(page models.FailedPage) {
	s.failedPages = append(s.failedPages, page)
	s.stats.FailedPages++
}

// BadLinks 按发现顺序返回坏链
func (s *Session) BadLinks() []models.BadLink {
	out := make([]models.BadLink, len(s.badLinks))
	copy(out, s.badLinks)
	return out
}

// FailedPages 返回获取失败的页面
func (s *Session) FailedPages() []models.FailedPage {
	out := make([]models.FailedPage, len(s.failedPages))
	copy(out, s.failedPages)
	return out
}

// CheckedLinks 返回已检查链接(排序)
func (s *Session) CheckedLinks() []string {
	out := make([]string, 0, len(s.checkedLinks))
	for url := range s.checkedLinks {
		out = append(out, url)
	}
	sort.Strings(out)
	return out
}

// Stats 返回统计信息的可修改引用
func (s *Session) Stats() *models.CrawlStats {
	return &s.stats
}
