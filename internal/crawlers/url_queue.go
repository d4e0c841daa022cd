package crawlers

import (
	"github.com/RecoveryAshes/linkcrawl/internal/models"
)

// PageQueue 页面队列
// 职责: 先进先出的待爬页面队列 + 已扫描页面集合(Checked-Pages)
// 爬取是单线程同步执行的, 队列不做加锁
type PageQueue struct {
	// 待处理页面, 无容量上限
	pending []models.PageItem

	// 已扫描页面集合
	visited map[string]bool

	// 按访问顺序记录的页面
	order []string
}

// NewPageQueue 创建页面队列
func NewPageQueue() *PageQueue {
	return &PageQueue{
		pending: make([]models.PageItem, 0, 16),
		visited: make(map[string]bool),
	}
}

// Push 页面入队
// 入队时不去重, 出队时由调用方通过IsVisited跳过重复项
func (q *PageQueue) Push(item models.PageItem) {
	q.pending = append(q.pending, item)
}

// Pop 取出队首页面
func (q *PageQueue) Pop() (models.PageItem, bool) {
	if len(q.pending) == 0 {
		return models.PageItem{}, false
	}
	item := q.pending[0]
	q.pending[0] = models.PageItem{}
	q.pending = q.pending[1:]
	return item, true
}

// MarkVisited 标记页面为已扫描
func (q *PageQueue) MarkVisited(url string) {
	if q.visited[url] {
		return
	}
	q.visited[url] = true
	q.order = append(q.order, url)
}

// IsVisited 检查页面是否已扫描
func (q *PageQueue) IsVisited(url string) bool {
	return q.visited[url]
}

// PendingCount 返回待处理页面数量
func (q *PageQueue) PendingCount() int {
	return len(q.pending)
}

// VisitedCount 返回已扫描页面数量
func (q *PageQueue) VisitedCount() int {
	return len(q.visited)
}

// Visited 按访问顺序返回已扫描页面
func (q *PageQueue) Visited() []string {
	out := make([]string, len(q.order))
	copy(out, q.order)
	return out
}
