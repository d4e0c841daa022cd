package crawlers

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// staticHeaders 固定头部的 HeaderProvider
type staticHeaders http.Header

func (h staticHeaders) GetHeaders() (http.Header, error) {
	return http.Header(h).Clone(), nil
}

// hitCounter 记录每个路径被请求的次数
type hitCounter struct {
	mu   sync.Mutex
	hits map[string]int
}

func (c *hitCounter) add(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hits == nil {
		c.hits = make(map[string]int)
	}
	c.hits[path]++
}

func (c *hitCounter) get(path string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits[path]
}

// newSiteServer 按路径返回固定状态码和HTML的测试服务器
// 没有配置的路径返回404
func newSiteServer(t *testing.T, pages map[string]string, statuses map[string]int) (*httptest.Server, *hitCounter) {
	t.Helper()
	counter := &hitCounter{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		counter.add(r.URL.Path)
		if status, ok := statuses[r.URL.Path]; ok {
			w.WriteHeader(status)
			return
		}
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, counter
}

// closedServerURL 返回一个已关闭服务器的地址, 请求会连接失败
func closedServerURL() string {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()
	return url
}
