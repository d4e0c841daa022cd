package crawlers

import (
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/RecoveryAshes/linkcrawl/internal/models"
	"github.com/RecoveryAshes/linkcrawl/internal/utils"
)

// Resolver 把页面中的href解析为规范化的绝对URI
type Resolver struct {
	root    *url.URL
	ignore  map[string]struct{}
	ignored int
}

// NewResolver 创建解析器
// rootURL 用于解析以 '/' 开头的链接, 总是当作目录处理
func NewResolver(rootURL string, ignore map[string]struct{}) (*Resolver, error) {
	root, err := url.Parse(rootURL)
	if err != nil {
		return nil, fmt.Errorf("解析rootUrl失败: %w", err)
	}
	if !root.IsAbs() {
		return nil, fmt.Errorf("rootUrl必须是绝对URI: %s", rootURL)
	}
	if !strings.HasSuffix(root.Path, "/") {
		root.Path += "/"
		root.RawPath = ""
	}
	if ignore == nil {
		ignore = make(map[string]struct{})
	}
	return &Resolver{root: root, ignore: ignore}, nil
}

// Resolve 解析页面 referral 中的一个href
// 返回false表示该href应被跳过: 命中忽略列表、非 http(s)/file 协议、
// 纯片段链接或无法解析. 无法解析的href只记录警告, 不会中断爬取
func (r *Resolver) Resolve(referral, href string) (models.ResolvedLink, bool) {
	// 忽略列表按原始文本精确匹配
	if r.isIgnored(href) {
		r.ignored++
		return models.ResolvedLink{}, false
	}

	cleaned := html.UnescapeString(strings.TrimSpace(href))
	if cleaned != href && r.isIgnored(cleaned) {
		r.ignored++
		return models.ResolvedLink{}, false
	}
	if cleaned == "" || strings.HasPrefix(cleaned, "#") {
		return models.ResolvedLink{}, false
	}

	ref, err := url.Parse(cleaned)
	if err != nil {
		utils.Warnf("跳过无法解析的链接 [%s] (页面 %s): %v", href, referral, err)
		return models.ResolvedLink{}, false
	}

	var target *url.URL
	switch {
	case ref.IsAbs():
		target = ref
	case strings.HasPrefix(cleaned, "//"):
		// 协议相对链接沿用root的协议
		target = r.root.ResolveReference(ref)
	case strings.HasPrefix(cleaned, "/"):
		// 根相对链接挂在rootUrl之下; "./" 前缀避免 "/a:b" 被解析成协议
		rel, err := url.Parse("./" + cleaned[1:])
		if err != nil {
			utils.Warnf("跳过无法解析的链接 [%s] (页面 %s): %v", href, referral, err)
			return models.ResolvedLink{}, false
		}
		target = r.root.ResolveReference(rel)
	default:
		base, err := url.Parse(referral)
		if err != nil {
			utils.Warnf("无法解析来源页面 [%s]: %v", referral, err)
			return models.ResolvedLink{}, false
		}
		target = base.ResolveReference(ref)
	}

	if !models.IsSupportedScheme(target.Scheme) {
		utils.Debugf("跳过不支持的协议 [%s]: %s", target.Scheme, href)
		return models.ResolvedLink{}, false
	}

	return models.ResolvedLink{Raw: href, URL: NormalizeURL(target)}, true
}

// IgnoredCount 命中忽略列表的href数量
func (r *Resolver) IgnoredCount() int {
	return r.ignored
}

// RootURL 返回根相对链接的解析基准
func (r *Resolver) RootURL() string {
	return r.root.String()
}

func (r *Resolver) isIgnored(href string) bool {
	_, ok := r.ignore[href]
	return ok
}
