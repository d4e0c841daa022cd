package crawlers

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/RecoveryAshes/linkcrawl/internal/models"
	"github.com/RecoveryAshes/linkcrawl/internal/utils"
)

// LinkExtractor 从页面内容中提取链接
// 返回的链接已解析、按URI去重并按URI排序
type LinkExtractor interface {
	ExtractLinks(pageURI, content string) []models.ResolvedLink
}

// anchorHrefPattern 匹配 <a ... href=...> 的href值
// 值可以用双引号、单引号或不加引号, href前后可以有其他属性
var anchorHrefPattern = regexp.MustCompile(`(?i)<a\s(?:[^>]*?\s)?href\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"'>]+))`)

// RegexExtractor 单遍正则扫描提取器
type RegexExtractor struct {
	resolver *Resolver
}

// NewRegexExtractor 创建正则提取器
func NewRegexExtractor(resolver *Resolver) *RegexExtractor {
	return &RegexExtractor{resolver: resolver}
}

// ExtractLinks 实现LinkExtractor接口
func (e *RegexExtractor) ExtractLinks(pageURI, content string) []models.ResolvedLink {
	matches := anchorHrefPattern.FindAllStringSubmatchIndex(content, -1)
	hrefs := make([]string, 0, len(matches))
	for _, m := range matches {
		// 三个分组中只有一个参与匹配, 未参与的分组下标为-1
		for g := 1; g <= 3; g++ {
			if m[2*g] >= 0 {
				hrefs = append(hrefs, content[m[2*g]:m[2*g+1]])
				break
			}
		}
	}
	return resolveAll(e.resolver, pageURI, hrefs)
}

// DOMExtractor 基于goquery的提取器
// 注释中的锚点不会被提取
type DOMExtractor struct {
	resolver *Resolver
}

// NewDOMExtractor 创建DOM提取器
func NewDOMExtractor(resolver *Resolver) *DOMExtractor {
	return &DOMExtractor{resolver: resolver}
}

// ExtractLinks 实现LinkExtractor接口
func (e *DOMExtractor) ExtractLinks(pageURI, content string) []models.ResolvedLink {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		utils.Warnf("解析页面HTML失败 [%s]: %v", pageURI, err)
		return nil
	}

	var hrefs []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			hrefs = append(hrefs, href)
		}
	})
	return resolveAll(e.resolver, pageURI, hrefs)
}

// NewLinkExtractor 按名称创建提取器, 空名称使用正则提取器
func NewLinkExtractor(kind string, resolver *Resolver) (LinkExtractor, error) {
	switch strings.ToLower(kind) {
	case "", models.ExtractorRegex:
		return NewRegexExtractor(resolver), nil
	case models.ExtractorDOM:
		return NewDOMExtractor(resolver), nil
	default:
		return nil, fmt.Errorf("未知的链接提取器: %s (可选: %s, %s)", kind, models.ExtractorRegex, models.ExtractorDOM)
	}
}

// resolveAll 解析href, 丢弃无效链接, 按URI去重(保留第一次出现的原始文本)并排序
func resolveAll(resolver *Resolver, pageURI string, hrefs []string) []models.ResolvedLink {
	seen := make(map[string]struct{}, len(hrefs))
	links := make([]models.ResolvedLink, 0, len(hrefs))
	for _, href := range hrefs {
		link, ok := resolver.Resolve(pageURI, href)
		if !ok {
			continue
		}
		if _, dup := seen[link.URL]; dup {
			continue
		}
		seen[link.URL] = struct{}{}
		links = append(links, link)
	}

	sort.Slice(links, func(i, j int) bool {
		return links[i].URL < links[j].URL
	})
	return links
}
