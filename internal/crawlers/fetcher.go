package crawlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/RecoveryAshes/linkcrawl/internal/models"
	"github.com/RecoveryAshes/linkcrawl/internal/utils"
	"github.com/gocolly/colly/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	mdhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/net/html/charset"
)

// colly 请求上下文中的键
const (
	ctxKeyStatus = "status_code"
	ctxKeyBody   = "body"
)

// PageFetcher 获取页面内容
type PageFetcher interface {
	Fetch(ctx context.Context, pageURI string) (string, error)
	Close() error
}

// FetcherConfig 页面获取配置
type FetcherConfig struct {
	Timeout            time.Duration // 0表示不设置超时
	InsecureSkipVerify bool
	HeaderProvider     models.HeaderProvider
	Render             bool          // 远程页面用无头浏览器渲染
	RenderWait         time.Duration // 渲染后额外等待时间
}

// Fetcher 按页面来源类型获取内容
// 远程页面使用colly同步请求, 本地markdown用goldmark转换为HTML. 非并发安全
type Fetcher struct {
	config    FetcherConfig
	collector *colly.Collector
	transport *decodingTransport
	markdown  goldmark.Markdown
	renderer  Renderer
}

// NewFetcher 创建页面获取器
func NewFetcher(config FetcherConfig) *Fetcher {
	client := NewHTTPClient(config.Timeout, config.InsecureSkipVerify)
	transport := newDecodingTransport(client.Transport)
	client.Transport = transport

	// 同步模式: 回调在Request返回前执行完毕
	// 去重由爬取会话负责, 因此允许重复访问
	c := colly.NewCollector(
		colly.AllowURLRevisit(),
	)
	c.SetClient(client)
	// 非2xx响应也交给OnResponse, 状态码由我们自己判断
	c.ParseHTTPErrorResponse = true
	// colly 默认截断到10MB, 大页面末尾的链接也需要检查
	c.MaxBodySize = 0

	c.OnResponse(func(r *colly.Response) {
		r.Ctx.Put(ctxKeyStatus, r.StatusCode)
		r.Ctx.Put(ctxKeyBody, r.Body)
	})

	f := &Fetcher{
		config:    config,
		collector: c,
		transport: transport,
		// markdown中的原始HTML (如 <a href>) 需要保留, 否则其中的链接会被忽略
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(mdhtml.WithUnsafe()),
		),
	}
	if config.Render {
		f.renderer = NewBrowserRenderer(config.RenderWait, config.InsecureSkipVerify, config.HeaderProvider)
	}
	return f
}

// SetRenderer 替换渲染器
func (f *Fetcher) SetRenderer(r Renderer) {
	f.renderer = r
}

// ClassifyPage 判断页面来源类型
// 本地路径只有在类型为 markdown/html/目录 时才返回
func ClassifyPage(pageURI string) (models.PageSourceKind, string) {
	if models.IsWebURI(pageURI) {
		return models.SourceRemote, ""
	}
	if !models.IsFileURI(pageURI) {
		return models.SourceUnsupported, ""
	}

	localPath, err := models.FilePathFromURI(pageURI)
	if err != nil || localPath == "" {
		return models.SourceUnsupported, ""
	}

	switch strings.ToLower(filepath.Ext(localPath)) {
	case ".md":
		return models.SourceMarkdown, localPath
	case ".html", ".htm":
		return models.SourceHTML, localPath
	default:
		return models.SourceDirectoryIndex, localPath
	}
}

// Fetch 获取页面内容, 失败时返回 *models.FetchError
func (f *Fetcher) Fetch(ctx context.Context, pageURI string) (string, error) {
	kind, localPath := ClassifyPage(pageURI)
	utils.Debugf("获取页面 [%s]: %s", kind, pageURI)

	switch kind {
	case models.SourceRemote:
		return f.fetchRemote(ctx, pageURI)
	case models.SourceMarkdown:
		return f.fetchMarkdown(pageURI, localPath)
	case models.SourceHTML:
		return f.fetchHTML(pageURI, localPath)
	case models.SourceDirectoryIndex:
		return f.fetchDirectoryIndex(pageURI, localPath)
	default:
		return "", &models.FetchError{URL: pageURI, Kind: models.FetchUnsupportedURI}
	}
}

func (f *Fetcher) fetchRemote(ctx context.Context, pageURL string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &models.FetchError{URL: pageURL, Kind: models.FetchUnreachable, Cause: err}
	}

	hdr := make(http.Header)
	if f.config.HeaderProvider != nil {
		headers, err := f.config.HeaderProvider.GetHeaders()
		if err != nil {
			utils.Warnf("获取HTTP头部失败: %v", err)
		} else {
			for name, values := range headers {
				if len(values) > 0 {
					hdr.Set(name, values[0])
				}
			}
		}
	}

	reqCtx := colly.NewContext()
	f.transport.bind(ctx)
	err := f.collector.Request(http.MethodGet, pageURL, nil, reqCtx, hdr)
	f.transport.bind(nil)
	if err != nil {
		return "", &models.FetchError{URL: pageURL, Kind: models.FetchUnreachable, Cause: err}
	}

	status, _ := reqCtx.GetAny(ctxKeyStatus).(int)
	body, _ := reqCtx.GetAny(ctxKeyBody).([]byte)
	if status < 200 || status > 299 {
		return "", &models.FetchError{URL: pageURL, Kind: models.FetchHTTPStatus, StatusCode: status}
	}

	content := string(body)
	if f.renderer != nil {
		rendered, err := f.renderer.Render(ctx, pageURL)
		if err != nil {
			utils.Warnf("渲染页面失败 [%s], 使用原始HTML: %v", pageURL, err)
		} else {
			content = rendered
		}
	}
	return content, nil
}

func (f *Fetcher) fetchMarkdown(pageURI, localPath string) (string, error) {
	source, err := os.ReadFile(localPath)
	if err != nil {
		return "", &models.FetchError{URL: pageURI, Kind: models.FetchReadFailure, Cause: err}
	}

	var buf bytes.Buffer
	if err := f.markdown.Convert(source, &buf); err != nil {
		return "", &models.FetchError{URL: pageURI, Kind: models.FetchReadFailure, Cause: fmt.Errorf("markdown转换失败: %w", err)}
	}
	return buf.String(), nil
}

func (f *Fetcher) fetchHTML(pageURI, localPath string) (string, error) {
	content, err := os.ReadFile(localPath)
	if err != nil {
		return "", &models.FetchError{URL: pageURI, Kind: models.FetchReadFailure, Cause: err}
	}
	return string(toUTF8(content, "text/html")), nil
}

func (f *Fetcher) fetchDirectoryIndex(pageURI, localPath string) (string, error) {
	// 存在但不是目录的文件, 如 .png
	if info, err := os.Stat(localPath); err == nil && !info.IsDir() {
		return "", &models.FetchError{URL: pageURI, Kind: models.FetchUnrecognizedPath}
	}

	index := filepath.Join(localPath, "index.html")
	info, err := os.Stat(index)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &models.FetchError{URL: pageURI, Kind: models.FetchUnrecognizedPath}
		}
		return "", &models.FetchError{URL: pageURI, Kind: models.FetchReadFailure, Cause: err}
	}
	if info.IsDir() {
		return "", &models.FetchError{URL: pageURI, Kind: models.FetchUnrecognizedPath}
	}
	return f.fetchHTML(pageURI, index)
}

// Close 释放渲染器
func (f *Fetcher) Close() error {
	if f.renderer != nil {
		return f.renderer.Close()
	}
	return nil
}

// toUTF8 按BOM、Content-Type或<meta charset>把内容转换为UTF-8
// 没有明确声明且内容本身是合法UTF-8时原样返回
func toUTF8(content []byte, contentType string) []byte {
	enc, name, certain := charset.DetermineEncoding(content, contentType)
	if name == "utf-8" || (!certain && utf8.Valid(content)) {
		return content
	}
	decoded, err := enc.NewDecoder().Bytes(content)
	if err != nil {
		utils.Debugf("字符集转换失败 (%s): %v", name, err)
		return content
	}
	return decoded
}
