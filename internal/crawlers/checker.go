package crawlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/RecoveryAshes/linkcrawl/internal/models"
	"github.com/RecoveryAshes/linkcrawl/internal/utils"
)

// CheckerConfig 链接检查配置
type CheckerConfig struct {
	// BrokenStatusCodes 视为坏链的状态码, 为空时使用 [404]
	BrokenStatusCodes []int
	HeaderProvider    models.HeaderProvider
	// Client 为nil时使用不带超时的默认客户端
	Client *http.Client
}

// Checker 链接检查器
// 每个URI在一次运行中最多检查一次, 记录保存在Session中
type Checker struct {
	client         *http.Client
	headerProvider models.HeaderProvider
	broken         map[int]struct{}
}

// NewChecker 创建链接检查器
func NewChecker(config CheckerConfig) *Checker {
	codes := config.BrokenStatusCodes
	if len(codes) == 0 {
		codes = models.DefaultErrorStatusCodes
	}
	broken := make(map[int]struct{}, len(codes))
	for _, code := range codes {
		broken[code] = struct{}{}
	}

	client := config.Client
	if client == nil {
		client = NewHTTPClient(0, false)
	}

	return &Checker{
		client:         client,
		headerProvider: config.HeaderProvider,
		broken:         broken,
	}
}

// Check 检查一个链接并把结论记录到会话
// 无论结果如何, 链接都会先被标记为已检查
func (c *Checker) Check(ctx context.Context, session *Session, link models.ResolvedLink, sourcePage string) models.CheckOutcome {
	if !session.MarkLinkChecked(link.URL) {
		return models.OutcomeAlreadyChecked
	}

	if models.IsFileURI(link.URL) {
		return c.checkFile(session, link, sourcePage)
	}

	result := c.Request(ctx, link.URL)
	outcome := ClassifyResult(result, c.broken)

	switch outcome {
	case models.OutcomeBroken:
		utils.LinkWarningf("坏链 [HTTP %d]: %s (来源页面: %s)", result.StatusCode, link.URL, sourcePage)
		session.RecordBadLink(models.BadLink{
			URL:        link.URL,
			SourcePage: sourcePage,
			StatusCode: result.StatusCode,
			Reason:     fmt.Sprintf("HTTP %d %s", result.StatusCode, http.StatusText(result.StatusCode)),
		})
	case models.OutcomeInformational:
		session.Stats().Informational++
		utils.Infof("链接返回状态码 %d: %s (来源页面: %s)", result.StatusCode, link.URL, sourcePage)
	case models.OutcomeTransient:
		session.Stats().Transient++
		utils.Error(result.Err, fmt.Sprintf("请求链接失败: %s (来源页面: %s)", link.URL, sourcePage))
	default:
		utils.Infof("链接正常 [HTTP %d]: %s", result.StatusCode, link.URL)
	}
	return outcome
}

// checkFile 本地链接只检查文件是否存在
func (c *Checker) checkFile(session *Session, link models.ResolvedLink, sourcePage string) models.CheckOutcome {
	localPath, err := models.FilePathFromURI(link.URL)
	if err == nil {
		if _, err = os.Stat(localPath); err == nil {
			utils.Infof("文件存在: %s", localPath)
			return models.OutcomeOK
		}
	}

	reason := "文件不存在"
	if !os.IsNotExist(err) {
		reason = err.Error()
	}
	utils.LinkWarningf("坏链 [%s]: %s (来源页面: %s)", reason, link.URL, sourcePage)
	session.RecordBadLink(models.BadLink{
		URL:        link.URL,
		SourcePage: sourcePage,
		Reason:     reason,
	})
	return models.OutcomeBroken
}

// Request 对链接发起GET请求(部分服务器不支持HEAD), 响应体读完后关闭
func (c *Checker) Request(ctx context.Context, linkURL string) models.CheckResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, linkURL, nil)
	if err != nil {
		return models.CheckResult{Err: err}
	}

	if c.headerProvider != nil {
		headers, err := c.headerProvider.GetHeaders()
		if err != nil {
			utils.Warnf("获取HTTP头部失败: %v", err)
		} else {
			for name, values := range headers {
				if len(values) > 0 {
					req.Header.Set(name, values[0])
				}
			}
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return models.CheckResult{Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return models.CheckResult{StatusCode: resp.StatusCode}
}

// ClassifyResult 根据请求结果得出结论
// 200为正常, 命中坏链状态码为坏链, 其他状态码仅记录, 没有状态码为临时错误
func ClassifyResult(result models.CheckResult, broken map[int]struct{}) models.CheckOutcome {
	if !result.HasStatus() {
		return models.OutcomeTransient
	}
	if result.StatusCode == http.StatusOK {
		return models.OutcomeOK
	}
	if _, ok := broken[result.StatusCode]; ok {
		return models.OutcomeBroken
	}
	return models.OutcomeInformational
}
