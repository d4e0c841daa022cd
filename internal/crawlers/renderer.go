package crawlers

import (
	"context"
	"fmt"
	"time"

	"github.com/RecoveryAshes/linkcrawl/internal/models"
	"github.com/RecoveryAshes/linkcrawl/internal/utils"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Renderer 渲染远程页面, 返回执行JavaScript之后的DOM
type Renderer interface {
	Render(ctx context.Context, pageURL string) (string, error)
	Close() error
}

// BrowserRenderer 基于无头Chromium的渲染器
// 浏览器在第一次渲染时启动, 之后复用
type BrowserRenderer struct {
	wait               time.Duration
	insecureSkipVerify bool
	headerProvider     models.HeaderProvider

	launcher *launcher.Launcher
	browser  *rod.Browser
}

// NewBrowserRenderer 创建渲染器
func NewBrowserRenderer(wait time.Duration, insecureSkipVerify bool, headerProvider models.HeaderProvider) *BrowserRenderer {
	return &BrowserRenderer{
		wait:               wait,
		insecureSkipVerify: insecureSkipVerify,
		headerProvider:     headerProvider,
	}
}

// launch 启动浏览器
func (r *BrowserRenderer) launch() error {
	l := launcher.New().Headless(true)
	if r.insecureSkipVerify {
		l = l.Set("ignore-certificate-errors")
		utils.Debugf("浏览器启动参数: --ignore-certificate-errors")
	}

	controlURL, err := l.Launch()
	if err != nil {
		return fmt.Errorf("启动浏览器失败: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("连接浏览器失败: %w", err)
	}

	r.launcher = l
	r.browser = browser
	utils.Debugf("浏览器已启动: %s", controlURL)
	return nil
}

// Render 打开页面, 等待加载完成和额外等待时间后返回页面HTML
func (r *BrowserRenderer) Render(ctx context.Context, pageURL string) (html string, err error) {
	// rod 在浏览器异常退出时可能panic
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("渲染页面panic: %v", rec)
		}
	}()

	if r.browser == nil {
		if err := r.launch(); err != nil {
			return "", err
		}
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("创建标签页失败: %w", err)
	}
	defer page.Close()
	page = page.Context(ctx)

	if r.headerProvider != nil {
		headers, err := r.headerProvider.GetHeaders()
		if err != nil {
			utils.Warnf("获取HTTP头部失败: %v", err)
		} else {
			dict := make([]string, 0, len(headers)*2)
			for name, values := range headers {
				if len(values) > 0 {
					dict = append(dict, name, values[0])
				}
			}
			if len(dict) > 0 {
				if _, err := page.SetExtraHeaders(dict); err != nil {
					utils.Warnf("设置浏览器请求头失败: %v", err)
				}
			}
		}
	}

	if err := page.Navigate(pageURL); err != nil {
		return "", fmt.Errorf("导航失败: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", fmt.Errorf("等待页面加载失败: %w", err)
	}

	if r.wait > 0 {
		select {
		case <-time.After(r.wait):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	html, err = page.HTML()
	if err != nil {
		return "", fmt.Errorf("读取渲染结果失败: %w", err)
	}
	utils.Debugf("页面渲染完成: %s (%d 字节)", pageURL, len(html))
	return html, nil
}

// Close 关闭浏览器
func (r *BrowserRenderer) Close() error {
	if r.browser == nil {
		return nil
	}
	err := r.browser.Close()
	if r.launcher != nil {
		r.launcher.Kill()
	}
	r.browser = nil
	utils.Debugf("浏览器已关闭")
	return err
}
