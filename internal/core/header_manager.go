package core

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/RecoveryAshes/linkcrawl/internal/config"
	"github.com/RecoveryAshes/linkcrawl/internal/models"
	"github.com/RecoveryAshes/linkcrawl/internal/utils"
)

// Version 版本号, 构建时可通过 -ldflags 覆盖
var Version = "1.0.0"

// DefaultUserAgent 默认User-Agent, 带上当前版本号
func DefaultUserAgent() string {
	return "Mozilla/5.0 (compatible; linkcrawl/" + Version + "; +https://github.com/RecoveryAshes/linkcrawl)"
}

// 头部来源, 按优先级从低到高
const (
	layerDefault = iota
	layerConfig
	layerCLI
	layerCount
)

// headerLayer 一层头部来源
type headerLayer struct {
	source  string
	headers http.Header
}

// HeaderManager 管理HTTP请求头部
// 实现 models.HeaderProvider 接口, 页面获取和链接检查共用
type HeaderManager struct {
	layers       [layerCount]headerLayer
	configLoaded bool

	validator    *utils.HeaderValidator
	redactor     *utils.HeaderRedactor
	configLoader *config.HeaderConfigLoader

	// merged 第一次成功验证后缓存的合并结果
	merged http.Header
}

// NewHeaderManager 创建头部管理器
// configFile 为空时使用 configs/headers.yaml, cliHeaders 为 -H 传入的 "Name: Value" 列表
func NewHeaderManager(configFile string, cliHeaders []string) (*HeaderManager, error) {
	cli, err := models.CliHeaders(cliHeaders).Parse()
	if err != nil {
		return nil, err
	}

	hm := &HeaderManager{
		validator:    utils.NewHeaderValidator(),
		redactor:     utils.NewHeaderRedactor(),
		configLoader: config.NewHeaderConfigLoader(configFile),
	}
	hm.layers[layerDefault] = headerLayer{source: "默认", headers: defaultHeaders()}
	hm.layers[layerConfig] = headerLayer{source: "配置文件", headers: make(http.Header)}
	hm.layers[layerCLI] = headerLayer{source: "命令行", headers: cli}
	return hm, nil
}

func defaultHeaders() http.Header {
	return http.Header{
		"User-Agent":      []string{DefaultUserAgent()},
		"Accept":          []string{"text/html,application/xhtml+xml,*/*;q=0.8"},
		"Accept-Encoding": []string{"gzip, deflate, br"},
	}
}

// LoadConfig 加载头部配置文件, 已加载时跳过
func (hm *HeaderManager) LoadConfig() error {
	if hm.configLoaded {
		return nil
	}

	headerConfig, err := hm.configLoader.LoadConfig()
	if err != nil {
		utils.Errorf("加载HTTP头部配置失败: %v", err)
		return err
	}

	loaded := make(http.Header, len(headerConfig.Headers))
	for name, value := range headerConfig.Headers {
		loaded.Set(name, value)
	}
	hm.layers[layerConfig].headers = loaded
	hm.configLoaded = true

	if len(loaded) > 0 {
		names := make([]string, 0, len(loaded))
		for name := range loaded {
			names = append(names, name)
		}
		sort.Strings(names)
		utils.Debugf("从 %s 加载了%d个HTTP头部: %s", hm.configLoader.Path(), len(names), strings.Join(names, ", "))
	}
	return nil
}

// Validate 按 默认 → 配置文件 → 命令行 的顺序验证头部
// 错误信息中带有出错头部的来源
func (hm *HeaderManager) Validate() error {
	for _, layer := range hm.layers {
		if err := hm.validator.Validate(layer.headers); err != nil {
			utils.Errorf("%s头部验证失败: %v", layer.source, err)
			return fmt.Errorf("%s头部无效: %w", layer.source, err)
		}
	}
	utils.Debugf("所有HTTP头部验证通过")
	return nil
}

// GetMergedHeaders 合并头部, 高优先级的来源覆盖同名头部
func (hm *HeaderManager) GetMergedHeaders() http.Header {
	result := make(http.Header)
	for _, layer := range hm.layers {
		for name, values := range layer.headers {
			result[name] = values
		}
	}
	return result
}

// GetSafeHeaders 返回脱敏后的头部 (用于日志)
func (hm *HeaderManager) GetSafeHeaders() map[string]string {
	return hm.redactor.Redact(hm.GetMergedHeaders())
}

// GetHeaders 实现 HeaderProvider 接口
// 每个链接检查都会调用, 加载和验证只做一次
func (hm *HeaderManager) GetHeaders() (http.Header, error) {
	if hm.merged == nil {
		if err := hm.LoadConfig(); err != nil {
			return nil, err
		}
		if err := hm.Validate(); err != nil {
			return nil, err
		}
		hm.merged = hm.GetMergedHeaders()
	}
	return hm.merged.Clone(), nil
}
