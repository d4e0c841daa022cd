package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/RecoveryAshes/linkcrawl/internal/config"
	"github.com/RecoveryAshes/linkcrawl/internal/core"
	"github.com/RecoveryAshes/linkcrawl/internal/models"
	"github.com/RecoveryAshes/linkcrawl/internal/utils"
	"github.com/spf13/cobra"
)

var (
	BuildTime = "unknown"
)

// 命令行参数
var (
	// 全局参数
	configFile    string
	verbose       bool
	logLevel      string
	devopsLogging bool

	// HTTP头部参数
	headers        []string
	headersFile    string
	validateConfig bool

	// 爬取参数
	ignoreLinksFile    string
	recursive          bool
	baseURL            string
	rootURL            string
	errorStatusCodes   []int
	extractor          string
	render             bool
	renderWait         int
	requestTimeout     int
	insecureSkipVerify bool

	// 输出参数
	reportDir string
	progress  bool
)

// appConfig 在PersistentPreRunE中加载, 命令行参数已合并
var appConfig *core.Config

// exitCode 进程退出码: 坏链数量
var exitCode int

var rootCmd = &cobra.Command{
	Use:   "linkcrawl [url|path]",
	Short: "检查网站或本地文档中的坏链",
	Long: `linkcrawl - 链接检查爬虫

从起始页面(本地 .md/.html 文件、目录或 http(s) URL)开始提取超链接,
检查每个链接是否可达, 并可递归扫描同一站点下的页面:
  • 本地链接检查文件是否存在
  • 网页链接使用GET请求, 命中坏链状态码(默认404)即记录
  • 以 / 开头的链接相对于站点根路径解析
  • 忽略列表文件中的链接不做检查
  • 退出码为坏链数量(最大255)

示例:
  linkcrawl ./docs/index.md
  linkcrawl https://example.com/docs/ --error-status-codes 404,410
  linkcrawl ./site --recursive=false --ignore-links-file .linkcrawlignore
  linkcrawl https://example.com --devops-logging -H "Authorization: Bearer token"

版本: ` + core.Version + `
构建时间: ` + BuildTime,
	Version:       core.Version,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := core.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("加载配置失败: %w", err)
		}
		applyFlagOverrides(cmd, cfg)
		appConfig = cfg

		logConfig := utils.DefaultLogConfig()
		logConfig.Level = cfg.Logging.Level
		logConfig.LogDir = cfg.Logging.LogDir
		logConfig.DevOps = cfg.Logging.DevOps
		if rotation := cfg.Logging.Rotation; rotation.MaxSize > 0 {
			logConfig.MaxSize = rotation.MaxSize
			logConfig.MaxBackups = rotation.MaxBackups
			logConfig.MaxAge = rotation.MaxAge
			logConfig.Compress = rotation.Compress
		}
		if verbose && logLevel == "" {
			logConfig.Level = "debug"
		}

		if err := utils.InitLogger(logConfig); err != nil {
			return fmt.Errorf("初始化日志系统失败: %w", err)
		}

		if verbose {
			utils.Debug("详细模式已启用")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		headerManager, err := core.NewHeaderManager(appConfig.Crawl.HeadersFile, headers)
		if err != nil {
			return fmt.Errorf("创建HTTP头部管理器失败: %w", err)
		}

		if validateConfig {
			return runValidateConfig(headerManager)
		}

		// 没有起始地址时显示帮助, 正常退出
		if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
			exitCode = 0
			return cmd.Help()
		}

		crawlConfig := appConfig.GetCrawlConfig()
		if err := ValidateFlags(args[0], crawlConfig); err != nil {
			return err
		}

		crawler, err := core.NewCrawler(args[0], crawlConfig, headerManager)
		if err != nil {
			return fmt.Errorf("创建爬取器失败: %w", err)
		}
		defer crawler.Close()
		crawler.SetProgress(appConfig.Output.Progress)

		// Ctrl+C 停止爬取并输出已完成部分的结果
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		report, err := crawler.Crawl(ctx)
		if err != nil {
			return fmt.Errorf("爬取失败: %w", err)
		}

		if appConfig.Output.ReportDir != "" {
			if err := utils.NewReporter(appConfig.Output.ReportDir).GenerateReport(report); err != nil {
				utils.Warnf("生成报告失败: %v", err)
			}
		}

		printSummary(report)
		exitCode = report.ExitCode()
		return nil
	},
}

// applyFlagOverrides 只有显式指定的命令行参数才覆盖配置文件
func applyFlagOverrides(cmd *cobra.Command, cfg *core.Config) {
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if flags.Changed("devops-logging") {
		cfg.Logging.DevOps = devopsLogging
	}
	if flags.Changed("headers-file") {
		cfg.Crawl.HeadersFile = headersFile
	}
	if flags.Changed("ignore-links-file") {
		cfg.Crawl.IgnoreLinksFile = ignoreLinksFile
	}
	if flags.Changed("recursive") {
		cfg.Crawl.Recursive = recursive
	}
	if flags.Changed("base-url") {
		cfg.Crawl.BaseURL = baseURL
	}
	if flags.Changed("root-url") {
		cfg.Crawl.RootURL = rootURL
	}
	if flags.Changed("error-status-codes") {
		cfg.Crawl.ErrorStatusCodes = errorStatusCodes
	}
	if flags.Changed("extractor") {
		cfg.Crawl.Extractor = extractor
	}
	if flags.Changed("render") {
		cfg.Crawl.RenderJavaScript = render
	}
	if flags.Changed("render-wait") {
		cfg.Crawl.RenderWait = renderWait
	}
	if flags.Changed("timeout") {
		cfg.Crawl.RequestTimeout = requestTimeout
	}
	if flags.Changed("insecure") {
		cfg.Crawl.InsecureSkipVerify = insecureSkipVerify
	}
	if flags.Changed("report") {
		cfg.Output.ReportDir = reportDir
	}
	if flags.Changed("progress") {
		cfg.Output.Progress = progress
	}
}

// runValidateConfig 验证头部配置并显示合并后的头部(脱敏)
func runValidateConfig(headerManager *core.HeaderManager) error {
	utils.Info("🔍 验证HTTP头部配置...")
	if err := headerManager.LoadConfig(); err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}
	if err := headerManager.Validate(); err != nil {
		return fmt.Errorf("配置验证失败: %w", err)
	}
	if err := appConfig.Validate(); err != nil {
		return err
	}

	safeHeaders := headerManager.GetSafeHeaders()
	utils.Info("✅ 配置验证通过!")
	utils.Infof("当前有效的HTTP头部 (%d个):", len(safeHeaders))
	for name, value := range safeHeaders {
		utils.Infof("  %s: %s", name, value)
	}
	return nil
}

// printSummary 输出统计和坏链列表
func printSummary(report *models.CrawlReport) {
	stats := report.Stats
	fmt.Println("\n==================================================")
	fmt.Println("📊 链接检查统计")
	fmt.Println("==================================================")
	fmt.Printf("📄 扫描页面: %d (失败 %d)\n", stats.PagesVisited, stats.FailedPages)
	fmt.Printf("🔗 检查链接: %d (忽略 %d)\n", stats.LinksChecked, stats.IgnoredLinks)
	fmt.Printf("❌ 坏链: %d\n", stats.BrokenLinks)
	fmt.Printf("ℹ️  其他状态码: %d\n", stats.Informational)
	fmt.Printf("⚠️  请求失败: %d\n", stats.Transient)
	fmt.Printf("⏱️  总耗时: %.2f秒\n", stats.Duration)
	if report.Interrupted {
		fmt.Println("⛔ 爬取被中断, 结果不完整")
	}
	fmt.Println("==================================================")

	for _, bad := range report.BadLinks {
		fmt.Printf("  %s\n    来源: %s (%s)\n", bad.URL, bad.SourcePage, bad.Reason)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("linkcrawl %s\n", core.Version)
		fmt.Printf("构建时间: %s\n", BuildTime)
	},
}

var initHeadersCmd = &cobra.Command{
	Use:   "init-headers [path]",
	Short: "生成HTTP头部配置模板",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultConfigFile
		if len(args) == 1 {
			path = args[0]
		}
		loader := config.NewHeaderConfigLoader(path)
		created, err := loader.EnsureConfigExists()
		if err != nil {
			return err
		}
		if created {
			utils.Infof("✅ 已生成头部配置模板: %s", loader.Path())
		} else {
			utils.Infof("头部配置文件已存在: %s", loader.Path())
		}
		return nil
	},
}

func init() {
	// 全局参数
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "配置文件路径")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "详细输出模式")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "日志级别 (trace|debug|info|warn|error)")
	rootCmd.PersistentFlags().BoolVar(&devopsLogging, "devops-logging", false, "坏链警告使用Azure DevOps日志命令格式")

	// HTTP头部参数
	rootCmd.Flags().StringArrayVarP(&headers, "header", "H", []string{}, "自定义HTTP头部,格式: 'Name: Value',可多次指定")
	rootCmd.Flags().StringVar(&headersFile, "headers-file", "", "HTTP头部配置文件 (默认 configs/headers.yaml)")
	rootCmd.Flags().BoolVar(&validateConfig, "validate-config", false, "验证配置文件正确性")

	// 爬取参数
	rootCmd.Flags().StringVar(&ignoreLinksFile, "ignore-links-file", ".linkcrawlignore", "忽略链接列表文件")
	rootCmd.Flags().BoolVar(&recursive, "recursive", true, "递归扫描baseUrl范围内的页面")
	rootCmd.Flags().StringVar(&baseURL, "base-url", "", "递归范围前缀 (默认: 起始页面所在目录)")
	rootCmd.Flags().StringVar(&rootURL, "root-url", "", "以 / 开头的链接的解析基准 (默认: 站点根路径)")
	rootCmd.Flags().IntSliceVar(&errorStatusCodes, "error-status-codes", models.DefaultErrorStatusCodes, "视为坏链的HTTP状态码")
	rootCmd.Flags().StringVar(&extractor, "extractor", models.ExtractorRegex, "链接提取器 (regex|dom)")
	rootCmd.Flags().BoolVar(&render, "render", false, "用无头浏览器渲染远程页面后再提取链接")
	rootCmd.Flags().IntVar(&renderWait, "render-wait", 1, "渲染后额外等待时间(秒)")
	rootCmd.Flags().IntVar(&requestTimeout, "timeout", 0, "单次请求超时(秒), 0表示不限制")
	rootCmd.Flags().BoolVar(&insecureSkipVerify, "insecure", false, "跳过TLS证书验证")

	// 输出参数
	rootCmd.Flags().StringVar(&reportDir, "report", "", "JSON报告输出目录")
	rootCmd.Flags().BoolVar(&progress, "progress", false, "显示进度")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initHeadersCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
	os.Exit(exitCode)
}
