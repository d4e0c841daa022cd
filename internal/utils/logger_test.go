package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestInitLogger(t *testing.T) {
	tempDir := t.TempDir()

	config := LogConfig{
		Level:      "debug",
		LogDir:     tempDir,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
		NoColor:    true,
	}

	if err := InitLogger(config); err != nil {
		t.Fatalf("初始化日志器失败: %v", err)
	}

	Info("测试信息日志")
	Warn("测试警告日志")
	Debug("测试调试日志")

	time.Sleep(100 * time.Millisecond)

	mainLogPath := filepath.Join(tempDir, "linkcrawl.log")
	if _, err := os.Stat(mainLogPath); os.IsNotExist(err) {
		t.Errorf("主日志文件未创建: %s", mainLogPath)
	}
}

func TestInitLogger_ConsoleOnly(t *testing.T) {
	tempDir := t.TempDir()
	wd, _ := os.Getwd()
	defer os.Chdir(wd)
	if err := os.Chdir(tempDir); err != nil {
		t.Fatalf("切换目录失败: %v", err)
	}

	if err := InitLogger(LogConfig{Level: "info", NoColor: true}); err != nil {
		t.Fatalf("初始化日志器失败: %v", err)
	}
	Info("只输出到控制台")

	entries, err := os.ReadDir(tempDir)
	if err != nil {
		t.Fatalf("读取目录失败: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("log_dir为空时不应创建日志文件, 实际有 %d 个", len(entries))
	}
}

func TestErrorLogOnlyContainsErrors(t *testing.T) {
	tempDir := t.TempDir()

	config := LogConfig{
		Level:    "debug",
		LogDir:   tempDir,
		MaxSize:  10,
		Compress: false,
		NoColor:  true,
	}
	if err := InitLogger(config); err != nil {
		t.Fatalf("初始化日志器失败: %v", err)
	}

	Info("普通信息不应该进入错误日志")
	Errorf("获取页面失败: %s", "file:///missing/")

	time.Sleep(100 * time.Millisecond)

	content, err := os.ReadFile(filepath.Join(tempDir, "linkcrawl_error.log"))
	if err != nil {
		t.Fatalf("读取错误日志失败: %v", err)
	}
	if !strings.Contains(string(content), "获取页面失败") {
		t.Errorf("错误日志应包含错误消息, 实际: %s", content)
	}
	if strings.Contains(string(content), "普通信息") {
		t.Errorf("错误日志不应包含info级别消息, 实际: %s", content)
	}
}

func TestLinkWarning(t *testing.T) {
	var buf bytes.Buffer
	prev := SetAnnotationOutput(&buf)
	defer SetAnnotationOutput(prev)
	defer SetDevOpsLogging(false)

	tests := []struct {
		name   string
		devops bool
		msg    string
		want   string
	}{
		{
			name:   "DevOps模式输出日志命令",
			devops: true,
			msg:    "坏链 [HTTP 404]: https://example.com/b",
			want:   "##vso[task.logissue type=warning]坏链 [HTTP 404]: https://example.com/b\n",
		},
		{
			name:   "普通模式不输出日志命令",
			devops: false,
			msg:    "坏链: file:///docs/missing.html",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			SetDevOpsLogging(tt.devops)
			LinkWarning(tt.msg)
			if got := buf.String(); got != tt.want {
				t.Errorf("期望输出 %q, 实际 %q", tt.want, got)
			}
		})
	}

	t.Run("格式化警告", func(t *testing.T) {
		buf.Reset()
		SetDevOpsLogging(true)
		LinkWarningf("坏链 [%s]: %s", "文件不存在", "file:///a.md")
		want := "##vso[task.logissue type=warning]坏链 [文件不存在]: file:///a.md\n"
		if got := buf.String(); got != want {
			t.Errorf("期望输出 %q, 实际 %q", want, got)
		}
	})
}

func TestInitLogger_DevOps(t *testing.T) {
	var buf bytes.Buffer
	prev := SetAnnotationOutput(&buf)
	defer SetAnnotationOutput(prev)
	defer SetDevOpsLogging(false)

	if err := InitLogger(LogConfig{Level: "info", DevOps: true}); err != nil {
		t.Fatalf("初始化日志器失败: %v", err)
	}
	LinkWarning("x")

	if !strings.HasPrefix(buf.String(), "##vso[task.logissue type=warning]") {
		t.Errorf("LogConfig.DevOps 应开启日志命令格式, 实际: %q", buf.String())
	}
}

func TestDefaultLogConfig(t *testing.T) {
	config := DefaultLogConfig()

	if config.Level != "info" {
		t.Errorf("默认日志级别错误: 期望 'info', 得到 '%s'", config.Level)
	}

	if config.LogDir != "" {
		t.Errorf("默认不写日志文件, 得到 '%s'", config.LogDir)
	}

	if config.MaxSize != 10 {
		t.Errorf("默认最大大小错误: 期望 10, 得到 %d", config.MaxSize)
	}

	if config.MaxBackups != 3 {
		t.Errorf("默认备份数错误: 期望 3, 得到 %d", config.MaxBackups)
	}

	if config.MaxAge != 28 {
		t.Errorf("默认保留天数错误: 期望 28, 得到 %d", config.MaxAge)
	}

	if !config.Compress {
		t.Error("默认应该启用压缩")
	}
}

func TestChineseLogOutput(t *testing.T) {
	tempDir := t.TempDir()

	config := LogConfig{
		Level:    "info",
		LogDir:   tempDir,
		MaxSize:  10,
		Compress: false,
		NoColor:  true,
	}

	if err := InitLogger(config); err != nil {
		t.Fatalf("初始化日志器失败: %v", err)
	}

	chineseMsg := "这是一条中文日志消息"
	Info(chineseMsg)

	time.Sleep(100 * time.Millisecond)

	content, err := os.ReadFile(filepath.Join(tempDir, "linkcrawl.log"))
	if err != nil {
		t.Fatalf("读取日志文件失败: %v", err)
	}

	if !strings.Contains(string(content), chineseMsg) {
		t.Errorf("日志文件应包含中文消息, 实际: %s", content)
	}
}
