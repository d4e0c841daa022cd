package core

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RecoveryAshes/linkcrawl/internal/models"
)

// missingHeadersFile 返回一个不存在的头部配置路径, 避免读取工作目录中的配置
func missingHeadersFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "headers.yaml")
}

func TestHeaderManager_GetMergedHeaders(t *testing.T) {
	t.Run("默认头部存在", func(t *testing.T) {
		hm, err := NewHeaderManager(missingHeadersFile(t), nil)
		if err != nil {
			t.Fatalf("创建HeaderManager失败: %v", err)
		}

		headers := hm.GetMergedHeaders()
		if !strings.Contains(headers.Get("User-Agent"), "linkcrawl/"+Version) {
			t.Errorf("期望默认User-Agent包含linkcrawl/%s, 实际='%s'", Version, headers.Get("User-Agent"))
		}
		if headers.Get("Accept-Encoding") != "gzip, deflate, br" {
			t.Errorf("期望默认Accept-Encoding, 实际='%s'", headers.Get("Accept-Encoding"))
		}
	})

	t.Run("命令行头部覆盖默认", func(t *testing.T) {
		hm, err := NewHeaderManager(missingHeadersFile(t), []string{"User-Agent: CustomBot/1.0"})
		if err != nil {
			t.Fatalf("创建HeaderManager失败: %v", err)
		}

		if ua := hm.GetMergedHeaders().Get("User-Agent"); ua != "CustomBot/1.0" {
			t.Errorf("期望User-Agent='CustomBot/1.0', 实际='%s'", ua)
		}
	})

	t.Run("多个命令行头部", func(t *testing.T) {
		cliHeaders := []string{
			"User-Agent: CustomBot/1.0",
			"X-Custom: value1",
			"Authorization: Bearer token123",
		}

		hm, err := NewHeaderManager(missingHeadersFile(t), cliHeaders)
		if err != nil {
			t.Fatalf("创建HeaderManager失败: %v", err)
		}

		headers := hm.GetMergedHeaders()
		if headers.Get("User-Agent") != "CustomBot/1.0" {
			t.Error("User-Agent未正确设置")
		}
		if headers.Get("X-Custom") != "value1" {
			t.Error("X-Custom未正确设置")
		}
		if headers.Get("Authorization") != "Bearer token123" {
			t.Error("Authorization未正确设置")
		}
	})
}

func TestHeaderManager_Priority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "headers.yaml")
	content := `headers:
  User-Agent: "ConfigBot/1.0"
  X-Docs-Token: "from-config"
  Accept-Language: "zh-CN"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}

	hm, err := NewHeaderManager(configPath, []string{"X-Docs-Token: from-cli"})
	if err != nil {
		t.Fatalf("创建HeaderManager失败: %v", err)
	}

	headers, err := hm.GetHeaders()
	if err != nil {
		t.Fatalf("GetHeaders失败: %v", err)
	}

	tests := []struct {
		name string
		want string
	}{
		{"User-Agent", "ConfigBot/1.0"},
		{"X-Docs-Token", "from-cli"},
		{"Accept-Language", "zh-CN"},
		{"Accept", "text/html,application/xhtml+xml,*/*;q=0.8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := headers.Get(tt.name); got != tt.want {
				t.Errorf("%s = '%s', 期望 '%s'", tt.name, got, tt.want)
			}
		})
	}
}

func TestHeaderManager_GetSafeHeaders(t *testing.T) {
	cliHeaders := []string{
		"User-Agent: CustomBot/1.0",
		"Authorization: Bearer secret-token-12345",
		"X-API-Key: api-key-67890",
	}

	hm, err := NewHeaderManager(missingHeadersFile(t), cliHeaders)
	if err != nil {
		t.Fatalf("创建HeaderManager失败: %v", err)
	}

	safeHeaders := hm.GetSafeHeaders()

	if safeHeaders["User-Agent"] != "CustomBot/1.0" {
		t.Error("普通头部不应该被脱敏")
	}
	if safeHeaders["Authorization"] != "Bearer ***" {
		t.Errorf("期望Authorization='Bearer ***', 实际='%s'", safeHeaders["Authorization"])
	}
	if safeHeaders["X-API-Key"] == "api-key-67890" {
		t.Error("X-API-Key应该被脱敏")
	}
}

func TestHeaderManager_GetHeaders(t *testing.T) {
	t.Run("非法命令行参数返回错误", func(t *testing.T) {
		if _, err := NewHeaderManager(missingHeadersFile(t), []string{"InvalidFormat"}); err == nil {
			t.Error("期望返回错误, 但成功了")
		}
	})

	t.Run("禁止头部返回验证错误", func(t *testing.T) {
		hm, err := NewHeaderManager(missingHeadersFile(t), []string{"Host: example.com"})
		if err != nil {
			t.Fatalf("创建HeaderManager失败: %v", err)
		}

		if _, err := hm.GetHeaders(); err == nil {
			t.Error("期望返回验证错误, 但成功了")
		}
	})

	t.Run("配置文件格式错误", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "headers.yaml")
		if err := os.WriteFile(configPath, []byte("headers: [unclosed"), 0644); err != nil {
			t.Fatalf("写入配置文件失败: %v", err)
		}

		hm, err := NewHeaderManager(configPath, nil)
		if err != nil {
			t.Fatalf("创建HeaderManager失败: %v", err)
		}
		if _, err := hm.GetHeaders(); err == nil {
			t.Error("期望返回配置错误, 但成功了")
		}
	})

	t.Run("返回副本", func(t *testing.T) {
		hm, err := NewHeaderManager(missingHeadersFile(t), []string{"X-Custom: test-value"})
		if err != nil {
			t.Fatalf("创建HeaderManager失败: %v", err)
		}

		first, err := hm.GetHeaders()
		if err != nil {
			t.Fatalf("GetHeaders失败: %v", err)
		}
		first.Set("X-Custom", "changed")

		second, err := hm.GetHeaders()
		if err != nil {
			t.Fatalf("GetHeaders失败: %v", err)
		}
		if second.Get("X-Custom") != "test-value" {
			t.Errorf("修改返回值不应影响缓存, 实际='%s'", second.Get("X-Custom"))
		}
	})
}

func TestDefaultUserAgent_Version(t *testing.T) {
	original := Version
	t.Cleanup(func() { Version = original })

	Version = "2.3.4-test"
	if ua := DefaultUserAgent(); !strings.Contains(ua, "linkcrawl/2.3.4-test") {
		t.Errorf("User-Agent应带有构建时的版本号, 实际='%s'", ua)
	}

	hm, err := NewHeaderManager(missingHeadersFile(t), nil)
	if err != nil {
		t.Fatalf("创建HeaderManager失败: %v", err)
	}
	headers, err := hm.GetHeaders()
	if err != nil {
		t.Fatalf("GetHeaders失败: %v", err)
	}
	if ua := headers.Get("User-Agent"); ua != DefaultUserAgent() {
		t.Errorf("默认头部应使用DefaultUserAgent(), 实际='%s'", ua)
	}
}

func TestHeaderManager_ValidateSource(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "headers.yaml")
	if err := os.WriteFile(configPath, []byte("headers:\n  Content-Length: \"10\"\n"), 0644); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}

	hm, err := NewHeaderManager(configPath, nil)
	if err != nil {
		t.Fatalf("创建HeaderManager失败: %v", err)
	}
	if err := hm.LoadConfig(); err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}

	err = hm.Validate()
	var validationErr *models.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("期望 *models.ValidationError, 实际 %v", err)
	}
	if !strings.Contains(err.Error(), "配置文件") {
		t.Errorf("错误信息应指出头部来源, 实际='%v'", err)
	}
}
