package crawlers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/RecoveryAshes/linkcrawl/internal/models"
)

func TestResolveStartURI(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "index.md")
	if err := os.WriteFile(file, []byte("# docs"), 0644); err != nil {
		t.Fatalf("写入测试文件失败: %v", err)
	}

	tests := []struct {
		name     string
		location string
		want     string
		wantErr  bool
	}{
		{"网址规范化", "https://Example.com", "https://example.com/", false},
		{"网址去掉片段", "https://example.com/docs/index.html#x", "https://example.com/docs/index.html", false},
		{"文件URI", "file:///site/index.md", "file:///site/index.md", false},
		{"本地目录加结尾斜杠", dir, models.FileURIFromPath(dir, true), false},
		{"本地文件", file, models.FileURIFromPath(file, false), false},
		{"不存在的本地路径仍转换为URI", filepath.Join(dir, "nope.md"), models.FileURIFromPath(filepath.Join(dir, "nope.md"), false), false},
		{"空地址", "  ", "", true},
		{"缺少主机名", "https:///docs", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveStartURI(tt.location)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolveStartURI() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ResolveStartURI(%q) = %q, 期望 %q", tt.location, got, tt.want)
			}
		})
	}

	t.Run("相对路径转为绝对路径", func(t *testing.T) {
		abs, _ := filepath.Abs("testdata-missing.md")
		got, err := ResolveStartURI("testdata-missing.md")
		if err != nil {
			t.Fatalf("ResolveStartURI() 失败: %v", err)
		}
		if got != models.FileURIFromPath(abs, false) {
			t.Errorf("期望 %s, 实际 %s", models.FileURIFromPath(abs, false), got)
		}
	})
}

func TestDeriveBaseURL(t *testing.T) {
	tests := []struct {
		start string
		want  string
	}{
		{"https://example.com/docs/index.html", "https://example.com/docs/"},
		{"https://example.com/docs/", "https://example.com/docs/"},
		{"https://example.com/", "https://example.com/"},
		{"https://example.com/a?x=1", "https://example.com/"},
		{"file:///site/docs/index.md", "file:///site/docs/"},
		{"file:///site/docs/", "file:///site/docs/"},
	}

	for _, tt := range tests {
		t.Run(tt.start, func(t *testing.T) {
			if got := DeriveBaseURL(tt.start); got != tt.want {
				t.Errorf("DeriveBaseURL() = %q, 期望 %q", got, tt.want)
			}
		})
	}
}

func TestDeriveRootURL(t *testing.T) {
	tests := []struct {
		start string
		want  string
	}{
		{"https://example.com/docs/index.html", "https://example.com/"},
		{"http://127.0.0.1:8080/x/y", "http://127.0.0.1:8080/"},
		{"file:///site/docs/index.md", "file:///site/docs/"},
	}

	for _, tt := range tests {
		t.Run(tt.start, func(t *testing.T) {
			if got := DeriveRootURL(tt.start); got != tt.want {
				t.Errorf("DeriveRootURL() = %q, 期望 %q", got, tt.want)
			}
		})
	}
}
