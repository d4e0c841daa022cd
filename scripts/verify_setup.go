package main

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
)

// 检查运行 linkcrawl 的环境: Go版本、项目结构、--render 所需的浏览器
func main() {
	fmt.Println("==============================================")
	fmt.Println("  linkcrawl 环境验证")
	fmt.Println("==============================================")
	fmt.Println()

	allOK := true

	goVersion := runtime.Version()
	if goVersionAtLeast(goVersion, 1, 23) {
		fmt.Printf("✅ Go版本: %s\n", goVersion)
	} else {
		fmt.Printf("⚠️  Go版本: %s (建议使用Go 1.23+)\n", goVersion)
	}

	fmt.Printf("✅ 操作系统: %s/%s\n", runtime.GOOS, runtime.GOARCH)

	// --render 需要本机浏览器, 找不到时rod会在首次渲染时自动下载
	if path, has := launcher.LookPath(); has {
		fmt.Printf("✅ 浏览器: %s\n", path)
	} else {
		fmt.Println("⚠️  未找到Chromium/Chrome - 使用 --render 时将自动下载")
	}

	fmt.Println()
	fmt.Println("检查项目结构...")
	required := []string{
		"go.mod",
		"cmd/linkcrawl",
		"internal/config",
		"internal/core",
		"internal/crawlers",
		"internal/models",
		"internal/utils",
	}
	for _, p := range required {
		if _, err := os.Stat(p); err == nil {
			fmt.Printf("✅ %s\n", p)
		} else {
			fmt.Printf("❌ %s 不存在\n", p)
			allOK = false
		}
	}

	fmt.Println()
	fmt.Println("==============================================")
	if allOK {
		fmt.Println("✅ 环境验证通过!")
		fmt.Println()
		fmt.Println("下一步:")
		fmt.Println("  1. 运行 'go build ./cmd/linkcrawl' 构建")
		fmt.Println("  2. 运行 './linkcrawl --help' 查看帮助")
		os.Exit(0)
	}
	fmt.Println("❌ 环境验证失败,请解决上述问题。")
	os.Exit(1)
}

// goVersionAtLeast 比较 runtime.Version() 形如 "go1.23.3" 的版本号
func goVersionAtLeast(version string, major, minor int) bool {
	parts := strings.Split(strings.TrimPrefix(version, "go"), ".")
	if len(parts) < 2 {
		// devel 版本
		return true
	}
	maj, err1 := strconv.Atoi(parts[0])
	min, err2 := strconv.Atoi(strings.TrimRightFunc(parts[1], func(r rune) bool { return r < '0' || r > '9' }))
	if err1 != nil || err2 != nil {
		return true
	}
	return maj > major || (maj == major && min >= minor)
}
