package utils

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ReadCommentedLines 读取按行组织的列表文件
// 每行从 '#' 开始的部分视为注释, 去掉注释并trim后为空的行会被跳过
func ReadCommentedLines(filepath string) ([]string, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	lines := make([]string, 0)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("读取文件失败 [%s]: %w", filepath, err)
	}
	return lines, nil
}
