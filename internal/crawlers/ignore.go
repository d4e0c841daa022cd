package crawlers

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/RecoveryAshes/linkcrawl/internal/utils"
)

// LoadIgnoreList 读取忽略链接列表
// 文件不存在时返回空集合; 每行 '#' 之后为注释, 空行跳过, 其余按原文加入集合
func LoadIgnoreList(path string) (map[string]struct{}, error) {
	ignore := make(map[string]struct{})
	if path == "" {
		return ignore, nil
	}

	lines, err := utils.ReadCommentedLines(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			utils.Debugf("忽略列表不存在, 跳过: %s", path)
			return ignore, nil
		}
		return nil, fmt.Errorf("加载忽略列表失败: %w", err)
	}

	for _, line := range lines {
		ignore[line] = struct{}{}
	}
	utils.Infof("从 %s 加载了 %d 条忽略链接", path, len(ignore))
	return ignore, nil
}
