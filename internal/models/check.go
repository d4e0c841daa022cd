package models

// CheckResult 一次网络检查的结果
// 有状态码时Err为nil; 请求层失败(DNS、超时、连接重置)时StatusCode为0
type CheckResult struct {
	StatusCode int
	Err        error
}

// HasStatus 是否拿到了HTTP状态码
func (r CheckResult) HasStatus() bool {
	return r.Err == nil && r.StatusCode > 0
}

// CheckOutcome 链接检查结论
type CheckOutcome string

const (
	OutcomeOK             CheckOutcome = "ok"              // 200 或文件存在
	OutcomeBroken         CheckOutcome = "broken"          // 命中坏链状态码或文件缺失
	OutcomeInformational  CheckOutcome = "informational"   // 其他状态码, 仅记录
	OutcomeTransient      CheckOutcome = "transient"       // 请求失败且没有状态码
	OutcomeAlreadyChecked CheckOutcome = "already_checked" // 本次运行已检查过
)

// BadLink 确认的坏链
type BadLink struct {
	URL        string `json:"url"`
	SourcePage string `json:"source_page"`
	StatusCode int    `json:"status_code,omitempty"` // 文件缺失时为0
	Reason     string `json:"reason"`
}

// FailedPage 获取失败的页面
type FailedPage struct {
	URL        string         `json:"url"`
	SourcePage string         `json:"source_page,omitempty"`
	Kind       FetchErrorKind `json:"kind"`
	StatusCode int            `json:"status_code,omitempty"`
	Message    string         `json:"message"`
}
