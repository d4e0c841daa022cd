// Package crawlers 实现链接检查爬取的各个环节
//
// # 核心组件
//
// ## Resolver
//
// 把页面中的href解析为规范化的绝对URI. 以 '/' 开头的链接相对于rootUrl解析,
// 其余相对链接相对于所在页面解析. 命中忽略列表、非 http/https/file 协议
// 和无法解析的href都会被跳过.
//
//	resolver, err := NewResolver("https://example.com/", ignore)
//	link, ok := resolver.Resolve("https://example.com/docs/a.html", "../b.html")
//
// ## Fetcher
//
// 按页面来源类型(PageSourceKind)获取内容:
//   - 远程页面: colly同步请求, 可选go-rod无头浏览器渲染
//   - .md: goldmark(GFM)转换为HTML
//   - .html/.htm: 读取文件
//   - 其他本地路径: 查找目录下的 index.html
//
// ## LinkExtractor
//
// RegexExtractor(默认)单遍扫描锚点, DOMExtractor 使用goquery解析文档.
// 两者都返回去重并排序后的链接.
//
// ## Checker
//
// 本地链接检查文件是否存在, 网页链接发起GET请求. 结论和统计都记录在Session中,
// 同一个URI在一次运行中只检查一次.
//
// ## Session 与 PageQueue
//
// 一次运行的全部状态: 先进先出的页面队列、已扫描页面、已检查链接、坏链列表.
// 爬取是单线程的, 这些结构都不加锁.
package crawlers
