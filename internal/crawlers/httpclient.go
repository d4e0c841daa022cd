package crawlers

import (
	"bufio"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/RecoveryAshes/linkcrawl/internal/utils"
	"github.com/andybalholm/brotli"
)

// NewHTTPClient 创建请求客户端
// timeout为0时不设置整体超时
func NewHTTPClient(timeout time.Duration, insecureSkipVerify bool) *http.Client {
	transport := &http.Transport{
		Proxy:           http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{InsecureSkipVerify: insecureSkipVerify},
	}
	if insecureSkipVerify {
		utils.Debugf("TLS证书验证已禁用")
	}
	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// decodingTransport 在响应到达colly之前解压响应体
// 手动设置了 Accept-Encoding 时标准库不会自动解压, 这里统一处理 gzip/deflate/br
type decodingTransport struct {
	base http.RoundTripper
	// ctx 当前请求绑定的上下文, 爬取是单线程的, 每次Fetch前设置
	ctx context.Context
}

func newDecodingTransport(base http.RoundTripper) *decodingTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &decodingTransport{base: base}
}

func (t *decodingTransport) bind(ctx context.Context) {
	t.ctx = ctx
}

// RoundTrip 实现http.RoundTripper接口
func (t *decodingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.ctx != nil {
		req = req.WithContext(t.ctx)
	}
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if err := decodeBody(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp, nil
}

// decodedBody 读取解压后的内容, 关闭时关闭原始响应体
type decodedBody struct {
	io.Reader
	raw io.Closer
}

func (b *decodedBody) Close() error {
	if c, ok := b.Reader.(io.Closer); ok {
		c.Close()
	}
	return b.raw.Close()
}

// decodeBody 根据Content-Encoding头部替换响应体为解压流
// 支持 gzip, deflate (zlib或裸deflate), br; 未知编码保持原样
func decodeBody(resp *http.Response) error {
	encoding := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding")))
	if encoding == "" || encoding == "identity" {
		return nil
	}

	buffered := bufio.NewReader(resp.Body)
	if _, err := buffered.Peek(1); err == io.EOF {
		// 空响应体(如部分404)没有可解压的内容
		stripEncoding(resp)
		return nil
	}

	var reader io.Reader
	switch encoding {
	case "gzip", "x-gzip":
		gz, err := gzip.NewReader(buffered)
		if err != nil {
			return fmt.Errorf("gzip解压失败: %w", err)
		}
		reader = gz

	case "deflate":
		// 规范要求zlib封装, 但不少服务器发送裸deflate
		header, _ := buffered.Peek(2)
		if len(header) == 2 && header[0]&0x0f == 8 && (uint16(header[0])<<8|uint16(header[1]))%31 == 0 {
			zr, err := zlib.NewReader(buffered)
			if err != nil {
				return fmt.Errorf("deflate解压失败: %w", err)
			}
			reader = zr
		} else {
			reader = flate.NewReader(buffered)
		}

	case "br":
		reader = brotli.NewReader(buffered)

	default:
		utils.Warnf("未知的Content-Encoding: %s", encoding)
		return nil
	}

	resp.Body = &decodedBody{Reader: reader, raw: resp.Body}
	stripEncoding(resp)
	return nil
}

func stripEncoding(resp *http.Response) {
	resp.Header.Del("Content-Encoding")
	resp.Header.Del("Content-Length")
	resp.ContentLength = -1
	resp.Uncompressed = true
}
