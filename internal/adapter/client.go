package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/wfunc/game-community/internal/errors"
	"github.com/wfunc/game-community/internal/logger"
)

// DefaultTimeout 默认请求超时
const DefaultTimeout = 30 * time.Second

// Client 上游REST服务的HTTP客户端
type Client struct {
	name    string
	baseURL string
	http    *http.Client
}

// NewClient 创建HTTP客户端
func NewClient(name, baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		name:    name,
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Name 返回上游服务名称
func (c *Client) Name() string {
	return c.name
}

// Request 一次上游请求
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   interface{}
	Token  string
	// Expect 期望的状态码，为空时接受任意2xx
	Expect []int
}

// Response 上游响应
type Response struct {
	StatusCode int
	Body       []byte
}

// Do 发送请求，非预期状态码返回带服务端消息的错误
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	endpoint := c.baseURL + req.Path
	target := endpoint
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInvalidParam, "请求体编码失败")
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidParam, "构建请求失败")
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		appErr := transportError(ctx, err)
		logger.LogUpstream(c.name, req.Method, endpoint, 0, time.Since(start), appErr)
		return nil, appErr
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		appErr := errors.Wrap(err, errors.ErrRequestFailed, "读取响应失败")
		logger.LogUpstream(c.name, req.Method, endpoint, resp.StatusCode, time.Since(start), appErr)
		return nil, appErr
	}

	result := &Response{StatusCode: resp.StatusCode, Body: data}
	if !statusAccepted(resp.StatusCode, req.Expect) {
		appErr := errors.New(errors.ErrUpstreamStatus, serverMessage(resp.StatusCode, data)).WithStatus(resp.StatusCode)
		logger.LogUpstream(c.name, req.Method, endpoint, resp.StatusCode, time.Since(start), appErr)
		return result, appErr
	}

	logger.LogUpstream(c.name, req.Method, endpoint, resp.StatusCode, time.Since(start), nil)
	return result, nil
}

func transportError(ctx context.Context, err error) *errors.AppError {
	switch {
	case stderrors.Is(ctx.Err(), context.Canceled):
		return errors.Wrap(err, errors.ErrCanceled)
	case stderrors.Is(ctx.Err(), context.DeadlineExceeded):
		return errors.Wrap(err, errors.ErrTimeout)
	}
	var netErr interface{ Timeout() bool }
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		return errors.Wrap(err, errors.ErrTimeout)
	}
	return errors.Wrap(err, errors.ErrRequestFailed)
}

func statusAccepted(status int, expect []int) bool {
	if len(expect) == 0 {
		return status >= 200 && status < 300
	}
	for _, s := range expect {
		if s == status {
			return true
		}
	}
	return false
}

// serverMessage 提取服务端返回的错误消息
// 后端使用msg、message或error字段，都没有时退回状态码描述
func serverMessage(status int, body []byte) string {
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, key := range []string{"message", "msg", "error"} {
			if s, ok := payload[key].(string); ok && s != "" {
				return s
			}
		}
	}
	return fmt.Sprintf("HTTP %d %s", status, http.StatusText(status))
}

// decode 解析JSON响应
func decode(resp *Response, v interface{}) error {
	if err := json.Unmarshal(resp.Body, v); err != nil {
		return errors.Wrap(err, errors.ErrResponseDecode)
	}
	return nil
}

// decodeList 解析JSON数组响应，不是数组时返回格式错误
func decodeList[T any](resp *Response) ([]T, error) {
	trimmed := bytes.TrimSpace(resp.Body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errors.New(errors.ErrUnexpectedFormat, "期望返回数组")
	}
	list := make([]T, 0)
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return nil, errors.Wrap(err, errors.ErrResponseDecode)
	}
	return list, nil
}

// decodeOne 解析单个对象
func decodeOne[T any](resp *Response) (*T, error) {
	var v T
	if err := decode(resp, &v); err != nil {
		return nil, err
	}
	return &v, nil
}
