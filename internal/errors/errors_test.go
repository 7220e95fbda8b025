package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

// ErrorsTestSuite 错误包测试套件
type ErrorsTestSuite struct {
	suite.Suite
}

// 测试创建新错误
func (suite *ErrorsTestSuite) TestNew() {
	err := New(ErrInvalidParam)
	suite.NotNil(err)
	suite.Equal(ErrInvalidParam, err.Code)
	suite.Equal("无效的参数", err.Message)
	suite.Empty(err.Details)

	// 测试多个详情
	err = New(ErrRequestFailed, "连接被拒绝", "POST /api/login")
	suite.Equal("连接被拒绝; POST /api/login", err.Details)
}

// 测试格式化错误创建
func (suite *ErrorsTestSuite) TestNewf() {
	err := Newf(ErrUpstreamStatus, "状态码 %d", 401)
	suite.Equal(ErrUpstreamStatus, err.Code)
	suite.Equal("状态码 401", err.Details)
}

// 测试错误包装
func (suite *ErrorsTestSuite) TestWrap() {
	originalErr := errors.New("dial tcp: connection refused")
	wrappedErr := Wrap(originalErr, ErrRequestFailed)
	suite.Equal(ErrRequestFailed, wrappedErr.Code)
	suite.Equal("dial tcp: connection refused", wrappedErr.Details)
	suite.Equal(originalErr, wrappedErr.Cause)
	suite.True(errors.Is(wrappedErr, originalErr))

	suite.Nil(Wrap(nil, ErrUnknown))

	// 包装已有的AppError，保留原始错误码
	appErr := New(ErrNoToken, "cookie为空")
	wrappedAppErr := Wrap(appErr, ErrRequestFailed, "获取当前用户")
	suite.Equal(ErrNoToken, wrappedAppErr.Code)
	suite.Contains(wrappedAppErr.Details, "获取当前用户")
}

// 测试错误码判断
func (suite *ErrorsTestSuite) TestIsAndGetCode() {
	err := New(ErrTokenExpired)
	suite.True(Is(err, ErrTokenExpired))
	suite.False(Is(err, ErrNoToken))
	suite.False(Is(nil, ErrNoToken))
	suite.False(Is(errors.New("标准错误"), ErrUnknown))

	suite.Equal(ErrTokenExpired, GetCode(err))
	suite.Equal(ErrUnknown, GetCode(errors.New("标准错误")))
	suite.Equal(ErrorCode(0), GetCode(nil))
}

// 测试错误消息
func (suite *ErrorsTestSuite) TestError() {
	err := &AppError{Code: ErrNotFound, Message: "资源未找到"}
	suite.Equal("[1002] 资源未找到", err.Error())

	err.Details = "event 9"
	suite.Equal("[1002] 资源未找到: event 9", err.Error())
}

// 测试原因提取
func (suite *ErrorsTestSuite) TestReason() {
	suite.Equal("", Reason(nil))
	suite.Equal("Usuario o Password erroneos", Reason(New(ErrUpstreamStatus, "Usuario o Password erroneos")))
	suite.Equal("plain", Reason(errors.New("plain")))
	suite.Equal("[2000] 请求失败", Reason(New(ErrRequestFailed)))
}

// 测试WithCause与WithStatus
func (suite *ErrorsTestSuite) TestWithCauseAndStatus() {
	cause := errors.New("unexpected EOF")
	err := New(ErrResponseDecode).WithCause(cause).WithStatus(200)
	suite.Equal(cause, err.Cause)
	suite.Equal("unexpected EOF", err.Details)
	suite.Equal(200, err.StatusCode)

	err2 := New(ErrResponseDecode, "已有详情").WithCause(cause)
	suite.Equal("已有详情", err2.Details)
}

// 测试HTTP状态码映射
func (suite *ErrorsTestSuite) TestHTTPStatus() {
	testCases := []struct {
		code     ErrorCode
		expected int
	}{
		{ErrInvalidParam, 400},
		{ErrNotFound, 404},
		{ErrMessageFormat, 400},
		{ErrTimeout, 408},
		{ErrNoToken, 401},
		{ErrTokenExpired, 401},
		{ErrRequestFailed, 502},
		{ErrUpstreamStatus, 502},
		{ErrDatabaseConnect, 503},
		{ErrUnknown, 500},
	}

	for _, tc := range testCases {
		err := New(tc.code)
		suite.Equal(tc.expected, err.HTTPStatus(), "错误码 %d 应该返回HTTP状态码 %d", tc.code, tc.expected)
	}
}

// 测试调用栈捕获
func (suite *ErrorsTestSuite) TestStackCapture() {
	err := New(ErrUnknown)
	suite.Greater(len(err.Stack), 0)
	suite.NotEmpty(err.Stack[0].Function)
	suite.Greater(err.Stack[0].Line, 0)
}

// 测试未知错误码
func (suite *ErrorsTestSuite) TestUnknownErrorCode() {
	err := New(ErrorCode(99999))
	suite.Equal(ErrorCode(99999), err.Code)
	suite.Equal("未知错误", err.Message)
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}
