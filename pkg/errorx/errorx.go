// Package errorx 业务错误码
// 服务层返回 *CodeError，handler 把 Code 和 Msg 原样写进响应
package errorx

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

const (
	CodeSuccess               = 1000
	CodeInvalidParam          = 1001 // 自引用、空消息、非法状态值等
	CodeServerBusy            = 1005 // 未归类的内部错误
	CodeUnauthorized          = 1006 // 认证失败，或调用方不是该操作的当事人
	CodeNotFound              = 1008
	CodeDuplicateRelationship = 1009 // 两个用户之间已有关系边，不分方向
	CodeDBError               = 1010
	CodeCacheError            = 1011
	CodeInvalidState          = 1012 // 关系边当前状态不允许这次迁移
)

var (
	ErrInvalidParam = New(CodeInvalidParam, "请求参数错误")
	ErrServerBusy   = New(CodeServerBusy, "服务繁忙")
)

// CodeError 携带错误码的错误，可以包装一个底层错误
type CodeError struct {
	Code  int
	Msg   string
	cause error
}

func (e *CodeError) Error() string {
	if e.cause == nil {
		return e.Msg
	}
	return fmt.Sprintf("%s: %v", e.Msg, e.cause)
}

func (e *CodeError) Unwrap() error { return e.cause }

// Is 错误码相同即视为同一种错误，errors.Is(err, ErrInvalidParam) 对包装过的错误也成立
func (e *CodeError) Is(target error) bool {
	var t *CodeError
	return errors.As(target, &t) && t.Code == e.Code
}

func New(code int, msg string) *CodeError {
	return &CodeError{Code: code, Msg: msg}
}

func Newf(code int, format string, args ...any) *CodeError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap 给底层错误加上错误码，Error() 输出 "msg: cause"
func Wrap(err error, code int, msg string) *CodeError {
	return &CodeError{Code: code, Msg: msg, cause: err}
}

func Wrapf(err error, code int, format string, args ...any) *CodeError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// GetCode 取错误链上最外层 CodeError 的错误码，没有则为 CodeServerBusy
func GetCode(err error) int {
	var codeErr *CodeError
	if errors.As(err, &codeErr) {
		return codeErr.Code
	}
	return CodeServerBusy
}

func HasCode(err error, code int) bool {
	return err != nil && GetCode(err) == code
}

// IsNotFound CodeNotFound 或者未经转换的 gorm.ErrRecordNotFound
func IsNotFound(err error) bool {
	return HasCode(err, CodeNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}
