package domain

import (
	"errors"
	"fmt"
)

// ErrKind 业务错误分类（由 HTTP 层映射为状态码）
type ErrKind int

const (
	KindValidation     ErrKind = iota + 1 // 请求缺字段/格式错误 -> 400
	KindNotFound                          // 引用的实体不存在 -> 404
	KindConflict                          // 唯一性/容量/状态冲突 -> 409
	KindAuthentication                    // 凭证错误 -> 401
	KindAuthorization                     // 角色权限不足 -> 403
)

// Error 业务规则错误。校验函数在检测点构造并返回，调用方向上透传，
// 不做异常式控制流。
type Error struct {
	Kind    ErrKind
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(kind ErrKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validationf(format string, args ...any) *Error {
	return newError(KindValidation, format, args...)
}

func NotFoundf(format string, args ...any) *Error {
	return newError(KindNotFound, format, args...)
}

func Conflictf(format string, args ...any) *Error {
	return newError(KindConflict, format, args...)
}

func Authenticationf(format string, args ...any) *Error {
	return newError(KindAuthentication, format, args...)
}

func Authorizationf(format string, args ...any) *Error {
	return newError(KindAuthorization, format, args...)
}

// KindOf 提取错误分类；非业务错误返回 0（HTTP 层按 500 处理）
func KindOf(err error) ErrKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}

// IsKind 判断错误是否属于指定分类
func IsKind(err error, kind ErrKind) bool {
	return KindOf(err) == kind
}
