package handler

import (
	"errors"
	"net/http"

	"devmatch_server/pkg/errorx"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// HTTP 状态码恒为 200，结果看 body 里的 code
func reply(c *gin.Context, code int, msg any, data any) {
	c.JSON(http.StatusOK, gin.H{
		"code": code,
		"msg":  msg,
		"data": data,
	})
}

// HandleSuccess 返回成功响应
func HandleSuccess(c *gin.Context, data any) {
	reply(c, errorx.CodeSuccess, "success", data)
}

// HandleError 业务错误原样返回 code 和 msg，其余错误记日志后统一返回服务繁忙
func HandleError(c *gin.Context, err error) {
	var codeErr *errorx.CodeError
	if errors.As(err, &codeErr) {
		reply(c, codeErr.Code, codeErr.Msg, nil)
		return
	}

	zap.L().Error("unhandled error",
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.Error(err),
	)
	reply(c, errorx.ErrServerBusy.Code, errorx.ErrServerBusy.Msg, nil)
}

// HandleParamError 参数绑定失败
// 校验错误时 msg 是 参数名 -> 提示 的映射，其他绑定错误只返回通用提示
func HandleParamError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		reply(c, errorx.CodeInvalidParam, translate(validationErrs), nil)
		return
	}

	zap.L().Warn("bind request params failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	reply(c, errorx.CodeInvalidParam, errorx.ErrInvalidParam.Msg, nil)
}
