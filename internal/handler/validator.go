package handler

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
)

// 请求参数来自路径、查询串或 JSON，校验错误按这个顺序取参数名
var paramTags = []string{"uri", "form", "json"}

var trans ut.Translator

// InitTrans 给 gin 的校验器注册参数名规则和 locale 对应的错误文案，未知 locale 按 en 处理
func InitTrans(locale string) error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	v.RegisterTagNameFunc(paramName)

	enT := en.New()
	uni := ut.New(enT, enT, zh.New())
	t, found := uni.GetTranslator(locale)
	if !found {
		locale = "en"
	}

	var err error
	if locale == "zh" {
		err = zh_translations.RegisterDefaultTranslations(v, t)
	} else {
		err = en_translations.RegisterDefaultTranslations(v, t)
	}
	if err != nil {
		return fmt.Errorf("register %s translations: %w", locale, err)
	}
	trans = t
	return nil
}

// paramName 字段在请求里的名字，没有任何标签时退回 Go 字段名
func paramName(fld reflect.StructField) string {
	for _, tag := range paramTags {
		name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
		switch name {
		case "":
			continue
		case "-":
			return ""
		default:
			return name
		}
	}
	return fld.Name
}

// translate 翻译校验错误，key 去掉顶层结构体名，如 SendRelationshipRequest.toUserId -> toUserId
func translate(errs validator.ValidationErrors) map[string]string {
	if trans == nil {
		out := make(map[string]string, len(errs))
		for _, fe := range errs {
			out[fe.Field()] = fe.Error()
		}
		return out
	}
	out := make(map[string]string, len(errs))
	for ns, msg := range errs.Translate(trans) {
		_, field, found := strings.Cut(ns, ".")
		if !found {
			field = ns
		}
		out[field] = msg
	}
	return out
}
