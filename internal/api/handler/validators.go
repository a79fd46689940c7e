package handler

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/qs3c/storefront_server/internal/model"
	"github.com/qs3c/storefront_server/internal/pkg/response"
)

var registerOnce sync.Once

const (
	tagModerationStatus = "moderation_status"
	tagVoteValue        = "vote_value"
)

// RegisterValidators 注册自定义 binding 校验规则，失败时启动即 panic
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			panic("binding validator is not go-playground/validator")
		}
		if err := registerRules(v); err != nil {
			panic(err)
		}
	})
}

func registerRules(v *validator.Validate) error {
	if err := v.RegisterValidation(tagModerationStatus, validModerationStatus); err != nil {
		return fmt.Errorf("register %s: %w", tagModerationStatus, err)
	}
	if err := v.RegisterValidation(tagVoteValue, validVoteValue); err != nil {
		return fmt.Errorf("register %s: %w", tagVoteValue, err)
	}
	return nil
}

// failedTag 绑定错误中是否有字段未通过指定规则
func failedTag(err error, tag string) bool {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return false
	}
	for _, fe := range verrs {
		if fe.Tag() == tag {
			return true
		}
	}
	return false
}

func validModerationStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case model.CommentStatusApproved, model.CommentStatusRejected:
		return true
	}
	return false
}

func validVoteValue(fl validator.FieldLevel) bool {
	v := fl.Field().Int()
	return v == 1 || v == -1
}

// pageParams 读取分页参数，非法值交给 service 归一化
func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "0"))
	return page, pageSize
}

func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.ParamError(c, "无效的ID")
		return 0, false
	}
	return id, true
}
