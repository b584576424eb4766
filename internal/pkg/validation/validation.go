// Package validation registers the custom binding tags used by request structs.
package validation

import (
	"errors"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/szigetelo/backoffice/internal/modules/model"
)

var (
	once    sync.Once
	initErr error
)

// Register installs the tags on gin's default validator. Safe to call more than once.
func Register() error {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			initErr = errors.New("gin validator engine is not go-playground/validator")
			return
		}
		initErr = v.RegisterValidation("project_status", projectStatus)
	})
	return initErr
}

func projectStatus(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(model.ProjectStatus)
	if !ok {
		str, isStr := fl.Field().Interface().(string)
		if !isStr {
			return false
		}
		s = model.ProjectStatus(str)
	}
	return s.Valid()
}
