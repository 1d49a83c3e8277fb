package counters

import (
	"github.com/go-playground/validator/v10"

	"github.com/wso2/data-request-api/internal/counters/model"
	"github.com/wso2/data-request-api/internal/system/utils"
)

func init() {
	utils.RegisterValidation("counter_flag", func(fl validator.FieldLevel) bool {
		return model.Flag(fl.Field().String()).IsValid()
	})
}
