package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/wso2/data-request-api/internal/datarequest/model"
	"github.com/wso2/data-request-api/internal/system/error/serviceerror"
	"github.com/wso2/data-request-api/internal/system/utils"
)

var validActions = map[model.Action]bool{
	model.ActionReply:         true,
	model.ActionReject:        true,
	model.ActionShare:         true,
	model.ActionReplyAndShare: true,
	model.ActionNotShared:     true,
}

func init() {
	utils.RegisterValidation("request_state", func(fl validator.FieldLevel) bool {
		return model.State(fl.Field().String()).IsValid()
	})
}

// ValidateCreateRequest validates request creation input
func ValidateCreateRequest(req model.CreateRequest) *serviceerror.ServiceError {
	return utils.ValidateStruct(req)
}

// ValidatePatchRequest validates the fields present in a patch
func ValidatePatchRequest(req model.PatchRequest) *serviceerror.ServiceError {
	return utils.ValidateStruct(req)
}

// ParseScope validates a listing scope
func ParseScope(raw string) (model.Scope, *serviceerror.ServiceError) {
	scope := model.Scope(strings.TrimSpace(raw))
	switch scope {
	case model.ScopeCurrentUser, model.ScopeOrganization, model.ScopeAll:
		return scope, nil
	case "":
		return model.ScopeCurrentUser, nil
	}
	return "", serviceerror.FieldValidationError(map[string]string{
		"scope": fmt.Sprintf("must be one of [%s %s %s]", model.ScopeCurrentUser, model.ScopeOrganization, model.ScopeAll),
	})
}

// ParseAction validates a maintainer action name
func ParseAction(raw string) (model.Action, *serviceerror.ServiceError) {
	action := model.Action(strings.TrimSpace(raw))
	if !validActions[action] {
		return "", serviceerror.CustomServiceError(serviceerror.InvalidRequestError,
			fmt.Sprintf("unknown action '%s'", raw))
	}
	return action, nil
}
