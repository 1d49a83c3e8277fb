package model

// UserNotification records whether a maintainer has seen new request activity.
type UserNotification struct {
	PackageMaintainerID string `json:"packageMaintainerId"`
	Seen                bool   `json:"seen"`
}

// NotifyRequest is the body of POST /notifications.
type NotifyRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}

// SeenStatus is returned by GET /notifications/me.
type SeenStatus struct {
	UserID string `json:"userId"`
	Seen   bool   `json:"seen"`
}
