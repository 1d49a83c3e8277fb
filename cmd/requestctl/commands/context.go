package commands

import (
	"context"

	"github.com/wso2/data-request-api/internal/counters"
	"github.com/wso2/data-request-api/internal/notification"
)

// AppContext holds the dependencies shared across all commands. It is filled
// in by the root command's pre-run, after flags are parsed.
type AppContext struct {
	Counters      counters.CountersService
	Notifications notification.NotificationService
	Ctx           context.Context
	Close         func() error
}

func (a *AppContext) ctx() context.Context {
	if a.Ctx == nil {
		return context.Background()
	}
	return a.Ctx
}
