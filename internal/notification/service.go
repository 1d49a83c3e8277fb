package notification

import (
	"context"
	"fmt"
	"strings"

	dbmodel "github.com/wso2/data-request-api/internal/system/database/model"
	"github.com/wso2/data-request-api/internal/system/error/serviceerror"
	"github.com/wso2/data-request-api/internal/system/log"
	"github.com/wso2/data-request-api/internal/system/stores"
	"github.com/wso2/data-request-api/internal/system/utils"
)

// NotificationService defines the interface for the per-user "seen" flag
type NotificationService interface {
	Notify(ctx context.Context, ids []string) *serviceerror.ServiceError
	IsSeen(ctx context.Context, userID string) (bool, *serviceerror.ServiceError)
	Acknowledge(ctx context.Context, userID string) *serviceerror.ServiceError
}

type notificationService struct {
	stores *stores.StoreRegistry
	logger *log.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(registry *stores.StoreRegistry) NotificationService {
	return &notificationService{
		stores: registry,
		logger: log.GetLogger().With(log.String(log.LoggerKeyComponentName, "NotificationService")),
	}
}

// Notify marks every id as having unseen request activity. Blank and repeated
// ids are ignored.
func (s *notificationService) Notify(ctx context.Context, ids []string) *serviceerror.ServiceError {
	targets := UniqueIDs(ids)
	if len(targets) == 0 {
		return nil
	}

	if err := s.stores.ExecuteTransaction(ctx, UpsertQueries(s.stores, targets)); err != nil {
		return serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to notify maintainers: %v", err))
	}

	s.logger.WithContext(ctx).Debug("Maintainers notified", log.Int("count", len(targets)))
	return nil
}

// IsSeen reports true when the user has no pending activity, including users
// that were never notified.
func (s *notificationService) IsSeen(ctx context.Context, userID string) (bool, *serviceerror.ServiceError) {
	if err := utils.ValidateRequired("userId", userID); err != nil {
		return false, err
	}

	notification, err := s.stores.Notification.GetByMaintainerID(ctx, userID)
	if err != nil {
		return false, serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to retrieve notification: %v", err))
	}
	if notification == nil {
		return true, nil
	}
	return notification.Seen, nil
}

// Acknowledge marks the user's activity as seen. Acknowledging twice, or
// acknowledging a user that was never notified, is not an error.
func (s *notificationService) Acknowledge(ctx context.Context, userID string) *serviceerror.ServiceError {
	if err := utils.ValidateRequired("userId", userID); err != nil {
		return err
	}

	err := s.stores.ExecuteTransaction(ctx, []func(tx dbmodel.TxInterface) error{
		func(tx dbmodel.TxInterface) error {
			return s.stores.Notification.MarkSeen(tx, userID)
		},
	})
	if err != nil {
		return serviceerror.CustomServiceError(serviceerror.DatabaseError, fmt.Sprintf("failed to acknowledge notification: %v", err))
	}
	return nil
}

// UniqueIDs trims ids and drops blanks and repeats, keeping first-seen order.
func UniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}

// UpsertQueries returns one transactional upsert per id, for callers that
// notify as part of a larger transaction.
func UpsertQueries(registry *stores.StoreRegistry, ids []string) []func(tx dbmodel.TxInterface) error {
	queries := make([]func(tx dbmodel.TxInterface) error, 0, len(ids))
	for _, id := range ids {
		id := id
		queries = append(queries, func(tx dbmodel.TxInterface) error {
			return registry.Notification.Upsert(tx, id)
		})
	}
	return queries
}
