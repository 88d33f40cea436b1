package app

import (
	"context"
	"sort"
	"strings"

	"github.com/rodrigocamellini/conectaxe-sub001/internal/domain"
)

// ReadMarkerStore keeps the notification ids a user has read, scoped by tenant.
type ReadMarkerStore interface {
	AddRead(ctx context.Context, tenantID, userID, notificationID string) error
	RemoveRead(ctx context.Context, tenantID, userID, notificationID string) error
	ListRead(ctx context.Context, tenantID, userID string) ([]string, error)
	IsRead(ctx context.Context, tenantID, userID, notificationID string) (bool, error)
}

type NotificationService struct {
	store ReadMarkerStore
}

func NewNotificationService(store ReadMarkerStore) *NotificationService {
	return &NotificationService{store: store}
}

type ReadMarker struct {
	TenantID       string
	UserID         string
	NotificationID string
}

func (m ReadMarker) validate() error {
	if strings.TrimSpace(m.TenantID) == "" {
		return domain.ErrTenantRequired
	}
	if strings.TrimSpace(m.UserID) == "" {
		return domain.ErrUserRequired
	}
	if strings.TrimSpace(m.NotificationID) == "" {
		return domain.ErrInvalidID
	}
	return nil
}

func (s *NotificationService) MarkRead(ctx context.Context, m ReadMarker) error {
	if err := m.validate(); err != nil {
		return err
	}
	return s.store.AddRead(ctx, m.TenantID, m.UserID, m.NotificationID)
}

func (s *NotificationService) MarkUnread(ctx context.Context, m ReadMarker) error {
	if err := m.validate(); err != nil {
		return err
	}
	return s.store.RemoveRead(ctx, m.TenantID, m.UserID, m.NotificationID)
}

func (s *NotificationService) IsRead(ctx context.Context, m ReadMarker) (bool, error) {
	if err := m.validate(); err != nil {
		return false, err
	}
	return s.store.IsRead(ctx, m.TenantID, m.UserID, m.NotificationID)
}

// ListRead returns the read notification ids in lexical order.
func (s *NotificationService) ListRead(ctx context.Context, tenantID, userID string) ([]string, error) {
	if tenantID == "" {
		return nil, domain.ErrTenantRequired
	}
	if userID == "" {
		return nil, domain.ErrUserRequired
	}
	ids, err := s.store.ListRead(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)
	return ids, nil
}
