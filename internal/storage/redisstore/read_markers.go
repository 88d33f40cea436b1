package redisstore

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ReadMarkers keeps one set of read notification ids per tenant and user.
type ReadMarkers struct {
	client redis.UniversalClient
}

func NewReadMarkers(client redis.UniversalClient) *ReadMarkers {
	return &ReadMarkers{client: client}
}

func readKey(tenantID, userID string) string {
	return fmt.Sprintf("notifications:read:%s:%s", tenantID, userID)
}

func (s *ReadMarkers) AddRead(ctx context.Context, tenantID, userID, notificationID string) error {
	if err := s.client.SAdd(ctx, readKey(tenantID, userID), notificationID).Err(); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

func (s *ReadMarkers) RemoveRead(ctx context.Context, tenantID, userID, notificationID string) error {
	if err := s.client.SRem(ctx, readKey(tenantID, userID), notificationID).Err(); err != nil {
		return fmt.Errorf("mark notification unread: %w", err)
	}
	return nil
}

func (s *ReadMarkers) ListRead(ctx context.Context, tenantID, userID string) ([]string, error) {
	ids, err := s.client.SMembers(ctx, readKey(tenantID, userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list read notifications: %w", err)
	}
	return ids, nil
}

func (s *ReadMarkers) IsRead(ctx context.Context, tenantID, userID, notificationID string) (bool, error) {
	ok, err := s.client.SIsMember(ctx, readKey(tenantID, userID), notificationID).Result()
	if err != nil {
		return false, fmt.Errorf("check notification read: %w", err)
	}
	return ok, nil
}
