package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"staticshop-backend/internal/features/profile/repository"
)

// statusMirror keeps a per-user hash under user:status:<id> for realtime
// storefront consumers. Field names match the profile JSON.
type statusMirror struct {
	client *redis.Client
}

func NewStatusMirror(client *redis.Client) repository.StatusMirror {
	return &statusMirror{client: client}
}

func statusKey(id string) string {
	return fmt.Sprintf("user:status:%s", id)
}

func (m *statusMirror) SetRole(ctx context.Context, id, role string, value bool) error {
	return m.client.HSet(ctx, statusKey(id), role, strconv.FormatBool(value)).Err()
}

func (m *statusMirror) SetDisabled(ctx context.Context, id string, disabled bool) error {
	return m.client.HSet(ctx, statusKey(id), "disabled", strconv.FormatBool(disabled)).Err()
}
