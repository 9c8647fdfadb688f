package jellyfin

import (
	"context"
	"fmt"
	"time"

	"github.com/depeter/couchbreak/internal/constants"
)

// Item is the part of a Jellyfin item the player shows or reports.
type Item struct {
	ID           string
	Name         string
	Type         string
	RuntimeTicks int64
}

// Runtime converts the server's 100ns ticks.
func (i Item) Runtime() time.Duration {
	return Duration(i.RuntimeTicks)
}

// GetItem returns a single item by ID.
func (c *Client) GetItem(ctx context.Context, itemID string) (*Item, error) {
	ctx, cancel := reqCtx(ctx)
	defer cancel()

	result, resp, err := c.api.UserLibraryAPI.GetItem(ctx, itemID).
		UserId(c.userID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("get item %s: %w (status: %s)", itemID, err, respStatus(resp))
	}
	item := &Item{
		ID:           itemID,
		Name:         result.GetName(),
		RuntimeTicks: result.GetRunTimeTicks(),
	}
	if result.Id != nil {
		item.ID = *result.Id
	}
	if result.Type != nil {
		item.Type = string(*result.Type)
	}
	return item, nil
}

// Ticks converts d to Jellyfin ticks.
func Ticks(d time.Duration) int64 {
	return int64(d) / (int64(time.Second) / constants.TicksPerSecond)
}

// Duration converts Jellyfin ticks to a duration.
func Duration(ticks int64) time.Duration {
	return time.Duration(ticks) * (time.Second / constants.TicksPerSecond)
}
