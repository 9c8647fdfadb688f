package jellyfin

import (
	"context"
	"fmt"
	"net/url"
)

// GetStreamURL returns a direct-play streaming URL for an item.
func (c *Client) GetStreamURL(itemID string) string {
	params := url.Values{}
	params.Set("Static", "true")
	params.Set("api_key", c.token)
	return fmt.Sprintf("%s/Videos/%s/stream?%s",
		c.serverURL, url.PathEscape(itemID), params.Encode())
}

// ResolveStream checks that the item exists and returns its stream URL.
func (c *Client) ResolveStream(ctx context.Context, itemID string) (*Item, string, error) {
	item, err := c.GetItem(ctx, itemID)
	if err != nil {
		return nil, "", err
	}
	return item, c.GetStreamURL(item.ID), nil
}
