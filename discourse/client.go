package discourse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/Ethsim12/Discourse-Auto-Deactivate-Users-by-REST-API/httpclient"
	"github.com/Ethsim12/Discourse-Auto-Deactivate-Users-by-REST-API/logger"
)

// Client calls the Discourse admin user endpoints. It holds no retry logic
// of its own; executor errors propagate to the caller unchanged.
type Client struct {
	baseURL string
	http    httpclient.Client
	logger  logger.Logger
}

// StaticHeaders returns the credential headers every admin API call carries.
// apiUsername falls back to "system" when empty.
func StaticHeaders(apiKey, apiUsername string) map[string]string {
	if apiUsername == "" {
		apiUsername = "system"
	}
	return map[string]string{
		"Api-Key":      apiKey,
		"Api-Username": apiUsername,
		"Accept":       "application/json",
	}
}

// New creates a Client for the given base URL. The executor must already
// carry the static credential headers (see StaticHeaders).
func New(baseURL string, exec httpclient.Client, log logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    exec,
		logger:  log,
	}
}

// ListUsers fetches one page of the filtered admin user directory. An empty
// slice signals the end of pagination to the caller.
func (c *Client) ListUsers(ctx context.Context, filter string, page int) ([]User, error) {
	endpoint := fmt.Sprintf("%s/admin/users/list/%s.json?page=%d", c.baseURL, url.PathEscape(filter), page)

	resp, err := c.http.Get(ctx, &httpclient.Request{URL: endpoint})
	if err != nil {
		return nil, err
	}

	var users []User
	if err := json.Unmarshal(resp.Body, &users); err != nil {
		return nil, fmt.Errorf("decode user list page %d: %w", page, err)
	}
	return users, nil
}

// DeactivateUser deactivates one user, forcing re-verification on next
// login. Any 2xx from the executor is success.
func (c *Client) DeactivateUser(ctx context.Context, userID int64) error {
	endpoint := fmt.Sprintf("%s/admin/users/%d/deactivate.json", c.baseURL, userID)

	resp, err := c.http.Put(ctx, &httpclient.Request{URL: endpoint})
	if err != nil {
		return err
	}

	// Discourse replies {"success":"OK"}; the 2xx alone decides success,
	// the payload is only echoed for diagnostics.
	if outcome := gjson.GetBytes(resp.Body, "success"); outcome.Exists() {
		c.logger.Debug().
			Int64("user_id", userID).
			Str("outcome", outcome.String()).
			Msg("deactivate response")
	}
	return nil
}
