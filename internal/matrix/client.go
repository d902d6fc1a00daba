package matrix

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Client talks to the Synapse admin API to provision accounts and issue room
// invites. It is the only place this service touches the chat backend.
type Client struct {
	serverURL  string
	adminToken string
	httpClient *http.Client
	log        *zap.Logger
}

func NewClient(serverURL, adminToken string, log *zap.Logger) *Client {
	return &Client{
		serverURL:  strings.TrimRight(serverURL, "/"),
		adminToken: adminToken,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		log: log,
	}
}

// ProvisioningError means the backend responded but refused the account,
// as opposed to being unreachable.
type ProvisioningError struct {
	StatusCode int
	Body       string
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("synapse refused account creation: %d: %s", e.StatusCode, e.Body)
}

// CreateAccount creates (or upserts) a Matrix user via the Synapse admin API.
func (c *Client) CreateAccount(ctx context.Context, userID, password, displayName string) error {
	payload, err := json.Marshal(map[string]any{
		"password":    password,
		"displayname": displayName,
		"admin":       false,
		"deactivated": false,
	})
	if err != nil {
		return err
	}

	reqURL := fmt.Sprintf("%s/_synapse/admin/v2/users/%s", c.serverURL, url.PathEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, reqURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("synapse unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return &ProvisioningError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	c.log.Info("matrix account created", zap.String("user_id", userID))
	return nil
}

// InviteToRoom invites the user to a room. Best-effort from the caller's
// perspective; the returned error is for logging only.
func (c *Client) InviteToRoom(ctx context.Context, userID, roomID string) error {
	payload, err := json.Marshal(map[string]string{"user_id": userID})
	if err != nil {
		return err
	}

	reqURL := fmt.Sprintf("%s/_matrix/client/r0/rooms/%s/invite", c.serverURL, url.PathEscape(roomID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("synapse unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("room invite failed: %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.adminToken)
	req.Header.Set("Content-Type", "application/json")
}
