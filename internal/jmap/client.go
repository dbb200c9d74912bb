// Package jmap talks to the Fastmail JMAP API: session bootstrap,
// mailbox and email operations, and the masked email extension.
package jmap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/pdubbbbbs/fastmail-tui/internal/model"
)

const defaultHost = "api.fastmail.com"

// Client is a JMAP client bound to a single account. It is safe for
// concurrent use once Connect has succeeded.
type Client struct {
	token      string
	sessionURL string
	httpClient *http.Client

	mu        sync.RWMutex
	session   *session
	mailboxes map[string]model.Mailbox
}

// NewClient creates a client for the given API host and bearer token.
// An empty host falls back to api.fastmail.com.
func NewClient(host, token string) *Client {
	if host == "" {
		host = defaultHost
	}
	return &Client{
		token:      token,
		sessionURL: fmt.Sprintf("https://%s/jmap/session", host),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		mailboxes: make(map[string]model.Mailbox),
	}
}

// Connect fetches the session resource and verifies the token grants
// access to a mail account.
func (c *Client) Connect(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.sessionURL, nil)
	if err != nil {
		return fmt.Errorf("creating session request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetching session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return &AuthError{Message: "API token rejected"}
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("session request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var sess session
	if err := json.NewDecoder(resp.Body).Decode(&sess); err != nil {
		return fmt.Errorf("decoding session: %w", err)
	}
	if sess.PrimaryAccounts[capMail] == "" {
		return fmt.Errorf("account has no mail capability")
	}

	c.mu.Lock()
	c.session = &sess
	c.mu.Unlock()
	return nil
}

// Connected reports whether a session has been established.
func (c *Client) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session != nil
}

// Username returns the account's login name, usually the primary address.
func (c *Client) Username() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return ""
	}
	return c.session.Username
}

// AccountID returns the primary mail account id.
func (c *Client) AccountID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return ""
	}
	return c.session.PrimaryAccounts[capMail]
}

// maskedAccountID returns the account to address masked email calls to,
// falling back to the mail account when the capability is not listed.
func (c *Client) maskedAccountID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return ""
	}
	if id := c.session.PrimaryAccounts[capMaskedEmail]; id != "" {
		return id
	}
	return c.session.PrimaryAccounts[capMail]
}

// call sends a batch of method calls and returns the decoded responses.
// Method-level error invocations are surfaced as *MethodError.
func (c *Client) call(ctx context.Context, using []string, calls ...invocation) ([]rawInvocation, error) {
	c.mu.RLock()
	sess := c.session
	c.mu.RUnlock()
	if sess == nil {
		return nil, fmt.Errorf("not connected")
	}

	payload, err := json.Marshal(request{Using: using, MethodCalls: calls})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sess.APIURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, &AuthError{Message: "API token rejected"}
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var decoded response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	for _, inv := range decoded.MethodResponses {
		if inv.Name == "error" {
			methodErr := &MethodError{Method: inv.CallID}
			if err := json.Unmarshal(inv.Args, methodErr); err != nil {
				return nil, fmt.Errorf("decoding method error: %w", err)
			}
			return nil, methodErr
		}
	}
	return decoded.MethodResponses, nil
}

// findResponse returns the arguments of the response matching the given
// method name and call id.
func findResponse(responses []rawInvocation, name, callID string) (json.RawMessage, error) {
	for _, inv := range responses {
		if inv.Name == name && inv.CallID == callID {
			return inv.Args, nil
		}
	}
	return nil, fmt.Errorf("no %s response in reply", name)
}
