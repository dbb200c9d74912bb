package jmap

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdubbbbbs/fastmail-tui/internal/model"
)

// Mailboxes fetches all mailboxes for the account, sorted for display.
// The result is also cached for role and id lookups.
func (c *Client) Mailboxes(ctx context.Context) ([]model.Mailbox, error) {
	args := map[string]any{
		"accountId": c.AccountID(),
		"ids":       nil,
	}
	responses, err := c.call(ctx, []string{capCore, capMail},
		invocation{Name: "Mailbox/get", Args: args, CallID: "0"})
	if err != nil {
		return nil, fmt.Errorf("fetching mailboxes: %w", err)
	}

	raw, err := findResponse(responses, "Mailbox/get", "0")
	if err != nil {
		return nil, err
	}
	var result mailboxGetResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decoding mailboxes: %w", err)
	}

	mailboxes := make([]model.Mailbox, 0, len(result.List))
	for _, wm := range result.List {
		mailboxes = append(mailboxes, mailboxFromWire(wm))
	}
	mailboxes = model.SortMailboxes(mailboxes)

	c.mu.Lock()
	c.mailboxes = make(map[string]model.Mailbox, len(mailboxes))
	for _, mb := range mailboxes {
		c.mailboxes[mb.ID] = mb
	}
	c.mu.Unlock()

	return mailboxes, nil
}

// MailboxByID returns a cached mailbox by id.
func (c *Client) MailboxByID(id string) (model.Mailbox, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	mb, ok := c.mailboxes[id]
	return mb, ok
}

// MailboxByRole returns a cached mailbox by role, matched case-insensitively.
func (c *Client) MailboxByRole(role string) (model.Mailbox, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, mb := range c.mailboxes {
		if strings.EqualFold(mb.Role, role) {
			return mb, true
		}
	}
	return model.Mailbox{}, false
}

func mailboxFromWire(wm wireMailbox) model.Mailbox {
	return model.Mailbox{
		ID:            wm.ID,
		Name:          wm.Name,
		Role:          wm.Role,
		ParentID:      wm.ParentID,
		SortOrder:     wm.SortOrder,
		TotalEmails:   wm.TotalEmails,
		UnreadEmails:  wm.UnreadEmails,
		TotalThreads:  wm.TotalThreads,
		UnreadThreads: wm.UnreadThreads,
		IsSubscribed:  wm.IsSubscribed,
	}
}
