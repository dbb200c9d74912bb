package jmap

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/pdubbbbbs/fastmail-tui/internal/model"
)

// emailListProperties is the property set fetched for list views. Body
// parts are only requested when a single message is opened.
var emailListProperties = []string{
	"id", "threadId", "mailboxIds",
	"from", "to", "cc", "bcc", "replyTo",
	"subject", "receivedAt", "sentAt", "preview",
	"hasAttachment", "keywords", "size",
}

// EmailFilter narrows an Email/query. Zero fields are omitted from the
// wire filter.
type EmailFilter struct {
	InMailbox string `json:"inMailbox,omitempty"`
	Text      string `json:"text,omitempty"`
}

// Emails fetches emails matching the filter, newest first.
func (c *Client) Emails(ctx context.Context, filter EmailFilter, position, limit int) ([]model.Email, error) {
	queryArgs := map[string]any{
		"accountId": c.AccountID(),
		"sort": []map[string]any{
			{"property": "receivedAt", "isAscending": false},
		},
		"position": position,
		"limit":    limit,
	}
	if filter != (EmailFilter{}) {
		queryArgs["filter"] = filter
	}

	getArgs := map[string]any{
		"accountId": c.AccountID(),
		"#ids": map[string]string{
			"resultOf": "0",
			"name":     "Email/query",
			"path":     "/ids",
		},
		"properties": emailListProperties,
	}

	responses, err := c.call(ctx, []string{capCore, capMail},
		invocation{Name: "Email/query", Args: queryArgs, CallID: "0"},
		invocation{Name: "Email/get", Args: getArgs, CallID: "1"})
	if err != nil {
		return nil, fmt.Errorf("fetching emails: %w", err)
	}

	raw, err := findResponse(responses, "Email/get", "1")
	if err != nil {
		return nil, err
	}
	var result emailGetResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decoding emails: %w", err)
	}

	emails := make([]model.Email, 0, len(result.List))
	for _, we := range result.List {
		emails = append(emails, emailFromWire(we))
	}
	return emails, nil
}

// EmailByID fetches a single email with its body content.
func (c *Client) EmailByID(ctx context.Context, id string) (model.Email, error) {
	properties := append(append([]string{}, emailListProperties...),
		"bodyValues", "textBody", "htmlBody", "attachments")
	args := map[string]any{
		"accountId":           c.AccountID(),
		"ids":                 []string{id},
		"properties":          properties,
		"fetchTextBodyValues": true,
		"fetchHTMLBodyValues": true,
	}

	responses, err := c.call(ctx, []string{capCore, capMail},
		invocation{Name: "Email/get", Args: args, CallID: "0"})
	if err != nil {
		return model.Email{}, fmt.Errorf("fetching email %s: %w", id, err)
	}

	raw, err := findResponse(responses, "Email/get", "0")
	if err != nil {
		return model.Email{}, err
	}
	var result emailGetResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return model.Email{}, fmt.Errorf("decoding email: %w", err)
	}
	if len(result.List) == 0 {
		return model.Email{}, fmt.Errorf("email %s not found", id)
	}
	return emailFromWire(result.List[0]), nil
}

// SearchEmails runs a server-side full-text query, optionally scoped to
// one mailbox.
func (c *Client) SearchEmails(ctx context.Context, query string, mailboxID string, limit int) ([]model.Email, error) {
	return c.Emails(ctx, EmailFilter{Text: query, InMailbox: mailboxID}, 0, limit)
}

// Thread fetches all emails in a thread, oldest first.
func (c *Client) Thread(ctx context.Context, threadID string) ([]model.Email, error) {
	threadArgs := map[string]any{
		"accountId": c.AccountID(),
		"ids":       []string{threadID},
	}
	getArgs := map[string]any{
		"accountId": c.AccountID(),
		"#ids": map[string]string{
			"resultOf": "0",
			"name":     "Thread/get",
			"path":     "/list/*/emailIds",
		},
		"properties": emailListProperties,
	}

	responses, err := c.call(ctx, []string{capCore, capMail},
		invocation{Name: "Thread/get", Args: threadArgs, CallID: "0"},
		invocation{Name: "Email/get", Args: getArgs, CallID: "1"})
	if err != nil {
		return nil, fmt.Errorf("fetching thread %s: %w", threadID, err)
	}

	raw, err := findResponse(responses, "Email/get", "1")
	if err != nil {
		return nil, err
	}
	var result emailGetResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decoding thread emails: %w", err)
	}

	emails := make([]model.Email, 0, len(result.List))
	for _, we := range result.List {
		emails = append(emails, emailFromWire(we))
	}
	sort.SliceStable(emails, func(i, j int) bool {
		return emails[i].ReceivedAt.Before(emails[j].ReceivedAt)
	})
	return emails, nil
}

// MarkRead sets the $seen keyword on the given emails.
func (c *Client) MarkRead(ctx context.Context, emailIDs []string) error {
	return c.updateKeyword(ctx, emailIDs, "$seen", true)
}

// MarkUnread clears the $seen keyword on the given emails.
func (c *Client) MarkUnread(ctx context.Context, emailIDs []string) error {
	return c.updateKeyword(ctx, emailIDs, "$seen", false)
}

// Star sets the $flagged keyword on the given emails.
func (c *Client) Star(ctx context.Context, emailIDs []string) error {
	return c.updateKeyword(ctx, emailIDs, "$flagged", true)
}

// Unstar clears the $flagged keyword on the given emails.
func (c *Client) Unstar(ctx context.Context, emailIDs []string) error {
	return c.updateKeyword(ctx, emailIDs, "$flagged", false)
}

// updateKeyword patches one keyword on a batch of emails. Clearing a
// keyword sends a JSON null, which removes it server-side.
func (c *Client) updateKeyword(ctx context.Context, emailIDs []string, keyword string, set bool) error {
	if len(emailIDs) == 0 {
		return nil
	}
	var value any
	if set {
		value = true
	}
	update := make(map[string]any, len(emailIDs))
	for _, id := range emailIDs {
		update[id] = map[string]any{"keywords/" + keyword: value}
	}
	return c.emailSet(ctx, map[string]any{
		"accountId": c.AccountID(),
		"update":    update,
	})
}

// MoveToMailbox moves emails so they live only in the target mailbox.
func (c *Client) MoveToMailbox(ctx context.Context, emailIDs []string, mailboxID string) error {
	if len(emailIDs) == 0 {
		return nil
	}
	update := make(map[string]any, len(emailIDs))
	for _, id := range emailIDs {
		update[id] = map[string]any{"mailboxIds": map[string]bool{mailboxID: true}}
	}
	return c.emailSet(ctx, map[string]any{
		"accountId": c.AccountID(),
		"update":    update,
	})
}

// MoveToTrash moves emails to the trash mailbox.
func (c *Client) MoveToTrash(ctx context.Context, emailIDs []string) error {
	return c.moveToRole(ctx, emailIDs, "trash")
}

// Archive moves emails to the archive mailbox.
func (c *Client) Archive(ctx context.Context, emailIDs []string) error {
	return c.moveToRole(ctx, emailIDs, "archive")
}

// MoveToSpam moves emails to the spam mailbox. Some servers report the
// role as junk.
func (c *Client) MoveToSpam(ctx context.Context, emailIDs []string) error {
	if _, ok := c.MailboxByRole("spam"); ok {
		return c.moveToRole(ctx, emailIDs, "spam")
	}
	return c.moveToRole(ctx, emailIDs, "junk")
}

func (c *Client) moveToRole(ctx context.Context, emailIDs []string, role string) error {
	mb, ok := c.MailboxByRole(role)
	if !ok {
		return fmt.Errorf("no mailbox with role %q", role)
	}
	return c.MoveToMailbox(ctx, emailIDs, mb.ID)
}

// DeletePermanently destroys emails on the server.
func (c *Client) DeletePermanently(ctx context.Context, emailIDs []string) error {
	if len(emailIDs) == 0 {
		return nil
	}
	return c.emailSet(ctx, map[string]any{
		"accountId": c.AccountID(),
		"destroy":   emailIDs,
	})
}

// Draft is the content of a message to be saved into the drafts mailbox.
type Draft struct {
	To      []model.EmailAddress
	Subject string
	Body    string
}

// SaveDraft creates a draft in the drafts mailbox and returns its id.
func (c *Client) SaveDraft(ctx context.Context, draft Draft) (string, error) {
	drafts, ok := c.MailboxByRole("drafts")
	if !ok {
		return "", fmt.Errorf("no mailbox with role %q", "drafts")
	}

	to := make([]wireAddress, 0, len(draft.To))
	for _, addr := range draft.To {
		to = append(to, wireAddress{Name: addr.Name, Email: addr.Email})
	}

	creationID := "draft-" + uuid.NewString()
	create := map[string]any{
		creationID: map[string]any{
			"mailboxIds": map[string]bool{drafts.ID: true},
			"keywords":   map[string]bool{"$draft": true, "$seen": true},
			"from":       []wireAddress{{Name: "", Email: c.Username()}},
			"to":         to,
			"subject":    draft.Subject,
			"bodyValues": map[string]any{
				"body": map[string]any{"value": draft.Body},
			},
			"textBody": []map[string]any{
				{"partId": "body", "type": "text/plain"},
			},
		},
	}

	responses, err := c.call(ctx, []string{capCore, capMail},
		invocation{Name: "Email/set", Args: map[string]any{
			"accountId": c.AccountID(),
			"create":    create,
		}, CallID: "0"})
	if err != nil {
		return "", fmt.Errorf("saving draft: %w", err)
	}

	raw, err := findResponse(responses, "Email/set", "0")
	if err != nil {
		return "", err
	}
	var result emailSetResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("decoding draft response: %w", err)
	}
	if setErr, ok := result.NotCreated[creationID]; ok {
		setErr.Method = "Email/set"
		return "", setErr
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(result.Created[creationID], &created); err != nil {
		return "", fmt.Errorf("decoding created draft: %w", err)
	}
	return created.ID, nil
}

func (c *Client) emailSet(ctx context.Context, args map[string]any) error {
	responses, err := c.call(ctx, []string{capCore, capMail},
		invocation{Name: "Email/set", Args: args, CallID: "0"})
	if err != nil {
		return fmt.Errorf("updating emails: %w", err)
	}
	raw, err := findResponse(responses, "Email/set", "0")
	if err != nil {
		return err
	}
	var result emailSetResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return fmt.Errorf("decoding update response: %w", err)
	}
	for _, setErr := range result.NotUpdated {
		setErr.Method = "Email/set"
		return setErr
	}
	return nil
}

func emailFromWire(we wireEmail) model.Email {
	email := model.Email{
		ID:            we.ID,
		ThreadID:      we.ThreadID,
		MailboxIDs:    we.MailboxIDs,
		Subject:       we.Subject,
		Preview:       we.Preview,
		From:          addressesFromWire(we.From),
		To:            addressesFromWire(we.To),
		CC:            addressesFromWire(we.CC),
		BCC:           addressesFromWire(we.BCC),
		ReplyTo:       addressesFromWire(we.ReplyTo),
		Keywords:      we.Keywords,
		Size:          we.Size,
		HasAttachment: we.HasAttachment,
	}
	if email.MailboxIDs == nil {
		email.MailboxIDs = map[string]bool{}
	}
	if email.Keywords == nil {
		email.Keywords = map[string]bool{}
	}
	if t, err := time.Parse(time.RFC3339, we.ReceivedAt); err == nil {
		email.ReceivedAt = t
	}
	if t, err := time.Parse(time.RFC3339, we.SentAt); err == nil {
		email.SentAt = t
	}
	for _, part := range we.Attachments {
		email.Attachments = append(email.Attachments, model.Attachment{
			ID:       part.BlobID,
			Name:     part.Name,
			Type:     part.Type,
			Size:     part.Size,
			IsInline: part.Disposition == "inline",
		})
	}
	email.BodyText = firstBodyValue(we.TextBody, we.BodyValues)
	email.BodyHTML = firstBodyValue(we.HTMLBody, we.BodyValues)
	return email
}

// firstBodyValue returns the content of the first body part that has a
// fetched value.
func firstBodyValue(parts []wireBodyPart, values map[string]wireBodyValue) string {
	for _, part := range parts {
		if bv, ok := values[part.PartID]; ok {
			return bv.Value
		}
	}
	return ""
}

func addressesFromWire(in []wireAddress) []model.EmailAddress {
	if len(in) == 0 {
		return nil
	}
	out := make([]model.EmailAddress, 0, len(in))
	for _, a := range in {
		out = append(out, model.EmailAddress{Name: a.Name, Email: a.Email})
	}
	return out
}
