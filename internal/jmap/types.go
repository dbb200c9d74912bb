package jmap

import (
	"encoding/json"
	"errors"
	"fmt"
)

// JMAP capability URNs used in request envelopes.
const (
	capCore        = "urn:ietf:params:jmap:core"
	capMail        = "urn:ietf:params:jmap:mail"
	capMaskedEmail = "https://www.fastmail.com/dev/maskedemail"
)

// AuthError indicates the API token was rejected. Returned when the
// server answers 401; the UI reacts by sending the user back to setup.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error: %s", e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// MethodError is a JMAP method-level error invocation.
type MethodError struct {
	Method      string
	Type        string `json:"type"`
	Description string `json:"description"`
}

func (e *MethodError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("%s failed: %s (%s)", e.Method, e.Type, e.Description)
	}
	return fmt.Sprintf("%s failed: %s", e.Method, e.Type)
}

// session is the JMAP session resource (RFC 8620 §2).
type session struct {
	APIURL          string                     `json:"apiUrl"`
	Username        string                     `json:"username"`
	PrimaryAccounts map[string]string          `json:"primaryAccounts"`
	Capabilities    map[string]json.RawMessage `json:"capabilities"`
}

// request is the top-level JMAP request envelope.
type request struct {
	Using       []string     `json:"using"`
	MethodCalls []invocation `json:"methodCalls"`
}

// invocation is the [name, arguments, callID] triple.
type invocation struct {
	Name   string
	Args   any
	CallID string
}

func (i invocation) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]any{i.Name, i.Args, i.CallID})
}

// response is the top-level JMAP response envelope.
type response struct {
	MethodResponses []rawInvocation `json:"methodResponses"`
	SessionState    string          `json:"sessionState"`
}

// rawInvocation is a response triple with the arguments left raw for
// per-method decoding.
type rawInvocation struct {
	Name   string
	Args   json.RawMessage
	CallID string
}

func (i *rawInvocation) UnmarshalJSON(data []byte) error {
	var parts [3]json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("decoding invocation: %w", err)
	}
	if err := json.Unmarshal(parts[0], &i.Name); err != nil {
		return fmt.Errorf("decoding invocation name: %w", err)
	}
	i.Args = parts[1]
	if err := json.Unmarshal(parts[2], &i.CallID); err != nil {
		return fmt.Errorf("decoding invocation call id: %w", err)
	}
	return nil
}

// --- Mailbox wire types ---

type wireMailbox struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Role          string `json:"role"`
	ParentID      string `json:"parentId"`
	SortOrder     int    `json:"sortOrder"`
	TotalEmails   int    `json:"totalEmails"`
	UnreadEmails  int    `json:"unreadEmails"`
	TotalThreads  int    `json:"totalThreads"`
	UnreadThreads int    `json:"unreadThreads"`
	IsSubscribed  bool   `json:"isSubscribed"`
}

type mailboxGetResponse struct {
	AccountID string        `json:"accountId"`
	State     string        `json:"state"`
	List      []wireMailbox `json:"list"`
}

// --- Email wire types ---

type wireAddress struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type wireBodyPart struct {
	PartID      string `json:"partId"`
	BlobID      string `json:"blobId"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Size        int64  `json:"size"`
	Disposition string `json:"disposition"`
}

type wireBodyValue struct {
	Value       string `json:"value"`
	IsTruncated bool   `json:"isTruncated"`
}

type wireEmail struct {
	ID            string                   `json:"id"`
	ThreadID      string                   `json:"threadId"`
	MailboxIDs    map[string]bool          `json:"mailboxIds"`
	From          []wireAddress            `json:"from"`
	To            []wireAddress            `json:"to"`
	CC            []wireAddress            `json:"cc"`
	BCC           []wireAddress            `json:"bcc"`
	ReplyTo       []wireAddress            `json:"replyTo"`
	Subject       string                   `json:"subject"`
	ReceivedAt    string                   `json:"receivedAt"`
	SentAt        string                   `json:"sentAt"`
	Preview       string                   `json:"preview"`
	HasAttachment bool                     `json:"hasAttachment"`
	Keywords      map[string]bool          `json:"keywords"`
	Size          int64                    `json:"size"`
	Attachments   []wireBodyPart           `json:"attachments"`
	TextBody      []wireBodyPart           `json:"textBody"`
	HTMLBody      []wireBodyPart           `json:"htmlBody"`
	BodyValues    map[string]wireBodyValue `json:"bodyValues"`
}

type emailGetResponse struct {
	AccountID string      `json:"accountId"`
	State     string      `json:"state"`
	List      []wireEmail `json:"list"`
	NotFound  []string    `json:"notFound"`
}

type emailSetResponse struct {
	AccountID  string                     `json:"accountId"`
	Created    map[string]json.RawMessage `json:"created"`
	Updated    map[string]json.RawMessage `json:"updated"`
	Destroyed  []string                   `json:"destroyed"`
	NotCreated map[string]*MethodError    `json:"notCreated"`
	NotUpdated map[string]*MethodError    `json:"notUpdated"`
}

// --- Masked email wire types ---

type wireMaskedEmail struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	State         string `json:"state"`
	ForDomain     string `json:"forDomain"`
	Description   string `json:"description"`
	URL           string `json:"url"`
	CreatedAt     string `json:"createdAt"`
	LastMessageAt string `json:"lastMessageAt"`
}

type maskedEmailGetResponse struct {
	AccountID string            `json:"accountId"`
	List      []wireMaskedEmail `json:"list"`
}

type maskedEmailSetResponse struct {
	AccountID  string                     `json:"accountId"`
	Created    map[string]wireMaskedEmail `json:"created"`
	Updated    map[string]json.RawMessage `json:"updated"`
	Destroyed  []string                   `json:"destroyed"`
	NotCreated map[string]*MethodError    `json:"notCreated"`
}
