package jmap

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

const testAccountID = "u123"

// newTestClient spins up a fake JMAP server answering the session
// resource and API requests, and returns a connected client.
func newTestClient(t *testing.T, apiHandler http.HandlerFunc) *Client {
	t.Helper()

	mux := http.NewServeMux()
	if apiHandler == nil {
		apiHandler = func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "unexpected API call", http.StatusBadRequest)
		}
	}
	mux.HandleFunc("/api", apiHandler)
	mux.HandleFunc("/jmap/session", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		srv := r.Host
		json.NewEncoder(w).Encode(map[string]any{
			"apiUrl":   "http://" + srv + "/api",
			"username": "user@example.com",
			"primaryAccounts": map[string]string{
				capMail:        testAccountID,
				capMaskedEmail: testAccountID,
			},
		})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := NewClient("example.com", "test-token")
	client.sessionURL = server.URL + "/jmap/session"
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	return client
}

// methodResponse builds a JMAP response envelope with one invocation.
func methodResponse(name string, args any) map[string]any {
	return map[string]any{
		"methodResponses": []any{
			[]any{name, args, "0"},
		},
	}
}

func TestConnect(t *testing.T) {
	client := newTestClient(t, nil)

	if !client.Connected() {
		t.Error("Connected() = false after successful Connect")
	}
	if got := client.AccountID(); got != testAccountID {
		t.Errorf("AccountID() = %q, want %q", got, testAccountID)
	}
	if got := client.Username(); got != "user@example.com" {
		t.Errorf("Username() = %q, want %q", got, "user@example.com")
	}
}

func TestConnectBadToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient("example.com", "bad-token")
	client.sessionURL = server.URL + "/jmap/session"

	err := client.Connect(context.Background())
	if err == nil {
		t.Fatal("Connect() error = nil, want auth error")
	}
	if !IsAuthError(err) {
		t.Errorf("IsAuthError(%v) = false, want true", err)
	}
}

func TestMailboxes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(methodResponse("Mailbox/get", map[string]any{
			"accountId": testAccountID,
			"list": []map[string]any{
				{"id": "mb2", "name": "Trash", "role": "trash"},
				{"id": "mb1", "name": "Inbox", "role": "inbox", "unreadEmails": 3},
				{"id": "mb3", "name": "Projects", "sortOrder": 10},
			},
		}))
	})

	mailboxes, err := client.Mailboxes(context.Background())
	if err != nil {
		t.Fatalf("Mailboxes() error = %v", err)
	}

	var names []string
	for _, mb := range mailboxes {
		names = append(names, mb.Name)
	}
	want := []string{"Inbox", "Trash", "Projects"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Mailboxes() order = %v, want %v", names, want)
		}
	}

	inbox, ok := client.MailboxByRole("INBOX")
	if !ok {
		t.Fatal("MailboxByRole(INBOX) not found")
	}
	if inbox.UnreadEmails != 3 {
		t.Errorf("inbox.UnreadEmails = %d, want 3", inbox.UnreadEmails)
	}

	if _, ok := client.MailboxByID("mb3"); !ok {
		t.Error("MailboxByID(mb3) not found")
	}
}

func TestEmails(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"methodResponses": []any{
				[]any{"Email/query", map[string]any{"ids": []string{"e1"}}, "0"},
				[]any{"Email/get", map[string]any{
					"accountId": testAccountID,
					"list": []map[string]any{
						{
							"id":         "e1",
							"threadId":   "t1",
							"subject":    "Quarterly report",
							"preview":    "Numbers attached",
							"receivedAt": "2026-08-20T10:00:00Z",
							"from":       []map[string]string{{"name": "Ana", "email": "ana@example.com"}},
							"keywords":   map[string]bool{"$seen": true},
							"mailboxIds": map[string]bool{"mb1": true},
						},
					},
				}, "1"},
			},
		})
	})

	emails, err := client.Emails(context.Background(), EmailFilter{InMailbox: "mb1"}, 0, 50)
	if err != nil {
		t.Fatalf("Emails() error = %v", err)
	}
	if len(emails) != 1 {
		t.Fatalf("Emails() returned %d emails, want 1", len(emails))
	}

	email := emails[0]
	if email.Subject != "Quarterly report" {
		t.Errorf("Subject = %q", email.Subject)
	}
	if email.FromDisplay() != "Ana" {
		t.Errorf("FromDisplay() = %q, want Ana", email.FromDisplay())
	}
	if email.IsUnread() {
		t.Error("IsUnread() = true for $seen email")
	}
	if email.ReceivedAt.IsZero() {
		t.Error("ReceivedAt not parsed")
	}
}

func TestEmailByIDBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(methodResponse("Email/get", map[string]any{
			"accountId": testAccountID,
			"list": []map[string]any{
				{
					"id":       "e1",
					"subject":  "Hello",
					"textBody": []map[string]any{{"partId": "p1", "type": "text/plain"}},
					"htmlBody": []map[string]any{{"partId": "p2", "type": "text/html"}},
					"bodyValues": map[string]any{
						"p1": map[string]any{"value": "plain body"},
						"p2": map[string]any{"value": "<p>html body</p>"},
					},
				},
			},
		}))
	})

	email, err := client.EmailByID(context.Background(), "e1")
	if err != nil {
		t.Fatalf("EmailByID() error = %v", err)
	}
	if email.BodyText != "plain body" {
		t.Errorf("BodyText = %q", email.BodyText)
	}
	if email.BodyHTML != "<p>html body</p>" {
		t.Errorf("BodyHTML = %q", email.BodyHTML)
	}
}

func TestMarkReadPayload(t *testing.T) {
	var captured map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			MethodCalls [][3]json.RawMessage `json:"methodCalls"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if err := json.Unmarshal(body.MethodCalls[0][1], &captured); err != nil {
			t.Fatalf("decoding args: %v", err)
		}
		json.NewEncoder(w).Encode(methodResponse("Email/set", map[string]any{
			"updated": map[string]any{"e1": nil},
		}))
	})

	if err := client.MarkRead(context.Background(), []string{"e1"}); err != nil {
		t.Fatalf("MarkRead() error = %v", err)
	}

	update, ok := captured["update"].(map[string]any)
	if !ok {
		t.Fatalf("payload has no update map: %v", captured)
	}
	patch, ok := update["e1"].(map[string]any)
	if !ok {
		t.Fatalf("no patch for e1: %v", update)
	}
	if patch["keywords/$seen"] != true {
		t.Errorf("keywords/$seen = %v, want true", patch["keywords/$seen"])
	}
}

func TestMethodError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(methodResponse("error", map[string]any{
			"type":        "invalidArguments",
			"description": "bad filter",
		}))
	})

	_, err := client.Emails(context.Background(), EmailFilter{}, 0, 10)
	if err == nil {
		t.Fatal("Emails() error = nil, want method error")
	}
	var methodErr *MethodError
	if !errors.As(err, &methodErr) {
		t.Fatalf("error %v is not a MethodError", err)
	}
	if methodErr.Type != "invalidArguments" {
		t.Errorf("Type = %q, want invalidArguments", methodErr.Type)
	}
}

func TestCreateMaskedEmail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(methodResponse("MaskedEmail/set", map[string]any{
			"created": map[string]any{
				"new": map[string]any{
					"id":        "me1",
					"email":     "duck.pond1234@fastmail.com",
					"state":     "enabled",
					"forDomain": "example.org",
					"createdAt": "2026-08-01T00:00:00Z",
				},
			},
		}))
	})

	masked, err := client.CreateMaskedEmail(context.Background(), "example.org", "signup")
	if err != nil {
		t.Fatalf("CreateMaskedEmail() error = %v", err)
	}
	if masked.Email != "duck.pond1234@fastmail.com" {
		t.Errorf("Email = %q", masked.Email)
	}
	if !masked.IsActive() {
		t.Error("IsActive() = false for enabled alias")
	}
	if masked.DomainDisplay() != "example.org" {
		t.Errorf("DomainDisplay() = %q", masked.DomainDisplay())
	}
}

func TestToggleMaskedEmail(t *testing.T) {
	var gotState string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			MethodCalls [][3]json.RawMessage `json:"methodCalls"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		var args struct {
			Update map[string]struct {
				State string `json:"state"`
			} `json:"update"`
		}
		json.Unmarshal(body.MethodCalls[0][1], &args)
		gotState = args.Update["me1"].State
		json.NewEncoder(w).Encode(methodResponse("MaskedEmail/set", map[string]any{
			"updated": map[string]any{"me1": nil},
		}))
	})

	newState, err := client.ToggleMaskedEmail(context.Background(), "me1", "enabled")
	if err != nil {
		t.Fatalf("ToggleMaskedEmail() error = %v", err)
	}
	if newState != "disabled" || gotState != "disabled" {
		t.Errorf("toggle from enabled: sent %q, returned %q, want disabled", gotState, newState)
	}
}
