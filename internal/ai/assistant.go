// Package ai integrates the Claude Messages API for email intelligence:
// summaries, reply suggestions, batch categorization, and draft composition.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdubbbbbs/fastmail-tui/internal/model"
)

const (
	defaultModel     = "claude-sonnet-4-5"
	defaultMaxTokens = 500
	apiURL           = "https://api.anthropic.com/v1/messages"
	apiVersion       = "2023-06-01"

	// Body excerpts sent to the API are capped to keep requests small.
	maxSummaryInput = 4000
	maxReplyInput   = 2000
	maxBatchSize    = 20
)

// EmailSummary is the structured result of summarizing one email.
type EmailSummary struct {
	OneLiner    string          `json:"one_liner"`
	KeyPoints   []string        `json:"key_points,omitempty"`
	ActionItems []string        `json:"action_items,omitempty"`
	Sentiment   model.Sentiment `json:"sentiment"`
	Category    model.Category  `json:"category"`
}

// ReplyDraft is one AI-suggested reply to an email.
type ReplyDraft struct {
	Tone       string  `json:"tone"`
	Subject    string  `json:"subject"`
	Content    string  `json:"content"`
	Confidence float64 `json:"confidence"`
}

// ComposedDraft is the result of AI-assisted composition.
type ComposedDraft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// ThreadMessage is one email condensed for thread summarization.
type ThreadMessage struct {
	From    string
	Date    string
	Content string
}

// Assistant talks to the Claude Messages API on behalf of the mail views.
type Assistant struct {
	apiKey    string
	model     string
	maxTokens int
	apiURL    string
	client    *http.Client
}

// New creates an assistant with the given API key, model name, and token
// budget for summaries. Zero values fall back to defaults.
func New(apiKey, modelName string, maxTokens int) *Assistant {
	if modelName == "" {
		modelName = defaultModel
	}
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &Assistant{
		apiKey:    apiKey,
		model:     modelName,
		maxTokens: maxTokens,
		apiURL:    apiURL,
		client:    &http.Client{},
	}
}

// SummarizeEmail analyzes one email and returns a structured summary.
func (a *Assistant) SummarizeEmail(ctx context.Context, subject, content string) (EmailSummary, error) {
	prompt := fmt.Sprintf(`Analyze this email and provide a JSON response with:
- "one_liner": A single sentence summary (max 100 chars)
- "key_points": Array of 2-3 key points
- "action_items": Array of any action items or requests
- "sentiment": One of "positive", "neutral", "negative", "urgent"
- "category": One of "work", "personal", "newsletter", "transaction", "social", "spam", "other"

Subject: %s

Content:
%s

Respond ONLY with valid JSON, no other text.`, subject, truncate(content, maxSummaryInput))

	text, err := a.complete(ctx, prompt, a.maxTokens)
	if err != nil {
		return EmailSummary{}, err
	}

	var summary EmailSummary
	if err := json.Unmarshal([]byte(extractJSON(text)), &summary); err != nil {
		return EmailSummary{}, fmt.Errorf("parsing summary: %w", err)
	}
	if summary.Sentiment == "" {
		summary.Sentiment = model.SentimentNeutral
	}
	if !model.ValidCategory(string(summary.Category)) {
		summary.Category = model.CategoryOther
	}
	return summary, nil
}

// SummarizeThread condenses a conversation into a short status summary.
// Only the last five messages are sent.
func (a *Assistant) SummarizeThread(ctx context.Context, messages []ThreadMessage, maxLength int) (string, error) {
	if maxLength <= 0 {
		maxLength = 300
	}
	if len(messages) > 5 {
		messages = messages[len(messages)-5:]
	}

	parts := make([]string, 0, len(messages))
	for _, m := range messages {
		from := m.From
		if from == "" {
			from = "Unknown"
		}
		parts = append(parts, fmt.Sprintf("From: %s\nDate: %s\n%s",
			from, m.Date, truncate(m.Content, 500)))
	}

	prompt := fmt.Sprintf(`Summarize this email thread in %d characters or less.
Focus on: current status, pending decisions, and action items.
Be concise and direct.

Thread:
%s

Summary:`, maxLength, strings.Join(parts, "\n---\n"))

	text, err := a.complete(ctx, prompt, 200)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// SuggestReplies generates three reply drafts in different tones. The
// userContext string is optional background about the account holder.
func (a *Assistant) SuggestReplies(ctx context.Context, subject, content, sender, userContext string) ([]ReplyDraft, error) {
	contextText := ""
	if userContext != "" {
		contextText = "\nContext about me: " + userContext
	}

	prompt := fmt.Sprintf(`Given this email, suggest 3 reply options as JSON array.
Each reply should have: "tone", "subject", "content"
Tones: "formal" (professional), "casual" (friendly), "brief" (quick acknowledgment)

From: %s
Subject: %s

Content:
%s
%s

Respond ONLY with a JSON array of 3 reply objects. Example format:
[{"tone": "formal", "subject": "Re: ...", "content": "Dear..."}]`,
		sender, subject, truncate(content, maxReplyInput), contextText)

	text, err := a.complete(ctx, prompt, 1000)
	if err != nil {
		return nil, err
	}

	var replies []ReplyDraft
	if err := json.Unmarshal([]byte(extractJSON(text)), &replies); err != nil {
		return nil, fmt.Errorf("parsing replies: %w", err)
	}
	for i := range replies {
		if replies[i].Confidence == 0 {
			replies[i].Confidence = 0.8
		}
	}
	return replies, nil
}

// CategorizeBatch categorizes up to twenty emails in one request and
// returns a map of email id to category. Unknown categories are dropped.
func (a *Assistant) CategorizeBatch(ctx context.Context, emails []model.Email) (map[string]model.Category, error) {
	if len(emails) == 0 {
		return map[string]model.Category{}, nil
	}
	if len(emails) > maxBatchSize {
		emails = emails[:maxBatchSize]
	}

	lines := make([]string, 0, len(emails))
	for _, e := range emails {
		lines = append(lines, fmt.Sprintf("ID:%s SUBJ:%s PREV:%s",
			e.ID, truncate(e.Subject, 50), truncate(e.Preview, 100)))
	}

	prompt := fmt.Sprintf(`Categorize each email into one of: work, personal, newsletter, transaction, social, spam, other

Return JSON object mapping ID to category. Example: {"email1": "work", "email2": "newsletter"}

Emails:
%s

JSON response:`, strings.Join(lines, "\n"))

	text, err := a.complete(ctx, prompt, 500)
	if err != nil {
		return nil, err
	}

	var raw map[string]string
	if err := json.Unmarshal([]byte(extractJSON(text)), &raw); err != nil {
		return nil, fmt.Errorf("parsing categories: %w", err)
	}

	categories := make(map[string]model.Category, len(raw))
	for id, cat := range raw {
		if model.ValidCategory(cat) {
			categories[id] = model.Category(cat)
		}
	}
	return categories, nil
}

// ComposeDraft writes a new email from a recipient description and a
// stated purpose.
func (a *Assistant) ComposeDraft(ctx context.Context, to, purpose, tone, extraContext string) (ComposedDraft, error) {
	if tone == "" {
		tone = "professional"
	}
	contextText := ""
	if extraContext != "" {
		contextText = "\nContext: " + extraContext
	}

	prompt := fmt.Sprintf(`Write an email with these requirements:
- To: %s
- Purpose: %s
- Tone: %s
%s

Return JSON with "subject" and "body" keys.
Keep it concise and professional unless otherwise specified.

JSON response:`, to, purpose, tone, contextText)

	text, err := a.complete(ctx, prompt, 800)
	if err != nil {
		return ComposedDraft{}, err
	}

	var draft ComposedDraft
	if err := json.Unmarshal([]byte(extractJSON(text)), &draft); err != nil {
		return ComposedDraft{}, fmt.Errorf("parsing draft: %w", err)
	}
	return draft, nil
}

// complete sends a single-turn request and returns the text content.
func (a *Assistant) complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	reqBody := apiRequest{
		Model:     a.model,
		MaxTokens: maxTokens,
		Messages: []apiMessage{
			{Role: "user", Content: prompt},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, a.apiURL, bytes.NewReader(bodyBytes),
	)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling Claude API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiErrorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("API error (%d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return "", fmt.Errorf("API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var result apiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	var sb strings.Builder
	for _, block := range result.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}

// extractJSON strips prose around a JSON object or array so lenient
// model output still parses.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return s
	}
	var end int
	if s[start] == '{' {
		end = strings.LastIndexByte(s, '}')
	} else {
		end = strings.LastIndexByte(s, ']')
	}
	if end <= start {
		return s
	}
	return s[start : end+1]
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// --- Claude API types ---

type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	Messages  []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type apiResponse struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	Role       string            `json:"role"`
	Content    []apiContentBlock `json:"content"`
	Model      string            `json:"model"`
	StopReason string            `json:"stop_reason"`
}

type apiErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}
