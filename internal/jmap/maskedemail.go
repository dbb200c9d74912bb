package jmap

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pdubbbbbs/fastmail-tui/internal/model"
)

// MaskedEmails fetches all masked email aliases, newest first.
func (c *Client) MaskedEmails(ctx context.Context) ([]model.MaskedEmail, error) {
	args := map[string]any{
		"accountId": c.maskedAccountID(),
		"ids":       nil,
	}
	responses, err := c.call(ctx, []string{capCore, capMaskedEmail},
		invocation{Name: "MaskedEmail/get", Args: args, CallID: "0"})
	if err != nil {
		return nil, fmt.Errorf("fetching masked emails: %w", err)
	}

	raw, err := findResponse(responses, "MaskedEmail/get", "0")
	if err != nil {
		return nil, err
	}
	var result maskedEmailGetResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decoding masked emails: %w", err)
	}

	masked := make([]model.MaskedEmail, 0, len(result.List))
	for _, wm := range result.List {
		masked = append(masked, maskedEmailFromWire(wm))
	}
	return model.SortMaskedEmails(masked), nil
}

// ActiveMaskedEmails returns only aliases in the enabled state.
func (c *Client) ActiveMaskedEmails(ctx context.Context) ([]model.MaskedEmail, error) {
	all, err := c.MaskedEmails(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]model.MaskedEmail, 0, len(all))
	for _, m := range all {
		if m.IsActive() {
			active = append(active, m)
		}
	}
	return active, nil
}

// CreateMaskedEmail creates a new enabled alias. Domain and description
// are optional.
func (c *Client) CreateMaskedEmail(ctx context.Context, forDomain, description string) (model.MaskedEmail, error) {
	create := map[string]any{"state": model.MaskedStateEnabled}
	if forDomain != "" {
		create["forDomain"] = forDomain
	}
	if description != "" {
		create["description"] = description
	}

	responses, err := c.call(ctx, []string{capCore, capMaskedEmail},
		invocation{Name: "MaskedEmail/set", Args: map[string]any{
			"accountId": c.maskedAccountID(),
			"create":    map[string]any{"new": create},
		}, CallID: "0"})
	if err != nil {
		return model.MaskedEmail{}, fmt.Errorf("creating masked email: %w", err)
	}

	raw, err := findResponse(responses, "MaskedEmail/set", "0")
	if err != nil {
		return model.MaskedEmail{}, err
	}
	var result maskedEmailSetResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return model.MaskedEmail{}, fmt.Errorf("decoding masked email response: %w", err)
	}
	if setErr, ok := result.NotCreated["new"]; ok {
		setErr.Method = "MaskedEmail/set"
		return model.MaskedEmail{}, setErr
	}
	created, ok := result.Created["new"]
	if !ok {
		return model.MaskedEmail{}, fmt.Errorf("server did not return created masked email")
	}
	return maskedEmailFromWire(created), nil
}

// EnableMaskedEmail turns forwarding on for an alias.
func (c *Client) EnableMaskedEmail(ctx context.Context, id string) error {
	return c.setMaskedState(ctx, id, model.MaskedStateEnabled)
}

// DisableMaskedEmail turns forwarding off for an alias.
func (c *Client) DisableMaskedEmail(ctx context.Context, id string) error {
	return c.setMaskedState(ctx, id, model.MaskedStateDisabled)
}

// ToggleMaskedEmail flips an alias between enabled and disabled, and
// returns the new state.
func (c *Client) ToggleMaskedEmail(ctx context.Context, id, currentState string) (string, error) {
	newState := model.MaskedStateEnabled
	if currentState == model.MaskedStateEnabled {
		newState = model.MaskedStateDisabled
	}
	if err := c.setMaskedState(ctx, id, newState); err != nil {
		return "", err
	}
	return newState, nil
}

// UpdateMaskedEmailDescription replaces the description of an alias.
func (c *Client) UpdateMaskedEmailDescription(ctx context.Context, id, description string) error {
	return c.maskedEmailSet(ctx, map[string]any{
		"accountId": c.maskedAccountID(),
		"update":    map[string]any{id: map[string]any{"description": description}},
	})
}

// DeleteMaskedEmail permanently destroys an alias. The address is
// released and cannot be recovered.
func (c *Client) DeleteMaskedEmail(ctx context.Context, id string) error {
	return c.maskedEmailSet(ctx, map[string]any{
		"accountId": c.maskedAccountID(),
		"destroy":   []string{id},
	})
}

func (c *Client) setMaskedState(ctx context.Context, id, state string) error {
	return c.maskedEmailSet(ctx, map[string]any{
		"accountId": c.maskedAccountID(),
		"update":    map[string]any{id: map[string]any{"state": state}},
	})
}

func (c *Client) maskedEmailSet(ctx context.Context, args map[string]any) error {
	responses, err := c.call(ctx, []string{capCore, capMaskedEmail},
		invocation{Name: "MaskedEmail/set", Args: args, CallID: "0"})
	if err != nil {
		return fmt.Errorf("updating masked email: %w", err)
	}
	if _, err := findResponse(responses, "MaskedEmail/set", "0"); err != nil {
		return err
	}
	return nil
}

func maskedEmailFromWire(wm wireMaskedEmail) model.MaskedEmail {
	masked := model.MaskedEmail{
		ID:          wm.ID,
		Email:       wm.Email,
		State:       wm.State,
		ForDomain:   wm.ForDomain,
		Description: wm.Description,
		URL:         wm.URL,
	}
	if masked.State == "" {
		masked.State = model.MaskedStateEnabled
	}
	if t, err := time.Parse(time.RFC3339, wm.CreatedAt); err == nil {
		masked.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, wm.LastMessageAt); err == nil {
		masked.LastMessageAt = t
	}
	return masked
}
