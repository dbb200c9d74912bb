package setupview

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pdubbbbbs/fastmail-tui/internal/model"
)

func testConfig() model.AppConfig {
	return model.AppConfig{
		Fastmail: model.FastmailConfig{Host: "api.fastmail.com"},
	}
}

func TestSaveFailureKeepsWizardOpen(t *testing.T) {
	m := New(testConfig(), 80, 24)
	m.saving = true

	m, cmd := m.Update(saveFailedMsg{err: errors.New("keyring locked")})

	if m.saving {
		t.Error("saving = true after a failed save, want false")
	}
	if !strings.Contains(m.status, "keyring locked") {
		t.Errorf("status = %q, want it to mention the keyring error", m.status)
	}
	if cmd == nil {
		t.Error("Update() returned no command, want the rebuilt form's Init")
	}
	if !strings.Contains(m.View(), "keyring locked") {
		t.Error("View() does not render the save error")
	}
}

func TestEscapeClosesWithoutSaving(t *testing.T) {
	m := New(testConfig(), 80, 24)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("esc produced no command")
	}
	done, ok := cmd().(DoneMsg)
	if !ok {
		t.Fatalf("esc command produced %T, want DoneMsg", cmd())
	}
	if done.Saved {
		t.Error("DoneMsg.Saved = true, want false")
	}
}
