package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vvka-141/airroutes/internal/config"
)

func press(t *testing.T, w ConfigWizard, msgs ...tea.Msg) (ConfigWizard, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var model tea.Model
		model, cmd = w.Update(msg)
		w = model.(ConfigWizard)
	}
	return w, cmd
}

func typed(s string) tea.Msg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	down  = tea.KeyMsg{Type: tea.KeyDown}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestConfigWizard_StandardAuth(t *testing.T) {
	w := NewConfigWizard(config.ProjectConfig{})

	w, _ = press(t, w, enter)                   // standard auth
	w, _ = press(t, w, tab, tab)                // keep host and port defaults
	w, _ = press(t, w, typed("loader"), tab)    // username
	w, _ = press(t, w, typed("airroutes"), tab) // database
	w, _ = press(t, w, enter)                   // sslmode, submit connection
	w, _ = press(t, w, typed("./data"), tab)    // data path
	w, cmd := press(t, w, typed("5m"), enter)   // timeout, submit

	if !w.Done() {
		t.Fatal("wizard should be done")
	}
	if !isQuit(cmd) {
		t.Error("last step should quit the program")
	}

	cfg := w.Config()
	c := cfg.Connection
	if c.Host != "localhost" || c.Port != 5432 || c.SSLMode != "prefer" {
		t.Errorf("defaults not kept: %+v", c)
	}
	if c.Username != "loader" || c.Database != "airroutes" {
		t.Errorf("typed values lost: %+v", c)
	}
	if c.AuthMethod != "" {
		t.Errorf("standard auth should leave auth_method empty, got %q", c.AuthMethod)
	}
	if cfg.Data.Path != "./data" || cfg.Timeout != "5m" {
		t.Errorf("data section = %+v timeout = %q", cfg.Data, cfg.Timeout)
	}
}

func TestConfigWizard_DatabaseRequired(t *testing.T) {
	w := NewConfigWizard(config.ProjectConfig{})
	w, _ = press(t, w, enter, tab, tab, tab) // focus database, leave it empty
	w, _ = press(t, w, tab)                  // cannot leave an invalid field

	if w.form.focus != 3 {
		t.Fatalf("focus = %d, want database field (3)", w.form.focus)
	}
	if !strings.Contains(w.View(), errFieldRequired.Error()) {
		t.Errorf("view should show the required error:\n%s", w.View())
	}
}

func TestConfigWizard_AWSAddsRegionField(t *testing.T) {
	w := NewConfigWizard(config.ProjectConfig{Connection: config.ConnectionConfig{Database: "airroutes"}})
	w, _ = press(t, w, down, enter)

	if got := len(w.form.fields); got != 6 {
		t.Fatalf("connection form has %d fields, want 6", got)
	}
	if w.form.fields[5].label != "AWS region" {
		t.Errorf("last field = %q, want AWS region", w.form.fields[5].label)
	}

	w, _ = press(t, w, tab, tab, tab, tab, tab, typed("eu-west-1"), enter)
	cfg := w.Config()
	if cfg.Connection.AuthMethod != "aws-iam" || cfg.Connection.AWSRegion != "eu-west-1" {
		t.Errorf("connection = %+v", cfg.Connection)
	}
}

func TestConfigWizard_PrefillsExistingValues(t *testing.T) {
	w := NewConfigWizard(config.ProjectConfig{Connection: config.ConnectionConfig{
		Host: "db.internal", Port: 6432, Database: "routes", AuthMethod: "azure",
	}})
	if w.authCursor != 3 {
		t.Errorf("authCursor = %d, want azure (3)", w.authCursor)
	}

	w, _ = press(t, w, enter)
	if v := w.form.fields[0].input.Value(); v != "db.internal" {
		t.Errorf("host = %q", v)
	}
	if v := w.form.fields[1].input.Value(); v != "6432" {
		t.Errorf("port = %q", v)
	}
}

func TestConfigWizard_InvalidPort(t *testing.T) {
	w := NewConfigWizard(config.ProjectConfig{})
	w, _ = press(t, w, enter, tab, typed("x"), tab)

	if w.form.focus != 1 {
		t.Errorf("focus moved past an invalid port")
	}
}

func TestConfigWizard_Cancel(t *testing.T) {
	w := NewConfigWizard(config.ProjectConfig{})
	w, cmd := press(t, w, enter, esc)

	if !w.Cancelled() || w.Done() {
		t.Error("esc should cancel the wizard")
	}
	if !isQuit(cmd) {
		t.Error("cancel should quit the program")
	}
}
