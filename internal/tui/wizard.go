package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/vvka-141/airroutes/internal/config"
	"github.com/vvka-141/airroutes/internal/ui"
)

// ErrWizardCancelled is returned when the user leaves the wizard with esc.
var ErrWizardCancelled = errors.New("configuration wizard cancelled")

type wizardStep int

const (
	stepAuth wizardStep = iota
	stepConnection
	stepData
	stepDone
)

type authOption struct {
	label       string
	description string
	value       string
}

var authOptions = []authOption{
	{"Standard", "Password from $PGPASSWORD, ~/.pgpass or the connection string", "standard"},
	{"AWS IAM", "RDS IAM token from the default AWS credential chain", "aws-iam"},
	{"Google Cloud SQL IAM", "Cloud SQL connector with automatic IAM login", "google-iam"},
	{"Azure Entra ID", "Access token from the Azure default credential chain", "azure"},
}

type wizardKeys struct {
	Up     key.Binding
	Down   key.Binding
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
	Cancel key.Binding
}

func defaultWizardKeys() wizardKeys {
	return wizardKeys{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Next:   key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab/↓", "next")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab/↑", "prev")),
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "continue")),
		Cancel: key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "cancel")),
	}
}

// ConfigWizard collects the connection and data sections of airroutes.yaml.
// Values already present in the starting configuration are prefilled.
type ConfigWizard struct {
	cfg        config.ProjectConfig
	step       wizardStep
	authCursor int
	form       form
	cancelled  bool
	keys       wizardKeys
}

// NewConfigWizard creates a wizard starting from cfg.
func NewConfigWizard(cfg config.ProjectConfig) ConfigWizard {
	w := ConfigWizard{cfg: cfg, keys: defaultWizardKeys()}
	for i, opt := range authOptions {
		if strings.EqualFold(opt.value, cfg.Connection.AuthMethod) {
			w.authCursor = i
		}
	}
	return w
}

// Init implements tea.Model.
func (w ConfigWizard) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (w ConfigWizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && key.Matches(k, w.keys.Cancel) {
		w.cancelled = true
		return w, tea.Quit
	}

	switch w.step {
	case stepAuth:
		return w.updateAuth(msg)
	case stepConnection, stepData:
		return w.updateForm(msg)
	}
	return w, nil
}

func (w ConfigWizard) updateAuth(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return w, nil
	}
	switch {
	case key.Matches(k, w.keys.Up):
		if w.authCursor > 0 {
			w.authCursor--
		}
	case key.Matches(k, w.keys.Down):
		if w.authCursor < len(authOptions)-1 {
			w.authCursor++
		}
	case key.Matches(k, w.keys.Submit):
		w.cfg.Connection.AuthMethod = authOptions[w.authCursor].value
		if w.cfg.Connection.AuthMethod == "standard" {
			w.cfg.Connection.AuthMethod = ""
		}
		w.step = stepConnection
		w.form = connectionForm(w.cfg)
		return w, w.form.focusFirst()
	}
	return w, nil
}

func (w ConfigWizard) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, w.keys.Next):
			return w, w.form.next()
		case key.Matches(k, w.keys.Prev):
			return w, w.form.prev()
		case key.Matches(k, w.keys.Submit):
			if !w.form.onLast() {
				return w, w.form.next()
			}
			if !w.form.valid() {
				return w, nil
			}
			w.form.applyTo(&w.cfg)
			if w.step == stepConnection {
				w.step = stepData
				w.form = dataForm(w.cfg)
				return w, w.form.focusFirst()
			}
			w.step = stepDone
			return w, tea.Quit
		}
	}
	return w, w.form.update(msg)
}

// View implements tea.Model.
func (w ConfigWizard) View() string {
	var b strings.Builder

	switch w.step {
	case stepAuth:
		b.WriteString(ui.TitleStyle.Render("How does airroutes authenticate?"))
		b.WriteString("\n\n")
		for i, opt := range authOptions {
			line := "○ " + opt.label
			if i == w.authCursor {
				b.WriteString(ui.TitleStyle.Render("● " + opt.label))
			} else {
				b.WriteString(ui.MutedStyle.Render("  " + line))
			}
			b.WriteString("\n")
			b.WriteString(ui.MutedStyle.Render("    " + opt.description))
			b.WriteString("\n")
		}
		b.WriteString(ui.MutedStyle.Render("\n↑/↓ navigate • enter select • esc cancel"))
	case stepConnection, stepData:
		b.WriteString(w.form.view())
		b.WriteString(ui.MutedStyle.Render("\n\ntab next • shift+tab prev • enter continue • esc cancel"))
	}

	return b.String()
}

// Cancelled reports whether the user left the wizard early.
func (w ConfigWizard) Cancelled() bool {
	return w.cancelled
}

// Done reports whether every step was completed.
func (w ConfigWizard) Done() bool {
	return w.step == stepDone
}

// Config returns the configuration collected so far.
func (w ConfigWizard) Config() config.ProjectConfig {
	return w.cfg
}

// RunConfigWizard runs the wizard on the terminal and returns the resulting
// configuration.
func RunConfigWizard(ctx context.Context, initial config.ProjectConfig) (*config.ProjectConfig, error) {
	program := tea.NewProgram(NewConfigWizard(initial), tea.WithContext(ctx), tea.WithOutput(os.Stderr))
	final, err := program.Run()
	if err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	w, ok := final.(ConfigWizard)
	if !ok || w.Cancelled() || !w.Done() {
		return nil, ErrWizardCancelled
	}
	cfg := w.Config()
	return &cfg, nil
}

func connectionForm(cfg config.ProjectConfig) form {
	c := cfg.Connection
	port := ""
	if c.Port != 0 {
		port = strconv.Itoa(c.Port)
	}

	fields := []field{
		newField("Host", "localhost", orDefault(c.Host, "localhost"),
			func(p *config.ProjectConfig, v string) { p.Connection.Host = v }).withRequired(),
		newField("Port", "5432", orDefault(port, "5432"),
			func(p *config.ProjectConfig, v string) { p.Connection.Port, _ = strconv.Atoi(v) }).withValidator(validatePort),
		newField("Username", "current OS user", c.Username,
			func(p *config.ProjectConfig, v string) { p.Connection.Username = v }),
		newField("Database", "airroutes", c.Database,
			func(p *config.ProjectConfig, v string) { p.Connection.Database = v }).withRequired(),
		newField("SSL mode", "prefer", orDefault(c.SSLMode, "prefer"),
			func(p *config.ProjectConfig, v string) { p.Connection.SSLMode = v }).withValidator(validateSSLMode),
	}

	switch c.AuthMethod {
	case "aws-iam":
		fields = append(fields, newField("AWS region", "us-east-1", c.AWSRegion,
			func(p *config.ProjectConfig, v string) { p.Connection.AWSRegion = v }))
	case "google-iam":
		fields = append(fields, newField("Cloud SQL instance", "project:region:instance", c.GoogleInstance,
			func(p *config.ProjectConfig, v string) { p.Connection.GoogleInstance = v }).withRequired())
	case "azure":
		fields = append(fields,
			newField("Azure tenant ID", "$AZURE_TENANT_ID", c.AzureTenantID,
				func(p *config.ProjectConfig, v string) { p.Connection.AzureTenantID = v }),
			newField("Azure client ID", "$AZURE_CLIENT_ID", c.AzureClientID,
				func(p *config.ProjectConfig, v string) { p.Connection.AzureClientID = v }))
	}

	return newForm("Connection", fields...)
}

func dataForm(cfg config.ProjectConfig) form {
	return newForm("Data",
		newField("Data path", "./data or s3://bucket/prefix", cfg.Data.Path,
			func(p *config.ProjectConfig, v string) { p.Data.Path = v }),
		newField("Timeout", "10m", cfg.Timeout,
			func(p *config.ProjectConfig, v string) { p.Timeout = v }).withValidator(validateDuration),
	)
}

func validatePort(v string) error {
	port, err := strconv.Atoi(v)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	return nil
}

func validateSSLMode(v string) error {
	switch v {
	case "disable", "allow", "prefer", "require", "verify-ca", "verify-full":
		return nil
	}
	return fmt.Errorf("unknown sslmode %q", v)
}

func validateDuration(v string) error {
	probe := config.ProjectConfig{Timeout: v}
	_, err := probe.TimeoutDuration()
	return err
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
