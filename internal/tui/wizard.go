package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mihazs/clockify-auto-fill/internal/config"
	"github.com/mihazs/clockify-auto-fill/internal/logger"
)

// field describes one wizard step bound to a config value.
type field struct {
	label       string
	placeholder string
	secret      bool
	get         func(*config.Config) string
	set         func(*config.Config, string)
}

func wizardFields() []field {
	return []field{
		{
			label: "Clockify API key", secret: true,
			get: func(c *config.Config) string { return c.ClockifyAPIKey },
			set: func(c *config.Config, v string) { c.ClockifyAPIKey = v },
		},
		{
			label: "Workspace ID",
			get:   func(c *config.Config) string { return c.WorkspaceID },
			set:   func(c *config.Config, v string) { c.WorkspaceID = v },
		},
		{
			label: "Project ID",
			get:   func(c *config.Config) string { return c.ProjectID },
			set:   func(c *config.Config, v string) { c.ProjectID = v },
		},
		{
			label: "Workday start (HH:MM)", placeholder: "09:00",
			get: func(c *config.Config) string { return c.DefaultStartTime },
			set: func(c *config.Config, v string) { c.DefaultStartTime = v },
		},
		{
			label: "Workday end (HH:MM)", placeholder: "18:00",
			get: func(c *config.Config) string { return c.DefaultEndTime },
			set: func(c *config.Config, v string) { c.DefaultEndTime = v },
		},
		{
			label: "Jira base URL (optional)", placeholder: "https://example.atlassian.net",
			get: func(c *config.Config) string { return c.JiraBaseURL },
			set: func(c *config.Config, v string) { c.JiraBaseURL = v },
		},
		{
			label: "Jira email (optional)",
			get:   func(c *config.Config) string { return c.JiraEmail },
			set:   func(c *config.Config, v string) { c.JiraEmail = v },
		},
		{
			label: "Jira API token (optional)", secret: true,
			get: func(c *config.Config) string { return c.JiraToken },
			set: func(c *config.Config, v string) { c.JiraToken = v },
		},
		{
			label: "Holiday region (BR, US, GB, DE)", placeholder: "BR",
			get: func(c *config.Config) string { return c.HolidayRegion },
			set: func(c *config.Config, v string) { c.HolidayRegion = v },
		},
	}
}

// Wizard is the interactive setup form model.
type Wizard struct {
	cfg     *config.Config
	fields  []field
	input   textinput.Model
	cursor  int
	done    bool
	aborted bool
}

// NewWizard creates the setup form over the given config.
func NewWizard(cfg *config.Config) Wizard {
	w := Wizard{cfg: cfg, fields: wizardFields()}
	w.input = textinput.New()
	w.input.CharLimit = 256
	w.input.Width = 50
	w.prepareInput()
	return w
}

// prepareInput points the shared text input at the current field.
func (w *Wizard) prepareInput() {
	f := w.fields[w.cursor]
	w.input.SetValue(f.get(w.cfg))
	w.input.Placeholder = f.placeholder
	if f.secret {
		w.input.EchoMode = textinput.EchoPassword
	} else {
		w.input.EchoMode = textinput.EchoNormal
	}
	w.input.CursorEnd()
	w.input.Focus()
}

// Init implements tea.Model
func (w Wizard) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (w Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			w.aborted = true
			return w, tea.Quit

		case "enter":
			value := strings.TrimSpace(w.input.Value())
			if value == "" {
				// Keep whatever the config already had.
				value = w.fields[w.cursor].get(w.cfg)
			}
			w.fields[w.cursor].set(w.cfg, value)

			if w.cursor == len(w.fields)-1 {
				w.done = true
				return w, tea.Quit
			}
			w.cursor++
			w.prepareInput()
			return w, nil
		}
	}

	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	return w, cmd
}

// View implements tea.Model
func (w Wizard) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("clockify-auto-fill setup"))
	b.WriteString("\n\n")

	for i := 0; i < w.cursor; i++ {
		f := w.fields[i]
		value := f.get(w.cfg)
		if f.secret && value != "" {
			value = strings.Repeat("•", 8)
		}
		if value == "" {
			value = "(unset)"
		}
		b.WriteString(fmt.Sprintf("  %s %s\n",
			LabelStyle.Render(f.label+":"), DoneValueStyle.Render(value)))
	}

	b.WriteString(fmt.Sprintf("\n  %s\n  %s\n",
		LabelStyle.Render(w.fields[w.cursor].label), w.input.View()))
	b.WriteString("\n" + HelpStyle.Render("  enter: next · esc: abort"))

	return FormStyle.Render(b.String())
}

// RunWizard runs the setup form and persists the config on completion.
func RunWizard(cfg *config.Config) error {
	p := tea.NewProgram(NewWizard(cfg))
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("failed to run setup wizard: %w", err)
	}

	w, ok := final.(Wizard)
	if !ok || w.aborted {
		return fmt.Errorf("setup aborted")
	}

	if err := cfg.Save(); err != nil {
		return err
	}
	logger.Info("setup wizard completed")
	return nil
}
