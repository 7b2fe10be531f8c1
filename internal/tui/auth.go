package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/existflow/teamplan/internal/logger"
	"github.com/existflow/teamplan/internal/model"
)

const minPasswordLength = 8

const (
	fieldEmail = iota
	fieldPassword
	fieldAccount
)

// authForm backs the login and signup pages.
type authForm struct {
	inputs     []textinput.Model
	focused    int
	signup     bool
	emailLeft  bool // the email field lost focus at least once
	submitting bool
	err        string
}

func newAuthForm() authForm {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 254
	email.Width = 40

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 128
	password.Width = 40

	account := textinput.New()
	account.Placeholder = "Team or company name"
	account.CharLimit = 100
	account.Width = 40

	return authForm{inputs: []textinput.Model{email, password, account}}
}

// fieldCount is 2 for login and 3 for signup.
func (f authForm) fieldCount() int {
	if f.signup {
		return 3
	}
	return 2
}

func (f *authForm) focus(i int) tea.Cmd {
	if f.focused == fieldEmail && i != fieldEmail {
		f.emailLeft = true
	}
	f.focused = i
	var cmd tea.Cmd
	for j := range f.inputs {
		if j == i {
			cmd = f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
	return cmd
}

func (f authForm) value(i int) string {
	return strings.TrimSpace(f.inputs[i].Value())
}

// validate returns the first problem with the entered fields.
func (f authForm) validate() error {
	if !model.IsValidEmail(f.value(fieldEmail)) {
		return errors.New("Please enter a valid email address")
	}
	password := f.inputs[fieldPassword].Value()
	if password == "" {
		return errors.New("Password is required")
	}
	if f.signup {
		if len(password) < minPasswordLength {
			return errors.New("Password must be at least 8 characters")
		}
		if f.value(fieldAccount) == "" {
			return errors.New("Account name is required")
		}
	}
	return nil
}

func (m Model) updateAuthForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &m.authForm
	if f.submitting {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = ModeNormal
		return m.navigate(RouteHome)

	case key.Matches(msg, keys.Tab), msg.String() == "down":
		return m, f.focus((f.focused + 1) % f.fieldCount())

	case key.Matches(msg, keys.ShiftTab), msg.String() == "up":
		return m, f.focus((f.focused - 1 + f.fieldCount()) % f.fieldCount())

	case key.Matches(msg, keys.Enter):
		if f.focused < f.fieldCount()-1 {
			return m, f.focus(f.focused + 1)
		}
		f.emailLeft = true
		if err := f.validate(); err != nil {
			f.err = err.Error()
			return m, nil
		}
		f.err = ""
		f.submitting = true
		if f.signup {
			return m, m.submitSignup()
		}
		return m, m.submitLogin()
	}

	var cmd tea.Cmd
	f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)
	return m, cmd
}

func (m Model) submitLogin() tea.Cmd {
	s := m.session
	email, password := m.authForm.value(fieldEmail), m.authForm.inputs[fieldPassword].Value()
	return func() tea.Msg {
		if s == nil {
			return sessionMsg{action: sessionLogin, err: errors.New("login is not available offline")}
		}
		return sessionMsg{action: sessionLogin, err: s.Login(context.Background(), email, password)}
	}
}

// submitSignup registers the account, then restores the session from the
// token the registration stored.
func (m Model) submitSignup() tea.Cmd {
	backend, s := m.backend, m.session
	email := m.authForm.value(fieldEmail)
	password := m.authForm.inputs[fieldPassword].Value()
	account := m.authForm.value(fieldAccount)
	return func() tea.Msg {
		ctx := context.Background()
		if _, err := backend.Register(ctx, email, password, account); err != nil {
			logger.Warn("Sign up failed", logger.F("email", email), logger.F("error", err))
			return sessionMsg{action: sessionSignup, err: err}
		}
		if s == nil {
			return sessionMsg{action: sessionSignup}
		}
		return sessionMsg{action: sessionSignup, err: s.Start(ctx)}
	}
}

func (m Model) renderAuthForm() string {
	f := m.authForm
	var b strings.Builder

	title := "Log in"
	if f.signup {
		title = "Create an account"
	}
	b.WriteString(SectionStyle.Render(title) + "\n\n")

	labels := []string{"Email", "Password", "Account name"}
	for i := 0; i < f.fieldCount(); i++ {
		label := HelpStyle.Render(labels[i])
		if i == f.focused {
			label = TabActiveStyle.Render(labels[i])
		}
		b.WriteString(label + "\n" + f.inputs[i].View() + "\n")
		if i == fieldEmail {
			if hint := renderEmailValidation(f.inputs[fieldEmail].Value(), f.emailLeft); hint != "" {
				b.WriteString(hint + "\n")
			}
		}
		b.WriteString("\n")
	}

	switch {
	case f.submitting && f.signup:
		b.WriteString(HelpStyle.Render("Creating account...") + "\n")
	case f.submitting:
		b.WriteString(HelpStyle.Render("Logging in...") + "\n")
	case f.err != "":
		b.WriteString(ErrorTextStyle.Render(f.err) + "\n")
	}

	b.WriteString("\n" + HelpStyle.Render("tab next field · enter submit · esc back"))
	return ModalStyle.Render(b.String())
}
