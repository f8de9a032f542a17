package cli

import (
	"context"
	"fmt"
	"strings"

	"coachflow/internal/cli/formatter"
	"coachflow/internal/service"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// chatView is the interactive session loop: one textinput, a scrollback of
// coach and user messages, slash commands for skip and quit.
type chatView struct {
	app       *App
	sessionID string
	input     textinput.Model
	messages  []string
	step      string
	closed    bool
}

func newChatView(app *App, sessionID, frameworkName, stepName string) *chatView {
	ti := textinput.New()
	ti.Focus()
	ti.Prompt = ""
	ti.CharLimit = 1000

	return &chatView{
		app:       app,
		sessionID: sessionID,
		input:     ti,
		step:      stepName,
		messages:  []string{formatter.FormatChatWelcome(frameworkName, stepName)},
	}
}

// runChat drives the chat view to completion.
func runChat(app *App, sessionID, frameworkName, stepName string) error {
	_, err := tea.NewProgram(newChatView(app, sessionID, frameworkName, stepName)).Run()
	return err
}

func (v *chatView) Init() tea.Cmd {
	return textinput.Blink
}

func (v *chatView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			return v, tea.Quit
		case tea.KeyEnter:
			input := strings.TrimSpace(v.input.Value())
			v.input.Reset()
			if input == "" {
				return v, nil
			}
			return v.handleInput(input)
		}
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *chatView) View() string {
	var b strings.Builder

	for _, msg := range v.messages {
		b.WriteString(msg)
		b.WriteString("\n")
	}
	if v.closed {
		return b.String()
	}

	prompt := formatter.StylePurple.Render(v.step) + formatter.Dim("> ")
	b.WriteString(prompt)
	b.WriteString(v.input.View())
	return b.String()
}

func (v *chatView) handleInput(input string) (tea.Model, tea.Cmd) {
	switch strings.ToLower(input) {
	case "/quit", "/exit", "/q", "quit", "exit":
		return v, tea.Quit
	case "/skip":
		out, err := v.app.Sessions.Skip(context.Background(), v.sessionID)
		if err != nil {
			v.messages = append(v.messages, formatter.StyleRed.Render("error: ")+err.Error())
			return v, nil
		}
		v.messages = append(v.messages, formatter.Dim("(skipped)"))
		return v.applyOutcome(out)
	}

	v.messages = append(v.messages, formatter.Dim("you   │ ")+input)

	out, err := v.app.Sessions.Turn(context.Background(), v.sessionID, input)
	if err != nil {
		v.messages = append(v.messages, formatter.StyleRed.Render("error: ")+err.Error())
		return v, nil
	}
	return v.applyOutcome(out)
}

func (v *chatView) applyOutcome(out *service.TurnOutcome) (tea.Model, tea.Cmd) {
	if out.CompletedStep != "" {
		v.messages = append(v.messages,
			formatter.StyleGreen.Render(fmt.Sprintf("✓ completed %q", out.CompletedStep)))
	}
	v.messages = append(v.messages, formatter.FormatCoachReply(out.CoachReply))

	if out.SessionClosed {
		v.closed = true
		return v, tea.Quit
	}
	v.step = out.CurrentStep
	return v, nil
}
