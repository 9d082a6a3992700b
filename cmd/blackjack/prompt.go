package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// promptModel asks whether to play another batch of rounds. Enter repeats
// the last batch size, a number changes it, q or n stops.
type promptModel struct {
	input    textinput.Model
	rounds   int
	quit     bool
	done     bool
	errorMsg string
}

func newPromptModel(rounds int) promptModel {
	input := textinput.New()
	input.Placeholder = strconv.Itoa(rounds)
	input.CharLimit = 12
	input.Width = 12
	input.Focus()
	return promptModel{input: input, rounds: rounds}
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quit = true
			m.done = true
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptModel) submit() (tea.Model, tea.Cmd) {
	value := strings.ToLower(strings.TrimSpace(m.input.Value()))
	switch value {
	case "", "y", "yes":
	case "q", "quit", "n", "no":
		m.quit = true
	default:
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			m.errorMsg = fmt.Sprintf("%q is not a round count", value)
			m.input.SetValue("")
			return m, nil
		}
		m.rounds = n
	}
	m.done = true
	return m, tea.Quit
}

func (m promptModel) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	b.WriteString(promptStyle.Render(fmt.Sprintf("Play %d more rounds? (enter to continue, a number to change, q to stop)", m.rounds)))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.errorMsg != "" {
		b.WriteString(errorStyle.Render(m.errorMsg))
		b.WriteString("\n")
	}
	return b.String()
}

// askContinue runs the prompt and returns the next batch size, or false when
// the user is done.
func askContinue(rounds int) (int, bool, error) {
	final, err := tea.NewProgram(newPromptModel(rounds)).Run()
	if err != nil {
		return 0, false, err
	}
	m := final.(promptModel)
	return m.rounds, !m.quit, nil
}
