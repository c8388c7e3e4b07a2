package prompt

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"

	"github.com/raphi011/nexus/internal/ui/styles"
)

// ConfirmResult holds the result of a confirmation prompt.
type ConfirmResult struct {
	Confirmed bool
	Cancelled bool
}

type confirmModel struct {
	prompt    string
	danger    bool
	confirmed bool
	done      bool
	cancelled bool
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "y", "Y":
		m.confirmed = true
	case "n", "N", "enter":
		// enter takes the default, which is no
		m.confirmed = false
	case "ctrl+c", "q", "esc":
		m.cancelled = true
	default:
		return m, nil
	}
	m.done = true
	return m, tea.Quit
}

func (m confirmModel) View() tea.View {
	if m.done {
		return tea.NewView("")
	}
	prompt := m.prompt
	if m.danger {
		prompt = styles.ErrorStyle.Render(prompt)
	}
	return tea.NewView(fmt.Sprintf("%s %s ", prompt, styles.MutedStyle.Render("[y/N]")))
}

// Confirm shows a yes/no prompt on stderr and returns the user's choice.
// The default answer is "no" if the user presses enter without input.
func Confirm(prompt string) (ConfirmResult, error) {
	return runConfirm(confirmModel{prompt: prompt})
}

// ConfirmDanger is Confirm with the prompt highlighted as destructive.
func ConfirmDanger(prompt string) (ConfirmResult, error) {
	return runConfirm(confirmModel{prompt: prompt, danger: true})
}

func runConfirm(model confirmModel) (ConfirmResult, error) {
	p := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	finalModel, err := p.Run()
	if err != nil {
		return ConfirmResult{}, err
	}
	m := finalModel.(confirmModel)
	return ConfirmResult{
		Confirmed: m.confirmed,
		Cancelled: m.cancelled,
	}, nil
}
