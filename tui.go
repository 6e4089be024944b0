package quiren

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	renamedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	trashedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))
	deletedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("204"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))
	promptStyle  = lipgloss.NewStyle().Bold(true)
)

// FormatPlan renders the resolved steps in the order they will run.
func FormatPlan(plan *Plan, trash bool) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Planned changes:") + "\n")
	for _, s := range plan.Steps {
		switch s.Kind {
		case StepRename:
			b.WriteString(renamedStyle.Render("  Rename: ") + fmt.Sprintf("%s -> %s\n", s.From, s.To))
		case StepDelete:
			action := "Delete: "
			if trash {
				action = "Trash: "
			}
			b.WriteString(deletedStyle.Render("  "+action) + s.From + "\n")
		}
	}
	return b.String()
}

// FormatSummary renders what a finished session did.
func FormatSummary(s Summary) string {
	var b strings.Builder
	if s.Message != "" {
		b.WriteString(headerStyle.Render(s.Message) + "\n")
	}

	renderList := func(title string, style lipgloss.Style, list []string) {
		if len(list) == 0 {
			return
		}
		b.WriteString(style.Render(title) + "\n")
		for _, f := range list {
			b.WriteString(fmt.Sprintf("  %s\n", f))
		}
	}

	renderList("Renamed:", renamedStyle, s.Renamed)
	renderList("Trashed:", trashedStyle, s.Trashed)
	renderList("Deleted:", deletedStyle, s.Deleted)

	return b.String()
}

// confirmModel is a one-keystroke yes/no prompt.
type confirmModel struct {
	prompt   string
	accepted bool
	answered bool
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "y", "Y", "enter":
			m.accepted = true
			m.answered = true
			return m, tea.Quit
		case "n", "N", "q", "esc", "ctrl+c":
			m.answered = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.answered {
		return ""
	}
	return promptStyle.Render(m.prompt) + " [Y/n] "
}

// ConfirmPlan shows the plan and asks for confirmation. Without a
// terminal on stdin the prompt degrades to reading one line.
func ConfirmPlan(plan *Plan, trash bool) (bool, error) {
	fmt.Print(FormatPlan(plan, trash))

	if !isatty.IsTerminal(os.Stdin.Fd()) {
		fmt.Print("Confirm? [Y/n] ")
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		line = strings.ToLower(strings.TrimSpace(line))
		return line == "" || line == "y" || line == "yes", nil
	}

	m, err := tea.NewProgram(confirmModel{prompt: "Confirm?"}).Run()
	if err != nil {
		return false, Wrap(err, ErrIO, "confirmation prompt failed")
	}
	return m.(confirmModel).accepted, nil
}

// promptRetry announces a failure and blocks until the user presses
// enter, so a broken editor setup cannot spin the retry loop.
func promptRetry(err error) {
	fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error: %v", err)))
	fmt.Fprint(os.Stderr, "Press enter to retry (interrupt to abort) ")
	_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
}
