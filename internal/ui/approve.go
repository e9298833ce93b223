package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// approvalModel is the Bubble Tea model for an approve/reject decision.
type approvalModel struct {
	title    string
	fields   [][2]string
	approve  bool // cursor position: true = Approve button
	decided  bool
	approved bool
}

func newApprovalModel(title string, fields [][2]string) approvalModel {
	return approvalModel{title: title, fields: fields}
}

func (m approvalModel) Init() tea.Cmd { return nil }

func (m approvalModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "left", "h", "right", "l", "tab":
		m.approve = !m.approve
	case "y":
		m.decided, m.approved = true, true
		return m, tea.Quit
	case "n", "q", "esc", "ctrl+c":
		m.decided, m.approved = true, false
		return m, tea.Quit
	case "enter", " ":
		m.decided, m.approved = true, m.approve
		return m, tea.Quit
	}
	return m, nil
}

func (m approvalModel) View() string {
	if m.decided {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(KeyValueBlock(m.title, m.fields) + "\n\n")

	reject, approve := "  Reject  ", "  Approve  "
	if m.approve {
		sb.WriteString("  " + StyleMeta.Render(reject) + "  " + StyleSelected.Render(approve) + "\n")
	} else {
		sb.WriteString("  " + StyleSelected.Render(reject) + "  " + StyleMeta.Render(approve) + "\n")
	}

	sb.WriteString("\n")
	sb.WriteString(StyleMeta.Render("  [ ←→ ] choose   [ Enter ] confirm   [ y / n ] quick answer   [ esc ] reject") + "\n")
	return sb.String()
}

// PromptApproval shows fields under title and waits for the user to approve
// or reject. The cursor starts on Reject. Cancelling ctx closes the prompt
// and returns ctx.Err().
func PromptApproval(ctx context.Context, in io.Reader, out io.Writer, title string, fields [][2]string) (bool, error) {
	p := tea.NewProgram(newApprovalModel(title, fields),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	final, err := p.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return false, ctxErr
	}
	if err != nil {
		return false, fmt.Errorf("approval prompt: %w", err)
	}
	m, ok := final.(approvalModel)
	if !ok {
		return false, fmt.Errorf("approval prompt: unexpected model %T", final)
	}
	return m.decided && m.approved, nil
}
