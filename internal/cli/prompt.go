package cli

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/trayflow/internal/cli/formatter"
	"github.com/alexanderramin/trayflow/internal/domain"
)

// Prompter asks the operator for input the flags did not supply.
type Prompter interface {
	LossReason() (domain.LossReason, string, error)
	Confirm(title string) (bool, error)
}

// HuhPrompter shows terminal forms.
type HuhPrompter struct{}

func trayflowHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// lossReasonOptions lists the reasons in the order the picker shows them.
var lossReasonOptions = []domain.LossReason{
	domain.LossMold, domain.LossFungal, domain.LossPest,
	domain.LossContamination, domain.LossOperatorError, domain.LossOther,
}

func (HuhPrompter) LossReason() (domain.LossReason, string, error) {
	var reason domain.LossReason
	var note string
	opts := make([]huh.Option[domain.LossReason], len(lossReasonOptions))
	for i, r := range lossReasonOptions {
		opts[i] = huh.NewOption(string(r), r)
	}
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[domain.LossReason]().
				Title("Why was the tray lost?").
				Options(opts...).
				Value(&reason),
			huh.NewInput().
				Title("Note").
				Placeholder("optional").
				Value(&note),
		),
	).WithTheme(trayflowHuhTheme()).WithShowHelp(false)
	if err := form.Run(); err != nil {
		return "", "", err
	}
	return reason, note, nil
}

func (HuhPrompter) Confirm(title string) (bool, error) {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).WithTheme(trayflowHuhTheme()).WithShowHelp(false)
	if err := form.Run(); err != nil {
		return false, err
	}
	return ok, nil
}
