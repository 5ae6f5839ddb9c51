package output

import "github.com/charmbracelet/lipgloss"

// Styles for CLI output.
var (
	colorPrimary = lipgloss.Color("#7C3AED") // Purple
	colorMuted   = lipgloss.Color("#6B7280") // Gray
	colorWarning = lipgloss.Color("#F59E0B") // Yellow
	colorError   = lipgloss.Color("#EF4444") // Red
	colorSuccess = lipgloss.Color("#10B981") // Green

	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorSuccess)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorWarning)

	styleError = lipgloss.NewStyle().
			Foreground(colorError)

	styleMuted = lipgloss.NewStyle().
			Foreground(colorMuted)
)

// Title prints a title.
func (f *Formatter) Title(text string) {
	if f.IsColorEnabled() {
		f.Println(styleTitle.Render(text))
	} else {
		f.Println(text)
	}
}

// Success prints a success message.
func (f *Formatter) Success(text string) {
	if f.IsColorEnabled() {
		f.Println(styleSuccess.Render("✓ " + text))
	} else {
		f.Println("✓ " + text)
	}
}

// Warning prints a warning message.
func (f *Formatter) Warning(text string) {
	if f.IsColorEnabled() {
		f.Println(styleWarning.Render("⚠ " + text))
	} else {
		f.Println("⚠ " + text)
	}
}

// Error prints an error message.
func (f *Formatter) Error(text string) {
	if f.IsColorEnabled() {
		f.Println(styleError.Render("✗ " + text))
	} else {
		f.Println("✗ " + text)
	}
}

// Muted prints de-emphasized text.
func (f *Formatter) Muted(text string) {
	if f.IsColorEnabled() {
		f.Println(styleMuted.Render(text))
	} else {
		f.Println(text)
	}
}
