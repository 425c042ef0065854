package present

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/ppiankov/isnad/internal/model"
)

// Styles contains the lipgloss styles for terminal reports
type Styles struct {
	enabled bool

	// Per severity class
	Strong    lipgloss.Style
	Moderate  lipgloss.Style
	Uncertain lipgloss.Style
	Rejected  lipgloss.Style

	// Bar fills
	BarStrong  lipgloss.Style
	BarWeak    lipgloss.Style
	BarNeutral lipgloss.Style

	Header  lipgloss.Style
	Label   lipgloss.Style
	Muted   lipgloss.Style
	Formula lipgloss.Style

	// Chain connector (degraded to ASCII when not interactive)
	Connector string
	BarFill   string
	BarEmpty  string
}

// NewStyles creates a new Styles instance.
// When enabled is false, styles return text unchanged (for non-TTY output).
func NewStyles(enabled bool) *Styles {
	s := &Styles{enabled: enabled}

	if enabled {
		s.Strong = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))    // Green
		s.Moderate = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))  // Teal
		s.Uncertain = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")) // Amber
		s.Rejected = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))   // Red

		s.BarStrong = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
		s.BarWeak = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
		s.BarNeutral = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

		s.Header = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
		s.Label = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
		s.Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.Formula = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("12"))

		s.Connector = "←"
		s.BarFill = "█"
		s.BarEmpty = "░"
	} else {
		s.Strong = lipgloss.NewStyle()
		s.Moderate = lipgloss.NewStyle()
		s.Uncertain = lipgloss.NewStyle()
		s.Rejected = lipgloss.NewStyle()

		s.BarStrong = lipgloss.NewStyle()
		s.BarWeak = lipgloss.NewStyle()
		s.BarNeutral = lipgloss.NewStyle()

		s.Header = lipgloss.NewStyle()
		s.Label = lipgloss.NewStyle()
		s.Muted = lipgloss.NewStyle()
		s.Formula = lipgloss.NewStyle()

		s.Connector = "<-"
		s.BarFill = "#"
		s.BarEmpty = "."
	}

	return s
}

// Enabled returns whether styling is enabled
func (s *Styles) Enabled() bool {
	return s.enabled
}

// Class returns the style for a severity class
func (s *Styles) Class(c model.Class) lipgloss.Style {
	switch c {
	case model.ClassStrong:
		return s.Strong
	case model.ClassModerate:
		return s.Moderate
	case model.ClassUncertain:
		return s.Uncertain
	case model.ClassRejected:
		return s.Rejected
	default:
		return lipgloss.NewStyle()
	}
}

// Tone returns the fill style for a comparison bar
func (s *Styles) Tone(t model.Tone) lipgloss.Style {
	switch t {
	case model.ToneStrong:
		return s.BarStrong
	case model.ToneWeak:
		return s.BarWeak
	default:
		return s.BarNeutral
	}
}

// IsTerminal reports whether w is an interactive terminal
func IsTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}
