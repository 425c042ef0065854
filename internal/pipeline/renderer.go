package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/isnad/internal/llm"
	"github.com/ppiankov/isnad/internal/model"
	"github.com/ppiankov/isnad/internal/present"
)

const barWidth = 20

// Renderer writes reports as JSON, YAML, Markdown or a terminal summary
type Renderer struct {
	styles        *present.Styles
	includeFooter bool
}

// NewRenderer creates a renderer. A nil styles means plain output.
func NewRenderer(styles *present.Styles, includeFooter bool) *Renderer {
	if styles == nil {
		styles = present.NewStyles(false)
	}
	return &Renderer{styles: styles, includeFooter: includeFooter}
}

// WriteJSON encodes the report as indented JSON
func (r *Renderer) WriteJSON(w io.Writer, report *model.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(report)
}

// WriteYAML encodes the report as YAML
func (r *Renderer) WriteYAML(w io.Writer, report *model.Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return err
	}
	return enc.Close()
}

// RenderJSON writes the report to a JSON file
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	return writeFile(path, func(w io.Writer) error { return r.WriteJSON(w, report) })
}

// RenderMarkdown writes the report to a Markdown file
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	return writeFile(path, func(w io.Writer) error { return r.WriteMarkdown(w, report) })
}

// RenderHTML writes the report to a standalone HTML file
func (r *Renderer) RenderHTML(report *model.Report, path string) error {
	return writeFile(path, func(w io.Writer) error { return r.WriteHTML(w, report) })
}

// WriteHTML renders the Markdown report as a complete HTML page
func (r *Renderer) WriteHTML(w io.Writer, report *model.Report) error {
	var md bytes.Buffer
	if err := r.writeMarkdown(&md, report, escapeMarkdown); err != nil {
		return err
	}

	// parsers keep state, one per document
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: fmt.Sprintf("isnad: %s", report.Result.Verdict.Code()),
		Flags: html.CommonFlags | html.CompletePage | html.SkipHTML | html.Safelink,
	})

	_, err := w.Write(markdown.ToHTML(md.Bytes(), p, renderer))
	return err
}

// WriteMarkdown renders the report as Markdown
func (r *Renderer) WriteMarkdown(w io.Writer, report *model.Report) error {
	return r.writeMarkdown(w, report, func(s string) string { return s })
}

// writeMarkdown passes every caller or model supplied string through esc
func (r *Renderer) writeMarkdown(w io.Writer, report *model.Report, esc func(string) string) error {
	res := report.Result
	var b strings.Builder

	fmt.Fprintf(&b, "# %s (%s)\n\n", res.Verdict, res.Verdict.Code())
	fmt.Fprintf(&b, "> %s\n\n", esc(report.Input))

	if report.Degraded {
		b.WriteString("**Degraded:** the external model did not return a usable judgment.\n\n")
	}

	b.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Severity | %s |\n", report.Severity)
	fmt.Fprintf(&b, "| Confidence | %s |\n", formatPercent(res.ConfidenceScore))
	fmt.Fprintf(&b, "| Isnad | %.2f |\n", res.IsnadScore)
	fmt.Fprintf(&b, "| Matn | %.2f |\n", res.MatnScore)
	fmt.Fprintf(&b, "| Quranic consistency | %.2f |\n\n", res.QuranicConsistency)

	b.WriteString("## Radar\n\n| Axis | Value |\n|---|---|\n")
	for _, p := range report.Radar {
		fmt.Fprintf(&b, "| %s | %s |\n", p.Label, formatPercent(p.Value))
	}

	b.WriteString("\n## Comparison\n\n| Bar | Value |\n|---|---|\n")
	for _, p := range report.Comparison {
		fmt.Fprintf(&b, "| %s | %s |\n", p.Label, formatPercent(p.Value))
	}

	if len(res.NarratorChain) > 0 {
		b.WriteString("\n## Chain\n\n")
		b.WriteString(esc(chainLine(res.NarratorChain, report.Chain, "←")))
		b.WriteString("\n")
	}

	if len(res.Narrators) > 0 {
		b.WriteString("\n## Narrators\n\n| Name | Reliability | Status | Biography |\n|---|---|---|---|\n")
		for _, n := range res.Narrators {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", esc(n.Name), formatPercent(n.ReliabilityScore), esc(n.Status), esc(n.BiographySnippet))
		}
	}

	fmt.Fprintf(&b, "\n## Reasoning\n\n%s\n", esc(res.Reasoning))
	fmt.Fprintf(&b, "\n## Ruling formula\n\n%s\n", codeSpan(res.MathFormula))
	fmt.Fprintf(&b, "\n## Orthogonality check\n\n%s\n", esc(res.OrthogonalityCheck))

	b.WriteString("\n## Reference formulas\n\n")
	for _, f := range llm.ReferenceFormulas {
		fmt.Fprintf(&b, "- `%s`\n", f)
	}

	if r.includeFooter {
		fmt.Fprintf(&b, "\n---\n\n_Report %s, %s via %s. Automated judgment; verify with a qualified scholar._\n",
			report.ID, report.AnalyzedAt.Format("2006-01-02 15:04 MST"), esc(providerLabel(report)))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteSummary prints the terminal view of a report
func (r *Renderer) WriteSummary(w io.Writer, report *model.Report) error {
	s := r.styles
	res := report.Result
	var b strings.Builder

	verdict := fmt.Sprintf("%s  %s", res.Verdict, res.Verdict.Code())
	fmt.Fprintf(&b, "%s  %s\n", s.Class(report.Severity).Render(verdict), s.Muted.Render("["+string(report.Severity)+"]"))
	if report.Degraded {
		fmt.Fprintf(&b, "%s\n", s.Muted.Render("degraded: "+report.Failure))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "%s\n", s.Header.Render("Radar"))
	for _, p := range report.Radar {
		fmt.Fprintf(&b, "  %s %s %s\n", padLabel(s.Label.Render(p.Label), p.Label), r.bar(p.Value, s.BarNeutral), formatPercent(p.Value))
	}

	fmt.Fprintf(&b, "\n%s\n", s.Header.Render("Comparison"))
	for _, p := range report.Comparison {
		fmt.Fprintf(&b, "  %s %s %s\n", padLabel(s.Label.Render(p.Label), p.Label), r.bar(p.Value, s.Tone(p.Tone)), formatPercent(p.Value))
	}

	if len(res.NarratorChain) > 0 {
		fmt.Fprintf(&b, "\n%s\n  %s\n", s.Header.Render("Chain"), chainLine(res.NarratorChain, report.Chain, s.Connector))
	}

	if len(res.Narrators) > 0 {
		fmt.Fprintf(&b, "\n%s\n", s.Header.Render("Narrators"))
		for _, n := range res.Narrators {
			fmt.Fprintf(&b, "  %s  %s  %s\n", n.Name, formatPercent(n.ReliabilityScore), s.Muted.Render(n.Status))
		}
	}

	fmt.Fprintf(&b, "\n%s\n  %s\n", s.Header.Render("Reasoning"), res.Reasoning)
	fmt.Fprintf(&b, "\n%s\n  %s\n", s.Header.Render("Formula"), s.Formula.Render(res.MathFormula))
	fmt.Fprintf(&b, "\n%s\n  %s\n", s.Header.Render("Orthogonality"), res.OrthogonalityCheck)

	fmt.Fprintf(&b, "\n%s\n", s.Muted.Render(strings.Join(llm.ReferenceFormulas, "   ")))

	_, err := io.WriteString(w, b.String())
	return err
}

func (r *Renderer) bar(value float64, fill lipgloss.Style) string {
	n := int(math.Round(value / 100 * barWidth))
	if n < 0 {
		n = 0
	}
	if n > barWidth {
		n = barWidth
	}
	return fill.Render(strings.Repeat(r.styles.BarFill, n)) + r.styles.Muted.Render(strings.Repeat(r.styles.BarEmpty, barWidth-n))
}

// chainLine joins the chain with one connector per link
func chainLine(chain []string, links []model.Link, connector string) string {
	if len(links) == 0 {
		return strings.Join(chain, "")
	}
	var b strings.Builder
	b.WriteString(links[0].From)
	for _, l := range links {
		fmt.Fprintf(&b, " %s %s", connector, l.To)
	}
	return b.String()
}

func padLabel(rendered, raw string) string {
	const width = 16
	pad := width - len([]rune(raw))
	if pad < 1 {
		pad = 1
	}
	return rendered + strings.Repeat(" ", pad)
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.0f%%", v)
}

// escapeMarkdown backslash-escapes every character the Markdown parser
// would otherwise read as markup or raw HTML
func escapeMarkdown(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if bytes.IndexByte(parser.EscapeChars, s[i]) >= 0 {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// codeSpan fences s with one more backtick than its longest backtick run
func codeSpan(s string) string {
	longest, run := 0, 0
	for _, c := range s {
		if c == '`' {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}
	fence := strings.Repeat("`", longest+1)
	if longest > 0 {
		return fence + " " + s + " " + fence
	}
	return fence + s + fence
}

func providerLabel(report *model.Report) string {
	if report.Model == "" {
		return report.Provider
	}
	return report.Provider + "/" + report.Model
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
