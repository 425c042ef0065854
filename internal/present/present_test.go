package present

import (
	"errors"
	"strings"
	"testing"

	"github.com/ppiankov/isnad/internal/model"
)

func TestSeverityClass(t *testing.T) {
	want := map[model.Verdict]model.Class{
		model.VerdictSahih:  model.ClassStrong,
		model.VerdictHasan:  model.ClassModerate,
		model.VerdictGharib: model.ClassUncertain,
		model.VerdictMawdu:  model.ClassRejected,
	}

	seen := make(map[model.Class]bool)
	for _, v := range model.Verdicts {
		c, err := SeverityClass(v)
		if err != nil {
			t.Fatalf("SeverityClass(%s) failed: %v", v.Code(), err)
		}
		if c != want[v] {
			t.Errorf("%s: expected %s, got %s", v.Code(), want[v], c)
		}
		if seen[c] {
			t.Errorf("class %s assigned twice", c)
		}
		seen[c] = true
	}
	if len(seen) != 4 {
		t.Errorf("Expected 4 distinct classes, got %d", len(seen))
	}
}

func TestSeverityClass_Invalid(t *testing.T) {
	for _, v := range []model.Verdict{"", "SAHIH", "ضعيف"} {
		_, err := SeverityClass(v)
		var cv *model.ContractViolation
		if !errors.As(err, &cv) {
			t.Errorf("%q: expected ContractViolation, got %v", v, err)
		}
	}
}

func TestMustSeverityClass_Panics(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("Expected panic")
		}
		if _, ok := r.(*model.ContractViolation); !ok {
			t.Errorf("Expected ContractViolation panic, got %T", r)
		}
	}()
	MustSeverityClass("unknown")
}

func TestStyles_Plain(t *testing.T) {
	s := NewStyles(false)
	if s.Enabled() {
		t.Error("Expected styling disabled")
	}
	if got := s.Class(model.ClassRejected).Render("موضوع"); got != "موضوع" {
		t.Errorf("Plain style should not alter text, got %q", got)
	}
	if s.Connector != "<-" || s.BarFill != "#" {
		t.Error("Expected ASCII glyphs for plain output")
	}
}

func TestStyles_Enabled(t *testing.T) {
	s := NewStyles(true)
	if !s.Enabled() {
		t.Error("Expected styling enabled")
	}
	if !strings.Contains(s.Tone(model.ToneStrong).Render("x"), "x") {
		t.Error("Rendered text lost")
	}
}

func TestIsTerminal_NonFile(t *testing.T) {
	if IsTerminal(&strings.Builder{}) {
		t.Error("A buffer is never a terminal")
	}
}
