package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/isnad/internal/model"
)

// MockRunner implements Runner
type MockRunner struct {
	ShouldError bool
	Delay       time.Duration
	calls       atomic.Int32
}

func (m *MockRunner) Run(ctx context.Context, text string) (*model.Report, error) {
	m.calls.Add(1)
	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.ShouldError {
		return nil, errors.New("analysis error")
	}
	return &model.Report{Input: text, Result: model.Fallback()}, nil
}

func TestBatchProcessor_Process(t *testing.T) {
	runner := &MockRunner{Delay: 5 * time.Millisecond}
	processor := NewBatchProcessor(runner, 2, nil, "")

	texts := []string{"الأول", "الثاني", "الثالث", "الرابع"}
	results := processor.Process(context.Background(), texts)

	if len(results) != len(texts) {
		t.Fatalf("expected %d results, got %d", len(texts), len(results))
	}
	for i, res := range results {
		if res.Error != nil {
			t.Errorf("unexpected error for item %d: %v", i, res.Error)
			continue
		}
		if res.Index != i || res.Report.Input != texts[i] {
			t.Errorf("result %d out of order: index=%d input=%q", i, res.Index, res.Report.Input)
		}
	}
}

func TestBatchProcessor_Process_Error(t *testing.T) {
	processor := NewBatchProcessor(&MockRunner{ShouldError: true}, 2, nil, "")

	results := processor.Process(context.Background(), []string{"نص"})
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Error == nil {
		t.Error("expected error, got nil")
	}
	if results[0].Report != nil {
		t.Error("expected nil report on error")
	}
}

func TestBatchProcessor_Process_Empty(t *testing.T) {
	processor := NewBatchProcessor(&MockRunner{}, 2, nil, "")
	if results := processor.Process(context.Background(), nil); len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestBatchProcessor_Process_Cancelled(t *testing.T) {
	runner := &MockRunner{Delay: time.Second}
	processor := NewBatchProcessor(runner, 1, nil, "")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	results := processor.Process(ctx, []string{"أ", "ب", "ج"})
	if len(results) != 3 {
		t.Fatalf("expected a result slot per input, got %d", len(results))
	}
	for i, res := range results {
		if res == nil || res.Error == nil {
			t.Errorf("item %d: expected cancellation error", i)
		}
	}
}

func TestBatchProcessor_UsesLimiter(t *testing.T) {
	runner := &MockRunner{}
	limiter := NewLimiter(1000, 1)
	processor := NewBatchProcessor(runner, 2, limiter, "gemini")

	results := processor.Process(context.Background(), []string{"أ", "ب", "ج"})
	for _, res := range results {
		if res.Error != nil {
			t.Errorf("unexpected error: %v", res.Error)
		}
	}
	if n := runner.calls.Load(); n != 3 {
		t.Errorf("expected 3 runner calls, got %d", n)
	}
}

func TestReadNarrations(t *testing.T) {
	content := `# famous sayings
إنما الأعمال بالنيات
وإنما لكل امرئ ما نوى

# negated
ما إنما الأعمال بالنيات


إنما الأعمال بالنيات وإنما لكل امرئ ما نوى
`

	texts, err := ReadNarrations(strings.NewReader(content))
	if err != nil {
		t.Fatalf("ReadNarrations failed: %v", err)
	}

	expected := []string{
		"إنما الأعمال بالنيات وإنما لكل امرئ ما نوى",
		"ما إنما الأعمال بالنيات",
	}
	if len(texts) != len(expected) {
		t.Fatalf("expected %d narrations, got %d: %q", len(expected), len(texts), texts)
	}
	for i := range expected {
		if texts[i] != expected[i] {
			t.Errorf("narration %d: expected %q, got %q", i, expected[i], texts[i])
		}
	}
}

func TestReadNarrationsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "narrations.txt")
	if err := os.WriteFile(path, []byte("أ\n\nب\n\n# skip\n\nج\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	texts, err := ReadNarrationsFile(path)
	if err != nil {
		t.Fatalf("ReadNarrationsFile failed: %v", err)
	}
	if len(texts) != 3 {
		t.Errorf("expected 3 narrations, got %d", len(texts))
	}

	if _, err := ReadNarrationsFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}
