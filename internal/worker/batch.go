package worker

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ppiankov/isnad/internal/model"
)

// Runner analyzes one narration end to end
type Runner interface {
	Run(ctx context.Context, text string) (*model.Report, error)
}

// ItemResult is the outcome for one narration
type ItemResult struct {
	Index  int
	Text   string
	Report *model.Report
	Error  error
}

// BatchProcessor analyzes many narrations concurrently
type BatchProcessor struct {
	runner      Runner
	concurrency int
	limiter     *Limiter
	key         string
}

// NewBatchProcessor creates a batch processor. limiter may be nil.
func NewBatchProcessor(runner Runner, concurrency int, limiter *Limiter, key string) *BatchProcessor {
	return &BatchProcessor{
		runner:      runner,
		concurrency: concurrency,
		limiter:     limiter,
		key:         key,
	}
}

// Process analyzes texts and returns results in input order.
// Items never submitted because ctx was cancelled carry ctx's error.
func (b *BatchProcessor) Process(ctx context.Context, texts []string) []*ItemResult {
	if len(texts) == 0 {
		return []*ItemResult{}
	}

	pool := NewPool[*ItemResult](ctx, b.concurrency)
	pool.Start()

	go func() {
		for i, text := range texts {
			if !pool.Submit(b.analyze(i, text)) {
				break
			}
		}
		pool.Close()
	}()

	out := make([]*ItemResult, len(texts))
	for item := range pool.Results() {
		out[item.Index] = item
	}

	for i := range out {
		if out[i] == nil {
			err := ctx.Err()
			if err == nil {
				err = fmt.Errorf("not processed")
			}
			out[i] = &ItemResult{Index: i, Text: texts[i], Error: err}
		}
	}

	return out
}

// analyze waits for the provider's rate limit, then runs one narration
func (b *BatchProcessor) analyze(index int, text string) Task[*ItemResult] {
	return func(ctx context.Context) *ItemResult {
		item := &ItemResult{Index: index, Text: text}
		if b.limiter != nil {
			if err := b.limiter.Wait(ctx, b.key); err != nil {
				item.Error = fmt.Errorf("rate limit: %w", err)
				return item
			}
		}
		item.Report, item.Error = b.runner.Run(ctx, text)
		return item
	}
}

// ReadNarrationsFile reads narrations from a file, see ReadNarrations
func ReadNarrationsFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return ReadNarrations(file)
}

// ReadNarrations splits input into narrations: one per paragraph, paragraphs
// separated by blank lines, lines starting with # ignored. Lines within a
// paragraph are joined with a single space. Duplicates are kept once.
func ReadNarrations(r io.Reader) ([]string, error) {
	var (
		texts   []string
		current []string
		seen    = make(map[string]bool)
	)

	flush := func() {
		if len(current) == 0 {
			return
		}
		text := strings.Join(current, " ")
		current = current[:0]
		if !seen[text] {
			seen[text] = true
			texts = append(texts, text)
		}
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, "#") {
			continue
		}
		if line == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan input: %w", err)
	}

	return texts, nil
}
