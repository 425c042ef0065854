// Probe program for negation handling.
// Sends well-known narrations with an inserted negation and prints what the
// model makes of them. A sound model should not rate these sahih.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ppiankov/isnad/internal/analysis"
	"github.com/ppiankov/isnad/internal/llm"
	"github.com/ppiankov/isnad/internal/model"
	"github.com/ppiankov/isnad/internal/present"
)

var probes = []struct {
	original string
	negated  string
}{
	{"إنما الأعمال بالنيات", "ما الأعمال بالنيات"},
	{"من كذب علي متعمدا فليتبوأ مقعده من النار", "من كذب علي متعمدا فلا يتبوأ مقعده من النار"},
	{"المسلم من سلم المسلمون من لسانه ويده", "ليس المسلم من سلم المسلمون من لسانه ويده"},
	{"الدين النصيحة", "ليس الدين النصيحة"},
}

func main() {
	_ = godotenv.Load()

	provider := os.Getenv("ISNAD_LLM_PROVIDER")
	if provider == "" {
		provider = "gemini"
	}
	cfg := model.DefaultConfig()
	cfg.LLM.Provider = provider
	cfg.LLM.Model = os.Getenv("ISNAD_LLM_MODEL")
	cfg.LLM.APIKey = os.Getenv("ISNAD_API_KEY")
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("ISNAD_LLM_API_KEY")
	}
	llm.ResolveCredential(&cfg.LLM)

	a, err := analysis.NewAnalyzer(llm.ConfigFromModel(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("=== Negation Probe (%s/%s) ===\n\n", a.ProviderName(), a.Model())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	flagged := 0
	for _, p := range probes {
		fmt.Printf("Original: %s\n", p.original)
		fmt.Printf("Negated:  %s\n", p.negated)
		fmt.Println(strings.Repeat("-", 60))

		res, err := a.Evaluate(ctx, p.negated)
		if err != nil {
			fmt.Printf("  error: %v\n\n", err)
			continue
		}

		class := present.MustSeverityClass(res.Verdict)
		fmt.Printf("  verdict:    %s (%s, %s)\n", res.Verdict, res.Verdict.Code(), class)
		fmt.Printf("  confidence: %.0f%%\n", res.ConfidenceScore)
		fmt.Printf("  quranic:    %.2f\n", res.QuranicConsistency)
		if res.Verdict == model.VerdictSahih {
			flagged++
			fmt.Println("  ⚠️  negated text rated sahih")
		}
		fmt.Println()
	}

	fmt.Printf("=== %d/%d negated narrations rated sahih ===\n", flagged, len(probes))
}
