// Package present maps verdicts to display categories and terminal styles.
package present

import (
	"fmt"

	"github.com/ppiankov/isnad/internal/model"
)

// SeverityClass maps a verdict to its display category.
// A verdict outside the enumeration means validation was skipped upstream;
// it is reported as a ContractViolation and must not be recovered.
func SeverityClass(v model.Verdict) (model.Class, error) {
	switch v {
	case model.VerdictSahih:
		return model.ClassStrong, nil
	case model.VerdictHasan:
		return model.ClassModerate, nil
	case model.VerdictGharib:
		return model.ClassUncertain, nil
	case model.VerdictMawdu:
		return model.ClassRejected, nil
	default:
		return "", &model.ContractViolation{
			Field:  "verdict",
			Reason: fmt.Sprintf("no severity class for %q", string(v)),
		}
	}
}

// MustSeverityClass is SeverityClass for verdicts that already passed validation
func MustSeverityClass(v model.Verdict) model.Class {
	c, err := SeverityClass(v)
	if err != nil {
		panic(err)
	}
	return c
}
