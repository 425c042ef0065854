package model

// Verdict is the final ruling on a narration. The string value is the label
// the external model emits on the wire.
type Verdict string

const (
	VerdictSahih  Verdict = "صحيح"         // Authentic
	VerdictHasan  Verdict = "حسن"          // Acceptable
	VerdictGharib Verdict = "غريب"         // Singular / uncorroborated
	VerdictMawdu  Verdict = "موضوع / منكر" // Fabricated / rejected
)

// Verdicts lists every valid verdict in ranking order (strongest first)
var Verdicts = []Verdict{VerdictSahih, VerdictHasan, VerdictGharib, VerdictMawdu}

// VerdictLabels returns the wire labels, used for the schema enum
func VerdictLabels() []string {
	labels := make([]string, len(Verdicts))
	for i, v := range Verdicts {
		labels[i] = string(v)
	}
	return labels
}

// ParseVerdict maps a wire label to a Verdict.
// Codes ("SAHIH", ...) are not accepted: the model is constrained to the labels.
func ParseVerdict(s string) (Verdict, error) {
	v := Verdict(s)
	if !v.Valid() {
		return "", &ContractViolation{Field: "verdict", Reason: "unrecognized verdict " + quote(s)}
	}
	return v, nil
}

// Valid reports whether v is one of the four enumerated verdicts
func (v Verdict) Valid() bool {
	switch v {
	case VerdictSahih, VerdictHasan, VerdictGharib, VerdictMawdu:
		return true
	default:
		return false
	}
}

// Code returns the Latin code of the verdict
func (v Verdict) Code() string {
	switch v {
	case VerdictSahih:
		return "SAHIH"
	case VerdictHasan:
		return "HASAN"
	case VerdictGharib:
		return "GHARIB"
	case VerdictMawdu:
		return "MAWDU"
	default:
		return "INVALID"
	}
}

func (v Verdict) String() string {
	return string(v)
}

// Class is the display category a verdict maps to
type Class string

const (
	ClassStrong    Class = "strong"
	ClassModerate  Class = "moderate"
	ClassUncertain Class = "uncertain"
	ClassRejected  Class = "rejected"
)
