package risk

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Classifier decides whether a rejection reason points to a forged voucher
// rather than a benign problem such as a wrong amount.
type Classifier interface {
	IsFraud(reason string) bool
}

type ClassifierFunc func(reason string) bool

func (f ClassifierFunc) IsFraud(reason string) bool { return f(reason) }

var DefaultFraudKeywords = []string{"falso", "fake", "editado", "falsificado"}

// KeywordClassifier matches keywords anywhere in the reason, ignoring case
// and accents.
type KeywordClassifier struct {
	keywords []string
}

func NewKeywordClassifier(keywords ...string) *KeywordClassifier {
	if len(keywords) == 0 {
		keywords = DefaultFraudKeywords
	}
	k := &KeywordClassifier{}
	for _, kw := range keywords {
		if f := fold(kw); f != "" {
			k.keywords = append(k.keywords, f)
		}
	}
	return k
}

func (k *KeywordClassifier) IsFraud(reason string) bool {
	r := fold(reason)
	for _, kw := range k.keywords {
		if strings.Contains(r, kw) {
			return true
		}
	}
	return false
}

func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}
