package clarify

import "ShopAssistant/app/services/assistant/internal/vocab"

type Style string

const (
	StyleBrief    Style = "brief"
	StyleNormal   Style = "normal"
	StyleDetailed Style = "detailed"
)

type Patience string

const (
	PatienceLow    Patience = "low"
	PatienceNormal Patience = "normal"
)

type Signal struct {
	Style    Style
	Patience Patience
}

const (
	briefWords    = 4
	detailedWords = 20
)

// DetectStyle infers how the user likes to talk from their latest message.
func DetectStyle(msg string) Signal {
	sig := Signal{Style: StyleNormal, Patience: PatienceNormal}
	if vocab.ContainsAny(msg, vocab.Impatience) {
		sig.Patience = PatienceLow
		sig.Style = StyleBrief
		return sig
	}
	switch n := vocab.WordCount(msg); {
	case n <= briefWords:
		sig.Style = StyleBrief
	case n >= detailedWords:
		sig.Style = StyleDetailed
	}
	return sig
}
