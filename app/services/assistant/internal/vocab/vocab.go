// Package vocab is the one place keyword lists live. Classifier fallbacks,
// criteria extraction, selection parsing and the try-on categoriser all read from here.
package vocab

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

var (
	Greetings = []string{"hi", "hello", "hey", "hiya", "howdy", "greetings", "yo",
		"good morning", "good afternoon", "good evening"}

	Urgency = []string{"urgent", "asap", "emergency", "speak to a human", "talk to a human",
		"real person", "manager", "refund", "scam", "fraud", "complaint", "charged twice",
		"unacceptable", "lawsuit"}

	Impatience = []string{"hurry", "quick", "quickly", "fast", "just show", "just give",
		"whatever", "dont care", "do not care", "stop asking", "enough questions", "anything is fine",
		"already told"}

	Questions = []string{"how", "what", "should i", "recommend", "why", "which", "does", "do you"}

	SelectionVerbs = []string{"want", "add", "choose", "take", "pick", "select", "grab"}

	SearchVerbs = []string{"looking for", "look for", "find", "show me", "search", "need",
		"shopping for", "get me", "browse", "do you have", "any"}

	Checkout = []string{"checkout", "check out", "pay", "purchase", "place order", "place my order",
		"buy now", "proceed to payment", "ready to buy", "complete order", "complete my order"}

	CartWords = []string{"cart", "basket"}

	CartRemove = []string{"remove", "delete", "take out", "drop", "get rid of"}
	CartClear  = []string{"clear", "empty", "start over", "remove everything", "remove all"}
	CartView   = []string{"show", "view", "see", "whats in", "what is in", "check", "look at", "list"}
	CartAdd    = []string{"add", "put", "throw in"}

	Accept = []string{"yes", "sure", "ok", "okay", "yeah", "yep", "sounds good",
		"why not", "go ahead", "yes please", "sure thing"}

	Decline = []string{"no", "nope", "nah", "no thanks", "not now", "pass", "skip",
		"not interested", "maybe later", "not really"}

	Styles = []string{"casual", "formal", "sporty", "athletic", "streetwear", "vintage",
		"minimalist", "elegant", "oversized", "slim", "business", "boho", "classic", "preppy"}

	Brands = []string{"nike", "adidas", "puma", "zara", "uniqlo", "levis", "gap", "vans",
		"converse", "champion", "carhartt", "patagonia", "new balance", "the north face"}

	Ordinals = map[string]int{
		"first": 1, "second": 2, "third": 3, "fourth": 4, "fifth": 5,
		"sixth": 6, "seventh": 7, "eighth": 8, "ninth": 9, "tenth": 10,
	}
)

// Categories maps each canonical category to its synonyms.
var Categories = map[string][]string{
	"shirts":      {"shirt", "shirts", "tee", "tees", "t shirt", "t shirts", "tshirt", "tshirts", "top", "tops", "blouse", "blouses", "polo", "polos", "button down"},
	"hoodies":     {"hoodie", "hoodies", "hoody", "sweatshirt", "sweatshirts", "pullover", "pullovers"},
	"pants":       {"pants", "pant", "jeans", "trousers", "chinos", "joggers", "leggings", "sweatpants", "slacks"},
	"shorts":      {"shorts", "bermudas"},
	"shoes":       {"shoes", "shoe", "sneakers", "sneaker", "boots", "boot", "trainers", "heels", "sandals", "loafers"},
	"jackets":     {"jacket", "jackets", "coat", "coats", "blazer", "blazers", "parka", "windbreaker", "bomber"},
	"dresses":     {"dress", "dresses", "gown", "gowns", "skirt", "skirts"},
	"accessories": {"accessories", "accessory", "hat", "hats", "cap", "caps", "belt", "belts", "bag", "bags", "scarf", "scarves", "watch", "sunglasses", "socks", "beanie", "jewelry"},
}

// categoryOrder fixes iteration order so matching is deterministic.
var categoryOrder = []string{"hoodies", "jackets", "dresses", "shorts", "pants", "shoes", "accessories", "shirts"}

// Colors maps spellings onto a canonical color.
var Colors = map[string]string{
	"black": "black", "white": "white", "red": "red", "blue": "blue", "navy": "navy",
	"green": "green", "grey": "grey", "gray": "grey", "beige": "beige", "brown": "brown",
	"pink": "pink", "purple": "purple", "yellow": "yellow", "orange": "orange",
	"cream": "cream", "olive": "olive", "khaki": "khaki", "burgundy": "burgundy", "tan": "tan",
}

var (
	sizeAfterWord = regexp.MustCompile(`\bsize\s*(xxxl|xxl|xl|xxs|xs|s|m|l|\d{1,2})\b`)
	sizeToken     = regexp.MustCompile(`\b(xxxl|xxl|xl|xxs|xs)\b`)
	budgetPhrase  = regexp.MustCompile(`(?:under|below|less than|max|maximum|up to|budget(?: of| is)?|no more than)\s*\$?\s*(\d+(?:\.\d+)?)`)
	dollarAmount  = regexp.MustCompile(`\$\s*(\d+(?:\.\d+)?)`)
	digitPattern  = regexp.MustCompile(`\d`)
)

var sizeWords = map[string]string{
	"extra small": "XS", "extra large": "XL", "small": "S", "medium": "M", "large": "L",
}

// Normalize lowercases text, drops apostrophes and turns every other
// non-alphanumeric rune except '#', '$' and decimal points into a space.
func Normalize(text string) string {
	runes := []rune(strings.ToLower(text))
	var b strings.Builder
	b.Grow(len(runes))
	for i, r := range runes {
		switch {
		case r == '\'' || r == '’':
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '#' || r == '$':
			b.WriteRune(r)
		case r == '.' && i > 0 && i+1 < len(runes) && unicode.IsDigit(runes[i-1]) && unicode.IsDigit(runes[i+1]):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// ContainsAny reports whether text contains any of the words or phrases on word boundaries.
func ContainsAny(text string, words []string) bool {
	return firstMatch(" "+Normalize(text)+" ", words) != ""
}

func firstMatch(padded string, words []string) string {
	for _, w := range words {
		if strings.Contains(padded, " "+w+" ") {
			return w
		}
	}
	return ""
}

// WordCount counts whitespace separated tokens.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

func HasDigit(text string) bool {
	return digitPattern.MatchString(text)
}

// HasIndexMarker reports '#', digits or ordinal words.
func HasIndexMarker(text string) bool {
	if strings.Contains(text, "#") || HasDigit(text) {
		return true
	}
	padded := " " + Normalize(text) + " "
	for w := range Ordinals {
		if strings.Contains(padded, " "+w+" ") {
			return true
		}
	}
	return strings.Contains(padded, " last one ")
}

// Category returns the canonical category mentioned in text, or "".
func Category(text string) string {
	padded := " " + Normalize(text) + " "
	for _, cat := range categoryOrder {
		if firstMatch(padded, Categories[cat]) != "" {
			return cat
		}
	}
	return ""
}

// CanonicalCategory maps a free-form category onto the taxonomy, keeping unknown values as given.
func CanonicalCategory(raw string) string {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" {
		return ""
	}
	if _, ok := Categories[raw]; ok {
		return raw
	}
	if cat := Category(raw); cat != "" {
		return cat
	}
	return raw
}

func Color(text string) string {
	for _, tok := range strings.Fields(Normalize(text)) {
		if c, ok := Colors[tok]; ok {
			return c
		}
	}
	return ""
}

// Size extracts a clothing size. A message consisting of a lone size letter counts as a size answer.
func Size(text string) string {
	norm := Normalize(text)
	if m := sizeAfterWord.FindStringSubmatch(norm); m != nil {
		return strings.ToUpper(m[1])
	}
	switch norm {
	case "s", "m", "l":
		return strings.ToUpper(norm)
	}
	if m := sizeToken.FindStringSubmatch(norm); m != nil {
		return strings.ToUpper(m[1])
	}
	padded := " " + norm + " "
	for _, phrase := range []string{"extra small", "extra large", "small", "medium", "large"} {
		if strings.Contains(padded, " "+phrase+" ") {
			return sizeWords[phrase]
		}
	}
	return ""
}

// Budget returns the maximum price mentioned, as a plain number string.
func Budget(text string) string {
	norm := Normalize(text)
	if m := budgetPhrase.FindStringSubmatch(norm); m != nil {
		return m[1]
	}
	if m := dollarAmount.FindStringSubmatch(norm); m != nil {
		return m[1]
	}
	return ""
}

func Style(text string) string {
	return firstMatch(" "+Normalize(text)+" ", Styles)
}

func Brand(text string) string {
	return firstMatch(" "+Normalize(text)+" ", Brands)
}

// Synonyms returns every category synonym, longest first, for prompt building.
func Synonyms() []string {
	out := make([]string, 0, 64)
	for _, cat := range categoryOrder {
		out = append(out, Categories[cat]...)
	}
	sort.SliceStable(out, func(i, j int) bool { return len(out[i]) > len(out[j]) })
	return out
}

// CategoryNames lists the canonical categories in matching order.
func CategoryNames() []string {
	return append([]string(nil), categoryOrder...)
}
