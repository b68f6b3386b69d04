package clarify

import (
	"fmt"
	"strings"

	"ShopAssistant/app/services/assistant/internal/state"
	"ShopAssistant/app/services/assistant/internal/vocab"
)

var briefTemplates = map[state.Attribute]string{
	state.AttrCategory: "What are you shopping for?",
	state.AttrSize:     "What size?",
	state.AttrBudget:   "Any budget in mind?",
	state.AttrColor:    "Any color preference?",
	state.AttrStyle:    "What style?",
	state.AttrBrand:    "Any favorite brand?",
}

var normalTemplates = map[state.Attribute]string{
	state.AttrCategory: "What kind of clothing are you looking for today? For example %s.",
	state.AttrSize:     "What size should I look for in %s?",
	state.AttrBudget:   "Do you have a budget in mind for %s?",
	state.AttrColor:    "Any color you'd like for %s, or is it for a particular occasion?",
	state.AttrStyle:    "What style are you going for with %s, casual or more formal?",
	state.AttrBrand:    "Any brands you prefer for %s?",
}

const detailedSuffix = " Knowing this helps me skip things that won't suit you."

func template(attr state.Attribute, style Style, c state.Criteria, narrowing bool) string {
	if narrowing {
		if style == StyleBrief {
			return "Want me to narrow these down by price or color?"
		}
		return fmt.Sprintf("I found quite a few %s. Should I narrow them down by price or color?", subject(c))
	}
	if style == StyleBrief {
		return briefTemplates[attr]
	}
	tpl, ok := normalTemplates[attr]
	if !ok {
		return "What else should I know to find the right thing for you?"
	}
	var text string
	if attr == state.AttrCategory {
		text = fmt.Sprintf(tpl, strings.Join(vocab.CategoryNames()[:3], ", "))
	} else {
		text = fmt.Sprintf(tpl, subject(c))
	}
	if style == StyleDetailed {
		text += detailedSuffix
	}
	return text
}

func subject(c state.Criteria) string {
	if c.Category != "" {
		return c.Category
	}
	return "these"
}
