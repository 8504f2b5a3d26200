package chat

import "strings"

// GreetingReply is the canned response for recognized greetings.
const GreetingReply = "Hello! How can I assist you today?"

// greetings is the closed set of phrases treated as conversational
// pleasantries. Membership is exact after normalization, not semantic:
// "good morning" is not a greeting here.
var greetings = map[string]struct{}{
	"hello":       {},
	"hi":          {},
	"hii":         {},
	"hey":         {},
	"how are you": {},
}

const trailingPunctuation = "?!., "

// IsGreeting reports whether the message belongs to the fixed greeting set,
// ignoring case, surrounding whitespace and trailing punctuation. A greeting
// bypasses retrieval and the completion model entirely.
func IsGreeting(message string) bool {
	normalized := strings.ToLower(strings.TrimSpace(message))
	normalized = strings.TrimRight(normalized, trailingPunctuation)

	_, ok := greetings[normalized]
	return ok
}
