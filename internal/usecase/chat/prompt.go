package chat

import (
	"fmt"
	"strings"

	"github.com/futig/support-bot/internal/entity"
)

// EscalationPhrase is the exact completion the prompt instructs the model to
// emit when the FAQ context cannot answer the question. The escalation
// detector in GetResponse matches this string verbatim; changing one side
// without the other breaks the handoff protocol.
const EscalationPhrase = "I am unable to answer this question."

const emptyHistoryText = "No history available."

const promptTemplate = `You are a helpful and friendly customer support agent.
Use the conversation history and the provided FAQ context to answer the user's question.
Answer ONLY with the information from the FAQ context. Do not make up information.
Respond naturally to greetings and pleasantries.

If the FAQ context does not contain the answer, you MUST respond with the exact phrase:
'%s'

---
Conversation History:
%s

---
FAQ Context:
%s

---
User Question:
%s

Answer:
`

// BuildPrompt composes history, retrieved context and the live question into
// the instruction template the completion model expects. The three labeled
// sections keep stored history distinguishable from the live question.
func BuildPrompt(history []*entity.Message, faqContext, question string) string {
	return fmt.Sprintf(promptTemplate, EscalationPhrase, FormatHistory(history), faqContext, question)
}

// FormatHistory renders turns one per line in chronological order using the
// Human/AI labels the prompt template documents.
func FormatHistory(history []*entity.Message) string {
	if len(history) == 0 {
		return emptyHistoryText
	}

	lines := make([]string, 0, len(history))
	for _, msg := range history {
		label := "AI"
		if msg.Sender == entity.SenderUser {
			label = "Human"
		}
		lines = append(lines, label+": "+msg.Message)
	}

	return strings.Join(lines, "\n")
}
