// File: internal/services/ai/prompt.go
package ai

import "fmt"

// systemPersona fixes the tutoring domain: natural English phrases for
// Japanese speakers, always paired with a Japanese translation.
const systemPersona = `You are a helpful English teacher for Japanese speakers.
When a user asks for English phrases for a specific situation, provide exactly one natural English expression with its Japanese translation.
Format your response as follows:

[English sentence]
[Japanese translation]

Keep the suggestion practical and commonly used in real conversations.`

// variantInstruction nudges each parallel request toward a distinct
// phrasing. Requests are independent and stateless, so this is a
// best-effort hint, not an enforced uniqueness guarantee.
func variantInstruction(variantIndex int) string {
	return fmt.Sprintf(
		"This is suggestion %d of 3 for the same request. Choose a phrasing that differs in wording and register from other common suggestions.",
		variantIndex+1)
}
