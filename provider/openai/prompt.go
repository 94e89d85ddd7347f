package openai_provider

import (
	"fmt"
	"strings"

	"github.com/mohammad-safakhou/newscast/models"
)

// BuildPrompt assembles the single user message sent to the chat model. Debate mode
// appends a format block naming both speakers with the same prefixes the dialog
// synthesizer binds voices to.
func BuildPrompt(articles []models.Article, debate bool, maxWords int) string {
	items := make([]string, 0, len(articles))
	for _, a := range articles {
		items = append(items, fmt.Sprintf("Title: %s\nSummary: %s", a.Title, a.Summary))
	}

	prompt := fmt.Sprintf(`You are an AI news reporter. Create a concise news report (max %d words, ~3 minutes at 150 wpm) based on:

%s

Keep it engaging and structured.`, maxWords, strings.Join(items, "\n\n"))

	if debate {
		prompt += debateInstructions(models.SpeakerFor, models.SpeakerAgainst)
	}
	return prompt
}

func debateInstructions(pro, con models.Speaker) string {
	return fmt.Sprintf(`

**Format:**
1. A debate between %[1]s and %[3]s (max 300 words total):
   - **%[1]s** argues %[2]s the topic (1-2 sentences per turn).
   - **%[3]s** argues %[4]s the topic (1-2 sentences per turn).
   - At least 3 rounds of exchange.
   - Use '%[5]s' and '%[6]s' prefixes.
2. A neutral summary (max 150 words).`, pro.Name, pro.Stance, con.Name, con.Stance, pro.Prefix, con.Prefix)
}
