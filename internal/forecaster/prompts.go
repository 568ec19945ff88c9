package forecaster

import "fmt"

func decompositionPrompt(question string) string {
	return fmt.Sprintf(`Break down this question into 3-5 independent sub-questions:

%q

For each, provide: question (string), probability (0-1), rationale, confidence (low/medium/high).

Return ONLY a valid JSON array of objects with these exact fields.`, question)
}

func researchPrompt(question, toolContext string) string {
	prompt := fmt.Sprintf(`For the question: %q

Find:
1. Base rate: What fraction of similar events occur? (base_rate, 0-1 or null)
2. Causal forces: What 2-3 factors drive the outcome? (causal_forces)
3. Supporting evidence: What points to YES? (evidence.supporting)
4. Contradicting evidence: What points to NO? (evidence.contradicting)
5. Key unknowns (uncertainties)

Return ONLY a valid JSON object with the fields base_rate, causal_forces,
evidence {supporting, contradicting} and uncertainties.`, question)

	if toolContext != "" {
		prompt += "\n\nResearch context gathered so far:\n\n" + toolContext
	}
	return prompt
}
