package prompt

import (
	"fmt"
	"strings"
)

// SystemPrompt sets the model's role for both study modes.
const SystemPrompt = `You have two functions.
1. GRESA Mode: You are a patient tutor who always solves problems using the GRESA method.
2. Concept Simplifier Mode: You explain a concept at three levels: Easy, Intermediate and Advanced.

Keep explanations simple and student-friendly. Write all math in plain text with units.
Do not use LaTeX, symbols like \text{} or \approx, or Markdown math formatting.`

const gresaTemplate = `Solve this problem step-by-step using the GRESA method.

Problem: %s

Always follow this exact format:

Given:
- List each given value with its unit on its own line, starting with "- ".

Required:
- State what is required.

Equation:
- Write the main formula or equations needed.

Solution:
- Show the solution in clear numbered steps.
- Start with "Step 1:", then continue sequentially.
- Do not skip or duplicate step numbers.
- Write equations in plain text with units.

Answer:
Final answer here (with units if applicable).

Rules:
- Always include all 5 parts: Given, Required, Equation, Solution, Answer.
- Do not add any extra text outside the GRESA format.
- Do not include LaTeX, symbols like \text{} or \approx, or Markdown math formatting.`

const conceptTemplate = `You are a teacher explaining concepts in three levels. Follow this exact format:

Concept/Topic: %s
%s
Easy:
- Provide a simple, bite-sized explanation for beginners.
- Include 1-2 process questions for practice.

Intermediate:
- Provide a more detailed explanation with examples.
- Include 2-3 process questions for practice.

Advanced:
- Provide a full, technical explanation with nuances and advanced applications.
- Include 3-5 process questions for practice.

Rules:
- Always include all three levels.
- Label clearly: Easy:, Intermediate:, Advanced:
- Use simple, clear language where appropriate.
- Write math in plain text. No LaTeX or Markdown math formatting.`

// BuildGresaPrompt embeds a worded problem into the GRESA template.
func BuildGresaPrompt(problem string) string {
	return fmt.Sprintf(gresaTemplate, strings.TrimSpace(problem))
}

// BuildConceptPrompt embeds a concept into the three-tier template. When
// melc is non-empty the explanation is aligned to that learning
// competency.
func BuildConceptPrompt(concept, melc string) string {
	var alignment string
	if m := strings.TrimSpace(melc); m != "" {
		alignment = fmt.Sprintf("Align the explanation with this Most Essential Learning Competency (MELC): %s\n", m)
	}
	return fmt.Sprintf(conceptTemplate, strings.TrimSpace(concept), alignment)
}
