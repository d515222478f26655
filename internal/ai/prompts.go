package ai

import (
	"fmt"
	"strings"
)

// systemPrompt задает модели жесткие рамки: один вопрос с вариантами ответа,
// а не задача на написание кода, и тема по уровню сложности.
const systemPrompt = `You are a generator of multiple-choice coding questions.

Generate ONE multiple-choice coding question (not a coding task).

DO NOT create a coding problem with input/output format, examples, or constraints.
DO NOT include descriptions, problem statements, or any code to be written by the user.
You must create a question with 4 plausible answer options, only one of which is correct.

The topic must match the specified difficulty level:
- Easy: focus on basic syntax, simple operations, or fundamental programming concepts.
- Medium: involve data structures, algorithms, or intermediate features.
- Hard: cover advanced topics like optimization, design patterns, or complex logic.

Output ONLY a valid JSON object with the following structure:

{
  "title": "The question text to be shown to the user",
  "options": ["Option 1", "Option 2", "Option 3", "Option 4"],
  "correct_answer_id": 2,
  "explanation": "A clear explanation of why the correct answer is right and the others are wrong"
}

Strict rules:
- You MUST return only the JSON object, nothing else.
- You MUST include exactly 4 options.
- You MUST include correct_answer_id as an integer from 0 to 3.
- You MUST include the explanation.`

// userPrompt формирует запрос под конкретную сложность
func userPrompt(difficulty string) string {
	return fmt.Sprintf(`Create one multiple-choice coding question of %s difficulty.

Return only a JSON object with:
- "title": the question
- "options": a list of 4 plausible answers
- "correct_answer_id": index (0-3) of the correct answer
- "explanation": detailed reason why the answer is correct

Do not create input/output problems. Only return a single valid JSON object.`,
		strings.ToLower(difficulty))
}
