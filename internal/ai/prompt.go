package ai

import (
	"fmt"
	"strings"
)

// evaluationInstructions is the instruction block prepended to every answer
// evaluation request. It always states the required output shape so the
// parser has a fighting chance of getting clean JSON back.
const evaluationInstructions = `You are an experienced law examiner grading a student's written answer.

Question: %s
Maximum marks: %d
%sEvaluate the submitted answer and respond with a single JSON object only, no surrounding prose or markdown, in exactly this shape:
{"scoredMarks": <number between 0 and %d>, "percentage": <number between 0 and 100>, "feedback": "<two to four sentences on the strengths and weaknesses of the answer>", "suggestions": "<concrete ways the student can improve this answer>"}`

// BuildEvaluationParts produces the generateContent parts for one answer
// evaluation: the instruction block plus either an inline attachment
// (image/PDF) or the decoded answer text.
func BuildEvaluationParts(question string, totalMarks int, gradingCriteria string, fc *FileContent) []Part {
	criteria := ""
	if strings.TrimSpace(gradingCriteria) != "" {
		criteria = fmt.Sprintf("Grading criteria: %s\n", gradingCriteria)
	}

	instructions := fmt.Sprintf(evaluationInstructions, question, totalMarks, criteria, totalMarks)

	if fc.Inline {
		return []Part{
			{Text: instructions},
			{InlineData: &InlineData{MIMEType: fc.MIMEType, Data: fc.Base64}},
		}
	}

	return []Part{
		{Text: instructions + "\n\nStudent's answer:\n" + fc.Text},
	}
}

// quizGenerationInstructions asks for a complete multiple-choice quiz as JSON.
const quizGenerationInstructions = `Generate a multiple-choice quiz for law students on the topic "%s" with exactly %d questions.

Requirements:
- Each question must have exactly 4 answer options with exactly one correct option.
- Cover the topic's key statutory provisions, leading cases, and doctrines.
- Include a short explanation of the correct answer for every question.

Respond with a single JSON object only, no surrounding prose or markdown, in exactly this shape:
{"title": "<quiz title>", "questions": [{"question_text": "<question>", "options": ["<A>", "<B>", "<C>", "<D>"], "correct_option": <index 0-3>, "explanation": "<why the correct option is right>"}]}`

// BuildQuizGenerationParts produces the generateContent parts for AI quiz
// generation.
func BuildQuizGenerationParts(topic string, count int) []Part {
	return []Part{
		{Text: fmt.Sprintf(quizGenerationInstructions, topic, count)},
	}
}
