package orchestrator

import (
	"fmt"
	"strings"

	"github.com/pathshala/pathshala/internal/domain"
)

// BuildAnswerPrompt assembles the grounding prompt: the retrieved
// passages are the only factual basis the model may use, and when the
// material spans more than one chapter the answer must say what each
// chapter contributes.
func BuildAnswerPrompt(query string, ctxt domain.RetrievedContext, chapters []domain.ChapterRef, opts Options) string {
	var b strings.Builder

	b.WriteString("You are a tutor answering a student's question using only the course material below.\n")
	b.WriteString("Do not use any knowledge outside the CONTEXT block. ")
	b.WriteString("If the material does not answer the question, say so.\n")
	if opts.UserLevel != "" {
		fmt.Fprintf(&b, "Phrase the answer for a %s student.\n", opts.UserLevel)
	}
	if opts.DeepExplanation {
		b.WriteString("Give a layered explanation: a short summary first, then a detailed walkthrough.\n")
	}
	if len(chapters) > 1 {
		b.WriteString("The material spans these chapters: ")
		for i, ch := range chapters {
			if i > 0 {
				b.WriteString("; ")
			}
			fmt.Fprintf(&b, "%s chapter %d", ch.Subject, ch.Chapter)
		}
		b.WriteString(". For each chapter, state explicitly what it contributes to the answer.\n")
	}

	b.WriteString("\nCONTEXT\n")
	for _, sc := range ctxt {
		ch := sc.Chunk
		fmt.Fprintf(&b, "[%s | %s | ch. %d | p. %d] %s\n", ch.Subject, ch.ClassLevel, ch.Chapter, ch.Page, strings.TrimSpace(ch.Text))
	}

	fmt.Fprintf(&b, "\nQuestion: %s\nAnswer:", query)
	return b.String()
}
