package orchestrator

import (
	"strings"
	"testing"

	"github.com/pathshala/pathshala/internal/domain"
)

func TestBuildAnswerPromptContextLines(t *testing.T) {
	ctxt := scienceContext()
	prompt := BuildAnswerPrompt("why does water evaporate", ctxt, ctxt.Chapters(), Options{})

	if !strings.Contains(prompt, "[science | class 8 | ch. 3 | p. 41] Water evaporates when heated.") {
		t.Errorf("prompt missing the tagged context line:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Question: why does water evaporate") {
		t.Error("prompt missing the question")
	}
	if !strings.Contains(prompt, "only the course material") {
		t.Error("prompt missing the grounding instruction")
	}
	if strings.Contains(prompt, "For each chapter") {
		t.Error("single-chapter prompt should not carry the multi-chapter instruction")
	}
}

func TestBuildAnswerPromptUserLevel(t *testing.T) {
	ctxt := scienceContext()
	prompt := BuildAnswerPrompt("q", ctxt, ctxt.Chapters(), Options{UserLevel: "class 8"})
	if !strings.Contains(prompt, "Phrase the answer for a class 8 student.") {
		t.Error("prompt missing the level hint")
	}
}

func TestBuildAnswerPromptDeepExplanation(t *testing.T) {
	ctxt := scienceContext()
	prompt := BuildAnswerPrompt("q", ctxt, ctxt.Chapters(), Options{DeepExplanation: true})
	if !strings.Contains(prompt, "layered explanation") {
		t.Error("prompt missing the layered-explanation instruction")
	}
}

func TestBuildAnswerPromptEnumeratesChapters(t *testing.T) {
	ctxt := domain.RetrievedContext{
		{Chunk: domain.ContentChunk{ID: "c1", Text: "a", Subject: "science", Chapter: 2, Page: 20}},
		{Chunk: domain.ContentChunk{ID: "c2", Text: "b", Subject: "science", Chapter: 7, Page: 95}},
	}
	prompt := BuildAnswerPrompt("q", ctxt, ctxt.Chapters(), Options{})
	if !strings.Contains(prompt, "science chapter 2; science chapter 7") {
		t.Errorf("prompt missing the chapter enumeration:\n%s", prompt)
	}
	if !strings.Contains(prompt, "For each chapter, state explicitly what it contributes") {
		t.Error("prompt missing the per-chapter attribution instruction")
	}
}
