package ai

import (
	"strings"
	"testing"
)

func TestBuildEvaluationPartsInline(t *testing.T) {
	fc := &FileContent{MIMEType: "application/pdf", Inline: true, Base64: "Zm9v"}

	parts := BuildEvaluationParts("Discuss consideration.", 20, "", fc)
	if len(parts) != 2 {
		t.Fatalf("len(parts) = %d, want 2", len(parts))
	}

	if !strings.Contains(parts[0].Text, "Discuss consideration.") {
		t.Error("instructions must carry the question")
	}
	if !strings.Contains(parts[0].Text, "Maximum marks: 20") {
		t.Error("instructions must carry the mark ceiling")
	}
	if strings.Contains(parts[0].Text, "Grading criteria") {
		t.Error("empty criteria must not appear in the prompt")
	}

	if parts[1].InlineData == nil {
		t.Fatal("second part must be the inline attachment")
	}
	if parts[1].InlineData.MIMEType != "application/pdf" || parts[1].InlineData.Data != "Zm9v" {
		t.Errorf("attachment = %+v", parts[1].InlineData)
	}
}

func TestBuildEvaluationPartsText(t *testing.T) {
	fc := &FileContent{MIMEType: "text/plain", Text: "An offer is..."}

	parts := BuildEvaluationParts("Define offer.", 10, "Award marks for case citations.", fc)
	if len(parts) != 1 {
		t.Fatalf("len(parts) = %d, want 1", len(parts))
	}

	text := parts[0].Text
	if !strings.Contains(text, "Student's answer:\nAn offer is...") {
		t.Error("text answers must be appended to the instruction part")
	}
	if !strings.Contains(text, "Grading criteria: Award marks for case citations.") {
		t.Error("supplied criteria must appear in the prompt")
	}
}

func TestBuildQuizGenerationParts(t *testing.T) {
	parts := BuildQuizGenerationParts("Contract Law", 15)
	if len(parts) != 1 {
		t.Fatalf("len(parts) = %d, want 1", len(parts))
	}
	if !strings.Contains(parts[0].Text, `"Contract Law"`) {
		t.Error("prompt must carry the topic")
	}
	if !strings.Contains(parts[0].Text, "exactly 15 questions") {
		t.Error("prompt must carry the question count")
	}
}
