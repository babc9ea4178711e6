package prompt

import (
	"strings"
	"testing"

	"github.com/sandevgo/aimee/internal/core"
)

func fact(category, content string) core.MemoryFact {
	return core.MemoryFact{Category: category, Content: content, Importance: 3}
}

func TestPersona_Deterministic(t *testing.T) {
	facts := []core.MemoryFact{
		fact(core.CategoryPersonal, "Works as a nurse"),
		fact(core.CategoryDate, "Birthday is June 1st"),
		fact(core.CategoryCurrentTopic, "Stressed about the move"),
	}

	first := Persona(facts)
	second := Persona(facts)
	if first != second {
		t.Fatal("expected identical output for identical input")
	}
}

func TestPersona_EmptyContext(t *testing.T) {
	out := Persona(nil)

	if !strings.Contains(out, "You are Aimee") {
		t.Error("expected base persona")
	}
	if strings.Contains(out, "What you remember about this person") {
		t.Error("expected no memory section without facts")
	}
}

func TestPersona_Sections(t *testing.T) {
	facts := []core.MemoryFact{
		fact(core.CategoryPersonal, "Works as a nurse"),
		fact(core.CategoryPreference, "Loves oat milk lattes"),
		fact(core.CategoryDate, "Anniversary on 6/12"),
		fact(core.CategoryCurrentTopic, "Job interview next week"),
		fact(core.CategoryEmotion, "Felt anxious yesterday"),
	}

	out := Persona(facts)

	for _, want := range []string{
		"What you remember about this person:\n- Works as a nurse\n- Loves oat milk lattes",
		"Important dates:\n- Anniversary on 6/12",
		"Current things on their mind:\n- Job interview next week",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing section content %q", want)
		}
	}

	// Emotion facts are not rendered into the persona context.
	if strings.Contains(out, "Felt anxious yesterday") {
		t.Error("emotion facts should not appear in persona prompt")
	}
}

func TestPersona_Limits(t *testing.T) {
	var facts []core.MemoryFact
	for i := 0; i < 15; i++ {
		facts = append(facts, fact(core.CategoryPersonal, "personal detail"))
	}
	for i := 0; i < 8; i++ {
		facts = append(facts, fact(core.CategoryCurrentTopic, "topic detail"))
	}

	out := Persona(facts)

	if got := strings.Count(out, "- personal detail"); got != 10 {
		t.Errorf("expected 10 personal bullets, got %d", got)
	}
	if got := strings.Count(out, "- topic detail"); got != 5 {
		t.Errorf("expected 5 topic bullets, got %d", got)
	}
}

func TestExtraction_Fixed(t *testing.T) {
	out := Extraction()

	if Extraction() != out {
		t.Fatal("extraction prompt must be constant")
	}
	for _, want := range []string{"JSON array", "category", "importance"} {
		if !strings.Contains(out, want) {
			t.Errorf("extraction prompt missing %q", want)
		}
	}
}

func TestProactive_Kinds(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindMorning, "good morning"},
		{KindEvening, "evening check-in"},
		{KindReminder, "gentle reminder"},
		{KindBirthday, "It's their birthday!"},
		{KindSpecialDate, "special date"},
		{Kind("unknown"), "friendly check-in"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			out := Proactive(nil, tt.kind)
			if !strings.Contains(out, tt.want) {
				t.Errorf("expected %q in prompt, got: %s", tt.want, out)
			}
		})
	}
}

func TestProactive_ContextLimit(t *testing.T) {
	var facts []core.MemoryFact
	for i := 0; i < 9; i++ {
		facts = append(facts, fact(core.CategoryPersonal, "context item"))
	}

	out := Proactive(facts, KindMorning)
	if got := strings.Count(out, "- context item"); got != 5 {
		t.Errorf("expected 5 context bullets, got %d", got)
	}
}
