package tui

import (
	"testing"

	"github.com/mdjaved24/mlplay/internal/api"
)

func newReadySignupModel() *signupModel {
	m := newSignupModel()
	m.questions = []api.SecretQuestion{
		{ID: 1, Question: "First pet?"},
		{ID: 2, Question: "Birth city?"},
		{ID: 3, Question: "Favorite teacher?"},
		{ID: 4, Question: "First car?"},
	}
	m.questionsLoaded = true
	m.inputs[fieldEmail].SetValue("ava@example.com")
	m.inputs[fieldUsername].SetValue("ava")
	m.inputs[fieldPassword].SetValue("Str0ng!Pass")
	m.inputs[fieldConfirm].SetValue("Str0ng!Pass")
	for i := range m.answers {
		m.answers[i].SetValue("answer")
	}
	return m
}

func TestSignupSubmitStartsRequest(t *testing.T) {
	m := newReadySignupModel()

	if cmd := m.submit(Deps{}); cmd == nil {
		t.Fatalf("expected a register command")
	}
	if !m.loading {
		t.Fatalf("loading should be set while the request runs")
	}
}

func TestSignupRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*signupModel)
		field  string
	}{
		{"bad email", func(m *signupModel) { m.inputs[fieldEmail].SetValue("not-an-email") }, "email"},
		{"missing username", func(m *signupModel) { m.inputs[fieldUsername].SetValue("  ") }, "username"},
		{"weak password", func(m *signupModel) {
			m.inputs[fieldPassword].SetValue("abc")
			m.inputs[fieldConfirm].SetValue("abc")
		}, "password"},
		{"mismatched confirm", func(m *signupModel) { m.inputs[fieldConfirm].SetValue("Other1!Pass") }, "confirm_password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := newReadySignupModel()
			tc.mutate(m)

			if cmd := m.submit(Deps{}); cmd != nil {
				t.Fatalf("expected no command")
			}
			if m.loading {
				t.Fatalf("loading should stay false")
			}
			if m.fieldErrs[tc.field] == "" {
				t.Fatalf("expected a %s error, got %v", tc.field, m.fieldErrs)
			}
		})
	}
}

func TestSignupRejectsDuplicateQuestions(t *testing.T) {
	m := newReadySignupModel()
	m.selected = [signupQuestionCount]int{0, 0}

	if cmd := m.submit(Deps{}); cmd != nil {
		t.Fatalf("expected no command")
	}
	if m.errMsg == "" {
		t.Fatalf("expected a duplicate-question message")
	}
}

func TestSignupRejectsBlankAnswers(t *testing.T) {
	m := newReadySignupModel()
	m.answers[1].SetValue("   ")

	if cmd := m.submit(Deps{}); cmd != nil {
		t.Fatalf("expected no command")
	}
	if m.errMsg == "" {
		t.Fatalf("expected a missing-answer message")
	}
}

func TestSignupQuestionCycleWraps(t *testing.T) {
	m := newReadySignupModel()

	m.selected[0] = len(m.questions) - 1
	m.cycleQuestion(0, 1)
	if m.selected[0] != 0 {
		t.Fatalf("selected = %d, want wrap to 0", m.selected[0])
	}
	m.cycleQuestion(0, -1)
	if m.selected[0] != len(m.questions)-1 {
		t.Fatalf("selected = %d, want wrap to %d", m.selected[0], len(m.questions)-1)
	}
}

func TestSignupQuestionsLoadOnce(t *testing.T) {
	m := newSignupModel()

	if cmd := m.ensureQuestions(Deps{}); cmd == nil {
		t.Fatalf("expected a fetch command on first entry")
	}
	m.update(questionsMsg{questions: []api.SecretQuestion{{ID: 1}, {ID: 2}, {ID: 3}}})
	if cmd := m.ensureQuestions(Deps{}); cmd != nil {
		t.Fatalf("expected no refetch once loaded")
	}
}
