package tui

import (
	"errors"
	"testing"

	"github.com/mdjaved24/mlplay/internal/api"
)

func TestForgotWizardAdvances(t *testing.T) {
	m := newForgotModel()

	m.update(userQuestionsMsg{questions: []api.SecretQuestion{{ID: 1, Question: "First pet?"}, {ID: 2, Question: "Birth city?"}, {ID: 3, Question: "Favorite teacher?"}}})
	if m.step != stepAnswers {
		t.Fatalf("step = %v, want %v", m.step, stepAnswers)
	}
	if len(m.answers) != 3 {
		t.Fatalf("answers = %d, want one input per question", len(m.answers))
	}

	m.update(verifyDoneMsg{})
	if m.step != stepNewPassword {
		t.Fatalf("step = %v, want %v", m.step, stepNewPassword)
	}
}

func TestForgotWrongAnswersStayOnStep(t *testing.T) {
	m := newForgotModel()
	m.update(userQuestionsMsg{questions: []api.SecretQuestion{{ID: 1}}})

	m.update(verifyDoneMsg{err: errors.New("answers do not match")})

	if m.step != stepAnswers {
		t.Fatalf("step = %v, want %v", m.step, stepAnswers)
	}
	if m.errMsg == "" {
		t.Fatalf("expected an error message")
	}
}

func TestForgotBackWalksToLogin(t *testing.T) {
	m := newForgotModel()
	m.update(userQuestionsMsg{questions: []api.SecretQuestion{{ID: 1}}})
	m.update(verifyDoneMsg{})

	if action, _ := m.back(); action != forgotNone || m.step != stepAnswers {
		t.Fatalf("back from password step: action=%v step=%v", action, m.step)
	}
	if action, _ := m.back(); action != forgotNone || m.step != stepUsername {
		t.Fatalf("back from answers step: action=%v step=%v", action, m.step)
	}
	if action, _ := m.back(); action != forgotGoLogin {
		t.Fatalf("back from first step should leave for sign-in, got %v", action)
	}
}

func TestForgotUnknownUserShowsError(t *testing.T) {
	m := newForgotModel()

	m.update(userQuestionsMsg{err: errors.New("no account with that username")})

	if m.step != stepUsername {
		t.Fatalf("step = %v, want %v", m.step, stepUsername)
	}
	if m.errMsg == "" {
		t.Fatalf("expected an error message")
	}
}
