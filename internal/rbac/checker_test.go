package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCheckerHas(t *testing.T) {
	c := NewChecker(nil)
	cases := []struct {
		role, perm string
		want       bool
	}{
		{"student", AttemptSave, true},
		{"student", AttemptView, true},
		{"student", ExamCreate, false},
		{"student", AttemptAnyUser, false},
		{"teacher", AttemptAnyUser, true},
		{"student", SerializersList, false},
		{"teacher", ExamCreate, true},
		{"teacher", AttemptSave, false},
		{"admin", "anything:at-all", true},
		{"", ExamView, false},
		{"guest", ExamView, false},
	}
	for _, tc := range cases {
		if got := c.Has(tc.role, tc.perm); got != tc.want {
			t.Errorf("Has(%q, %q) = %v, want %v", tc.role, tc.perm, got, tc.want)
		}
	}
}

func TestRequire(t *testing.T) {
	c := NewChecker(nil)
	h := c.Require(ExamCreate)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	for role, want := range map[string]int{
		"teacher": http.StatusNoContent,
		"student": http.StatusForbidden,
		"":        http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/exams", nil)
		req = req.WithContext(WithRole(req.Context(), role))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Errorf("role %q: status %d, want %d", role, rec.Code, want)
		}
	}
}
