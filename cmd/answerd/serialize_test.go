package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/mind-engage/quiz-answers/internal/answers"
)

const questionYAML = `id: q1
type: multiple_answers_question
options:
  - id: a
  - id: b
  - id: c
meta:
  shuffle: true
`

func TestSerializeCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q.yaml")
	if err := os.WriteFile(path, []byte(questionYAML), 0o600); err != nil {
		t.Fatal(err)
	}

	cmd := newSerializeCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--question", path, "--answer", `["c","a","c"]`})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	var ca answers.CanonicalAnswer
	if err := json.Unmarshal(out.Bytes(), &ca); err != nil {
		t.Fatalf("decode %q: %v", out.String(), err)
	}
	if ca.QuestionID != "q1" || !reflect.DeepEqual(ca.Value, map[string]any{"selected": []any{"a", "c"}}) {
		t.Fatalf("canonical = %+v", ca)
	}
}

func TestSerializeCommandRejects(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q.json")
	if err := os.WriteFile(path, []byte(`{"id":"q1","type":"multiple_choice","options":[{"id":"a"}]}`), 0o600); err != nil {
		t.Fatal(err)
	}
	for name, answer := range map[string]string{
		"unknown option": `"z"`,
		"not json":       `z`,
	} {
		t.Run(name, func(t *testing.T) {
			cmd := newSerializeCmd()
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs([]string{"--question", path, "--answer", answer})
			if err := cmd.Execute(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestReadQuestionYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q.yml")
	if err := os.WriteFile(path, []byte(questionYAML), 0o600); err != nil {
		t.Fatal(err)
	}
	q, err := readQuestion(path)
	if err != nil {
		t.Fatal(err)
	}
	if q.ID != "q1" || len(q.Options) != 3 || q.Meta["shuffle"] != true {
		t.Fatalf("question = %+v", q)
	}
}
