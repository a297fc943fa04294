package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mind-engage/quiz-answers/internal/answers"
	"github.com/mind-engage/quiz-answers/internal/answers/builtin"
)

func newSerializeCmd() *cobra.Command {
	var questionPath, answerJSON string
	cmd := &cobra.Command{
		Use:   "serialize",
		Short: "Serialize one answer against a question file and print the canonical form",
		Example: `  answerd serialize --question q.yaml --answer '["b","a"]'
  answerd serialize --question q.json --answer '"3.5"'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := readQuestion(questionPath)
			if err != nil {
				return err
			}
			var raw answers.RawAnswer
			dec := json.NewDecoder(strings.NewReader(answerJSON))
			dec.UseNumber()
			if err := dec.Decode(&raw); err != nil {
				return fmt.Errorf("answer is not valid JSON: %w", err)
			}
			ca, err := builtin.Default().Resolve(q).Serialize(q, raw)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(ca)
		},
	}
	cmd.Flags().StringVar(&questionPath, "question", "", "question file (.yaml, .yml or .json)")
	cmd.Flags().StringVar(&answerJSON, "answer", "null", "raw answer as JSON")
	_ = cmd.MarkFlagRequired("question")
	return cmd
}

func readQuestion(path string) (answers.Question, error) {
	var q answers.Question
	b, err := os.ReadFile(path)
	if err != nil {
		return q, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &q)
	default:
		err = json.Unmarshal(b, &q)
	}
	if err != nil {
		return q, fmt.Errorf("%s: %w", path, err)
	}
	return q, nil
}
