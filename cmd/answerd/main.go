package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mind-engage/quiz-answers/internal/answers/builtin"
	"github.com/mind-engage/quiz-answers/internal/config"
)

const Version = "0.3.0"

var v = config.New()

var (
	rootCmd = &cobra.Command{
		Use:   "answerd",
		Short: "quiz answer serializer service",
		Long: fmt.Sprintf(`answerd (v%s)

Converts raw quiz submissions into canonical answers, stores them per attempt
and turns them back into editable form. Configuration comes from flags, the
environment (HTTP_ADDR, DB_DRIVER, ...) and .env files.`, Version),
		SilenceUsage: true,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of answerd",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "answerd v%s\n", Version)
		},
	}

	keysCmd = &cobra.Command{
		Use:   "keys",
		Short: "List the registered question type keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, k := range builtin.Default().Keys() {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		},
	}
)

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-file", "", "optional JSON log file, rotated")
	_ = v.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("log_file", rootCmd.PersistentFlags().Lookup("log-file"))

	rootCmd.AddCommand(versionCmd, keysCmd, newServeCmd(), newSerializeCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
