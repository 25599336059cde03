package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/profiler/internal/assessment"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Print the question bank with option weights",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		if file == "" {
			if cfg, err := loadConfig(cmd); err == nil {
				file = cfg.QuestionsFile
			}
		}
		bank, err := assessment.LoadQuestionBankFile(file)
		if err != nil {
			return err
		}
		for _, q := range bank.Questions() {
			fmt.Printf("%d. %s\n", q.Index+1, q.Text)
			for i, o := range q.Options {
				fmt.Printf("   %c) %-58s A %.1f  C %.1f\n", 'a'+i, o.Text, o.Analytical, o.Communication)
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	questionsCmd.Flags().String("file", "", "Question bank YAML (default: built-in bank)")
}
