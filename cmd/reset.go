package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/assess/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete a student's assessment history and knowledge state",
	RunE: func(cmd *cobra.Command, args []string) error {
		student, _ := cmd.Flags().GetString("student")
		force, _ := cmd.Flags().GetBool("force")

		if !force {
			fmt.Printf("Delete all data for student %q? [y/N] ", student)
			line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			if strings.TrimSpace(strings.ToLower(line)) != "y" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		if err := s.ResetStudent(context.Background(), student); err != nil {
			return fmt.Errorf("reset student: %w", err)
		}
		fmt.Printf("Student %q reset.\n", student)
		return nil
	},
}

func init() {
	resetCmd.Flags().StringP("student", "s", "", "Student identifier (required)")
	resetCmd.Flags().BoolP("force", "f", false, "Skip confirmation")
	_ = resetCmd.MarkFlagRequired("student")
}
