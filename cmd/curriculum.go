package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/assess/internal/curriculum"
)

var curriculumCmd = &cobra.Command{
	Use:   "curriculum",
	Short: "Inspect and validate curriculum definitions",
}

var curriculumValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a curriculum JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		graph, err := curriculum.LoadFile(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("OK: %d areas across %s\n",
			len(graph.All()), strings.Join(graph.Subjects(), ", "))
		return nil
	},
}

var curriculumListCmd = &cobra.Command{
	Use:   "list",
	Short: "List knowledge areas in prerequisite order",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")
		subject, _ := cmd.Flags().GetString("subject")

		graph, err := loadCurriculum(path)
		if err != nil {
			return err
		}

		areas := graph.TopologicalOrder()
		for _, a := range areas {
			if subject != "" && !strings.EqualFold(a.Subject, subject) {
				continue
			}
			line := fmt.Sprintf("%-28s  %s (grade %d)", a.ID, a.Label(), a.GradeLevel)
			if len(a.Prerequisites) > 0 {
				line += "  <- " + strings.Join(a.Prerequisites, ", ")
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	curriculumListCmd.Flags().String("file", "", "Path to a curriculum JSON file (default: built-in)")
	curriculumListCmd.Flags().String("subject", "", "Filter by subject")

	curriculumCmd.AddCommand(curriculumValidateCmd)
	curriculumCmd.AddCommand(curriculumListCmd)
}
