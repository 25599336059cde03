package cmd

import (
	"fmt"
	"strconv"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/abhisek/profiler/internal/store"
	"github.com/abhisek/profiler/internal/ui/theme"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "List stored results (admin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		password, _ := cmd.Flags().GetString("password")
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		d, err := buildDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		records, err := d.host.AdminResults(cmd.Context(), password, store.ListOptions{Limit: limit, Offset: offset})
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No results found.")
			return nil
		}
		fmt.Println(resultsTable(records))
		return nil
	},
}

func init() {
	resultsCmd.Flags().String("password", "", "Admin password")
	resultsCmd.Flags().Int("limit", 50, "Maximum results to show (0 = all)")
	resultsCmd.Flags().Int("offset", 0, "Results to skip")
}

func resultsTable(records []store.ResultRecord) string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			strconv.FormatInt(r.ID, 10),
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Email,
			r.Profession,
			fmt.Sprintf("%.0f%%", r.Analytical*100),
			fmt.Sprintf("%.0f%%", r.Communication*100),
			r.Profile.String(),
		})
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(theme.Primary).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers("ID", "Date", "Email", "Profession", "Analytical", "Communication", "Profile").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			if col == 6 {
				return cell.Foreground(theme.ProfileColor(records[row].Profile))
			}
			return cell
		}).
		String()
}
