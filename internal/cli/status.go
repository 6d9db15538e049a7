package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/pathshala/pathshala/internal/domain"
)

var (
	statusLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	statusReady      = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	statusIdle       = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the generative model's lifecycle status",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := buildApp()
		if err != nil {
			return err
		}
		printStatus(application.orchestrator.ModelStatus(), application.index.Count())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func printStatus(status domain.ModelStatus, indexed int) {
	stateStyle := statusIdle
	if status.State == domain.StateReady || status.State == domain.StateGenerating {
		stateStyle = statusReady
	}

	lastAccess := "never"
	if !status.LastAccess.IsZero() {
		lastAccess = status.LastAccess.Format(time.RFC3339)
	}

	fmt.Println(statusLabelStyle.Render("model state") + stateStyle.Render(status.State.String()))
	fmt.Println(statusLabelStyle.Render("last access") + lastAccess)
	fmt.Println(statusLabelStyle.Render("idle timeout") + status.IdleTimeout.String())
	fmt.Println(statusLabelStyle.Render("indexed") + fmt.Sprintf("%d chunks", indexed))
}
