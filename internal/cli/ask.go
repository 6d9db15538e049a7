package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pathshala/pathshala/internal/domain"
	"github.com/pathshala/pathshala/internal/orchestrator"
)

var (
	askDeep  bool
	askLevel string
)

var (
	answerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	referenceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	quizStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask one question and print the grounded answer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := buildApp()
		if err != nil {
			return err
		}

		ctx := cancellableContext()
		go application.manager.RunIdleReaper(ctx, GetConfig().IdleCheckInterval())

		result, err := application.orchestrator.HandleQuery(ctx, args[0], orchestrator.Options{
			DeepExplanation: askDeep,
			UserLevel:       askLevel,
		})
		if err != nil {
			return err
		}
		printResult(result)
		return nil
	},
}

func init() {
	askCmd.Flags().BoolVar(&askDeep, "deep", false, "request a layered, deep explanation")
	askCmd.Flags().StringVar(&askLevel, "level", "", "student level hint, e.g. 'class 8'")
	rootCmd.AddCommand(askCmd)
}

func printResult(result domain.QueryResult) {
	fmt.Println(answerStyle.Render(result.AnswerText))

	if !result.Grounded {
		return
	}

	fmt.Println()
	for _, ref := range result.SourceReferences {
		fmt.Println(referenceStyle.Render(fmt.Sprintf("  source: %s, chapter %d, p. %d", ref.Subject, ref.Chapter, ref.Page)))
	}
	for _, d := range result.Diagrams {
		fmt.Println(referenceStyle.Render(fmt.Sprintf("  diagram: %s", d)))
	}

	if len(result.Quiz) > 0 {
		fmt.Println()
		color.New(color.Bold).Println("Check yourself:")
		for i, item := range result.Quiz {
			fmt.Println(quizStyle.Render(fmt.Sprintf("%d. %s", i+1, item.Question)))
			for j, opt := range item.Options {
				fmt.Println(quizStyle.Render(fmt.Sprintf("   %c) %s", 'a'+j, opt)))
			}
		}
	}
}

// cancellableContext returns a context cancelled on SIGINT/SIGTERM.
func cancellableContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		cancel()
	}()
	return ctx
}
