package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harrisonrobin/planner/pkg/logging"
	"github.com/harrisonrobin/planner/pkg/model"
	"github.com/harrisonrobin/planner/pkg/store"
)

func (a *App) newTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage the local task list",
	}
	cmd.AddCommand(a.newTaskAddCmd())
	cmd.AddCommand(a.newTaskListCmd())
	cmd.AddCommand(a.newTaskDeleteCmd())
	return cmd
}

type taskAddOptions struct {
	title    string
	due      string
	estimate string
	priority int
}

func (a *App) newTaskAddCmd() *cobra.Command {
	opts := taskAddOptions{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task and print its id",
		Example: `  planner task add --title "Write report" --due 2025-01-10T17:00:00-05:00 --est 90`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			due, err := model.ParseDue(opts.due)
			if err != nil {
				return taskError(err)
			}
			estimate, err := model.ParseEstimate(opts.estimate)
			if err != nil {
				return taskError(err)
			}

			s, err := a.openStore()
			if err != nil {
				return taskError(err)
			}
			defer s.Close()

			task := &model.Task{
				Title:           opts.title,
				DueAt:           due,
				EstimateMinutes: estimate,
				Priority:        opts.priority,
			}
			if err := s.CreateTask(task); err != nil {
				return taskError(err)
			}
			a.printer.Println(task.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.title, "title", "", "task title")
	cmd.Flags().StringVar(&opts.due, "due", "", "due date, ISO8601 with a UTC offset")
	cmd.Flags().StringVar(&opts.estimate, "est", "", "estimate in minutes, or a duration such as PT1H30M or 1h30m")
	cmd.Flags().IntVar(&opts.priority, "priority", model.DefaultPriority, "priority, lower comes first")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("due")
	_ = cmd.MarkFlagRequired("est")
	return cmd
}

func (a *App) newTaskListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tasks by due date and priority",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := a.Settings.Location()
			if err != nil {
				return taskError(err)
			}

			s, err := a.openStore()
			if err != nil {
				return taskError(err)
			}
			defer s.Close()

			tasks, err := s.ListTasks()
			if err != nil {
				return taskError(err)
			}
			if len(tasks) == 0 {
				a.printer.Muted("No tasks.")
				return nil
			}
			for _, t := range tasks {
				a.printer.Printf("%s %s est=%d pri=%d %s\n",
					t.ID, t.DueAt.In(loc).Format(time.RFC3339), t.EstimateMinutes, t.Priority, t.Title)
			}
			return nil
		},
	}
}

func (a *App) newTaskDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			s, err := a.openStore()
			if err != nil {
				return taskError(err)
			}
			defer s.Close()

			task, err := s.GetTask(id)
			if errors.Is(err, store.ErrTaskNotFound) {
				return fmt.Errorf("Task not found: %s", id)
			}
			if err != nil {
				return taskError(err)
			}
			if err := s.DeleteTask(id); err != nil {
				return taskError(err)
			}
			a.logger.Debug("deleted task", logging.Task(id), zap.String("title", task.Title))
			a.printer.Printf("Deleted %s\n", id)
			return nil
		},
	}
}
