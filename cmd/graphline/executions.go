package main

import (
	"context"
	"errors"

	cli "github.com/urfave/cli/v3"
)

func NewExecutionsCommand() *cli.Command {
	return &cli.Command{
		Name:    "executions",
		Aliases: []string{"e"},
		Usage:   "Inspect stored executions and their logs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "workflow-id",
				Usage: "List executions of this workflow",
			},
			&cli.StringFlag{
				Name:  "execution-id",
				Usage: "Show one execution with its node logs",
			},
		},
		Action: executionsAction,
	}
}

func executionsAction(ctx context.Context, command *cli.Command) error {
	workflowID := command.String("workflow-id")
	executionID := command.String("execution-id")

	if (workflowID == "") == (executionID == "") {
		return errors.New("exactly one of --workflow-id or --execution-id is required")
	}

	application, err := newApp(ctx, command, "executions")
	if err != nil {
		return err
	}
	defer application.close(ctx)

	if workflowID != "" {
		executions, err := application.persistence.ExecutionsByWorkflow(ctx, workflowID)
		if err != nil {
			return err
		}

		return printJSON(executions)
	}

	execution, err := application.persistence.ExecutionByID(ctx, executionID)
	if err != nil {
		return err
	}

	logs, err := application.persistence.LogsByExecution(ctx, executionID)
	if err != nil {
		return err
	}

	return printJSON(map[string]any{
		"execution": execution,
		"logs":      logs,
	})
}
