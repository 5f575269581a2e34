package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/graphline/graphline/pkg/otelhelper"
	"github.com/graphline/graphline/pkg/workflow"
)

func NewRunCommand() *cli.Command {
	return &cli.Command{
		Name:    "run",
		Aliases: []string{"r"},
		Usage:   "Execute a workflow and print its final payload",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "workflow-id",
				Aliases: []string{"id"},
				Usage:   "ID of a stored workflow to execute",
			},
			&cli.StringFlag{
				Name:    "workflow-file",
				Aliases: []string{"f"},
				Usage:   "Path to a JSON or YAML workflow definition to execute ad hoc",
			},
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Usage:   "Initial payload as a JSON object",
				Value:   "{}",
			},
		},
		Action: runAction,
	}
}

func runAction(ctx context.Context, command *cli.Command) error {
	workflowID := command.String("workflow-id")
	workflowFile := command.String("workflow-file")

	if (workflowID == "") == (workflowFile == "") {
		return errors.New("exactly one of --workflow-id or --workflow-file is required")
	}

	var input map[string]any
	if err := json.Unmarshal([]byte(command.String("input")), &input); err != nil {
		return fmt.Errorf("invalid --input payload: %w", err)
	}

	application, err := newApp(ctx, command, "run")
	if err != nil {
		return err
	}
	defer application.close(ctx)

	executor := workflow.NewExecutor(application.persistence, application.registry, application.logger)

	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" {
		tracer, err := otelhelper.NewTracer(ctx, "graphline")
		if err != nil {
			application.logger.WarnContext(ctx, "failed to initialize tracer", "error", err)
		} else {
			executor = executor.WithTracer(tracer)
		}
	}

	var output map[string]any

	if workflowID != "" {
		output, err = executor.Execute(ctx, workflowID, input)
	} else {
		def, defErr := workflow.LoadDefinitionFile(workflowFile)
		if defErr != nil {
			return defErr
		}

		output, err = executor.ExecuteDefinition(ctx, def, input)
	}

	if err != nil {
		return err
	}

	return printJSON(output)
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	return encoder.Encode(v)
}
