package main

import (
	"context"
	"errors"
	"fmt"

	cli "github.com/urfave/cli/v3"

	"github.com/graphline/graphline/pkg/workflow"
)

func NewValidateCommand() *cli.Command {
	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate a workflow definition without executing it",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "workflow-id",
				Aliases: []string{"id"},
				Usage:   "ID of a stored workflow to validate",
			},
			&cli.StringFlag{
				Name:    "workflow-file",
				Aliases: []string{"f"},
				Usage:   "Path to a JSON or YAML workflow definition to validate",
			},
		},
		Action: validateAction,
	}
}

func validateAction(ctx context.Context, command *cli.Command) error {
	workflowID := command.String("workflow-id")
	workflowFile := command.String("workflow-file")

	if (workflowID == "") == (workflowFile == "") {
		return errors.New("exactly one of --workflow-id or --workflow-file is required")
	}

	application, err := newApp(ctx, command, "validate")
	if err != nil {
		return err
	}
	defer application.close(ctx)

	validator := workflow.NewValidator(application.registry)

	if workflowID != "" {
		wf, err := application.persistence.WorkflowByID(ctx, workflowID)
		if err != nil {
			return err
		}

		if err := validator.ValidateWorkflow(wf); err != nil {
			return err
		}
	} else {
		def, err := workflow.LoadDefinitionFile(workflowFile)
		if err != nil {
			return err
		}

		if err := validator.ValidateDefinition(def); err != nil {
			return err
		}
	}

	fmt.Println("workflow definition is valid")

	return nil
}
