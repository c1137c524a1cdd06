package common

import (
	"context"
	"fmt"

	"careercrafter/internal/errors"
	"careercrafter/internal/store"
)

// CreateInputFunc defines how to create the specific command input from file contents.
type CreateInputFunc[Input any] func(contents []string) (Input, error)

// LogDetailsFunc defines how to log the start of an operation.
type LogDetailsFunc[Input any] func(input Input, cfg CommandConfig)

// LocalOperationFunc is a generic function signature for operations that
// run entirely on local data, like match scoring and feed assembly.
type LocalOperationFunc[Input, Output any] func(context.Context, Input) (Output, error)

// StoreOperationFunc runs one network store operation.
type StoreOperationFunc func(ctx context.Context, st *store.Store) error

// CollectFunc selects the part of the store state a command prints.
type CollectFunc func(state store.State) any

// RunFileCommand encapsulates the common logic for file-based CLI commands.
func RunFileCommand[Input, Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	args []string,
	createInput CreateInputFunc[Input],
	operation LocalOperationFunc[Input, Output],
	logDetails LogDetailsFunc[Input],
) error {
	// Pass the logger when creating helpers
	fileProcessor := NewFileProcessor(logger)
	outputHandler := NewOutputHandler(logger)

	contents, err := fileProcessor.ValidateAndReadFiles(args...)
	if err != nil {
		return err
	}

	input, err := createInput(contents)
	if err != nil {
		return fmt.Errorf("failed to create input from file contents: %w", err)
	}

	logDetails(input, cmdConfig)

	result, err := operation(ctx, input)
	if err != nil {
		return err
	}

	return outputHandler.HandleOutput(result, cmdConfig)
}

// RunNetworkCommand encapsulates the common logic for store-backed CLI
// commands: run the operation, snapshot the store, print the selected
// collection. The store records the failure message itself, so the
// error is returned as-is for the CLI's exit handling.
func RunNetworkCommand(
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	st *store.Store,
	operation StoreOperationFunc,
	collect CollectFunc,
) error {
	outputHandler := NewOutputHandler(logger)

	if err := operation(ctx, st); err != nil {
		return err
	}

	if collect == nil {
		return nil
	}

	return outputHandler.HandleOutput(collect(st.Snapshot()), cmdConfig)
}
