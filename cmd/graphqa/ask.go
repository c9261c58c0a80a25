package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harborlabs/graphqa/pkg/graph"
	"github.com/harborlabs/graphqa/pkg/llm"
	"github.com/harborlabs/graphqa/pkg/qa"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question and print the answer",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger(verbose)
		ctx := cmd.Context()
		question := strings.Join(args, " ")

		store, err := graph.NewNeo4jStore(ctx, graph.Neo4jConfig{
			URI:      os.Getenv("NEO4J_URI"),
			Database: os.Getenv("NEO4J_DATABASE"),
			Username: os.Getenv("NEO4J_USERNAME"),
			Password: os.Getenv("NEO4J_PASSWORD"),
			Logger:   log,
		})
		if err != nil {
			return err
		}
		defer store.Close(context.Background())

		client, err := llm.FromEnv()
		if err != nil {
			return err
		}

		chain, err := qa.New(&qa.Config{
			Logger:    log,
			Graph:     store,
			LLM:       client,
			Callbacks: qa.LogCallbacks{Log: log},
		})
		if err != nil {
			return err
		}

		out, err := chain.Invoke(ctx, qa.Values{qa.DefaultInputKey: question})
		if err != nil {
			return err
		}

		fmt.Println(out[qa.DefaultOutputKey])
		return nil
	},
}
