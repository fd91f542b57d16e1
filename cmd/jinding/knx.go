package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"jinding-ha/internal/domain/model"
)

var flagKNXOutput string

var knxCmd = &cobra.Command{
	Use:   "knx",
	Short: "Manage KNX light items",
}

var knxListCmd = &cobra.Command{
	Use:   "list",
	Short: "List KNX light items",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		items, err := a.setup.GetKNXItems(ctx)
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(cmd.OutOrStdout(), items)
		}
		return printTable(cmd.OutOrStdout(), []string{"#", "NAME", "ADDRESS"}, func(w io.Writer) {
			for i, item := range items {
				fmt.Fprintf(w, "%d\t%s\t%s\n", i, item.Name, item.Address)
			}
		})
	}),
}

var knxAddCmd = &cobra.Command{
	Use:   "add <name> <group address>",
	Short: "Add a KNX light item, e.g. knx add Kitchen 1/2/3",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		items, err := a.setup.GetKNXItems(ctx)
		if err != nil {
			return err
		}
		items = append(items, model.KNXItem{Name: args[0], Address: args[1]})
		return a.setup.SaveKNXItems(ctx, items)
	}),
}

var knxRemoveCmd = &cobra.Command{
	Use:   "remove <index>",
	Short: "Remove the KNX light item at index (see knx list)",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		items, err := a.setup.GetKNXItems(ctx)
		if err != nil {
			return err
		}
		i, err := strconv.Atoi(args[0])
		if err != nil || i < 0 || i >= len(items) {
			return fmt.Errorf("no knx item at index %q", args[0])
		}
		items = append(items[:i], items[i+1:]...)
		return a.setup.SaveKNXItems(ctx, items)
	}),
}

var knxRenderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the KNX light declaration",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		text, err := a.setup.KNXText(ctx)
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), flagKNXOutput, text+"\n")
	}),
}

func init() {
	knxRenderCmd.Flags().StringVarP(&flagKNXOutput, "output", "o", "", "Write to this file instead of stdout")
	knxCmd.AddCommand(knxListCmd, knxAddCmd, knxRemoveCmd, knxRenderCmd)
	rootCmd.AddCommand(knxCmd)
}
