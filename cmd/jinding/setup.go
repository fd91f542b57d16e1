package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"jinding-ha/internal/domain/model"
	"jinding-ha/internal/domain/service"
)

var flagScriptsOutput string

var loginCmd = &cobra.Command{
	Use:   "login <url> <token>",
	Short: "Check and save the Home Assistant connection",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		if err := a.setup.UpdateConfig(ctx, &model.HassConfig{URL: args[0], Token: args[1]}); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Logged into %s\n", args[0])
		return nil
	}),
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List Jinding devices found in Home Assistant",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		if err := refresh(ctx, a); err != nil {
			return err
		}
		devices := a.setup.GetDevices(ctx)
		if flagJSON {
			return printJSON(cmd.OutOrStdout(), devices)
		}
		return printTable(cmd.OutOrStdout(), []string{"DEVICE", "NAME", "ENTITIES"}, func(w io.Writer) {
			for _, d := range devices {
				fmt.Fprintf(w, "%s\t%s\t%d\n", d.DeviceID, d.Name, len(d.Entities))
			}
		})
	}),
}

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List switch keys and the light each one drives",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		if err := refresh(ctx, a); err != nil {
			return err
		}
		keys := a.setup.GetKeys(ctx)
		if flagJSON {
			return printJSON(cmd.OutOrStdout(), keys)
		}
		return printTable(cmd.OutOrStdout(), []string{"DEVICE", "KEY", "ENTITY", "STATE", "LIGHT"}, func(w io.Writer) {
			for _, k := range keys {
				state := "-"
				if k.State != nil && k.State.Reachable {
					state = "off"
					if k.State.On {
						state = "on"
					}
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", k.DeviceName, k.Name, k.EntityID, state, k.LightID)
			}
		})
	}),
}

var lightsCmd = &cobra.Command{
	Use:   "lights",
	Short: "List lights that keys can be bound to",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		if err := refresh(ctx, a); err != nil {
			return err
		}
		lights := a.setup.GetLights(ctx)
		if flagJSON {
			return printJSON(cmd.OutOrStdout(), lights)
		}
		return printTable(cmd.OutOrStdout(), []string{"LIGHT", "NAME", "BRIGHTNESS"}, func(w io.Writer) {
			for _, l := range lights {
				bri := "-"
				if l.State != nil && l.State.On {
					bri = fmt.Sprintf("%d", l.State.Bri)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", l.Value, l.Label, bri)
			}
		})
	}),
}

var bindCmd = &cobra.Command{
	Use:   "bind <switch entity> [light entity]",
	Short: "Bind a key to a light, or unbind it when no light is given",
	Args:  cobra.RangeArgs(1, 2),
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		if err := refresh(ctx, a); err != nil {
			return err
		}
		lightID := ""
		if len(args) == 2 {
			lightID = args[1]
		}
		if err := a.setup.SetBinding(ctx, args[0], lightID); err != nil {
			return err
		}
		if lightID == "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Unbound %s\n", args[0])
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Bound %s to %s\n", args[0], lightID)
		}
		return nil
	}),
}

var scriptsCmd = &cobra.Command{
	Use:   "scripts",
	Short: "Render the automations that sync bound keys and lights",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		if err := refresh(ctx, a); err != nil {
			return err
		}
		out, err := a.setup.Automations(ctx)
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), flagScriptsOutput, out)
	}),
}

func init() {
	scriptsCmd.Flags().StringVarP(&flagScriptsOutput, "output", "o", "", "Write to this file instead of stdout")
	rootCmd.AddCommand(loginCmd, devicesCmd, keysCmd, lightsCmd, bindCmd, scriptsCmd)
}

// refresh pulls fresh data from the hub. Fetch failures still leave usable
// (empty) state, so they are only logged.
func refresh(ctx context.Context, a *app) error {
	err := a.setup.Refresh(ctx)
	if errors.Is(err, service.ErrNotConfigured) {
		return fmt.Errorf("%w: run 'jinding login <url> <token>' first", err)
	}
	if err != nil {
		a.logger.Warn("refresh incomplete", zap.Error(err))
	}
	return nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printTable(w io.Writer, header []string, rows func(io.Writer)) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, h := range header {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, h)
	}
	fmt.Fprintln(tw)
	rows(tw)
	return tw.Flush()
}

func writeOutput(stdout io.Writer, path, content string) error {
	if path == "" {
		_, err := fmt.Fprint(stdout, content)
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}
