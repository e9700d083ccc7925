package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/toggler/pkg/client"
	"github.com/doodlesbykumbi/toggler/pkg/model"
)

var toggleKeyFlags = []struct {
	name  string
	usage string
}{
	{"feature-id", "feature id"},
	{"group-id", "group id"},
	{"product-id", "product id"},
	{"environment-id", "environment id"},
}

func addToggleKeyFlags(cmd *cobra.Command, prefix, usagePrefix string) {
	for _, f := range toggleKeyFlags {
		cmd.Flags().String(prefix+f.name, "", usagePrefix+f.usage)
	}
}

// toggleKey reads the four id flags, each falling back to the matching
// field of fallback when the flag is unset.
func toggleKey(f flagValues, prefix string, fallback model.ToggleKey) model.ToggleKey {
	return model.ToggleKey{
		FeatureID:     f.or(prefix+"feature-id", fallback.FeatureID),
		GroupID:       f.or(prefix+"group-id", fallback.GroupID),
		ProductID:     f.or(prefix+"product-id", fallback.ProductID),
		EnvironmentID: f.or(prefix+"environment-id", fallback.EnvironmentID),
	}
}

func newTogglesCommand() *cobra.Command {
	parent := &cobra.Command{
		Use:   "toggles",
		Short: "Manage toggles",
		Long: `List, create, replace and delete toggles. A toggle is identified by its
feature, group, product and environment ids.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(os.Stderr, "error: Command 'toggles' requires a subcommand (list, create, replace, delete)")
			fmt.Fprintln(os.Stderr)
			_ = cmd.Help()
			os.Exit(1)
		},
	}
	addAPIFlag(parent)

	list := &cobra.Command{
		Use:   "list",
		Short: "List toggles matching every given id",
		Args:  cobra.NoArgs,
		Run: runWithClient("Failed to list toggles", func(ctx context.Context, cmd *cobra.Command, c *client.Client, args []string) (interface{}, error) {
			key := toggleKey(flagValues{cmd}, "", model.ToggleKey{})
			return c.ListToggles(ctx, client.ToggleFilter{
				FeatureID:     key.FeatureID,
				GroupID:       key.GroupID,
				ProductID:     key.ProductID,
				EnvironmentID: key.EnvironmentID,
			})
		}),
	}
	addToggleKeyFlags(list, "", "only toggles with this ")

	create := &cobra.Command{
		Use:   "create",
		Short: "Activate a feature for a group, product and environment",
		Args:  cobra.NoArgs,
		Run: runWithClient("Failed to create toggle", func(ctx context.Context, cmd *cobra.Command, c *client.Client, args []string) (interface{}, error) {
			return c.CreateToggle(ctx, toggleKey(flagValues{cmd}, "", model.ToggleKey{}))
		}),
	}
	addToggleKeyFlags(create, "", "")

	replace := &cobra.Command{
		Use:   "replace",
		Short: "Replace a toggle with another in one step",
		Long: `Replace the toggle identified by the --old-* flags with a new one. New ids
that are not given keep the old value, so moving a toggle to another
environment only needs --environment-id.

Example:
  togglectl toggles replace --old-feature-id F --old-group-id G \
    --old-product-id P --old-environment-id E --environment-id E2`,
		Args: cobra.NoArgs,
		Run: runWithClient("Failed to replace toggle", func(ctx context.Context, cmd *cobra.Command, c *client.Client, args []string) (interface{}, error) {
			f := flagValues{cmd}
			oldKey := toggleKey(f, "old-", model.ToggleKey{})
			return c.ReplaceToggle(ctx, oldKey, toggleKey(f, "", oldKey))
		}),
	}
	addToggleKeyFlags(replace, "old-", "current ")
	addToggleKeyFlags(replace, "", "new ")

	remove := &cobra.Command{
		Use:   "delete",
		Short: "Delete a toggle",
		Args:  cobra.NoArgs,
		Run: runWithClient("Failed to delete toggle", func(ctx context.Context, cmd *cobra.Command, c *client.Client, args []string) (interface{}, error) {
			if err := c.DeleteToggle(ctx, toggleKey(flagValues{cmd}, "", model.ToggleKey{})); err != nil {
				return nil, err
			}
			return map[string]bool{"success": true}, nil
		}),
	}
	addToggleKeyFlags(remove, "", "")

	parent.AddCommand(list, create, replace, remove)
	return parent
}
