package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/toggler/pkg/client"
	"github.com/doodlesbykumbi/toggler/pkg/model"
)

const requestTimeout = 30 * time.Second

// flagValues reads the flags of one invocation.
type flagValues struct {
	cmd *cobra.Command
}

func (f flagValues) str(name string) string {
	v, _ := f.cmd.Flags().GetString(name)
	return v
}

// or returns the flag value when it was set and fallback otherwise.
func (f flagValues) or(name, fallback string) string {
	if f.cmd.Flags().Changed(name) {
		return f.str(name)
	}
	return fallback
}

// optional is nil unless the flag was set.
func (f flagValues) optional(name string) *string {
	if !f.cmd.Flags().Changed(name) {
		return nil
	}
	v := f.str(name)
	return &v
}

func (f flagValues) boolean(name string) *bool {
	if !f.cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := f.cmd.Flags().GetBool(name)
	return &v
}

// entitySpec wires one entity kind to the client.
type entitySpec struct {
	kind model.Kind
	// flags are the string attributes accepted by create and update.
	flags   []string
	boolean string
	list    func(ctx context.Context, c *client.Client) (interface{}, error)
	create  func(ctx context.Context, c *client.Client, f flagValues) (interface{}, error)
	update  func(ctx context.Context, c *client.Client, id string, f flagValues) (interface{}, error)
	remove  func(ctx context.Context, c *client.Client, id string) error
}

var flagUsage = map[string]string{
	"name":        "display name",
	"type":        "feature type, e.g. boolean",
	"owner":       "owning team or person",
	"description": "free-form description (Markdown)",
	"enabled":     "whether the feature is enabled",
}

// newEntityCommand builds "<plural> list|create|update|delete".
func newEntityCommand(spec entitySpec) *cobra.Command {
	plural := spec.kind.Plural()
	parent := &cobra.Command{
		Use:   plural,
		Short: fmt.Sprintf("Manage %s", plural),
		Long:  fmt.Sprintf("List, create, update and delete %s through the API.", plural),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stderr, "error: Command '%s' requires a subcommand (list, create, update, delete)\n\n", plural)
			_ = cmd.Help()
			os.Exit(1)
		},
	}
	addAPIFlag(parent)

	list := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %s, newest first", plural),
		Args:  cobra.NoArgs,
		Run: runWithClient("Failed to list "+plural, func(ctx context.Context, cmd *cobra.Command, c *client.Client, args []string) (interface{}, error) {
			return spec.list(ctx, c)
		}),
	}

	create := &cobra.Command{
		Use:   "create",
		Short: fmt.Sprintf("Create a %s", spec.kind),
		Args:  cobra.NoArgs,
		Run: runWithClient("Failed to create "+spec.kind.String(), func(ctx context.Context, cmd *cobra.Command, c *client.Client, args []string) (interface{}, error) {
			return spec.create(ctx, c, flagValues{cmd})
		}),
	}

	update := &cobra.Command{
		Use:   "update <id>",
		Short: fmt.Sprintf("Update a %s; omitted flags keep their current value", spec.kind),
		Args:  cobra.ExactArgs(1),
		Run: runWithClient("Failed to update "+spec.kind.String(), func(ctx context.Context, cmd *cobra.Command, c *client.Client, args []string) (interface{}, error) {
			return spec.update(ctx, c, args[0], flagValues{cmd})
		}),
	}

	remove := &cobra.Command{
		Use:   "delete <id>",
		Short: fmt.Sprintf("Delete a %s", spec.kind),
		Args:  cobra.ExactArgs(1),
		Run: runWithClient("Failed to delete "+spec.kind.String(), func(ctx context.Context, cmd *cobra.Command, c *client.Client, args []string) (interface{}, error) {
			if err := spec.remove(ctx, c, args[0]); err != nil {
				return nil, err
			}
			return map[string]bool{"success": true}, nil
		}),
	}

	for _, cmd := range []*cobra.Command{create, update} {
		for _, name := range spec.flags {
			cmd.Flags().String(name, "", flagUsage[name])
		}
		if spec.boolean != "" {
			cmd.Flags().Bool(spec.boolean, false, flagUsage[spec.boolean])
		}
	}

	parent.AddCommand(list, create, update, remove)
	return parent
}

func addAPIFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().String("api-url", "", "API base URL (default: api_url from configuration)")
}

type clientAction func(ctx context.Context, cmd *cobra.Command, c *client.Client, args []string) (interface{}, error)

// runWithClient adapts action to a cobra Run func that prints the result as
// JSON and exits non-zero on error.
func runWithClient(failure string, action clientAction) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		if err := invoke(cmd, args, action); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", failure, err)
			os.Exit(1)
		}
	}
}

func invoke(cmd *cobra.Command, args []string, action clientAction) error {
	apiURL, _ := cmd.Flags().GetString("api-url")
	if apiURL == "" {
		apiURL = loadConfig().APIURL
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, requestTimeout)
	defer cancel()

	result, err := action(ctx, cmd, client.New(apiURL), args)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), result)
}

func printJSON(w io.Writer, v interface{}) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}

func notFound(kind model.Kind, id string) error {
	return fmt.Errorf("%s %q not found", kind, id)
}

var featureSpec = entitySpec{
	kind:    model.KindFeature,
	flags:   []string{"name", "type", "owner", "description"},
	boolean: "enabled",
	list: func(ctx context.Context, c *client.Client) (interface{}, error) {
		return c.ListFeatures(ctx)
	},
	create: func(ctx context.Context, c *client.Client, f flagValues) (interface{}, error) {
		return c.CreateFeature(ctx, client.FeatureInput{
			Name:        f.str("name"),
			Type:        f.str("type"),
			Owner:       f.str("owner"),
			Description: f.optional("description"),
			Enabled:     f.boolean("enabled"),
		})
	},
	update: func(ctx context.Context, c *client.Client, id string, f flagValues) (interface{}, error) {
		features, err := c.ListFeatures(ctx)
		if err != nil {
			return nil, err
		}
		for _, existing := range features {
			if existing.ID == id {
				return c.UpdateFeature(ctx, id, client.FeatureInput{
					Name:        f.or("name", existing.Name),
					Type:        f.or("type", existing.Type),
					Owner:       f.or("owner", existing.Owner),
					Description: f.optional("description"),
					Enabled:     f.boolean("enabled"),
				})
			}
		}
		return nil, notFound(model.KindFeature, id)
	},
	remove: func(ctx context.Context, c *client.Client, id string) error {
		return c.DeleteFeature(ctx, id)
	},
}

var productSpec = entitySpec{
	kind:  model.KindProduct,
	flags: []string{"name", "owner", "description"},
	list: func(ctx context.Context, c *client.Client) (interface{}, error) {
		return c.ListProducts(ctx)
	},
	create: func(ctx context.Context, c *client.Client, f flagValues) (interface{}, error) {
		return c.CreateProduct(ctx, client.ProductInput{
			Name:        f.str("name"),
			Owner:       f.str("owner"),
			Description: f.optional("description"),
		})
	},
	update: func(ctx context.Context, c *client.Client, id string, f flagValues) (interface{}, error) {
		products, err := c.ListProducts(ctx)
		if err != nil {
			return nil, err
		}
		for _, existing := range products {
			if existing.ID == id {
				return c.UpdateProduct(ctx, id, client.ProductInput{
					Name:        f.or("name", existing.Name),
					Owner:       f.or("owner", existing.Owner),
					Description: f.optional("description"),
				})
			}
		}
		return nil, notFound(model.KindProduct, id)
	},
	remove: func(ctx context.Context, c *client.Client, id string) error {
		return c.DeleteProduct(ctx, id)
	},
}

var environmentSpec = entitySpec{
	kind:  model.KindEnvironment,
	flags: []string{"name", "description"},
	list: func(ctx context.Context, c *client.Client) (interface{}, error) {
		return c.ListEnvironments(ctx)
	},
	create: func(ctx context.Context, c *client.Client, f flagValues) (interface{}, error) {
		return c.CreateEnvironment(ctx, client.EnvironmentInput{
			Name:        f.str("name"),
			Description: f.optional("description"),
		})
	},
	update: func(ctx context.Context, c *client.Client, id string, f flagValues) (interface{}, error) {
		environments, err := c.ListEnvironments(ctx)
		if err != nil {
			return nil, err
		}
		for _, existing := range environments {
			if existing.ID == id {
				return c.UpdateEnvironment(ctx, id, client.EnvironmentInput{
					Name:        f.or("name", existing.Name),
					Description: f.optional("description"),
				})
			}
		}
		return nil, notFound(model.KindEnvironment, id)
	},
	remove: func(ctx context.Context, c *client.Client, id string) error {
		return c.DeleteEnvironment(ctx, id)
	},
}

var groupSpec = entitySpec{
	kind:  model.KindGroup,
	flags: []string{"name", "owner", "description"},
	list: func(ctx context.Context, c *client.Client) (interface{}, error) {
		return c.ListGroups(ctx)
	},
	create: func(ctx context.Context, c *client.Client, f flagValues) (interface{}, error) {
		return c.CreateGroup(ctx, client.GroupInput{
			Name:        f.str("name"),
			Owner:       f.str("owner"),
			Description: f.optional("description"),
		})
	},
	update: func(ctx context.Context, c *client.Client, id string, f flagValues) (interface{}, error) {
		groups, err := c.ListGroups(ctx)
		if err != nil {
			return nil, err
		}
		for _, existing := range groups {
			if existing.ID == id {
				return c.UpdateGroup(ctx, id, client.GroupInput{
					Name:        f.or("name", existing.Name),
					Owner:       f.or("owner", existing.Owner),
					Description: f.optional("description"),
				})
			}
		}
		return nil, notFound(model.KindGroup, id)
	},
	remove: func(ctx context.Context, c *client.Client, id string) error {
		return c.DeleteGroup(ctx, id)
	},
}

func init() {
	for _, spec := range []entitySpec{featureSpec, productSpec, environmentSpec, groupSpec} {
		rootCmd.AddCommand(newEntityCommand(spec))
	}
	rootCmd.AddCommand(newTogglesCommand())
}
