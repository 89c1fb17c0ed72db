package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"packsmith/internal/app"
)

type inspectOptions struct {
	Pack             string
	Registry         string
	Prefix           string
	ExcludeNamespace []string
}

func newInspectCommand() *cobra.Command {
	opts := inspectOptions{}
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "List registries of a pack or the identifiers of one registry",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInspect(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Pack, "pack", "", "Datapack archive path")
	cmd.Flags().StringVar(&opts.Registry, "registry", "", "Registry key to list (e.g. item, tags/item)")
	cmd.Flags().StringVar(&opts.Prefix, "prefix", "", "Resource path prefix filter")
	cmd.Flags().StringSliceVar(&opts.ExcludeNamespace, "exclude-namespace", nil, "Namespaces to leave out")
	_ = viper.BindPFlag("pack", cmd.Flags().Lookup("pack"))
	_ = viper.BindPFlag("exclude_namespaces", cmd.Flags().Lookup("exclude-namespace"))
	return cmd
}

func runInspect(ctx context.Context, cmd *cobra.Command, opts inspectOptions) error {
	service := newAppService()
	result, err := service.Inspect(ctx, app.InspectRequest{
		PackPath:          resolveString(cmd, opts.Pack, "pack", "pack"),
		Registry:          opts.Registry,
		Prefix:            opts.Prefix,
		ExcludeNamespaces: resolveStrings(cmd, opts.ExcludeNamespace, "exclude_namespaces", "exclude-namespace"),
	})
	if err != nil {
		return err
	}

	fmt.Printf("pack_format: %d\n", result.PackFormat)
	if opts.Registry == "" {
		fmt.Println("registries:")
		for _, summary := range result.Registries {
			fmt.Printf("- %s: %d entries\n", summary.Key, summary.Count)
		}
		return nil
	}
	fmt.Printf("%s: %d entries\n", opts.Registry, len(result.Identifiers))
	tags := map[string]app.TagSummary{}
	for _, tag := range result.Tags {
		tags[tag.Identifier] = tag
	}
	for _, id := range result.Identifiers {
		if tag, ok := tags[id]; ok {
			fmt.Printf("- %s (%d values, replace=%t)\n", id, tag.Values, tag.Replace)
			continue
		}
		fmt.Printf("- %s\n", id)
	}
	return nil
}
