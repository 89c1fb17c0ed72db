package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"packsmith/internal/app"
)

type diffOptions struct {
	Pack       string
	Rules      string
	PackFormat int
}

func newDiffCommand() *cobra.Command {
	opts := diffOptions{}
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Show what a rule document would change without writing a pack",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDiff(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Pack, "pack", "", "Datapack archive path")
	cmd.Flags().StringVar(&opts.Rules, "rules", "", "Rule document path")
	cmd.Flags().IntVar(&opts.PackFormat, "pack-format", 0, "Pack format override")
	_ = viper.BindPFlag("pack", cmd.Flags().Lookup("pack"))
	_ = viper.BindPFlag("rules", cmd.Flags().Lookup("rules"))
	_ = viper.BindPFlag("pack_format", cmd.Flags().Lookup("pack-format"))
	return cmd
}

func runDiff(ctx context.Context, cmd *cobra.Command, opts diffOptions) error {
	service := newAppService()
	result, err := service.Diff(ctx, app.DiffRequest{
		PackPath:   resolveString(cmd, opts.Pack, "pack", "pack"),
		RulesPath:  resolveString(cmd, opts.Rules, "rules", "rules"),
		PackFormat: resolveInt(cmd, opts.PackFormat, "pack_format", "pack-format"),
	})
	if err != nil {
		return err
	}
	for _, locked := range result.Locked {
		fmt.Printf("# locked %s by %s: %s\n", locked.Identifier, locked.Rule, locked.Reason)
	}
	if result.Diff == "" {
		fmt.Println("no changes")
		return nil
	}
	fmt.Print(result.Diff)
	return nil
}
