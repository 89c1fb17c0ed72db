package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"packsmith/internal/app"
)

type compileOptions struct {
	Pack       string
	Rules      string
	Output     string
	Report     string
	PackFormat int
}

func newCompileCommand() *cobra.Command {
	opts := compileOptions{}
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Apply a rule document to a pack and write the result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCompile(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Pack, "pack", "", "Datapack archive path")
	cmd.Flags().StringVar(&opts.Rules, "rules", "", "Rule document path")
	cmd.Flags().StringVar(&opts.Output, "output", "", "Output archive path")
	cmd.Flags().StringVar(&opts.Report, "report", "", "Optional YAML compile report path")
	cmd.Flags().IntVar(&opts.PackFormat, "pack-format", 0, "Pack format override (0 = rules, then pack.mcmeta)")
	_ = viper.BindPFlag("pack", cmd.Flags().Lookup("pack"))
	_ = viper.BindPFlag("rules", cmd.Flags().Lookup("rules"))
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("report", cmd.Flags().Lookup("report"))
	_ = viper.BindPFlag("pack_format", cmd.Flags().Lookup("pack-format"))
	return cmd
}

func runCompile(ctx context.Context, cmd *cobra.Command, opts compileOptions) error {
	service := newAppService()
	result, err := service.Compile(ctx, app.CompileRequest{
		PackPath:   resolveString(cmd, opts.Pack, "pack", "pack"),
		RulesPath:  resolveString(cmd, opts.Rules, "rules", "rules"),
		OutputPath: resolveString(cmd, opts.Output, "output", "output"),
		ReportPath: resolveString(cmd, opts.Report, "report", "report"),
		PackFormat: resolveInt(cmd, opts.PackFormat, "pack_format", "pack-format"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("wrote pack: %s (%d changes, %d locked)\n", result.OutputPath, len(result.Report.Changes), len(result.Report.Locked))
	if result.ReportPath != "" {
		fmt.Printf("wrote report: %s\n", result.ReportPath)
	}
	return nil
}
