package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jmylchreest/auratheme/internal/codec"
	"github.com/jmylchreest/auratheme/internal/models"
	"github.com/spf13/cobra"
)

var (
	themeShowJSON   bool
	themeShowRaw    bool
	themeResetPurge bool
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Inspect and change the stored theme",
	Long: `Commands that read and write the theme directly in the preference
database. A running server only picks up changes made here after it
restarts.`,
}

var themeShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored theme",
	Args:  cobra.NoArgs,
	RunE:  runThemeShow,
}

var themeSetCmd = &cobra.Command{
	Use:   "set <field> <hex>",
	Short: "Set one theme color",
	Long: `Set one theme color, e.g.

  auratheme theme set bg_top 4C8CB9

Fields: ` + strings.Join(fieldNames(), ", "),
	Args: cobra.ExactArgs(2),
	RunE: runThemeSet,
}

var themeApplyCmd = &cobra.Command{
	Use:   "apply <preset>",
	Short: "Replace the theme with a preset",
	Args:  cobra.ExactArgs(1),
	RunE:  runThemeApply,
}

var themePresetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the built-in presets",
	Args:  cobra.NoArgs,
	RunE:  runThemePresets,
}

var themeResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the Default preset",
	Args:  cobra.NoArgs,
	RunE:  runThemeReset,
}

func init() {
	themeShowCmd.Flags().BoolVar(&themeShowJSON, "json", false, "print the device JSON encoding served on /current")
	themeShowCmd.Flags().BoolVar(&themeShowRaw, "raw", false, "list the stored preference rows")
	themeResetCmd.Flags().BoolVar(&themeResetPurge, "purge", false, "delete the stored keys instead of writing Default values")

	themeCmd.AddCommand(themeShowCmd, themeSetCmd, themeApplyCmd, themePresetsCmd, themeResetCmd)
	rootCmd.AddCommand(themeCmd)
}

func fieldNames() []string {
	fields := models.AllFields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.String()
	}
	return names
}

// withBackend loads the configuration, opens the theme backend and runs fn.
func withBackend(cmd *cobra.Command, fn func(ctx context.Context, b *themeBackend) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	b, err := openThemeBackend(ctx, cfg, slog.Default())
	if err != nil {
		return err
	}
	defer b.Close()

	return fn(ctx, b)
}

func runThemeShow(cmd *cobra.Command, args []string) error {
	return withBackend(cmd, func(ctx context.Context, b *themeBackend) error {
		out := cmd.OutOrStdout()

		if themeShowRaw {
			prefs, err := b.prefs.List(ctx, b.store.Namespace())
			if err != nil {
				return fmt.Errorf("listing preferences: %w", err)
			}
			rows := make([][]string, 0, len(prefs))
			for _, p := range prefs {
				rows = append(rows, []string{p.Key, codec.FormatHex(p.Value), humanize.Time(p.UpdatedAt)})
			}
			return writeTable(out, []string{"KEY", "VALUE", "UPDATED"}, rows)
		}

		theme := b.store.Get()
		if themeShowJSON {
			_, err := fmt.Fprintln(out, string(codec.Encode(theme)))
			return err
		}
		return writeTable(out, []string{"FIELD", "VALUE", ""}, themeRows(theme))
	})
}

func runThemeSet(cmd *cobra.Command, args []string) error {
	field, ok := models.ParseThemeField(args[0])
	if !ok {
		return fmt.Errorf("field %q: %w (valid: %s)", args[0], models.ErrUnknownField, strings.Join(fieldNames(), ", "))
	}
	value, err := codec.ParseRGB(args[1])
	if err != nil {
		return err
	}

	return withBackend(cmd, func(ctx context.Context, b *themeBackend) error {
		if err := b.store.SetCustomColor(ctx, field, value); err != nil {
			return fmt.Errorf("saving theme: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", field, codec.FormatHex(value))
		return nil
	})
}

func runThemeApply(cmd *cobra.Command, args []string) error {
	return withBackend(cmd, func(ctx context.Context, b *themeBackend) error {
		preset, err := b.store.ApplyPreset(ctx, args[0])
		if err != nil {
			return fmt.Errorf("applying preset: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "applied preset %s\n", preset.Name)
		return nil
	})
}

func runThemePresets(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	for i, p := range models.Presets() {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "%s (%s)\n", p.Name, p.ID)
		if err := writeTable(out, nil, themeRows(p.Theme)); err != nil {
			return err
		}
	}
	return nil
}

func runThemeReset(cmd *cobra.Command, args []string) error {
	return withBackend(cmd, func(ctx context.Context, b *themeBackend) error {
		if themeResetPurge {
			if err := b.prefs.DeleteNamespace(ctx, b.store.Namespace()); err != nil {
				return fmt.Errorf("purging theme: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "stored theme removed; Default applies on next start")
			return nil
		}

		if _, err := b.store.ApplyPreset(ctx, models.DefaultPresetID); err != nil {
			return fmt.Errorf("resetting theme: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "theme reset to Default")
		return nil
	})
}
