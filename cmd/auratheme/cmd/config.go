package cmd

import (
	"fmt"
	"io"
	"reflect"
	"time"

	"github.com/jmylchreest/auratheme/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configEffective bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management commands",
	Long:  `Commands for managing auratheme configuration.`,
}

var configDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Dump the default configuration",
	Long: `Dump the configuration in YAML format.

Without flags the built-in defaults are shown, which makes a starting
template:

  auratheme config dump > config.yaml

With --effective the configuration after applying the config file and
environment is shown instead.

Environment variables use the AURATHEME_ prefix and underscores for nesting.
Example: theme.restart_mode -> AURATHEME_THEME_RESTART_MODE`,
	RunE: runConfigDump,
}

func init() {
	configDumpCmd.Flags().BoolVar(&configEffective, "effective", false, "show the effective configuration instead of defaults")
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configDumpCmd)
}

// toMap converts a struct to a map keyed by mapstructure tags, rendering
// durations as strings such as "500ms".
func toMap(v any) map[string]any {
	result := make(map[string]any)
	val := reflect.ValueOf(v)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		result[fieldKey(typ.Field(i))] = toValue(val.Field(i))
	}
	return result
}

func toValue(field reflect.Value) any {
	if d, ok := field.Interface().(time.Duration); ok {
		return d.String()
	}
	switch field.Kind() {
	case reflect.Struct:
		return toMap(field.Interface())
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.Struct {
			return field.Interface()
		}
		items := make([]any, field.Len())
		for i := range items {
			items[i] = toMap(field.Index(i).Interface())
		}
		return items
	default:
		return field.Interface()
	}
}

func fieldKey(f reflect.StructField) string {
	if key := f.Tag.Get("mapstructure"); key != "" {
		return key
	}
	if key := f.Tag.Get("yaml"); key != "" {
		return key
	}
	return f.Name
}

func runConfigDump(cmd *cobra.Command, args []string) error {
	var (
		cfg *config.Config
		err error
	)
	if configEffective {
		cfg, err = loadConfig()
	} else {
		cfg, err = config.Load("")
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	return writeConfig(cmd.OutOrStdout(), cfg)
}

func writeConfig(w io.Writer, cfg *config.Config) error {
	yamlData, err := yaml.Marshal(toMap(cfg))
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	fmt.Fprintln(w, "# auratheme configuration")
	fmt.Fprintln(w, "#")
	fmt.Fprintln(w, "# Duration format: 500ms, 15s, 1h")
	fmt.Fprintln(w, "# theme.restart_mode: exit (supervisor restarts us), exec (re-exec in place), none")
	fmt.Fprintln(w, "#")
	fmt.Fprintln(w, "# Environment variable overrides:")
	fmt.Fprintln(w, "#   AURATHEME_SERVER_HOST, AURATHEME_SERVER_PORT")
	fmt.Fprintln(w, "#   AURATHEME_DATABASE_DRIVER, AURATHEME_DATABASE_DSN")
	fmt.Fprintln(w, "#   AURATHEME_STORAGE_WEB_DIR")
	fmt.Fprintln(w, "#   AURATHEME_THEME_RESTART_MODE, AURATHEME_THEME_APPLY_DELAY")
	fmt.Fprintln(w, "#   AURATHEME_LOGGING_LEVEL, AURATHEME_LOGGING_FORMAT")
	fmt.Fprintln(w)
	_, err = w.Write(yamlData)
	return err
}
