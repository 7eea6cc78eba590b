package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/edk2tools/pcdexpr/pkg/pcdexpr"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	defines      []string
	platformPcds []string
	inExceptions []string
	maxDepth     int
)

var rootCmd = &cobra.Command{
	Use:   "pcdexpr",
	Short: "Evaluate firmware build directive and PCD expressions",
	Long: `pcdexpr evaluates the small expression language used in EDK2-style
!if/!elif conditional directives and PCD (Platform Configurable Datum)
value assignments: macro substitution, a C/script-like operator grammar
over integers, booleans, strings, and byte arrays, and width-typed PCD
post-processing.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringArrayVarP(&defines, "define", "D", nil, "symbol table entry NAME=VALUE (repeatable)")
	rootCmd.PersistentFlags().StringArrayVar(&platformPcds, "platform-pcd", nil, "PCD name tracked as a platform PCD (repeatable)")
	rootCmd.PersistentFlags().StringArrayVar(&inExceptions, "in-exception", nil, "override the IN-exception macro list (repeatable)")
	rootCmd.PersistentFlags().IntVar(&maxDepth, "max-depth", 0, "override the PCD recursion depth cap (0 = default)")
}

// buildSymbols parses --define NAME=VALUE flags into a pcdexpr.Symbols.
func buildSymbols() (pcdexpr.Symbols, error) {
	values := make(map[string]string, len(defines))
	for _, d := range defines {
		name, val, ok := strings.Cut(d, "=")
		if !ok {
			return pcdexpr.Symbols{}, fmt.Errorf("--define %q: expected NAME=VALUE", d)
		}
		values[name] = val
	}
	return pcdexpr.Symbols{Values: values, PlatformPCDs: platformPcds}, nil
}

// buildOptions translates --in-exception / --max-depth into pcdexpr.Options.
func buildOptions() []pcdexpr.Option {
	var opts []pcdexpr.Option
	if len(inExceptions) > 0 {
		opts = append(opts, pcdexpr.WithInExceptions(inExceptions...))
	}
	if maxDepth > 0 {
		opts = append(opts, pcdexpr.WithMaxDepth(maxDepth))
	}
	return opts
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
