// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	jxe "github.com/saferwall/jxe2jar"
	jxelog "github.com/saferwall/jxe2jar/log"
)

// version is overwritten at build time via -ldflags.
var version = "0.0.1"

// verbose is set by the --verbose flag and lowers the log filter from
// Info to Debug.
var verbose bool

func convert(cmd *cobra.Command, args []string) {
	inputPath, outputPath := args[0], args[1]

	minLevel := jxelog.LevelInfo
	if verbose {
		minLevel = jxelog.LevelDebug
	}
	logger := jxelog.NewStdLogger(os.Stderr)
	helper := jxelog.NewHelper(jxelog.NewFilter(logger, jxelog.FilterLevel(minLevel)))

	helper.Infof("opening %s", inputPath)
	input, err := jxe.Open(inputPath, &jxe.Options{Logger: logger})
	if err != nil {
		helper.Errorf("failed to open %s: %v", inputPath, err)
		os.Exit(1)
	}
	defer input.Close()

	helper.Infof("converting %d classes to %s", len(input.Image.Classes), outputPath)
	if err := input.Convert(outputPath); err != nil {
		helper.Errorf("failed to write %s: %v", outputPath, err)
		os.Exit(1)
	}
}

func main() {
	var rootCmd = &cobra.Command{
		Use:   "jxe2jar",
		Short: "Converts J9 JXE ROM images into standard JAR archives",
		Long:  "jxe2jar reads a JXE container's rom.classes image and re-emits every class as a standard big-endian JVM class file inside a JAR.",
	}

	var convertCmd = &cobra.Command{
		Use:   "convert <input.jxe> <output.jar>",
		Short: "Convert a JXE image into a JAR",
		Args:  cobra.ExactArgs(2),
		Run:   convert,
	}
	convertCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "raise the log level to debug")

	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("jxe2jar", version)
		},
	}

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
