// Command kipper installs the Kopi programming language toolchain.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kinoite/kipper/internal/buildinfo"
	"github.com/kinoite/kipper/internal/config"
	"github.com/kinoite/kipper/internal/installer"
	"github.com/kinoite/kipper/internal/log"
	"github.com/kinoite/kipper/internal/ui"
	"github.com/spf13/cobra"
)

var (
	uninstallFlag bool
	versionFlag   bool
)

var rootCmd = &cobra.Command{
	Use:   "kipper",
	Short: "The Kopi Language Installer",
	Long: `Kipper installs the Kopi programming language for the current user.

Run without arguments, it performs a full install: the toolchain is
acquired according to ~/.kopi/config.toml (cloned and built, downloaded
as a source tarball and built, or unpacked from a prebuilt release
archive), the kopi binary is placed under ~/.kopi, and the shell profile
is extended so new shells find it on PATH. KIPPER_STRATEGY,
KIPPER_VERSION and KIPPER_BASE_URL override the config file.

Examples:
  kipper              Install Kopi
  kipper --uninstall  Uninstall Kopi`,
	Args: cobra.NoArgs,
	Run:  runRoot,
}

func init() {
	rootCmd.Flags().BoolVarP(&uninstallFlag, "uninstall", "u", false, "Uninstall Kopi")
	rootCmd.Flags().BoolVarP(&versionFlag, "version", "v", false, "Show version information")
}

// versionLine is what --version prints.
func versionLine() string {
	return fmt.Sprintf("Kipper v%s - The Kopi Language Installer", buildinfo.Version())
}

func runRoot(cmd *cobra.Command, args []string) {
	if versionFlag {
		fmt.Println(versionLine())
		return
	}

	paths, err := config.ResolvePaths()
	if err != nil {
		printError(err)
		exitWithCode(ExitGeneral)
	}

	if uninstallFlag {
		inst := &installer.Installer{Paths: paths}
		if err := inst.Uninstall(); err != nil {
			printError(err)
			exitWithCode(ExitGeneral)
		}
		return
	}

	cfg, err := config.Load(paths)
	if err != nil {
		printError(err)
		exitWithCode(ExitGeneral)
	}

	ui.Default.Banner(buildinfo.Version())

	inst := &installer.Installer{Paths: paths, Config: cfg}
	if err := inst.Run(context.Background()); err != nil {
		printError(err)
		exitWithCode(ExitGeneral)
	}
}

func main() {
	log.SetDefault(log.FromEnv(os.Stderr))

	if err := rootCmd.Execute(); err != nil {
		// cobra has already printed the error and usage
		exitWithCode(ExitGeneral)
	}
}
