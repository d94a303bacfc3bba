package main

import (
	"flag"
	"fmt"

	"github.com/jax-b/sliderpanel/pkg/sliderpanel"
)

var (
	gitCommit  string
	versionTag string
	buildType  string

	verbose bool
)

func init() {
	flag.BoolVar(&verbose, "verbose", false, "show verbose logs (useful for debugging touch input)")
	flag.BoolVar(&verbose, "v", false, "shorthand for --verbose")
	flag.Parse()
}

func main() {

	// first we need a logger
	logger, err := sliderpanel.NewLogger(buildType)
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}

	named := logger.Named("main")
	named.Debug("Created logger")

	named.Infow("Version info",
		"gitCommit", gitCommit,
		"versionTag", versionTag,
		"buildType", buildType)

	// provide a fair warning if the user's running in verbose mode
	if verbose {
		named.Debug("Verbose flag provided, all log messages will be shown")
	}

	// create the panel instance
	p, err := sliderpanel.NewPanel(logger, verbose)
	if err != nil {
		named.Fatalw("Failed to create panel object", "error", err)
	}

	// if injected by build process, set version info to show up on startup
	if buildType != "" && (versionTag != "" || gitCommit != "") {
		identifier := gitCommit
		if versionTag != "" {
			identifier = versionTag
		}

		versionString := fmt.Sprintf("Version %s-%s", buildType, identifier)
		p.SetVersion(versionString)
	}

	// onwards, to glory
	if err = p.Initialize(); err != nil {
		named.Fatalw("Failed to initialize panel", "error", err)
	}
}
