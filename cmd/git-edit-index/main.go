// Package main is the entry point for the git-edit-index command.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	urfavecli "github.com/urfave/cli/v2"

	"github.com/chmouel/git-edit-index/internal/buildinfo"
	"github.com/chmouel/git-edit-index/internal/git"
	"github.com/chmouel/git-edit-index/internal/log"
	"github.com/chmouel/git-edit-index/internal/session"
)

var (
	version = "dev"
	commit  = "none"
)

var errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

func main() {
	buildinfo.Set(version, commit)

	cliApp := &urfavecli.App{
		Name:    "git-edit-index",
		Usage:   "Stage, unstage, revert or delete files by editing the status listing in your editor",
		Version: buildinfo.Summary(),

		Flags: globalFlags(),

		Action: runSession,
	}

	err := cliApp.Run(os.Args)
	_ = log.Close()
	if err == nil {
		return
	}

	// A failed git or editor invocation has already written its own
	// diagnostics; repeating them here would only bury the message.
	var exitErr *git.ExitCodeError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.Code)
	}

	var cfgErr *session.ConfigError
	if errors.As(err, &cfgErr) {
		fmt.Fprintf(os.Stderr, "%s\n", errorStyle.Render("error: "+cfgErr.Error()))
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "%s\n", errorStyle.Render(fmt.Sprintf("error: %v", err)))
	os.Exit(1)
}

func globalFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.StringFlag{
			Name:    "ignored",
			Aliases: []string{"i"},
			Usage:   "Also list ignored files (`MODE`: no, traditional or matching; empty means traditional)",
		},
		&urfavecli.StringFlag{
			Name:  "debug-log",
			Usage: "Path to debug log file",
		},
	}
}

// runSession is the default action: open the status listing in the
// editor and reconcile the edits.
func runSession(c *urfavecli.Context) error {
	if debugLog := c.String("debug-log"); debugLog != "" {
		if err := log.SetFile(debugLog); err != nil {
			fmt.Fprintf(os.Stderr, "Error opening debug log file %q: %v\n", debugLog, err)
		}
	}

	mode, err := ignoredMode(c)
	if err != nil {
		return err
	}

	return session.New(git.NewService(), mode).Run()
}

// ignoredMode normalizes the --ignored flag. The flag set with an empty
// value ("--ignored=") means traditional, matching what git itself
// defaults --ignored to.
func ignoredMode(c *urfavecli.Context) (git.IgnoredMode, error) {
	if !c.IsSet("ignored") {
		return git.IgnoredOmit, nil
	}
	mode := git.IgnoredMode(c.String("ignored"))
	if mode == git.IgnoredOmit {
		mode = git.IgnoredTraditional
	}
	if !git.ValidIgnoredMode(mode) {
		return "", fmt.Errorf("invalid value %q for --ignored (expected no, traditional or matching)", mode)
	}
	return mode, nil
}
