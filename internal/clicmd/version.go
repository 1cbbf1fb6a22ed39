package clicmd

import (
	"github.com/urfave/cli/v2"

	"github.com/justapithecus/graphbench/internal/clirender"
	"github.com/justapithecus/graphbench/types"
)

// VersionResponse is the response for `graphbench version`.
type VersionResponse struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
}

// VersionCommand reports the canonical schema version and build commit.
// It touches no registry, store, or network resource.
func (a *App) VersionCommand() *cli.Command {
	return &cli.Command{
		Name:   "version",
		Usage:  "Show version information",
		Flags:  ReadOnlyFlags(),
		Action: a.versionAction(),
	}
}

func (a *App) versionAction() cli.ActionFunc {
	return func(c *cli.Context) error {
		r, err := clirender.NewRenderer(c)
		if err != nil {
			return err
		}
		return r.Render(VersionResponse{Version: types.Version, Commit: a.Commit})
	}
}
