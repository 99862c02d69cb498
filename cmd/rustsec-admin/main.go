// Command rustsec-admin maintains a checkout of the advisory database.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli"

	"github.com/amousset/rustsec/admin"
	"github.com/amousset/rustsec/advisory"
	"github.com/amousset/rustsec/nvd"
)

// Version is set by the build system.
var version = "0.0.1"

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		log.Fatalf("%+v", err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "rustsec-admin"
	app.Version = version
	app.Usage = "Advisory DB maintenance utility"

	app.Commands = []cli.Command{
		{
			Name:      "update-advisories",
			Usage:     "update advisories from external sources",
			ArgsUsage: "db_path",
			Action:    updateAdvisories,
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "github-actions-output",
					Usage: "output is being consumed by the github action",
				},
				cli.StringFlag{
					Name:  "nvd-api",
					Usage: "NVD API root URL",
					Value: nvd.DefaultRoot,
				},
				cli.DurationFlag{
					Name:  "nvd-interval",
					Usage: "minimum time between NVD API requests",
					Value: nvd.DefaultInterval,
				},
			},
		},
		{
			Name:   "version",
			Usage:  "display version information",
			Action: func(c *cli.Context) error {
				fmt.Printf("rustsec-admin %s\n", version)
				return nil
			},
		},
	}

	return app
}

func updateAdvisories(c *cli.Context) error {
	ctx := context.Background()
	repoPath := c.Args().First()
	if repoPath == "" {
		repoPath = "."
	}

	db, err := advisory.Open(ctx, repoPath)
	if err != nil {
		return fmt.Errorf("couldn't open advisory DB repo from %s: %w", repoPath, err)
	}
	client, err := nvd.New(
		nvd.WithRoot(c.String("nvd-api")),
		nvd.WithInterval(c.Duration("nvd-interval")),
	)
	if err != nil {
		return err
	}

	mode := admin.HumanReadable
	if c.Bool("github-actions-output") {
		mode = admin.GithubAction
	}
	u := admin.Updater{
		DB:     db,
		Client: client,
		Mode:   mode,
	}
	_, err = u.UpdateAdvisories(ctx)
	return err
}
