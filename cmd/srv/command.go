package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	s.app = cli.NewApp()
	s.app.Action = cli.ShowAppHelp
	s.app.Name = "spinwin"
	s.app.Usage = "Spin & Win and Scratch & Win reward service"
	s.app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Value:   "config.toml",
			Usage:   "path of the TOML config file",
			EnvVars: []string{"SPINWIN_CONFIG"},
		},
	}
	s.app.Before = s.loadConfig
	s.app.Commands = []*cli.Command{
		{
			Action:      s.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Category:    "Api",
			Description: `Serves the player and admin APIs, plus the metrics endpoint.`,
		},
		{
			Action:      s.startCron,
			Name:        "cron",
			Usage:       "Start cron jobs",
			Category:    "Worker",
			Description: `Reconciles the ledger counters and uploads periodic backups.`,
		},
		{
			Action:      s.startSubscriber,
			Name:        "subscriber",
			Usage:       "Start service subscriber",
			Category:    "Worker",
			Description: `Consumes the game events from the message queue.`,
		},
		{
			Action:   s.startMigrate,
			Name:     "migrate",
			Usage:    "Migrate the database schema",
			Category: "Tool",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "rollback",
					Usage: "revert the latest version instead (mysql only)",
				},
			},
		},
		{
			Action:   s.startBackup,
			Name:     "backup",
			Usage:    "Write a backup of the ledger",
			Category: "Tool",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "out",
					Usage: "directory of the backup files, upload to the backup bucket when empty",
				},
			},
		},
	}
}
