// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func addCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add a bookmark",
		ArgsUsage: "<name> <url>",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "name"},
			&cli.StringArg{Name: "url"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "desc", Aliases: []string{"d"}, Usage: "Description of the site"},
			&cli.StringFlag{Name: "note", Aliases: []string{"n"}, Usage: "Personal commentary"},
			&cli.StringSliceFlag{Name: "tag", Aliases: []string{"t"}, Usage: "Tag to attach (repeatable)"},
			&cli.BoolFlag{Name: "fav", Aliases: []string{"f"}, Usage: "Mark as favorite"},
		},
		Action: r.Add,
	}
}

func editCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "Change fields of a bookmark",
		ArgsUsage: "<id>",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Usage: "New name"},
			&cli.StringFlag{Name: "url", Usage: "New URL (re-derives the favicon)"},
			&cli.StringFlag{Name: "desc", Aliases: []string{"d"}, Usage: "New description"},
			&cli.StringFlag{Name: "note", Aliases: []string{"n"}, Usage: "New commentary"},
			&cli.StringSliceFlag{Name: "tag", Aliases: []string{"t"}, Usage: "Replace tags (repeatable)"},
			&cli.BoolFlag{Name: "fav", Usage: "Set favorite (--fav=false to clear)"},
		},
		Action: r.Edit,
	}
}

func removeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "rm",
		Aliases:   []string{"remove"},
		Usage:     "Remove a bookmark",
		ArgsUsage: "<id>",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
		},
		Action: r.Remove,
	}
}

func favoriteCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "fav",
		Usage:     "Toggle the favorite flag of a bookmark",
		ArgsUsage: "<id>",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
		},
		Action: r.ToggleFavorite,
	}
}

func moveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "move",
		Aliases:   []string{"mv"},
		Usage:     "Move the bookmark at one list position to another (1-based)",
		ArgsUsage: "<from> <to>",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "from"},
			&cli.StringArg{Name: "to"},
		},
		Action: r.Move,
	}
}

func listCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List bookmarks in directory order",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "Substring to match in name, description or tags"},
			&cli.StringFlag{Name: "tag", Aliases: []string{"t"}, Usage: "Only bookmarks with this tag", Value: "all"},
			&cli.BoolFlag{Name: "favorites", Aliases: []string{"f"}, Usage: "Only favorites"},
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
		},
		Action: r.List,
	}
}

func tagsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tags",
		Usage: "Show every tag with its bookmark count",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
		},
		Action: r.Tags,
	}
}

func tagCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tag",
		Usage: "Rename, delete or merge tags across all bookmarks",
		Commands: []*cli.Command{
			{
				Name:      "rename",
				Usage:     "Rename a tag everywhere",
				ArgsUsage: "<old> <new>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "old"},
					&cli.StringArg{Name: "new"},
				},
				Action: r.RenameTag,
			},
			{
				Name:      "delete",
				Usage:     "Remove a tag from every bookmark",
				ArgsUsage: "<tag>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "tag"},
				},
				Action: r.DeleteTag,
			},
			{
				Name:      "merge",
				Usage:     "Replace several tags by one target tag",
				ArgsUsage: "<target> <tag>...",
				Action:    r.MergeTags,
			},
		},
	}
}

func importCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import bookmarks from a JSON export, Netscape HTML or homepage YAML file",
		ArgsUsage: "<file>",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "file"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "strategy",
				Aliases: []string{"s"},
				Usage:   "Duplicate URL handling: skip, replace or rename (default from config)",
			},
			&cli.BoolFlag{Name: "json", Usage: "Output merge statistics as JSON"},
		},
		Action: r.Import,
	}
}

func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Export all bookmarks",
		ArgsUsage: "[path]",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "path"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Usage: "json or html", Value: "json"},
		},
		Action: r.Export,
	}
}

func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Aliases:   []string{"s"},
		Usage:     "Fuzzy search bookmark names and open the chosen one",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "print", Aliases: []string{"p"}, Usage: "Print matches instead of opening"},
			&cli.StringFlag{Name: "tag", Aliases: []string{"t"}, Usage: "Only search bookmarks with this tag", Value: "all"},
			&cli.BoolFlag{Name: "favorites", Aliases: []string{"f"}, Usage: "Only search favorites"},
		},
		Action: r.Search,
	}
}

func cullCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cull",
		Usage: "Check every bookmark URL and report dead links",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "remove", Usage: "Delete bookmarks whose URL is dead"},
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
		},
		Action: r.Cull,
	}
}

func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage the configuration file",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write the default config file",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "force", Usage: "Overwrite an existing config file"},
				},
				Action: r.ConfigInit,
			},
			{
				Name:   "show",
				Usage:  "Print the effective configuration as TOML",
				Action: r.ConfigShow,
			},
		},
	}
}
