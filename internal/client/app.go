package client

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/MKhiriev/go-notes-keeper/internal/adapter"
	"github.com/MKhiriev/go-notes-keeper/internal/logger"
	"github.com/MKhiriev/go-notes-keeper/models"
)

type command struct {
	usage string
	run   func(ctx context.Context, fs *flag.FlagSet, args []string) (any, error)
}

type App struct {
	server   adapter.ServerAdapter
	out      io.Writer
	commands map[string]command
	logger   *logger.Logger
}

func NewApp(server adapter.ServerAdapter, out io.Writer, logger *logger.Logger) *App {
	a := &App{server: server, out: out, logger: logger}
	a.commands = a.commandTable()
	return a
}

// Run parses args[0] as the command name and the rest as its flags.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.printUsage()
		return ErrNoCommand
	}

	name := args[0]
	cmd, ok := a.commands[name]
	if !ok {
		a.printUsage()
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)

	result, err := cmd.run(ctx, fs, args[1:])
	if err != nil {
		a.logger.Debug().Err(err).Str("command", name).Msg("command failed")
		return fmt.Errorf("%s: %w", name, err)
	}

	return a.print(result)
}

func (a *App) print(v any) error {
	if s, ok := v.(string); ok {
		_, err := fmt.Fprintln(a.out, s)
		return err
	}

	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *App) printUsage() {
	names := make([]string, 0, len(a.commands))
	for name := range a.commands {
		names = append(names, name)
	}
	slices.Sort(names)

	fmt.Fprintln(a.out, "usage: notes-client <command> [flags]")
	for _, name := range names {
		fmt.Fprintf(a.out, "  %-16s %s\n", name, a.commands[name].usage)
	}
}

func (a *App) commandTable() map[string]command {
	return map[string]command{
		"register": {
			usage: "create an account",
			run: func(ctx context.Context, fs *flag.FlagSet, args []string) (any, error) {
				var req models.RegisterRequest
				fs.StringVar(&req.Email, "email", "", "email")
				fs.StringVar(&req.Username, "username", "", "username, at most 10 characters")
				fs.StringVar(&req.Password, "password", "", "password")
				profileFlags(fs, &req.Name, &req.Bio, &req.ProfilePicture)
				if err := fs.Parse(args); err != nil {
					return nil, err
				}
				return a.server.Register(ctx, req)
			},
		},
		"login": {
			usage: "log in and print the session token",
			run: func(ctx context.Context, fs *flag.FlagSet, args []string) (any, error) {
				var req models.LoginRequest
				fs.StringVar(&req.Email, "email", "", "email")
				fs.StringVar(&req.Password, "password", "", "password")
				if err := fs.Parse(args); err != nil {
					return nil, err
				}
				return a.server.Login(ctx, req)
			},
		},
		"forgot-password": {
			usage: "email a password reset link",
			run: func(ctx context.Context, fs *flag.FlagSet, args []string) (any, error) {
				var req models.ForgotPasswordRequest
				fs.StringVar(&req.Email, "email", "", "email")
				if err := fs.Parse(args); err != nil {
					return nil, err
				}
				return a.server.ForgotPassword(ctx, req)
			},
		},
		"reset-password": {
			usage: "set a new password with a reset token",
			run: func(ctx context.Context, fs *flag.FlagSet, args []string) (any, error) {
				var req models.ResetPasswordRequest
				fs.StringVar(&req.Token, "token", "", "reset token from the email")
				fs.StringVar(&req.NewPassword, "password", "", "new password")
				if err := fs.Parse(args); err != nil {
					return nil, err
				}
				return a.server.ResetPassword(ctx, req)
			},
		},
		"change-password": {
			usage: "change the password of the logged in user",
			run: func(ctx context.Context, fs *flag.FlagSet, args []string) (any, error) {
				var req models.ChangePasswordRequest
				fs.StringVar(&req.CurrentPassword, "current", "", "current password")
				fs.StringVar(&req.NewPassword, "new", "", "new password")
				if err := fs.Parse(args); err != nil {
					return nil, err
				}
				return a.server.ChangePassword(ctx, req)
			},
		},
		"profile": {
			usage: "show the profile",
			run: func(ctx context.Context, fs *flag.FlagSet, args []string) (any, error) {
				if err := fs.Parse(args); err != nil {
					return nil, err
				}
				return a.server.GetProfile(ctx)
			},
		},
		"update-profile": {
			usage: "replace the profile fields",
			run: func(ctx context.Context, fs *flag.FlagSet, args []string) (any, error) {
				var req models.UpdateProfileRequest
				fs.StringVar(&req.Email, "email", "", "email")
				fs.StringVar(&req.Username, "username", "", "username")
				profileFlags(fs, &req.Name, &req.Bio, &req.ProfilePicture)
				if err := fs.Parse(args); err != nil {
					return nil, err
				}
				return a.server.UpdateProfile(ctx, req)
			},
		},
		"delete-account": {
			usage: "delete the account and all notes",
			run: func(ctx context.Context, fs *flag.FlagSet, args []string) (any, error) {
				if err := fs.Parse(args); err != nil {
					return nil, err
				}
				return a.server.DeleteAccount(ctx)
			},
		},
		"notes": {
			usage: "list active notes",
			run: func(ctx context.Context, fs *flag.FlagSet, args []string) (any, error) {
				var query adapter.NoteQuery
				fs.StringVar(&query.Tag, "tag", "", "only notes with this tag")
				fs.BoolVar(&query.FavoritesOnly, "favorites", false, "only favorite notes")
				if err := fs.Parse(args); err != nil {
					return nil, err
				}
				return a.server.ListNotes(ctx, query)
			},
		},
		"add-note": {
			usage: "create a note",
			run: func(ctx context.Context, fs *flag.FlagSet, args []string) (any, error) {
				req, err := parseNote(fs, args)
				if err != nil {
					return nil, err
				}
				return a.server.CreateNote(ctx, req)
			},
		},
		"get-note": {
			usage: "show one note",
			run: a.byID(func(ctx context.Context, id int64) (any, error) {
				return a.server.GetNote(ctx, id)
			}),
		},
		"edit-note": {
			usage: "replace title, content and tags of a note",
			run: func(ctx context.Context, fs *flag.FlagSet, args []string) (any, error) {
				id := fs.Int64("id", 0, "note id")
				req, err := parseNote(fs, args)
				if err != nil {
					return nil, err
				}
				if *id <= 0 {
					return nil, ErrMissingNoteID
				}
				return a.server.UpdateNote(ctx, *id, req)
			},
		},
		"favorite": {
			usage: "mark a note as favorite (-off to unmark)",
			run: func(ctx context.Context, fs *flag.FlagSet, args []string) (any, error) {
				id := fs.Int64("id", 0, "note id")
				off := fs.Bool("off", false, "remove the favorite mark")
				if err := fs.Parse(args); err != nil {
					return nil, err
				}
				if *id <= 0 {
					return nil, ErrMissingNoteID
				}
				return a.server.SetFavorite(ctx, *id, !*off)
			},
		},
		"delete-note": {
			usage: "move a note to recently deleted",
			run: a.byID(func(ctx context.Context, id int64) (any, error) {
				return a.server.DeleteNote(ctx, id)
			}),
		},
		"trash": {
			usage: "list recently deleted notes",
			run: func(ctx context.Context, fs *flag.FlagSet, args []string) (any, error) {
				if err := fs.Parse(args); err != nil {
					return nil, err
				}
				return a.server.ListRecentlyDeleted(ctx)
			},
		},
		"restore": {
			usage: "restore a recently deleted note",
			run: a.byID(func(ctx context.Context, id int64) (any, error) {
				return a.server.RestoreNote(ctx, id)
			}),
		},
		"purge": {
			usage: "permanently delete a recently deleted note",
			run: a.byID(func(ctx context.Context, id int64) (any, error) {
				return a.server.PurgeNote(ctx, id)
			}),
		},
	}
}

// byID builds a command whose only flag is -id.
func (a *App) byID(fn func(ctx context.Context, id int64) (any, error)) func(context.Context, *flag.FlagSet, []string) (any, error) {
	return func(ctx context.Context, fs *flag.FlagSet, args []string) (any, error) {
		id := fs.Int64("id", 0, "note id")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		if *id <= 0 {
			return nil, ErrMissingNoteID
		}
		return fn(ctx, *id)
	}
}

func profileFlags(fs *flag.FlagSet, name, bio, picture *string) {
	fs.StringVar(name, "name", "", "display name")
	fs.StringVar(bio, "bio", "", "short bio")
	fs.StringVar(picture, "picture", "", "profile picture URL")
}

func parseNote(fs *flag.FlagSet, args []string) (models.NoteRequest, error) {
	var req models.NoteRequest
	var tags string
	fs.StringVar(&req.Title, "title", "", "title")
	fs.StringVar(&req.Content, "content", "", "content")
	fs.StringVar(&tags, "tags", "", "comma separated tags")
	if err := fs.Parse(args); err != nil {
		return req, err
	}

	if tags != "" {
		req.Tags = strings.Split(tags, ",")
	}
	return req, nil
}
