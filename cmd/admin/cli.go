package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"gorm.io/gorm"

	"used-market/internal/core/auth"
	"used-market/internal/domain"
	"used-market/internal/repo"
	"used-market/internal/service"
)

var errUsage = errors.New("usage: admin <migrate|promote|demote|token> [uid]")

func run(ctx context.Context, args []string, db *gorm.DB, j *auth.JWTer, out io.Writer) error {
	fs := flag.NewFlagSet("admin", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errUsage
	}
	cmd, rest := fs.Arg(0), fs.Args()[1:]

	users := service.NewUserService(repo.NewUserRepo(db), nil, nil, nil)
	uidArg := func() (string, error) {
		if len(rest) != 1 || rest[0] == "" {
			return "", fmt.Errorf("%s needs exactly one uid: %w", cmd, errUsage)
		}
		return rest[0], nil
	}

	switch cmd {
	case "migrate":
		if err := repo.AutoMigrate(db); err != nil {
			return err
		}
		fmt.Fprintln(out, "migrated")
	case "promote", "demote":
		uid, err := uidArg()
		if err != nil {
			return err
		}
		role := domain.RoleAdmin
		if cmd == "demote" {
			role = domain.RoleMember
		}
		if err := users.SetRole(ctx, uid, role); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s is now %s\n", uid, role)
	case "token":
		uid, err := uidArg()
		if err != nil {
			return err
		}
		tok, err := j.Issue(uid)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, tok)
	default:
		return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
	}
	return nil
}
