package main

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/Sajalaxena/edu-Darshi-sub000/core/auth"
)

func (cli *commandLine) login(ctx context.Context, args []string) error {
	cmd := cli.newFlagSet("login")
	uname := cmd.String("username", "", "The admin username. The password will be prompted next.")
	if err := parseFlags(cmd, args); err != nil {
		return err
	}
	if *uname == "" {
		cmd.Usage()
		return errHelp
	}
	pwd, err := cli.promptPassword()
	if err != nil {
		return err
	}
	if pwd == "" {
		cmd.Usage()
		return errHelp
	}

	token, claims, err := cli.authSvc.Login(ctx, *uname, pwd)
	if err != nil {
		return err
	}
	if err := cli.session.SetToken(token); err != nil {
		return errors.Wrap(err, "saving session")
	}
	fmt.Fprintf(cli.out, "logged in as %s until %s\n", claims.Username, time.Unix(claims.ExpiresAt, 0).UTC().Format(time.RFC3339))
	return nil
}

func (cli *commandLine) logout(ctx context.Context) error {
	token, err := cli.session.Token()
	if errors.Is(err, auth.ErrUnauthorized) {
		fmt.Fprintln(cli.out, "not logged in")
		return nil
	}
	if err != nil {
		return err
	}
	if err := cli.authSvc.Logout(ctx, token); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "logged out")
	return nil
}

// requireAdmin returns the claims of the live admin session.
func (cli *commandLine) requireAdmin(ctx context.Context) (*auth.Claims, error) {
	token, err := cli.session.Token()
	if err != nil {
		return nil, err
	}
	return cli.authSvc.Authorize(ctx, token)
}

func (cli *commandLine) hashPassword() error {
	pwd, err := cli.promptPassword()
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(pwd)
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, hash)
	return nil
}
