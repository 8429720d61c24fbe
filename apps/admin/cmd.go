package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/Sajalaxena/edu-Darshi-sub000/core/auth"
	"github.com/Sajalaxena/edu-Darshi-sub000/core/question"
	sessionsvc "github.com/Sajalaxena/edu-Darshi-sub000/services/session"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type questionStore interface {
	question.AdminStore
	question.DailyStore
}

type commandLine struct {
	out        io.Writer
	authSvc    *auth.Service
	session    *sessionsvc.FileSession
	store      questionStore
	validate   *validator.Validate
	translator ut.Translator
	openDB     func() (*sql.DB, error)
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  login -username USERNAME - start an admin session (the password is prompted)")
	fmt.Fprintln(cli.out, "  logout - end the admin session")
	fmt.Fprintln(cli.out, "  list - list scheduled questions")
	fmt.Fprintln(cli.out, "  schedule [-id ID] -question TEXT -option A -option B ... -answer A -date YYYY-MM-DD - create or edit a question")
	fmt.Fprintln(cli.out, "  delete -id ID - delete a question")
	fmt.Fprintln(cli.out, "  today - show the question of the day")
	fmt.Fprintln(cli.out, "  answer -answer OPTION - answer the question of the day")
	fmt.Fprintln(cli.out, "  hashpassword - print the hash to configure as AUTH_PASSWORDHASH")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run database migrations (up, down, status, ...)")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	ctx := context.Background()
	switch args[1] {
	case "login":
		return cli.login(ctx, args[2:])
	case "logout":
		return cli.logout(ctx)
	case "list":
		return cli.list(ctx)
	case "schedule":
		return cli.schedule(ctx, args[2:])
	case "delete":
		return cli.delete(ctx, args[2:])
	case "today":
		return cli.today(ctx)
	case "answer":
		return cli.answer(ctx, args[2:])
	case "hashpassword":
		return cli.hashPassword()
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	cmd := flag.NewFlagSet(name, flag.ContinueOnError)
	cmd.SetOutput(cli.out)
	return cmd
}

func parseFlags(cmd *flag.FlagSet, args []string) error {
	if err := cmd.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return errHelp
		}
		return err
	}
	return nil
}

func (cli *commandLine) promptPassword() (string, error) {
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(os.Stdin.Fd()))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

// stringList is a repeatable string flag.
type stringList []string

func (l *stringList) String() string {
	return strings.Join(*l, ", ")
}

func (l *stringList) Set(value string) error {
	*l = append(*l, value)
	return nil
}
