package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/pkg/errors"

	"github.com/Sajalaxena/edu-Darshi-sub000/core"
	"github.com/Sajalaxena/edu-Darshi-sub000/core/auth"
	"github.com/Sajalaxena/edu-Darshi-sub000/core/question"
	storesvc "github.com/Sajalaxena/edu-Darshi-sub000/services/questionstore"
	sessionsvc "github.com/Sajalaxena/edu-Darshi-sub000/services/session"
	"github.com/Sajalaxena/edu-Darshi-sub000/storage/database"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stderr, "ADMIN : ", log.LstdFlags)

	conf, err := core.NewConfig()
	if err != nil {
		logger.Fatal(err)
	}

	validate, translator := core.NewValidator()
	question.InitValidators(validate, translator)

	session := sessionsvc.NewFileSession(conf.Session.File)

	// start CLI
	cli := commandLine{
		out:        os.Stdout,
		authSvc:    auth.NewService(conf, session),
		session:    session,
		store:      storesvc.NewClient(conf.Store),
		validate:   validate,
		translator: translator,
		openDB: func() (*sql.DB, error) {
			db, err := database.Open(context.Background(), conf)
			if err != nil {
				return nil, err
			}
			return db.DB, nil
		},
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", formatError(err))
		}
		os.Exit(1)
	}
}

// formatError lists field errors one per line, sorted by field.
func formatError(err error) string {
	var valErr *core.ValidationError
	if !errors.As(err, &valErr) || len(valErr.Fields) == 0 {
		return err.Error()
	}
	fields := valErr.Map()
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	msg := "invalid question"
	for _, name := range names {
		msg += fmt.Sprintf("\n  %s: %s", name, fields[name])
	}
	return msg
}
