package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Sajalaxena/edu-Darshi-sub000/core/question"
)

func (cli *commandLine) today(ctx context.Context) error {
	quiz, err := question.LoadDailyQuiz(ctx, cli.store)
	if err != nil {
		return err
	}
	cli.printQuestion(quiz.Question)
	return nil
}

func (cli *commandLine) printQuestion(q question.Question) {
	fmt.Fprintf(cli.out, "%s  %s\n", q.DateKey(), q.Question)
	for i, opt := range q.Options {
		fmt.Fprintf(cli.out, "  %d. %s\n", i+1, opt)
	}
}

// answer submits an answer to the question of the day. The answer is an option's text,
// or its number as printed by `today`.
func (cli *commandLine) answer(ctx context.Context, args []string) error {
	cmd := cli.newFlagSet("answer")
	answer := cmd.String("answer", "", "The chosen option, by text or number.")
	if err := parseFlags(cmd, args); err != nil {
		return err
	}
	if *answer == "" {
		cmd.Usage()
		return errHelp
	}

	quiz, err := question.LoadDailyQuiz(ctx, cli.store)
	if err != nil {
		return err
	}
	choice := *answer
	if n, err := strconv.Atoi(choice); err == nil && !quiz.Question.HasOption(choice) && n >= 1 && n <= len(quiz.Question.Options) {
		choice = quiz.Question.Options[n-1]
	}
	if err := quiz.Select(choice); err != nil {
		return err
	}
	verdict, err := quiz.Submit(ctx, cli.store)
	if err != nil {
		return err
	}

	if verdict.IsCorrect {
		fmt.Fprintln(cli.out, "Correct!")
	} else {
		fmt.Fprintln(cli.out, "Wrong.")
	}
	for _, opt := range quiz.Options() {
		if opt.Correct {
			fmt.Fprintf(cli.out, "Answer: %s\n", opt.Text)
		}
	}
	if verdict.Explanation != "" {
		fmt.Fprintln(cli.out, verdict.Explanation)
	}
	return nil
}
