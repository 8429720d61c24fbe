package main

import (
	"context"
	"flag"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/Sajalaxena/edu-Darshi-sub000/core/question"
)

func (cli *commandLine) newWorkflow() *question.Workflow {
	return question.NewWorkflow(cli.store, cli.validate, cli.translator)
}

func (cli *commandLine) list(ctx context.Context) error {
	if _, err := cli.requireAdmin(ctx); err != nil {
		return err
	}
	questions, err := cli.store.List(ctx)
	if err != nil {
		return err
	}
	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].DateKey() < questions[j].DateKey()
	})

	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tID\tQUESTION\tANSWER")
	for _, q := range questions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", q.DateKey(), q.ID, q.Question, q.CorrectAnswer)
	}
	return w.Flush()
}

// schedule creates a question, or edits the one given by -id. When editing, flags left out
// keep their current values.
func (cli *commandLine) schedule(ctx context.Context, args []string) error {
	cmd := cli.newFlagSet("schedule")
	id := cmd.String("id", "", "The question to edit. A new question is created when empty.")
	text := cmd.String("question", "", "The question text; `$...$` math markup is kept as is.")
	var options stringList
	cmd.Var(&options, "option", fmt.Sprintf("An answer option; repeat up to %d times.", question.OptionSlots))
	answer := cmd.String("answer", "", "The correct answer; must match one option exactly.")
	explanation := cmd.String("explanation", "", "Shown after the question is answered.")
	date := cmd.String("date", "", "The date to schedule the question for (YYYY-MM-DD).")
	video := cmd.String("video", "", "An optional solution video URL.")
	if err := parseFlags(cmd, args); err != nil {
		return err
	}
	if cmd.NFlag() == 0 {
		cmd.Usage()
		return errHelp
	}
	if err := question.CheckOptionCount(options); err != nil {
		return err
	}

	if _, err := cli.requireAdmin(ctx); err != nil {
		return err
	}

	wf := cli.newWorkflow()
	var form question.Form
	if *id != "" {
		if err := wf.Edit(ctx, *id); err != nil {
			return err
		}
		form = wf.Form()
	}
	cmd.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "question":
			form.Question = *text
		case "option":
			form.Options = [question.OptionSlots]string{}
			copy(form.Options[:], options)
		case "answer":
			form.CorrectAnswer = *answer
		case "explanation":
			form.Explanation = *explanation
		case "date":
			form.ScheduledDate = *date
		case "video":
			form.SolutionVideoURL = *video
		}
	})
	if err := wf.SetForm(form); err != nil {
		return err
	}

	saved, err := wf.Submit(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "scheduled %s for %s\n", saved.ID, saved.DateKey())
	return nil
}

func (cli *commandLine) delete(ctx context.Context, args []string) error {
	cmd := cli.newFlagSet("delete")
	id := cmd.String("id", "", "The question to delete.")
	if err := parseFlags(cmd, args); err != nil {
		return err
	}
	if *id == "" {
		cmd.Usage()
		return errHelp
	}
	if _, err := cli.requireAdmin(ctx); err != nil {
		return err
	}
	if err := cli.newWorkflow().Delete(ctx, *id); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "deleted %s\n", *id)
	return nil
}
