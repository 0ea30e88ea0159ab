package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/skynix/contact-service/internal/auth"
	"github.com/skynix/contact-service/internal/config"
	"github.com/skynix/contact-service/internal/contactform"
	"github.com/skynix/contact-service/internal/querycache"
	"github.com/skynix/contact-service/internal/submission"
	"github.com/skynix/contact-service/internal/validation"
)

const usage = `usage: contact <command> [flags]

commands:
  submit         send the contact form
  list           print every submission (admin)
  get -id N      print one submission (admin)
  hash-password  print a bcrypt hash for AUTH_ADMIN_PASSWORD_HASH
`

type cli struct {
	cfg    config.ClientConfig
	logger *zap.Logger
	stdout io.Writer
	stderr io.Writer
}

func (c *cli) run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(c.stderr, usage)
		return 2
	}
	switch args[0] {
	case "submit":
		return c.submit(ctx, args[1:])
	case "list":
		return c.list(ctx, args[1:])
	case "get":
		return c.get(ctx, args[1:])
	case "hash-password":
		return c.hashPassword(args[1:])
	default:
		fmt.Fprintf(c.stderr, "Error: unknown command %q\n\n%s", args[0], usage)
		return 2
	}
}

func (c *cli) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	return fs
}

// store connects a client and wraps it in a store. A failed connect is only
// logged; the store then behaves as not initialized.
func (c *cli) store(ctx context.Context) (*submission.Store, error) {
	client := submission.NewClient(submission.HTTPConnector{
		BaseURL:       c.cfg.BaseURL,
		AdminEmail:    c.cfg.AdminEmail,
		AdminPassword: c.cfg.AdminPassword,
		Timeout:       c.cfg.RequestTimeout,
	}, c.logger)
	err := client.Connect(ctx)
	if err != nil {
		c.logger.Warn("backend session not established", zap.Error(err))
	}
	cache := querycache.New(querycache.WithStaleTime(c.cfg.CacheStaleTime))
	return submission.NewStore(client, cache, c.logger), err
}

func (c *cli) submit(ctx context.Context, args []string) int {
	fs := c.newFlagSet("submit")
	values := map[validation.Field]*string{
		validation.FieldName:        fs.String("name", "", "your name (required)"),
		validation.FieldEmail:       fs.String("email", "", "your email (required)"),
		validation.FieldPhoneNumber: fs.String("phone", "", "phone number"),
		validation.FieldCompanyName: fs.String("company", "", "company name"),
		validation.FieldMessage:     fs.String("message", "", "your message (required)"),
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	store, _ := c.store(ctx)
	notifier := contactform.NotifierFunc(func(n contactform.Notification) {
		out := c.stdout
		if n.Level == contactform.LevelError {
			out = c.stderr
		}
		fmt.Fprintln(out, n.Title)
		if n.Description != "" {
			fmt.Fprintln(out, n.Description)
		}
	})
	form := contactform.New(store, notifier,
		contactform.WithLogger(c.logger),
		contactform.WithTransitionListener(func(s contactform.State) {
			c.logger.Debug("contact form state", zap.String("state", string(s)))
		}),
	)
	for _, field := range validation.Fields {
		form.Change(field, *values[field])
	}

	result := form.Submit(ctx)
	switch result.Outcome {
	case contactform.OutcomeSubmitted:
		fmt.Fprintf(c.stdout, "id: %d\n", result.ID)
		return 0
	case contactform.OutcomeInvalid:
		for _, field := range validation.Fields {
			if msg := result.Errors.Message(field); msg != "" {
				fmt.Fprintf(c.stderr, "  %s: %s\n", field, msg)
			}
		}
	}
	return 1
}

func (c *cli) list(ctx context.Context, args []string) int {
	fs := c.newFlagSet("list")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	store, err := c.store(ctx)
	if err != nil {
		fmt.Fprintf(c.stderr, "Error: %v\n", err)
		return 1
	}
	submissions, err := store.Submissions(ctx)
	if err != nil {
		fmt.Fprintf(c.stderr, "Error: list submissions: %v\n", err)
		return 1
	}
	return c.printJSON(submissions)
}

func (c *cli) get(ctx context.Context, args []string) int {
	fs := c.newFlagSet("get")
	id := fs.Int64("id", 0, "submission id (required)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *id <= 0 {
		fmt.Fprintf(c.stderr, "Error: -id is required\n")
		fs.Usage()
		return 2
	}
	store, err := c.store(ctx)
	if err != nil {
		fmt.Fprintf(c.stderr, "Error: %v\n", err)
		return 1
	}
	record, err := store.Submission(ctx, *id)
	if errors.Is(err, submission.ErrNotFound) {
		fmt.Fprintf(c.stderr, "Error: submission %d not found\n", *id)
		return 1
	}
	if err != nil {
		fmt.Fprintf(c.stderr, "Error: get submission: %v\n", err)
		return 1
	}
	return c.printJSON(record)
}

func (c *cli) hashPassword(args []string) int {
	fs := c.newFlagSet("hash-password")
	password := fs.String("password", "", "plaintext password (required)")
	cost := fs.Int("cost", 0, "bcrypt cost (0 = default)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *password == "" {
		fmt.Fprintf(c.stderr, "Error: -password is required\n")
		return 2
	}
	hash, err := auth.HashPassword(*password, *cost)
	if err != nil {
		fmt.Fprintf(c.stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Fprintln(c.stdout, hash)
	return 0
}

func (c *cli) printJSON(v any) int {
	enc := json.NewEncoder(c.stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(c.stderr, "Error: encode: %v\n", err)
		return 1
	}
	return 0
}
