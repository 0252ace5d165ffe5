package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/bookshelf/app/library"
	"github.com/dmitrymomot/bookshelf/app/library/client"
)

func newWatchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print the catalog every time it changes",
		Long: "Follow the catalog until interrupted. Type \"mode http\" or \"mode ws\" " +
			"on stdin to switch transports while watching.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			return watch(cmd.Context(), s, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func newListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the catalog once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			books, err := s.snapshot(cmd.Context())
			if err != nil {
				return err
			}
			printBooks(cmd.OutOrStdout(), books)
			return nil
		},
	}
}

type bookFlags struct {
	title, author, year, genre string
}

func (f *bookFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "book title")
	cmd.Flags().StringVar(&f.author, "author", "", "book author")
	cmd.Flags().StringVar(&f.year, "year", "", "publication year")
	cmd.Flags().StringVar(&f.genre, "genre", "", "genre")
}

// apply overlays the flags that were set on b.
func (f *bookFlags) apply(cmd *cobra.Command, b library.Book) library.Book {
	if cmd.Flags().Changed("title") {
		b.Title = f.title
	}
	if cmd.Flags().Changed("author") {
		b.Author = f.author
	}
	if cmd.Flags().Changed("year") {
		b.Year = f.year
	}
	if cmd.Flags().Changed("genre") {
		b.Genre = f.genre
	}
	return b
}

func newAddCmd(opts *options) *cobra.Command {
	flags := &bookFlags{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			b := flags.apply(cmd, library.Book{})
			return mutate(cmd, s, func(ctx context.Context) error { return s.manager.Add(ctx, b) })
		},
	}
	flags.bind(cmd)
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("author")
	return cmd
}

func newUpdateCmd(opts *options) *cobra.Command {
	flags := &bookFlags{}
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			// Unset flags keep their stored values.
			if err := s.http.Refresh(cmd.Context()); err != nil {
				return err
			}
			current, ok := s.http.State().Find(id)
			if !ok {
				return fmt.Errorf("book %d: %w", id, library.ErrNotFound)
			}
			b := flags.apply(cmd, current)
			return mutate(cmd, s, func(ctx context.Context) error { return s.manager.Update(ctx, b) })
		},
	}
	flags.bind(cmd)
	return cmd
}

func newRemoveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm", "delete"},
		Short:   "Remove a book",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := newSession(cmd, opts)
			if err != nil {
				return err
			}
			return mutate(cmd, s, func(ctx context.Context) error { return s.manager.Remove(ctx, id) })
		},
	}
}

func mutate(cmd *cobra.Command, s *session, op func(context.Context) error) error {
	msg, err := s.perform(cmd.Context(), op)
	if msg.Message != "" {
		fmt.Fprintln(cmd.OutOrStdout(), msg.Message)
	}
	if err != nil {
		return err
	}
	if msg.Type == client.ResultError {
		return errors.New(msg.Message)
	}
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid book id %q", s)
	}
	return id, nil
}
