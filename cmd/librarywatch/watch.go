package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dmitrymomot/bookshelf/app/library"
	"github.com/dmitrymomot/bookshelf/app/library/client"
)

// watch prints snapshots and result messages of both services until ctx is
// done. Lines read from in may switch the mode.
func watch(ctx context.Context, s *session, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan string)
	for _, svc := range []client.Service{s.http, s.ws} {
		// Subscribe before following so no snapshot is missed.
		books := svc.State().Books().Subscribe(ctx)
		results := svc.State().Result().Subscribe(ctx)
		<-books
		<-results
		go forward(ctx, svc.Name(), books, results, events)
	}
	go readCommands(ctx, s, in, events)

	done := make(chan error, 1)
	go func() { done <- s.manager.Run(ctx) }()

	for {
		select {
		case line := <-events:
			fmt.Fprint(out, line)
		case err := <-done:
			return err
		}
	}
}

// forward renders state updates of the named service into events.
func forward(ctx context.Context, name string, books <-chan []library.Book, results <-chan client.ResultMessage, events chan<- string) {
	for {
		var line string
		select {
		case b, ok := <-books:
			if !ok {
				return
			}
			var sb strings.Builder
			fmt.Fprintf(&sb, "[%s] %d books\n", name, len(b))
			printBooks(&sb, b)
			line = sb.String()
		case r, ok := <-results:
			if !ok {
				return
			}
			if r.Message == "" {
				continue
			}
			line = fmt.Sprintf("[%s] %s: %s\n", name, r.Type, r.Message)
		}
		select {
		case events <- line:
		case <-ctx.Done():
			return
		}
	}
}

func readCommands(ctx context.Context, s *session, in io.Reader, events chan<- string) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		var reply string
		switch {
		case len(fields) == 2 && fields[0] == "mode":
			mode, err := client.ParseMode(fields[1])
			if err == nil {
				err = s.manager.SetMode(mode)
			}
			if err != nil {
				reply = fmt.Sprintf("error: %v\n", err)
			} else {
				reply = fmt.Sprintf("switched to %s\n", mode)
			}
		case len(fields) == 0:
			continue
		default:
			reply = "commands: mode http|ws\n"
		}
		select {
		case events <- reply:
		case <-ctx.Done():
			return
		}
	}
}

func printBooks(w io.Writer, books []library.Book) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tYEAR\tGENRE")
	for _, b := range books {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", b.ID, b.Title, b.Author, b.Year, b.Genre)
	}
	_ = tw.Flush()
}
