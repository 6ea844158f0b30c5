package cli

import (
	"context"
	"fmt"
	"strings"
)

// getStatus renders the prompt suffix: the signed-in user's email, if any.
func (a *App) getStatus() string {
	u := a.session.User()
	if u == nil {
		return ""
	}
	name := u.Email
	if name == "" {
		name = u.Name
	}
	return fmt.Sprintf("(%s)", name)
}

func (a *App) Root(ctx context.Context) {

	fmt.Println("Welcome to EventHub CLI (type 'help' for commands)")

	for {
		if err := ctx.Err(); err != nil {
			return
		}

		fmt.Printf("eventhub %s> ", a.getStatus())
		line, err := a.reader.ReadString('\n')
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			a.help()
		case "register":
			a.runCommand(ctx, func(ctx context.Context) error { return a.Register(ctx) })
		case "login":
			a.runCommand(ctx, func(ctx context.Context) error { return a.Login(ctx) })
		case "logout":
			a.runCommand(ctx, func(ctx context.Context) error { return a.Logout(ctx) })
		case "whoami":
			a.runCommand(ctx, func(ctx context.Context) error { return a.WhoAmI(ctx) })
		case "events", "list":
			a.runCommand(ctx, func(ctx context.Context) error { return a.ListEvents(ctx) })
		case "myevents":
			a.runCommand(ctx, func(ctx context.Context) error { return a.MyEvents(ctx) })
		case "show":
			a.runCommand(ctx, func(ctx context.Context) error { return a.ShowEvent(ctx, args) })
		case "create":
			a.runCommand(ctx, func(ctx context.Context) error { return a.CreateEvent(ctx) })
		case "edit":
			a.runCommand(ctx, func(ctx context.Context) error { return a.EditEvent(ctx, args) })
		case "delete":
			a.runCommand(ctx, func(ctx context.Context) error { return a.DeleteEvent(ctx, args) })
		case "rsvp":
			a.runCommand(ctx, func(ctx context.Context) error { return a.RSVP(ctx, args) })
		case "filter":
			a.runCommand(ctx, func(ctx context.Context) error { return a.Filter(ctx, args) })
		case "reset-filters":
			a.runCommand(ctx, func(ctx context.Context) error { return a.Filter(ctx, []string{"reset"}) })
		case "page":
			a.runCommand(ctx, func(ctx context.Context) error { return a.Page(ctx, args) })
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}
}

// runCommand executes one view action and renders its failure, if any.
// Errors never escape the loop; a late cancellation simply ends the REPL on
// the next iteration.
func (a *App) runCommand(ctx context.Context, fn func(ctx context.Context) error) {
	if err := fn(ctx); err != nil {
		a.printError(err)
	}
}

func (a *App) help() {
	if a.isLoggedIn() {
		fmt.Println("Available commands: events, myevents, show <id>, create, edit <id>, delete <id>, rsvp <id> <attending|maybe|not_attending>, filter, page <n>, whoami, logout, exit")
	} else {
		fmt.Println("Available commands: login, register, events, show <id>, filter, page <n>, exit")
	}
}
