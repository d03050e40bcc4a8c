package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Upload(ctx context.Context, args []string) error
	Delete(ctx context.Context) error
	Info(ctx context.Context, args []string) error
	Download(ctx context.Context, args []string) error
	OwnerGet(ctx context.Context, args []string) error
}

// runREPL starts a simple read–eval–print loop for the fileshare CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// The public commands (info, download) work without a session; the rest are
// gated by the route guard inside their handlers. Any errors returned by
// command handlers are ignored here; handlers print their own messages.
// This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		fmt.Printf("fs %s> ", statusFn())
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (l)ist [all|active|expired], upload <path>, delete, get <token>, info <token>, download <token>, logout, exit")
			} else {
				printlnFn("Available commands: register, login, info <token>, download <token>, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "l", "list":
			_ = a.List(ctx, args)

		case "upload":
			_ = a.Upload(ctx, args)

		case "delete":
			_ = a.Delete(ctx)

		case "info":
			_ = a.Info(ctx, args)

		case "download":
			_ = a.Download(ctx, args)

		case "get":
			_ = a.OwnerGet(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
