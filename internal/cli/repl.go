package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App satisfies it;
// tests provide a lightweight stub.
type execIface interface {
	List(ctx context.Context, args []string) error
	Find(ctx context.Context, query string) error
	Info(ctx context.Context, name string) error
	Get(ctx context.Context, name string) error
	Play(ctx context.Context, name string) error
	Stop(ctx context.Context) error
}

const helpText = "Available commands: (l)ist [name|size|date] [desc] [category], find <text>, info <name>, get <name>, play <name>, stop, exit"

// runREPL reads commands from scanner until EOF, "exit"/"quit" or ctx
// cancellation. Handler errors are reported by the handlers themselves, so
// the loop ignores them. Commands taking a file name use the rest of the
// line, which lets names contain spaces.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("cdn %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		cmd, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)
		if cmd == "" {
			continue
		}

		switch cmd {
		case "help":
			printlnFn(helpText)

		case "l", "list":
			_ = a.List(ctx, strings.Fields(rest))

		case "find":
			_ = a.Find(ctx, rest)

		case "info", "get", "play":
			if rest == "" {
				printlnFn(fmt.Sprintf("Usage: %s <name>", cmd))
				continue
			}
			switch cmd {
			case "info":
				_ = a.Info(ctx, rest)
			case "get":
				_ = a.Get(ctx, rest)
			case "play":
				_ = a.Play(ctx, rest)
			}

		case "stop":
			_ = a.Stop(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
