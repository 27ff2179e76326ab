package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real session type satisfies this interface; tests can provide a
// lightweight stub.
type execIface interface {
	Dirty() bool
	List(ctx context.Context) error
	MakeDir(ctx context.Context, name string) error
	RemoveDir(ctx context.Context, name string) error
	ChangeDir(ctx context.Context, name string) error
	RenameDir(ctx context.Context, oldName, newName string) error
	Add(ctx context.Context, name string) error
	Get(ctx context.Context, name string) error
	Remove(ctx context.Context, name string) error
	Copy(ctx context.Context, name string) error
	Info(ctx context.Context) error
	Save(ctx context.Context) error
}

const helpText = `Available commands:
  ls                 list directories, or records in the current directory
  mkdir NAME         add a directory
  rmdir NAME         remove a directory
  cd NAME | .. | /   change directory
  mv OLD NEW         rename a directory
  add NAME           add a record (value is read without echo)
  get NAME           print a record value
  rm NAME            remove a record
  copy NAME          copy a record value to the clipboard
  info               show vault details
  save               write the vault to disk
  exit | quit        leave`

// runREPL reads commands from p until EOF or exit and dispatches them to a.
// Handler errors are printed and the loop carries on. Leaving with unsaved
// changes needs a second exit in a row; any other command re-arms the warning.
func runREPL(ctx context.Context, a execIface, statusFn func() string, p prompter) {
	warned := false

	for {
		if ctx.Err() != nil {
			return
		}
		line, err := p.Prompt(fmt.Sprintf("gv %s> ", statusFn()))
		if err != nil {
			if !errors.Is(err, io.EOF) {
				printlnFn(errorStyle.Sprint("Error:"), err)
			}
			printlnFn()
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]
		if cmd != "exit" && cmd != "quit" {
			warned = false
		}

		var cmdErr error
		switch cmd {
		case "help":
			printlnFn(helpText)

		case "ls":
			cmdErr = a.List(ctx)

		case "mkdir":
			if !usage(args, 1, "mkdir NAME") {
				continue
			}
			cmdErr = a.MakeDir(ctx, args[0])

		case "rmdir":
			if !usage(args, 1, "rmdir NAME") {
				continue
			}
			cmdErr = a.RemoveDir(ctx, args[0])

		case "cd":
			if !usage(args, 1, "cd NAME | .. | /") {
				continue
			}
			cmdErr = a.ChangeDir(ctx, args[0])

		case "mv":
			if !usage(args, 2, "mv OLD NEW") {
				continue
			}
			cmdErr = a.RenameDir(ctx, args[0], args[1])

		case "add":
			if !usage(args, 1, "add NAME") {
				continue
			}
			cmdErr = a.Add(ctx, args[0])

		case "get":
			if !usage(args, 1, "get NAME") {
				continue
			}
			cmdErr = a.Get(ctx, args[0])

		case "rm":
			if !usage(args, 1, "rm NAME") {
				continue
			}
			cmdErr = a.Remove(ctx, args[0])

		case "copy":
			if !usage(args, 1, "copy NAME") {
				continue
			}
			cmdErr = a.Copy(ctx, args[0])

		case "info":
			cmdErr = a.Info(ctx)

		case "save":
			cmdErr = a.Save(ctx)

		case "exit", "quit":
			if a.Dirty() && !warned {
				warned = true
				printlnFn(warningStyle.Sprint("There are unsaved changes. Type save to keep them, or exit again to discard."))
				continue
			}
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn(errorStyle.Sprint("Error:"), cmdErr)
		}
	}
}

func usage(args []string, n int, text string) bool {
	if len(args) != n {
		printlnFn("Usage:", text)
		return false
	}
	return true
}
