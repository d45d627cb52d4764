package cli

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
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
	SetupTwoFactor(ctx context.Context) error
	DisableTwoFactor(ctx context.Context) error
	ShowBackupCodes(ctx context.Context) error
	Save(ctx context.Context) error
	Edit(ctx context.Context, id string) error
	List(ctx context.Context) error
	Open(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	ChangePassword(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
	Activity(ctx context.Context, limit int) error
	Export(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: register, login, help, quit"
	helpLoggedIn  = "Available commands: save, edit <id>, list, open <id>, delete <id>, " +
		"2fa-setup, 2fa-disable, backup-codes, passwd, delete-account, activity [n], export, logout, help, quit"
)

// runREPL starts a simple read-eval-print loop for the NoteVault CLI.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to methods on 'a'. Commands other than register, login, help
// and quit require a session. A handler error is printed; if it means the
// session is gone, the client logs out. The loop exits on EOF or when the
// user types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("nv%s> ", statusFn()))
		line, err := reader.ReadString('\n')
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if err != nil {
				return
			}
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}

		if cmdErr := dispatch(ctx, a, cmd, args); cmdErr != nil {
			printlnFn("Error:", describe(cmdErr))
			if sessionLost(cmdErr) && a.isLoggedIn() {
				_ = a.Logout(ctx)
			}
		}

		if err != nil {
			return
		}
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {

	switch cmd {
	case "help":
		if a.isLoggedIn() {
			printlnFn(helpLoggedIn)
		} else {
			printlnFn(helpLoggedOut)
		}
		return nil
	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	}

	if !a.isLoggedIn() {
		if _, known := sessionCommands[cmd]; known {
			printlnFn("Please log in first")
		} else {
			printlnFn("Unknown command:", cmd)
		}
		return nil
	}

	switch cmd {
	case "logout":
		return a.Logout(ctx)
	case "2fa-setup":
		return a.SetupTwoFactor(ctx)
	case "2fa-disable":
		return a.DisableTwoFactor(ctx)
	case "backup-codes":
		return a.ShowBackupCodes(ctx)
	case "save":
		return a.Save(ctx)
	case "l", "list":
		return a.List(ctx)
	case "edit", "open", "delete":
		if len(args) == 0 {
			printlnFn(fmt.Sprintf("Usage: %s <id>", cmd))
			return nil
		}
		switch cmd {
		case "edit":
			return a.Edit(ctx, args[0])
		case "open":
			return a.Open(ctx, args[0])
		default:
			return a.Delete(ctx, args[0])
		}
	case "passwd":
		return a.ChangePassword(ctx)
	case "delete-account":
		return a.DeleteAccount(ctx)
	case "activity":
		limit := 0
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				printlnFn("Usage: activity [n]")
				return nil
			}
			limit = n
		}
		return a.Activity(ctx, limit)
	case "export":
		return a.Export(ctx)
	default:
		printlnFn("Unknown command:", cmd)
		return nil
	}
}

var sessionCommands = map[string]struct{}{
	"logout": {}, "2fa-setup": {}, "2fa-disable": {}, "backup-codes": {},
	"save": {}, "l": {}, "list": {}, "edit": {}, "open": {}, "delete": {},
	"passwd": {}, "delete-account": {}, "activity": {}, "export": {},
}
