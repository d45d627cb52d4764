package cli

import (
	"context"
	"fmt"
)

func (a *App) Root(ctx context.Context) {

	fmt.Fprintln(a.out, "Welcome to NoteVault CLI (type 'help' for commands)")

	runREPL(ctx, a, a.getStatus, a.reader)

}
