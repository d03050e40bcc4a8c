package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
)

// getStatus renders the prompt suffix: the logged-in email, or nothing.
func (a *App) getStatus() string {
	user := a.authService.CurrentUser()
	if user == nil {
		return ""
	}
	return fmt.Sprintf("(%s) ", user.Email)
}

// Root prints the welcome banner and runs the REPL over stdin.
func (a *App) Root(ctx context.Context) {
	fmt.Println("Welcome to fileshare CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
