package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/fileshare/internal/client/api"
)

// getConfirmation is a test seam for the yes/no prompt.
var getConfirmation = GetConfirmation

// Delete removes one of the caller's files after an explicit confirmation.
// On cancel no request is sent; on failure the local list is untouched and
// only an error message is shown.
func (a *App) Delete(ctx context.Context) error {
	if !a.requireAuth(RouteDelete) {
		return nil
	}

	id, err := getSimpleText(a.reader, "Enter file id to delete", os.Stdout)
	if err != nil {
		return err
	}

	confirmed, err := getConfirmation(a.reader, fmt.Sprintf("Delete file %s? This cannot be undone.", id), os.Stdout)
	if err != nil {
		return err
	}
	if !confirmed {
		fmt.Println("Cancelled")
		return nil
	}

	if err := a.filesService.Delete(ctx, id); err != nil {
		fmt.Println(api.UserMessage(err))
		return err
	}

	fmt.Println("File deleted")
	return nil
}
