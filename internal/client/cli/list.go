package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fileshare/internal/client/api"
	"github.com/dmitrijs2005/fileshare/internal/client/services"
	"github.com/dustin/go-humanize"
)

// List fetches and prints the caller's files. An optional argument selects
// the filter: all (default), active, or expired.
func (a *App) List(ctx context.Context, args []string) error {
	if !a.requireAuth(RouteFiles) {
		return nil
	}

	if len(args) > 0 {
		a.filesService.SetFilter(services.Filter(args[0]))
	}

	_, err := a.filesService.Refresh(ctx, api.ListParams{IncludeExpired: true})
	if err != nil {
		fmt.Println(api.UserMessage(err))
		return err
	}

	files := a.filesService.Visible()
	if len(files) == 0 {
		fmt.Printf("No files (%s)\n", a.filesService.Filter())
		return nil
	}

	now := time.Now()
	for _, f := range files {
		protected := ""
		if f.HasPassword {
			protected = " [protected]"
		}
		fmt.Printf("%s  %s  %s  %s%s\n",
			f.ID, f.Filename, humanize.IBytes(uint64(f.FileSize)),
			services.FileDisplayStatus(f, now), protected)
		fmt.Printf("    link: %s\n", f.DownloadURL)
	}
	if page := a.filesService.Page(); page != nil {
		fmt.Printf("Page %d of %d (%d files total)\n", page.CurrentPage, page.TotalPages, page.TotalElements)
	}
	return nil
}

// requireAuth runs the route guard and tells the user to log in when the
// navigation is refused.
func (a *App) requireAuth(route Route) bool {
	decision := CanEnter(route, a.isLoggedIn())
	if !decision.Allow {
		fmt.Printf("Please log in first (redirecting to %s)\n", decision.RedirectTo)
		return false
	}
	return true
}
