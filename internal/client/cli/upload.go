package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/fileshare/internal/client/upload"
)

// Upload sends a local file to the server, optionally protected by a
// password and expiring after 1–7 days. The path comes from the first
// argument or an interactive prompt.
//
// Form values are validated before the state machine is armed: a short
// password or an out-of-range expiration aborts without any network call.
// The upload surface is reset when the command finishes, so nothing staged
// here can leak into the next attempt.
func (a *App) Upload(ctx context.Context, args []string) error {
	if !a.requireAuth(RouteUpload) {
		return nil
	}
	defer a.tracker.Reset()

	path, err := a.argOrPrompt(args, "Enter path of the file to upload")
	if err != nil {
		return err
	}

	password, err := getPassword("Password to protect the file (optional, empty for none): ", os.Stdout)
	if err != nil {
		return err
	}
	if err := upload.ValidatePassword(string(password)); err != nil {
		fmt.Println(err.Error())
		return nil
	}

	daysText, err := getSimpleText(a.reader, fmt.Sprintf("Expiration in days (%d-%d)", upload.MinExpirationDays, upload.MaxExpirationDays), os.Stdout)
	if err != nil {
		return err
	}
	days, err := strconv.Atoi(daysText)
	if err != nil {
		fmt.Println(upload.ErrExpirationOutOfRange.Error())
		return nil
	}
	if err := upload.ValidateExpirationDays(days); err != nil {
		fmt.Println(err.Error())
		return nil
	}

	a.tracker.SetForm(string(password), days)

	done := make(chan struct{})
	go a.showProgress(done)

	meta, err := a.filesService.Upload(ctx, path, a.tracker)
	close(done)
	if err != nil {
		st := a.tracker.State()
		if st.Status == upload.StatusError {
			fmt.Println("\n" + st.Message)
		} else {
			fmt.Println("\n" + err.Error())
		}
		return err
	}

	fmt.Printf("\nUpload complete: %s\n", meta.Filename)
	fmt.Printf("Share link: %s\n", meta.DownloadURL)
	if meta.HasPassword {
		fmt.Println("The file is password protected.")
	}
	return nil
}

// showProgress repaints the current upload percentage until done closes.
func (a *App) showProgress(done <-chan struct{}) {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if st := a.tracker.State(); st.Status == upload.StatusUploading {
				fmt.Printf("\ruploading... %3d%%", st.Progress)
			}
		}
	}
}

// argOrPrompt returns the first argument when present, otherwise prompts.
func (a *App) argOrPrompt(args []string, prompt string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return getSimpleText(a.reader, prompt, os.Stdout)
}
