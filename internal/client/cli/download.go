package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/fileshare/internal/client/api"
	"github.com/dmitrijs2005/fileshare/internal/client/services"
	"github.com/dmitrijs2005/fileshare/internal/common"
	"github.com/dustin/go-humanize"
)

// Info resolves a public download token and prints the file metadata
// without transferring anything. Works without a session.
func (a *App) Info(ctx context.Context, args []string) error {
	token, err := a.argOrPrompt(args, "Enter download token")
	if err != nil {
		return err
	}

	info, err := a.downloadService.Info(ctx, token)
	if err != nil {
		fmt.Println(api.UserMessage(err))
		return err
	}

	a.printInfo(info)
	return nil
}

func (a *App) printInfo(info *api.FileInfo) {
	fmt.Printf("%s  %s\n", info.OriginalFilename, humanize.IBytes(uint64(info.FileSize)))
	days := a.downloadService.DaysUntilExpiration(info.ExpirationDate)
	fmt.Println(services.ExpirationMessage(days))
	if info.HasPassword {
		fmt.Println("This file is password protected.")
	}
}

// Download runs the public two-phase download flow: resolve the token,
// show the metadata, then transfer, prompting for the password when the
// file is protected. A wrong password keeps the prompt open for another
// try instead of aborting the flow.
func (a *App) Download(ctx context.Context, args []string) error {
	token, err := a.argOrPrompt(args, "Enter download token")
	if err != nil {
		return err
	}

	info, err := a.downloadService.Info(ctx, token)
	if err != nil {
		fmt.Println(api.UserMessage(err))
		return err
	}

	a.printInfo(info)
	if info.IsExpired {
		fmt.Println(api.UserMessage(api.ErrGone))
		return api.ErrGone
	}

	for {
		var password []byte
		if info.HasPassword {
			password, err = getPassword("Enter file password: ", os.Stdout)
			if err != nil {
				return err
			}
			if len(password) == 0 {
				fmt.Println(services.ErrPasswordRequired.Error())
				continue
			}
		}

		path, err := a.downloadService.Download(ctx, token, info, string(password), a.config.DownloadDir)
		common.WipeByteArray(password)
		if err != nil {
			fmt.Println(api.UserMessage(err))
			if errors.Is(err, api.ErrWrongPassword) {
				// form stays editable, let the user retry
				continue
			}
			return err
		}

		fmt.Printf("Saved to %s\n", path)
		return nil
	}
}

// OwnerGet downloads one of the caller's own files by token, bypassing the
// password gate. Requires an authenticated session.
func (a *App) OwnerGet(ctx context.Context, args []string) error {
	if !a.requireAuth(RouteOwnerDownload) {
		return nil
	}

	token, err := a.argOrPrompt(args, "Enter download token")
	if err != nil {
		return err
	}

	path, err := a.downloadService.OwnerDownload(ctx, token, a.config.DownloadDir)
	if err != nil {
		fmt.Println(api.UserMessage(err))
		return err
	}

	fmt.Printf("Saved to %s\n", path)
	return nil
}
