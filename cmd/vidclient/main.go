package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/vidfriends/webclient/internal/app"
)

func main() {
	ctx := context.Background()
	if err := app.Run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, app.ErrActionFailed) {
			os.Exit(1)
		}
		log.Fatal(err)
	}
}
