/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Command keyedstore imports, inspects and converts entity snapshots.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/suparena/keyedstore/errors"
)

func main() {
	log.SetPrefix("keyedstore: ")
	log.SetFlags(0)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(loadConfig()).ExecuteContext(ctx); err != nil {
		log.Printf("%s: %v", errors.KindOf(err), err)
		stop()
		os.Exit(1)
	}
}
