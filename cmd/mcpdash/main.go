package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"github.com/mcpdash/mcpdash/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional)")
	prefsPath := flag.String("prefs", "", "override preferences path (optional)")
	apiURL := flag.String("api", "", "backend API root, e.g. http://localhost:5000/api (optional)")
	poll := flag.Duration("poll", 0, "refresh interval (optional, defaults to 5s)")
	debug := flag.Bool("debug", false, "write debug level entries to the log file")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		APIURL:     *apiURL,
		PollEvery:  *poll,
		Debug:      *debug,
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "mcpdash: %v\n", err)
		return 1
	}
	return 0
}
