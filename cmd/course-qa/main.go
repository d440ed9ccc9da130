package main

// @title           Course QA API
// @version         1.0
// @description     Answers course questions with ranked links to course material and forum topics.

// @contact.name   Course QA maintainers
// @contact.url    https://github.com/custodia-labs/course-qa/issues

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8000
// @BasePath  /
// @schemes   http https

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/course-qa/internal/adapters/driving/cli"
	"github.com/custodia-labs/course-qa/internal/config"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	cli.SetVersion(version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// version and ask need no configuration
	cfg, err := config.Load()
	switch {
	case err == nil:
		app := newApplication(cfg, version)
		defer app.Close()
		cli.SetApp(app)
	case needsConfig(os.Args[1:]):
		log.Printf("course-qa %s: %v", version, err)
		return 2
	}

	if err := cli.Execute(ctx); err != nil {
		return 1
	}
	return 0
}

// needsConfig reports whether the subcommand runs the service graph
func needsConfig(args []string) bool {
	for _, a := range args {
		switch a {
		case "serve", "ingest", "questions":
			return true
		}
	}
	return false
}
