// Command matches lists the matches currently offered by the live-scores
// summary feed, so match ids can be copied into the configuration.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"cricketflow/config"
	"cricketflow/logger"
	"cricketflow/reader/cricinfo"
)

func main() {
	log := logger.GetLogger()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Error loading .env file")
	}

	configPath := flag.String("config", "config/config.yml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.WithError(err).Error("Failed to load configuration")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Reader.Timeout+5*time.Second)
	defer cancel()

	client := cricinfo.NewClient(cfg)
	listings, err := client.FetchSummary(ctx)
	if err != nil {
		log.WithError(err).Error("failed to fetch summary feed")
		os.Exit(1)
	}

	if len(listings) == 0 {
		fmt.Println("no matches in the summary feed right now")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MATCH ID\tTITLE")
	for _, l := range listings {
		fmt.Fprintf(w, "%s\t%s\n", l.ID, l.Title)
	}
	w.Flush()
}
