package commands

import (
	"log/slog"
	"os"
	"timetable-backend/lib/configutil"
	"timetable-backend/lib/restyutil"
	"timetable-backend/lib/schedule"
	"timetable-backend/lib/scrapers/rutapi"
	"timetable-backend/lib/scrapers/rutsite"
	"timetable-backend/lib/search"
	"timetable-backend/lib/serviceutil"
)

type Config struct {
	BaseUrl  string `json:"base_url"`
	Database string `json:"database"`
}

var debugHttp *bool

func init() {
	debugHttp = rootCmd.PersistentFlags().Bool(
		"debug-http", false,
		"Dump http transcripts to .dev/resty/timetable-cli.",
	)
}

func loadConfig() Config {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil && !os.IsNotExist(err) {
		serviceutil.Fatal("failed to read config", err)
	}
	if cfg.BaseUrl == "" {
		cfg.BaseUrl = rutsite.DefaultBaseURL
	}
	if cfg.Database == "" {
		cfg.Database = "snapshots.db"
	}
	return cfg
}

func createClients(cfg Config) (*rutapi.Client, *rutsite.Client) {
	classifier := &schedule.Classifier{
		Observer: func(label string) {
			slog.Info("encountered new lesson type label", "label", label)
		},
	}

	api, err := rutapi.NewClient(rutapi.ClientOptions{
		BaseURL:    cfg.BaseUrl,
		Classifier: classifier,
	})
	if err != nil {
		serviceutil.Fatal("failed to initialize api client", err)
	}
	site, err := rutsite.NewClient(rutsite.ClientOptions{
		BaseURL:    cfg.BaseUrl,
		Classifier: classifier,
	})
	if err != nil {
		serviceutil.Fatal("failed to initialize site client", err)
	}

	if *debugHttp {
		out := restyutil.NewFilesystemOutput(".dev/resty/timetable-cli")
		restyutil.DumpTranscripts(api.Http, out)
		restyutil.DumpTranscripts(site.Http, out)
	}
	return api, site
}

func createFetcher(api *rutapi.Client, site *rutsite.Client) schedule.Fetcher {
	return schedule.FetcherMux{
		Group: rutapi.Fetcher{Client: api},
		Site:  rutsite.Fetcher{Client: site},
	}
}

func createResolver(api *rutapi.Client, site *rutsite.Client) *search.Resolver {
	return &search.Resolver{Api: api, Site: site}
}
