package main

import (
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/wanderplan/backend/internal/currency"
	"github.com/wanderplan/backend/internal/models"
	"github.com/wanderplan/backend/internal/router"
)

func main() {
	// gin uses debug as the default mode, we use release for
	// security reasons
	ginMode, ok := os.LookupEnv("GIN_MODE")
	if !ok {
		gin.SetMode("release")
	} else {
		gin.SetMode(ginMode)
	}

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	logFormat, ok := os.LookupEnv("LOG_FORMAT")
	output := io.Writer(os.Stdout)
	if (!ok && gin.IsDebugging()) || (ok && logFormat == "human") {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	dbPath, ok := os.LookupEnv("DB_PATH")
	if !ok {
		dbPath = filepath.Join("data", "wanderplan.db")

		err := os.MkdirAll(filepath.Dir(dbPath), os.ModePerm)
		if err != nil {
			log.Fatal().Msg(err.Error())
		}
	}

	// Connect to the database. This also runs the migrations
	err := models.Connect(dbPath)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	// All summary figures are converted into rates relative to this currency
	base, ok := os.LookupEnv("BASE_CURRENCY")
	if !ok {
		base = "EUR"
	}

	// Load the persisted rate snapshot so that conversion works from the
	// first request on, even before the first refresh
	err = currency.LoadSnapshot(models.DB, base)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	var refresher *currency.Refresher
	sourceURL, ok := os.LookupEnv("RATE_SOURCE_URL")
	if ok {
		refresher = currency.NewRefresher(models.DB, currency.HTTPSource{URL: sourceURL}, base)

		schedule, ok := os.LookupEnv("RATE_REFRESH_SCHEDULE")
		if !ok {
			schedule = currency.DefaultSchedule
		}

		if err := refresher.Register(schedule); err != nil {
			log.Fatal().Msg(err.Error())
		}

		refresher.Start()
		defer refresher.Stop()
	} else {
		log.Info().Msg("RATE_SOURCE_URL is not set, exchange rates will not be refreshed")

		// A refresher without a source still backs the manual refresh
		// endpoint, it only ever reloads the persisted snapshot
		refresher = currency.NewRefresher(models.DB, currency.StaticSource{}, base)
	}

	apiURL, ok := os.LookupEnv("API_URL")
	if !ok {
		apiURL = "http://localhost:8080"
	}

	parsedURL, err := url.Parse(apiURL)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	r, teardown, err := router.Config(parsedURL)
	defer teardown()
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	router.AttachRoutes(r.Group(""), refresher)

	if err := r.Run(); err != nil {
		log.Fatal().Msg(err.Error())
	}
}
