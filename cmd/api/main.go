package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"movie-insights-go/internal/config"
	"movie-insights-go/internal/dataset"
	"movie-insights-go/internal/logger"
	"movie-insights-go/internal/normalizer"
	"movie-insights-go/internal/pipeline"
	"movie-insights-go/internal/ranker"
	"movie-insights-go/internal/types"
)

func main() {
	_ = godotenv.Load() // loads .env

	log := logger.New()
	log.WithField("service", "movie-insights-go").Info("starting service")

	cfg := config.FromEnv()

	domesticPath := envOr("DOMESTIC_DATASET_PATH", "kobis_weekly.xlsx")
	globalPath := envOr("GLOBAL_DATASET_PATH", "tmdb_global_top.xlsx")

	domestic, domQuality := mustLoad(log, domesticPath, dataset.DomesticSchema(), cfg)
	global, glbQuality := mustLoad(log, globalPath, dataset.GlobalSchema(), cfg)

	report, err := pipeline.Run(domestic, global, cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to assemble report")
	}
	report.Quality = map[string]normalizer.Report{
		domestic.Name: domQuality,
		global.Name:   glbQuality,
	}

	mux := http.NewServeMux()

	// health
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		logger.New().WithRequest(r).Info("health check")
		fmt.Fprint(w, "ok")
	})

	// full report, computed once at startup over immutable snapshots
	mux.HandleFunc("/report", func(w http.ResponseWriter, r *http.Request) {
		logger.New().WithRequest(r).WithField("handler", "report").Info("report requested")
		writeJSON(w, report)
	})

	// on-demand ranking: /rankings?source=domestic&metric=cum_audience&n=10
	mux.HandleFunc("/rankings", func(w http.ResponseWriter, r *http.Request) {
		reqLog := logger.New().WithRequest(r).WithField("handler", "rankings")

		ds := domestic
		if r.URL.Query().Get("source") == global.Name {
			ds = global
		}
		metric := r.URL.Query().Get("metric")
		if metric == "" {
			reqLog.Warn("missing metric")
			http.Error(w, "missing metric", http.StatusBadRequest)
			return
		}
		n := cfg.TopN
		if v := r.URL.Query().Get("n"); v != "" {
			if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
				n = parsed
			}
		}
		reqLog.WithField("source", ds.Name).WithField("metric", metric).WithField("n", n).Info("ranking")
		writeJSON(w, ranker.TopN(ds, metric, n))
	})

	// audience distribution histogram
	mux.HandleFunc("/buckets", func(w http.ResponseWriter, r *http.Request) {
		logger.New().WithRequest(r).WithField("handler", "buckets").Info("buckets requested")
		writeJSON(w, report.AudienceBuckets)
	})

	addr := fmt.Sprintf(":%s", envOr("PORT", "8080"))
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.WithField("addr", addr).Info("listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server terminated")
	}
}

// mustLoad reads and normalizes one source, optionally fetching the
// workbook first when a *_DATASET_URL override is present. A schema
// error is fatal; row-level problems only show up in the counters.
func mustLoad(log *logger.Logger, path string, schema types.Schema, cfg config.Config) (types.Dataset, normalizer.Report) {
	if url := os.Getenv(envKey(schema.Name, "DATASET_URL")); url != "" {
		if err := dataset.Fetch(url, path, 2*time.Minute); err != nil {
			log.WithError(err).Fatal("failed to fetch workbook")
		}
	}
	log.WithField("path", path).WithField("source", schema.Name).Info("loading dataset")
	rows, err := dataset.Load(path, schema)
	if err != nil {
		log.WithError(err).Fatal("failed to load dataset")
	}
	ds, quality, err := normalizer.Normalize(rows, schema, cfg)
	if err != nil {
		var schemaErr *types.SchemaError
		if errors.As(err, &schemaErr) {
			log.WithError(err).Fatal("source is structurally unreadable")
		}
		log.WithError(err).Fatal("failed to normalize dataset")
	}
	return ds, quality
}

func envKey(source, suffix string) string {
	if source == "global" {
		return "GLOBAL_" + suffix
	}
	return "DOMESTIC_" + suffix
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		logger.New().WithError(err).Error("failed to write response")
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
