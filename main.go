package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	alertsrepo "github.com/ricmagno/KagomeReports-sub002/internal/alerts/infrastructure/postgres"
	alertshttp "github.com/ricmagno/KagomeReports-sub002/internal/alerts/interfaces/http"
	"github.com/ricmagno/KagomeReports-sub002/internal/audit"
	"github.com/ricmagno/KagomeReports-sub002/internal/auth"
	"github.com/ricmagno/KagomeReports-sub002/internal/engine"
	enginehttp "github.com/ricmagno/KagomeReports-sub002/internal/engine/interfaces/http"
	"github.com/ricmagno/KagomeReports-sub002/internal/historian"
	"github.com/ricmagno/KagomeReports-sub002/internal/notify"
	"github.com/ricmagno/KagomeReports-sub002/internal/observability/metrics"
	"github.com/ricmagno/KagomeReports-sub002/internal/reports"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	engineCfg, err := engine.LoadConfig()
	if err != nil {
		logger.Fatalf("engine config error: %v", err)
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("db ping error: %v", err)
	}

	metrics.Init(db, logger)
	auditRepo := audit.NewRepository(db)

	patternRepo := alertsrepo.NewPatternRepository(db)
	configRepo := alertsrepo.NewAlertConfigRepository(db)
	listRepo := alertsrepo.NewDistributionListRepository(db)

	reader, err := historian.NewClient(cfg.HistorianBaseURL, cfg.HistorianToken,
		historian.WithTimeout(cfg.HistorianTimeout))
	if err != nil {
		logger.Fatalf("historian client error: %v", err)
	}

	broker := enginehttp.NewSSEBroker()
	notifiers := []engine.Notifier{broker}
	if cfg.SMSGatewayURL != "" {
		channel, err := notify.NewSMSGatewayChannel(cfg.SMSGatewayURL, notify.WithToken(cfg.SMSGatewayToken))
		if err != nil {
			logger.Fatalf("sms channel error: %v", err)
		}
		tpl, err := notify.NewTemplate(cfg.NotifyTemplate)
		if err != nil {
			logger.Fatalf("notify template error: %v", err)
		}
		smsNotifier, err := notify.NewSMSNotifier(channel, tpl)
		if err != nil {
			logger.Fatalf("sms notifier error: %v", err)
		}
		notifiers = append(notifiers, smsNotifier)
	} else {
		logger.Printf("SMS_GATEWAY_URL not set, alarm notifications limited to the event stream")
	}

	dispatcher, err := engine.NewDispatcher(notify.NewMultiNotifier(notifiers...), logger,
		engine.WithQueueSize(engineCfg.QueueSize),
		engine.WithWorkers(engineCfg.Workers),
		engine.WithDispatchTimeout(time.Duration(engineCfg.DispatchTimeoutMs)*time.Millisecond))
	if err != nil {
		logger.Fatalf("dispatcher error: %v", err)
	}
	defer dispatcher.Close()

	alarmEngine, err := engine.NewEngine(configRepo, patternRepo, listRepo, reader,
		engine.NewTransitionStore(), dispatcher, logger,
		engine.WithSeparator(engineCfg.Separator))
	if err != nil {
		logger.Fatalf("alarm engine error: %v", err)
	}

	scheduler, err := engine.NewScheduler(alarmEngine,
		time.Duration(engineCfg.IntervalMs)*time.Millisecond, logger)
	if err != nil {
		logger.Fatalf("scheduler error: %v", err)
	}
	go scheduler.Start(context.Background())
	defer scheduler.Stop()
	logger.Printf("alarm engine started: interval=%dms separator=%q", engineCfg.IntervalMs, engineCfg.Separator)

	patternHandler, err := alertshttp.NewPatternHandler(patternRepo, auditRepo)
	if err != nil {
		logger.Fatalf("pattern handler error: %v", err)
	}
	configHandler, err := alertshttp.NewConfigHandler(configRepo, patternRepo, auditRepo)
	if err != nil {
		logger.Fatalf("alert config handler error: %v", err)
	}
	listHandler, err := alertshttp.NewDistributionListHandler(listRepo, auditRepo)
	if err != nil {
		logger.Fatalf("distribution list handler error: %v", err)
	}
	reportHandler, err := reports.NewHandler(configRepo, patternRepo, listRepo)
	if err != nil {
		logger.Fatalf("report handler error: %v", err)
	}

	policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/patterns", patternHandler)
	mux.Handle("/api/v1/patterns/", patternHandler)
	mux.Handle("/api/v1/alerts", configHandler)
	mux.Handle("/api/v1/alerts/", configHandler)
	mux.Handle("/api/v1/distribution-lists", listHandler)
	mux.Handle("/api/v1/distribution-lists/", listHandler)
	mux.Handle("/api/v1/reports/alerts", reportHandler)
	mux.Handle("/api/v1/alarms/stream", enginehttp.NewStreamHandler(broker))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(authMiddleware.Wrap(mux), logger)}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

type config struct {
	DatabaseURL      string
	HTTPAddr         string
	HistorianBaseURL string
	HistorianToken   string
	HistorianTimeout time.Duration
	SMSGatewayURL    string
	SMSGatewayToken  string
	NotifyTemplate   string
	JWTSecret        string
}

func loadConfig() config {
	cfg := config{
		DatabaseURL:      getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		HTTPAddr:         getenvDefault("HTTP_ADDR", ":8080"),
		HistorianBaseURL: getenvDefault("HISTORIAN_BASE_URL", ""),
		HistorianToken:   getenvDefault("HISTORIAN_TOKEN", ""),
		HistorianTimeout: getenvDuration("HISTORIAN_TIMEOUT", 10*time.Second),
		SMSGatewayURL:    getenvDefault("SMS_GATEWAY_URL", ""),
		SMSGatewayToken:  getenvDefault("SMS_GATEWAY_TOKEN", ""),
		NotifyTemplate:   getenvDefault("ALERT_NOTIFY_TEMPLATE", ""),
		JWTSecret:        getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL or PG_DSN is required")
	}
	if cfg.HistorianBaseURL == "" {
		log.Fatal("HISTORIAN_BASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("AUTH_JWT_SECRET is required")
	}
	return cfg
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
