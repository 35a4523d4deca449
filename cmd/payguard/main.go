package main

import (
	// Go Internal Packages
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Local Packages
	openai "payguard/clients/openai"
	payman "payguard/clients/payman"
	slack "payguard/clients/slack"
	config "payguard/config"
	kafka "payguard/kafka"
	mongodb "payguard/repositories/mongodb"
	redis "payguard/repositories/redis"
	server "payguard/server"
	alerts "payguard/services/alerts"
	payments "payguard/services/payments"

	// External Packages
	"github.com/alecthomas/kingpin/v2"
	_ "github.com/jsternberg/zap-logfmt"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/twmb/franz-go/plugin/kprom"
	"go.uber.org/zap"
)

// LoadConfig loads the default configuration and overrides it with the config
// file specified by the path defined in the config flag
func LoadConfig() *koanf.Koanf {
	configPathMsg := "Path to the application config file"
	configPath := kingpin.Flag("config", configPathMsg).Short('c').Default("config.yml").String()

	kingpin.Parse()
	k := koanf.New(".")
	_ = k.Load(rawbytes.Provider(config.DefaultConfig), yaml.Parser())
	if *configPath != "" {
		_ = k.Load(file.Provider(*configPath), yaml.Parser())
	}
	return k
}

func main() {
	k := LoadConfig()
	appKonf := config.Config{}

	// Unmarshalling config into struct
	err := k.Unmarshal("", &appKonf)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Validate the config loaded
	if err = appKonf.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if !appKonf.IsProdMode {
		k.Print()
	}

	cfg := zap.NewProductionConfig()
	cfg.Encoding = "logfmt"
	_ = cfg.Level.UnmarshalText([]byte(k.String("logger.level")))
	cfg.InitialFields = make(map[string]any)
	cfg.InitialFields["host"], _ = os.Hostname()
	cfg.InitialFields["service"] = appKonf.Application
	cfg.OutputPaths = []string{"stdout"}
	logger, _ := cfg.Build()
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Mongo Connection
	mongoClient, err := mongodb.Connect(ctx, appKonf.Mongo.URI)
	if err != nil {
		logger.Fatal("cannot create mongo client", zap.Error(err))
	}

	// Redis Connection
	redisClient, err := redis.Connect(ctx, appKonf.Redis.URI, appKonf.Redis.Password)
	if err != nil {
		logger.Fatal("cannot create redis client", zap.Error(err))
	}

	txStore := mongodb.NewTransactionsRepository(mongoClient, appKonf.Mongo.Database)
	alertLog := redis.NewAlertLog(redisClient, logger)

	metrics := kprom.NewMetrics("payguard")
	producerConf := &kafka.ProducerConfig{
		Brokers: appKonf.Kafka.Brokers,
		Name:    appKonf.Kafka.ProducerName,
		Topic:   appKonf.Kafka.Topic,
	}

	events, err := kafka.NewEventsProducer(producerConf, metrics, logger)
	if err != nil {
		logger.Fatal("cannot create events producer", zap.Error(err))
	}
	defer events.Close()

	classifier := openai.NewClassifier(
		appKonf.OpenAI.APIKey,
		appKonf.OpenAI.BaseURL,
		appKonf.OpenAI.Model,
		time.Duration(appKonf.OpenAI.TimeoutSeconds)*time.Second,
		logger,
	)
	gateway := payman.NewClient(appKonf.Payman.APISecret, appKonf.Payman.Environment, appKonf.Payman.BaseURL, logger)
	webhook := slack.NewWebhook(appKonf.Slack.WebhookURL)

	notifier := alerts.NewNotifier(logger, webhook, alertLog)
	submitter := payments.NewSubmitter(logger, gateway, appKonf.Submitter.MaxAttempts,
		time.Duration(appKonf.Submitter.RetryDelaySeconds)*time.Second)
	pipeline := payments.NewPipeline(logger, txStore, classifier, notifier, submitter, events)

	paymentsHandler := server.NewPaymentsHandler(logger, pipeline, txStore)
	srv := server.New(logger, appKonf.Server.Addr, appKonf.IsProdMode, paymentsHandler)

	if err = srv.Start(ctx); err != nil {
		logger.Fatal("http server stopped", zap.Error(err))
	}
}
