package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/go-co-op/gocron"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/prite36/aquaponics-iot-system/internal/config"
	"github.com/prite36/aquaponics-iot-system/internal/diagnosis"
	"github.com/prite36/aquaponics-iot-system/internal/dispatcher"
	"github.com/prite36/aquaponics-iot-system/internal/mqtt"
	"github.com/prite36/aquaponics-iot-system/internal/recorder"
	"github.com/prite36/aquaponics-iot-system/internal/server"
	"github.com/prite36/aquaponics-iot-system/internal/slack"
	"github.com/prite36/aquaponics-iot-system/internal/store"
)

// App is the monitor side of the loop: MQTT subscriber, telemetry store,
// HTTP API, recorder and notifier, owned as one object instead of package
// globals.
type App struct {
	cfg        *config.Config
	db         *gorm.DB
	mqttClient *mqtt.Client
	store      *store.Store
	dispatcher *dispatcher.Dispatcher
	notifier   *slack.Client
	httpServer *http.Server
	scheduler  *gocron.Scheduler

	ingestCh      chan []byte
	lastDiagnosis string
}

func NewApp(cfg *config.Config) (*App, error) {
	a := &App{
		cfg:       cfg,
		scheduler: gocron.NewScheduler(time.Local),
		ingestCh:  make(chan []byte, 128),
	}

	var rec store.Recorder
	if cfg.HasDatabase() {
		db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		r, err := recorder.New(db)
		if err != nil {
			return nil, fmt.Errorf("failed to migrate database schema: %w", err)
		}
		a.db = db
		rec = r
	} else {
		log.Println("Database not configured, readings will not be persisted.")
	}

	clientID := cfg.MQTT.ClientID
	if clientID == "" {
		clientID = "aquaponics-monitor-" + uuid.NewString()[:8]
	}
	mqttClient, err := mqtt.NewClient(cfg.MQTT.Broker, clientID, cfg.MQTT.Username, cfg.MQTT.Password)
	if err != nil {
		return nil, err
	}
	a.mqttClient = mqttClient

	a.store = store.New(cfg.Store.Capacity, cfg.Thresholds, rec)
	a.dispatcher = dispatcher.New(mqttClient)
	a.notifier = slack.NewClient(cfg.Slack.BotToken, cfg.Slack.ChannelID)
	a.httpServer = server.New(cfg, a.store, a.dispatcher, mqttClient)
	a.lastDiagnosis = diagnosis.DiagnosisNormal

	return a, nil
}

// Start runs the ingestion loop, the HTTP server and the summary job, then
// blocks until an interrupt signal arrives.
func (a *App) Start() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go a.ingestLoop()

	// The MQTT handler only hands the payload off; ingestion itself runs on
	// the dedicated loop so delivery order is preserved.
	err := a.mqttClient.Subscribe(mqtt.TopicSensorsAll, func(client paho.Client, msg paho.Message) {
		payload := make([]byte, len(msg.Payload()))
		copy(payload, msg.Payload())
		a.ingestCh <- payload
	})
	if err != nil {
		return err
	}

	if _, err := a.scheduler.Every(1).Day().At("08:00").Do(a.sendDailySummary); err != nil {
		return err
	}
	a.scheduler.StartAsync()

	go func() {
		log.Printf("HTTP API listening on %s", a.httpServer.Addr)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[ERROR] HTTP server stopped: %v", err)
		}
	}()

	log.Println("Aquaponics monitor started. Press Ctrl+C to stop.")

	<-sigChan

	a.Stop()
	return nil
}

// ingestLoop drains the telemetry channel one payload at a time.
func (a *App) ingestLoop() {
	for payload := range a.ingestCh {
		reading, err := a.store.Ingest(payload)
		if err != nil {
			log.Printf("[WARN] Dropping telemetry payload: %v", err)
			continue
		}

		log.Printf("Received reading #%d: %s", reading.ReadingID, reading.Diagnosis)
		a.notifyDiagnosisChange(reading.Diagnosis)
	}
}

// notifyDiagnosisChange posts to Slack when the diagnosis transitions into
// a non-normal state. Repeats of the same diagnosis stay quiet.
func (a *App) notifyDiagnosisChange(current string) {
	if current == a.lastDiagnosis {
		return
	}
	a.lastDiagnosis = current
	if current == diagnosis.DiagnosisNormal {
		a.notifier.SendMessage("System back to normal operation.")
		return
	}

	var details []string
	if reading, ok := a.store.Latest(); ok {
		for _, alert := range diagnosis.EvaluateAlerts(reading, a.store.Thresholds()) {
			details = append(details, alert.Message)
		}
	}
	a.notifier.SendAlert(current, details)
}

// sendDailySummary posts store statistics once a day.
func (a *App) sendDailySummary() {
	summary := fmt.Sprintf("Daily summary: %d readings held, current diagnosis: %s",
		a.store.Count(), a.lastDiagnosis)
	a.notifier.SendMessage(summary)
}

func (a *App) Stop() {
	log.Println("Shutting down...")

	if a.scheduler != nil {
		a.scheduler.Stop()
	}

	if a.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.httpServer.Shutdown(ctx); err != nil {
			log.Printf("[WARN] HTTP server shutdown: %v", err)
		}
	}

	if a.mqttClient != nil {
		a.mqttClient.Close()
	}

	log.Println("Aquaponics monitor stopped")
}
