package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/evalphobia/logrus_sentry"
	"github.com/sirupsen/logrus"

	relay "github.com/talkwire/relay-server"
	"github.com/talkwire/relay-server/auth"
	"github.com/talkwire/relay-server/directory"
	"github.com/talkwire/relay-server/webchat"
)

func main() {
	config := relay.LoadConfig("relay_server.toml")

	// configure our logger
	logrus.SetOutput(os.Stdout)
	level, err := logrus.ParseLevel(config.LogLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level '%s'", level)
	}
	logrus.SetLevel(level)

	// if we have a DSN entry, try to initialize it
	if config.SentryDSN != "" {
		hook, err := logrus_sentry.NewSentryHook(config.SentryDSN, []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel})
		if err != nil {
			logrus.Fatalf("Invalid sentry DSN: '%s': %s", config.SentryDSN, err)
		}
		hook.Timeout = 0
		hook.StacktraceConfiguration.Enable = true
		hook.StacktraceConfiguration.Skip = 4
		hook.StacktraceConfiguration.Context = 5
		logrus.StandardLogger().Hooks.Add(hook)
	}

	policy, err := webchat.ParseDuplicatePolicy(config.DuplicateSessionPolicy)
	if err != nil {
		logrus.Fatalf("Invalid duplicate session policy: %s", err)
	}

	var authenticator auth.Authenticator
	if config.AuthSecret != "" {
		authenticator = auth.NewTokenAuthenticator(config.AuthSecret)
	} else {
		logrus.Warn("no auth secret configured, identity claims are not verified")
	}

	dir := directory.New()
	hub := webchat.NewHub(webchat.NewRegistry(policy), dir, config.SendBuffer)
	go hub.Run()

	startTime := time.Now()
	server := relay.NewServer(config)
	server.Router().Get("/", webchat.Index)
	server.Router().Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		webchat.Ping(startTime, w, r)
	})
	server.Router().Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		webchat.ServeWS(hub, authenticator, w, r)
	})
	server.Router().Post("/users", func(w http.ResponseWriter, r *http.Request) {
		directory.AddUserHandler(dir, w, r)
	})
	server.Router().Get("/users", func(w http.ResponseWriter, r *http.Request) {
		directory.ListUsersHandler(dir, w, r)
	})
	err = server.Start()
	if err != nil {
		logrus.Fatalf("Error starting server: %s", err)
	}

	// stop server on signal received
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	logrus.WithField("comp", "main").WithField("signal", <-ch).Info("stopping")
	server.Stop()
	hub.Stop()
}
