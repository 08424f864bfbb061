package main

import "flag"

var (
	flagVersion, flagLogDateTime, flagVerifyCombos bool
	flagConfigFile, flagLogLevel                   string
	flagMetricsAddr, flagNatsAddr, flagNatsSubject string
)

func cliInit() {
	flag.StringVar(&flagConfigFile, "config", "./config.json", "Path to the program/scenario `config.json`")
	flag.StringVar(&flagLogLevel, "loglevel", "info", "Sets the logging level: `[debug, info (default), warn, err]`")
	flag.BoolVar(&flagLogDateTime, "logdate", false, "Add date and time to log messages")
	flag.BoolVar(&flagVersion, "version", false, "Show version information and exit")
	flag.BoolVar(&flagVerifyCombos, "verify-combos", false, "Cross-check calculate_index against the combo table for G=0..6 and exit")
	flag.StringVar(&flagMetricsAddr, "metrics-addr", "", "If set, serve Prometheus metrics and /healthz on this address (e.g. ':9090')")
	flag.StringVar(&flagNatsAddr, "nats-addr", "", "If set, publish a completion event per scenario to this NATS server")
	flag.StringVar(&flagNatsSubject, "nats-subject", "nparty.scenario.completed", "NATS subject for completion events")
	flag.Parse()
}
