package handlers

import (
	"github.com/prometheus/client_golang/prometheus"

	"arden/api_monitor/internal/alerts"
	"arden/api_monitor/internal/store"
	"arden/api_monitor/pkg/logging"
)

var (
	dir               store.Directory
	engine            *alerts.Engine
	logger            logging.Logger
	defaultAlertEmail string

	heartbeatsTotal    prometheus.Counter
	metricReportsTotal prometheus.Counter
)

// Init initializes the handlers with their collaborators
func Init(d store.Directory, eng *alerts.Engine, log logging.Logger, defaultRecipient string) {
	dir = d
	engine = eng
	logger = log
	defaultAlertEmail = defaultRecipient
}

// InitMetrics wires the ingest counters. Either may be nil.
func InitMetrics(heartbeats, metricReports prometheus.Counter) {
	heartbeatsTotal = heartbeats
	metricReportsTotal = metricReports
}
