// Package logging provides structured logging for Gray Logic Node.
//
// It wraps the standard library's log/slog with node-specific defaults:
// service name and version fields on every record, level filtering from
// configuration, and a choice of JSON (production) or text (development)
// output.
//
// # Usage
//
//	log := logging.New(cfg.Logging, version)
//	log.Info("session established", "broker", cfg.MQTT.Broker.URL)
//
//	bridgeLog := log.With("component", "bridge")
//	bridgeLog.Warn("event stream closed")
package logging
