// Package telemetry ships node metrics to InfluxDB.
//
// It wraps the official influxdb-client-go v2 library with the node's
// patterns for connection management, metric writing, and health
// monitoring.
//
// # Purpose
//
// This package records time-series data for:
//   - Message traffic per topic and direction
//   - Session lifecycle events (connected, disconnected, attached)
//
// # Usage
//
//	client, err := telemetry.Connect(cfg.Telemetry, cfg.Node.ID)
//	if errors.Is(err, telemetry.ErrDisabled) {
//	    // Run without telemetry
//	}
//	defer client.Close()
//
//	client.WriteMessageMetric(telemetry.DirectionInbound, topic, len(payload))
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
//
// # Error Handling
//
// Write operations are non-blocking; batch errors are delivered via the
// SetOnError callback. Connection and health check errors are returned
// directly.
package telemetry
