package telemetry

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Message directions as tagged on message_traffic points.
const (
	DirectionInbound  = "in"
	DirectionOutbound = "out"
)

// WriteMessageMetric records one message crossing the node.
//
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - direction: DirectionInbound or DirectionOutbound
//   - topic: MQTT topic the message travelled on
//   - sizeBytes: Payload size in bytes
//
// Example:
//
//	client.WriteMessageMetric(telemetry.DirectionInbound, "graynode/commands", len(payload))
func (c *Client) WriteMessageMetric(direction string, topic string, sizeBytes int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"message_traffic",
		map[string]string{
			"node_id":   c.nodeID,
			"direction": direction,
			"topic":     topic,
		},
		map[string]interface{}{
			"size_bytes": sizeBytes,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteConnectionEvent records a session lifecycle transition.
//
// Used to track how often nodes connect, drop, and attach so broker or
// radio instability shows up in dashboards.
//
// Parameters:
//   - event: Event name (e.g., "connected", "disconnected", "attached")
func (c *Client) WriteConnectionEvent(event string) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"connection_events",
		map[string]string{
			"node_id": c.nodeID,
			"event":   event,
		},
		map[string]interface{}{
			"count": 1,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for measurements that don't fit the helper methods. The
// node_id tag is added automatically.
//
// Parameters:
//   - measurement: The measurement name (table)
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	merged := map[string]string{"node_id": c.nodeID}
	for k, v := range tags {
		merged[k] = v
	}

	point := write.NewPoint(measurement, merged, fields, time.Now())
	c.writeAPI.WritePoint(point)
}
