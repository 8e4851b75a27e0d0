// Package config provides configuration loading for Gray Logic Node.
//
// Configuration is loaded from a YAML file with three layers of precedence:
//
//  1. Hardcoded defaults (lowest)
//  2. YAML file values
//  3. GRAYNODE_* environment variables (highest)
//
// Every recognised option is an explicit struct field; there is no hidden
// global state. The loaded Config is validated eagerly so misconfiguration
// (empty topics, missing credential files) fails at startup instead of
// surfacing mid-session.
//
// # Usage
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	session, err := mqtt.Connect(cfg.MQTT, bundle)
package config
