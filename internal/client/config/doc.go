// Package config loads runtime configuration for the jwtclient CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config. YAML and JSON are
//     both accepted.
//  3. Environment variables prefixed with JWTCLIENT_, e.g.
//     JWTCLIENT_SERVER_HOST or JWTCLIENT_HEALTH_CHECK_INTERVAL=30s.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   host:port of the server (fallback when no address is saved)
//	-d string   path of the local SQLite database
//	-i int      health check interval (seconds)
//	-t int      request timeout (seconds)
//	-w int      worker pool size
//	-l string   log level: debug, info, warn, error
//	-f string   log file (stderr when empty)
//	-m string   listen address of the /metrics endpoint (disabled when empty)
//
// # File schema
//
//	server_host: localhost
//	server_port: "5003"
//	database_path: jwtclient.db
//	health_check_interval: 10s
//	request_timeout: 10s
//	workers: 4
//	log_level: info
//	log_file: ""
//	metrics_addr: ""
package config
