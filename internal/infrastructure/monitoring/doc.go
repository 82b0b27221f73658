/*
Package monitoring provides Prometheus metrics for the htmldesk server.

# Overview

Each Metrics value owns a private registry, so several servers (and tests)
can run in one process without duplicate registration panics.

# Features

- HTTP request metrics (latency, throughput, size) labelled by route
- Workspace file operation counters and latency, labelled by outcome
- Workspace switches and watcher events
- WebSocket connection gauge and message counters
- Go runtime, process and uptime metrics

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Workspace service reports through the Recorder interface
	svc := workspace.NewService(trash, opener, logger).WithMetrics(metrics)
*/
package monitoring
