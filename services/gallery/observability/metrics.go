// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability provides Prometheus metrics for the gallery service.
//
// Metrics are exposed via the /metrics endpoint. All operations are
// thread-safe via Prometheus's internal locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "gallery"

// Metrics holds all Prometheus metrics for the gallery service.
// Initialize once at startup via InitMetrics().
type Metrics struct {
	// InteractionsTotal counts toggle actions.
	// Labels: kind (post_like, comment_like, membership, save),
	// direction (on, off)
	InteractionsTotal *prometheus.CounterVec

	// NotificationsCreatedTotal counts notification side effects.
	// Labels: kind (like, comment, community, seeding, welcome)
	NotificationsCreatedTotal *prometheus.CounterVec

	// SeedingDurationSeconds measures end-to-end comment seeding time.
	// Labels: status (success, error)
	SeedingDurationSeconds *prometheus.HistogramVec

	// SeededCommentsTotal counts comments written by the seeding engine.
	SeededCommentsTotal prometheus.Counter

	// GenAIErrorsTotal counts upstream generation failures.
	// Labels: operation (comments, classify, image)
	GenAIErrorsTotal *prometheus.CounterVec

	// ImageGateTotal counts validity-gate outcomes.
	// Labels: outcome (accepted, rejected, error)
	ImageGateTotal *prometheus.CounterVec
}

// DefaultMetrics is the singleton initialized by InitMetrics.
var DefaultMetrics *Metrics

// InitMetrics creates and registers all gallery metrics. Call once at
// startup; repeat calls return the existing instance.
func InitMetrics() *Metrics {
	if DefaultMetrics != nil {
		return DefaultMetrics
	}
	DefaultMetrics = &Metrics{
		InteractionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "interactions_total",
			Help:      "Toggle interactions by kind and direction.",
		}, []string{"kind", "direction"}),
		NotificationsCreatedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "notifications_created_total",
			Help:      "Notifications emitted as interaction side effects.",
		}, []string{"kind"}),
		SeedingDurationSeconds: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "seeding_duration_seconds",
			Help:      "Time to populate an empty comment thread.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
		}, []string{"status"}),
		SeededCommentsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "seeded_comments_total",
			Help:      "Comments written by the AI seeding engine.",
		}),
		GenAIErrorsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "genai_errors_total",
			Help:      "Upstream generative-content failures by operation.",
		}, []string{"operation"}),
		ImageGateTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "image_gate_total",
			Help:      "Image validity gate outcomes.",
		}, []string{"outcome"}),
	}
	return DefaultMetrics
}

// RecordInteraction increments the toggle counter, mapping the boolean
// "now active" result onto the direction label.
func (m *Metrics) RecordInteraction(kind string, on bool) {
	if m == nil {
		return
	}
	direction := "off"
	if on {
		direction = "on"
	}
	m.InteractionsTotal.WithLabelValues(kind, direction).Inc()
}

// RecordNotification increments the notification counter.
func (m *Metrics) RecordNotification(kind string) {
	if m == nil {
		return
	}
	m.NotificationsCreatedTotal.WithLabelValues(kind).Inc()
}
