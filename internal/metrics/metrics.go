// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package metrics records light client keeper metrics with prometheus.
package metrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "lightclient"

// Outcomes of a client update.
const (
	OutcomeUpdated  = "updated"
	OutcomeFrozen   = "frozen"
	OutcomeRejected = "rejected"
)

// Prometheus records keeper metrics into prometheus collectors.
type Prometheus struct {
	updates      *prometheus.CounterVec
	misbehaviour *prometheus.CounterVec
	pruned       *prometheus.CounterVec
}

// NewPrometheus creates the collectors and registers them on the registerer.
// Collectors already registered are reused.
func NewPrometheus(registerer prometheus.Registerer) (metrics *Prometheus, err error) {
	metrics = &Prometheus{
		updates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "client_updates_total",
			Help:      "client updates by client type and outcome",
		}, []string{"client_type", "outcome"}),
		misbehaviour: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "misbehaviour_detected_total",
			Help:      "misbehaviour detected by client type",
		}, []string{"client_type"}),
		pruned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "consensus_states_pruned_total",
			Help:      "consensus states pruned by client type",
		}, []string{"client_type"}),
	}

	collectorsToRegister := map[string]**prometheus.CounterVec{
		"client updates counter":          &metrics.updates,
		"misbehaviour counter":            &metrics.misbehaviour,
		"pruned consensus states counter": &metrics.pruned,
	}
	for collectorName, collector := range collectorsToRegister {
		err = registerer.Register(*collector)
		alreadyRegistered := prometheus.AlreadyRegisteredError{}
		switch {
		case errors.As(err, &alreadyRegistered):
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				return nil, fmt.Errorf("cannot register %s: %w", collectorName, err)
			}
			*collector = existing
		case err != nil:
			return nil, fmt.Errorf("cannot register %s: %w", collectorName, err)
		}
	}

	return metrics, nil
}

func (m *Prometheus) ClientUpdated(clientType, outcome string) {
	m.updates.WithLabelValues(clientType, outcome).Inc()
}

func (m *Prometheus) MisbehaviourDetected(clientType string) {
	m.misbehaviour.WithLabelValues(clientType).Inc()
}

func (m *Prometheus) ConsensusStatesPruned(clientType string, count int) {
	m.pruned.WithLabelValues(clientType).Add(float64(count))
}

// NoOp discards all metrics.
type NoOp struct{}

func (NoOp) ClientUpdated(string, string) {}

func (NoOp) MisbehaviourDetected(string) {}

func (NoOp) ConsensusStatesPruned(string, int) {}
