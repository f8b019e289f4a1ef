package service

import (
	"time"

	"github.com/okian/warcut/internal/adapters/repository"
	"github.com/okian/warcut/internal/domain/model"
	"github.com/okian/warcut/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSinks adds report outputs. Sinks run in the given order.
func WithSinks(sinks ...Sink) Option {
	return func(s *Service) {
		for _, sink := range sinks {
			if sink != nil {
				s.sinks = append(s.sinks, sink)
			}
		}
	}
}

// WithStore sets the store that keeps the latest report.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithWar fixes the scoring window and opposing faction, skipping the lookup.
func WithWar(war model.War) Option {
	return func(s *Service) {
		w := war
		s.war = &w
	}
}

// WithGracePeriod extends every chain's fetch window.
func WithGracePeriod(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.grace = d
		}
	}
}

// WithRunIDGenerator overrides how run ids are minted.
func WithRunIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newRunID = gen
		}
	}
}
