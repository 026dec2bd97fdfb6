package framework

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ElMonstro/Lean/internal/application/port"
	"github.com/ElMonstro/Lean/internal/domain/model"
)

var (
	ErrNoFeeds      = errors.New("no feeds")
	ErrNoModel      = errors.New("no portfolio construction model")
	ErrUnknownEvent = errors.New("unknown event kind")
)

type ServiceDeps struct {
	Feeds     []port.InsightFeed
	Host      *Host
	Model     port.PortfolioConstructionModel
	ModelName string
	Repo      port.Repository
	Sink      port.Sink
	Metrics   port.Metrics
	Formatter *Formatter
	NewID     func() string // batch id generator, defaults to uuid
}

// Service drives a portfolio construction model from insight feeds
type Service struct {
	deps ServiceDeps
	fmt  *Formatter
}

func NewService(deps ServiceDeps) (*Service, error) {
	if deps.Model == nil {
		return nil, ErrNoModel
	}
	if deps.Host == nil {
		deps.Host = NewHost("", nil)
	}
	if deps.Repo == nil {
		deps.Repo = NewNoopRepo()
	}
	if deps.Sink == nil {
		deps.Sink = noopSink{}
	}
	if deps.Metrics == nil {
		deps.Metrics = noopMetrics{}
	}
	if deps.Formatter == nil {
		deps.Formatter = NewFormatter(false)
	}
	if deps.NewID == nil {
		deps.NewID = uuid.NewString
	}
	return &Service{deps: deps, fmt: deps.Formatter}, nil
}

func (s *Service) Host() *Host { return s.deps.Host }

// Run consumes every feed until ctx is done or all feeds are exhausted.
// Events are handled one at a time.
func (s *Service) Run(ctx context.Context) error {
	if len(s.deps.Feeds) == 0 {
		return ErrNoFeeds
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	merged := make(chan port.Event, 1024)
	var wg sync.WaitGroup

	for _, feed := range s.deps.Feeds {
		ch, err := feed.Subscribe(ctx)
		if err != nil {
			// stop the forwarders of feeds already subscribed
			cancel()
			wg.Wait()
			return fmt.Errorf("subscribe %s: %w", feed.Name(), err)
		}
		wg.Add(1)
		go func(name string, in <-chan port.Event) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case ev, ok := <-in:
					if !ok {
						log.Warn().Str("feed", name).Msg("feed closed")
						return
					}
					if ev.Source == "" {
						ev.Source = name
					}
					select {
					case merged <- ev:
					case <-ctx.Done():
						return
					}
				}
			}
		}(feed.Name(), ch)

		log.Info().Str("feed", feed.Name()).Msg("feed started")
	}

	go func() {
		wg.Wait()
		close(merged)
	}()

	for {
		select {
		case <-ctx.Done():
			_ = s.deps.Sink.NewLine()
			return ctx.Err()

		case ev, ok := <-merged:
			if !ok {
				if err := ctx.Err(); err != nil {
					return err
				}
				log.Info().Str("algorithm", s.deps.Host.Name()).Msg("all feeds exhausted")
				return nil
			}
			if err := s.Handle(ctx, ev); err != nil {
				log.Error().Err(err).
					Str("feed", ev.Source).
					Str("kind", ev.Kind.String()).
					Msg("handle event failed")
			}
		}
	}
}

// Handle dispatches a single feed event to the model and records the outcome.
func (s *Service) Handle(ctx context.Context, ev port.Event) error {
	switch ev.Kind {
	case port.EventInsights:
		return s.handleInsights(ctx, ev)
	case port.EventSecuritiesChanged:
		return s.handleSecuritiesChanged(ctx, ev)
	default:
		return fmt.Errorf("%w: %d", ErrUnknownEvent, int(ev.Kind))
	}
}

func (s *Service) handleInsights(ctx context.Context, ev port.Event) error {
	host := s.deps.Host

	valid := make([]model.Insight, 0, len(ev.Insights))
	for i := range ev.Insights {
		if err := ev.Insights[i].Validate(); err != nil {
			log.Warn().Err(err).Str("feed", ev.Source).Str("insight", ev.Insights[i].ID).Msg("insight dropped")
			continue
		}
		valid = append(valid, ev.Insights[i])
	}
	s.deps.Metrics.InsightsReceived(len(valid))

	// batches carry host time, not the feed's ev.Ts
	now := host.UtcTime()
	targets := s.deps.Model.CreateTargets(host, valid)
	if targets == nil {
		targets = []model.PortfolioTarget{}
	}

	batch := &model.TargetBatch{
		ID:           s.deps.NewID(),
		Algorithm:    host.Name(),
		Model:        s.deps.ModelName,
		InsightCount: len(valid),
		Targets:      targets,
		Timestamp:    now.UnixMilli(),
	}

	if len(valid) > 0 {
		if err := s.deps.Repo.InsertInsights(ctx, host.Name(), now.UnixMilli(), valid); err != nil {
			return fmt.Errorf("persist insights: %w", err)
		}
	}
	if err := s.deps.Repo.InsertTargetBatch(ctx, batch); err != nil {
		return fmt.Errorf("persist target batch: %w", err)
	}

	s.deps.Metrics.TargetsCreated(s.deps.ModelName, len(targets))
	_ = s.deps.Sink.WriteLine(now, s.fmt.RenderBatch(batch))

	log.Debug().
		Str("batch", batch.ID).
		Str("model", batch.Model).
		Int("insights", batch.InsightCount).
		Int("targets", len(batch.Targets)).
		Msg("targets created")
	return nil
}

func (s *Service) handleSecuritiesChanged(ctx context.Context, ev port.Event) error {
	host := s.deps.Host
	changes := ev.Changes

	host.Universe().Apply(changes)
	// the model is notified even of empty changes
	s.deps.Model.OnSecuritiesChanged(host, changes)

	if changes.IsEmpty() {
		return nil
	}

	now := host.UtcTime()
	s.deps.Metrics.SecuritiesChanged(len(changes.Added), len(changes.Removed))
	_ = s.deps.Sink.WriteLine(now, s.fmt.RenderChanges(host.Name(), changes, host.Universe().Len()))

	if err := s.deps.Repo.InsertSecurityChanges(ctx, host.Name(), now.UnixMilli(), changes); err != nil {
		return fmt.Errorf("persist security changes: %w", err)
	}
	return nil
}
