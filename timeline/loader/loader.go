package loader

import (
	"context"
	"flag"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/weaveworks/common/instrument"

	common_instrument "github.com/weaveworks/subscription-timeline/common/instrument"
	"github.com/weaveworks/subscription-timeline/timeline"
	"github.com/weaveworks/subscription-timeline/timeline/db"
)

var buildDuration = instrument.NewHistogramCollector(prometheus.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "timeline",
	Name:      "build_duration_seconds",
	Help:      "Time spent loading and computing bundle timelines.",
	Buckets:   prometheus.DefBuckets,
}, instrument.HistogramCollectorBuckets))

var eventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "timeline",
	Name:      "events_total",
	Help:      "Number of subscription events computed.",
}, []string{"type", "service"})

func init() {
	buildDuration.Register()
	prometheus.MustRegister(eventsTotal)
}

// Config provides settings for the loader.
type Config struct {
	DefaultTimeZone string
	CountEvents     bool
}

// RegisterFlags registers configuration variables.
func (cfg *Config) RegisterFlags(f *flag.FlagSet) {
	f.StringVar(&cfg.DefaultTimeZone,
		"timeline.default-time-zone", "UTC",
		"IANA timezone used for accounts without a valid one")
	f.BoolVar(&cfg.CountEvents,
		"timeline.count-events", true,
		"Count computed events per type and service")
}

// Loader builds bundle timelines from the database.
type Loader struct {
	db              db.DB
	cfg             Config
	defaultTimeZone *time.Location
}

// New instantiates a Loader.
func New(d db.DB, cfg Config) (*Loader, error) {
	loc, err := time.LoadLocation(cfg.DefaultTimeZone)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid default timezone %q", cfg.DefaultTimeZone)
	}
	return &Loader{
		db:              d,
		cfg:             cfg,
		defaultTimeZone: loc,
	}, nil
}

// Timeline loads the entitlements and blocking states of a bundle. The events
// are not computed until asked for.
func (l *Loader) Timeline(ctx context.Context, bundleID uuid.UUID) (*timeline.SubscriptionBundleTimeline, error) {
	bundle, err := l.db.GetBundle(ctx, bundleID)
	if err != nil {
		return nil, errors.Wrapf(err, "loading bundle %s", bundleID)
	}
	entitlements, err := l.db.GetEntitlements(ctx, bundleID)
	if err != nil {
		return nil, errors.Wrapf(err, "loading entitlements of bundle %s", bundleID)
	}
	ids := make([]uuid.UUID, len(entitlements))
	for i, ent := range entitlements {
		ids[i] = ent.ID
	}
	states, err := l.db.GetBlockingStates(ctx, bundle.AccountID, bundleID, ids)
	if err != nil {
		return nil, errors.Wrapf(err, "loading blocking states of bundle %s", bundleID)
	}
	return timeline.NewSubscriptionBundleTimeline(l.location(bundle), bundle.AccountID, bundle.ID, bundle.ExternalKey, entitlements, states), nil
}

func (l *Loader) location(bundle *db.Bundle) *time.Location {
	if bundle.AccountTimeZone == "" {
		return l.defaultTimeZone
	}
	loc, err := time.LoadLocation(bundle.AccountTimeZone)
	if err != nil {
		log.WithFields(log.Fields{
			"account_id": bundle.AccountID,
			"time_zone":  bundle.AccountTimeZone,
		}).Warnf("Unknown account timezone, using %s: %v", l.defaultTimeZone, err)
		return l.defaultTimeZone
	}
	return loc
}

// Events loads a bundle and returns its ordered subscription events.
func (l *Loader) Events(ctx context.Context, bundleID uuid.UUID) ([]timeline.SubscriptionEvent, error) {
	var events []timeline.SubscriptionEvent
	err := instrument.CollectedRequest(ctx, "Events", buildDuration, nil, func(ctx context.Context) error {
		tl, err := l.Timeline(ctx, bundleID)
		if err != nil {
			return err
		}
		events, err = tl.SubscriptionEvents()
		return err
	})
	if err != nil {
		return nil, err
	}

	if l.cfg.CountEvents {
		for _, e := range events {
			eventsTotal.WithLabelValues(
				common_instrument.MakeLabelValue(e.Type.String()),
				common_instrument.MakeLabelValue(e.ServiceName),
			).Inc()
		}
	}
	log.WithField("bundle_id", bundleID).Debugf("Loaded %d subscription events", len(events))
	return events, nil
}
