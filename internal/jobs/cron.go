package jobs

import (
    "github.com/robfig/cron/v3"
    "github.com/rs/zerolog"

    "github.com/sproutagile/support-agent/internal/cache"
    "github.com/sproutagile/support-agent/internal/config"
)

// Cron periodically sweeps expired aggregates out of the result cache so
// abandoned query signatures do not pile up between LRU evictions.
type Cron struct {
    cfg   config.Config
    log   zerolog.Logger
    store *cache.Cache
    c     *cron.Cron
}

func NewCron(cfg config.Config, log zerolog.Logger, store *cache.Cache) *Cron {
    c := cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)))
    cr := &Cron{cfg: cfg, log: log, store: store, c: c}
    _, _ = c.AddFunc(cfg.SweepCron, cr.sweep)
    return cr
}

func (cr *Cron) Start() { cr.c.Start() }
func (cr *Cron) Stop()  { cr.c.Stop() }

func (cr *Cron) sweep() {
    if n := cr.store.Sweep(); n > 0 {
        cr.log.Info().Int("dropped", n).Msg("cache sweep")
    }
}
