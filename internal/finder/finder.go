// Package finder implements the bounded-concurrency fan-out that checks every
// configured server for one player.
package finder

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/minefind/minefind/internal/mcsrv"
	"github.com/minefind/minefind/internal/models"
	"github.com/minefind/minefind/internal/mojang"
)

// Prober fetches the live status of one server address.
// A returned error marks the server as non-matching, nothing more.
type Prober interface {
	Probe(ctx context.Context, address string) (mcsrv.Status, error)
}

// Finder fans out probes over the configured server list.
type Finder struct {
	prober  Prober
	targets []models.ServerTarget
	timeout time.Duration
	limit   int64
}

// New creates a Finder. maxConcurrency values below 1 are raised to 1.
func New(prober Prober, targets []models.ServerTarget, timeout time.Duration, maxConcurrency int) *Finder {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}

	return &Finder{
		prober:  prober,
		targets: targets,
		timeout: timeout,
		limit:   int64(maxConcurrency),
	}
}

// Targets returns the configured server list in configuration order.
func (f *Finder) Targets() []models.ServerTarget {
	return f.targets
}

// Find probes every configured server and returns those on which the player
// currently appears, in configuration order. At most maxConcurrency probes
// are in flight at once, each bound by the per-request timeout. Probe
// failures are logged and treated as "no match"; they never abort the
// remaining probes.
func (f *Finder) Find(ctx context.Context, identity mojang.PlayerIdentity) []models.ServerTarget {
	if len(f.targets) == 0 {
		return nil
	}

	start := time.Now()
	sem := semaphore.NewWeighted(f.limit)
	matched := make([]bool, len(f.targets))

	var wg sync.WaitGroup
	for i, target := range f.targets {
		wg.Add(1)
		go func(i int, target models.ServerTarget) {
			defer wg.Done()

			if err := sem.Acquire(ctx, 1); err != nil {
				return
			}
			defer sem.Release(1)

			matched[i] = f.checkTarget(ctx, target, identity)
		}(i, target)
	}
	wg.Wait()

	// Collect by original index so the output order is deterministic
	matches := make([]models.ServerTarget, 0, len(f.targets))
	for i, ok := range matched {
		if ok {
			matches = append(matches, f.targets[i])
		}
	}

	log.Debug().
		Str("player", identity.Name).
		Int("servers", len(f.targets)).
		Int("matches", len(matches)).
		Dur("duration", time.Since(start)).
		Msg("Fan-out lookup finished")

	return matches
}

// checkTarget probes a single server and evaluates the match predicate.
func (f *Finder) checkTarget(ctx context.Context, target models.ServerTarget, identity mojang.PlayerIdentity) bool {
	probeCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	status, err := f.prober.Probe(probeCtx, target.Address)
	if err != nil {
		log.Debug().
			Err(err).
			Str("server", target.Name).
			Str("address", target.Address).
			Msg("Probe failed, server skipped")

		return false
	}

	if !status.Online {
		return false
	}

	return matches(identity, status)
}

// matches reports whether the identity appears on the roster, by
// case-insensitive name or by normalized UUID.
func matches(identity mojang.PlayerIdentity, status mcsrv.Status) bool {
	name := strings.ToLower(identity.Name)
	for _, entry := range status.Names {
		if strings.ToLower(entry) == name {
			return true
		}
	}

	if identity.UUID == "" {
		return false
	}

	uuid := mojang.NormalizeUUID(identity.UUID)
	for _, entry := range status.UUIDs {
		if mojang.NormalizeUUID(entry) == uuid {
			return true
		}
	}

	return false
}
