// Package scheduler decides which media item each display region should
// show at a given instant. Resolution is a pure function of the wall clock
// and the catalog: no rotation state survives between calls, so every
// player polling the same catalog at the same second sees the same winner.
package scheduler

import (
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mayconspirlandelli/mediaplayer-pi-tv/internal/model"
)

// Catalog is the read-only query surface the engine resolves against.
// EntriesForRegionAt applies the active flags and the date and time-of-day
// containment checks; weekday filtering is deliberately left to the engine.
type Catalog interface {
	EntriesForRegionAt(region int, onDate, atTime time.Time) ([]model.Schedule, error)
	GetMediaByID(id int) (model.Media, error)
}

// ContentView is what the player receives for a region. Exactly one of
// Path and Text is set: text media expose their literal text, every other
// kind exposes its path or URL.
type ContentView struct {
	ID         int     `json:"id"`
	Type       string  `json:"type"`
	Name       string  `json:"name"`
	Path       *string `json:"path"`
	Text       *string `json:"text"`
	Duration   int     `json:"duration"`
	ScheduleID int     `json:"schedule_id"`
}

// Snapshot is the per-region resolution result for one instant. It is
// recomputed on every request and never cached.
type Snapshot struct {
	Video     *ContentView `json:"video"`
	Image     *ContentView `json:"image"`
	Text      *ContentView `json:"text"`
	Timestamp string       `json:"timestamp"`
}

type Service struct {
	catalog Catalog
}

func NewService(catalog Catalog) *Service {
	return &Service{catalog: catalog}
}

// ActiveContent resolves every region against the same instant. Regions are
// independent: a catalog error in one region leaves that region empty and
// the others untouched.
func (s *Service) ActiveContent(now time.Time) Snapshot {
	snap := Snapshot{Timestamp: now.Format(time.RFC3339)}
	for _, region := range Regions {
		view, err := s.ContentForRegion(region, now)
		if err != nil {
			log.Error().Err(err).Int("region", int(region)).Msg("region resolution failed")
			continue
		}
		switch region {
		case RegionVideo:
			snap.Video = view
		case RegionImage:
			snap.Image = view
		case RegionText:
			snap.Text = view
		}
	}
	return snap
}

// ContentForRegion resolves one region at the given instant. A nil view
// with a nil error means no eligible content, which is a legitimate outcome
// rather than a failure.
func (s *Service) ContentForRegion(region Region, now time.Time) (*ContentView, error) {
	entries, err := s.catalog.EntriesForRegionAt(int(region), now, now)
	if err != nil {
		return nil, err
	}

	pool := eligibleEntries(entries, weekdayNumber(now))
	winner := pickWinner(pool, now)
	if winner == nil {
		return nil, nil
	}

	media, err := s.catalog.GetMediaByID(winner.MediaID)
	if err != nil {
		return nil, err
	}
	return newContentView(media, winner), nil
}

// eligibleEntries narrows the candidates to those whose weekday set contains
// the current weekday. Entries with an unparseable weekday set are skipped;
// the write path rejects those, so this only guards legacy rows.
func eligibleEntries(entries []model.Schedule, weekday int) []model.Schedule {
	out := make([]model.Schedule, 0, len(entries))
	for _, e := range entries {
		days, err := ParseWeekdays(e.Weekdays)
		if err != nil {
			log.Warn().Int("schedule_id", e.ID).Str("weekdays", e.Weekdays).Msg("skipping entry with malformed weekday set")
			continue
		}
		if containsWeekday(days, weekday) {
			out = append(out, e)
		}
	}
	return out
}

// pickWinner selects the entry to display right now. A single eligible
// entry wins outright. With several, the pool is ordered by priority
// ascending (priority is rotation rank, not importance), ties by id
// descending, and each entry occupies a contiguous slice of a repeating
// cycle sized by its duration. The cycle is anchored to midnight, so the
// winner depends only on the wall clock.
func pickWinner(pool []model.Schedule, now time.Time) *model.Schedule {
	switch len(pool) {
	case 0:
		return nil
	case 1:
		return &pool[0]
	}

	ordered := make([]model.Schedule, len(pool))
	copy(ordered, pool)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Priority != ordered[j].Priority {
			return ordered[i].Priority < ordered[j].Priority
		}
		return ordered[i].ID > ordered[j].ID
	})

	total := 0
	for _, e := range ordered {
		if e.Duration > 0 {
			total += e.Duration
		}
	}
	if total <= 0 {
		// no rotation cycle to divide; first in rotation order wins
		return &ordered[0]
	}

	position := secondsSinceMidnight(now) % total
	acc := 0
	for i := range ordered {
		if d := ordered[i].Duration; d > 0 {
			acc += d
		}
		if position < acc {
			return &ordered[i]
		}
	}
	return &ordered[len(ordered)-1]
}

// secondsSinceMidnight reads the instant in its own location; rotation
// phase follows the player's local day, not UTC.
func secondsSinceMidnight(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}

func newContentView(media model.Media, entry *model.Schedule) *ContentView {
	view := &ContentView{
		ID:         media.ID,
		Type:       media.Type,
		Name:       media.Name,
		Duration:   entry.Duration,
		ScheduleID: entry.ID,
	}
	if media.Type == model.MediaTypeText {
		view.Text = media.Text
	} else if media.FilePath != nil {
		p := normalizePath(*media.FilePath)
		view.Path = &p
	}
	return view
}

// normalizePath rewrites backslash separators so paths stored on Windows
// hosts stay usable as URLs.
func normalizePath(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}
