package scheduler

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Validation failures carry human-readable reasons that go straight back to
// the admin UI.
var ErrMediaNotFound = errors.New("media not found")

// ValidateSchedule checks a proposed entry before it is persisted, in
// order, stopping at the first failure:
//
//  1. the referenced media item exists
//  2. its kind is allowed in the target region
//  3. the end date is not before the start date
//  4. the end time is after the start time (same-day ranges only)
//
// Overlap between entries is intentionally not checked: overlapping entries
// in a region are legal and resolved at read time by the rotation engine.
func (s *Service) ValidateSchedule(mediaID int, region Region, startDate, endDate, startTime, endTime time.Time) error {
	media, err := s.catalog.GetMediaByID(mediaID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMediaNotFound
		}
		return err
	}

	if !region.Valid() {
		return fmt.Errorf("unknown region %d", region)
	}
	if !region.AllowsKind(media.Type) {
		return fmt.Errorf("media type %q is not allowed in region %d (%s)", media.Type, region, region)
	}

	if endDate.Before(startDate) {
		return errors.New("end date must be on or after start date")
	}
	if secondsSinceMidnight(endTime) <= secondsSinceMidnight(startTime) {
		return errors.New("end time must be after start time")
	}
	return nil
}
