package service

import (
	"time"

	"solar-rewards/internal/model"
)

// ComputeProgress evaluates an installer's progress toward a promotion at
// the given instant. It is a pure function: nothing is persisted here.
//
// Only registrations created between the counting start date (the later of
// the campaign start and the join time) and the campaign end count, so
// activity from before enrollment or outside the window is never credited.
func ComputeProgress(promotion *model.Promotion, participation *model.Participation, records []*model.SerialRegistration, installer *model.Installer, now time.Time) model.ProgressSnapshot {
	countingStart := promotion.StartDate
	if participation.JoinedAt.After(countingStart) {
		countingStart = participation.JoinedAt
	}

	valid := make([]*model.SerialRegistration, 0, len(records))
	for _, record := range records {
		if record.CreatedAt.Before(countingStart) || record.CreatedAt.After(promotion.EndDate) {
			continue
		}
		valid = append(valid, record)
	}

	snapshot := model.ProgressSnapshot{
		CountingStartDate: countingStart,
		ValidRecords:      len(valid),
	}

	switch promotion.Type {
	case model.PromotionTypeInstallationTarget:
		snapshot.Target = promotion.Target.Value
		if promotion.Target.Period == model.TargetPeriodMonthly {
			snapshot.Current = countInMonth(valid, now)
		} else {
			snapshot.Current = len(valid)
		}
		snapshot.IsCompleted = snapshot.Current >= snapshot.Target

	case model.PromotionTypeMilestone:
		// Milestones are lifetime installation counts.
		snapshot.Target = promotion.Target.Value
		snapshot.Current = len(valid)
		snapshot.IsCompleted = snapshot.Current >= snapshot.Target

	case model.PromotionTypeQualityTarget:
		snapshot.Target = promotion.Target.Installations
		snapshot.Current = len(valid)
		meetsQuality := installer != nil &&
			installer.Performance.AverageRating >= promotion.Target.Rating
		snapshot.IsCompleted = meetsQuality && snapshot.Current >= snapshot.Target

	case model.PromotionTypeGeographicExpansion:
		snapshot.Target = promotion.Target.Value
		snapshot.Current = countDistinctCities(valid)
		snapshot.IsCompleted = snapshot.Current >= snapshot.Target

	default:
		// Unknown promotion type: zero targets, never an error.
	}

	if snapshot.Target > 0 {
		snapshot.Percentage = float64(snapshot.Current) / float64(snapshot.Target) * 100
		if snapshot.Percentage > 100 {
			snapshot.Percentage = 100
		}
	}

	// A completion timestamp is sticky: set once when completion is first
	// observed, carried forward unchanged afterwards.
	if participation.CompletedAt != nil {
		snapshot.CompletedAt = participation.CompletedAt
	} else if snapshot.IsCompleted {
		completedAt := now
		snapshot.CompletedAt = &completedAt
	}

	return snapshot
}

// countInMonth counts registrations created in now's calendar month.
func countInMonth(records []*model.SerialRegistration, now time.Time) int {
	count := 0
	for _, record := range records {
		if record.CreatedAt.Year() == now.Year() && record.CreatedAt.Month() == now.Month() {
			count++
		}
	}
	return count
}

// countDistinctCities counts distinct non-empty installation cities.
func countDistinctCities(records []*model.SerialRegistration) int {
	cities := make(map[string]bool)
	for _, record := range records {
		if record.Location.City != "" {
			cities[record.Location.City] = true
		}
	}
	return len(cities)
}
