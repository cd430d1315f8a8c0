package orders

import (
	"time"

	"freshcart/models"
)

// StepTimeLayout is how completion times are shown on progress steps.
const StepTimeLayout = "3:04 PM"

// Transition describes a single completed step.
type Transition struct {
	Step   models.ProgressStep
	Status Status
	Notice Notice
	// Terminal is set when the step was the last incomplete one.
	Terminal bool
}

// Advance completes the first incomplete step of progress, unless it has
// already been notified. It returns the new progress and the transition, or
// the unchanged progress and nil when there is nothing to do. At most one
// step is completed per call. The step id is added to notified.
func Advance(progress []models.ProgressStep, notified map[int]bool, now time.Time) ([]models.ProgressStep, *Transition) {
	idx := Current(progress)
	if idx < 0 || notified[progress[idx].ID] {
		return progress, nil
	}

	next := append([]models.ProgressStep(nil), progress...)
	next[idx].Completed = true
	next[idx].Time = now.Format(StepTimeLayout)
	notified[next[idx].ID] = true

	st := ParseStatus(next[idx].Status)
	return next, &Transition{
		Step:     next[idx],
		Status:   st,
		Notice:   st.Notice(),
		Terminal: Current(next) < 0,
	}
}

// Current is the index of the first incomplete step, or -1 when done.
func Current(progress []models.ProgressStep) int {
	for i, step := range progress {
		if !step.Completed {
			return i
		}
	}
	return -1
}

// Complete reports whether every step is done.
func Complete(progress []models.ProgressStep) bool {
	return Current(progress) < 0
}

// SummaryStatus is the label shown in order lists.
func SummaryStatus(progress []models.ProgressStep) string {
	if Complete(progress) {
		return "Delivered"
	}
	for _, step := range progress {
		if step.Completed && ParseStatus(step.Status) == StatusOutForDelivery {
			return "In Transit"
		}
	}
	return "Processing"
}

// Summarize builds the list view of an order.
func Summarize(o models.OrderDetails) models.OrderSummary {
	return models.OrderSummary{
		ID:             o.ID,
		Date:           o.PlacedAt,
		Items:          o.ItemCount(),
		Total:          o.Total,
		Status:         SummaryStatus(o.Progress),
		TrackingNumber: o.TrackingNumber,
	}
}
