package training

import "fmt"

// ConflictError reports the existing training a candidate overlaps with.
type ConflictError struct {
	Existing *Training
}

func (e *ConflictError) Error() string {
	if e.Existing == nil {
		return ErrConflict.Error()
	}
	return fmt.Sprintf("%s: #%s %s on %s", ErrConflict, e.Existing.ID,
		e.Existing.Interval(), e.Existing.Date.Format("2006-01-02"))
}

// Is lets errors.Is match ErrConflict.
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// Overlaps reports whether the half-open ranges [s1,e1) and [s2,e2) overlap.
// Touching ranges (e1 == s2) do not overlap.
func Overlaps(s1, e1, s2, e2 int) bool {
	return s1 < e2 && s2 < e1
}

// HasConflict scans existing trainings for the first one overlapping candidate.
// existing must already be restricted to the candidate's court and date, and
// must not contain the candidate itself when validating an edit (see ExcludeID).
func HasConflict(candidate *Training, existing []*Training) (bool, *Training) {
	if candidate == nil {
		return false, nil
	}
	for _, t := range existing {
		if t == nil {
			continue
		}
		if Overlaps(candidate.StartMinutes, candidate.EndMinutes, t.StartMinutes, t.EndMinutes) {
			return true, t
		}
	}
	return false, nil
}

// ExcludeID returns the trainings whose ID differs from id.
// An empty id returns the input unchanged.
func ExcludeID(trainings []*Training, id string) []*Training {
	if id == "" {
		return trainings
	}
	result := make([]*Training, 0, len(trainings))
	for _, t := range trainings {
		if t != nil && t.ID == id {
			continue
		}
		result = append(result, t)
	}
	return result
}
