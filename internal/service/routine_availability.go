package service

import "github.com/noah-isme/dept-routine-api/internal/models"

type resourceKind int

const (
	resourceTeacher resourceKind = iota
	resourceRoom
	resourceSemester
)

type availabilityKey struct {
	kind resourceKind
	id   int64
	day  models.DayOfWeek
	hour int
}

// availabilityTracker records which teacher, room and semester is busy in which slot.
// It lives for a single generation run.
type availabilityTracker struct {
	busy map[availabilityKey]struct{}
}

func newAvailabilityTracker() *availabilityTracker {
	return &availabilityTracker{busy: make(map[availabilityKey]struct{})}
}

func (t *availabilityTracker) IsFree(kind resourceKind, id int64, day models.DayOfWeek, hour int) bool {
	_, taken := t.busy[availabilityKey{kind: kind, id: id, day: day, hour: hour}]
	return !taken
}

func (t *availabilityTracker) Reserve(kind resourceKind, id int64, day models.DayOfWeek, hour int) {
	t.busy[availabilityKey{kind: kind, id: id, day: day, hour: hour}] = struct{}{}
}
