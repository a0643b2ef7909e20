package calendar

import (
	"github.com/penwyp/go-focus-calendar/internal/core/constants"
	"github.com/penwyp/go-focus-calendar/internal/core/model"
)

// FilterBySubject keeps sessions of one subject. The empty id keeps
// everything; constants.NoSubjectFilter keeps sessions without a subject.
// An id nobody uses yields an empty, non-nil slice.
func FilterBySubject(sessions []model.Session, subjectID model.ID) []model.Session {
	if subjectID == "" {
		return sessions
	}

	out := make([]model.Session, 0, len(sessions))
	for _, s := range sessions {
		if subjectID == constants.NoSubjectFilter {
			if !s.HasSubject() {
				out = append(out, s)
			}
			continue
		}
		if s.SubjectID == subjectID {
			out = append(out, s)
		}
	}
	return out
}

// ResolveSubject looks a selected subject up among the viewer's subjects.
// ok is false for a stale selection, such as a deleted subject, so callers
// can fall back to all subjects.
func ResolveSubject(subjects []model.Subject, subjectID model.ID) (model.Subject, bool) {
	for _, s := range subjects {
		if s.ID == subjectID {
			return s, true
		}
	}
	return model.Subject{}, false
}
