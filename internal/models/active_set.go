package models

import (
	"strconv"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// ActiveSet is a union of active user ids. Numeric platform ids are kept in
// a compressed bitmap, anything else verbatim.
type ActiveSet struct {
	ids   *roaring64.Bitmap
	other map[string]struct{}
}

func NewActiveSet() *ActiveSet {
	return &ActiveSet{
		ids:   roaring64.New(),
		other: make(map[string]struct{}),
	}
}

func (s *ActiveSet) Add(userID string) {
	if id, err := strconv.ParseUint(userID, 10, 64); err == nil {
		s.ids.Add(id)
		return
	}
	s.other[userID] = struct{}{}
}

// AddLog merges every active user of l.
func (s *ActiveSet) AddLog(l *DailyActivityLog) {
	for _, u := range l.ActiveUsers {
		s.Add(u)
	}
}

func (s *ActiveSet) Len() int {
	return int(s.ids.GetCardinality()) + len(s.other)
}
