package complaints

import "context"

// defaultComplaints is the seed complaint set used until a live municipal
// feed is wired in. The public grievance portals publish no machine-readable
// feed, so recent complaints are represented by this fixed sample.
var defaultComplaints = []string{
	"Waste not collected for 3 days.",
	"Loud music from wedding hall at night.",
	"Pothole on main road causing issues.",
	"Construction noise is unbearable.",
}

// StaticSource serves a fixed complaint list regardless of address.
type StaticSource struct {
	complaints []string
}

// NewStaticSource returns a source serving the given complaints, or the
// default sample when none are given.
func NewStaticSource(texts ...string) *StaticSource {
	if len(texts) == 0 {
		texts = defaultComplaints
	}
	return &StaticSource{complaints: texts}
}

// RecentComplaints implements Source.
func (s *StaticSource) RecentComplaints(_ context.Context, _ string) ([]string, error) {
	out := make([]string, len(s.complaints))
	copy(out, s.complaints)
	return out, nil
}
