package xcodeproj

import (
	"strings"

	"github.com/gofrs/uuid"
)

// IDGenerator hands out object identifiers that do not collide with the
// ones already present in a project.
type IDGenerator struct {
	used map[string]struct{}
	next func() string
}

// NewIDGenerator returns a generator that avoids existing.
func NewIDGenerator(existing []string) *IDGenerator {
	used := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		used[id] = struct{}{}
	}
	return &IDGenerator{used: used, next: randomID}
}

// Next returns a fresh 24 character upper-case hex identifier.
func (g *IDGenerator) Next() string {
	for {
		id := g.next()
		if _, taken := g.used[id]; taken {
			continue
		}
		g.used[id] = struct{}{}
		return id
	}
}

func randomID() string {
	u, err := uuid.NewV4()
	if err != nil {
		u = uuid.Must(uuid.NewV1())
	}
	return strings.ToUpper(strings.ReplaceAll(u.String(), "-", "")[:24])
}
