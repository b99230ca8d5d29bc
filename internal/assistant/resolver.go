package assistant

import "strings"

// EntityResolver picks the registered entity a query refers to by
// scoring keyword substring matches. Longer keywords score higher;
// on equal scores the entity declared first in the registry wins.
type EntityResolver struct {
	registry *Registry
}

func NewEntityResolver(registry *Registry) *EntityResolver {
	return &EntityResolver{registry: registry}
}

func (r *EntityResolver) Resolve(query string) *EntityDescriptor {
	lowered := strings.ToLower(query)

	var best *EntityDescriptor
	bestScore := 0

	for i := range r.registry.entities {
		entity := &r.registry.entities[i]
		for _, keyword := range entity.Keywords {
			if !strings.Contains(lowered, keyword) {
				continue
			}
			if score := len(keyword); score > bestScore {
				bestScore = score
				best = entity
			}
		}
	}
	return best
}
