package identity

import (
	"strings"

	"github.com/seasonending/yahoo-history-mcp-server/internal/config"
)

// Unknown is the sentinel owner for rows whose manager and team name match
// nothing. Unknown owners are excluded from owner aggregates.
const Unknown = "unknown"

// Resolver maps raw (manager nickname, team name) pairs onto canonical
// franchise owners. Resolution is a pure function of the two inputs and the
// mapping tables; team names are treated as globally unique keys across
// seasons.
type Resolver struct {
	mappings *config.OwnerMappings
}

// NewResolver creates a Resolver over the given mapping tables.
func NewResolver(mappings *config.OwnerMappings) *Resolver {
	return &Resolver{mappings: mappings}
}

// Resolve returns the canonical owner for a raw manager/team pair. The team
// name table wins because it is the most reliable signal; the nickname table
// covers Yahoo display-name drift; anything else falls through to the
// lowercased manager name, or Unknown when that too is empty.
func (r *Resolver) Resolve(manager, teamName string) string {
	if teamName != "" {
		if owner, exists := r.mappings.TeamOwners[teamName]; exists {
			return owner
		}
	}

	manager = strings.TrimSpace(manager)
	if owner, exists := r.mappings.NicknameOwners[manager]; exists {
		return owner
	}

	if manager == "" {
		return Unknown
	}
	return strings.ToLower(manager)
}

// DisplayName returns the presentable name for a canonical owner.
func (r *Resolver) DisplayName(owner string) string {
	return r.mappings.DisplayName(owner)
}
