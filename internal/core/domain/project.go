package domain

import "time"

// Project groups sprints and tasks under a single lead and team.
// The team set is order-irrelevant for access checks but insertion order is
// preserved for display.
type Project struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Lead        string    `json:"lead" bson:"lead"`
	Team        []string  `json:"team" bson:"team"`
	// NotifyChannel is the external channel key sprint notifications are
	// posted to. Empty means notifications are skipped for this project.
	NotifyChannel string    `json:"notify_channel,omitempty" bson:"notify_channel,omitempty"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`
}

// HasLead reports whether memberID is the project's lead.
func (p *Project) HasLead(memberID string) bool {
	return memberID != "" && p.Lead == memberID
}

// HasTeamMember reports whether memberID appears in the project's team.
func (p *Project) HasTeamMember(memberID string) bool {
	if memberID == "" {
		return false
	}
	for _, id := range p.Team {
		if id == memberID {
			return true
		}
	}
	return false
}
