// Package access holds the single decision table for resource authorization.
// Every handler path consults Evaluator exactly once per request; the
// lead/team/demo predicate lives here and nowhere else.
package access

import (
	"github.com/teamtrack/tracker-api/internal/core/domain"
)

// Action is the operation being attempted on a resource.
type Action string

const (
	ActionList   Action = "list"
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Resource is the kind of project-scoped resource under evaluation.
type Resource string

const (
	ResourceProject Resource = "project"
	ResourceSprint  Resource = "sprint"
	ResourceTask    Resource = "task"
)

// Effect is the outcome of a decision.
type Effect int

const (
	Allow Effect = iota
	// DenyHidden hides the resource's existence: rendered as 404.
	DenyHidden
	// DenyForbidden is an explicit denial on a resource the actor can
	// already see: rendered as 403.
	DenyForbidden
)

// Decision is the result of evaluating one (actor, action, resource) triple.
type Decision struct {
	Effect Effect
}

// Allowed reports whether the decision permits the action.
func (d Decision) Allowed() bool { return d.Effect == Allow }

// Err maps a denial to its sentinel error, or nil when allowed.
func (d Decision) Err() error {
	switch d.Effect {
	case DenyForbidden:
		return domain.ErrForbidden
	case DenyHidden:
		return domain.ErrHidden
	}
	return nil
}

// Evaluator implements the role × project-relation permission table.
// It is stateless apart from the demo allow-list and safe for concurrent use.
type Evaluator struct {
	demoProjects map[string]struct{}
}

// NewEvaluator builds an Evaluator. demoProjectIDs is the fixed set of
// projects a demo account may browse regardless of lead/team relations.
func NewEvaluator(demoProjectIDs []string) *Evaluator {
	demo := make(map[string]struct{}, len(demoProjectIDs))
	for _, id := range demoProjectIDs {
		if id != "" {
			demo[id] = struct{}{}
		}
	}
	return &Evaluator{demoProjects: demo}
}

// Decide evaluates actor performing action on a resource scoped to project.
// For update/delete the caller passes the TARGET's project; for create, the
// project the payload references. A nil project is only meaningful for
// project creation, which has no graph relation yet.
//
// Reads deny as hidden (404) so unrelated actors cannot probe for
// existence; mutations on projects the actor can see deny as forbidden
// (403). A nil actor is always a hidden denial.
func (e *Evaluator) Decide(actor *domain.Member, action Action, resource Resource, project *domain.Project) Decision {
	if actor == nil || actor.ID == "" {
		return Decision{Effect: DenyHidden}
	}
	if actor.Privilege == domain.PrivilegeAdmin {
		return Decision{Effect: Allow}
	}

	// No resolvable project: either project creation (no relation can
	// exist before the project does) or a dangling project reference.
	// Creation is an explicit denial; anything else stays hidden.
	if project == nil {
		if action == ActionCreate {
			return Decision{Effect: DenyForbidden}
		}
		return Decision{Effect: DenyHidden}
	}

	isLead := project.HasLead(actor.ID)
	isTeam := project.HasTeamMember(actor.ID)

	switch actor.Privilege {
	case domain.PrivilegeUser:
		if isLead {
			return Decision{Effect: Allow}
		}
		if isTeam {
			switch action {
			case ActionList, ActionRead:
				return Decision{Effect: Allow}
			case ActionCreate:
				if resource == ResourceTask {
					return Decision{Effect: Allow}
				}
				return Decision{Effect: DenyForbidden}
			default:
				return Decision{Effect: DenyForbidden}
			}
		}
		return Decision{Effect: DenyHidden}

	case domain.PrivilegeDemo:
		_, showcased := e.demoProjects[project.ID]
		visible := showcased || isLead || isTeam
		if !visible {
			return Decision{Effect: DenyHidden}
		}
		if action == ActionList || action == ActionRead {
			return Decision{Effect: Allow}
		}
		return Decision{Effect: DenyForbidden}
	}

	return Decision{Effect: DenyHidden}
}

// DecideRoster evaluates member-collection operations, which are not
// project-scoped: any authenticated member may read the roster, only admins
// may mutate it.
func (e *Evaluator) DecideRoster(actor *domain.Member, action Action) Decision {
	if actor == nil || actor.ID == "" {
		return Decision{Effect: DenyHidden}
	}
	if actor.Privilege == domain.PrivilegeAdmin {
		return Decision{Effect: Allow}
	}
	if action == ActionList || action == ActionRead {
		return Decision{Effect: Allow}
	}
	return Decision{Effect: DenyForbidden}
}

// Visible reports whether the actor may see the project at all. Used by
// list endpoints to filter collections without leaking hidden projects.
func (e *Evaluator) Visible(actor *domain.Member, project *domain.Project) bool {
	return e.Decide(actor, ActionRead, ResourceProject, project).Allowed()
}

// DemoProjectIDs returns the configured demo allow-list.
func (e *Evaluator) DemoProjectIDs() []string {
	ids := make([]string, 0, len(e.demoProjects))
	for id := range e.demoProjects {
		ids = append(ids, id)
	}
	return ids
}
