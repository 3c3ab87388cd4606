// Package validate checks that foreign-key ids submitted with a mutation
// resolve to existing entities of the expected kind before anything is
// persisted.
package validate

import (
	"context"
	"fmt"
)

// Kind identifies the entity collection a reference must resolve in.
type Kind string

const (
	KindMember  Kind = "member"
	KindProject Kind = "project"
	KindSprint  Kind = "sprint"
)

// Resolver counts how many of the given ids exist in the named collection.
// Lookups are read-only; a transport failure is returned as an error and
// surfaces as a 500, never a validation message.
type Resolver interface {
	CountByIDs(ctx context.Context, kind Kind, ids []string) (int64, error)
}

// Counter counts existing ids within a single entity collection. The
// entity repositories satisfy it directly.
type Counter interface {
	CountByIDs(ctx context.Context, ids []string) (int64, error)
}

// kindResolver dispatches each reference kind to its repository.
type kindResolver struct {
	members  Counter
	projects Counter
	sprints  Counter
}

// NewResolver builds a Resolver backed by the per-entity repositories.
func NewResolver(members, projects, sprints Counter) Resolver {
	return &kindResolver{members: members, projects: projects, sprints: sprints}
}

func (r *kindResolver) CountByIDs(ctx context.Context, kind Kind, ids []string) (int64, error) {
	switch kind {
	case KindMember:
		return r.members.CountByIDs(ctx, ids)
	case KindProject:
		return r.projects.CountByIDs(ctx, ids)
	case KindSprint:
		return r.sprints.CountByIDs(ctx, ids)
	default:
		return 0, fmt.Errorf("unknown reference kind %q", kind)
	}
}

// Field is one foreign-key field of an incoming mutation. Name is the
// user-facing field label used in error messages ("Lead", "Assignees", ...).
type Field struct {
	Name string
	Kind Kind
	IDs  []string
}

// Ref builds a single-id field. An empty id yields an empty id list, which
// References treats as an absent optional reference.
func Ref(name string, kind Kind, id string) Field {
	f := Field{Name: name, Kind: kind}
	if id != "" {
		f.IDs = []string{id}
	}
	return f
}

// Refs builds a list field (team, assignees).
func Refs(name string, kind Kind, ids []string) Field {
	return Field{Name: name, Kind: kind, IDs: ids}
}

// ReferenceValidator resolves every field against the entity store.
type ReferenceValidator struct {
	resolver Resolver
}

func NewReferenceValidator(resolver Resolver) *ReferenceValidator {
	return &ReferenceValidator{resolver: resolver}
}

// References checks each field and returns one message per failing field.
// A list field fails as a whole when the resolved count differs from the
// submitted count: a single dangling id poisons the field, and an empty
// string counts as a submitted id that resolves to nothing. Fields with no
// ids at all are skipped (optional references).
func (v *ReferenceValidator) References(ctx context.Context, fields ...Field) ([]string, error) {
	var messages []string
	for _, f := range fields {
		ids, hasEmpty := distinct(f.IDs)
		failed := hasEmpty
		if !failed {
			if len(ids) == 0 {
				continue
			}
			count, err := v.resolver.CountByIDs(ctx, f.Kind, ids)
			if err != nil {
				return nil, fmt.Errorf("resolve %s references: %w", f.Kind, err)
			}
			failed = count != int64(len(ids))
		}
		if failed {
			if len(f.IDs) == 1 {
				messages = append(messages, fmt.Sprintf("%s: referenced %s does not exist", f.Name, f.Kind))
			} else {
				messages = append(messages, fmt.Sprintf("%s: one or more referenced %ss do not exist", f.Name, f.Kind))
			}
		}
	}
	return messages, nil
}

// distinct deduplicates ids so the count comparison is against distinct
// submitted references, and reports whether any submitted id was empty.
// An empty id can never resolve, so the caller fails the field outright.
func distinct(ids []string) ([]string, bool) {
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0:0]
	hasEmpty := false
	for _, id := range ids {
		if id == "" {
			hasEmpty = true
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, hasEmpty
}
