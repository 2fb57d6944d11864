package service

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/boddenberg/collections-bfa-go/internal/domain"
	"github.com/boddenberg/collections-bfa-go/internal/port"
)

var listingTracer = otel.Tracer("service/intake_listing")

// IntakeQuery is what the listing page asks for.
type IntakeQuery struct {
	Status domain.IntakeStatus
	Search string
	Cursor string
	Limit  int
}

// IntakeList is one page of intakes after the free-text search, with the
// number of intakes per status on that page.
type IntakeList struct {
	Items      []domain.CaseIntake         `json:"items"`
	Total      int                         `json:"total"`
	HasNext    bool                        `json:"hasNext"`
	NextCursor string                      `json:"nextCursor,omitempty"`
	Counts     map[domain.IntakeStatus]int `json:"counts"`
}

// IntakeListing serves the case intakes list.
type IntakeListing struct {
	intakes port.CaseIntakesAPI
	logger  *zap.Logger
}

func NewIntakeListing(intakes port.CaseIntakesAPI, logger *zap.Logger) *IntakeListing {
	return &IntakeListing{intakes: intakes, logger: logger}
}

// ScopeFor restricts a filter to what user may see: clients their own
// intakes, agents the intakes assigned to them.
func ScopeFor(user domain.User, f domain.CaseIntakeFilter) domain.CaseIntakeFilter {
	switch user.Role {
	case domain.RoleClient:
		f.ClientID = user.ClientID
		if f.ClientID == "" {
			f.ClientID = user.ID
		}
	case domain.RoleAgent:
		f.AssignedAgentID = user.ID
	}
	return f
}

// List fetches the scoped page and applies the search locally.
func (l *IntakeListing) List(ctx context.Context, user domain.User, q IntakeQuery) (IntakeList, error) {
	ctx, span := listingTracer.Start(ctx, "IntakeListing.List")
	defer span.End()
	span.SetAttributes(attribute.String("user.role", string(user.Role)))

	f := domain.CaseIntakeFilter{Cursor: q.Cursor, Limit: q.Limit}
	if q.Status != "" {
		f.Status = []domain.IntakeStatus{q.Status}
	}
	f = ScopeFor(user, f)

	page, err := l.intakes.GetCaseIntakes(ctx, f)
	if err != nil {
		l.logger.Error("failed to load case intakes", zap.String("user_id", user.ID), zap.Error(err))
		return IntakeList{}, fmt.Errorf("listing case intakes: %w", err)
	}

	search := domain.CaseIntakeFilter{Search: q.Search}
	out := IntakeList{
		Items:      make([]domain.CaseIntake, 0, len(page.Data)),
		Total:      page.Total,
		HasNext:    page.HasNext,
		NextCursor: page.NextCursor,
		Counts:     map[domain.IntakeStatus]int{},
	}
	for _, in := range page.Data {
		if !search.Matches(in) {
			continue
		}
		out.Items = append(out.Items, in)
		out.Counts[in.Status]++
	}
	return out, nil
}
