package service

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/boddenberg/collections-bfa-go/internal/domain"
	"github.com/boddenberg/collections-bfa-go/internal/port"
)

var optionsTracer = otel.Tracer("service/options_manager")

// OptionsManager administers the option lists offered by the intake forms.
type OptionsManager struct {
	admin  port.AdminConfigAPI
	logger *zap.Logger
}

func NewOptionsManager(admin port.AdminConfigAPI, logger *zap.Logger) *OptionsManager {
	return &OptionsManager{admin: admin, logger: logger}
}

// LoadAll fetches the three lists concurrently.
func (m *OptionsManager) LoadAll(ctx context.Context) (domain.OptionSet, error) {
	ctx, span := optionsTracer.Start(ctx, "OptionsManager.LoadAll")
	defer span.End()

	var set domain.OptionSet
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		set.ServiceLevels, err = m.List(gctx, domain.KindServiceLevels)
		return err
	})
	g.Go(func() (err error) {
		set.DebtStatuses, err = m.List(gctx, domain.KindDebtStatuses)
		return err
	})
	g.Go(func() (err error) {
		set.LawfulBases, err = m.List(gctx, domain.KindLawfulBases)
		return err
	})
	if err := g.Wait(); err != nil {
		m.logger.Error("failed to load options", zap.Error(err))
		return domain.OptionSet{}, err
	}
	return set, nil
}

// List returns the options of one kind.
func (m *OptionsManager) List(ctx context.Context, kind domain.OptionKind) ([]domain.Option, error) {
	var (
		out []domain.Option
		err error
	)
	switch kind {
	case domain.KindServiceLevels:
		var resp domain.Response[[]domain.ServiceLevel]
		resp, err = m.admin.GetServiceLevels(ctx)
		out = views(resp.Data, domain.ServiceLevel.Option)
	case domain.KindDebtStatuses:
		var resp domain.Response[[]domain.DebtStatus]
		resp, err = m.admin.GetDebtStatuses(ctx)
		out = views(resp.Data, domain.DebtStatus.Option)
	case domain.KindLawfulBases:
		var resp domain.Response[[]domain.LawfulBasis]
		resp, err = m.admin.GetLawfulBases(ctx)
		out = views(resp.Data, domain.LawfulBasis.Option)
	default:
		return nil, unknownKind(kind)
	}
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", kind, err)
	}
	return out, nil
}

// Create adds an option. Name and code are required.
func (m *OptionsManager) Create(ctx context.Context, kind domain.OptionKind, in domain.OptionInput) (domain.Option, error) {
	ctx, span := optionsTracer.Start(ctx, "OptionsManager.Create")
	defer span.End()

	ve := &domain.ValidationError{Message: "Invalid option"}
	if in.Name == nil || blank(*in.Name) {
		ve.Add("name", "Name is required")
	}
	if in.Code == nil || blank(*in.Code) {
		ve.Add("code", "Code is required")
	}
	if err := collectFieldErrors(in, ve); err != nil {
		return domain.Option{}, err
	}
	if err := failed(ve); err != nil {
		return domain.Option{}, err
	}

	var (
		opt domain.Option
		err error
	)
	switch kind {
	case domain.KindServiceLevels:
		var resp domain.Response[domain.ServiceLevel]
		resp, err = m.admin.CreateServiceLevel(ctx, in)
		opt = resp.Data.Option()
	case domain.KindDebtStatuses:
		var resp domain.Response[domain.DebtStatus]
		resp, err = m.admin.CreateDebtStatus(ctx, in)
		opt = resp.Data.Option()
	case domain.KindLawfulBases:
		var resp domain.Response[domain.LawfulBasis]
		resp, err = m.admin.CreateLawfulBasis(ctx, in)
		opt = resp.Data.Option()
	default:
		return domain.Option{}, unknownKind(kind)
	}
	if err != nil {
		m.logger.Error("failed to create option", zap.String("kind", string(kind)), zap.Error(err))
		return domain.Option{}, fmt.Errorf("creating %s: %w", kind, err)
	}
	if opt.IsSystemDefault {
		if err := m.clearOtherDefaults(ctx, kind, opt.ID); err != nil {
			return opt, err
		}
	}
	return opt, nil
}

// Update changes an option.
func (m *OptionsManager) Update(ctx context.Context, kind domain.OptionKind, id string, in domain.OptionInput) (domain.Option, error) {
	ctx, span := optionsTracer.Start(ctx, "OptionsManager.Update")
	defer span.End()

	ve := &domain.ValidationError{Message: "Invalid option"}
	if err := collectFieldErrors(in, ve); err != nil {
		return domain.Option{}, err
	}
	if err := failed(ve); err != nil {
		return domain.Option{}, err
	}

	opt, err := m.update(ctx, kind, id, in)
	if err != nil {
		return domain.Option{}, err
	}
	if in.IsSystemDefault != nil && *in.IsSystemDefault {
		if err := m.clearOtherDefaults(ctx, kind, id); err != nil {
			return opt, err
		}
	}
	return opt, nil
}

func (m *OptionsManager) update(ctx context.Context, kind domain.OptionKind, id string, in domain.OptionInput) (domain.Option, error) {
	var (
		opt domain.Option
		err error
	)
	switch kind {
	case domain.KindServiceLevels:
		var resp domain.Response[domain.ServiceLevel]
		resp, err = m.admin.UpdateServiceLevel(ctx, id, in)
		opt = resp.Data.Option()
	case domain.KindDebtStatuses:
		var resp domain.Response[domain.DebtStatus]
		resp, err = m.admin.UpdateDebtStatus(ctx, id, in)
		opt = resp.Data.Option()
	case domain.KindLawfulBases:
		var resp domain.Response[domain.LawfulBasis]
		resp, err = m.admin.UpdateLawfulBasis(ctx, id, in)
		opt = resp.Data.Option()
	default:
		return domain.Option{}, unknownKind(kind)
	}
	if err != nil {
		m.logger.Error("failed to update option", zap.String("kind", string(kind)), zap.String("id", id), zap.Error(err))
		return domain.Option{}, fmt.Errorf("updating %s %s: %w", kind, id, err)
	}
	return opt, nil
}

// Delete removes an option.
func (m *OptionsManager) Delete(ctx context.Context, kind domain.OptionKind, id string) error {
	ctx, span := optionsTracer.Start(ctx, "OptionsManager.Delete")
	defer span.End()

	var err error
	switch kind {
	case domain.KindServiceLevels:
		_, err = m.admin.DeleteServiceLevel(ctx, id)
	case domain.KindDebtStatuses:
		_, err = m.admin.DeleteDebtStatus(ctx, id)
	case domain.KindLawfulBases:
		_, err = m.admin.DeleteLawfulBasis(ctx, id)
	default:
		return unknownKind(kind)
	}
	if err != nil {
		m.logger.Error("failed to delete option", zap.String("kind", string(kind)), zap.String("id", id), zap.Error(err))
		return fmt.Errorf("deleting %s %s: %w", kind, id, err)
	}
	return nil
}

// ToggleActive flips the active flag of an option.
func (m *OptionsManager) ToggleActive(ctx context.Context, kind domain.OptionKind, id string) (domain.Option, error) {
	ctx, span := optionsTracer.Start(ctx, "OptionsManager.ToggleActive")
	defer span.End()

	current, err := m.find(ctx, kind, id)
	if err != nil {
		return domain.Option{}, err
	}
	active := !current.IsActive
	return m.update(ctx, kind, id, domain.OptionInput{IsActive: &active})
}

// SetDefault makes id the system default of its kind. Any other default of
// the same kind is cleared so at most one remains.
func (m *OptionsManager) SetDefault(ctx context.Context, kind domain.OptionKind, id string) (domain.Option, error) {
	ctx, span := optionsTracer.Start(ctx, "OptionsManager.SetDefault")
	defer span.End()

	yes := true
	opt, err := m.update(ctx, kind, id, domain.OptionInput{IsSystemDefault: &yes})
	if err != nil {
		return domain.Option{}, err
	}
	if err := m.clearOtherDefaults(ctx, kind, id); err != nil {
		return opt, err
	}
	m.logger.Info("system default changed", zap.String("kind", string(kind)), zap.String("id", id))
	return opt, nil
}

// clearOtherDefaults unsets the default flag on every option of kind except
// keep. Backends that already enforce a single default leave nothing to clear.
func (m *OptionsManager) clearOtherDefaults(ctx context.Context, kind domain.OptionKind, keep string) error {
	opts, err := m.List(ctx, kind)
	if err != nil {
		return err
	}
	no := false
	for _, o := range opts {
		if o.ID == keep || !o.IsSystemDefault {
			continue
		}
		if _, err := m.update(ctx, kind, o.ID, domain.OptionInput{IsSystemDefault: &no}); err != nil {
			return err
		}
	}
	return nil
}

func (m *OptionsManager) find(ctx context.Context, kind domain.OptionKind, id string) (domain.Option, error) {
	opts, err := m.List(ctx, kind)
	if err != nil {
		return domain.Option{}, err
	}
	for _, o := range opts {
		if o.ID == id {
			return o, nil
		}
	}
	return domain.Option{}, domain.NotFound(string(kind), id)
}

func views[T any](items []T, view func(T) domain.Option) []domain.Option {
	out := make([]domain.Option, 0, len(items))
	for _, it := range items {
		out = append(out, view(it))
	}
	return out
}

func unknownKind(kind domain.OptionKind) error {
	ve := &domain.ValidationError{Message: "Unknown option kind"}
	ve.Add("kind", "must be one of service-levels, debt-statuses, lawful-bases; got "+string(kind))
	return ve
}
