package app

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/louisbranch/leaguepool/internal/platform/errors"
	"github.com/louisbranch/leaguepool/internal/services/treasury/certificate"
	"github.com/louisbranch/leaguepool/internal/services/treasury/domain/asset"
	"github.com/louisbranch/leaguepool/internal/services/treasury/domain/league"
	"github.com/louisbranch/leaguepool/internal/services/treasury/registry"
	"github.com/louisbranch/leaguepool/internal/services/treasury/storage"
)

const tracerName = "github.com/louisbranch/leaguepool/internal/services/treasury"

// Service executes treasury operations against live ledgers, tracing each
// mutation and persisting a league snapshot after every success.
type Service struct {
	registry *registry.Registry
	bank     *asset.Bank
	store    storage.LeagueStore
	tracer   trace.Tracer
	clock    func() time.Time
}

// NewService creates a Service over a registry and store. The store may be
// nil, in which case snapshots are skipped (used by lightweight tooling).
func NewService(reg *registry.Registry, bank *asset.Bank, store storage.LeagueStore) *Service {
	return &Service{
		registry: reg,
		bank:     bank,
		store:    store,
		tracer:   otel.Tracer(tracerName),
		clock:    time.Now,
	}
}

// Registry exposes the directory for callers that manage vault approvals
// and fee schedules.
func (s *Service) Registry() *registry.Registry { return s.registry }

// Bank exposes the settlement-asset ledger.
func (s *Service) Bank() *asset.Bank { return s.bank }

// CreateLeague founds a league and persists its first snapshot.
func (s *Service) CreateLeague(ctx context.Context, displayName string, initialDues uint64, initialTeamName, founder string) (*league.League, error) {
	ctx, span := s.tracer.Start(ctx, "treasury.CreateLeague",
		trace.WithAttributes(attribute.String("league.name", displayName)))
	defer span.End()

	lg, err := s.registry.CreateLeague(displayName, initialDues, initialTeamName, founder)
	if err != nil {
		return nil, s.fail(span, err)
	}
	if err := s.persist(ctx, lg); err != nil {
		return nil, s.fail(span, err)
	}
	return lg, nil
}

// JoinSeason enrolls the caller into a league's current season.
func (s *Service) JoinSeason(ctx context.Context, leagueID, caller, teamName string) error {
	ctx, span := s.start(ctx, "treasury.JoinSeason", leagueID)
	defer span.End()

	lg, err := s.ledger(leagueID)
	if err != nil {
		return s.fail(span, err)
	}
	if err := lg.JoinSeason(caller, teamName); err != nil {
		return s.fail(span, err)
	}
	return s.failIfPersistErr(ctx, span, lg)
}

// CreateSeason appends a new season to a league.
func (s *Service) CreateSeason(ctx context.Context, leagueID, caller string, dues uint64) error {
	ctx, span := s.start(ctx, "treasury.CreateSeason", leagueID)
	defer span.End()

	lg, err := s.ledger(leagueID)
	if err != nil {
		return s.fail(span, err)
	}
	if err := lg.CreateSeason(caller, dues); err != nil {
		return s.fail(span, err)
	}
	return s.failIfPersistErr(ctx, span, lg)
}

// RemoveTeam removes a team from a league's current season.
func (s *Service) RemoveTeam(ctx context.Context, leagueID, caller, team string) error {
	ctx, span := s.start(ctx, "treasury.RemoveTeam", leagueID)
	defer span.End()

	lg, err := s.ledger(leagueID)
	if err != nil {
		return s.fail(span, err)
	}
	if err := lg.RemoveTeam(caller, team); err != nil {
		return s.fail(span, err)
	}
	return s.failIfPersistErr(ctx, span, lg)
}

// AllocateReward credits a pending reward to an active team.
func (s *Service) AllocateReward(ctx context.Context, leagueID, caller, team, label string, amount uint64) error {
	ctx, span := s.start(ctx, "treasury.AllocateReward", leagueID)
	defer span.End()

	lg, err := s.ledger(leagueID)
	if err != nil {
		return s.fail(span, err)
	}
	if err := lg.AllocateReward(caller, team, label, amount); err != nil {
		return s.fail(span, err)
	}
	return s.failIfPersistErr(ctx, span, lg)
}

// ClaimReward pays out the caller's most recent pending reward.
func (s *Service) ClaimReward(ctx context.Context, leagueID, caller, imageRef string) (certificate.Certificate, error) {
	ctx, span := s.start(ctx, "treasury.ClaimReward", leagueID)
	defer span.End()

	lg, err := s.ledger(leagueID)
	if err != nil {
		return certificate.Certificate{}, s.fail(span, err)
	}
	cert, err := lg.ClaimReward(ctx, caller, imageRef)
	if err != nil {
		return certificate.Certificate{}, s.fail(span, err)
	}
	return cert, s.failIfPersistErr(ctx, span, lg)
}

// DepositToVault places league cash into a vault position.
func (s *Service) DepositToVault(ctx context.Context, leagueID, caller string, acct league.Accountant, amount uint64) (uint64, error) {
	ctx, span := s.start(ctx, "treasury.DepositToVault", leagueID)
	defer span.End()

	lg, err := s.ledger(leagueID)
	if err != nil {
		return 0, s.fail(span, err)
	}
	units, err := lg.DepositToVault(caller, acct, amount)
	if err != nil {
		return 0, s.fail(span, err)
	}
	return units, s.failIfPersistErr(ctx, span, lg)
}

// WithdrawFromVault redeems vault position units back into league cash.
func (s *Service) WithdrawFromVault(ctx context.Context, leagueID, caller string, acct league.Accountant, units uint64) (uint64, error) {
	ctx, span := s.start(ctx, "treasury.WithdrawFromVault", leagueID)
	defer span.End()

	lg, err := s.ledger(leagueID)
	if err != nil {
		return 0, s.fail(span, err)
	}
	assets, err := lg.WithdrawFromVault(caller, acct, units)
	if err != nil {
		return 0, s.fail(span, err)
	}
	return assets, s.failIfPersistErr(ctx, span, lg)
}

// CloseLeague closes a league, persisting the final closed snapshot as the
// audit trail.
func (s *Service) CloseLeague(ctx context.Context, leagueID, caller string) error {
	ctx, span := s.start(ctx, "treasury.CloseLeague", leagueID)
	defer span.End()

	lg, err := s.ledger(leagueID)
	if err != nil {
		return s.fail(span, err)
	}
	if err := lg.CloseLeague(caller); err != nil {
		return s.fail(span, err)
	}
	return s.failIfPersistErr(ctx, span, lg)
}

func (s *Service) start(ctx context.Context, name, leagueID string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name,
		trace.WithAttributes(attribute.String("league.id", leagueID)))
}

func (s *Service) ledger(leagueID string) (*league.League, error) {
	lg, ok := s.registry.Ledger(leagueID)
	if !ok {
		return nil, apperrors.WithMetadata(apperrors.CodeNotFound,
			"league is not registered",
			map[string]string{"league": leagueID})
	}
	return lg, nil
}

func (s *Service) persist(ctx context.Context, lg *league.League) error {
	if s.store == nil {
		return nil
	}
	snapshot := toStorageSnapshot(lg.Snapshot(), s.clock().UTC())
	if err := s.store.SaveSnapshot(ctx, snapshot); err != nil {
		return fmt.Errorf("persist league snapshot: %w", err)
	}
	return nil
}

func (s *Service) failIfPersistErr(ctx context.Context, span trace.Span, lg *league.League) error {
	if err := s.persist(ctx, lg); err != nil {
		return s.fail(span, err)
	}
	return nil
}

func (s *Service) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, string(apperrors.GetCode(err)))
	return err
}
