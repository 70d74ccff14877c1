/**
 * @description
 * This file composes a single deposit with its related entities for event
 * publication. Listing queries get their relations from one joined query in
 * the store; this path serves the per-record broadcast after a create, update,
 * or delete, where the relations are fetched concurrently instead.
 *
 * @dependencies
 * - golang.org/x/sync/errgroup: Bounded concurrent lookups with shared cancellation.
 * - internal/domain, internal/store: Domain models and data access.
 */

package app

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/paydesk/deposit-service/internal/domain"
	"github.com/paydesk/deposit-service/internal/store"
)

// enrichDeposit attaches the sender personal, servicing dealer, institution,
// payment method type, and payment method to a deposit. Each relation is
// fetched concurrently; a missing relation stays nil, any other lookup failure
// aborts the whole composition.
func (s *Service) enrichDeposit(ctx context.Context, deposit domain.Deposit) (*domain.EnrichedDeposit, error) {
	enriched := &domain.EnrichedDeposit{Deposit: deposit}

	g, gctx := errgroup.WithContext(ctx)

	if deposit.SenderID != nil {
		id := *deposit.SenderID
		g.Go(func() error {
			personal, err := s.repo.FindPersonalByID(gctx, id)
			if err != nil {
				if errors.Is(err, store.ErrPersonalNotFound) {
					return nil
				}
				return err
			}
			enriched.Personal = personal
			return nil
		})
	}

	if deposit.ServiceProviderID != nil {
		id := *deposit.ServiceProviderID
		g.Go(func() error {
			dealer, err := s.repo.FindDealerByID(gctx, id)
			if err != nil {
				if errors.Is(err, store.ErrDealerNotFound) {
					return nil
				}
				return err
			}
			enriched.Dealer = dealer
			return nil
		})
	}

	if deposit.TypeID != nil {
		id := *deposit.TypeID
		g.Go(func() error {
			methodType, err := s.repo.FindPaymentMethodTypeByID(gctx, id)
			if err != nil {
				if errors.Is(err, store.ErrPaymentMethodTypeNotFound) {
					return nil
				}
				return err
			}
			enriched.PaymentMethodType = methodType
			return nil
		})
	}

	if deposit.PaymentMethodID != nil {
		id := *deposit.PaymentMethodID
		g.Go(func() error {
			method, err := s.repo.FindPaymentMethodByID(gctx, id)
			if err != nil {
				if errors.Is(err, store.ErrPaymentMethodNotFound) {
					return nil
				}
				return err
			}
			enriched.PaymentMethod = method
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// The institution comes from the deposit's own reference when present and
	// otherwise from the sender personal's holder, so it runs after the
	// personal lookup has settled.
	institutionID := deposit.InstitutionID
	if institutionID == nil && enriched.Personal != nil {
		institutionID = enriched.Personal.PersonalHolderID
	}
	if institutionID != nil {
		institution, err := s.repo.FindInstitutionByID(ctx, *institutionID)
		if err != nil {
			if !errors.Is(err, store.ErrInstitutionNotFound) {
				return nil, err
			}
		} else {
			enriched.Institution = institution
		}
	}

	return enriched, nil
}
