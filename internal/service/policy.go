package service

import (
	"context"

	customerErrors "github.com/celidone/customers/internal/errors"
	"github.com/celidone/customers/internal/model"
	"github.com/celidone/customers/internal/repository"
)

// CustomerPolicy enforces business rules spanning the whole customers population.
// Field format constraints are checked at the boundary and not repeated here.
type CustomerPolicy interface {
	// Validate checks candidate, existingID is excluded from uniqueness checks and is empty on create
	Validate(ctx context.Context, candidate *model.Customer, existingID string) error
}

type customerPolicy struct {
	customerRepo repository.CustomerRepository
}

func NewCustomerPolicy(customerRepo repository.CustomerRepository) CustomerPolicy {
	return &customerPolicy{customerRepo: customerRepo}
}

func (p *customerPolicy) Validate(ctx context.Context, candidate *model.Customer, existingID string) error {
	if candidate.Email != "" {
		taken, err := p.customerRepo.ExistsByEmail(ctx, candidate.Email, existingID)
		if err != nil {
			return customerErrors.NewStorageErr("check email uniqueness", err)
		}

		if taken {
			return customerErrors.NewDuplicateEmailErr(candidate.Email)
		}
	}

	if candidate.IsOrganization() && candidate.OrganizationID != "" {
		taken, err := p.customerRepo.ExistsByOrganizationID(ctx, candidate.OrganizationID, existingID)
		if err != nil {
			return customerErrors.NewStorageErr("check organization id uniqueness", err)
		}

		if taken {
			return customerErrors.NewDuplicateOrganizationIDErr(candidate.OrganizationID)
		}
	}
	return nil
}
