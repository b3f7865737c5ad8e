package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"devasthan/internal/domain"
	"devasthan/internal/normalize"
	"devasthan/internal/port"
)

// DonorInfo is the raw donor contact block as submitted by the caller.
type DonorInfo struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone"`
	PAN     string `json:"pan"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// NormalizedDonor carries the canonical forms of the donor fields. Fields
// not provided are empty; provided-but-invalid fields never reach here.
type NormalizedDonor struct {
	Name    string
	Phone   string
	PAN     string
	Email   string
	Address string
}

// Resolution is the outcome of identity resolution: an existing donor found
// through the alias index, or a deterministically derived new donor ID.
type Resolution struct {
	DonorID    string
	IsNew      bool
	Profile    *domain.Donor
	Normalized NormalizedDonor
}

// ResolverService resolves donor contact fields to a stable donor identity.
type ResolverService interface {
	Resolve(ctx context.Context, orgID uuid.UUID, info DonorInfo) (*Resolution, error)
}

type resolverService struct {
	donors port.DonorRepository
}

// NewResolverService creates a new ResolverService implementation.
func NewResolverService(donors port.DonorRepository) ResolverService {
	return &resolverService{donors: donors}
}

// normalizeDonorInfo validates and canonicalizes the donor block. A field
// that was provided but fails normalization is an error; a field that was
// simply absent is not. At least one identifier must survive.
func normalizeDonorInfo(info DonorInfo) (NormalizedDonor, error) {
	n := NormalizedDonor{
		Name:    strings.TrimSpace(info.Name),
		Address: strings.TrimSpace(info.Address),
	}
	if n.Name == "" {
		return n, domain.NewValidationError("donor.name", "is required")
	}

	if strings.TrimSpace(info.Phone) != "" {
		phone, ok := normalize.Phone(info.Phone)
		if !ok {
			return n, domain.NewValidationError("donor.phone", "is not a valid phone number")
		}
		n.Phone = phone
	}
	if strings.TrimSpace(info.PAN) != "" {
		pan, ok := normalize.PAN(info.PAN)
		if !ok {
			return n, domain.NewValidationError("donor.pan", "is not a valid PAN")
		}
		n.PAN = pan
	}
	if strings.TrimSpace(info.Email) != "" {
		email, ok := normalize.Email(info.Email)
		if !ok {
			return n, domain.NewValidationError("donor.email", "is not a valid email address")
		}
		n.Email = email
	}

	if n.Phone == "" && n.PAN == "" && n.Email == "" {
		return n, domain.NewValidationError("donor", "at least one of phone, pan, or email is required")
	}
	return n, nil
}

func (s *resolverService) Resolve(ctx context.Context, orgID uuid.UUID, info DonorInfo) (*Resolution, error) {
	n, err := normalizeDonorInfo(info)
	if err != nil {
		return nil, err
	}

	// Alias lookup in strict priority order: phone, then PAN, then email.
	// First hit wins.
	var aliasKeys []string
	if n.Phone != "" {
		aliasKeys = append(aliasKeys, domain.AliasKey(domain.AliasTypePhone, n.Phone))
	}
	if n.PAN != "" {
		aliasKeys = append(aliasKeys, domain.AliasKey(domain.AliasTypePAN, normalize.Hash(n.PAN)))
	}
	if n.Email != "" {
		aliasKeys = append(aliasKeys, domain.AliasKey(domain.AliasTypeEmail, normalize.Hash(n.Email)))
	}

	for _, key := range aliasKeys {
		donor, err := s.donors.GetByAlias(ctx, orgID, key)
		if err != nil {
			if errors.Is(err, domain.ErrDonorNotFound) {
				continue
			}
			return nil, fmt.Errorf("resolver.Resolve alias lookup: %w", err)
		}
		return &Resolution{DonorID: donor.ID, IsNew: false, Profile: donor, Normalized: n}, nil
	}

	return &Resolution{DonorID: deriveDonorID(orgID, n), IsNew: true, Normalized: n}, nil
}

// deriveDonorID computes the stable donor identifier from the strongest
// available identifier, org-scoped so the same PAN in two orgs yields two
// different donors. The random fallback is unreachable after validation but
// kept so a bug upstream can never mint an empty seed.
func deriveDonorID(orgID uuid.UUID, n NormalizedDonor) string {
	var seed string
	switch {
	case n.PAN != "":
		seed = fmt.Sprintf("%s:PAN:%s", orgID, n.PAN)
	case n.Phone != "":
		seed = fmt.Sprintf("%s:PHONE:%s", orgID, n.Phone)
	case n.Email != "":
		seed = fmt.Sprintf("%s:EMAIL:%s", orgID, n.Email)
	default:
		return "D_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	}
	return "D_" + normalize.ShortHash(seed)
}
