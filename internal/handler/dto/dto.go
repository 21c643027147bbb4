// Package dto converts backend entities to the wire payloads of pkg/model.
package dto

import (
	"github.com/petgateway/petgateway/internal/model"
	"github.com/petgateway/petgateway/internal/service"
	apimodel "github.com/petgateway/petgateway/pkg/model"
)

// ToPet converts a stored pet.
func ToPet(p *model.Pet) apimodel.Pet {
	return apimodel.Pet{
		PetID:   p.ID,
		PetType: p.Type,
		PetName: p.Name,
		PetAge:  p.Age,
	}
}

// ToListPetsResponse converts a page of pets.
func ToListPetsResponse(pets []*model.Pet, pageLimit int) apimodel.ListPetsResponse {
	out := make([]apimodel.Pet, 0, len(pets))
	for _, p := range pets {
		out = append(out, ToPet(p))
	}
	return apimodel.ListPetsResponse{
		Count:     len(out),
		PageLimit: pageLimit,
		Pets:      out,
	}
}

// ToCredentials converts a session to the credentials bundle, or nil.
func ToCredentials(s *model.Session) *apimodel.Credentials {
	if s == nil {
		return nil
	}
	return &apimodel.Credentials{
		AccessKey:    s.AccessKeyID,
		SecretKey:    s.SecretAccessKey,
		SessionToken: s.SessionToken,
		Expiration:   s.ExpiresAt.UnixMilli(),
	}
}

// ToRegisterUserResponse converts a registration result.
func ToRegisterUserResponse(res *service.AuthResult) apimodel.RegisterUserResponse {
	return apimodel.RegisterUserResponse{
		Username:    res.User.Username,
		IdentityID:  res.Identity.IdentityID,
		Token:       res.Identity.OpenIDToken,
		Credentials: ToCredentials(res.Session),
	}
}

// ToLoginUserResponse converts a login result.
func ToLoginUserResponse(res *service.AuthResult) apimodel.LoginUserResponse {
	return apimodel.LoginUserResponse{
		IdentityID:  res.Identity.IdentityID,
		Token:       res.Identity.OpenIDToken,
		Credentials: ToCredentials(res.Session),
	}
}
