package organizations

import (
	"github.com/marufbinsalim/walletree/internal/app/ledger"
	"github.com/marufbinsalim/walletree/internal/app/policy/orgpolicy"
	"github.com/marufbinsalim/walletree/internal/domain/models"
)

type organizationRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description" validate:"max=1000"`
}

type inviteRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
	Role  string `json:"role" validate:"omitempty,oneof=owner member"`
}

type organizationResponse struct {
	models.Organization
	Role models.Role `json:"role"`
}

func toOrganization(m ledger.Membership) organizationResponse {
	return organizationResponse{Organization: m.Organization, Role: m.Role}
}

type memberResponse struct {
	UserID      models.UserID `json:"user_id"`
	Email       string        `json:"email"`
	DisplayName string        `json:"display_name"`
	ImageURL    string        `json:"image_url,omitempty"`
	Role        models.Role   `json:"role"`
}

func toMember(m orgpolicy.Member) memberResponse {
	return memberResponse{
		UserID:      m.User.ID,
		Email:       m.User.Email,
		DisplayName: m.User.DisplayName(),
		ImageURL:    m.User.ImageURL,
		Role:        m.Role,
	}
}
