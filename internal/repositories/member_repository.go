package repositories

import "market/internal/models"

// MemberRepository defines the interface for member data access.
type MemberRepository interface {
	Create(member *models.Member) error
	GetByUsername(username string) (*models.Member, error)
	GetByEmail(email string) (*models.Member, error)
	GetByID(id string) (*models.Member, error)
}
