package repositories

import (
	"fmt"

	"market/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMMemberRepository is a GORM implementation of MemberRepository.
type GORMMemberRepository struct {
	db *gorm.DB
}

// NewGORMMemberRepository creates a new instance of GORMMemberRepository.
func NewGORMMemberRepository(db *gorm.DB) *GORMMemberRepository {
	return &GORMMemberRepository{
		db: db,
	}
}

// Create creates a new member in the database.
func (r *GORMMemberRepository) Create(member *models.Member) error {
	if member.ID == "" {
		member.ID = uuid.New().String()
	}
	if member.Role == "" {
		member.Role = models.RoleMember
	}
	if err := r.db.Create(member).Error; err != nil {
		return fmt.Errorf("failed to create member: %w", err)
	}
	return nil
}

// GetByUsername retrieves a member by their username from the database.
func (r *GORMMemberRepository) GetByUsername(username string) (*models.Member, error) {
	var member models.Member
	if err := r.db.First(&member, "username = ?", username).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, models.ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get member by username %s: %w", username, err)
	}
	return &member, nil
}

// GetByEmail retrieves a member by their email from the database.
func (r *GORMMemberRepository) GetByEmail(email string) (*models.Member, error) {
	var member models.Member
	if err := r.db.First(&member, "email = ?", email).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, models.ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get member by email %s: %w", email, err)
	}
	return &member, nil
}

// GetByID retrieves a member by their ID from the database.
func (r *GORMMemberRepository) GetByID(id string) (*models.Member, error) {
	var member models.Member
	if err := r.db.First(&member, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, models.ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get member by ID %s: %w", id, err)
	}
	return &member, nil
}
