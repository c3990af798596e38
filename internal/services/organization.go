package services

import (
	"errors"

	"github.com/fundloop/fundloop/backend/internal/models"
	"gorm.io/gorm"
)

type OrganizationService struct {
	db *gorm.DB
}

func NewOrganizationService(db *gorm.DB) *OrganizationService {
	return &OrganizationService{db: db}
}

type OrganizationListRequest struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Name     string `form:"name"`
}

type OrganizationListResponse struct {
	Total    int64                 `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
	Items    []models.Organization `json:"items"`
}

type CreateOrganizationRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description"`
	Website     string `json:"website"`
	LogoURL     string `json:"logo_url"`
}

func (s *OrganizationService) List(req *OrganizationListRequest) (*OrganizationListResponse, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	query := s.db.Model(&models.Organization{})
	if req.Name != "" {
		query = query.Where("name LIKE ?", "%"+req.Name+"%")
	}

	var total int64
	query.Count(&total)

	var orgs []models.Organization
	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).
		Order("created_at DESC").
		Find(&orgs).Error; err != nil {
		return nil, wrapStoreErr(err)
	}

	return &OrganizationListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    orgs,
	}, nil
}

func (s *OrganizationService) GetByID(id uint) (*models.Organization, error) {
	var org models.Organization
	if err := s.db.First(&org, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("organization not found")
		}
		return nil, wrapStoreErr(err)
	}
	return &org, nil
}

// Create registers an organization with the creator as its owner member.
func (s *OrganizationService) Create(req *CreateOrganizationRequest, creatorID uint) (*models.Organization, error) {
	slug := slugify(req.Name)
	var count int64
	if err := s.db.Model(&models.Organization{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	if count > 0 {
		return nil, NewValidationError("an organization with this name already exists")
	}

	org := models.Organization{
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
		Website:     req.Website,
		LogoURL:     req.LogoURL,
		CreatedBy:   creatorID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&org).Error; err != nil {
			return wrapStoreErr(err)
		}
		member := models.OrganizationMember{
			OrganizationID: org.ID,
			UserID:         creatorID,
			Role:           "owner",
		}
		return wrapStoreErr(tx.Create(&member).Error)
	})
	if err != nil {
		return nil, err
	}

	return &org, nil
}

// AddMember joins a user to an organization.
func (s *OrganizationService) AddMember(orgID, userID uint, role string) (*models.OrganizationMember, error) {
	if _, err := s.GetByID(orgID); err != nil {
		return nil, err
	}

	if role == "" {
		role = "member"
	}

	var count int64
	if err := s.db.Model(&models.OrganizationMember{}).
		Where("organization_id = ? AND user_id = ?", orgID, userID).
		Count(&count).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	if count > 0 {
		return nil, NewValidationError("user is already a member")
	}

	member := models.OrganizationMember{
		OrganizationID: orgID,
		UserID:         userID,
		Role:           role,
	}
	if err := s.db.Create(&member).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	return &member, nil
}

// Members lists an organization's members.
func (s *OrganizationService) Members(orgID uint) ([]models.OrganizationMember, error) {
	var members []models.OrganizationMember
	if err := s.db.Where("organization_id = ?", orgID).
		Order("created_at ASC").
		Find(&members).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	return members, nil
}

// RemoveMember soft-deletes a membership. The last owner cannot leave.
func (s *OrganizationService) RemoveMember(orgID, userID uint) error {
	var member models.OrganizationMember
	err := s.db.Where("organization_id = ? AND user_id = ?", orgID, userID).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NewNotFoundError("membership not found")
	}
	if err != nil {
		return wrapStoreErr(err)
	}

	if member.Role == "owner" {
		var owners int64
		if err := s.db.Model(&models.OrganizationMember{}).
			Where("organization_id = ? AND role = ?", orgID, "owner").
			Count(&owners).Error; err != nil {
			return wrapStoreErr(err)
		}
		if owners <= 1 {
			return NewInvariantViolationError("cannot remove the only owner of an organization")
		}
	}

	return wrapStoreErr(s.db.Delete(&member).Error)
}
