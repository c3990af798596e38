package services

import (
	"errors"
	"regexp"
	"strings"

	"github.com/fundloop/fundloop/backend/internal/models"
	"gorm.io/gorm"
)

type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

type ProjectListRequest struct {
	Page        int    `form:"page"`
	PageSize    int    `form:"page_size"`
	Name        string `form:"name"`
	Periodicity string `form:"periodicity"`
	OwnerID     *uint  `form:"owner_id"`
}

type ProjectListResponse struct {
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Items    []models.Project `json:"items"`
}

type CreateProjectRequest struct {
	Name                 string  `json:"name" binding:"required,max=200"`
	Description          string  `json:"description"`
	Website              string  `json:"website"`
	LogoURL              string  `json:"logo_url"`
	Country              string  `json:"country"`
	PaymentPercentage    float64 `json:"payment_percentage" binding:"required"`
	PaymentPeriodicity   string  `json:"payment_periodicity"`
	PaymentCustomDays    *int    `json:"payment_custom_days"`
	DefaultPaymentMethod string  `json:"default_payment_method"`
	OrganizationID       *uint   `json:"organization_id"`
}

type UpdateProjectRequest struct {
	Name                 *string  `json:"name"`
	Description          *string  `json:"description"`
	Website              *string  `json:"website"`
	LogoURL              *string  `json:"logo_url"`
	Country              *string  `json:"country"`
	PaymentPercentage    *float64 `json:"payment_percentage"`
	PaymentPeriodicity   *string  `json:"payment_periodicity"`
	PaymentCustomDays    *int     `json:"payment_custom_days"`
	DefaultPaymentMethod *string  `json:"default_payment_method"`
	IsActive             *bool    `json:"is_active"`
}

var slugCleanPattern = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugCleanPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

func validatePaymentConfig(percentage float64, periodicity string, customDays *int) error {
	if percentage < models.MinPledgePercentage {
		return NewValidationError("payment percentage must be at least 1%%")
	}
	switch periodicity {
	case models.PeriodicityWeek, models.PeriodicityMonth, "":
	case models.PeriodicityCustom:
		if customDays == nil || *customDays <= 0 {
			return NewValidationError("custom periodicity requires a positive number of days")
		}
	default:
		return NewValidationError("unknown payment periodicity %q", periodicity)
	}
	return nil
}

func (s *ProjectService) List(req *ProjectListRequest) (*ProjectListResponse, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	query := s.db.Model(&models.Project{})
	if req.Name != "" {
		query = query.Where("name LIKE ?", "%"+req.Name+"%")
	}
	if req.Periodicity != "" {
		query = query.Where("payment_periodicity = ?", req.Periodicity)
	}
	if req.OwnerID != nil {
		query = query.Where("owner_id = ?", *req.OwnerID)
	}

	var total int64
	query.Count(&total)

	var projects []models.Project
	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, wrapStoreErr(err)
	}

	return &ProjectListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    projects,
	}, nil
}

func (s *ProjectService) GetByID(id uint) (*models.Project, error) {
	var project models.Project
	if err := s.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("project not found")
		}
		return nil, wrapStoreErr(err)
	}
	return &project, nil
}

func (s *ProjectService) GetBySlug(slug string) (*models.Project, error) {
	var project models.Project
	if err := s.db.Where("slug = ?", slug).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("project not found")
		}
		return nil, wrapStoreErr(err)
	}
	return &project, nil
}

func (s *ProjectService) Create(req *CreateProjectRequest, ownerID uint) (*models.Project, error) {
	if err := validatePaymentConfig(req.PaymentPercentage, req.PaymentPeriodicity, req.PaymentCustomDays); err != nil {
		return nil, err
	}

	periodicity := req.PaymentPeriodicity
	if periodicity == "" {
		periodicity = models.PeriodicityMonth
	}
	method := req.DefaultPaymentMethod
	if method == "" {
		method = models.PaymentMethodBankTransfer
	}
	country := req.Country
	if country == "" {
		country = "US"
	}

	slug := slugify(req.Name)
	var count int64
	if err := s.db.Model(&models.Project{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	if count > 0 {
		return nil, NewValidationError("a project with this name already exists")
	}

	project := models.Project{
		Name:                 req.Name,
		Slug:                 slug,
		Description:          req.Description,
		Website:              req.Website,
		LogoURL:              req.LogoURL,
		Country:              country,
		PaymentPercentage:    req.PaymentPercentage,
		PaymentPeriodicity:   periodicity,
		PaymentCustomDays:    req.PaymentCustomDays,
		DefaultPaymentMethod: method,
		OwnerID:              ownerID,
		OrganizationID:       req.OrganizationID,
		IsActive:             true,
	}

	if err := s.db.Create(&project).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	return &project, nil
}

func (s *ProjectService) Update(id uint, req *UpdateProjectRequest) (*models.Project, error) {
	project, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	percentage := project.PaymentPercentage
	if req.PaymentPercentage != nil {
		percentage = *req.PaymentPercentage
	}
	periodicity := project.PaymentPeriodicity
	if req.PaymentPeriodicity != nil {
		periodicity = *req.PaymentPeriodicity
	}
	customDays := project.PaymentCustomDays
	if req.PaymentCustomDays != nil {
		customDays = req.PaymentCustomDays
	}
	if err := validatePaymentConfig(percentage, periodicity, customDays); err != nil {
		return nil, err
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Website != nil {
		project.Website = *req.Website
	}
	if req.LogoURL != nil {
		project.LogoURL = *req.LogoURL
	}
	if req.Country != nil {
		project.Country = *req.Country
	}
	project.PaymentPercentage = percentage
	project.PaymentPeriodicity = periodicity
	project.PaymentCustomDays = customDays
	if req.DefaultPaymentMethod != nil {
		project.DefaultPaymentMethod = *req.DefaultPaymentMethod
	}
	if req.IsActive != nil {
		project.IsActive = *req.IsActive
	}

	if err := s.db.Save(project).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	return project, nil
}

// Delete soft-deletes a project.
func (s *ProjectService) Delete(id uint) error {
	project, err := s.GetByID(id)
	if err != nil {
		return err
	}
	return wrapStoreErr(s.db.Delete(project).Error)
}

// IsOwner reports whether a user owns a project.
func (s *ProjectService) IsOwner(projectID, userID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.Project{}).
		Where("id = ? AND owner_id = ?", projectID, userID).
		Count(&count).Error
	if err != nil {
		return false, wrapStoreErr(err)
	}
	return count > 0, nil
}
