package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"multibill-pos/internal/models"
	"multibill-pos/internal/pricing"
)

type CompanyRequest struct {
	Name             string `json:"name" binding:"required"`
	Address          string `json:"address"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	GSTNumber        string `json:"gst_number"`
	PANNumber        string `json:"pan_number"`
	RequiredTaxClass string `json:"required_tax_class"` // "GST", "NON-GST" or empty
	RequireHSN       bool   `json:"require_hsn"`
}

func (r CompanyRequest) taxClass() (models.TaxClassCode, error) {
	switch code := models.TaxClassCode(r.RequiredTaxClass); code {
	case "", models.TaxGST, models.TaxNonGST:
		return code, nil
	default:
		return "", fmt.Errorf("%w: required_tax_class must be GST, NON-GST or empty", pricing.ErrInvalidInput)
	}
}

// GET /api/companies
func (h *Handler) GetCompanies(c *gin.Context) {
	var companies []models.Company
	if err := h.db.Order("name").Find(&companies).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, companies)
}

// POST /api/companies
func (h *Handler) AddCompany(c *gin.Context) {
	var req CompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	code, err := req.taxClass()
	if err != nil {
		h.fail(c, err)
		return
	}

	company := models.Company{
		ID:               uuid.NewString(),
		Name:             req.Name,
		Address:          req.Address,
		Phone:            req.Phone,
		Email:            req.Email,
		GSTNumber:        req.GSTNumber,
		PANNumber:        req.PANNumber,
		RequiredTaxClass: code,
		RequireHSN:       req.RequireHSN,
	}
	if err := h.db.Create(&company).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, company)
}

// PUT /api/companies/:id
// Renaming a company never changes its policy: rules hang off the ID.
func (h *Handler) UpdateCompany(c *gin.Context) {
	var company models.Company
	if err := h.db.First(&company, "id = ?", c.Param("id")).Error; err != nil {
		h.fail(c, err)
		return
	}

	var req CompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	code, err := req.taxClass()
	if err != nil {
		h.fail(c, err)
		return
	}

	company.Name = req.Name
	company.Address = req.Address
	company.Phone = req.Phone
	company.Email = req.Email
	company.GSTNumber = req.GSTNumber
	company.PANNumber = req.PANNumber
	company.RequiredTaxClass = code
	company.RequireHSN = req.RequireHSN

	if err := h.db.Save(&company).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

type GodownRequest struct {
	CompanyID     string `json:"company_id" binding:"required"`
	Name          string `json:"name" binding:"required"`
	Address       string `json:"address"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
}

// GET /api/godowns?company_id=...
func (h *Handler) GetGodowns(c *gin.Context) {
	q := h.db.Order("name")
	if companyID := c.Query("company_id"); companyID != "" {
		q = q.Where("company_id = ?", companyID)
	}
	var godowns []models.Godown
	if err := q.Find(&godowns).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, godowns)
}

// POST /api/godowns
func (h *Handler) AddGodown(c *gin.Context) {
	var req GodownRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	godown := models.Godown{
		ID:            uuid.NewString(),
		CompanyID:     req.CompanyID,
		Name:          req.Name,
		Address:       req.Address,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
	}
	if err := h.db.Create(&godown).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, godown)
}

// DELETE /api/godowns/:id - refused while items still reference the godown.
func (h *Handler) DeleteGodown(c *gin.Context) {
	var count int64
	if err := h.db.Model(&models.Item{}).Where("godown_id = ?", c.Param("id")).Count(&count).Error; err != nil {
		h.fail(c, err)
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete godown with associated items"})
		return
	}

	result := h.db.Delete(&models.Godown{}, "id = ?", c.Param("id"))
	if result.Error != nil {
		h.fail(c, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Godown deleted successfully"})
}

type CustomerRequest struct {
	CompanyID string `json:"company_id"`
	Name      string `json:"name" binding:"required"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	GSTNumber string `json:"gst_number"`
	Address   string `json:"address"`
}

// GET /api/customers
func (h *Handler) GetCustomers(c *gin.Context) {
	var customers []models.Customer
	if err := h.db.Order("name").Find(&customers).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

// POST /api/customers
func (h *Handler) AddCustomer(c *gin.Context) {
	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	customer := models.Customer{
		ID:        uuid.NewString(),
		CompanyID: req.CompanyID,
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		GSTNumber: req.GSTNumber,
		Address:   req.Address,
	}
	if err := h.db.Create(&customer).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}
