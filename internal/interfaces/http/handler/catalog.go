package handler

import (
	catalogapp "github.com/VindFlainger/maplapi/internal/application/catalog"
	"github.com/VindFlainger/maplapi/internal/domain/catalog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CatalogHandler handles catalog browsing and admin product endpoints
type CatalogHandler struct {
	BaseHandler
	catalogService *catalogapp.Service
	assets         *AssetResolver
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService *catalogapp.Service, assets *AssetResolver) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService, assets: assets}
}

// DetailFilterRequest is one structured attribute filter
type DetailFilterRequest struct {
	Name   string   `json:"name" binding:"required"`
	Values []string `json:"value" binding:"required,min=1"`
}

// GetProductsRequest is the browse filter plus the page window. Prices
// arrive as strings so clients never push float rounding into the filter.
type GetProductsRequest struct {
	Target    string                `json:"target"`
	Category1 string                `json:"category_1"`
	Category2 string                `json:"category_2"`
	Category3 string                `json:"category_3"`
	Color     string                `json:"color"`
	MinPrice  *string               `json:"minPrice" binding:"omitempty,decimalstr"`
	MaxPrice  *string               `json:"maxPrice" binding:"omitempty,decimalstr"`
	Sizes     []string              `json:"sizing"`
	Details   []DetailFilterRequest `json:"details"`
	Offset    int                   `json:"offset" binding:"min=0"`
	Limit     int                   `json:"limit" binding:"min=0,max=100"`
}

func (r *GetProductsRequest) toQuery() (catalogapp.ListSkusQuery, error) {
	q := catalogapp.ListSkusQuery{
		Target:    r.Target,
		Category1: r.Category1,
		Category2: r.Category2,
		Category3: r.Category3,
		Color:     r.Color,
		Sizes:     r.Sizes,
		Offset:    r.Offset,
		Limit:     r.Limit,
	}
	if r.MinPrice != nil {
		min, err := decimal.NewFromString(*r.MinPrice)
		if err != nil {
			return q, err
		}
		q.MinPrice = &min
	}
	if r.MaxPrice != nil {
		max, err := decimal.NewFromString(*r.MaxPrice)
		if err != nil {
			return q, err
		}
		q.MaxPrice = &max
	}
	for _, d := range r.Details {
		q.Details = append(q.Details, catalog.DetailFilter{Name: d.Name, Values: d.Values})
	}
	return q, nil
}

// GetProducts returns a page of SKU projections matching the browse filter.
// POST because the structured filter does not fit query parameters.
func (h *CatalogHandler) GetProducts(c *gin.Context) {
	var req GetProductsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	query, err := req.toQuery()
	if err != nil {
		h.BadRequest(c, err)
		return
	}

	result, err := h.catalogService.List(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	for i := range result.Items {
		result.Items[i].Images = h.assets.ResolveImageSets(result.Items[i].Images)
	}
	h.SuccessWithMeta(c, result.Items, result.TotalCount, result.Offset, result.Limit, result.NextOffset)
}

// GetProductInfo returns the full projection of one SKU with live
// availability
func (h *CatalogHandler) GetProductInfo(c *gin.Context) {
	skuID, err := uuid.Parse(c.Query("skuId"))
	if err != nil {
		h.BadRequest(c, err)
		return
	}

	view, err := h.catalogService.GetSku(c.Request.Context(), skuID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	view.Images = h.assets.ResolveImageSets(view.Images)
	h.Success(c, view)
}

// GetFilters returns the facets within the filtered subtree
func (h *CatalogHandler) GetFilters(c *gin.Context) {
	query := catalogapp.ListSkusQuery{
		Target:    c.Query("target"),
		Category1: c.Query("category_1"),
		Category2: c.Query("category_2"),
		Category3: c.Query("category_3"),
	}

	facets, err := h.catalogService.Facets(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, facets)
}

// GetAvailability returns per-size sellable quantities for one SKU
func (h *CatalogHandler) GetAvailability(c *gin.Context) {
	skuID, err := uuid.Parse(c.Query("skuId"))
	if err != nil {
		h.BadRequest(c, err)
		return
	}

	sizing, err := h.catalogService.Availability(c.Request.Context(), skuID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"sizing": sizing})
}

// ImportSkuRequest is one variant of an imported product
type ImportSkuRequest struct {
	Color   string            `json:"color" binding:"required"`
	Price   decimal.Decimal   `json:"price" binding:"required"`
	Sale    *decimal.Decimal  `json:"sale"`
	Bonuses decimal.Decimal   `json:"bonuses"`
	Images  catalog.ImageSets `json:"images"`
	Sizing  map[string]int    `json:"sizing" binding:"required"`
}

// ImportProductRequest is the supplier-feed payload
type ImportProductRequest struct {
	Target          string             `json:"target" binding:"required"`
	Category1       string             `json:"category_1"`
	Category2       string             `json:"category_2"`
	Category3       string             `json:"category_3"`
	Name            string             `json:"name" binding:"required"`
	Label           string             `json:"label" binding:"required"`
	Tags            []string           `json:"tags"`
	Description     string             `json:"description"`
	FreeDescription string             `json:"freeDescription"`
	Details         catalog.Details    `json:"details"`
	Features        []string           `json:"features"`
	Skus            []ImportSkuRequest `json:"skus" binding:"required,min=1"`
}

// ImportProduct ingests one supplier feed entry
func (h *CatalogHandler) ImportProduct(c *gin.Context) {
	var req ImportProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	appReq := catalogapp.ImportProductRequest{
		Target:          req.Target,
		Category1:       req.Category1,
		Category2:       req.Category2,
		Category3:       req.Category3,
		Name:            req.Name,
		Label:           req.Label,
		Tags:            req.Tags,
		Description:     req.Description,
		FreeDescription: req.FreeDescription,
		Details:         req.Details,
		Features:        req.Features,
	}
	for _, sku := range req.Skus {
		appReq.Skus = append(appReq.Skus, catalogapp.ImportSkuData{
			Color:   sku.Color,
			Price:   sku.Price,
			Sale:    sku.Sale,
			Bonuses: sku.Bonuses,
			Images:  sku.Images,
			Sizing:  sku.Sizing,
		})
	}

	product, err := h.catalogService.ImportProduct(c.Request.Context(), appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// DeleteProduct removes a product and its SKUs
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, err)
		return
	}
	if err := h.catalogService.DeleteProduct(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
