package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"bundle-admin/internal/bundle"
	"bundle-admin/internal/cache"
	"bundle-admin/internal/catalog"
	"bundle-admin/internal/evaluator"
	"bundle-admin/internal/httpclient"
	"bundle-admin/internal/models"
	"bundle-admin/internal/preview"
	"bundle-admin/internal/repository"
)

type BundleHandler struct {
	repo      *repository.BundleRepository
	variants  *cache.VariantStore
	catalog   *catalog.Client
	evaluator *evaluator.Client
}

func NewBundleHandler(repo *repository.BundleRepository, variants *cache.VariantStore, cat *catalog.Client, eval *evaluator.Client) *BundleHandler {
	return &BundleHandler{
		repo:      repo,
		variants:  variants,
		catalog:   cat,
		evaluator: eval,
	}
}

// ListBundles lista bundles con filtro por estado y búsqueda por nombre
func (h *BundleHandler) ListBundles(c *gin.Context) {
	status := c.DefaultQuery("status", "all")
	search := c.Query("search")

	bundles, err := h.repo.FindAll(c.Request.Context(), status, search)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list bundles"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"bundles": bundles})
}

// GetBundle obtiene un bundle con su vista agrupada de componentes
func (h *BundleHandler) GetBundle(c *gin.Context) {
	bundleID := c.Param("id")

	found, err := h.repo.FindByID(c.Request.Context(), bundleID)
	if err != nil {
		h.repoError(c, err)
		return
	}

	groups := bundle.NewComponentList(found.Components).GroupsView()
	c.JSON(http.StatusOK, gin.H{"bundle": found, "groups": groups})
}

// CreateBundle crea un bundle nuevo. La activación directa se gatea con la
// validación de referencias contra el catálogo en vivo
func (h *BundleHandler) CreateBundle(c *gin.Context) {
	var draft models.BundleDraft

	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft = bundle.Sanitize(draft)
	if len(draft.Components) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bundle needs at least one component"})
		return
	}

	if draft.Name == "" {
		draft.Name = h.defaultName(c.Request.Context(), draft)
	}
	if draft.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bundle needs a name"})
		return
	}

	if draft.Status == models.StatusActive {
		if err := h.catalog.ValidateRefs(c.Request.Context(), componentRefs(draft.Components)); err != nil {
			h.backendError(c, err)
			return
		}
	}

	if err := h.repo.Create(c.Request.Context(), &draft); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create bundle"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"bundle": draft})
}

// UpdateBundle actualiza parcialmente un bundle (típicamente {status}, o el
// draft completo desde el editor)
func (h *BundleHandler) UpdateBundle(c *gin.Context) {
	bundleID := c.Param("id")
	var update models.BundleUpdate

	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updateMap := bson.M{}
	var components []models.Component
	if update.Components != nil {
		sanitized := bundle.Sanitize(models.BundleDraft{Components: update.Components})
		components = sanitized.Components
		if len(components) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bundle needs at least one component"})
			return
		}
		updateMap["components"] = components
	}
	if update.Name != nil {
		updateMap["name"] = *update.Name
	}
	if update.Rules != nil {
		base := components
		if base == nil {
			existing, err := h.repo.FindByID(c.Request.Context(), bundleID)
			if err != nil {
				h.repoError(c, err)
				return
			}
			base = existing.Components
		}
		sanitized := bundle.Sanitize(models.BundleDraft{Components: base, Rules: *update.Rules})
		updateMap["rules"] = sanitized.Rules
	}
	if update.Presentation != nil {
		updateMap["presentation"] = bundle.TrimPresentation(*update.Presentation)
	}
	if update.Status != nil {
		if !models.ValidStatus(*update.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		updateMap["status"] = *update.Status
	}

	if len(updateMap) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no valid fields to update"})
		return
	}

	// Activar exige que todas las referencias resuelvan en el catálogo
	if update.Status != nil && *update.Status == models.StatusActive {
		refs := componentRefs(components)
		if refs == nil {
			existing, err := h.repo.FindByID(c.Request.Context(), bundleID)
			if err != nil {
				h.repoError(c, err)
				return
			}
			refs = componentRefs(existing.Components)
		}
		if err := h.catalog.ValidateRefs(c.Request.Context(), refs); err != nil {
			h.backendError(c, err)
			return
		}
	}

	if err := h.repo.Update(c.Request.Context(), bundleID, updateMap); err != nil {
		h.repoError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "bundle updated"})
}

// DeleteBundle realiza un borrado lógico; el bundle queda pausado
func (h *BundleHandler) DeleteBundle(c *gin.Context) {
	bundleID := c.Param("id")

	if err := h.repo.SoftDelete(c.Request.Context(), bundleID); err != nil {
		h.repoError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "bundle deleted"})
}

// DuplicateBundle clona un bundle como draft nuevo
func (h *BundleHandler) DuplicateBundle(c *gin.Context) {
	bundleID := c.Param("id")

	found, err := h.repo.FindByID(c.Request.Context(), bundleID)
	if err != nil {
		h.repoError(c, err)
		return
	}

	clone := bundle.Sanitize(models.BundleDraft{
		Name:         found.Name + " (Copy)",
		Status:       models.StatusDraft,
		Components:   found.Components,
		Rules:        found.Rules,
		Presentation: found.Presentation,
	})

	if err := h.repo.Create(c.Request.Context(), &clone); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to duplicate bundle"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"bundle": clone})
}

// Stats cuenta bundles por estado para el dashboard
func (h *BundleHandler) Stats(c *gin.Context) {
	counts, err := h.repo.CountByStatus(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
		return
	}

	total := int64(0)
	for _, n := range counts {
		total += n
	}
	c.JSON(http.StatusOK, gin.H{
		"total":  total,
		"draft":  counts[models.StatusDraft],
		"active": counts[models.StatusActive],
		"paused": counts[models.StatusPaused],
	})
}

// GetProduct proxya el detalle de producto del catálogo y alimenta la
// metadata local de variants usada por el preview
func (h *BundleHandler) GetProduct(c *gin.Context) {
	productID := c.Param("id")

	product, err := h.catalog.GetProduct(c.Request.Context(), productID)
	if err != nil {
		if httpclient.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		h.backendError(c, err)
		return
	}

	h.variants.PutAll(product.Variants)
	c.JSON(http.StatusOK, gin.H{"product": product})
}

type evaluateRequest struct {
	Items []models.CartItem `json:"items" binding:"required"`
}

// EvaluateCart evalúa un carrito hipotético contra el backend y reconcilia
// el veredicto con los precios de variants conocidos localmente
func (h *BundleHandler) EvaluateCart(c *gin.Context) {
	var req evaluateRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items := preview.MergeItems(req.Items)
	if len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
		return
	}

	createCoupon := c.DefaultQuery("createCoupon", "false") == "true"
	result, err := h.evaluator.Evaluate(c.Request.Context(), items, createCoupon)
	if err != nil {
		h.backendError(c, err)
		return
	}

	summary := preview.Reconcile(items, h.variants, result)
	c.JSON(http.StatusOK, gin.H{"evaluation": result, "preview": summary})
}

// CartBanner trae el banner en vivo del carrito
func (h *BundleHandler) CartBanner(c *gin.Context) {
	var req evaluateRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	banner, err := h.evaluator.CartBanner(c.Request.Context(), preview.MergeItems(req.Items))
	if err != nil {
		h.backendError(c, err)
		return
	}

	c.JSON(http.StatusOK, banner)
}

// repoError mapea errores del repositorio a respuestas HTTP
func (h *BundleHandler) repoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, repository.ErrInvalidID):
		c.JSON(http.StatusNotFound, gin.H{"error": "bundle not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "bundle operation failed"})
	}
}

// backendError mapea errores de los backends externos según su taxonomía:
// 429 se devuelve tal cual con aviso de reintento manual, fallos de
// credencial nuestros contra el backend son 502, y los errores de validación
// de referencias conservan la lista de refs inválidas
func (h *BundleHandler) backendError(c *gin.Context, err error) {
	if invalid, ok := httpclient.VariantsInvalid(err); ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "bundle references could not be resolved",
			"code":    httpclient.CodeVariantsInvalid,
			"invalid": invalid,
		})
		return
	}
	switch {
	case httpclient.IsRateLimited(err):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limited by backend, retry later"})
	case httpclient.IsAuth(err):
		c.JSON(http.StatusBadGateway, gin.H{"error": "backend rejected credentials"})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": "backend request failed"})
	}
}

// defaultName deriva el nombre por defecto desde el producto ancla cuando el
// draft llega sin nombre, como hace el editor al seleccionar producto
func (h *BundleHandler) defaultName(ctx context.Context, draft models.BundleDraft) string {
	anchor := draft.Presentation.CoverRef
	if anchor == "" && len(draft.Components) > 0 {
		anchor = draft.Components[0].Ref
	}
	if anchor == "" {
		return ""
	}

	if meta, ok := h.variants.Lookup(anchor); ok {
		return bundle.DefaultName(meta.Name)
	}
	if catalog.IsProductRef(anchor) {
		product, err := h.catalog.GetProduct(ctx, catalog.ProductIDFromRef(anchor))
		if err != nil {
			return ""
		}
		return bundle.DefaultName(product.Name)
	}
	variant, err := h.catalog.GetVariant(ctx, anchor)
	if err != nil {
		return ""
	}
	h.variants.Put(*variant)
	return bundle.DefaultName(variant.Name)
}

func componentRefs(components []models.Component) []string {
	if len(components) == 0 {
		return nil
	}
	refs := make([]string, 0, len(components))
	for _, c := range components {
		refs = append(refs, c.Ref)
	}
	return refs
}
