package models

// BundleVerdict es el veredicto del backend de evaluación para un bundle
// contra el carrito enviado
type BundleVerdict struct {
	Bundle         BundleDraft `json:"bundle"`
	Matched        bool        `json:"matched"`
	Applied        bool        `json:"applied"`
	Uses           int         `json:"uses"`
	DiscountAmount float64     `json:"discountAmount"`
}

// AppliedSummary agrega los bundles efectivamente aplicados
type AppliedSummary struct {
	Bundles       []BundleVerdict `json:"bundles"`
	TotalDiscount float64         `json:"totalDiscount"`
}

// Coupon es el cupón emitido por el backend (si se pidió createCoupon)
type Coupon struct {
	Code string `json:"code"`
}

// EvaluationResult es la respuesta completa de POST /bundles/evaluate.
// Missing lista las referencias que el backend no pudo resolver
type EvaluationResult struct {
	Bundles []BundleVerdict `json:"bundles"`
	Applied AppliedSummary  `json:"applied"`
	Coupon  *Coupon         `json:"coupon,omitempty"`
	Missing []string        `json:"missing,omitempty"`
}

// BannerContent es el contenido textual del banner del carrito
type BannerContent struct {
	Title string `json:"title"`
}

// CartBanner es la respuesta de POST /bundles/cart-banner
type CartBanner struct {
	Banner         BannerContent `json:"banner"`
	HasDiscount    bool          `json:"hasDiscount"`
	DiscountAmount float64       `json:"discountAmount"`
	CouponCode     string        `json:"couponCode,omitempty"`
}
