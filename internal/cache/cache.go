package cache

import (
	"strings"
	"sync"

	"bundle-admin/internal/models"
)

// VariantStore es el mapeo en memoria de referencia de catálogo → última
// metadata descriptiva vista. Se popula on-demand a medida que el usuario
// navega el catálogo y no se evicta durante la sesión: el catálogo externo
// sigue siendo la fuente de verdad y esto es solo un snapshot de display
type VariantStore struct {
	mu    sync.RWMutex
	items map[string]models.VariantMetadata
}

// NewVariantStore crea un store vacío
func NewVariantStore() *VariantStore {
	return &VariantStore{items: make(map[string]models.VariantMetadata)}
}

// Put guarda la metadata de una referencia; refs vacías se ignoran
func (s *VariantStore) Put(meta models.VariantMetadata) {
	ref := strings.TrimSpace(meta.Ref)
	if ref == "" {
		return
	}
	meta.Ref = ref

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[ref] = meta
}

// PutAll guarda un lote de metadata (típicamente los variants de un producto)
func (s *VariantStore) PutAll(metas []models.VariantMetadata) {
	for _, m := range metas {
		s.Put(m)
	}
}

// Lookup devuelve la metadata conocida de una referencia, si existe
func (s *VariantStore) Lookup(ref string) (models.VariantMetadata, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.items[strings.TrimSpace(ref)]
	return m, ok
}

// Size devuelve el número de referencias conocidas
func (s *VariantStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
