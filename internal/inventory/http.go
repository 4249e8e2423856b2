package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"Inventory/pkg/kit"
)

const (
	maxBodyBytes = 1 << 20
	readyTimeout = 1 * time.Second
)

const (
	msgBadJSON   = "JSON inválido."
	msgBadID     = "ID inválido."
	msgBadPrice  = "Preço inválido."
	msgServerErr = "server error"

	msgProductRequired  = "Nome, preço e código de barras são obrigatórios."
	msgProductNotFound  = "Produto não encontrado."
	msgProductDeleted   = "Produto excluído com sucesso."
	msgSupplierRequired = "Nome e CNPJ são obrigatórios."
	msgSupplierNotFound = "Fornecedor não encontrado."
	msgSupplierDeleted  = "Fornecedor excluído com sucesso."

	msgLinkRequired      = "Produto e Fornecedor são obrigatórios."
	msgLinkDuplicate     = "Associação já existe."
	msgLinkRemoved       = "Associação removida."
	msgLinkQueryRequired = "IDs são obrigatórios."
)

type Server struct {
	Store Store
	Log   *zap.Logger
}

// entityMessages holds the client-facing wording for one entity kind.
type entityMessages struct {
	required string
	notFound string
	deleted  string
}

var (
	productMessages  = entityMessages{msgProductRequired, msgProductNotFound, msgProductDeleted}
	supplierMessages = entityMessages{msgSupplierRequired, msgSupplierNotFound, msgSupplierDeleted}
)

func (s *Server) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

// Routes registers the REST surface on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.ready)

	r.Route("/products", func(r chi.Router) {
		r.Get("/", s.listProducts)
		r.Post("/", s.createProduct)
		r.Get("/{id}", s.getProduct)
		r.Put("/{id}", s.updateProduct)
		r.Delete("/{id}", s.deleteProduct)
	})

	r.Route("/suppliers", func(r chi.Router) {
		r.Get("/", s.listSuppliers)
		r.Post("/", s.createSupplier)
		r.Get("/{id}", s.getSupplier)
		r.Put("/{id}", s.updateSupplier)
		r.Delete("/{id}", s.deleteSupplier)
	})

	r.Route("/associations", func(r chi.Router) {
		r.Get("/", s.listAssociations)
		r.Post("/", s.createAssociation)
		r.Delete("/", s.deleteAssociation)
	})
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := s.Store.Ping(ctx); err != nil {
		s.logger().Warn("readyz failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// --- products

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.Store.ListProducts(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err, productMessages)
		return
	}
	kit.WriteJSON(w, http.StatusOK, products)
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	p, err := s.Store.GetProduct(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, r, err, productMessages)
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	var in Product
	if !s.decode(w, r, &in) {
		return
	}

	p, err := s.Store.CreateProduct(r.Context(), in)
	if err != nil {
		s.writeStoreError(w, r, err, productMessages)
		return
	}
	s.logger().Debug("product created", zap.Int64("product_id", p.ID))
	kit.WriteJSON(w, http.StatusCreated, p)
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var patch ProductPatch
	if !s.decodePatch(w, r, &patch) {
		return
	}

	p, err := s.Store.UpdateProduct(r.Context(), id, patch)
	if err != nil {
		s.writeStoreError(w, r, err, productMessages)
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	if err := s.Store.DeleteProduct(r.Context(), id); err != nil {
		s.writeStoreError(w, r, err, productMessages)
		return
	}
	s.logger().Debug("product deleted", zap.Int64("product_id", id))
	kit.WriteMessage(w, msgProductDeleted)
}

// --- suppliers

func (s *Server) listSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := s.Store.ListSuppliers(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err, supplierMessages)
		return
	}
	kit.WriteJSON(w, http.StatusOK, suppliers)
}

func (s *Server) getSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	sp, err := s.Store.GetSupplier(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, r, err, supplierMessages)
		return
	}
	kit.WriteJSON(w, http.StatusOK, sp)
}

func (s *Server) createSupplier(w http.ResponseWriter, r *http.Request) {
	var in Supplier
	if !s.decode(w, r, &in) {
		return
	}

	sp, err := s.Store.CreateSupplier(r.Context(), in)
	if err != nil {
		s.writeStoreError(w, r, err, supplierMessages)
		return
	}
	s.logger().Debug("supplier created", zap.Int64("supplier_id", sp.ID))
	kit.WriteJSON(w, http.StatusCreated, sp)
}

func (s *Server) updateSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var patch SupplierPatch
	if !s.decodePatch(w, r, &patch) {
		return
	}

	sp, err := s.Store.UpdateSupplier(r.Context(), id, patch)
	if err != nil {
		s.writeStoreError(w, r, err, supplierMessages)
		return
	}
	kit.WriteJSON(w, http.StatusOK, sp)
}

func (s *Server) deleteSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	if err := s.Store.DeleteSupplier(r.Context(), id); err != nil {
		s.writeStoreError(w, r, err, supplierMessages)
		return
	}
	s.logger().Debug("supplier deleted", zap.Int64("supplier_id", id))
	kit.WriteMessage(w, msgSupplierDeleted)
}

// --- associations

type associationReq struct {
	ProductID  LooseID `json:"productId"`
	SupplierID LooseID `json:"supplierId"`
}

func (s *Server) listAssociations(w http.ResponseWriter, r *http.Request) {
	links, err := s.Store.ListAssociations(r.Context())
	if err != nil {
		s.writeLinkError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, links)
}

func (s *Server) createAssociation(w http.ResponseWriter, r *http.Request) {
	var req associationReq
	if !s.decode(w, r, &req) {
		return
	}

	a, err := s.Store.CreateAssociation(r.Context(), int64(req.ProductID), int64(req.SupplierID))
	if err != nil {
		s.writeLinkError(w, r, err)
		return
	}
	s.logger().Debug("association created",
		zap.Int64("product_id", a.ProductID),
		zap.Int64("supplier_id", a.SupplierID),
	)
	kit.WriteJSON(w, http.StatusCreated, a)
}

func (s *Server) deleteAssociation(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rawProduct, rawSupplier := q.Get("productId"), q.Get("supplierId")
	if rawProduct == "" || rawSupplier == "" {
		kit.WriteError(w, r, http.StatusBadRequest, msgLinkQueryRequired, nil)
		return
	}

	productID, err := ParseID(rawProduct)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, msgBadID, map[string]any{"productId": rawProduct})
		return
	}
	supplierID, err := ParseID(rawSupplier)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, msgBadID, map[string]any{"supplierId": rawSupplier})
		return
	}

	if err := s.Store.DeleteAssociation(r.Context(), productID, supplierID); err != nil {
		s.writeLinkError(w, r, err)
		return
	}
	kit.WriteMessage(w, msgLinkRemoved)
}

// --- helpers

func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := ParseID(raw)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, msgBadID, map[string]any{"id": raw})
		return 0, false
	}
	return id, true
}

// decode reads a single JSON object into dst. Unknown fields are ignored
// because the UI posts whole records back, id included.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	return s.decodeBody(w, r, dst, false)
}

// decodePatch is decode for partial updates, where an empty body is an empty
// patch and leaves the record as it is.
func (s *Server) decodePatch(w http.ResponseWriter, r *http.Request, dst any) bool {
	return s.decodeBody(w, r, dst, true)
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	err := dec.Decode(dst)
	if allowEmpty && errors.Is(err, io.EOF) {
		return true
	}
	if err == nil && dec.Decode(&struct{}{}) != io.EOF {
		err = errors.New("extra data after json object")
	}
	if err == nil {
		return true
	}

	s.logger().Debug("bad request body", zap.Error(err), zap.String("path", r.URL.Path))
	switch {
	case errors.Is(err, ErrInvalidID):
		kit.WriteError(w, r, http.StatusBadRequest, msgBadID, nil)
	case errors.Is(err, ErrInvalidPrice):
		kit.WriteError(w, r, http.StatusBadRequest, msgBadPrice, map[string]any{"field": "preco"})
	default:
		kit.WriteError(w, r, http.StatusBadRequest, msgBadJSON, map[string]any{"cause": err.Error()})
	}
	return false
}

func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, err error, msgs entityMessages) {
	var fe *FieldError
	switch {
	case errors.As(err, &fe):
		kit.WriteError(w, r, http.StatusBadRequest, msgs.required, map[string]any{"fields": fe.Fields})
	case errors.Is(err, ErrNotFound):
		kit.WriteError(w, r, http.StatusNotFound, msgs.notFound, nil)
	case errors.Is(err, ErrInvalidID):
		kit.WriteError(w, r, http.StatusBadRequest, msgBadID, nil)
	default:
		s.logger().Error("store operation failed", zap.Error(err), zap.String("path", r.URL.Path))
		kit.WriteError(w, r, http.StatusInternalServerError, msgServerErr, nil)
	}
}

func (s *Server) writeLinkError(w http.ResponseWriter, r *http.Request, err error) {
	var fe *FieldError
	switch {
	case errors.As(err, &fe):
		kit.WriteError(w, r, http.StatusBadRequest, msgLinkRequired, map[string]any{"fields": fe.Fields})
	case errors.Is(err, ErrDuplicate):
		kit.WriteError(w, r, http.StatusConflict, msgLinkDuplicate, nil)
	case errors.Is(err, ErrInvalidID):
		kit.WriteError(w, r, http.StatusBadRequest, msgBadID, nil)
	default:
		s.logger().Error("association operation failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, msgServerErr, nil)
	}
}
