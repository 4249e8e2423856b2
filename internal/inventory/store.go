// Package inventory keeps products, suppliers and the links between them
// mutually consistent and serves them over REST.
package inventory

import (
	"context"
	"errors"
	"strings"
)

type Product struct {
	ID           int64      `json:"id"`
	Nome         string     `json:"nome" validate:"required"`
	Descricao    string     `json:"descricao,omitempty"`
	Preco        LoosePrice `json:"preco" validate:"required"`
	CodigoBarras string     `json:"codigoBarras" validate:"required"`
}

type Supplier struct {
	ID       int64  `json:"id"`
	Nome     string `json:"nome" validate:"required"`
	CNPJ     string `json:"cnpj" validate:"required"`
	Endereco string `json:"endereco,omitempty"`
	Contato  string `json:"contato,omitempty"`
}

// ProductPatch carries the fields of a partial update; nil means "keep".
type ProductPatch struct {
	Nome         *string     `json:"nome"`
	Descricao    *string     `json:"descricao"`
	Preco        *LoosePrice `json:"preco"`
	CodigoBarras *string     `json:"codigoBarras"`
}

type SupplierPatch struct {
	Nome     *string `json:"nome"`
	CNPJ     *string `json:"cnpj"`
	Endereco *string `json:"endereco"`
	Contato  *string `json:"contato"`
}

type Association struct {
	ProductID  int64 `json:"productId"`
	SupplierID int64 `json:"supplierId"`
}

type EnrichedAssociation struct {
	ProductID    int64  `json:"productId"`
	SupplierID   int64  `json:"supplierId"`
	ProductName  string `json:"productName"`
	SupplierName string `json:"supplierName"`
}

// Display names used when an association outlives the entity it points at.
const (
	UnknownProductName  = "Produto Desconhecido"
	UnknownSupplierName = "Fornecedor Desconhecido"
)

var (
	ErrMissingRequiredField = errors.New("missing required field")
	ErrNotFound             = errors.New("not found")
	ErrDuplicate            = errors.New("duplicate association")
	ErrInvalidID            = errors.New("invalid id")
	ErrInvalidPrice         = errors.New("invalid price")
)

// FieldError names the required fields that were absent or zero.
type FieldError struct {
	Fields []string
}

func (e *FieldError) Error() string {
	return ErrMissingRequiredField.Error() + ": " + strings.Join(e.Fields, ", ")
}

func (e *FieldError) Unwrap() error { return ErrMissingRequiredField }

// Store is the relational core. Deleting a product or supplier removes every
// association that references it in the same step.
type Store interface {
	Ping(ctx context.Context) error

	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id int64) (Product, error)
	CreateProduct(ctx context.Context, p Product) (Product, error)
	UpdateProduct(ctx context.Context, id int64, patch ProductPatch) (Product, error)
	DeleteProduct(ctx context.Context, id int64) error

	ListSuppliers(ctx context.Context) ([]Supplier, error)
	GetSupplier(ctx context.Context, id int64) (Supplier, error)
	CreateSupplier(ctx context.Context, s Supplier) (Supplier, error)
	UpdateSupplier(ctx context.Context, id int64, patch SupplierPatch) (Supplier, error)
	DeleteSupplier(ctx context.Context, id int64) error

	ListAssociations(ctx context.Context) ([]EnrichedAssociation, error)
	CreateAssociation(ctx context.Context, productID, supplierID int64) (Association, error)
	DeleteAssociation(ctx context.Context, productID, supplierID int64) error
}

func (p ProductPatch) apply(dst *Product) {
	if p.Nome != nil {
		dst.Nome = *p.Nome
	}
	if p.Descricao != nil {
		dst.Descricao = *p.Descricao
	}
	if p.Preco != nil {
		dst.Preco = *p.Preco
	}
	if p.CodigoBarras != nil {
		dst.CodigoBarras = *p.CodigoBarras
	}
}

func (p SupplierPatch) apply(dst *Supplier) {
	if p.Nome != nil {
		dst.Nome = *p.Nome
	}
	if p.CNPJ != nil {
		dst.CNPJ = *p.CNPJ
	}
	if p.Endereco != nil {
		dst.Endereco = *p.Endereco
	}
	if p.Contato != nil {
		dst.Contato = *p.Contato
	}
}
