package handler

import (
	"time"

	"github.com/openshelf/catalog-api/internal/core/domain"
)

// --- Errors ---

type errorBody struct {
	Error string `json:"error"`
}

// --- Session ---

type loginRequest struct {
	Password string `json:"password" validate:"required,max=1024"`
}

type loginResponse struct {
	Success   bool        `json:"success"`
	Role      domain.Role `json:"role"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
}

type sessionResponse struct {
	Authenticated bool        `json:"authenticated"`
	Role          domain.Role `json:"role,omitempty"`
}

type logoutResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// --- Catalog ---

type catalogQuery struct {
	Lang string `query:"lang" validate:"required"`
}

type catalogResponse struct {
	Data  []domain.Record `json:"data"`
	Lang  domain.Language `json:"lang"`
	Count int             `json:"count"`
}

type catalogRecordResponse struct {
	Data domain.Record   `json:"data"`
	Lang domain.Language `json:"lang"`
}

type refreshResponse struct {
	OK    bool            `json:"ok"`
	Lang  domain.Language `json:"lang"`
	Count int             `json:"count"`
	Tier  string          `json:"tier"`
}

// --- Gallery ---

type galleryListQuery struct {
	Offset int `query:"offset" validate:"gte=0"`
	Limit  int `query:"limit"  validate:"gte=0,lte=200"`
}

type galleryListResponse struct {
	Items  []domain.GalleryItem `json:"items"`
	Count  int                  `json:"count"`
	Total  int                  `json:"total"`
	Offset int                  `json:"offset"`
}

type mutationResponse struct {
	OK    bool   `json:"ok"`
	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

type imageDeleteRequest struct {
	ID string `json:"id" query:"id"`
}
