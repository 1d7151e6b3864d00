package handler

import "github.com/notesaas/notes-api/internal/core/domain"

// --- Request / Response types ---

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type createNoteRequest struct {
	Title   string `json:"title" validate:"required,notblank"`
	Content string `json:"content"`
}

// updateNoteRequest leaves absent fields untouched.
type updateNoteRequest struct {
	Title   *string `json:"title" validate:"omitempty,notblank"`
	Content *string `json:"content"`
}

func (r updateNoteRequest) patch() domain.NotePatch {
	return domain.NotePatch{Title: r.Title, Content: r.Content}
}

type noteResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	TenantID  string `json:"tenantId"`
	CreatedBy string `json:"createdBy"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type planChangeResponse struct {
	Message string      `json:"message"`
	Plan    domain.Plan `json:"plan"`
}

type planResponse struct {
	Plan domain.Plan `json:"plan"`
}
