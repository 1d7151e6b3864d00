package domain

import "time"

// Note is a tenant-scoped document authored by a single user.
type Note struct {
	ID        string    `json:"id" bson:"_id"`
	Title     string    `json:"title" bson:"title"`
	Content   string    `json:"content" bson:"content"`
	TenantID  string    `json:"tenantId" bson:"tenant_id"`
	CreatedBy string    `json:"createdBy" bson:"created_by"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}

// NotePatch carries a partial update. Nil fields leave the stored value as is.
type NotePatch struct {
	Title   *string
	Content *string
}

// CanBeModifiedBy reports whether the identity may update or delete the note:
// its author, or any Admin of the same tenant.
func (n *Note) CanBeModifiedBy(id Identity) bool {
	if n.TenantID != id.TenantID {
		return false
	}
	return n.CreatedBy == id.UserID || id.IsAdmin()
}
