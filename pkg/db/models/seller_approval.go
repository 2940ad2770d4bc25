package models

import (
	"time"

	"github.com/google/uuid"
)

// SellerApproval is one entry of the approval index: the user holds
// management rights over the store. Rows are written only by the admin
// decision path; every seller-scoped mutation reads this table.
type SellerApproval struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;column:user_id;not null;uniqueIndex:idx_seller_approvals_user_store"`
	StoreID   uuid.UUID `gorm:"type:uuid;column:store_id;not null;uniqueIndex:idx_seller_approvals_user_store"`
	GrantedBy uuid.UUID `gorm:"type:uuid;column:granted_by;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
