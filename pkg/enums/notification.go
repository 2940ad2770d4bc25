package enums

// NotificationType labels notification feed entries.
type NotificationType string

const (
	NotificationTypeSellerApproved NotificationType = "seller_approved"
	NotificationTypeSellerRejected NotificationType = "seller_rejected"
	NotificationTypeReturnUpdated  NotificationType = "return_updated"
	NotificationTypeReviewReply    NotificationType = "review_reply"
	NotificationTypeSystem         NotificationType = "system"
)

// String implements fmt.Stringer.
func (n NotificationType) String() string {
	return string(n)
}
