package kvstore

// Key builders for the durable storage surface. The shapes are part of
// the on-disk format and must stay stable across releases.

// SessionKey addresses the session record for an access identifier.
// The record bundles the identity snapshot, the admin flag, and the
// refresh token.
func SessionKey(accessID string) string {
	return "sme_session:" + accessID
}

// NotificationsKey addresses the ordered notification feed of a user.
func NotificationsKey(userID string) string {
	return "sme_notifications:" + userID
}

// ActivityKey addresses the capped activity log of a user.
func ActivityKey(userID string) string {
	return "sme_activity:" + userID
}

// TrendingKey addresses the view-count hash shared by every catalog
// entity; fields are built by TrendingField.
const TrendingKey = "sme_trending"

// TrendingField composes the hash field for one counted entity.
func TrendingField(entityType, entityID string) string {
	return entityType + ":" + entityID
}

// ReviewsKey addresses the capped review sequence of an entity.
func ReviewsKey(entityType, entityID string) string {
	return "sme_reviews:" + entityType + ":" + entityID
}

// OnboardedKey addresses the onboarding completion flag of a user.
func OnboardedKey(userID string) string {
	return "sme_onboarded:" + userID
}

// OnboardingPendingKey addresses the pending-onboarding marker of a user.
func OnboardingPendingKey(userID string) string {
	return "sme_onboarding_pending:" + userID
}
