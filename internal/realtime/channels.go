package realtime

// Channel names are the sole contract binding publishers and subscribers:
// both sides must derive them through these functions. Exactly two channel
// families exist.

// PostChannel returns the update channel for a post
func PostChannel(postID string) string {
	return "post-" + postID
}

// NotificationChannel returns the personal notification channel for a user
func NotificationChannel(userID string) string {
	return "notifications-" + userID
}
