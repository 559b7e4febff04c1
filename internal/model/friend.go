package model

// FriendRequestStatus is the lifecycle state of a friend request.
// Friendships are stored by the relational backend only; no handler reads them yet.
type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "pending"
	FriendRequestAccepted FriendRequestStatus = "accepted"
	FriendRequestRejected FriendRequestStatus = "rejected"
)
