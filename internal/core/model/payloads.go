package model

// SaveProfileArgs contain the arguments of the SaveProfile method. Zero-valued
// optional fields are left untouched on an existing profile (merge semantics).
type SaveProfileArgs struct {
	// Email identifies the profile. Required; normalized before use.
	Email string

	// Name is the display name.
	Name string

	// MusicPreferences, when non-nil, replaces the stored preferences.
	MusicPreferences *MusicPreferences

	// Budget is the ticket-budget preference.
	Budget Budget

	// ConcertVibes are the attendance-style tags.
	ConcertVibes []string

	// ProfileImage is the avatar URL.
	ProfileImage string
}

// SaveProfileResponse contains the profile as stored after the merge.
type SaveProfileResponse struct {
	// Profile is the stored profile.
	Profile UserProfile
}

// SyncTasteArgs contain the arguments of the SyncTaste method.
type SyncTasteArgs struct {
	// Email identifies the profile to sync into. Required.
	Email string

	// Username is the listening-history provider username. Required.
	Username string
}

// SyncTasteResponse contains the taste that was written.
type SyncTasteResponse struct {
	// Preferences are the freshly synced preferences.
	Preferences MusicPreferences
}

// ListMatchesArgs contain the arguments for ranking the global population.
type ListMatchesArgs struct {
	// RequesterEmail is the user the candidates are ranked against. Required.
	RequesterEmail string
}

// ListRoomMatchesArgs contain the arguments for ranking one room's roster.
type ListRoomMatchesArgs struct {
	// RequesterEmail is the user the candidates are ranked against. Required.
	RequesterEmail string

	// ConcertID identifies the room. Required.
	ConcertID string
}

// ListMatchesResponse contains the ranked, capped matches.
type ListMatchesResponse struct {
	// Matches are ordered by score descending, email ascending on ties.
	Matches []Match
}

// JoinRoomArgs contain the arguments of the Join method.
type JoinRoomArgs struct {
	// Email is the joining user. Required.
	Email string

	// ConcertID identifies the room. Required.
	ConcertID string

	// ConcertName is the display name recorded on the room.
	ConcertName string
}

// PostMessageArgs contain the arguments of the PostMessage method.
type PostMessageArgs struct {
	// ConcertID identifies the room. Required.
	ConcertID string

	// SenderEmail identifies the sender. Required.
	SenderEmail string

	// Text is the message content. Required.
	Text string
}

// PostMessageResponse contains the stored message.
type PostMessageResponse struct {
	// Message is the message as appended, with server-assigned id and time.
	Message RoomMessage
}

// RequestConnectionArgs contain the arguments of the Request transition.
type RequestConnectionArgs struct {
	// Requester is the initiating user. Required.
	Requester string

	// Recipient is the user being asked. Required, distinct from Requester.
	Recipient string

	// ConcertID is the concert context. Required.
	ConcertID string
}

// RequestConnectionResponse reports the outcome of a connection request.
type RequestConnectionResponse struct {
	// Connection is the canonical record after the call.
	Connection Connection

	// Created is true when this call created the pending record, false when
	// the request was an idempotent no-op.
	Created bool
}

// AcceptConnectionArgs contain the arguments of the Accept transition.
type AcceptConnectionArgs struct {
	// ConnectionID is the canonical record id. Required.
	ConnectionID string

	// ActorEmail is who is accepting. Only checked in strict mode.
	ActorEmail string
}

// AcceptConnectionResponse contains the accepted record.
type AcceptConnectionResponse struct {
	// Connection is the record after acceptance.
	Connection Connection
}

// ConnectionStatusArgs contain the arguments of the Status query.
type ConnectionStatusArgs struct {
	// Requester is one side of the pair. Required.
	Requester string

	// Recipient is the other side. Required.
	Recipient string

	// ConcertID is the concert context. Required.
	ConcertID string
}

// ConnectionStatusResponse contains the stored record, or a synthetic record
// with status none when no record exists.
type ConnectionStatusResponse struct {
	// Connection is the record, possibly synthetic.
	Connection Connection
}

// UpcomingConcertsArgs contain the arguments of the Upcoming query.
type UpcomingConcertsArgs struct {
	// Query is the event search query, e.g. "Concerts in Austin".
	Query string

	// MaxResults caps the cleaned list. Zero means the service default.
	MaxResults int
}

// UpcomingConcertsResponse contains the cleaned concert list.
type UpcomingConcertsResponse struct {
	// Concerts are music events only, cleaned and normalized.
	Concerts []Concert
}
