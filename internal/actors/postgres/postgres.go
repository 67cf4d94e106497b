package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gigmates/gigmates/internal/core/model"
	"github.com/go-pg/pg/v10"
)

// PostgresDB is a postgres adapter for persistence. It implements the profile,
// room and connection store ports as a relational alternative to the document
// store.
type PostgresDB struct {
	db      *pg.DB
	nowFunc func() time.Time
}

// PostgresDBArgs are the mandatory arguments for the creation of a PostgresDB.
type PostgresDBArgs struct {
	// DB is a postgres database handle
	DB *pg.DB
}

// PostgresDBOptArgs are the optional arguments for building a PostgresDB.
type PostgresDBOptArgs = func(*PostgresDB)

// WithNowFunc can be used to override the nowFunc. Useful for testing.
func WithNowFunc(nowFunc func() time.Time) PostgresDBOptArgs {
	return func(p *PostgresDB) {
		p.nowFunc = nowFunc
	}
}

// NewPostgresDB creates a new PostgresDB.
func NewPostgresDB(args PostgresDBArgs, optArgs ...PostgresDBOptArgs) (*PostgresDB, error) {
	db := &PostgresDB{db: args.DB, nowFunc: func() time.Time { return time.Now().UTC() }}
	for _, opt := range optArgs {
		opt(db)
	}
	return db, nil
}

// GetProfile returns the profile row for an email.
func (p *PostgresDB) GetProfile(ctx context.Context, email string) (*model.UserProfile, error) {
	dbUser := new(userDB)
	err := p.db.ModelContext(ctx, dbUser).Where("email = ?", email).Select()
	if err != nil {
		if errors.Is(err, pg.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	profile := translateDBToProfile(*dbUser)
	return &profile, nil
}

// UpsertProfile merges the profile's non-zero fields into the stored row,
// creating it when absent. CreatedAt is preserved on conflict.
func (p *PostgresDB) UpsertProfile(ctx context.Context, profile *model.UserProfile) error {
	if profile == nil {
		return errors.New("nil profile passed to upsert method")
	}

	now := p.nowFunc()
	dbUser := &userDB{
		Email:        profile.Email,
		Name:         profile.Name,
		Verified:     profile.Verified,
		Artists:      profile.MusicPreferences.Artists,
		Genres:       profile.MusicPreferences.Genres,
		Budget:       string(profile.Budget),
		ConcertVibes: profile.ConcertVibes,
		ProfileImage: profile.ProfileImage,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	q := p.db.ModelContext(ctx, dbUser).
		OnConflict("(email) DO UPDATE").
		Set("verified = EXCLUDED.verified").
		Set("updated_at = EXCLUDED.updated_at")
	if profile.Name != "" {
		q = q.Set("name = EXCLUDED.name")
	}
	if len(profile.MusicPreferences.Artists) > 0 || len(profile.MusicPreferences.Genres) > 0 {
		q = q.Set("artists = EXCLUDED.artists").Set("genres = EXCLUDED.genres")
	}
	if profile.Budget != "" {
		q = q.Set("budget = EXCLUDED.budget")
	}
	if len(profile.ConcertVibes) > 0 {
		q = q.Set("concert_vibes = EXCLUDED.concert_vibes")
	}
	if profile.ProfileImage != "" {
		q = q.Set("profile_image = EXCLUDED.profile_image")
	}
	if _, err := q.Insert(); err != nil {
		return fmt.Errorf("upserting profile %q: %w", profile.Email, err)
	}
	return nil
}

// SetMusicPreferences overwrites the stored preferences wholesale.
func (p *PostgresDB) SetMusicPreferences(ctx context.Context, email string, prefs model.MusicPreferences) error {
	now := p.nowFunc()
	dbUser := &userDB{
		Email:     email,
		Artists:   prefs.Artists,
		Genres:    prefs.Genres,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := p.db.ModelContext(ctx, dbUser).
		OnConflict("(email) DO UPDATE").
		Set("artists = EXCLUDED.artists").
		Set("genres = EXCLUDED.genres").
		Set("updated_at = EXCLUDED.updated_at").
		Insert()
	if err != nil {
		return fmt.Errorf("setting music preferences for %q: %w", email, err)
	}
	return nil
}

// AddJoinedConcert set-unions the concert id into the user's joined list,
// creating the row when it does not exist yet.
func (p *PostgresDB) AddJoinedConcert(ctx context.Context, email, concertID string) error {
	now := p.nowFunc()
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO gigmates.users (email, joined_concerts, created_at, updated_at)
		VALUES (?, ARRAY[?::text], ?, ?)
		ON CONFLICT (email) DO UPDATE
		SET joined_concerts = CASE
				WHEN ?::text = ANY (users.joined_concerts) THEN users.joined_concerts
				ELSE array_append(users.joined_concerts, ?::text)
			END,
			updated_at = EXCLUDED.updated_at`,
		email, concertID, now, now, concertID, concertID)
	if err != nil {
		return fmt.Errorf("recording joined concert for %q: %w", email, err)
	}
	return nil
}

// ListProfiles returns every known profile.
func (p *PostgresDB) ListProfiles(ctx context.Context) ([]model.UserProfile, error) {
	var dbUsers []userDB
	if err := p.db.ModelContext(ctx, &dbUsers).Order("created_at ASC").Select(); err != nil && !errors.Is(err, pg.ErrNoRows) {
		return nil, err
	}
	profiles := make([]model.UserProfile, len(dbUsers))
	for i, dbUser := range dbUsers {
		profiles[i] = translateDBToProfile(dbUser)
	}
	return profiles, nil
}

// GetRoom returns the room row for a concert id.
func (p *PostgresDB) GetRoom(ctx context.Context, concertID string) (*model.Room, error) {
	dbRoom := new(roomDB)
	err := p.db.ModelContext(ctx, dbRoom).Where("concert_id = ?", concertID).Select()
	if err != nil {
		if errors.Is(err, pg.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &model.Room{
		ConcertID:    dbRoom.ConcertID,
		ConcertName:  dbRoom.ConcertName,
		Members:      dbRoom.Members,
		LastActivity: dbRoom.LastActivity,
	}, nil
}

// AddMember set-unions the email into the room's member set, creating the room
// when absent. Re-adding an existing member leaves the set unchanged.
func (p *PostgresDB) AddMember(ctx context.Context, concertID, concertName, email string, at time.Time) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO gigmates.rooms (concert_id, concert_name, members, last_activity)
		VALUES (?, ?, ARRAY[?::text], ?)
		ON CONFLICT (concert_id) DO UPDATE
		SET members = CASE
				WHEN ?::text = ANY (rooms.members) THEN rooms.members
				ELSE array_append(rooms.members, ?::text)
			END,
			last_activity = EXCLUDED.last_activity`,
		concertID, concertName, email, at, email, email)
	if err != nil {
		return fmt.Errorf("adding %q to room %q: %w", email, concertID, err)
	}
	return nil
}

// AppendMessage appends one chat message and bumps the room's last activity.
func (p *PostgresDB) AppendMessage(ctx context.Context, msg *model.RoomMessage) error {
	if msg == nil {
		return errors.New("nil message passed to append method")
	}

	dbMsg := &messageDB{
		ID:          msg.ID,
		ConcertID:   msg.ConcertID,
		SenderEmail: msg.SenderEmail,
		SenderName:  msg.SenderName,
		SenderImage: msg.SenderImage,
		Text:        msg.Text,
		CreatedAt:   msg.CreatedAt,
	}
	if _, err := p.db.ModelContext(ctx, dbMsg).Insert(); err != nil {
		return fmt.Errorf("appending message to room %q: %w", msg.ConcertID, err)
	}

	_, err := p.db.ModelContext(ctx, &roomDB{ConcertID: msg.ConcertID}).
		WherePK().
		Set("last_activity = ?", msg.CreatedAt).
		Update()
	if err != nil {
		return fmt.Errorf("bumping room %q activity: %w", msg.ConcertID, err)
	}
	return nil
}

// ListMessages returns the room's messages ordered by time ascending.
func (p *PostgresDB) ListMessages(ctx context.Context, concertID string) ([]model.RoomMessage, error) {
	var dbMsgs []messageDB
	err := p.db.ModelContext(ctx, &dbMsgs).
		Where("concert_id = ?", concertID).
		Order("created_at ASC").
		Select()
	if err != nil && !errors.Is(err, pg.ErrNoRows) {
		return nil, err
	}
	msgs := make([]model.RoomMessage, len(dbMsgs))
	for i, dbMsg := range dbMsgs {
		msgs[i] = model.RoomMessage{
			ID:          dbMsg.ID,
			ConcertID:   dbMsg.ConcertID,
			SenderEmail: dbMsg.SenderEmail,
			SenderName:  dbMsg.SenderName,
			SenderImage: dbMsg.SenderImage,
			Text:        dbMsg.Text,
			CreatedAt:   dbMsg.CreatedAt,
		}
	}
	return msgs, nil
}

// GetConnection returns the record for a canonical pair id.
func (p *PostgresDB) GetConnection(ctx context.Context, id string) (*model.Connection, error) {
	dbConn := new(connectionDB)
	err := p.db.ModelContext(ctx, dbConn).Where("id = ?", id).Select()
	if err != nil {
		if errors.Is(err, pg.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	conn := translateDBToConnection(*dbConn)
	return &conn, nil
}

// PutConnection stores a new connection record.
func (p *PostgresDB) PutConnection(ctx context.Context, conn *model.Connection) error {
	if conn == nil {
		return errors.New("nil connection passed to put method")
	}
	dbConn := &connectionDB{
		ID:           conn.ID,
		ConcertID:    conn.ConcertID,
		Requester:    conn.Requester,
		Recipient:    conn.Recipient,
		Participants: conn.Participants,
		Status:       string(conn.Status),
		CreatedAt:    conn.CreatedAt,
		UpdatedAt:    conn.UpdatedAt,
	}
	if _, err := p.db.ModelContext(ctx, dbConn).Insert(); err != nil {
		return fmt.Errorf("storing connection %q: %w", conn.ID, err)
	}
	return nil
}

// UpdateConnectionStatus sets the status of an existing record and returns the
// updated record. It returns model.ErrNotFound when the id is unknown.
func (p *PostgresDB) UpdateConnectionStatus(ctx context.Context, id string, status model.ConnectionStatus, at time.Time) (*model.Connection, error) {
	dbConn := &connectionDB{ID: id}
	res, err := p.db.ModelContext(ctx, dbConn).
		WherePK().
		Set("status = ?", string(status)).
		Set("updated_at = ?", at).
		Returning("*").
		Update()
	if err != nil {
		return nil, err
	}
	if res.RowsAffected() == 0 {
		return nil, model.ErrNotFound
	}
	conn := translateDBToConnection(*dbConn)
	return &conn, nil
}

// ListConnections returns every record in which the email participates.
func (p *PostgresDB) ListConnections(ctx context.Context, email string) ([]model.Connection, error) {
	var dbConns []connectionDB
	err := p.db.ModelContext(ctx, &dbConns).
		Where("? = ANY (participants)", email).
		Order("created_at ASC").
		Select()
	if err != nil && !errors.Is(err, pg.ErrNoRows) {
		return nil, err
	}
	conns := make([]model.Connection, len(dbConns))
	for i, dbConn := range dbConns {
		conns[i] = translateDBToConnection(dbConn)
	}
	return conns, nil
}

func translateDBToProfile(dbUser userDB) model.UserProfile {
	return model.UserProfile{
		Email:    dbUser.Email,
		Name:     dbUser.Name,
		Verified: dbUser.Verified,
		MusicPreferences: model.MusicPreferences{
			Artists: dbUser.Artists,
			Genres:  dbUser.Genres,
		},
		Budget:         model.Budget(dbUser.Budget),
		ConcertVibes:   dbUser.ConcertVibes,
		ProfileImage:   dbUser.ProfileImage,
		JoinedConcerts: dbUser.JoinedConcerts,
		CreatedAt:      dbUser.CreatedAt,
		UpdatedAt:      dbUser.UpdatedAt,
	}
}

func translateDBToConnection(dbConn connectionDB) model.Connection {
	return model.Connection{
		ID:           dbConn.ID,
		ConcertID:    dbConn.ConcertID,
		Requester:    dbConn.Requester,
		Recipient:    dbConn.Recipient,
		Participants: dbConn.Participants,
		Status:       model.ConnectionStatus(dbConn.Status),
		CreatedAt:    dbConn.CreatedAt,
		UpdatedAt:    dbConn.UpdatedAt,
	}
}

type userDB struct {
	tableName struct{} `pg:"gigmates.users"`

	// Email identifies the user.
	Email string `pg:"email,pk"`

	// Name is the display name.
	Name string `pg:"name,use_zero"`

	// Verified reflects the email domain check at last write.
	Verified bool `pg:"verified,use_zero"`

	// Artists the user listens to.
	Artists []string `pg:"artists,array"`

	// Genres the user listens to.
	Genres []string `pg:"genres,array"`

	// Budget is the ticket-budget preference.
	Budget string `pg:"budget,use_zero"`

	// ConcertVibes are free-text attendance tags.
	ConcertVibes []string `pg:"concert_vibes,array"`

	// ProfileImage is the avatar URL.
	ProfileImage string `pg:"profile_image,use_zero"`

	// JoinedConcerts are the concert ids whose rooms the user joined.
	JoinedConcerts []string `pg:"joined_concerts,array"`

	// CreatedAt is the time at which the profile was first written.
	CreatedAt time.Time `pg:"created_at"`

	// UpdatedAt is the time at which the profile was last merged into.
	UpdatedAt time.Time `pg:"updated_at"`
}

type roomDB struct {
	tableName struct{} `pg:"gigmates.rooms"`

	// ConcertID identifies the concert the room belongs to.
	ConcertID string `pg:"concert_id,pk"`

	// ConcertName is the display name recorded on first join.
	ConcertName string `pg:"concert_name,use_zero"`

	// Members is the set of attendee emails.
	Members []string `pg:"members,array"`

	// LastActivity is bumped on every join and message.
	LastActivity time.Time `pg:"last_activity"`
}

type messageDB struct {
	tableName struct{} `pg:"gigmates.room_messages"`

	// ID is the server-assigned message id.
	ID string `pg:"id,pk"`

	// ConcertID scopes the message to one room.
	ConcertID string `pg:"concert_id"`

	SenderEmail string `pg:"sender_email"`
	SenderName  string `pg:"sender_name"`
	SenderImage string `pg:"sender_image,use_zero"`

	// Text is the message content.
	Text string `pg:"text"`

	// CreatedAt is the server-assigned timestamp.
	CreatedAt time.Time `pg:"created_at"`
}

type connectionDB struct {
	tableName struct{} `pg:"gigmates.connections"`

	// ID is the canonical pair id.
	ID string `pg:"id,pk"`

	ConcertID string `pg:"concert_id"`
	Requester string `pg:"requester"`
	Recipient string `pg:"recipient"`

	// Participants are both emails, sorted.
	Participants []string `pg:"participants,array"`

	Status string `pg:"status"`

	CreatedAt time.Time `pg:"created_at"`
	UpdatedAt time.Time `pg:"updated_at"`
}
