package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gigmates/gigmates/internal/core/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDB is a mongo adapter for persistence. It implements the profile, room
// and connection store ports on four collections.
type MongoDB struct {
	userCollection       *mongo.Collection
	roomCollection       *mongo.Collection
	messageCollection    *mongo.Collection
	connectionCollection *mongo.Collection
	nowFunc              func() time.Time
}

// MongoDBArgs are the mandatory arguments for the creation of a MongoDB.
type MongoDBArgs struct {
	// UserCollection holds one document per user, keyed by email.
	UserCollection *mongo.Collection

	// RoomCollection holds one document per concert room, keyed by concert id.
	RoomCollection *mongo.Collection

	// MessageCollection holds room chat messages.
	MessageCollection *mongo.Collection

	// ConnectionCollection holds pairwise connection records, keyed by the
	// canonical pair id.
	ConnectionCollection *mongo.Collection
}

// MongoDBOptArgs are the optional arguments for building a MongoDB.
type MongoDBOptArgs = func(*MongoDB)

// WithNowFunc can be used to override the nowFunc. Useful for testing.
func WithNowFunc(nowFunc func() time.Time) MongoDBOptArgs {
	return func(m *MongoDB) {
		m.nowFunc = nowFunc
	}
}

// NewMongoDB creates a new MongoDB.
func NewMongoDB(args MongoDBArgs, optArgs ...MongoDBOptArgs) (*MongoDB, error) {
	db := &MongoDB{
		userCollection:       args.UserCollection,
		roomCollection:       args.RoomCollection,
		messageCollection:    args.MessageCollection,
		connectionCollection: args.ConnectionCollection,
		nowFunc:              func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range optArgs {
		opt(db)
	}
	return db, nil
}

// GetProfile returns the profile document for an email.
func (m *MongoDB) GetProfile(ctx context.Context, email string) (*model.UserProfile, error) {
	dbUser := new(userDB)
	if err := m.userCollection.FindOne(ctx, bson.D{{Key: "_id", Value: email}}).Decode(dbUser); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	profile := translateDBToProfile(*dbUser)
	return &profile, nil
}

// UpsertProfile merges the profile's non-zero fields into the stored document,
// creating it when absent. CreatedAt is written only on first insert.
func (m *MongoDB) UpsertProfile(ctx context.Context, profile *model.UserProfile) error {
	if profile == nil {
		return errors.New("nil profile passed to upsert method")
	}

	set := bson.D{}
	if profile.Name != "" {
		set = append(set, bson.E{Key: "name", Value: profile.Name})
	}
	set = append(set, bson.E{Key: "verified", Value: profile.Verified})
	if len(profile.MusicPreferences.Artists) > 0 || len(profile.MusicPreferences.Genres) > 0 {
		set = append(set, bson.E{Key: "music_preferences", Value: musicPreferencesDB{
			Artists: profile.MusicPreferences.Artists,
			Genres:  profile.MusicPreferences.Genres,
		}})
	}
	if profile.Budget != "" {
		set = append(set, bson.E{Key: "budget", Value: string(profile.Budget)})
	}
	if len(profile.ConcertVibes) > 0 {
		set = append(set, bson.E{Key: "concert_vibes", Value: profile.ConcertVibes})
	}
	if profile.ProfileImage != "" {
		set = append(set, bson.E{Key: "profile_image", Value: profile.ProfileImage})
	}
	set = append(set, bson.E{Key: "updated_at", Value: m.nowFunc()})

	update := bson.D{
		{Key: "$set", Value: set},
		{Key: "$setOnInsert", Value: bson.D{{Key: "created_at", Value: m.nowFunc()}}},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := m.userCollection.UpdateByID(ctx, profile.Email, update, opts); err != nil {
		return fmt.Errorf("upserting profile %q: %w", profile.Email, err)
	}
	return nil
}

// SetMusicPreferences overwrites the stored preferences wholesale.
func (m *MongoDB) SetMusicPreferences(ctx context.Context, email string, prefs model.MusicPreferences) error {
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "music_preferences", Value: musicPreferencesDB{Artists: prefs.Artists, Genres: prefs.Genres}},
			{Key: "updated_at", Value: m.nowFunc()},
		}},
		{Key: "$setOnInsert", Value: bson.D{{Key: "created_at", Value: m.nowFunc()}}},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := m.userCollection.UpdateByID(ctx, email, update, opts); err != nil {
		return fmt.Errorf("setting music preferences for %q: %w", email, err)
	}
	return nil
}

// AddJoinedConcert set-unions the concert id into the user's joined list,
// creating the document when it does not exist yet.
func (m *MongoDB) AddJoinedConcert(ctx context.Context, email, concertID string) error {
	update := bson.D{
		{Key: "$addToSet", Value: bson.D{{Key: "joined_concerts", Value: concertID}}},
		{Key: "$set", Value: bson.D{{Key: "updated_at", Value: m.nowFunc()}}},
		{Key: "$setOnInsert", Value: bson.D{{Key: "created_at", Value: m.nowFunc()}}},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := m.userCollection.UpdateByID(ctx, email, update, opts); err != nil {
		return fmt.Errorf("recording joined concert for %q: %w", email, err)
	}
	return nil
}

// ListProfiles returns every known profile.
func (m *MongoDB) ListProfiles(ctx context.Context) ([]model.UserProfile, error) {
	cursor, err := m.userCollection.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	var dbUsers []userDB
	if err := cursor.All(ctx, &dbUsers); err != nil {
		return nil, err
	}
	profiles := make([]model.UserProfile, len(dbUsers))
	for i, dbUser := range dbUsers {
		profiles[i] = translateDBToProfile(dbUser)
	}
	return profiles, nil
}

// GetRoom returns the room document for a concert id.
func (m *MongoDB) GetRoom(ctx context.Context, concertID string) (*model.Room, error) {
	dbRoom := new(roomDB)
	if err := m.roomCollection.FindOne(ctx, bson.D{{Key: "_id", Value: concertID}}).Decode(dbRoom); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &model.Room{
		ConcertID:    dbRoom.ID,
		ConcertName:  dbRoom.ConcertName,
		Members:      dbRoom.Members,
		LastActivity: dbRoom.LastActivity,
	}, nil
}

// AddMember set-unions the email into the room's member set, creating the room
// when absent. Re-adding an existing member leaves the set unchanged.
func (m *MongoDB) AddMember(ctx context.Context, concertID, concertName, email string, at time.Time) error {
	update := bson.D{
		{Key: "$addToSet", Value: bson.D{{Key: "members", Value: email}}},
		{Key: "$set", Value: bson.D{{Key: "last_activity", Value: at}}},
		{Key: "$setOnInsert", Value: bson.D{{Key: "concert_name", Value: concertName}}},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := m.roomCollection.UpdateByID(ctx, concertID, update, opts); err != nil {
		return fmt.Errorf("adding %q to room %q: %w", email, concertID, err)
	}
	return nil
}

// AppendMessage appends one chat message and bumps the room's last activity.
func (m *MongoDB) AppendMessage(ctx context.Context, msg *model.RoomMessage) error {
	if msg == nil {
		return errors.New("nil message passed to append method")
	}

	dbMsg := messageDB{
		ID:          msg.ID,
		ConcertID:   msg.ConcertID,
		SenderEmail: msg.SenderEmail,
		SenderName:  msg.SenderName,
		SenderImage: msg.SenderImage,
		Text:        msg.Text,
		CreatedAt:   msg.CreatedAt,
	}
	if _, err := m.messageCollection.InsertOne(ctx, dbMsg); err != nil {
		return fmt.Errorf("appending message to room %q: %w", msg.ConcertID, err)
	}

	update := bson.D{{Key: "$set", Value: bson.D{{Key: "last_activity", Value: msg.CreatedAt}}}}
	if _, err := m.roomCollection.UpdateByID(ctx, msg.ConcertID, update); err != nil {
		return fmt.Errorf("bumping room %q activity: %w", msg.ConcertID, err)
	}
	return nil
}

// ListMessages returns the room's messages ordered by time ascending.
func (m *MongoDB) ListMessages(ctx context.Context, concertID string) ([]model.RoomMessage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := m.messageCollection.Find(ctx, bson.D{{Key: "concert_id", Value: concertID}}, opts)
	if err != nil {
		return nil, err
	}
	var dbMsgs []messageDB
	if err := cursor.All(ctx, &dbMsgs); err != nil {
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
func (m *MongoDB) GetConnection(ctx context.Context, id string) (*model.Connection, error) {
	dbConn := new(connectionDB)
	if err := m.connectionCollection.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(dbConn); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	conn := translateDBToConnection(*dbConn)
	return &conn, nil
}

// PutConnection stores a new connection record.
func (m *MongoDB) PutConnection(ctx context.Context, conn *model.Connection) error {
	if conn == nil {
		return errors.New("nil connection passed to put method")
	}
	dbConn := connectionDB{
		ID:           conn.ID,
		ConcertID:    conn.ConcertID,
		Requester:    conn.Requester,
		Recipient:    conn.Recipient,
		Participants: conn.Participants,
		Status:       string(conn.Status),
		CreatedAt:    conn.CreatedAt,
		UpdatedAt:    conn.UpdatedAt,
	}
	if _, err := m.connectionCollection.InsertOne(ctx, dbConn); err != nil {
		return fmt.Errorf("storing connection %q: %w", conn.ID, err)
	}
	return nil
}

// UpdateConnectionStatus sets the status of an existing record and returns the
// updated record.
func (m *MongoDB) UpdateConnectionStatus(ctx context.Context, id string, status model.ConnectionStatus, at time.Time) (*model.Connection, error) {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "status", Value: string(status)},
		{Key: "updated_at", Value: at},
	}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	dbConn := new(connectionDB)
	err := m.connectionCollection.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id}}, update, opts).Decode(dbConn)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	conn := translateDBToConnection(*dbConn)
	return &conn, nil
}

// ListConnections returns every record in which the email participates.
func (m *MongoDB) ListConnections(ctx context.Context, email string) ([]model.Connection, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := m.connectionCollection.Find(ctx, bson.D{{Key: "participants", Value: email}}, opts)
	if err != nil {
		return nil, err
	}
	var dbConns []connectionDB
	if err := cursor.All(ctx, &dbConns); err != nil {
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
		Email:    dbUser.ID,
		Name:     dbUser.Name,
		Verified: dbUser.Verified,
		MusicPreferences: model.MusicPreferences{
			Artists: dbUser.MusicPreferences.Artists,
			Genres:  dbUser.MusicPreferences.Genres,
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
	// ID is the user's normalized email.
	ID string `bson:"_id"`

	// Name is the display name.
	Name string `bson:"name,omitempty"`

	// Verified reflects the email domain check at last write.
	Verified bool `bson:"verified"`

	// MusicPreferences is the taste slice.
	MusicPreferences musicPreferencesDB `bson:"music_preferences,omitempty"`

	// Budget is the ticket-budget preference.
	Budget string `bson:"budget,omitempty"`

	// ConcertVibes are free-text attendance tags.
	ConcertVibes []string `bson:"concert_vibes,omitempty"`

	// ProfileImage is the avatar URL.
	ProfileImage string `bson:"profile_image,omitempty"`

	// JoinedConcerts are the concert ids whose rooms the user joined.
	JoinedConcerts []string `bson:"joined_concerts,omitempty"`

	// CreatedAt is the time at which the profile was first written.
	CreatedAt time.Time `bson:"created_at"`

	// UpdatedAt is the time at which the profile was last merged into.
	UpdatedAt time.Time `bson:"updated_at"`
}

type musicPreferencesDB struct {
	Artists []string `bson:"artists,omitempty"`
	Genres  []string `bson:"genres,omitempty"`
}

type roomDB struct {
	// ID is the concert id.
	ID string `bson:"_id"`

	// ConcertName is the display name recorded on first join.
	ConcertName string `bson:"concert_name,omitempty"`

	// Members is the set of attendee emails.
	Members []string `bson:"members,omitempty"`

	// LastActivity is bumped on every join and message.
	LastActivity time.Time `bson:"last_activity"`
}

type messageDB struct {
	// ID is the server-assigned message id.
	ID string `bson:"_id"`

	// ConcertID scopes the message to one room.
	ConcertID string `bson:"concert_id"`

	SenderEmail string `bson:"sender_email"`
	SenderName  string `bson:"sender_name"`
	SenderImage string `bson:"sender_image,omitempty"`

	// Text is the message content.
	Text string `bson:"text"`

	// CreatedAt is the server-assigned timestamp.
	CreatedAt time.Time `bson:"created_at"`
}

type connectionDB struct {
	// ID is the canonical pair id.
	ID string `bson:"_id"`

	ConcertID string `bson:"concert_id"`
	Requester string `bson:"requester"`
	Recipient string `bson:"recipient"`

	// Participants are both emails, sorted. Indexed for per-user listing.
	Participants []string `bson:"participants"`

	Status string `bson:"status"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}
