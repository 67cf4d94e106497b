package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gigmates/gigmates/internal/core/model"
	"github.com/gigmates/gigmates/internal/core/ports"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// ConnectionServiceArgs contains the mandatory arguments for the
// ConnectionService.
type ConnectionServiceArgs struct {
	// Store is the connection persistence port.
	Store ports.ConnectionStore

	// Sender publishes connection events. May be nil, in which case no events
	// are emitted.
	Sender ports.Sender
}

// ConnectionServiceOptArgs are the optional arguments for building a
// ConnectionService.
type ConnectionServiceOptArgs = func(*ConnectionService)

// WithStrictAccept makes Accept verify that the accepting user is the
// recipient of the request. The permissive default mirrors the product's
// current behavior; the check is opt-in until the intended behavior is
// confirmed.
func WithStrictAccept() ConnectionServiceOptArgs {
	return func(s *ConnectionService) {
		s.strictAccept = true
	}
}

// WithConnectionNowFunc can be used to override the nowFunc. Useful for testing.
func WithConnectionNowFunc(nowFunc func() time.Time) ConnectionServiceOptArgs {
	return func(s *ConnectionService) {
		s.nowFunc = nowFunc
	}
}

// NewConnectionService creates a new ConnectionService.
func NewConnectionService(args ConnectionServiceArgs, optArgs ...ConnectionServiceOptArgs) *ConnectionService {
	s := &ConnectionService{
		store:   args.Store,
		sender:  args.Sender,
		nowFunc: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range optArgs {
		opt(s)
	}
	return s
}

// ConnectionService governs the lifecycle of the single symmetric connection
// record per (concert, unordered pair): none -> pending -> accepted.
type ConnectionService struct {
	store        ports.ConnectionStore
	sender       ports.Sender
	strictAccept bool
	nowFunc      func() time.Time
}

// CanonicalConnectionID derives the identifier for an unordered pair of users
// in a concert context. The two emails are normalized and sorted
// lexicographically, so both request directions reach the same record.
func CanonicalConnectionID(concertID, emailA, emailB string) string {
	a, b := orderPair(emailA, emailB)
	return concertID + "_" + a + "_" + b
}

// Request creates the pending connection record for the pair, or reports the
// existing record untouched when one already exists (idempotent re-request).
func (s *ConnectionService) Request(ctx context.Context, args model.RequestConnectionArgs) (*model.RequestConnectionResponse, error) {
	requester, recipient, concertID, err := validatePair(args.Requester, args.Recipient, args.ConcertID)
	if err != nil {
		return nil, err
	}

	id := CanonicalConnectionID(concertID, requester, recipient)
	existing, err := s.store.GetConnection(ctx, id)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("error reading connection %q: %w", id, err)
	}
	if existing != nil {
		// already pending or already accepted: no-op either way
		return &model.RequestConnectionResponse{Connection: *existing, Created: false}, nil
	}

	first, second := orderPair(requester, recipient)
	conn := &model.Connection{
		ID:           id,
		ConcertID:    concertID,
		Requester:    requester,
		Recipient:    recipient,
		Participants: []string{first, second},
		Status:       model.ConnectionStatusPending,
		CreatedAt:    s.nowFunc(),
	}
	if err := s.store.PutConnection(ctx, conn); err != nil {
		return nil, fmt.Errorf("error storing connection %q: %w", id, err)
	}

	s.publish(ctx, model.ConnectionEvent{ID: uuid.NewString(), After: conn})

	return &model.RequestConnectionResponse{Connection: *conn, Created: true}, nil
}

// Accept marks an existing connection accepted. It returns model.ErrNotFound
// when the id is unknown. Accepting an already-accepted connection is a no-op.
// In strict mode only the recorded recipient may accept.
func (s *ConnectionService) Accept(ctx context.Context, args model.AcceptConnectionArgs) (*model.AcceptConnectionResponse, error) {
	if args.ConnectionID == "" {
		return nil, fmt.Errorf("connection id is required: %w", model.ErrValidation)
	}

	existing, err := s.store.GetConnection(ctx, args.ConnectionID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error reading connection %q: %w", args.ConnectionID, err)
	}

	if s.strictAccept {
		actor, err := normalizeEmail(args.ActorEmail)
		if err != nil {
			return nil, err
		}
		if actor != existing.Recipient {
			return nil, fmt.Errorf("only the recipient %q may accept: %w", existing.Recipient, model.ErrValidation)
		}
	}

	if existing.Status == model.ConnectionStatusAccepted {
		return &model.AcceptConnectionResponse{Connection: *existing}, nil
	}

	updated, err := s.store.UpdateConnectionStatus(ctx, args.ConnectionID, model.ConnectionStatusAccepted, s.nowFunc())
	if err != nil {
		return nil, fmt.Errorf("error accepting connection %q: %w", args.ConnectionID, err)
	}

	s.publish(ctx, model.ConnectionEvent{ID: uuid.NewString(), Before: existing, After: updated})

	return &model.AcceptConnectionResponse{Connection: *updated}, nil
}

// Status returns the stored record for the pair, or a synthetic record with
// status none when no record exists.
func (s *ConnectionService) Status(ctx context.Context, args model.ConnectionStatusArgs) (*model.ConnectionStatusResponse, error) {
	requester, recipient, concertID, err := validatePair(args.Requester, args.Recipient, args.ConcertID)
	if err != nil {
		return nil, err
	}

	id := CanonicalConnectionID(concertID, requester, recipient)
	existing, err := s.store.GetConnection(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			first, second := orderPair(requester, recipient)
			return &model.ConnectionStatusResponse{Connection: model.Connection{
				ID:           id,
				ConcertID:    concertID,
				Requester:    requester,
				Recipient:    recipient,
				Participants: []string{first, second},
				Status:       model.ConnectionStatusNone,
			}}, nil
		}
		return nil, fmt.Errorf("error reading connection %q: %w", id, err)
	}

	return &model.ConnectionStatusResponse{Connection: *existing}, nil
}

// List returns every connection the user participates in.
func (s *ConnectionService) List(ctx context.Context, email string) ([]model.Connection, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	conns, err := s.store.ListConnections(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("error listing connections for %q: %w", normalized, err)
	}
	return conns, nil
}

// publish emits a connection event on a best-effort basis. Event delivery is
// a notification concern and must not fail the state transition itself.
func (s *ConnectionService) publish(ctx context.Context, event model.ConnectionEvent) {
	if s.sender == nil {
		return
	}
	if err := s.sender.Send(ctx, event); err != nil {
		log.WithError(err).WithField("event_id", event.ID).Warn("could not publish connection event")
	}
}

func validatePair(requester, recipient, concertID string) (string, string, string, error) {
	normalizedRequester, err := normalizeEmail(requester)
	if err != nil {
		return "", "", "", err
	}
	normalizedRecipient, err := normalizeEmail(recipient)
	if err != nil {
		return "", "", "", err
	}
	if concertID == "" {
		return "", "", "", fmt.Errorf("concert id is required: %w", model.ErrValidation)
	}
	if normalizedRequester == normalizedRecipient {
		return "", "", "", fmt.Errorf("cannot connect %q with itself: %w", normalizedRequester, model.ErrValidation)
	}
	return normalizedRequester, normalizedRecipient, concertID, nil
}

func orderPair(emailA, emailB string) (string, string) {
	a := normalized(emailA)
	b := normalized(emailB)
	if a > b {
		return b, a
	}
	return a, b
}

func normalized(email string) string {
	n, err := normalizeEmail(email)
	if err != nil {
		// validation happens before ordering; keep the raw value for callers
		// that build ids from already-normalized input
		return email
	}
	return n
}
