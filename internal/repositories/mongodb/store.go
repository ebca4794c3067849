// Package mongodb is the MongoDB backend of the repositories interfaces.
// Multi-document writes run in replica-set transactions; every conditional
// state change is a filter-guarded update.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ArowuTest/recyclepoints-backend/internal/repositories"
	mongoclient "github.com/ArowuTest/recyclepoints-backend/pkg/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// Collection names.
const (
	usersCollection         = "users"
	transactionsCollection  = "transactions"
	requestsCollection      = "donation_requests"
	collectionsCollection   = "collections"
	categoriesCollection    = "waste_categories"
	rewardsCollection       = "rewards"
	addressesCollection     = "addresses"
	notificationsCollection = "notifications"
)

// Compile-time check to ensure Store implements the interface
var _ repositories.Store = (*Store)(nil)

// Options tunes the store.
type Options struct {
	// TxTimeout bounds every WithTransaction call. Zero disables the bound.
	TxTimeout      time.Duration
	ConnectTimeout time.Duration
}

// Store is a MongoDB-backed repositories.Store.
type Store struct {
	client    *mongoclient.Client
	db        *mongo.Database
	txTimeout time.Duration
	repos     *repositories.Repositories
}

// Open connects to uri and binds the store to database dbName.
func Open(ctx context.Context, uri, dbName string, opts Options) (*Store, error) {
	client, err := mongoclient.NewClient(ctx, uri, opts.ConnectTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	return NewStore(client, dbName, opts), nil
}

// NewStore binds an existing client to database dbName.
func NewStore(client *mongoclient.Client, dbName string, opts Options) *Store {
	db := client.Database(dbName)
	return &Store{
		client:    client,
		db:        db,
		txTimeout: opts.TxTimeout,
		repos: &repositories.Repositories{
			Users:         NewUserRepository(db),
			Ledger:        NewLedgerRepository(db),
			Requests:      NewDonationRequestRepository(db),
			Collections:   NewCollectionRepository(db),
			Categories:    NewCategoryRepository(db),
			Rewards:       NewRewardRepository(db),
			Addresses:     NewAddressRepository(db),
			Notifications: NewNotificationRepository(db),
		},
	}
}

// Repositories returns the repositories. Inside WithTransaction the same
// repositories join the transaction through the session context.
func (s *Store) Repositories() *repositories.Repositories { return s.repos }

// WithTransaction runs fn in a snapshot/majority transaction. The driver
// re-runs fn on TransientTransactionError; the guarded writes inside fn
// re-evaluate their conditions on each attempt.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context, repos *repositories.Repositories) error) error {
	if s.txTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.txTimeout)
		defer cancel()
	}

	session, err := s.client.Mongo().StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(context.Background())

	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, s.repos)
	}, txnOpts)
	return err
}

// Migrate creates the collections and indexes. Collections are created up
// front because implicit creation inside a transaction needs MongoDB 4.4+.
func (s *Store) Migrate(ctx context.Context) error {
	existing, err := s.db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}
	have := make(map[string]bool, len(existing))
	for _, name := range existing {
		have[name] = true
	}
	for _, name := range []string{
		usersCollection, transactionsCollection, requestsCollection, collectionsCollection,
		categoriesCollection, rewardsCollection, addressesCollection, notificationsCollection,
	} {
		if have[name] {
			continue
		}
		if err := s.db.CreateCollection(ctx, name); err != nil && !isNamespaceExists(err) {
			return fmt.Errorf("create collection %s: %w", name, err)
		}
	}

	indexes := map[string][]mongo.IndexModel{
		collectionsCollection: {
			{Keys: bson.D{{Key: "donationRequestId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "collectorId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		requestsCollection: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "donorId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		transactionsCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		addressesCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}}},
		},
		notificationsCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}
	for name, models := range indexes {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func isNamespaceExists(err error) bool {
	var ce mongo.CommandError
	return errors.As(err, &ce) && ce.Code == 48
}

// notFound maps mongo.ErrNoDocuments to repositories.ErrNotFound.
func notFound(err error, what string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s: %w", what, repositories.ErrNotFound)
	}
	return err
}

func findOptions(page, limit int) *options.FindOptions {
	offset, size := repositories.Paginate(page, limit)
	return options.Find().
		SetSkip(int64(offset)).
		SetLimit(int64(size)).
		SetSort(bson.D{{Key: "createdAt", Value: -1}})
}
