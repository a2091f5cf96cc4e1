package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"supplyhub/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoAccountRepository implements AccountRepository using MongoDB. One
// document per account; sellers and supplies live as embedded arrays, so
// every mutation is a single-document atomic update.
type MongoAccountRepository struct {
	client     *mongo.Client
	db         *mongo.Database
	collection *mongo.Collection
}

// NewMongoAccountRepository connects to MongoDB and prepares the users
// collection.
func NewMongoAccountRepository(uri, database, collection string) (*MongoAccountRepository, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(50).
		SetMinPoolSize(5).
		SetMaxConnIdleTime(5 * time.Minute).
		SetRetryWrites(true)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(database)
	coll := db.Collection(collection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "sellers.seller_id", Value: 1}}},
		{Keys: bson.D{{Key: "sellers.supplies._id", Value: 1}}},
	}
	if _, err := coll.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Printf("[MongoDB] Warning: failed to create indexes: %v", err)
	}

	log.Printf("[MongoDB] Connected to %s/%s", database, collection)
	return &MongoAccountRepository{
		client:     client,
		db:         db,
		collection: coll,
	}, nil
}

// accountOID parses an account id. A malformed id behaves like a scoped
// lookup miss so callers cannot probe id validity.
func accountOID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return oid, nil
}

// CreateAccount inserts a new account document.
func (r *MongoAccountRepository) CreateAccount(ctx context.Context, acc *model.Account) error {
	now := time.Now().UTC()
	acc.CreatedAt = now
	acc.UpdatedAt = now

	res, err := r.collection.InsertOne(ctx, acc)
	if mongo.IsDuplicateKeyError(err) {
		return ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		acc.ID = oid
	}
	return nil
}

// AccountByEmail fetches an account by its unique email.
func (r *MongoAccountRepository) AccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	var acc model.Account
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&acc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account by email: %w", err)
	}
	return &acc, nil
}

// AccountByID fetches an account by id.
func (r *MongoAccountRepository) AccountByID(ctx context.Context, id string) (*model.Account, error) {
	oid, err := accountOID(id)
	if err != nil {
		return nil, err
	}

	var acc model.Account
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&acc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &acc, nil
}

// RecordLogin stamps last_login and appends an ip history entry.
func (r *MongoAccountRepository) RecordLogin(ctx context.Context, id, ip, userAgent string) error {
	oid, err := accountOID(id)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{"last_login": now, "updated_at": now},
		"$push": bson.M{
			"ip_history": model.IPRecord{IP: ip, Date: now, UserAgent: userAgent},
		},
	}

	res, err := r.collection.UpdateByID(ctx, oid, update)
	if err != nil {
		return fmt.Errorf("failed to record login: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateProfile applies an allow-listed profile patch.
func (r *MongoAccountRepository) UpdateProfile(ctx context.Context, id string, patch model.ProfilePatch) (*model.Account, error) {
	oid, err := accountOID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.TelegramID != nil {
		set["telegram_id"] = *patch.TelegramID
	}
	if patch.NotificationEnabled != nil {
		set["notification_enabled"] = *patch.NotificationEnabled
	}
	if patch.NotificationSettings != nil {
		set["notification_settings"] = patch.NotificationSettings
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var acc model.Account
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&acc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return &acc, nil
}

// ReplaceSellers overwrites the account's seller list wholesale.
func (r *MongoAccountRepository) ReplaceSellers(ctx context.Context, id string, sellers []model.Seller) error {
	oid, err := accountOID(id)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{"sellers": sellers, "updated_at": time.Now().UTC()}}
	res, err := r.collection.UpdateByID(ctx, oid, update)
	if err != nil {
		return fmt.Errorf("failed to replace sellers: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// sellersProjection decodes a sellers-only projection result.
type sellersProjection struct {
	Sellers []model.Seller `bson:"sellers"`
}

// Sellers returns the account's seller list in insertion order.
func (r *MongoAccountRepository) Sellers(ctx context.Context, accountID string) ([]model.Seller, error) {
	oid, err := accountOID(accountID)
	if err != nil {
		return nil, err
	}

	opts := options.FindOne().SetProjection(bson.M{"sellers": 1})
	var doc sellersProjection
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list sellers: %w", err)
	}

	if doc.Sellers == nil {
		return []model.Seller{}, nil
	}
	return doc.Sellers, nil
}

// SellerByID returns one seller of the account via a positional projection.
func (r *MongoAccountRepository) SellerByID(ctx context.Context, accountID, sellerID string) (*model.Seller, error) {
	oid, err := accountOID(accountID)
	if err != nil {
		return nil, err
	}

	filter := bson.M{"_id": oid, "sellers.seller_id": sellerID}
	opts := options.FindOne().SetProjection(bson.M{"sellers.$": 1})

	var doc sellersProjection
	err = r.collection.FindOne(ctx, filter, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get seller: %w", err)
	}
	if len(doc.Sellers) == 0 {
		return nil, ErrNotFound
	}
	return &doc.Sellers[0], nil
}

// AddSeller appends a seller to the account's list.
func (r *MongoAccountRepository) AddSeller(ctx context.Context, accountID string, s model.Seller) error {
	oid, err := accountOID(accountID)
	if err != nil {
		return err
	}

	update := bson.M{
		"$push": bson.M{"sellers": s},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	res, err := r.collection.UpdateByID(ctx, oid, update)
	if err != nil {
		return fmt.Errorf("failed to add seller: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateSeller replaces the id/name pair of the matched array element. Both
// fields are set through the positional operator so the nested supplies
// survive the rename.
func (r *MongoAccountRepository) UpdateSeller(ctx context.Context, accountID, originalID string, s model.Seller) error {
	oid, err := accountOID(accountID)
	if err != nil {
		return err
	}

	filter := bson.M{"_id": oid, "sellers.seller_id": originalID}
	update := bson.M{"$set": bson.M{
		"sellers.$.seller_id":   s.SellerID,
		"sellers.$.seller_name": s.SellerName,
		"updated_at":            time.Now().UTC(),
	}}

	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update seller: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveSeller pulls a seller from the account's list. No existence check:
// pulling an absent seller id is a successful no-op.
func (r *MongoAccountRepository) RemoveSeller(ctx context.Context, accountID, sellerID string) error {
	oid, err := accountOID(accountID)
	if err != nil {
		return err
	}

	update := bson.M{
		"$pull": bson.M{"sellers": bson.M{"seller_id": sellerID}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	res, err := r.collection.UpdateByID(ctx, oid, update)
	if err != nil {
		return fmt.Errorf("failed to remove seller: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// FindSellerOwner looks across all other accounts for a seller with the
// given id and reports its display name when found.
func (r *MongoAccountRepository) FindSellerOwner(ctx context.Context, sellerID, excludeAccountID string) (string, bool, error) {
	filter := bson.M{"sellers.seller_id": sellerID}
	if excludeAccountID != "" {
		oid, err := accountOID(excludeAccountID)
		if err != nil {
			return "", false, err
		}
		filter["_id"] = bson.M{"$ne": oid}
	}

	opts := options.FindOne().SetProjection(bson.M{"sellers.$": 1})
	var doc sellersProjection
	err := r.collection.FindOne(ctx, filter, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to check seller uniqueness: %w", err)
	}
	if len(doc.Sellers) == 0 {
		return "", false, nil
	}
	return doc.Sellers[0].SellerName, true, nil
}

// AddSupply appends a supply to the scoped seller.
func (r *MongoAccountRepository) AddSupply(ctx context.Context, accountID, sellerID string, s model.Supply) error {
	oid, err := accountOID(accountID)
	if err != nil {
		return err
	}

	filter := bson.M{"_id": oid, "sellers.seller_id": sellerID}
	update := bson.M{
		"$push": bson.M{"sellers.$.supplies": s},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}

	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to add supply: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SupplyByID returns one supply of the scoped seller.
func (r *MongoAccountRepository) SupplyByID(ctx context.Context, accountID, sellerID, supplyID string) (*model.Supply, error) {
	supplyOID, err := primitive.ObjectIDFromHex(supplyID)
	if err != nil {
		return nil, ErrNotFound
	}

	seller, err := r.SellerByID(ctx, accountID, sellerID)
	if err != nil {
		return nil, err
	}

	for i := range seller.Supplies {
		if seller.Supplies[i].ID == supplyOID {
			return &seller.Supplies[i], nil
		}
	}
	return nil, ErrNotFound
}

// UpdateSupply applies the whitelist patch via an array filter on the
// supply's id inside the positionally matched seller. Present fields
// replace the stored sub-objects wholesale.
func (r *MongoAccountRepository) UpdateSupply(ctx context.Context, accountID, sellerID, supplyID string, patch model.SupplyPatch) error {
	oid, err := accountOID(accountID)
	if err != nil {
		return err
	}
	supplyOID, err := primitive.ObjectIDFromHex(supplyID)
	if err != nil {
		return ErrNotFound
	}

	now := time.Now().UTC()
	set := bson.M{
		"updated_at":                              now,
		"sellers.$.supplies.$[supply].updated_at": now,
	}
	if patch.Status != nil {
		set["sellers.$.supplies.$[supply].status"] = *patch.Status
	}
	if patch.BookingSettings != nil {
		set["sellers.$.supplies.$[supply].booking_settings"] = *patch.BookingSettings
	}

	filter := bson.M{"_id": oid, "sellers.seller_id": sellerID}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"supply._id": supplyOID}},
	})

	res, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": set}, opts)
	if err != nil {
		return fmt.Errorf("failed to update supply: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveSupply pulls a supply from the scoped seller. An unresolvable
// seller scope fails; pulling an absent supply id succeeds.
func (r *MongoAccountRepository) RemoveSupply(ctx context.Context, accountID, sellerID, supplyID string) error {
	oid, err := accountOID(accountID)
	if err != nil {
		return err
	}
	supplyOID, err := primitive.ObjectIDFromHex(supplyID)
	if err != nil {
		return ErrNotFound
	}

	filter := bson.M{"_id": oid, "sellers.seller_id": sellerID}
	update := bson.M{
		"$pull": bson.M{"sellers.$.supplies": bson.M{"_id": supplyOID}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}

	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to remove supply: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Ping verifies the store connection.
func (r *MongoAccountRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, nil)
}

// Close closes the MongoDB connection.
func (r *MongoAccountRepository) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return r.client.Disconnect(ctx)
}
