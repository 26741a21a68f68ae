package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/contactbook/contacts-api/internal/core/domain"
	"github.com/contactbook/contacts-api/internal/core/ports"
)

const contactsCollection = "contacts"

// ContactRepository persists contact records. Every filter includes the
// owning user id, so a contact id under the wrong owner decodes to
// ErrNoDocuments exactly like a missing id.
type ContactRepository struct {
	coll *mongo.Collection
}

func NewContactRepository(db *mongo.Database) *ContactRepository {
	return &ContactRepository{coll: db.Collection(contactsCollection)}
}

type mongoContact struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	FirstName string             `bson:"first_name"`
	LastName  string             `bson:"last_name"`
	Email     string             `bson:"email"`
	Phone     string             `bson:"phone"`
	Birthday  time.Time          `bson:"birthday"`
	ExtraInfo string             `bson:"extra_info,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (mc *mongoContact) toDomain() domain.Contact {
	return domain.Contact{
		ID:        mc.ID.Hex(),
		UserID:    mc.UserID,
		FirstName: mc.FirstName,
		LastName:  mc.LastName,
		Email:     mc.Email,
		Phone:     mc.Phone,
		Birthday:  mc.Birthday.UTC(),
		ExtraInfo: mc.ExtraInfo,
		CreatedAt: mc.CreatedAt.UTC(),
		UpdatedAt: mc.UpdatedAt.UTC(),
	}
}

// EnsureIndexes creates the owner index used by every scoped query.
func (r *ContactRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

// scoped builds the owner filter, folding an unparseable id into a filter
// that matches nothing rather than an error.
func scoped(id, userID string) (bson.M, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, false
	}
	return bson.M{"_id": oid, "user_id": userID}, true
}

func (r *ContactRepository) List(ctx context.Context, userID string, offset, limit int) ([]domain.Contact, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	// Sorting by _id keeps pagination stable under concurrent inserts.
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return decodeContacts(ctx, cursor)
}

func (r *ContactRepository) Get(ctx context.Context, id, userID string) (*domain.Contact, error) {
	filter, ok := scoped(id, userID)
	if !ok {
		return nil, domain.ErrContactNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mc mongoContact
	if err := r.coll.FindOne(ctx, filter).Decode(&mc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrContactNotFound
		}
		return nil, fmt.Errorf("find contact: %w", err)
	}
	c := mc.toDomain()
	return &c, nil
}

func (r *ContactRepository) Create(ctx context.Context, contact *domain.Contact) (*domain.Contact, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoContact{
		UserID:    contact.UserID,
		FirstName: contact.FirstName,
		LastName:  contact.LastName,
		Email:     contact.Email,
		Phone:     contact.Phone,
		Birthday:  contact.Birthday,
		ExtraInfo: contact.ExtraInfo,
		CreatedAt: contact.CreatedAt,
		UpdatedAt: contact.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrContactExists
		}
		return nil, fmt.Errorf("insert contact: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	c := doc.toDomain()
	return &c, nil
}

func (r *ContactRepository) Update(ctx context.Context, id, userID string, patch domain.ContactPatch) (*domain.Contact, error) {
	filter, ok := scoped(id, userID)
	if !ok {
		return nil, domain.ErrContactNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.FirstName != nil {
		set["first_name"] = *patch.FirstName
	}
	if patch.LastName != nil {
		set["last_name"] = *patch.LastName
	}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if patch.Phone != nil {
		set["phone"] = *patch.Phone
	}
	if patch.Birthday != nil {
		set["birthday"] = *patch.Birthday
	}
	if patch.ExtraInfo != nil {
		set["extra_info"] = *patch.ExtraInfo
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mc mongoContact
	err := r.coll.FindOneAndUpdate(ctx, filter,
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrContactNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrContactExists
		}
		return nil, fmt.Errorf("update contact: %w", err)
	}
	c := mc.toDomain()
	return &c, nil
}

func (r *ContactRepository) Delete(ctx context.Context, id, userID string) (*domain.Contact, error) {
	filter, ok := scoped(id, userID)
	if !ok {
		return nil, domain.ErrContactNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mc mongoContact
	if err := r.coll.FindOneAndDelete(ctx, filter).Decode(&mc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrContactNotFound
		}
		return nil, fmt.Errorf("delete contact: %w", err)
	}
	c := mc.toDomain()
	return &c, nil
}

func (r *ContactRepository) Search(ctx context.Context, userID string, query ports.ContactSearch) ([]domain.Contact, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"user_id": userID}
	if query.FirstName != "" {
		filter["first_name"] = substringRegex(query.FirstName)
	}
	if query.LastName != "" {
		filter["last_name"] = substringRegex(query.LastName)
	}
	if query.Email != "" {
		filter["email"] = substringRegex(query.Email)
	}

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("search contacts: %w", err)
	}
	return decodeContacts(ctx, cursor)
}

// BirthdaysWithin loads the user's contacts and applies the yearless
// calendar-day window in process; the wraparound arithmetic does not map
// onto a plain index-backed filter.
func (r *ContactRepository) BirthdaysWithin(ctx context.Context, userID string, today time.Time, horizonDays int) ([]domain.Contact, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}

	all, err := decodeContacts(ctx, cursor)
	if err != nil {
		return nil, err
	}

	matched := make([]domain.Contact, 0, len(all))
	for _, c := range all {
		if domain.BirthdayWithin(c.Birthday, today, horizonDays) {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

// substringRegex builds a case-insensitive substring match with the query
// quoted, so user input can never inject regex syntax.
func substringRegex(q string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
}

func decodeContacts(ctx context.Context, cursor *mongo.Cursor) ([]domain.Contact, error) {
	defer cursor.Close(ctx)

	var out []domain.Contact
	for cursor.Next(ctx) {
		var mc mongoContact
		if err := cursor.Decode(&mc); err != nil {
			return nil, fmt.Errorf("decode contact: %w", err)
		}
		out = append(out, mc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}
	return out, nil
}
