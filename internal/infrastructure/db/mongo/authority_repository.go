package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tell-platform/complaint-system/internal/core/domain"
)

// AuthorityRepository implements ports.AuthorityRepository. Admin accounts live
// in the same collection with role 99.
type AuthorityRepository struct {
	col *mongo.Collection
}

func NewAuthorityRepository(db *mongo.Database) *AuthorityRepository {
	return &AuthorityRepository{col: db.Collection(collectionAuthorities)}
}

func (r *AuthorityRepository) Create(ctx context.Context, a *domain.Authority) (*domain.Authority, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toAuthorityDoc(a)
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, authorityWriteErr(err, "insert authority")
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	created := doc.domain()
	created.Credential = domain.Credential{}
	return created, nil
}

func authorityWriteErr(err error, op string) error {
	switch {
	case duplicateKeyOn(err, "username"):
		return domain.ErrUsernameExists
	case mongo.IsDuplicateKeyError(err):
		return domain.ErrEmailExists
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func (r *AuthorityRepository) FindByID(ctx context.Context, id string) (*domain.Authority, error) {
	oid, err := objectID(id, domain.ErrAuthorityNotFound)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid}, options.FindOne().SetProjection(withoutCredential))
}

// FindByUsername loads the credential for sign-in.
func (r *AuthorityRepository) FindByUsername(ctx context.Context, username string) (*domain.Authority, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *AuthorityRepository) FindByDistrict(ctx context.Context, district string) (*domain.Authority, error) {
	return r.findOne(ctx,
		bson.M{"district": district, "role": int(domain.RoleAuthority)},
		options.FindOne().SetProjection(withoutCredential).SetSort(bson.D{{Key: "createdAt", Value: 1}}),
	)
}

func (r *AuthorityRepository) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*domain.Authority, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc authorityDoc
	if err := r.col.FindOne(ctx, filter, opts...).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAuthorityNotFound
		}
		return nil, fmt.Errorf("find authority: %w", err)
	}
	return doc.domain(), nil
}

func (r *AuthorityRepository) List(ctx context.Context) ([]domain.Authority, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{},
		options.Find().SetProjection(withoutCredential).SetSort(bson.D{{Key: "authorityName", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list authorities: %w", err)
	}
	var docs []authorityDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list authorities: %w", err)
	}

	out := make([]domain.Authority, 0, len(docs))
	for _, d := range docs {
		out = append(out, *d.domain())
	}
	return out, nil
}

func (r *AuthorityRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, bson.M{"email": email})
}

func (r *AuthorityRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, bson.M{"username": username})
}

func (r *AuthorityRepository) exists(ctx context.Context, filter bson.M) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count authorities: %w", err)
	}
	return n > 0, nil
}

func (r *AuthorityRepository) Update(ctx context.Context, id string, p domain.AuthorityPatch) (*domain.Authority, error) {
	oid, err := objectID(id, domain.ErrAuthorityNotFound)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	setIf(set, "authorityName", p.AuthorityName)
	setIf(set, "email", p.Email)
	setIf(set, "contact", p.Contact)
	setIf(set, "district", p.District)

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc authorityDoc
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set},
		afterUpdate().SetProjection(withoutCredential)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrAuthorityNotFound
	}
	if err != nil {
		return nil, authorityWriteErr(err, "update authority")
	}
	return doc.domain(), nil
}

func (r *AuthorityRepository) SetCredential(ctx context.Context, id string, cred domain.Credential) error {
	oid, err := objectID(id, domain.ErrAuthorityNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"credential": credentialDoc{Digest: cred.Digest, Salt: cred.Salt},
		"updatedAt":  time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("set authority credential: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAuthorityNotFound
	}
	return nil
}

func (r *AuthorityRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id, domain.ErrAuthorityNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete authority: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrAuthorityNotFound
	}
	return nil
}
