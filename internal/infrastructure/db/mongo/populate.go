package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tell-platform/complaint-system/internal/core/domain"
)

var (
	personProjection    = bson.M{"firstName": 1, "lastName": 1, "profImg": 1}
	authorityProjection = bson.M{"authorityName": 1, "district": 1}
	categoryProjection  = bson.M{"title": 1}
)

type idSet map[primitive.ObjectID]struct{}

func (s idSet) add(id primitive.ObjectID) {
	if !id.IsZero() {
		s[id] = struct{}{}
	}
}

func (s idSet) slice() []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	return out
}

// populate expands owner, authority, category and commentor references with
// one batched $in query per referenced collection.
func (r *ComplaintRepository) populate(ctx context.Context, docs []complaintDoc) ([]domain.ComplaintView, error) {
	users, authorities, categories := idSet{}, idSet{}, idSet{}
	for _, d := range docs {
		users.add(d.Owner)
		for _, c := range d.Comments {
			users.add(c.Commentor)
		}
		if d.Authority != nil {
			authorities.add(*d.Authority)
		}
		if d.Category != nil {
			categories.add(*d.Category)
		}
	}

	people := map[primitive.ObjectID]*domain.PersonRef{}
	if err := loadRefs(ctx, r.db.Collection(collectionUsers), users, personProjection, func(d userDoc) {
		people[d.ID] = &domain.PersonRef{ID: d.ID.Hex(), FirstName: d.FirstName, LastName: d.LastName, ProfImg: d.ProfImg}
	}); err != nil {
		return nil, err
	}

	offices := map[primitive.ObjectID]*domain.AuthorityRef{}
	if err := loadRefs(ctx, r.db.Collection(collectionAuthorities), authorities, authorityProjection, func(d authorityDoc) {
		offices[d.ID] = &domain.AuthorityRef{ID: d.ID.Hex(), AuthorityName: d.AuthorityName, District: d.District}
	}); err != nil {
		return nil, err
	}

	cats := map[primitive.ObjectID]*domain.CategoryRef{}
	if err := loadRefs(ctx, r.db.Collection(collectionCategories), categories, categoryProjection, func(d categoryDoc) {
		cats[d.ID] = &domain.CategoryRef{ID: d.ID.Hex(), Title: d.Title}
	}); err != nil {
		return nil, err
	}

	views := make([]domain.ComplaintView, 0, len(docs))
	for _, d := range docs {
		v := domain.ComplaintView{
			ID:        d.ID.Hex(),
			Owner:     people[d.Owner],
			Title:     d.Title,
			Content:   d.Content,
			Location:  d.Location.domain(),
			Landmark:  d.Landmark,
			Status:    domain.ComplaintStatus(d.Status),
			Reason:    d.Reason,
			Votes:     hexAll(d.Votes),
			VoteCount: len(d.Votes),
			Comments:  make([]domain.CommentView, 0, len(d.Comments)),
			Media:     d.Media,
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		}
		if d.Authority != nil {
			v.Authority = offices[*d.Authority]
		}
		if d.Category != nil {
			v.Category = cats[*d.Category]
		}
		for _, c := range d.Comments {
			v.Comments = append(v.Comments, domain.CommentView{
				Commentor: people[c.Commentor],
				Content:   c.Content,
				CreatedAt: c.CreatedAt,
			})
		}
		views = append(views, v)
	}
	return views, nil
}

func loadRefs[T any](ctx context.Context, col *mongo.Collection, ids idSet, projection bson.M, each func(T)) error {
	if len(ids) == 0 {
		return nil
	}
	cur, err := col.Find(ctx, bson.M{"_id": bson.M{"$in": ids.slice()}}, options.Find().SetProjection(projection))
	if err != nil {
		return fmt.Errorf("populate %s: %w", col.Name(), err)
	}
	var docs []T
	if err := cur.All(ctx, &docs); err != nil {
		return fmt.Errorf("populate %s: %w", col.Name(), err)
	}
	for _, d := range docs {
		each(d)
	}
	return nil
}
