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
	"github.com/tell-platform/complaint-system/internal/core/ports"
)

// ComplaintRepository implements ports.ComplaintRepository. Every mutation is a
// single conditional FindOneAndUpdate; an unmatched filter is reported as
// domain.ErrComplaintNotFound.
type ComplaintRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewComplaintRepository(db *mongo.Database) *ComplaintRepository {
	return &ComplaintRepository{db: db, col: db.Collection(collectionComplaints)}
}

func (r *ComplaintRepository) Create(ctx context.Context, c *domain.Complaint) (*domain.Complaint, error) {
	doc, err := toComplaintDoc(c)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert complaint: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.domain(), nil
}

func (r *ComplaintRepository) FindByID(ctx context.Context, id string) (*domain.Complaint, error) {
	oid, err := objectID(id, domain.ErrComplaintNotFound)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *ComplaintRepository) FindOwned(ctx context.Context, ownerID, complaintID string) (*domain.Complaint, error) {
	filter, err := ownedFilter(ownerID, complaintID)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, filter)
}

func ownedFilter(ownerID, complaintID string) (bson.M, error) {
	oid, err := objectID(complaintID, domain.ErrComplaintNotFound)
	if err != nil {
		return nil, err
	}
	owner, err := objectID(ownerID, domain.ErrComplaintNotFound)
	if err != nil {
		return nil, err
	}
	return bson.M{"_id": oid, "owner": owner}, nil
}

func (r *ComplaintRepository) findOne(ctx context.Context, filter bson.M) (*domain.Complaint, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc complaintDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrComplaintNotFound
		}
		return nil, fmt.Errorf("find complaint: %w", err)
	}
	return doc.domain(), nil
}

// TransitionStatus sets the status and appends a history entry in one write,
// guarded by the allowed source statuses and the optional authority scope.
func (r *ComplaintRepository) TransitionStatus(ctx context.Context, t ports.StatusTransition) (*domain.Complaint, error) {
	filter, err := transitionFilter(t)
	if err != nil {
		return nil, err
	}
	return r.findOneAndUpdate(ctx, filter, transitionUpdate(t))
}

// transitionFilter matches the complaint only while it is in one of t.From.
// A concurrent transition that already moved it makes the filter miss.
func transitionFilter(t ports.StatusTransition) (bson.M, error) {
	oid, err := objectID(t.ComplaintID, domain.ErrComplaintNotFound)
	if err != nil {
		return nil, err
	}
	if len(t.From) == 0 {
		return nil, domain.ErrComplaintNotFound
	}

	filter := bson.M{"_id": oid, "status": bson.M{"$in": statusStrings(t.From)}}
	if authority, ok := t.Authority.Get(); ok {
		aid, err := objectID(authority, domain.ErrComplaintNotFound)
		if err != nil {
			return nil, err
		}
		filter["authority"] = aid
	}
	return filter, nil
}

func transitionUpdate(t ports.StatusTransition) bson.M {
	set := bson.M{"status": string(t.To), "updatedAt": t.At.UTC()}
	if t.Reason != "" {
		set["reason"] = t.Reason
	}
	return bson.M{
		"$set": set,
		"$push": bson.M{"statusHistory": toStatusChangeDoc(domain.StatusChange{
			Status: t.To, Actor: t.Actor, Reason: t.Reason, At: t.At.UTC(),
		})},
	}
}

func (r *ComplaintRepository) ConfirmClosed(ctx context.Context, ownerID, complaintID string, at time.Time) (*domain.Complaint, error) {
	filter, err := confirmFilter(ownerID, complaintID)
	if err != nil {
		return nil, err
	}
	return r.findOneAndUpdate(ctx, filter, confirmUpdate(ownerID, at))
}

func confirmFilter(ownerID, complaintID string) (bson.M, error) {
	filter, err := ownedFilter(ownerID, complaintID)
	if err != nil {
		return nil, err
	}
	filter["status"] = string(domain.StatusClosed)
	return filter, nil
}

func confirmUpdate(ownerID string, at time.Time) bson.M {
	return bson.M{
		"$set": bson.M{"status": string(domain.StatusConfirmed), "updatedAt": at.UTC()},
		"$push": bson.M{"statusHistory": toStatusChangeDoc(domain.StatusChange{
			Status: domain.StatusConfirmed, Actor: ownerID, At: at.UTC(),
		})},
	}
}

// ToggleVote flips membership of userID in votes with an update pipeline, so
// the read and the write happen in the same document operation.
func (r *ComplaintRepository) ToggleVote(ctx context.Context, complaintID, userID string, at time.Time) (*domain.Complaint, error) {
	oid, err := objectID(complaintID, domain.ErrComplaintNotFound)
	if err != nil {
		return nil, err
	}
	uid, err := objectID(userID, domain.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	return r.findOneAndUpdate(ctx, bson.M{"_id": oid}, toggleVotePipeline(uid, at))
}

func toggleVotePipeline(uid primitive.ObjectID, at time.Time) mongo.Pipeline {
	votes := bson.M{"$ifNull": bson.A{"$votes", bson.A{}}}
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"votes": bson.M{"$cond": bson.A{
				bson.M{"$in": bson.A{uid, votes}},
				bson.M{"$filter": bson.M{"input": votes, "cond": bson.M{"$ne": bson.A{"$$this", uid}}}},
				bson.M{"$concatArrays": bson.A{votes, bson.A{uid}}},
			}},
			"updatedAt": at.UTC(),
		}}},
	}
}

func (r *ComplaintRepository) AppendComment(ctx context.Context, complaintID string, comment domain.Comment) (*domain.Complaint, error) {
	oid, err := objectID(complaintID, domain.ErrComplaintNotFound)
	if err != nil {
		return nil, err
	}
	update, err := commentUpdate(comment)
	if err != nil {
		return nil, err
	}
	return r.findOneAndUpdate(ctx, bson.M{"_id": oid}, update)
}

func commentUpdate(comment domain.Comment) (bson.M, error) {
	commentor, err := objectID(comment.Commentor, domain.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	return bson.M{
		"$push": bson.M{"comments": commentDoc{Commentor: commentor, Content: comment.Content, CreatedAt: comment.CreatedAt.UTC()}},
		"$set":  bson.M{"updatedAt": comment.CreatedAt.UTC()},
	}, nil
}

func (r *ComplaintRepository) findOneAndUpdate(ctx context.Context, filter bson.M, update any) (*domain.Complaint, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc complaintDoc
	if err := r.col.FindOneAndUpdate(ctx, filter, update, afterUpdate()).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrComplaintNotFound
		}
		return nil, fmt.Errorf("update complaint: %w", err)
	}
	return doc.domain(), nil
}

func (r *ComplaintRepository) FindView(ctx context.Context, id string) (*domain.ComplaintView, error) {
	oid, err := objectID(id, domain.ErrComplaintNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc complaintDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrComplaintNotFound
		}
		return nil, fmt.Errorf("find complaint: %w", err)
	}

	views, err := r.populate(ctx, []complaintDoc{doc})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (r *ComplaintRepository) List(ctx context.Context, f domain.ComplaintFilter) ([]domain.ComplaintView, error) {
	filter, ok := listFilter(f)
	if !ok {
		return []domain.ComplaintView{}, nil
	}

	sortBy := f.SortBy
	if sortBy == "" {
		sortBy = domain.SortByCreated
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: string(sortBy), Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}
	var docs []complaintDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}
	return r.populate(ctx, docs)
}

// listFilter builds the query for f. ok is false when a present id field is
// malformed and therefore cannot match anything.
func listFilter(f domain.ComplaintFilter) (bson.M, bool) {
	filter := bson.M{}
	for field, opt := range map[string]domain.Optional[string]{
		"owner":     f.Owner,
		"authority": f.Authority,
		"category":  f.Category,
	} {
		if hex, present := opt.Get(); present {
			oid, err := primitive.ObjectIDFromHex(hex)
			if err != nil {
				return nil, false
			}
			filter[field] = oid
		}
	}
	if city, ok := f.City.Get(); ok {
		filter["location.city"] = city
	}
	if district, ok := f.District.Get(); ok {
		filter["location.district"] = district
	}
	if status, ok := f.Status.Get(); ok {
		filter["status"] = string(status)
	}
	if since, ok := f.Since.Get(); ok {
		filter["createdAt"] = bson.M{"$gte": since.UTC()}
	}
	return filter, true
}

func (r *ComplaintRepository) Delete(ctx context.Context, id string) (*domain.Complaint, error) {
	oid, err := objectID(id, domain.ErrComplaintNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc complaintDoc
	if err := r.col.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrComplaintNotFound
		}
		return nil, fmt.Errorf("delete complaint: %w", err)
	}
	return doc.domain(), nil
}

func statusStrings(in []domain.ComplaintStatus) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, string(s))
	}
	return out
}
