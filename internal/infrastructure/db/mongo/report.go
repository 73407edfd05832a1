package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tell-platform/complaint-system/internal/core/domain"
)

type reportFacets struct {
	Totals []struct {
		Total int64 `bson:"total"`
		Votes int64 `bson:"votes"`
	} `bson:"totals"`
	ByStatus []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	} `bson:"byStatus"`
	ByCategory []struct {
		Category *primitive.ObjectID `bson:"_id"`
		Title    string              `bson:"title"`
		Count    int64               `bson:"count"`
	} `bson:"byCategory"`
	ByDistrict []struct {
		District string `bson:"_id"`
		Count    int64  `bson:"count"`
	} `bson:"byDistrict"`
}

func reportPipeline() mongo.Pipeline {
	countBy := func(key any) bson.M {
		return bson.M{"$group": bson.M{"_id": key, "count": bson.M{"$sum": 1}}}
	}
	byCountDesc := bson.M{"$sort": bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}

	return mongo.Pipeline{
		{{Key: "$facet", Value: bson.M{
			"totals": bson.A{
				bson.M{"$group": bson.M{
					"_id":   nil,
					"total": bson.M{"$sum": 1},
					"votes": bson.M{"$sum": bson.M{"$size": bson.M{"$ifNull": bson.A{"$votes", bson.A{}}}}},
				}},
			},
			"byStatus": bson.A{countBy("$status"), byCountDesc},
			"byCategory": bson.A{
				countBy("$category"),
				bson.M{"$lookup": bson.M{
					"from":         collectionCategories,
					"localField":   "_id",
					"foreignField": "_id",
					"as":           "cat",
				}},
				bson.M{"$project": bson.M{
					"count": 1,
					"title": bson.M{"$ifNull": bson.A{bson.M{"$arrayElemAt": bson.A{"$cat.title", 0}}, ""}},
				}},
				byCountDesc,
			},
			"byDistrict": bson.A{countBy(bson.M{"$ifNull": bson.A{"$location.district", ""}}), byCountDesc},
		}}},
	}
}

// Report aggregates complaint counts in a single $facet pass.
func (r *ComplaintRepository) Report(ctx context.Context) (*domain.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Aggregate(ctx, reportPipeline())
	if err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}
	var facets []reportFacets
	if err := cur.All(ctx, &facets); err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}

	rep := &domain.Report{
		ByStatus:    map[domain.ComplaintStatus]int64{},
		ByCategory:  []domain.CategoryCount{},
		ByDistrict:  []domain.DistrictCount{},
		GeneratedAt: time.Now().UTC(),
	}
	if len(facets) == 0 {
		return rep, nil
	}
	f := facets[0]
	if len(f.Totals) > 0 {
		rep.Total = f.Totals[0].Total
		rep.TotalVotes = f.Totals[0].Votes
	}
	for _, s := range f.ByStatus {
		rep.ByStatus[domain.ComplaintStatus(s.Status)] = s.Count
	}
	for _, c := range f.ByCategory {
		rep.ByCategory = append(rep.ByCategory, domain.CategoryCount{CategoryID: hexOf(c.Category), Title: c.Title, Count: c.Count})
	}
	for _, d := range f.ByDistrict {
		rep.ByDistrict = append(rep.ByDistrict, domain.DistrictCount{District: d.District, Count: d.Count})
	}
	return rep, nil
}
