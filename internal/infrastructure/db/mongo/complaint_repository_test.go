package mongo

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tell-platform/complaint-system/internal/core/domain"
	"github.com/tell-platform/complaint-system/internal/core/ports"
)

var ist = time.FixedZone("IST", 5*60*60+30*60)

func TestTransitionFilter(t *testing.T) {
	complaint := primitive.NewObjectID()
	authority := primitive.NewObjectID()

	filter, err := transitionFilter(ports.StatusTransition{
		ComplaintID: complaint.Hex(),
		Authority:   domain.Some(authority.Hex()),
		From:        []domain.ComplaintStatus{domain.StatusOpen, domain.StatusAccepted},
		To:          domain.StatusProcessing,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if filter["_id"] != complaint || filter["authority"] != authority {
		t.Errorf("unexpected filter ids: %v", filter)
	}
	in := filter["status"].(bson.M)["$in"].([]string)
	if !reflect.DeepEqual(in, []string{"open", "accepted"}) {
		t.Errorf("expected source statuses guard, got %v", in)
	}

	unscoped, err := transitionFilter(ports.StatusTransition{
		ComplaintID: complaint.Hex(),
		From:        []domain.ComplaintStatus{domain.StatusProcessing},
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if _, present := unscoped["authority"]; present {
		t.Errorf("admin transitions must not be scoped to an authority: %v", unscoped)
	}

	for name, tr := range map[string]ports.StatusTransition{
		"no source status":    {ComplaintID: complaint.Hex()},
		"malformed complaint": {ComplaintID: "xyz", From: []domain.ComplaintStatus{domain.StatusOpen}},
		"malformed authority": {ComplaintID: complaint.Hex(), Authority: domain.Some("xyz"), From: []domain.ComplaintStatus{domain.StatusOpen}},
	} {
		if _, err := transitionFilter(tr); !errors.Is(err, domain.ErrComplaintNotFound) {
			t.Errorf("%s: expected ErrComplaintNotFound, got %v", name, err)
		}
	}
}

func TestTransitionUpdate(t *testing.T) {
	at := time.Date(2026, 3, 1, 15, 30, 0, 0, ist)

	update := transitionUpdate(ports.StatusTransition{
		To: domain.StatusRejected, Reason: "duplicate", Actor: "p1", At: at,
	})
	set := update["$set"].(bson.M)
	if set["status"] != "rejected" || set["reason"] != "duplicate" {
		t.Errorf("unexpected $set: %v", set)
	}
	if got := set["updatedAt"].(time.Time); !got.Equal(at) || got.Location() != time.UTC {
		t.Errorf("expected updatedAt %v in UTC, got %v", at, got)
	}
	pushed := update["$push"].(bson.M)["statusHistory"].(statusChangeDoc)
	want := statusChangeDoc{Status: "rejected", Actor: "p1", Reason: "duplicate", At: at.UTC()}
	if pushed != want {
		t.Errorf("expected history entry %+v, got %+v", want, pushed)
	}

	noReason := transitionUpdate(ports.StatusTransition{To: domain.StatusAccepted, At: at})
	if _, present := noReason["$set"].(bson.M)["reason"]; present {
		t.Errorf("an empty reason must not overwrite the stored one")
	}
}

func TestConfirmFilterAndUpdate(t *testing.T) {
	owner := primitive.NewObjectID()
	complaint := primitive.NewObjectID()
	at := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	filter, err := confirmFilter(owner.Hex(), complaint.Hex())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if filter["_id"] != complaint || filter["owner"] != owner || filter["status"] != "closed" {
		t.Errorf("expected owner-scoped closed filter, got %v", filter)
	}
	if _, err := confirmFilter("xyz", complaint.Hex()); !errors.Is(err, domain.ErrComplaintNotFound) {
		t.Errorf("expected ErrComplaintNotFound for malformed owner, got %v", err)
	}

	update := confirmUpdate(owner.Hex(), at)
	if update["$set"].(bson.M)["status"] != "confirmed" {
		t.Errorf("unexpected $set: %v", update["$set"])
	}
	pushed := update["$push"].(bson.M)["statusHistory"].(statusChangeDoc)
	if pushed.Status != "confirmed" || pushed.Actor != owner.Hex() || !pushed.At.Equal(at) {
		t.Errorf("unexpected history entry: %+v", pushed)
	}
}

func TestToggleVotePipeline(t *testing.T) {
	uid := primitive.NewObjectID()
	at := time.Date(2026, 3, 3, 0, 0, 0, 0, ist)

	pipeline := toggleVotePipeline(uid, at)
	if len(pipeline) != 1 || pipeline[0][0].Key != "$set" {
		t.Fatalf("expected a single $set stage, got %v", pipeline)
	}
	set := pipeline[0][0].Value.(bson.M)
	if got := set["updatedAt"].(time.Time); !got.Equal(at) || got.Location() != time.UTC {
		t.Errorf("expected updatedAt %v in UTC, got %v", at, got)
	}

	votes := bson.M{"$ifNull": bson.A{"$votes", bson.A{}}}
	branches := set["votes"].(bson.M)["$cond"].(bson.A)
	if len(branches) != 3 {
		t.Fatalf("expected if/then/else, got %v", branches)
	}
	if cond := branches[0].(bson.M)["$in"].(bson.A); cond[0] != uid || !reflect.DeepEqual(cond[1], votes) {
		t.Errorf("expected membership test on voter, got %v", cond)
	}
	remove := branches[1].(bson.M)["$filter"].(bson.M)
	if !reflect.DeepEqual(remove["input"], votes) ||
		!reflect.DeepEqual(remove["cond"], bson.M{"$ne": bson.A{"$$this", uid}}) {
		t.Errorf("expected existing vote to be filtered out, got %v", remove)
	}
	add := branches[2].(bson.M)["$concatArrays"].(bson.A)
	if !reflect.DeepEqual(add, bson.A{votes, bson.A{uid}}) {
		t.Errorf("expected voter to be appended, got %v", add)
	}
}

func TestCommentUpdate(t *testing.T) {
	commentor := primitive.NewObjectID()
	at := time.Date(2026, 3, 4, 12, 0, 0, 0, ist)

	update, err := commentUpdate(domain.Comment{Commentor: commentor.Hex(), Content: "Still broken", CreatedAt: at})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	pushed := update["$push"].(bson.M)["comments"].(commentDoc)
	want := commentDoc{Commentor: commentor, Content: "Still broken", CreatedAt: at.UTC()}
	if pushed != want {
		t.Errorf("expected %+v, got %+v", want, pushed)
	}
	if got := update["$set"].(bson.M)["updatedAt"].(time.Time); !got.Equal(at) {
		t.Errorf("expected updatedAt %v, got %v", at, got)
	}

	if _, err := commentUpdate(domain.Comment{Commentor: "xyz"}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
