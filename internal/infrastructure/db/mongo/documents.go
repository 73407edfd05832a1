package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tell-platform/complaint-system/internal/core/domain"
)

type addressDoc struct {
	Line     string `bson:"line,omitempty"`
	City     string `bson:"city,omitempty"`
	Postal   string `bson:"postal,omitempty"`
	District string `bson:"district,omitempty"`
}

func toAddressDoc(a domain.Address) addressDoc {
	return addressDoc{Line: a.Line, City: a.City, Postal: a.Postal, District: a.District}
}

func (a addressDoc) domain() domain.Address {
	return domain.Address{Line: a.Line, City: a.City, Postal: a.Postal, District: a.District}
}

type credentialDoc struct {
	Digest string `bson:"digest"`
	Salt   string `bson:"salt"`
}

// ---------------------------------------------------------------------------
// users
// ---------------------------------------------------------------------------

type userDoc struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty"`
	FirstName  string               `bson:"firstName"`
	LastName   string               `bson:"lastName,omitempty"`
	Email      string               `bson:"email"`
	Contact    string               `bson:"contact,omitempty"`
	Gender     string               `bson:"gender,omitempty"`
	Birthdate  *time.Time           `bson:"birthdate,omitempty"`
	ProfImg    string               `bson:"profImg,omitempty"`
	Occupation string               `bson:"occupation,omitempty"`
	Address    addressDoc           `bson:"address"`
	Credential *credentialDoc       `bson:"credential,omitempty"`
	Role       int                  `bson:"role"`
	Complaints []primitive.ObjectID `bson:"complaints"`
	CreatedAt  time.Time            `bson:"createdAt"`
	UpdatedAt  time.Time            `bson:"updatedAt"`
}

func toUserDoc(u *domain.User) userDoc {
	d := userDoc{
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		Contact:    u.Contact,
		Gender:     u.Gender,
		Birthdate:  u.Birthdate,
		ProfImg:    u.ProfImg,
		Occupation: u.Occupation,
		Address:    toAddressDoc(u.Address),
		Credential: &credentialDoc{Digest: u.Credential.Digest, Salt: u.Credential.Salt},
		Role:       int(u.Role),
		Complaints: []primitive.ObjectID{},
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
	for _, id := range u.Complaints {
		if oid := optionalID(id); oid != nil {
			d.Complaints = append(d.Complaints, *oid)
		}
	}
	return d
}

func (d userDoc) domain() *domain.User {
	u := &domain.User{
		ID:         d.ID.Hex(),
		FirstName:  d.FirstName,
		LastName:   d.LastName,
		Email:      d.Email,
		Contact:    d.Contact,
		Gender:     d.Gender,
		Birthdate:  d.Birthdate,
		ProfImg:    d.ProfImg,
		Occupation: d.Occupation,
		Address:    d.Address.domain(),
		Role:       domain.Role(d.Role),
		Complaints: hexAll(d.Complaints),
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
	if d.Credential != nil {
		u.Credential = domain.Credential{Digest: d.Credential.Digest, Salt: d.Credential.Salt}
	}
	return u
}

// ---------------------------------------------------------------------------
// authorities
// ---------------------------------------------------------------------------

type authorityDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	AuthorityName string             `bson:"authorityName"`
	Username      string             `bson:"username"`
	Email         string             `bson:"email"`
	Contact       string             `bson:"contact,omitempty"`
	District      string             `bson:"district,omitempty"`
	Credential    *credentialDoc     `bson:"credential,omitempty"`
	Role          int                `bson:"role"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

func toAuthorityDoc(a *domain.Authority) authorityDoc {
	return authorityDoc{
		AuthorityName: a.AuthorityName,
		Username:      a.Username,
		Email:         a.Email,
		Contact:       a.Contact,
		District:      a.District,
		Credential:    &credentialDoc{Digest: a.Credential.Digest, Salt: a.Credential.Salt},
		Role:          int(a.Role),
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func (d authorityDoc) domain() *domain.Authority {
	a := &domain.Authority{
		ID:            d.ID.Hex(),
		AuthorityName: d.AuthorityName,
		Username:      d.Username,
		Email:         d.Email,
		Contact:       d.Contact,
		District:      d.District,
		Role:          domain.Role(d.Role),
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	if d.Credential != nil {
		a.Credential = domain.Credential{Digest: d.Credential.Digest, Salt: d.Credential.Salt}
	}
	return a
}

// ---------------------------------------------------------------------------
// categories
// ---------------------------------------------------------------------------

type categoryDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d categoryDoc) domain() *domain.Category {
	return &domain.Category{ID: d.ID.Hex(), Title: d.Title, CreatedAt: d.CreatedAt}
}

// ---------------------------------------------------------------------------
// complaints
// ---------------------------------------------------------------------------

type commentDoc struct {
	Commentor primitive.ObjectID `bson:"commentor"`
	Content   string             `bson:"content"`
	CreatedAt time.Time          `bson:"createdAt"`
}

type statusChangeDoc struct {
	Status string    `bson:"status"`
	Actor  string    `bson:"actor,omitempty"`
	Reason string    `bson:"reason,omitempty"`
	At     time.Time `bson:"at"`
}

type complaintDoc struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty"`
	Owner         primitive.ObjectID   `bson:"owner"`
	Authority     *primitive.ObjectID  `bson:"authority,omitempty"`
	Category      *primitive.ObjectID  `bson:"category,omitempty"`
	Title         string               `bson:"title"`
	Content       string               `bson:"content"`
	Location      addressDoc           `bson:"location"`
	Landmark      string               `bson:"landmark,omitempty"`
	Status        string               `bson:"status"`
	Reason        string               `bson:"reason,omitempty"`
	Votes         []primitive.ObjectID `bson:"votes"`
	Comments      []commentDoc         `bson:"comments"`
	Media         string               `bson:"media,omitempty"`
	StatusHistory []statusChangeDoc    `bson:"statusHistory"`
	CreatedAt     time.Time            `bson:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt"`
}

func toComplaintDoc(c *domain.Complaint) (complaintDoc, error) {
	owner, err := objectID(c.Owner, domain.ErrUserNotFound)
	if err != nil {
		return complaintDoc{}, err
	}
	d := complaintDoc{
		Owner:         owner,
		Authority:     optionalID(c.Authority),
		Category:      optionalID(c.Category),
		Title:         c.Title,
		Content:       c.Content,
		Location:      toAddressDoc(c.Location),
		Landmark:      c.Landmark,
		Status:        string(c.Status),
		Reason:        c.Reason,
		Votes:         []primitive.ObjectID{},
		Comments:      []commentDoc{},
		Media:         c.Media,
		StatusHistory: make([]statusChangeDoc, 0, len(c.StatusHistory)),
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
	if c.Category != "" && d.Category == nil {
		return complaintDoc{}, domain.ErrCategoryNotFound
	}
	for _, h := range c.StatusHistory {
		d.StatusHistory = append(d.StatusHistory, toStatusChangeDoc(h))
	}
	return d, nil
}

func toStatusChangeDoc(h domain.StatusChange) statusChangeDoc {
	return statusChangeDoc{Status: string(h.Status), Actor: h.Actor, Reason: h.Reason, At: h.At}
}

func (d complaintDoc) domain() *domain.Complaint {
	c := &domain.Complaint{
		ID:            d.ID.Hex(),
		Owner:         d.Owner.Hex(),
		Authority:     hexOf(d.Authority),
		Category:      hexOf(d.Category),
		Title:         d.Title,
		Content:       d.Content,
		Location:      d.Location.domain(),
		Landmark:      d.Landmark,
		Status:        domain.ComplaintStatus(d.Status),
		Reason:        d.Reason,
		Votes:         hexAll(d.Votes),
		Comments:      make([]domain.Comment, 0, len(d.Comments)),
		Media:         d.Media,
		StatusHistory: make([]domain.StatusChange, 0, len(d.StatusHistory)),
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	for _, cm := range d.Comments {
		c.Comments = append(c.Comments, domain.Comment{Commentor: cm.Commentor.Hex(), Content: cm.Content, CreatedAt: cm.CreatedAt})
	}
	for _, h := range d.StatusHistory {
		c.StatusHistory = append(c.StatusHistory, domain.StatusChange{
			Status: domain.ComplaintStatus(h.Status), Actor: h.Actor, Reason: h.Reason, At: h.At,
		})
	}
	return c
}

// ---------------------------------------------------------------------------
// complaint_events
// ---------------------------------------------------------------------------

type eventDoc struct {
	EventID     string    `bson:"eventId"`
	ComplaintID string    `bson:"complaintId"`
	Type        string    `bson:"type"`
	Status      string    `bson:"status,omitempty"`
	ActorID     string    `bson:"actorId,omitempty"`
	OccurredAt  time.Time `bson:"occurredAt"`
	ProcessedAt time.Time `bson:"processedAt"`
}
