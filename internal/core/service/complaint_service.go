package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tell-platform/complaint-system/internal/core/domain"
	"github.com/tell-platform/complaint-system/internal/core/ports"
)

const maxCommentLen = 2000

// ComplaintService implements ports.ComplaintService.
type ComplaintService struct {
	complaints  ports.ComplaintRepository
	users       ports.UserRepository
	authorities ports.AuthorityRepository
	notifier    ports.Notifier
	events      ports.EventEmitter
	media       ports.MediaRemover
	cache       ports.Cache
	baseURL     string
	log         zerolog.Logger
	now         func() time.Time
}

func NewComplaintService(
	complaints ports.ComplaintRepository,
	users ports.UserRepository,
	authorities ports.AuthorityRepository,
	notifier ports.Notifier,
	events ports.EventEmitter,
	media ports.MediaRemover,
	cache ports.Cache,
	publicBaseURL string,
	log zerolog.Logger,
) *ComplaintService {
	return &ComplaintService{
		complaints:  complaints,
		users:       users,
		authorities: authorities,
		notifier:    notifier,
		events:      events,
		media:       media,
		cache:       cache,
		baseURL:     strings.TrimRight(publicBaseURL, "/"),
		log:         log,
		now:         time.Now,
	}
}

// Create opens a new complaint. Without an explicit authority the complaint is
// routed to the authority serving its district, if any.
func (s *ComplaintService) Create(ctx context.Context, in ports.CreateComplaintInput) (*domain.Complaint, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if in.OwnerID == "" || title == "" || content == "" || in.Category == "" {
		return nil, domain.Invalid("title, content and category are required")
	}

	authorityID, err := s.route(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create complaint: %w", err)
	}

	now := s.now().UTC()
	c, err := s.complaints.Create(ctx, &domain.Complaint{
		Owner:     in.OwnerID,
		Authority: authorityID,
		Category:  in.Category,
		Title:     title,
		Content:   content,
		Location:  in.Location,
		Landmark:  strings.TrimSpace(in.Landmark),
		Status:    domain.StatusOpen,
		Votes:     []string{},
		Comments:  []domain.Comment{},
		Media:     in.Media,
		StatusHistory: []domain.StatusChange{
			{Status: domain.StatusOpen, Actor: in.OwnerID, At: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("create complaint: %w", err)
	}

	if err := s.users.AddComplaint(ctx, in.OwnerID, c.ID); err != nil {
		s.log.Warn().Err(err).Str("complaint_id", c.ID).Str("user_id", in.OwnerID).Msg("failed to link complaint to owner")
	}

	s.afterWrite(ctx, domain.EventCreated, c, in.OwnerID)
	s.log.Info().Str("complaint_id", c.ID).Str("authority", c.Authority).Msg("complaint created")
	return c, nil
}

func (s *ComplaintService) route(ctx context.Context, in ports.CreateComplaintInput) (string, error) {
	if in.Authority != "" {
		a, err := s.authorities.FindByID(ctx, in.Authority)
		if err != nil {
			return "", err
		}
		return a.ID, nil
	}
	district := strings.TrimSpace(in.Location.District)
	if district == "" {
		return "", nil
	}
	a, err := s.authorities.FindByDistrict(ctx, district)
	if errors.Is(err, domain.ErrAuthorityNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return a.ID, nil
}

// UpdateStatus applies an authority-driven transition as one conditional write.
// Closing a complaint notifies its owner; a failed notification is reported in
// the result and the transition stands.
func (s *ComplaintService) UpdateStatus(ctx context.Context, in ports.UpdateStatusInput) (*ports.StatusUpdateResult, error) {
	if in.ComplaintID == "" {
		return nil, domain.Invalid("complaintId is required")
	}
	if !in.Status.SetByAuthority() {
		return nil, fmt.Errorf("%w: status %q cannot be set here", domain.ErrInvalidTransition, in.Status)
	}

	reason := strings.TrimSpace(in.Reason)
	if in.Status == domain.StatusRejected && reason == "" {
		reason = domain.DefaultRejectionReason
	}

	scope := domain.None[string]()
	if in.Actor.Role != domain.RoleAdmin {
		scope = domain.Some(in.Actor.ID)
	}

	c, err := s.complaints.TransitionStatus(ctx, ports.StatusTransition{
		ComplaintID: in.ComplaintID,
		Authority:   scope,
		From:        domain.SourcesOf(in.Status),
		To:          in.Status,
		Reason:      reason,
		Actor:       in.Actor.ID,
		At:          s.now().UTC(),
	})
	if errors.Is(err, domain.ErrComplaintNotFound) {
		return nil, s.explainMiss(ctx, in.ComplaintID, scope, in.Status)
	}
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	res := &ports.StatusUpdateResult{Complaint: c}
	if c.Status == domain.StatusClosed {
		res.NotifyErr = s.notifyClosed(ctx, c)
	}

	s.afterWrite(ctx, domain.EventStatusChanged, c, in.Actor.ID)
	return res, nil
}

// explainMiss tells apart a complaint outside the caller's scope from one in
// the wrong state after a conditional update matched nothing.
func (s *ComplaintService) explainMiss(ctx context.Context, id string, scope domain.Optional[string], target domain.ComplaintStatus) error {
	current, err := s.complaints.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if authority, ok := scope.Get(); ok && current.Authority != authority {
		return domain.ErrComplaintNotFound
	}
	return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, current.Status, target)
}

func (s *ComplaintService) notifyClosed(ctx context.Context, c *domain.Complaint) error {
	owner, err := s.users.FindByID(ctx, c.Owner)
	if err != nil {
		s.log.Warn().Err(err).Str("complaint_id", c.ID).Msg("cannot notify owner of closed complaint")
		return fmt.Errorf("load owner: %w", err)
	}

	err = s.notifier.SendComplaintClosed(ctx, ports.ComplaintClosedMail{
		Email:       owner.Email,
		FirstName:   owner.FirstName,
		ComplaintID: c.ID,
		Title:       c.Title,
		Link:        fmt.Sprintf("%s/complaints/confirm/%s/%s", s.baseURL, c.Owner, c.ID),
	})
	if err != nil {
		s.log.Warn().Err(err).Str("complaint_id", c.ID).Msg("closed-complaint mail not sent")
	}
	return err
}

// ConfirmProgressDone lets the owner acknowledge a closed complaint. The write
// filters on owner, so other callers match nothing. Confirming twice is a no-op.
func (s *ComplaintService) ConfirmProgressDone(ctx context.Context, userID, complaintID string) (*domain.Complaint, error) {
	c, err := s.complaints.ConfirmClosed(ctx, userID, complaintID, s.now().UTC())
	if err == nil {
		s.afterWrite(ctx, domain.EventConfirmed, c, userID)
		return c, nil
	}
	if !errors.Is(err, domain.ErrComplaintNotFound) {
		return nil, fmt.Errorf("confirm complaint: %w", err)
	}

	current, err := s.complaints.FindOwned(ctx, userID, complaintID)
	if err != nil {
		return nil, err
	}
	if current.Status == domain.StatusConfirmed {
		return current, nil
	}
	return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, current.Status, domain.StatusConfirmed)
}

// Upvote toggles the caller's vote.
func (s *ComplaintService) Upvote(ctx context.Context, userID, complaintID string) (*domain.Complaint, error) {
	if userID == "" || complaintID == "" {
		return nil, domain.Invalid("userId and complaintId are required")
	}
	c, err := s.complaints.ToggleVote(ctx, complaintID, userID, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("upvote: %w", err)
	}

	evt := domain.EventVoted
	if !c.HasVoted(userID) {
		evt = domain.EventUnvoted
	}
	s.afterWrite(ctx, evt, c, userID)
	return c, nil
}

func (s *ComplaintService) Comment(ctx context.Context, userID, complaintID, content string) (*domain.Complaint, error) {
	content = strings.TrimSpace(content)
	if userID == "" || complaintID == "" || content == "" {
		return nil, domain.Invalid("userId, complaintId and content are required")
	}
	if utf8.RuneCountInString(content) > maxCommentLen {
		return nil, domain.Invalid("content must be at most %d characters", maxCommentLen)
	}

	c, err := s.complaints.AppendComment(ctx, complaintID, domain.Comment{
		Commentor: userID,
		Content:   content,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("comment: %w", err)
	}
	s.afterWrite(ctx, domain.EventCommented, c, userID)
	return c, nil
}

func (s *ComplaintService) Delete(ctx context.Context, actorID, complaintID string) (*domain.Complaint, error) {
	c, err := s.complaints.Delete(ctx, complaintID)
	if err != nil {
		return nil, fmt.Errorf("delete complaint: %w", err)
	}
	if err := s.users.RemoveComplaint(ctx, c.Owner, c.ID); err != nil {
		s.log.Warn().Err(err).Str("complaint_id", c.ID).Msg("failed to unlink complaint from owner")
	}
	if c.Media != "" && s.media != nil {
		if err := s.media.Remove(ctx, c.Media); err != nil {
			s.log.Warn().Err(err).Str("complaint_id", c.ID).Msg("failed to delete complaint media")
		}
	}
	s.afterWrite(ctx, domain.EventDeleted, c, actorID)
	s.log.Info().Str("complaint_id", c.ID).Str("actor", actorID).Msg("complaint deleted")
	return c, nil
}

func (s *ComplaintService) GetByID(ctx context.Context, id string) (*domain.ComplaintView, error) {
	return s.complaints.FindView(ctx, id)
}

func (s *ComplaintService) GetByOwner(ctx context.Context, userID string) ([]domain.ComplaintView, error) {
	return s.complaints.List(ctx, domain.ComplaintFilter{Owner: domain.Some(userID), SortBy: domain.SortByCreated})
}

func (s *ComplaintService) GetByCategory(ctx context.Context, categoryID string) ([]domain.ComplaintView, error) {
	return s.complaints.List(ctx, domain.ComplaintFilter{Category: domain.Some(categoryID), SortBy: domain.SortByCreated})
}

func (s *ComplaintService) GetByCity(ctx context.Context, userID string) ([]domain.ComplaintView, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	city := strings.TrimSpace(user.Address.City)
	if city == "" {
		return nil, domain.Invalid("profile has no city")
	}
	return s.complaints.List(ctx, domain.ComplaintFilter{City: domain.Some(city), SortBy: domain.SortByCreated})
}

func (s *ComplaintService) GetByDistrict(ctx context.Context, authorityID string) ([]domain.ComplaintView, error) {
	a, err := s.authorities.FindByID(ctx, authorityID)
	if err != nil {
		return nil, err
	}
	district := strings.TrimSpace(a.District)
	if district == "" {
		return nil, domain.Invalid("profile has no district")
	}
	return s.complaints.List(ctx, domain.ComplaintFilter{District: domain.Some(district), SortBy: domain.SortByCreated})
}

func (s *ComplaintService) GetForAuthority(ctx context.Context, authorityID string, status domain.Optional[domain.ComplaintStatus]) ([]domain.ComplaintView, error) {
	return s.complaints.List(ctx, domain.ComplaintFilter{
		Authority: domain.Some(authorityID),
		Status:    status,
		SortBy:    domain.SortByUpdated,
	})
}

func (s *ComplaintService) GetAllForAdmin(ctx context.Context) ([]domain.ComplaintView, error) {
	return s.complaints.List(ctx, domain.ComplaintFilter{SortBy: domain.SortByUpdated})
}

func (s *ComplaintService) GetByFilter(ctx context.Context, filter domain.ComplaintFilter) ([]domain.ComplaintView, error) {
	filter.SortBy = domain.SortByUpdated
	return s.complaints.List(ctx, filter)
}

func (s *ComplaintService) afterWrite(ctx context.Context, t domain.ComplaintEventType, c *domain.Complaint, actorID string) {
	invalidate(ctx, s.cache, s.log, reportCacheKey)
	if s.events == nil {
		return
	}
	s.events.Emit(domain.ComplaintEvent{
		ID:          uuid.NewString(),
		ComplaintID: c.ID,
		Type:        t,
		Status:      c.Status,
		ActorID:     actorID,
		OccurredAt:  s.now().UTC(),
	})
}
