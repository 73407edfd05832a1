package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tell-platform/complaint-system/internal/api/metrics"
	"github.com/tell-platform/complaint-system/internal/api/response"
	"github.com/tell-platform/complaint-system/internal/core/domain"
	"github.com/tell-platform/complaint-system/internal/core/ports"
)

// ComplaintHandler handles HTTP requests for the complaint lifecycle.
type ComplaintHandler struct {
	service ports.ComplaintService
}

func NewComplaintHandler(service ports.ComplaintService) *ComplaintHandler {
	return &ComplaintHandler{service: service}
}

// Create handles POST /complaints/new.
//
// @Summary      Open a complaint
// @Tags         complaints
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createComplaintRequest  true  "Complaint"
// @Success      201   {object}  response.Envelope{result=domain.Complaint}
// @Failure      400   {object}  response.Envelope
// @Failure      404   {object}  response.Envelope
// @Router       /complaints/new [post]
func (h *ComplaintHandler) Create(c echo.Context) error {
	var req createComplaintRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	complaint, err := h.service.Create(c.Request().Context(), ports.CreateComplaintInput{
		OwnerID:   req.UserID,
		Title:     req.Title,
		Content:   req.Content,
		Category:  req.Category,
		Authority: req.Authority,
		Location:  req.Location.toDomain(),
		Landmark:  req.Landmark,
		Media:     req.Media,
	})
	if err != nil {
		return err
	}

	routing := "assigned"
	if complaint.Authority == "" {
		routing = "unassigned"
	}
	metrics.ComplaintsCreatedTotal.WithLabelValues(routing).Inc()
	return response.OK(c, http.StatusCreated, complaint, "Create new complaint success")
}

// UpdateStatus handles PATCH /complaints/update/status.
//
// @Summary      Move a complaint through its lifecycle
// @Description  Authorities act on complaints assigned to them; admins on any.
// @Tags         complaints
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateStatusRequest  true  "Target status"
// @Success      200   {object}  response.Envelope{result=domain.Complaint}
// @Failure      404   {object}  response.Envelope
// @Failure      422   {object}  response.Envelope
// @Router       /complaints/update/status [patch]
func (h *ComplaintHandler) UpdateStatus(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var req updateStatusRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	status, err := domain.ParseComplaintStatus(req.Status)
	if err != nil {
		return err
	}

	res, err := h.service.UpdateStatus(c.Request().Context(), ports.UpdateStatusInput{
		Actor:       id,
		ComplaintID: req.ComplaintID,
		Status:      status,
		Reason:      req.Reason,
	})
	if err != nil {
		return err
	}

	metrics.StatusTransitionsTotal.WithLabelValues(string(status)).Inc()
	return response.OKWithNotice(c, http.StatusOK, res.Complaint, "Update complaint status success", res.NotifyErr)
}

// Upvote handles PATCH /complaints/update/upvote. Voting twice withdraws the vote.
//
// @Summary      Toggle a vote
// @Tags         complaints
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      upvoteRequest  true  "Complaint"
// @Success      200   {object}  response.Envelope{result=domain.Complaint}
// @Failure      404   {object}  response.Envelope
// @Router       /complaints/update/upvote [patch]
func (h *ComplaintHandler) Upvote(c echo.Context) error {
	var req upvoteRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	complaint, err := h.service.Upvote(c.Request().Context(), req.UserID, req.ComplaintID)
	if err != nil {
		return err
	}

	action := "unvoted"
	if complaint.HasVoted(req.UserID) {
		action = "voted"
	}
	metrics.VotesTotal.WithLabelValues(action).Inc()
	return response.OK(c, http.StatusOK, complaint, "Upvote complaint success")
}

// Comment handles PATCH /complaints/update/comment.
//
// @Summary      Comment on a complaint
// @Tags         complaints
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      commentRequest  true  "Comment"
// @Success      200   {object}  response.Envelope{result=domain.Complaint}
// @Failure      400   {object}  response.Envelope
// @Failure      404   {object}  response.Envelope
// @Router       /complaints/update/comment [patch]
func (h *ComplaintHandler) Comment(c echo.Context) error {
	var req commentRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	complaint, err := h.service.Comment(c.Request().Context(), req.UserID, req.ComplaintID, req.Content)
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, complaint, "Comment on complaint success")
}

// Confirm handles GET /complaints/confirm/:userId/:complaintId.
//
// @Summary      Confirm a closed complaint as resolved
// @Description  Only the owner of a closed complaint can confirm it. Repeating the call is a no-op.
// @Tags         complaints
// @Produce      json
// @Security     BearerAuth
// @Param        userId       path      string  true  "Owner id"
// @Param        complaintId  path      string  true  "Complaint id"
// @Success      200          {object}  response.Envelope{result=domain.Complaint}
// @Failure      404          {object}  response.Envelope
// @Failure      422          {object}  response.Envelope
// @Router       /complaints/confirm/{userId}/{complaintId} [get]
func (h *ComplaintHandler) Confirm(c echo.Context) error {
	complaint, err := h.service.ConfirmProgressDone(c.Request().Context(), c.Param("userId"), c.Param("complaintId"))
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, complaint, "Confirm progress as done success")
}

// Delete handles DELETE /complaints/rm/:userId/:complaintId. Admin only.
//
// @Summary      Delete a complaint
// @Tags         complaints
// @Produce      json
// @Security     BearerAuth
// @Param        userId       path      string  true  "Admin id"
// @Param        complaintId  path      string  true  "Complaint id"
// @Success      200          {object}  response.Envelope{result=domain.Complaint}
// @Failure      404          {object}  response.Envelope
// @Router       /complaints/rm/{userId}/{complaintId} [delete]
func (h *ComplaintHandler) Delete(c echo.Context) error {
	complaint, err := h.service.Delete(c.Request().Context(), c.Param("userId"), c.Param("complaintId"))
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, complaint, "Delete complaint success")
}

// GetOne handles GET /complaints/get/one/:complaintId.
//
// @Summary      Read a complaint
// @Tags         complaints
// @Produce      json
// @Security     BearerAuth
// @Param        complaintId  path      string  true  "Complaint id"
// @Success      200          {object}  response.Envelope{result=domain.ComplaintView}
// @Failure      404          {object}  response.Envelope
// @Router       /complaints/get/one/{complaintId} [get]
func (h *ComplaintHandler) GetOne(c echo.Context) error {
	view, err := h.service.GetByID(c.Request().Context(), c.Param("complaintId"))
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, view, "Get complaint by id success")
}

// GetMine handles GET /complaints/get/my/:userId.
//
// @Summary      List own complaints
// @Tags         complaints
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "Caller id"
// @Success      200     {object}  response.Envelope{result=listResponse}
// @Router       /complaints/get/my/{userId} [get]
func (h *ComplaintHandler) GetMine(c echo.Context) error {
	views, err := h.service.GetByOwner(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, newListResponse(views), "Get complaints by owner success")
}

// GetByCategory handles GET /complaints/get/category/:userId/:categoryId.
//
// @Summary      List complaints in a category
// @Tags         complaints
// @Produce      json
// @Security     BearerAuth
// @Param        userId      path      string  true  "Caller id"
// @Param        categoryId  path      string  true  "Category id"
// @Success      200         {object}  response.Envelope{result=listResponse}
// @Router       /complaints/get/category/{userId}/{categoryId} [get]
func (h *ComplaintHandler) GetByCategory(c echo.Context) error {
	views, err := h.service.GetByCategory(c.Request().Context(), c.Param("categoryId"))
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, newListResponse(views), "Get complaints by category success")
}

// GetByCity handles GET /complaints/get/city/:userId. The city comes from the caller's profile.
//
// @Summary      List complaints in the caller's city
// @Tags         complaints
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "Caller id"
// @Success      200     {object}  response.Envelope{result=listResponse}
// @Router       /complaints/get/city/{userId} [get]
func (h *ComplaintHandler) GetByCity(c echo.Context) error {
	views, err := h.service.GetByCity(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, newListResponse(views), "Get complaints by city success")
}

// GetByDistrict handles GET /complaints/get/district/:userId. Authority only.
//
// @Summary      List complaints in the authority's district
// @Tags         complaints
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "Authority id"
// @Success      200     {object}  response.Envelope{result=listResponse}
// @Router       /complaints/get/district/{userId} [get]
func (h *ComplaintHandler) GetByDistrict(c echo.Context) error {
	views, err := h.service.GetByDistrict(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, newListResponse(views), "Get complaints by district success")
}

// GetForAuthority handles GET /complaints/get/authority/:userId. Authority only.
//
// @Summary      List complaints assigned to the caller
// @Tags         complaints
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true   "Authority id"
// @Param        status  query     string  false  "Status filter"
// @Success      200     {object}  response.Envelope{result=listResponse}
// @Failure      400     {object}  response.Envelope
// @Router       /complaints/get/authority/{userId} [get]
func (h *ComplaintHandler) GetForAuthority(c echo.Context) error {
	status, err := parseStatusQuery(c.QueryParam("status"))
	if err != nil {
		return err
	}
	views, err := h.service.GetForAuthority(c.Request().Context(), c.Param("userId"), status)
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, newListResponse(views), "Get complaints by status success")
}

// GetAllForAdmin handles GET /complaints/get/admin/:userId. Admin only.
//
// @Summary      List every complaint
// @Tags         complaints
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "Admin id"
// @Success      200     {object}  response.Envelope{result=listResponse}
// @Router       /complaints/get/admin/{userId} [get]
func (h *ComplaintHandler) GetAllForAdmin(c echo.Context) error {
	views, err := h.service.GetAllForAdmin(c.Request().Context())
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, newListResponse(views), "Get complaints for admin success")
}

// GetByFilter handles GET /complaints/get/filter/:userId. Admin only.
//
// @Summary      Filter complaints
// @Description  Absent parameters, or the value "all", are not applied. Present ones are ANDed.
// @Tags         complaints
// @Produce      json
// @Security     BearerAuth
// @Param        userId     path      string  true   "Admin id"
// @Param        status     query     string  false  "Status"
// @Param        category   query     string  false  "Category id"
// @Param        authority  query     string  false  "Authority id"
// @Param        since      query     string  false  "Created on or after (YYYY-MM-DD or RFC 3339)"
// @Success      200        {object}  response.Envelope{result=listResponse}
// @Failure      400        {object}  response.Envelope
// @Router       /complaints/get/filter/{userId} [get]
func (h *ComplaintHandler) GetByFilter(c echo.Context) error {
	status, err := parseStatusQuery(c.QueryParam("status"))
	if err != nil {
		return err
	}
	since, err := parseSinceQuery(c.QueryParam("since"))
	if err != nil {
		return err
	}

	views, err := h.service.GetByFilter(c.Request().Context(), domain.ComplaintFilter{
		Status:    status,
		Category:  parseIDQuery(c.QueryParam("category")),
		Authority: parseIDQuery(c.QueryParam("authority")),
		Since:     since,
	})
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, newListResponse(views), "Get complaints by filter success")
}
