// Package http provides the inbound HTTP surface. Handlers bind request
// bodies, build commands and queries, and translate domain errors to HTTP
// status codes; all business behavior lives in the use case handlers.
package http

import (
	"errors"
	"net/http"
	"time"

	"shipping/internal/core/application/usecases/commands"
	"shipping/internal/core/application/usecases/queries"
	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/parcel"
	"shipping/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	scanParcelHandler    commands.ScanParcelCommandHandler
	startSessionHandler  commands.StartSessionCommandHandler
	recordOutcomeHandler commands.RecordOutcomeCommandHandler
	postponeHandler      commands.PostponeAssignmentCommandHandler
	transferHandler      commands.TransferParcelCommandHandler
	acceptHandler        commands.AcceptTransferCommandHandler
	failSessionHandler   commands.FailSessionCommandHandler
	autoAssignHandler    commands.AutoAssignCommandHandler

	getSessionHandler       queries.GetSessionQueryHandler
	getActiveSessionHandler queries.GetActiveSessionQueryHandler
}

// NewServer creates the HTTP server with the required command and query
// handlers.
func NewServer(
	scanParcelHandler commands.ScanParcelCommandHandler,
	startSessionHandler commands.StartSessionCommandHandler,
	recordOutcomeHandler commands.RecordOutcomeCommandHandler,
	postponeHandler commands.PostponeAssignmentCommandHandler,
	transferHandler commands.TransferParcelCommandHandler,
	acceptHandler commands.AcceptTransferCommandHandler,
	failSessionHandler commands.FailSessionCommandHandler,
	autoAssignHandler commands.AutoAssignCommandHandler,
	getSessionHandler queries.GetSessionQueryHandler,
	getActiveSessionHandler queries.GetActiveSessionQueryHandler,
) *Server {
	return &Server{
		scanParcelHandler:       scanParcelHandler,
		startSessionHandler:     startSessionHandler,
		recordOutcomeHandler:    recordOutcomeHandler,
		postponeHandler:         postponeHandler,
		transferHandler:         transferHandler,
		acceptHandler:           acceptHandler,
		failSessionHandler:      failSessionHandler,
		autoAssignHandler:       autoAssignHandler,
		getSessionHandler:       getSessionHandler,
		getActiveSessionHandler: getActiveSessionHandler,
	}
}

// RegisterRoutes mounts all endpoints on the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/parcels/scan", s.ScanParcel)
	api.POST("/parcels/:parcelId/transfer", s.TransferParcel)

	api.POST("/sessions/:sessionId/start", s.StartSession)
	api.POST("/sessions/:sessionId/fail", s.FailSession)
	api.POST("/sessions/:sessionId/transfers/accept", s.AcceptTransfer)
	api.GET("/sessions/:sessionId", s.GetSession)

	api.POST("/assignments/:assignmentId/outcome", s.RecordOutcome)
	api.POST("/assignments/:assignmentId/postpone", s.PostponeAssignment)
	api.POST("/assignments/auto", s.AutoAssign)

	api.GET("/shippers/:shipperId/session", s.GetActiveSession)

	e.GET("/health", s.Health)
}

// ErrorResponse is the JSON error body of every failed request.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type geoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type scanParcelRequest struct {
	ShipperID         string    `json:"shipper_id"`
	ParcelID          string    `json:"parcel_id"`
	DeliveryAddressID string    `json:"delivery_address_id"`
	Destination       *geoPoint `json:"destination,omitempty"`
}

// ScanParcel handles POST /api/v1/parcels/scan. Scanning attaches the parcel
// to the shipper's active session, opening one if needed.
func (s *Server) ScanParcel(ctx echo.Context) error {
	var req scanParcelRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	shipperID, err := kernel.UUIDFromString(req.ShipperID)
	if err != nil {
		return badRequest(ctx, "invalid shipper_id")
	}
	parcelID, err := kernel.UUIDFromString(req.ParcelID)
	if err != nil {
		return badRequest(ctx, "invalid parcel_id")
	}

	destination, err := optionalLocation(req.Destination)
	if err != nil {
		return badRequest(ctx, "invalid destination")
	}

	cmd, err := commands.NewScanParcelCommand(shipperID, parcelID, req.DeliveryAddressID, destination)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.scanParcelHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusCreated)
}

type startSessionRequest struct {
	Location geoPoint `json:"location"`
}

// StartSession handles POST /api/v1/sessions/:sessionId/start.
func (s *Server) StartSession(ctx echo.Context) error {
	sessionID, err := kernel.UUIDFromString(ctx.Param("sessionId"))
	if err != nil {
		return badRequest(ctx, "invalid session id")
	}

	var req startSessionRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	location, err := kernel.NewGeoLocation(req.Location.Lat, req.Location.Lon)
	if err != nil {
		return badRequest(ctx, "invalid location")
	}

	cmd, err := commands.NewStartSessionCommand(sessionID, location)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.startSessionHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

type recordOutcomeRequest struct {
	Outcome        string            `json:"outcome"`
	Reason         string            `json:"reason,omitempty"`
	Location       *geoPoint         `json:"location,omitempty"`
	ParcelOutcomes map[string]string `json:"parcel_outcomes,omitempty"`
}

// RecordOutcome handles POST /api/v1/assignments/:assignmentId/outcome.
// For grouped assignments parcel_outcomes overrides the outcome per parcel.
func (s *Server) RecordOutcome(ctx echo.Context) error {
	assignmentID, err := kernel.UUIDFromString(ctx.Param("assignmentId"))
	if err != nil {
		return badRequest(ctx, "invalid assignment id")
	}

	var req recordOutcomeRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	outcome, err := parcel.EventFromString(req.Outcome)
	if err != nil {
		return badRequest(ctx, "invalid outcome")
	}

	location, err := optionalLocation(req.Location)
	if err != nil {
		return badRequest(ctx, "invalid location")
	}

	var cmd commands.RecordOutcomeCommand
	if len(req.ParcelOutcomes) > 0 {
		overrides := make(map[kernel.UUID]parcel.Event, len(req.ParcelOutcomes))
		for rawID, rawEvent := range req.ParcelOutcomes {
			parcelID, idErr := kernel.UUIDFromString(rawID)
			if idErr != nil {
				return badRequest(ctx, "invalid parcel id in parcel_outcomes")
			}
			event, evErr := parcel.EventFromString(rawEvent)
			if evErr != nil {
				return badRequest(ctx, "invalid outcome in parcel_outcomes")
			}
			overrides[parcelID] = event
		}
		cmd, err = commands.NewRecordOutcomeCommandPerParcel(
			assignmentID, outcome, overrides, req.Reason, location)
	} else {
		cmd, err = commands.NewRecordOutcomeCommand(assignmentID, outcome, req.Reason, location)
	}
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.recordOutcomeHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

type postponeRequest struct {
	Reason          string    `json:"reason"`
	RequestedTime   time.Time `json:"requested_time"`
	MoveToEnd       bool      `json:"move_to_end"`
	CurrentLocation *geoPoint `json:"current_location,omitempty"`
}

// PostponeAssignment handles POST /api/v1/assignments/:assignmentId/postpone.
func (s *Server) PostponeAssignment(ctx echo.Context) error {
	assignmentID, err := kernel.UUIDFromString(ctx.Param("assignmentId"))
	if err != nil {
		return badRequest(ctx, "invalid assignment id")
	}

	var req postponeRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	currentLocation, err := optionalLocation(req.CurrentLocation)
	if err != nil {
		return badRequest(ctx, "invalid current_location")
	}

	cmd, err := commands.NewPostponeAssignmentCommand(
		assignmentID, req.Reason, req.RequestedTime, req.MoveToEnd, currentLocation)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.postponeHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

type transferParcelRequest struct {
	SourceSessionID string `json:"source_session_id"`
	TargetSessionID string `json:"target_session_id"`
}

// TransferParcel handles POST /api/v1/parcels/:parcelId/transfer.
func (s *Server) TransferParcel(ctx echo.Context) error {
	parcelID, err := kernel.UUIDFromString(ctx.Param("parcelId"))
	if err != nil {
		return badRequest(ctx, "invalid parcel id")
	}

	var req transferParcelRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	sourceSessionID, err := kernel.UUIDFromString(req.SourceSessionID)
	if err != nil {
		return badRequest(ctx, "invalid source_session_id")
	}
	targetSessionID, err := kernel.UUIDFromString(req.TargetSessionID)
	if err != nil {
		return badRequest(ctx, "invalid target_session_id")
	}

	cmd, err := commands.NewTransferParcelCommand(parcelID, sourceSessionID, targetSessionID)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.transferHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

type acceptTransferRequest struct {
	ParcelID string   `json:"parcel_id"`
	Location geoPoint `json:"location"`
}

// AcceptTransfer handles POST /api/v1/sessions/:sessionId/transfers/accept.
func (s *Server) AcceptTransfer(ctx echo.Context) error {
	sessionID, err := kernel.UUIDFromString(ctx.Param("sessionId"))
	if err != nil {
		return badRequest(ctx, "invalid session id")
	}

	var req acceptTransferRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	parcelID, err := kernel.UUIDFromString(req.ParcelID)
	if err != nil {
		return badRequest(ctx, "invalid parcel_id")
	}

	location, err := kernel.NewGeoLocation(req.Location.Lat, req.Location.Lon)
	if err != nil {
		return badRequest(ctx, "invalid location")
	}

	cmd, err := commands.NewAcceptTransferCommand(sessionID, parcelID, location)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.acceptHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

type failSessionRequest struct {
	Reason string `json:"reason"`
}

// FailSession handles POST /api/v1/sessions/:sessionId/fail.
func (s *Server) FailSession(ctx echo.Context) error {
	sessionID, err := kernel.UUIDFromString(ctx.Param("sessionId"))
	if err != nil {
		return badRequest(ctx, "invalid session id")
	}

	var req failSessionRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	cmd, err := commands.NewFailSessionCommand(sessionID, req.Reason)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.failSessionHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

type autoAssignRequest struct {
	ShipperIDs []string `json:"shipper_ids"`
	Parcels    []struct {
		ParcelID          string   `json:"parcel_id"`
		DeliveryAddressID string   `json:"delivery_address_id"`
		Destination       geoPoint `json:"destination"`
	} `json:"parcels"`
	Vehicle string `json:"vehicle"`
	Mode    string `json:"mode"`
}

type autoAssignResponse struct {
	CreatedAssignmentIDs []string `json:"created_assignment_ids"`
	UnassignedParcelIDs  []string `json:"unassigned_parcel_ids"`
	FailedShipperIDs     []string `json:"failed_shipper_ids"`
	Stats                struct {
		MeanStopsPerShipper float64 `json:"mean_stops_per_shipper"`
		MaxStops            int     `json:"max_stops"`
		MinStops            int     `json:"min_stops"`
	} `json:"stats"`
}

// AutoAssign handles POST /api/v1/assignments/auto. The optimizer proposes
// parcel-to-shipper groupings and each grouping becomes an assignment.
func (s *Server) AutoAssign(ctx echo.Context) error {
	var req autoAssignRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	shipperIDs := make([]kernel.UUID, 0, len(req.ShipperIDs))
	for _, raw := range req.ShipperIDs {
		id, err := kernel.UUIDFromString(raw)
		if err != nil {
			return badRequest(ctx, "invalid shipper id")
		}
		shipperIDs = append(shipperIDs, id)
	}

	parcels := make([]commands.AutoAssignParcel, 0, len(req.Parcels))
	for _, p := range req.Parcels {
		parcelID, err := kernel.UUIDFromString(p.ParcelID)
		if err != nil {
			return badRequest(ctx, "invalid parcel id")
		}
		destination, err := kernel.NewGeoLocation(p.Destination.Lat, p.Destination.Lon)
		if err != nil {
			return badRequest(ctx, "invalid parcel destination")
		}
		parcels = append(parcels, commands.AutoAssignParcel{
			ParcelID:          parcelID,
			DeliveryAddressID: p.DeliveryAddressID,
			Destination:       destination,
		})
	}

	cmd, err := commands.NewAutoAssignCommand(shipperIDs, parcels, req.Vehicle, req.Mode)
	if err != nil {
		return writeError(ctx, err)
	}

	result, err := s.autoAssignHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	var resp autoAssignResponse
	resp.CreatedAssignmentIDs = uuidStrings(result.CreatedAssignmentIDs)
	resp.UnassignedParcelIDs = uuidStrings(result.UnassignedParcelIDs)
	resp.FailedShipperIDs = uuidStrings(result.FailedShipperIDs)
	resp.Stats.MeanStopsPerShipper = result.Stats.MeanStopsPerShipper
	resp.Stats.MaxStops = result.Stats.MaxStops
	resp.Stats.MinStops = result.Stats.MinStops

	return ctx.JSON(http.StatusOK, resp)
}

type sessionAssignmentResponse struct {
	ID                string   `json:"id"`
	Status            string   `json:"status"`
	DeliveryAddressID string   `json:"delivery_address_id"`
	RouteOrder        int      `json:"route_order"`
	FailReason        string   `json:"fail_reason,omitempty"`
	ParcelIDs         []string `json:"parcel_ids"`
}

type sessionResponse struct {
	ID          string                      `json:"id"`
	ShipperID   string                      `json:"shipper_id"`
	Status      string                      `json:"status"`
	CreatedAt   time.Time                   `json:"created_at"`
	StartedAt   *time.Time                  `json:"started_at,omitempty"`
	EndedAt     *time.Time                  `json:"ended_at,omitempty"`
	FailReason  string                      `json:"fail_reason,omitempty"`
	Assignments []sessionAssignmentResponse `json:"assignments"`
}

// GetSession handles GET /api/v1/sessions/:sessionId.
func (s *Server) GetSession(ctx echo.Context) error {
	sessionID, err := kernel.UUIDFromString(ctx.Param("sessionId"))
	if err != nil {
		return badRequest(ctx, "invalid session id")
	}

	query, err := queries.NewGetSessionQuery(sessionID)
	if err != nil {
		return writeError(ctx, err)
	}

	view, err := s.getSessionHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	resp := sessionResponse{
		ID:          view.ID.String(),
		ShipperID:   view.ShipperID.String(),
		Status:      view.Status,
		CreatedAt:   view.CreatedAt,
		StartedAt:   view.StartedAt,
		EndedAt:     view.EndedAt,
		FailReason:  view.FailReason,
		Assignments: make([]sessionAssignmentResponse, 0, len(view.Assignments)),
	}
	for _, a := range view.Assignments {
		resp.Assignments = append(resp.Assignments, sessionAssignmentResponse{
			ID:                a.ID.String(),
			Status:            a.Status,
			DeliveryAddressID: a.DeliveryAddressID,
			RouteOrder:        a.RouteOrder,
			FailReason:        a.FailReason,
			ParcelIDs:         uuidStrings(a.ParcelIDs),
		})
	}

	return ctx.JSON(http.StatusOK, resp)
}

type activeSessionResponse struct {
	ID        string     `json:"id"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	StartedAt *time.Time `json:"started_at,omitempty"`
}

// GetActiveSession handles GET /api/v1/shippers/:shipperId/session.
func (s *Server) GetActiveSession(ctx echo.Context) error {
	shipperID, err := kernel.UUIDFromString(ctx.Param("shipperId"))
	if err != nil {
		return badRequest(ctx, "invalid shipper id")
	}

	query, err := queries.NewGetActiveSessionQuery(shipperID)
	if err != nil {
		return writeError(ctx, err)
	}

	view, err := s.getActiveSessionHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, activeSessionResponse{
		ID:        view.ID.String(),
		Status:    view.Status,
		CreatedAt: view.CreatedAt,
		StartedAt: view.StartedAt,
	})
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func optionalLocation(p *geoPoint) (*kernel.GeoLocation, error) {
	if p == nil {
		return nil, nil
	}
	location, err := kernel.NewGeoLocation(p.Lat, p.Lon)
	if err != nil {
		return nil, err
	}
	return &location, nil
}

func uuidStrings(ids []kernel.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// writeError maps domain errors to HTTP status codes. Conflicts cover the
// concurrency errors a client can resolve by re-reading current state.
func writeError(ctx echo.Context, err error) error {
	code := http.StatusInternalServerError

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		code = http.StatusNotFound
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		code = http.StatusBadRequest
	case errors.Is(err, errs.ErrInvalidTransition),
		errors.Is(err, errs.ErrDuplicateAssignment),
		errors.Is(err, errs.ErrTransferConflict),
		errors.Is(err, errs.ErrActiveSessionExists):
		code = http.StatusConflict
	case errors.Is(err, errs.ErrCollaboratorUnavailable):
		code = http.StatusServiceUnavailable
	}

	return ctx.JSON(code, ErrorResponse{Code: code, Message: err.Error()})
}
