// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package binder exposes the binder store contract over HTTP.

# Routing Strategy

Every route is scoped to the caller resolved by the identity middleware. Reads
accept a binder id or the caller's slug; mutations take the binder id.

The handler translates between the JSON layer and the domain [Service].
*/
package binder

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/pokebinder/internal/core/grid"
	requestutil "github.com/taibuivan/pokebinder/internal/platform/request"
	"github.com/taibuivan/pokebinder/internal/platform/respond"
	"github.com/taibuivan/pokebinder/pkg/pagination"
)

// # Request Bodies

// RemoveCardBody addresses the slot to clear.
type RemoveCardBody struct {
	PageNumber int `json:"page_number"`
	Position   int `json:"position"`
}

// MoveCardBody is the flat wire shape of a [MoveRequest].
type MoveCardBody struct {
	SourcePage          int `json:"source_page"`
	SourcePosition      int `json:"source_position"`
	DestinationPage     int `json:"destination_page"`
	DestinationPosition int `json:"destination_position"`
}

// MoveRequest converts the body into the domain request.
func (body MoveCardBody) MoveRequest() MoveRequest {
	return MoveRequest{
		Source:      grid.Address{Page: body.SourcePage, Position: body.SourcePosition},
		Destination: grid.Address{Page: body.DestinationPage, Position: body.DestinationPosition},
	}
}

// NewMoveCardBody flattens a move for the wire.
func NewMoveCardBody(source, destination grid.Address) MoveCardBody {
	return MoveCardBody{
		SourcePage:          source.Page,
		SourcePosition:      source.Position,
		DestinationPage:     destination.Page,
		DestinationPosition: destination.Position,
	}
}

// # Handler Implementation

// Handler implements the HTTP layer for binders.
type Handler struct {
	service *Service
}

// NewHandler constructs a new binder [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the binder endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Binders
	router.Get("/", handler.listBinders)
	router.Post("/", handler.createBinder)
	router.Get("/{id}", handler.getBinder)
	router.Patch("/{id}", handler.updateBinder)
	router.Delete("/{id}", handler.deleteBinder)

	// ## Pages
	router.Post("/{id}/pages", handler.addPage)
	router.Get("/{id}/pages/{page}", handler.getPage)

	// ## Cards
	router.Post("/{id}/cards", handler.addCard)
	router.Delete("/{id}/cards", handler.removeCard)
	router.Patch("/{id}/cards/move", handler.moveCard)

	return router
}

// # Binder Endpoints

func (handler *Handler) listBinders(writer http.ResponseWriter, request *http.Request) {
	callerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	summaries, total, err := handler.service.ListBinders(request.Context(), callerID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, summaries, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) createBinder(writer http.ResponseWriter, request *http.Request) {
	callerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body CreateRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	binder, err := handler.service.CreateBinder(request.Context(), callerID, body)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, binder)
}

func (handler *Handler) getBinder(writer http.ResponseWriter, request *http.Request) {
	callerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	binder, err := handler.service.GetBinder(request.Context(), callerID, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, binder)
}

func (handler *Handler) updateBinder(writer http.ResponseWriter, request *http.Request) {
	callerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body UpdateRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	binder, err := handler.service.UpdateBinder(request.Context(), callerID, requestutil.ID(request, "id"), body)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, binder)
}

func (handler *Handler) deleteBinder(writer http.ResponseWriter, request *http.Request) {
	callerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteBinder(request.Context(), callerID, requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]bool{FieldSuccess: true})
}

// # Page Endpoints

func (handler *Handler) addPage(writer http.ResponseWriter, request *http.Request) {
	callerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	binder, err := handler.service.AddPage(request.Context(), callerID, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, binder)
}

func (handler *Handler) getPage(writer http.ResponseWriter, request *http.Request) {
	callerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page, err := requestutil.IntParam(request, "page", FieldPageNumber)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.service.GetPage(request.Context(), callerID, requestutil.ID(request, "id"), page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}

// # Card Endpoints

func (handler *Handler) addCard(writer http.ResponseWriter, request *http.Request) {
	callerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body AddCardRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	binder, err := handler.service.AddCard(request.Context(), callerID, requestutil.ID(request, "id"), body)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, binder)
}

func (handler *Handler) removeCard(writer http.ResponseWriter, request *http.Request) {
	callerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body RemoveCardBody
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	address := grid.Address{Page: body.PageNumber, Position: body.Position}
	binder, err := handler.service.RemoveCard(request.Context(), callerID, requestutil.ID(request, "id"), address)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, binder)
}

func (handler *Handler) moveCard(writer http.ResponseWriter, request *http.Request) {
	callerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body MoveCardBody
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	binder, err := handler.service.MoveCard(request.Context(), callerID, requestutil.ID(request, "id"), body.MoveRequest())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, binder)
}
