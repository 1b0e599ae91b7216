// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package binder_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/pokebinder/internal/core/binder"
	"github.com/taibuivan/pokebinder/internal/core/grid"
	"github.com/taibuivan/pokebinder/internal/platform/ctxutil"
	"github.com/taibuivan/pokebinder/internal/platform/respond"
	"github.com/taibuivan/pokebinder/internal/platform/sec"
	"github.com/taibuivan/pokebinder/pkg/pagination"
)

type envelope[T any] struct {
	Data T               `json:"data"`
	Meta pagination.Meta `json:"meta"`
}

// call performs one request as userID ("" for anonymous) and returns the recorder.
func call(t *testing.T, handler http.Handler, userID, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	request := httptest.NewRequest(method, path, reader)
	if userID != "" {
		request = request.WithContext(ctxutil.WithAuthUser(request.Context(), &sec.AuthClaims{UserID: userID}))
	}

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func decode[T any](t *testing.T, recorder *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var out envelope[T]
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &out), recorder.Body.String())
	return out
}

func errorCode(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()
	var out respond.ErrorEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &out), recorder.Body.String())
	return out.Code
}

func newRouter(t *testing.T) http.Handler {
	return binder.NewHandler(newService(t, nil)).Routes()
}

/*
TestHandler_Lifecycle drives the whole binder protocol over HTTP.
*/
func TestHandler_Lifecycle(t *testing.T) {
	router := newRouter(t)

	// Create
	recorder := call(t, router, ash, http.MethodPost, "/", binder.CreateRequest{Name: "Base Set", Size: grid.Size3x3})
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	created := decode[binder.Binder](t, recorder).Data
	assert.Equal(t, 1, created.TotalPages)
	assert.Equal(t, "base-set", created.Slug)
	id := created.ID

	// Get by id and by slug
	recorder = call(t, router, ash, http.MethodGet, "/"+id, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	recorder = call(t, router, ash, http.MethodGet, "/base-set", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, id, decode[binder.Binder](t, recorder).Data.ID)

	// Add a card without a position
	recorder = call(t, router, ash, http.MethodPost, "/"+id+"/cards", binder.AddCardRequest{CardID: "base1-4", CardName: "Charizard"})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	placed := decode[binder.Binder](t, recorder).Data
	require.True(t, placed.Pages[0].Slots[0].Occupied())
	assert.Equal(t, 1, placed.TotalCards)

	// Move it
	recorder = call(t, router, ash, http.MethodPatch, "/"+id+"/cards/move", binder.MoveCardBody{
		SourcePage: 1, SourcePosition: 0, DestinationPage: 1, DestinationPosition: 5,
	})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	moved := decode[binder.Binder](t, recorder).Data
	assert.False(t, moved.Pages[0].Slots[0].Occupied())
	assert.Equal(t, "base1-4", moved.Pages[0].Slots[5].Card.CardID)

	// Add a page and view it, clamped
	recorder = call(t, router, ash, http.MethodPost, "/"+id+"/pages", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, 2, decode[binder.Binder](t, recorder).Data.TotalPages)

	recorder = call(t, router, ash, http.MethodGet, "/"+id+"/pages/99", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	view := decode[binder.PageView](t, recorder).Data
	assert.Equal(t, 2, view.Number)
	assert.Len(t, view.Slots, 9)

	// Remove the card
	recorder = call(t, router, ash, http.MethodDelete, "/"+id+"/cards", binder.RemoveCardBody{PageNumber: 1, Position: 5})
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, 0, decode[binder.Binder](t, recorder).Data.TotalCards)

	// Rename
	recorder = call(t, router, ash, http.MethodPatch, "/"+id, map[string]any{"name": "Jungle"})
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "jungle", decode[binder.Binder](t, recorder).Data.Slug)

	// List
	recorder = call(t, router, ash, http.MethodGet, "/?limit=5", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	listed := decode[[]binder.Summary](t, recorder)
	assert.Len(t, listed.Data, 1)
	assert.Equal(t, 1, listed.Meta.Total)
	assert.Equal(t, 5, listed.Meta.Limit)

	// Delete
	recorder = call(t, router, ash, http.MethodDelete, "/"+id, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"data":{"success":true}}`, recorder.Body.String())

	recorder = call(t, router, ash, http.MethodGet, "/"+id, nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestHandler_Errors(t *testing.T) {
	router := newRouter(t)

	recorder := call(t, router, ash, http.MethodPost, "/", binder.CreateRequest{Name: "Base Set", Size: grid.Size3x3})
	require.Equal(t, http.StatusCreated, recorder.Code)
	id := decode[binder.Binder](t, recorder).Data.ID

	recorder = call(t, router, ash, http.MethodPost, "/"+id+"/cards", binder.AddCardRequest{CardID: "base1-4", CardName: "Charizard"})
	require.Equal(t, http.StatusOK, recorder.Code)

	tests := []struct {
		name       string
		userID     string
		method     string
		path       string
		body       any
		wantStatus int
		wantCode   string
	}{
		{"anonymous", "", http.MethodGet, "/", nil, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"invalid_size", ash, http.MethodPost, "/", binder.CreateRequest{Name: "X", Size: "6x6"}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"foreign_binder", misty, http.MethodGet, "/" + id, nil, http.StatusNotFound, "NOT_FOUND"},
		{"missing_binder", ash, http.MethodPost, "/0192e4a0-7b1a-7cde-8f00-1234567890ab/pages", nil, http.StatusNotFound, "NOT_FOUND"},
		{"slot_occupied", ash, http.MethodPost, "/" + id + "/cards", map[string]any{"card_id": "x", "card_name": "X", "position": 0}, http.StatusConflict, "SLOT_OCCUPIED"},
		{"slot_empty", ash, http.MethodDelete, "/" + id + "/cards", binder.RemoveCardBody{PageNumber: 1, Position: 3}, http.StatusConflict, "SLOT_EMPTY"},
		{"source_empty", ash, http.MethodPatch, "/" + id + "/cards/move", binder.NewMoveCardBody(grid.Address{Page: 1, Position: 4}, grid.Address{Page: 1, Position: 5}), http.StatusConflict, "SOURCE_EMPTY"},
		{"slot_address", ash, http.MethodPatch, "/" + id + "/cards/move", binder.NewMoveCardBody(grid.Address{Page: 1, Position: 0}, grid.Address{Page: 2, Position: 0}), http.StatusConflict, "SLOT_ADDRESS"},
		{"bad_page_param", ash, http.MethodGet, "/" + id + "/pages/two", nil, http.StatusBadRequest, "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := call(t, router, tt.userID, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, recorder.Code, recorder.Body.String())
			assert.Equal(t, tt.wantCode, errorCode(t, recorder))
		})
	}

	t.Run("malformed_json", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
		request = request.WithContext(ctxutil.WithAuthUser(request.Context(), &sec.AuthClaims{UserID: ash}))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, "VALIDATION_ERROR", errorCode(t, recorder))
	})
}

func TestMoveCardBody(t *testing.T) {
	body := binder.NewMoveCardBody(grid.Address{Page: 1, Position: 0}, grid.Address{Page: 2, Position: 8})

	raw, err := json.Marshal(body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"source_page":1,"source_position":0,"destination_page":2,"destination_position":8}`, string(raw))

	request := body.MoveRequest()
	assert.Equal(t, grid.Address{Page: 2, Position: 8}, request.Destination)
}
