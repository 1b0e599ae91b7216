// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/pokebinder/internal/client"
	"github.com/taibuivan/pokebinder/internal/core/binder"
	"github.com/taibuivan/pokebinder/internal/core/dragdrop"
	"github.com/taibuivan/pokebinder/internal/core/grid"
	"github.com/taibuivan/pokebinder/internal/platform/apperr"
	"github.com/taibuivan/pokebinder/internal/platform/middleware"
	"github.com/taibuivan/pokebinder/pkg/pagination"
	"github.com/taibuivan/pokebinder/pkg/pointer"
)

// setupServer serves the binder routes for a single demo owner.
func setupServer(t *testing.T) *client.Client {
	t.Helper()

	service := binder.NewService(binder.NewMemoryRepository(), nil, nil)

	router := chi.NewRouter()
	router.Use(middleware.DemoIdentity("ash"))
	router.Mount("/api/v1/binders", binder.NewHandler(service).Routes())

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return client.New(server.URL+"/api/v1/", client.WithTimeout(2*time.Second))
}

func TestClient_Protocol(t *testing.T) {
	api := setupServer(t)
	ctx := context.Background()

	created, err := api.Create(ctx, binder.CreateRequest{Name: "Base Set", Size: grid.Size3x3})
	require.NoError(t, err)
	assert.Equal(t, 9, len(created.Pages[0].Slots))

	placed, err := api.AddCard(ctx, created.ID, binder.AddCardRequest{CardID: "base1-4", CardName: "Charizard"})
	require.NoError(t, err)
	assert.Equal(t, 1, placed.TotalCards)

	moved, err := api.MoveCard(ctx, created.ID, grid.Address{Page: 1, Position: 0}, grid.Address{Page: 1, Position: 5})
	require.NoError(t, err)
	assert.True(t, moved.Pages[0].Slots[5].Occupied())

	paged, err := api.AddPage(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, paged.TotalPages)

	view, err := api.Page(ctx, "base-set", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Number)
	assert.True(t, view.HasNext)

	updated, err := api.Update(ctx, created.ID, binder.UpdateRequest{IsPublic: pointer.To(true)})
	require.NoError(t, err)
	assert.True(t, updated.IsPublic)

	summaries, meta, err := api.List(ctx, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, []string{"base1-4"}, summaries[0].PreviewCards)
	assert.Equal(t, 1, meta.Total)

	removed, err := api.RemoveCard(ctx, created.ID, grid.Address{Page: 1, Position: 5})
	require.NoError(t, err)
	assert.Equal(t, 0, removed.TotalCards)

	require.NoError(t, api.Delete(ctx, created.ID))
	_, err = api.Get(ctx, created.ID)
	assert.ErrorIs(t, err, binder.ErrNotFound)
}

/*
TestClient_RebuildsErrors checks that server errors keep their identity across the wire.
*/
func TestClient_RebuildsErrors(t *testing.T) {
	api := setupServer(t)
	ctx := context.Background()

	created, err := api.Create(ctx, binder.CreateRequest{Name: "Base Set", Size: grid.Size3x3})
	require.NoError(t, err)

	_, err = api.MoveCard(ctx, created.ID, grid.Address{Page: 1, Position: 0}, grid.Address{Page: 1, Position: 1})
	assert.ErrorIs(t, err, binder.ErrSourceEmpty)

	_, err = api.Create(ctx, binder.CreateRequest{Name: "", Size: "2x2"})
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
	assert.NotEmpty(t, ae.Details)
	assert.False(t, ae.Retryable())
}

func TestClient_TransportErrors(t *testing.T) {
	t.Run("unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		server.Close()

		_, err := client.New(server.URL).Get(context.Background(), "x")
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.True(t, ae.Retryable())
	})

	t.Run("bare_5xx", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			http.Error(writer, "bad gateway", http.StatusBadGateway)
		}))
		defer server.Close()

		_, err := client.New(server.URL).Get(context.Background(), "x")
		assert.True(t, apperr.As(err).Retryable())
	})

	t.Run("token_is_sent", func(t *testing.T) {
		var header string
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			header = request.Header.Get("Authorization")
			_, _ = writer.Write([]byte(`{"data":{"id":"b-1"}}`))
		}))
		defer server.Close()

		found, err := client.New(server.URL, client.WithToken("secret")).Get(context.Background(), "b-1")
		require.NoError(t, err)
		assert.Equal(t, "b-1", found.ID)
		assert.Equal(t, "Bearer secret", header)
	})
}

func TestClient_MoverDrivesController(t *testing.T) {
	api := setupServer(t)
	ctx := context.Background()

	created, err := api.Create(ctx, binder.CreateRequest{Name: "Jungle", Size: grid.Size4x4})
	require.NoError(t, err)
	_, err = api.AddCard(ctx, created.ID, binder.AddCardRequest{CardID: "jungle-1", CardName: "Clefable"})
	require.NoError(t, err)

	view, err := api.Page(ctx, created.ID, 1)
	require.NoError(t, err)

	controller := dragdrop.NewController(api.Mover(created.ID), nil)
	payload, err := controller.Start(view.Slots[0], dragdrop.Point{}, dragdrop.Rect{})
	require.NoError(t, err)

	result, err := controller.Drop(ctx, payload, view.Slots[15])
	require.NoError(t, err)
	require.Equal(t, dragdrop.Moved, result.Outcome)

	after, ok := binder.ResolvePage(result.Binder, 1)
	require.True(t, ok)
	assert.False(t, after.Slots[0].Occupied())
	assert.Equal(t, "jungle-1", after.Slots[15].Card.CardID)
}
