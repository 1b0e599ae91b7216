// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"context"

	"github.com/taibuivan/pokebinder/internal/core/binder"
	"github.com/taibuivan/pokebinder/internal/core/dragdrop"
	"github.com/taibuivan/pokebinder/internal/core/grid"
	"github.com/taibuivan/pokebinder/pkg/pagination"
)

// LocalBackend runs the shell against an in-process binder service, acting as
// a single fixed user. binderctl uses it for offline mode.
type LocalBackend struct {
	service *binder.Service
	userID  string
}

// NewLocalBackend creates a backend that acts as userID.
func NewLocalBackend(service *binder.Service, userID string) *LocalBackend {
	return &LocalBackend{service: service, userID: userID}
}

func (backend *LocalBackend) List(ctx context.Context, params pagination.Params) ([]binder.Summary, pagination.Meta, error) {
	summaries, total, err := backend.service.ListBinders(ctx, backend.userID, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return summaries, pagination.NewMeta(params.Page, params.Limit, total), nil
}

func (backend *LocalBackend) Create(ctx context.Context, request binder.CreateRequest) (*binder.Binder, error) {
	return backend.service.CreateBinder(ctx, backend.userID, request)
}

func (backend *LocalBackend) Get(ctx context.Context, identifier string) (*binder.Binder, error) {
	return backend.service.GetBinder(ctx, backend.userID, identifier)
}

func (backend *LocalBackend) Update(ctx context.Context, id string, request binder.UpdateRequest) (*binder.Binder, error) {
	return backend.service.UpdateBinder(ctx, backend.userID, id, request)
}

func (backend *LocalBackend) Delete(ctx context.Context, id string) error {
	return backend.service.DeleteBinder(ctx, backend.userID, id)
}

func (backend *LocalBackend) AddPage(ctx context.Context, id string) (*binder.Binder, error) {
	return backend.service.AddPage(ctx, backend.userID, id)
}

func (backend *LocalBackend) Page(ctx context.Context, identifier string, page int) (binder.PageView, error) {
	return backend.service.GetPage(ctx, backend.userID, identifier, page)
}

func (backend *LocalBackend) AddCard(ctx context.Context, id string, request binder.AddCardRequest) (*binder.Binder, error) {
	return backend.service.AddCard(ctx, backend.userID, id, request)
}

func (backend *LocalBackend) RemoveCard(ctx context.Context, id string, address grid.Address) (*binder.Binder, error) {
	return backend.service.RemoveCard(ctx, backend.userID, id, address)
}

func (backend *LocalBackend) MoveCard(ctx context.Context, id string, source, destination grid.Address) (*binder.Binder, error) {
	return backend.service.MoveCard(ctx, backend.userID, id, binder.MoveRequest{Source: source, Destination: destination})
}

// Mover binds card moves to one binder.
func (backend *LocalBackend) Mover(id string) dragdrop.Mover {
	return dragdrop.MoverFunc(func(ctx context.Context, source, destination grid.Address) (*binder.Binder, error) {
		return backend.MoveCard(ctx, id, source, destination)
	})
}
