package grpc

import (
	"context"

	"github.com/dmitrijs2005/notevault/internal/api"
	"github.com/dmitrijs2005/notevault/internal/server/models"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

func (s *GRPCServer) SaveItem(ctx context.Context, req *api.SaveItemRequest) (*api.ItemResponse, error) {

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, s.fail(ctx, "save item", err)
	}

	item, err := s.items.Save(ctx, userID, req.Title, req.Blob)
	if err != nil {
		return nil, s.fail(ctx, "save item", err)
	}

	return &api.ItemResponse{Item: toItem(item, false)}, nil

}

func (s *GRPCServer) UpdateItem(ctx context.Context, req *api.UpdateItemRequest) (*api.ItemResponse, error) {

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, s.fail(ctx, "update item", err)
	}

	item, err := s.items.Update(ctx, userID, req.ID, req.Title, req.Blob)
	if err != nil {
		return nil, s.fail(ctx, "update item", err)
	}

	return &api.ItemResponse{Item: toItem(item, false)}, nil

}

func (s *GRPCServer) GetItem(ctx context.Context, req *api.ItemRequest) (*api.ItemResponse, error) {

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, s.fail(ctx, "get item", err)
	}

	item, err := s.items.Get(ctx, userID, req.ID)
	if err != nil {
		return nil, s.fail(ctx, "get item", err)
	}

	return &api.ItemResponse{Item: toItem(item, true)}, nil

}

// ListItems returns titles and timestamps only; blobs are fetched one at a
// time with GetItem.
func (s *GRPCServer) ListItems(ctx context.Context, req *emptypb.Empty) (*api.ListItemsResponse, error) {

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, s.fail(ctx, "list items", err)
	}

	list, err := s.items.List(ctx, userID)
	if err != nil {
		return nil, s.fail(ctx, "list items", err)
	}

	resp := &api.ListItemsResponse{Items: make([]*api.Item, 0, len(list))}
	for _, it := range list {
		resp.Items = append(resp.Items, toItem(it, false))
	}
	return resp, nil

}

func (s *GRPCServer) DeleteItem(ctx context.Context, req *api.ItemRequest) (*emptypb.Empty, error) {

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, s.fail(ctx, "delete item", err)
	}

	if err := s.items.Delete(ctx, userID, req.ID); err != nil {
		return nil, s.fail(ctx, "delete item", err)
	}

	return &emptypb.Empty{}, nil

}

func (s *GRPCServer) ExportItems(ctx context.Context, req *emptypb.Empty) (*api.ExportItemsResponse, error) {

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, s.fail(ctx, "export items", err)
	}

	exp, err := s.items.Export(ctx, userID)
	if err != nil {
		return nil, s.fail(ctx, "export items", err)
	}

	s.logger.Info(ctx, "Items exported", "user_id", userID, "key", exp.Key, "items", exp.Items)
	return &api.ExportItemsResponse{
		URL:       exp.URL,
		ItemCount: int32(exp.Items),
		ExpiresAt: timestamppb.New(exp.ExpiresAt),
	}, nil

}

func toItem(it *models.Item, withBlob bool) *api.Item {
	out := &api.Item{
		ID:        it.ID,
		Title:     it.Title,
		CreatedAt: timestamppb.New(it.CreatedAt),
		UpdatedAt: timestamppb.New(it.UpdatedAt),
	}
	if withBlob {
		out.Blob = it.Blob
	}
	return out
}

func toActivityEntry(a *models.Activity) *api.ActivityEntry {
	return &api.ActivityEntry{
		ID:        a.ID,
		Action:    a.Action,
		IP:        a.IP,
		UserAgent: a.UserAgent,
		CreatedAt: timestamppb.New(a.CreatedAt),
	}
}
