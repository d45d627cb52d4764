package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/notevault/internal/client/client"
	"github.com/dmitrijs2005/notevault/internal/client/models"
	"github.com/dmitrijs2005/notevault/internal/common"
	"github.com/dmitrijs2005/notevault/internal/cryptox"
	"github.com/dmitrijs2005/notevault/internal/filex"
	"github.com/dmitrijs2005/notevault/internal/netx"
)

// ItemService seals notes on the client before they leave the machine and
// opens them after download. The server only ever sees titles and blobs.
type ItemService interface {
	Save(ctx context.Context, title string, note models.Note, itemPassword []byte) (*models.Item, error)
	Edit(ctx context.Context, id, title string, note models.Note, itemPassword []byte) (*models.Item, error)
	List(ctx context.Context) ([]*models.Item, error)
	Open(ctx context.Context, id string, itemPassword []byte) (*models.Item, *models.Note, error)
	Delete(ctx context.Context, id string) error
	Export(ctx context.Context, dir string) (string, *models.ExportLink, error)
}

type itemService struct {
	client client.Client
}

func NewItemService(client client.Client) ItemService {
	return &itemService{client: client}
}

// seams for tests
var (
	download = netx.DownloadFromPresignedURL
	now      = time.Now
)

func (s *itemService) Save(ctx context.Context, title string, note models.Note, itemPassword []byte) (*models.Item, error) {

	blob, err := seal(note, itemPassword)
	if err != nil {
		return nil, err
	}

	item, err := s.client.SaveItem(ctx, title, blob)
	if err != nil {
		return nil, fmt.Errorf("saving error: %w", err)
	}

	return item, nil

}

func (s *itemService) Edit(ctx context.Context, id, title string, note models.Note, itemPassword []byte) (*models.Item, error) {

	blob, err := seal(note, itemPassword)
	if err != nil {
		return nil, err
	}

	item, err := s.client.UpdateItem(ctx, id, title, blob)
	if err != nil {
		return nil, fmt.Errorf("update error: %w", err)
	}

	return item, nil

}

func (s *itemService) List(ctx context.Context) ([]*models.Item, error) {

	items, err := s.client.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list error: %w", err)
	}

	return items, nil

}

// Open fetches an item and decrypts it. A wrong password and a damaged blob
// both yield common.ErrDecryptionFailed.
func (s *itemService) Open(ctx context.Context, id string, itemPassword []byte) (*models.Item, *models.Note, error) {

	item, err := s.client.GetItem(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("error retrieving item: %w", err)
	}

	plaintext, err := cryptox.Decrypt(item.Blob, string(itemPassword))
	if err != nil {
		return nil, nil, err
	}
	defer common.WipeByteArray(plaintext)

	var note models.Note
	if err := json.Unmarshal(plaintext, &note); err != nil {
		return nil, nil, common.ErrDecryptionFailed
	}

	return item, &note, nil

}

func (s *itemService) Delete(ctx context.Context, id string) error {

	if err := s.client.DeleteItem(ctx, id); err != nil {
		return fmt.Errorf("error deleting item: %w", err)
	}

	return nil

}

// Export asks the server for a vault archive, downloads it from the
// presigned URL and writes it under dir. It returns the written path.
func (s *itemService) Export(ctx context.Context, dir string) (string, *models.ExportLink, error) {

	link, err := s.client.ExportItems(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("export error: %w", err)
	}

	data, err := download(ctx, link.URL)
	if err != nil {
		return "", nil, fmt.Errorf("download error: %w", err)
	}

	name := fmt.Sprintf("notevault-export-%s.json", now().UTC().Format("20060102-150405"))
	path, err := filex.WritePrivate(dir, name, data)
	if err != nil {
		return "", nil, fmt.Errorf("write error: %w", err)
	}

	return path, link, nil

}

func seal(note models.Note, itemPassword []byte) (string, error) {
	plaintext, err := json.Marshal(note)
	if err != nil {
		return "", fmt.Errorf("encode error: %w", err)
	}
	defer common.WipeByteArray(plaintext)

	blob, err := cryptox.Encrypt(plaintext, string(itemPassword))
	if err != nil {
		return "", fmt.Errorf("encryption error: %w", err)
	}
	return blob, nil
}
