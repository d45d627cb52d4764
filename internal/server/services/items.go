package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/notevault/internal/common"
	"github.com/dmitrijs2005/notevault/internal/cryptox"
	sc "github.com/dmitrijs2005/notevault/internal/server/config"
	"github.com/dmitrijs2005/notevault/internal/server/models"
	"github.com/dmitrijs2005/notevault/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	MaxTitleLength = 200
	// MaxBlobSize bounds the encoded ciphertext of a single item.
	MaxBlobSize = 1 << 20

	ExportLinkValidity = 15 * time.Minute
	exportFormat       = 1
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// Export is a finished vault export: a short-lived download link to the
// uploaded archive.
type Export struct {
	URL       string
	Key       string
	ExpiresAt time.Time
	Items     int
}

// ExportArchive is the JSON document written by Export. Blobs stay
// encrypted; only the owner's item passwords open them.
type ExportArchive struct {
	Format     int          `json:"format"`
	UserID     string       `json:"user_id"`
	ExportedAt time.Time    `json:"exported_at"`
	Items      []ExportItem `json:"items"`
}

type ExportItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Blob      string    `json:"blob"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ItemService stores encrypted notes on behalf of their owners. The server
// only checks that a blob is well formed; it never holds a key.
type ItemService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	activity    *ActivityService
	now         func() time.Time
}

func NewItemService(db *sql.DB, repomanager repomanager.RepositoryManager, config *sc.Config, activity *ActivityService) *ItemService {
	return &ItemService{
		db:          db,
		repomanager: repomanager,
		config:      config,
		activity:    activity,
		now:         time.Now,
	}
}

func (s *ItemService) Save(ctx context.Context, userID, title, blob string) (*models.Item, error) {
	title, err := checkItem(title, blob)
	if err != nil {
		return nil, err
	}

	item := &models.Item{
		ID:     uuid.NewString(),
		UserID: userID,
		Title:  title,
		Blob:   blob,
	}
	if err := s.repomanager.Items(s.db).Create(ctx, item); err != nil {
		return nil, fmt.Errorf("%w: create item: %v", common.ErrorInternal, err)
	}
	return item, nil
}

func (s *ItemService) Update(ctx context.Context, userID, id, title, blob string) (*models.Item, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}
	title, err := checkItem(title, blob)
	if err != nil {
		return nil, err
	}

	item := &models.Item{ID: id, UserID: userID, Title: title, Blob: blob}
	if err := s.repomanager.Items(s.db).Update(ctx, item); err != nil {
		return nil, itemError(err)
	}
	return item, nil
}

func (s *ItemService) Get(ctx context.Context, userID, id string) (*models.Item, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}
	item, err := s.repomanager.Items(s.db).Get(ctx, userID, id)
	if err != nil {
		return nil, itemError(err)
	}
	return item, nil
}

// List returns the owner's items, newest first.
func (s *ItemService) List(ctx context.Context, userID string) ([]*models.Item, error) {
	list, err := s.repomanager.Items(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list items: %v", common.ErrorInternal, err)
	}
	return list, nil
}

func (s *ItemService) Delete(ctx context.Context, userID, id string) error {
	if !validID(id) {
		return common.ErrorNotFound
	}
	if err := s.repomanager.Items(s.db).Delete(ctx, userID, id); err != nil {
		return itemError(err)
	}
	return nil
}

// Export uploads all of the owner's items as one JSON archive and returns a
// presigned link to download it.
func (s *ItemService) Export(ctx context.Context, userID string) (*Export, error) {
	list, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	archive := ExportArchive{
		Format:     exportFormat,
		UserID:     userID,
		ExportedAt: now,
		Items:      make([]ExportItem, 0, len(list)),
	}
	for _, it := range list {
		archive.Items = append(archive.Items, ExportItem{
			ID:        it.ID,
			Title:     it.Title,
			Blob:      it.Blob,
			CreatedAt: it.CreatedAt,
			UpdatedAt: it.UpdatedAt,
		})
	}

	body, err := json.MarshalIndent(archive, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: encode export: %v", common.ErrorInternal, err)
	}

	client, err := s.getS3Client(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: s3 client: %v", common.ErrorInternal, err)
	}

	bucket := s.config.S3Bucket
	key := exportKey(userID, now)

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: upload export: %v", common.ErrorInternal, err)
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ExportLinkValidity))
	if err != nil {
		return nil, fmt.Errorf("%w: presign export: %v", common.ErrorInternal, err)
	}

	s.activity.Record(ctx, userID, models.ActionItemsExported)

	return &Export{
		URL:       req.URL,
		Key:       key,
		ExpiresAt: now.Add(ExportLinkValidity),
		Items:     len(archive.Items),
	}, nil
}

// --- helpers below ---

func (s *ItemService) getS3Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,     // MINIO_ROOT_USER
			s.config.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

func exportKey(userID string, d time.Time) string {
	return fmt.Sprintf("exports/%s/%d/%d/%d/%v.json", userID, d.Year(), d.Month(), d.Day(), uuid.New())
}

// checkItem returns the trimmed title, or ErrorValidation when the title or
// the blob is unacceptable.
func checkItem(title, blob string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" || utf8.RuneCountInString(title) > MaxTitleLength {
		return "", fmt.Errorf("%w: title must be 1-%d characters", common.ErrorValidation, MaxTitleLength)
	}
	if len(blob) > MaxBlobSize {
		return "", fmt.Errorf("%w: item too large", common.ErrorValidation)
	}
	if err := cryptox.Inspect(blob); err != nil {
		return "", err
	}
	return title, nil
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func itemError(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrorNotFound
	}
	return fmt.Errorf("%w: %v", common.ErrorInternal, err)
}
